package schema

// DataType представляет тип данных колонки источника
type DataType string

// Поддерживаемые типы данных источника (DSS-совместимый набор)
const (
	TypeBoolean  DataType = "boolean"
	TypeTinyInt  DataType = "tinyint"
	TypeSmallInt DataType = "smallint"
	TypeInt      DataType = "int"
	TypeBigInt   DataType = "bigint"
	TypeFloat    DataType = "float"
	TypeDouble   DataType = "double"
	TypeDate     DataType = "date"
	TypeString   DataType = "string"
	TypeArray    DataType = "array"
	TypeMap      DataType = "map"
	TypeObject   DataType = "object"
)

// Column - колонка схемы источника
type Column struct {
	// Name - имя колонки (станет именем колонки в Power BI таблице)
	Name string

	// Type - тип данных источника
	Type DataType
}

// Schema - упорядоченная схема таблицы источника
// Неизменяема после передачи в Exporter.Open()
type Schema struct {
	Columns []Column
}

// Len возвращает количество колонок
func (s *Schema) Len() int {
	return len(s.Columns)
}

// ColumnNames возвращает имена колонок в порядке схемы
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// FormattableColumns возвращает имена date- и boolean-колонок схемы.
// Эти множества вычисляются один раз и определяют, нужна ли
// трансформация значений перед сериализацией строк.
func (s *Schema) FormattableColumns() (dateCols, boolCols []string) {
	for _, col := range s.Columns {
		switch col.Type {
		case TypeDate:
			dateCols = append(dateCols, col.Name)
		case TypeBoolean:
			boolCols = append(boolCols, col.Name)
		}
	}
	return dateCols, boolCols
}
