package schema

// Типы колонок Power BI push-датасета
const (
	PBIBoolean  = "Boolean"
	PBIInt64    = "Int64"
	PBIDouble   = "Double"
	PBIDateTime = "dateTime"
	PBIString   = "String"
)

// fieldTypeMap - закрытая таблица соответствия типов источника типам Power BI
var fieldTypeMap = map[DataType]string{
	TypeBoolean:  PBIBoolean,
	TypeTinyInt:  PBIInt64,
	TypeSmallInt: PBIInt64,
	TypeInt:      PBIInt64,
	TypeBigInt:   PBIInt64,
	TypeFloat:    PBIDouble,
	TypeDouble:   PBIDouble,
	TypeDate:     PBIDateTime,
	TypeString:   PBIString,
	TypeArray:    PBIString,
	TypeMap:      PBIString,
	TypeObject:   PBIString,
}

// MapToPowerBI возвращает тип колонки Power BI для типа источника.
// Неизвестные типы деградируют до String - Power BI принимает любое
// значение как строку, это безопасный дефолт.
func MapToPowerBI(t DataType) string {
	if pbi, ok := fieldTypeMap[t]; ok {
		return pbi
	}
	return PBIString
}
