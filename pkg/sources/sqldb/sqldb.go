// Package sqldb реализует источник строк поверх database/sql.
// Один адаптер обслуживает SQLite, PostgreSQL, MySQL и MS SQL Server -
// различия сводятся к имени драйвера и выводу типов колонок.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
	"github.com/ruslano69/tdtp-powerbi/pkg/sources"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// driverNames - соответствие типа источника имени зарегистрированного драйвера
var driverNames = map[string]string{
	"sqlite":   "sqlite",
	"postgres": "pgx",
	"mysql":    "mysql",
	"mssql":    "sqlserver",
}

func init() {
	for sourceType := range driverNames {
		t := sourceType
		sources.Register(t, func() sources.Source {
			return &Source{sourceType: t}
		})
	}
}

// Source - источник строк из реляционной БД.
// Запрос выполняется один раз при первом обращении к Schema;
// Rows дочитывает тот же результат.
type Source struct {
	sourceType string
	db         *sql.DB
	rows       *sql.Rows
	schema     *schema.Schema
}

// Open устанавливает подключение к БД
func (s *Source) Open(ctx context.Context, cfg sources.Config) error {
	driver, ok := driverNames[cfg.Type]
	if !ok {
		return fmt.Errorf("unsupported database type: %q", cfg.Type)
	}

	db, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("ping database: %w", err)
	}

	query := cfg.Query
	if query == "" {
		if cfg.Table == "" {
			db.Close()
			return fmt.Errorf("either table or query must be set")
		}
		query = "SELECT * FROM " + cfg.Table
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		db.Close()
		return fmt.Errorf("execute query: %w", err)
	}

	s.db = db
	s.rows = rows
	return nil
}

// Schema строит схему из метаданных результата запроса
func (s *Source) Schema(ctx context.Context) (*schema.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	if s.rows == nil {
		return nil, fmt.Errorf("source is not open")
	}

	columnTypes, err := s.rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read column types: %w", err)
	}

	columns := make([]schema.Column, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = schema.Column{
			Name: ct.Name(),
			Type: mapColumnType(ct.DatabaseTypeName()),
		}
	}
	s.schema = &schema.Schema{Columns: columns}
	return s.schema, nil
}

// Rows вычитывает результат запроса и отдает строки позиционно
func (s *Source) Rows(ctx context.Context, fn func(row []any) error) error {
	if s.rows == nil {
		return fmt.Errorf("source is not open")
	}
	sch, err := s.Schema(ctx)
	if err != nil {
		return err
	}
	n := sch.Len()

	for s.rows.Next() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		values := make([]any, n)
		ptrs := make([]any, n)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := s.rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}

		row := make([]any, n)
		for i, v := range values {
			row[i] = normalizeValue(v)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return s.rows.Err()
}

// Close закрывает результат запроса и подключение
func (s *Source) Close() error {
	if s.rows != nil {
		s.rows.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// mapColumnType отображает тип СУБД в тип схемы источника.
// Покрывает SQLite, PostgreSQL, MySQL и MS SQL; неизвестные типы
// деградируют до string.
func mapColumnType(dbType string) schema.DataType {
	switch strings.ToUpper(dbType) {
	case "BOOL", "BOOLEAN", "BIT":
		return schema.TypeBoolean
	case "TINYINT":
		return schema.TypeTinyInt
	case "SMALLINT", "INT2":
		return schema.TypeSmallInt
	case "INT", "INTEGER", "INT4", "MEDIUMINT":
		return schema.TypeInt
	case "BIGINT", "INT8":
		return schema.TypeBigInt
	case "REAL", "FLOAT4":
		return schema.TypeFloat
	case "FLOAT", "FLOAT8", "DOUBLE", "NUMERIC", "DECIMAL", "MONEY":
		return schema.TypeDouble
	case "DATE", "DATETIME", "DATETIME2", "SMALLDATETIME", "DATETIMEOFFSET",
		"TIMESTAMP", "TIMESTAMPTZ":
		return schema.TypeDate
	case "JSON", "JSONB":
		return schema.TypeObject
	default:
		return schema.TypeString
	}
}

// normalizeValue приводит значение драйвера к типам, ожидаемым энкодером:
// []byte -> string, time.Time проходит как есть (для date-колонок).
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val
	default:
		return v
	}
}
