package sources

import (
	"strconv"
	"strings"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
)

// InferColumnType выводит тип колонки по строковым значениям выборки.
// Используется файловыми источниками (XLSX, CSV), где типов нет.
// Пустые значения не участвуют в выводе; колонка только из пустых
// значений считается строковой.
func InferColumnType(values []string) schema.DataType {
	seen := 0
	allBool := true
	allFloat := true
	allInt := true

	for _, v := range values {
		if v == "" {
			continue
		}
		seen++

		if !isBoolLiteral(v) {
			allBool = false
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			allInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
		}
	}

	switch {
	case seen == 0:
		return schema.TypeString
	case allBool:
		return schema.TypeBoolean
	case allInt:
		return schema.TypeBigInt
	case allFloat:
		return schema.TypeDouble
	default:
		return schema.TypeString
	}
}

func isBoolLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	default:
		return false
	}
}

// ConvertCell приводит строковое значение к выведенному типу колонки.
// Пустая ячейка становится null.
func ConvertCell(v string, t schema.DataType) any {
	if v == "" {
		return nil
	}
	switch t {
	case schema.TypeBoolean:
		return strings.EqualFold(v, "true")
	case schema.TypeBigInt:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		return v
	case schema.TypeDouble:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		return v
	default:
		return v
	}
}
