package powerbi

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// rowEncoder сериализует буфер строк в тело запроса вставки
type rowEncoder interface {
	Encode(rows []map[string]any) ([]byte, error)
}

// plainEncoder - прямая JSON-сериализация (в схеме нет date/boolean колонок)
type plainEncoder struct{}

func (plainEncoder) Encode(rows []map[string]any) ([]byte, error) {
	return json.Marshal(rows)
}

// formattingEncoder трансформирует значения date- и boolean-колонок
// перед сериализацией:
//   - date: time.Time -> ISO-8601 строка, нулевое время ("not-a-time") -> null
//   - boolean: NaN-сентинел -> null (отличаем "отсутствует" от false)
type formattingEncoder struct {
	dateCols []string
	boolCols []string
}

func (e *formattingEncoder) Encode(rows []map[string]any) ([]byte, error) {
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		converted := make(map[string]any, len(row))
		for k, v := range row {
			converted[k] = v
		}
		for _, col := range e.dateCols {
			v, err := convertDate(converted[col])
			if err != nil {
				return nil, fmt.Errorf("%w: column %q: %s", ErrFormat, col, err.Error())
			}
			converted[col] = v
		}
		for _, col := range e.boolCols {
			converted[col] = convertBoolean(converted[col])
		}
		out[i] = converted
	}
	return json.Marshal(out)
}

// convertDate приводит временное значение к ISO-8601 строке.
// nil и нулевое время означают "not-a-time" и становятся null.
func convertDate(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		if t.IsZero() {
			return nil, nil
		}
		return t.Format(time.RFC3339Nano), nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil, nil
		}
		return t.Format(time.RFC3339Nano), nil
	default:
		return nil, fmt.Errorf("value %v (%T) is not a date", v, v)
	}
}

// convertBoolean отображает NaN-сентинел в null; остальные значения
// проходят без изменений.
func convertBoolean(v any) any {
	switch b := v.(type) {
	case float64:
		if math.IsNaN(b) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(b)) {
			return nil
		}
	}
	return v
}
