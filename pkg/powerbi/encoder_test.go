package powerbi

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
)

func decodeRows(t *testing.T, data []byte) []map[string]any {
	t.Helper()
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("unmarshal encoded rows: %v", err)
	}
	return rows
}

func TestPlainEncoder(t *testing.T) {
	data, err := plainEncoder{}.Encode([]map[string]any{{"amt": 1.5, "name": "x"}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows := decodeRows(t, data)
	if rows[0]["amt"] != 1.5 || rows[0]["name"] != "x" {
		t.Errorf("rows = %v", rows)
	}
}

func TestFormattingEncoder_DateRoundTrip(t *testing.T) {
	enc := &formattingEncoder{dateCols: []string{"day"}}
	instant := time.Date(2023, 7, 14, 10, 30, 0, 0, time.UTC)

	data, err := enc.Encode([]map[string]any{{"day": instant}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows := decodeRows(t, data)

	got, ok := rows[0]["day"].(string)
	if !ok {
		t.Fatalf("day is %T, want ISO-8601 string", rows[0]["day"])
	}
	parsed, err := time.Parse(time.RFC3339Nano, got)
	if err != nil {
		t.Fatalf("parse back %q: %v", got, err)
	}
	if !parsed.Equal(instant) {
		t.Errorf("round trip: %v != %v", parsed, instant)
	}
}

func TestFormattingEncoder_NotATime(t *testing.T) {
	enc := &formattingEncoder{dateCols: []string{"day"}}

	for _, v := range []any{time.Time{}, nil, (*time.Time)(nil)} {
		data, err := enc.Encode([]map[string]any{{"day": v}})
		if err != nil {
			t.Fatalf("Encode(%v): %v", v, err)
		}
		rows := decodeRows(t, data)
		if rows[0]["day"] != nil {
			t.Errorf("not-a-time %v should encode to null, got %v", v, rows[0]["day"])
		}
	}
}

func TestFormattingEncoder_BadDateValue(t *testing.T) {
	enc := &formattingEncoder{dateCols: []string{"day"}}

	_, err := enc.Encode([]map[string]any{{"day": "2023-07-14"}})
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for non-temporal value, got: %v", err)
	}
}

func TestFormattingEncoder_BooleanNaN(t *testing.T) {
	enc := &formattingEncoder{boolCols: []string{"active"}}

	data, err := enc.Encode([]map[string]any{
		{"active": math.NaN()},
		{"active": true},
		{"active": false},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	rows := decodeRows(t, data)

	if rows[0]["active"] != nil {
		t.Errorf("NaN sentinel should encode to null, got %v", rows[0]["active"])
	}
	if rows[1]["active"] != true {
		t.Errorf("true should pass through, got %v", rows[1]["active"])
	}
	if rows[2]["active"] != false {
		t.Errorf("false should pass through, got %v", rows[2]["active"])
	}
}

func TestFormattingEncoder_DoesNotMutateInput(t *testing.T) {
	enc := &formattingEncoder{dateCols: []string{"day"}}
	instant := time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC)
	row := map[string]any{"day": instant}

	if _, err := enc.Encode([]map[string]any{row}); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, ok := row["day"].(time.Time); !ok {
		t.Errorf("input row was mutated: day = %T", row["day"])
	}
}

func TestRegisterFormattableColumns(t *testing.T) {
	c, err := NewClient(Config{Token: "t"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// Нет date/boolean колонок - прямая сериализация
	c.RegisterFormattableColumns(&schema.Schema{Columns: []schema.Column{
		{Name: "amt", Type: schema.TypeDouble},
	}})
	if _, ok := c.encoder.(plainEncoder); !ok {
		t.Errorf("encoder = %T, want plainEncoder", c.encoder)
	}

	c.RegisterFormattableColumns(&schema.Schema{Columns: []schema.Column{
		{Name: "day", Type: schema.TypeDate},
		{Name: "active", Type: schema.TypeBoolean},
	}})
	fe, ok := c.encoder.(*formattingEncoder)
	if !ok {
		t.Fatalf("encoder = %T, want *formattingEncoder", c.encoder)
	}
	if len(fe.dateCols) != 1 || len(fe.boolCols) != 1 {
		t.Errorf("formattable sets: dates=%v bools=%v", fe.dateCols, fe.boolCols)
	}
}
