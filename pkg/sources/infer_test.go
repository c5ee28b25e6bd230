package sources

import (
	"testing"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
)

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   schema.DataType
	}{
		{"integers", []string{"1", "42", "-7"}, schema.TypeBigInt},
		{"floats", []string{"1.5", "2", "-0.25"}, schema.TypeDouble},
		{"booleans", []string{"true", "FALSE", "True"}, schema.TypeBoolean},
		{"strings", []string{"a", "b"}, schema.TypeString},
		{"mixed numeric and text", []string{"1", "abc"}, schema.TypeString},
		{"empty values ignored", []string{"", "3", ""}, schema.TypeBigInt},
		{"all empty", []string{"", ""}, schema.TypeString},
		{"no values", nil, schema.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferColumnType(tt.values); got != tt.want {
				t.Errorf("InferColumnType(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestConvertCell(t *testing.T) {
	if got := ConvertCell("", schema.TypeBigInt); got != nil {
		t.Errorf("empty cell = %v, want nil", got)
	}
	if got := ConvertCell("42", schema.TypeBigInt); got != int64(42) {
		t.Errorf("int cell = %v (%T), want int64(42)", got, got)
	}
	if got := ConvertCell("1.5", schema.TypeDouble); got != 1.5 {
		t.Errorf("float cell = %v, want 1.5", got)
	}
	if got := ConvertCell("TRUE", schema.TypeBoolean); got != true {
		t.Errorf("bool cell = %v, want true", got)
	}
	if got := ConvertCell("hello", schema.TypeString); got != "hello" {
		t.Errorf("string cell = %v", got)
	}
}
