// Package csv реализует источник строк из CSV файла.
// Первая строка - заголовки; типы выводятся по выборке значений.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
	"github.com/ruslano69/tdtp-powerbi/pkg/sources"
)

func init() {
	sources.Register("csv", func() sources.Source {
		return &Source{}
	})
}

// sampleLimit - сколько строк сканируется при выводе типов
const sampleLimit = 100

// Source - источник строк из CSV файла
type Source struct {
	header []string
	data   [][]string
	schema *schema.Schema
}

// Open читает файл в память
func (s *Source) Open(ctx context.Context, cfg sources.Config) error {
	f, err := os.Open(cfg.DSN)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("csv file is empty, header row is required")
	}

	s.header = records[0]
	s.data = records[1:]
	return nil
}

// Schema выводит схему из заголовков и выборки значений
func (s *Source) Schema(ctx context.Context) (*schema.Schema, error) {
	if s.schema != nil {
		return s.schema, nil
	}
	if s.header == nil {
		return nil, fmt.Errorf("source is not open")
	}

	columns := make([]schema.Column, len(s.header))
	for i, name := range s.header {
		limit := len(s.data)
		if limit > sampleLimit {
			limit = sampleLimit
		}
		sample := make([]string, 0, limit)
		for _, rec := range s.data[:limit] {
			if i < len(rec) {
				sample = append(sample, rec[i])
			}
		}
		columns[i] = schema.Column{Name: name, Type: sources.InferColumnType(sample)}
	}
	s.schema = &schema.Schema{Columns: columns}
	return s.schema, nil
}

// Rows отдает записи файла, приводя значения к выведенным типам
func (s *Source) Rows(ctx context.Context, fn func(row []any) error) error {
	sch, err := s.Schema(ctx)
	if err != nil {
		return err
	}

	for _, rec := range s.data {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		row := make([]any, len(sch.Columns))
		for i, col := range sch.Columns {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			row[i] = sources.ConvertCell(cell, col.Type)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Close - у файлового источника нечего освобождать после Open
func (s *Source) Close() error {
	return nil
}
