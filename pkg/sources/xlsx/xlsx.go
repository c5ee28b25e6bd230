// Package xlsx реализует источник строк из Excel файла.
// Первая строка листа - заголовки колонок; типы выводятся по выборке
// значений, так как Excel не несет схемы.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
	"github.com/ruslano69/tdtp-powerbi/pkg/sources"
)

func init() {
	sources.Register("xlsx", func() sources.Source {
		return &Source{}
	})
}

// Source - источник строк из листа XLSX файла
type Source struct {
	file   *excelize.File
	header []string
	data   [][]string
	schema *schema.Schema
}

// Open читает лист файла в память.
// Пустое имя листа означает первый лист книги.
func (s *Source) Open(ctx context.Context, cfg sources.Config) error {
	f, err := excelize.OpenFile(cfg.DSN)
	if err != nil {
		return fmt.Errorf("open xlsx file: %w", err)
	}

	sheet := cfg.Table
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		f.Close()
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		f.Close()
		return fmt.Errorf("sheet %q is empty, header row is required", sheet)
	}

	s.file = f
	s.header = rows[0]
	s.data = rows[1:]
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
		columns[i] = schema.Column{
			Name: name,
			Type: sources.InferColumnType(columnSample(s.data, i)),
		}
	}
	s.schema = &schema.Schema{Columns: columns}
	return s.schema, nil
}

// Rows отдает строки листа, приводя ячейки к выведенным типам.
// Короткие строки дополняются null до ширины заголовка.
func (s *Source) Rows(ctx context.Context, fn func(row []any) error) error {
	sch, err := s.Schema(ctx)
	if err != nil {
		return err
	}

	for _, cells := range s.data {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		row := make([]any, len(sch.Columns))
		for i, col := range sch.Columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			row[i] = sources.ConvertCell(cell, col.Type)
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

// Close закрывает файл
func (s *Source) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}

// columnSample собирает значения колонки для вывода типа
func columnSample(data [][]string, col int) []string {
	limit := len(data)
	if limit > 100 {
		limit = 100
	}
	sample := make([]string, 0, limit)
	for _, cells := range data[:limit] {
		if col < len(cells) {
			sample = append(sample, cells[col])
		}
	}
	return sample
}
