package exporter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
	"github.com/ruslano69/tdtp-powerbi/pkg/powerbi"
)

// ErrCodeConfiguration - код ошибки конфигурации для resultlog
const ErrCodeConfiguration = "PBI_CONFIGURATION_ERROR"

// ErrConfiguration - датасет для переиспользования не найден, а overwrite
// выключен. Создавать датасеты на чистом аккаунте можно только с overwrite.
var ErrConfiguration = errors.New(ErrCodeConfiguration)

// state - фаза жизненного цикла экспортера
type state int

const (
	stateCreated state = iota
	stateOpened
	stateClosed
)

// Summary - итог завершенного экспорта
type Summary struct {
	DatasetID    string
	DashboardURL string
	RowsExported int
	Flushes      int
	Duration     time.Duration
}

// Exporter загружает табличные данные в push-датасет Power BI.
//
// Жизненный цикл строго последовательный, без повторного входа:
// New -> Open -> WriteRow* -> Close. Аутентификация выполняется один раз
// при создании; буфер строк сбрасывается при превышении емкости и при
// закрытии. Каждый сброс - независимый сетевой вызов: неудача одного
// батча не откатывает предыдущие (at-least-once).
type Exporter struct {
	cfg    Config
	client *powerbi.Client
	log    powerbi.Logger

	schema  *schema.Schema
	columns []string

	datasetID string
	groupID   string

	buffer    []map[string]any
	rowIndex  int
	flushes   int
	rowsSent  int
	startedAt time.Time
	state     state
}

// New создает экспортер и аутентифицируется в Azure AD.
// Ошибка аутентификации фатальна и возвращается до любой мутации
// на стороне Power BI.
func New(ctx context.Context, cfg Config, log powerbi.Logger) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exporter config: %w", err)
	}
	if log == nil {
		log = powerbi.NopLogger{}
	}
	if cfg.Table == "" {
		cfg.Table = powerbi.DefaultTable
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = DefaultBufferSize
	}

	token, err := powerbi.Authenticate(ctx, powerbi.AuthConfig{
		Credentials: powerbi.Credentials{
			Username:     cfg.Username,
			Password:     cfg.Password,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
		TokenURL:  cfg.TokenURL,
		TimeoutMs: cfg.TimeoutMs,
	})
	if err != nil {
		log.Errorf("Error while retrieving your Power BI access token, please check your credentials.")
		return nil, err
	}

	client, err := powerbi.NewClient(powerbi.Config{
		Token:     token,
		BaseURL:   cfg.BaseURL,
		TimeoutMs: cfg.TimeoutMs,
		Logger:    log,
		Retry:     cfg.Retry,
	})
	if err != nil {
		return nil, err
	}

	return &Exporter{
		cfg:       cfg,
		client:    client,
		log:       log,
		startedAt: time.Now(),
	}, nil
}

// Open привязывает экспортер к датасету Power BI.
//
// В режиме overwrite удаляются ВСЕ одноименные датасеты (имена в Power BI
// не уникальны) и создается новый из схемы. Без overwrite привязывается
// первый найденный; отсутствие датасета - ErrConfiguration.
func (e *Exporter) Open(ctx context.Context, s *schema.Schema) error {
	if e.state != stateCreated {
		return fmt.Errorf("open: exporter is not in created state")
	}

	groupID, err := e.client.ResolveGroupID(ctx, e.cfg.Workspace)
	if err != nil {
		return err
	}
	e.groupID = groupID

	if e.cfg.Overwrite {
		e.log.Infof("Looking for Power BI datasets with similar names...")
		ids, err := e.client.FindDatasetsByName(ctx, e.cfg.Dataset, groupID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := e.client.DeleteDataset(ctx, id, groupID); err != nil {
				return err
			}
		}
		ds, err := e.client.CreateDataset(ctx, e.cfg.Dataset, e.cfg.Table, s, groupID)
		if err != nil {
			return err
		}
		e.datasetID = ds.ID
		e.log.Infof("Created Power BI dataset ID %s", e.datasetID)
	} else {
		ids, err := e.client.FindDatasetsByName(ctx, e.cfg.Dataset, groupID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			e.log.Errorf("No existing dataset with name %s", e.cfg.Dataset)
			e.log.Errorf("Check 'Overwrite' to create a new one")
			return fmt.Errorf("%w: no existing dataset with name %q, enable overwrite to create a new one", ErrConfiguration, e.cfg.Dataset)
		}
		e.log.Infof("Existing datasets: %v", ids)
		e.datasetID = ids[0]
		e.log.Infof("Will use Power BI dataset ID %s", e.datasetID)

		if e.cfg.Truncate {
			e.client.ClearTable(ctx, e.datasetID, e.cfg.Table, groupID)
		}
	}

	e.client.RegisterFormattableColumns(s)
	e.schema = s
	e.columns = s.ColumnNames()
	e.buffer = make([]map[string]any, 0, e.cfg.BufferSize+1)
	e.state = stateOpened
	return nil
}

// WriteRow добавляет строку в буфер. Значения сопоставляются именам
// колонок позиционно; длина строки обязана совпадать с длиной схемы.
// Сброс буфера срабатывает строго после превышения емкости.
func (e *Exporter) WriteRow(ctx context.Context, row []any) error {
	if e.state != stateOpened {
		return fmt.Errorf("write_row: exporter is not open")
	}
	if len(row) != len(e.columns) {
		return fmt.Errorf("row %d has %d values, schema has %d columns", e.rowIndex, len(row), len(e.columns))
	}

	obj := make(map[string]any, len(e.columns))
	for i, name := range e.columns {
		obj[name] = row[i]
	}
	e.buffer = append(e.buffer, obj)

	if len(e.buffer) > e.cfg.BufferSize {
		if err := e.flush(ctx); err != nil {
			return err
		}
	}
	e.rowIndex++
	return nil
}

// Close сбрасывает оставшиеся строки и печатает итоговый баннер
// со ссылкой на датасет.
func (e *Exporter) Close(ctx context.Context) (*Summary, error) {
	if e.state != stateOpened {
		return nil, fmt.Errorf("close: exporter is not open")
	}

	if err := e.flush(ctx); err != nil {
		return nil, err
	}
	e.state = stateClosed

	url := fmt.Sprintf(powerbi.DashboardURL, e.datasetID)
	e.log.Infof("Loading complete.")
	e.log.Infof("%s", strings.Repeat("=", 80))
	e.log.Infof("Your Power BI dataset should be available at:")
	e.log.Infof("%s", url)
	e.log.Infof("%s", strings.Repeat("=", 80))

	return &Summary{
		DatasetID:    e.datasetID,
		DashboardURL: url,
		RowsExported: e.rowsSent,
		Flushes:      e.flushes,
		Duration:     time.Since(e.startedAt),
	}, nil
}

// flush отправляет буфер одним батчем и очищает его
func (e *Exporter) flush(ctx context.Context) error {
	if len(e.buffer) == 0 {
		return nil
	}
	n := len(e.buffer)
	if err := e.client.InsertRows(ctx, e.buffer, e.datasetID, e.cfg.Table, e.groupID); err != nil {
		return fmt.Errorf("inserting batch of %d rows: %w", n, err)
	}
	e.log.Infof("Inserted %d records", n)
	e.rowsSent += n
	e.flushes++
	e.buffer = e.buffer[:0]
	return nil
}
