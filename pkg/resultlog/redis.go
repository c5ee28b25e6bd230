package resultlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ruslano69/tdtp-powerbi/pkg/exporter"
	"github.com/ruslano69/tdtp-powerbi/pkg/powerbi"
)

// Config определяет параметры публикации результата экспорта
type Config struct {
	Type     string `yaml:"type"`     // Тип: redis (пустое = отключено)
	Address  string `yaml:"address"`  // Адрес Redis, например "127.0.0.1:6379"
	Name     string `yaml:"name"`     // Имя результата (ключ/канал), например "SALES_EXPORT"
	Password string `yaml:"password"` // Пароль Redis (опционально)
	DB       int    `yaml:"db"`       // Индекс базы данных Redis (по умолчанию 0)
	TTL      int    `yaml:"ttl"`      // TTL ключа в секундах (по умолчанию 3600)
}

// Enabled сообщает, сконфигурирована ли публикация результата
func (c Config) Enabled() bool {
	return c.Type == "redis" && c.Name != ""
}

// ExportResult представляет итог экспорта, публикуемый в Redis
// после завершения (успешного или с ошибкой).
//
// Redis-ключи:
//
//	SET  pbi:export:<name>:state  <JSON>  EX <ttl>  — для GET-запросов оркестратора
//	PUB  pbi:export:<name>                          — для event-driven маршрутизации
type ExportResult struct {
	JobName      string    `json:"job_name"`
	ResultName   string    `json:"result_name"`
	Status       string    `json:"status"` // "success" | "failed"
	DatasetID    string    `json:"dataset_id,omitempty"`
	DashboardURL string    `json:"dashboard_url,omitempty"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	DurationMs   int64     `json:"duration_ms"`
	RowsExported int       `json:"rows_exported"`
	Flushes      int       `json:"flushes"`
	Error        *string   `json:"error,omitempty"`
	ErrorCode    string    `json:"error_code,omitempty"`
}

// RedisPublisher публикует результат экспорта в Redis
type RedisPublisher struct {
	client *redis.Client
	config Config
}

// NewRedisPublisher создает новый Redis publisher на основе конфигурации
func NewRedisPublisher(config Config) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return &RedisPublisher{client: client, config: config}
}

// Publish публикует результат экспорта:
//   - SET pbi:export:<name>:state <JSON> EX <ttl>  → для опроса (polling)
//   - PUBLISH pbi:export:<name> <JSON>             → для подписки (pub/sub)
//
// Вызывается независимо от исхода. execErr == nil означает успех;
// summary может быть nil, если экспорт упал до Close.
func (p *RedisPublisher) Publish(ctx context.Context, jobName string, startedAt time.Time, summary *exporter.Summary, execErr error) error {
	result := ExportResult{
		JobName:    jobName,
		ResultName: p.config.Name,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	result.DurationMs = result.FinishedAt.Sub(startedAt).Milliseconds()

	if summary != nil {
		result.DatasetID = summary.DatasetID
		result.DashboardURL = summary.DashboardURL
		result.RowsExported = summary.RowsExported
		result.Flushes = summary.Flushes
	}

	if execErr != nil {
		result.Status = "failed"
		errStr := execErr.Error()
		result.Error = &errStr
		if errors.Is(execErr, exporter.ErrConfiguration) {
			result.ErrorCode = exporter.ErrCodeConfiguration
		} else {
			result.ErrorCode = powerbi.ErrorCode(execErr)
		}
	} else {
		result.Status = "success"
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	stateKey := fmt.Sprintf("pbi:export:%s:state", p.config.Name)
	eventChannel := fmt.Sprintf("pbi:export:%s", p.config.Name)
	ttl := time.Duration(p.config.TTL) * time.Second
	if p.config.TTL <= 0 {
		ttl = time.Hour
	}

	// SET ключ с TTL — оркестратор может GET для получения последнего состояния
	if err := p.client.Set(ctx, stateKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET failed: %w", err)
	}

	// PUBLISH событие — оркестратор может SUBSCRIBE для event-driven маршрутизации
	if err := p.client.Publish(ctx, eventChannel, payload).Err(); err != nil {
		return fmt.Errorf("redis PUBLISH failed: %w", err)
	}

	return nil
}

// Close закрывает соединение с Redis
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
