package exporter

import (
	"fmt"

	"github.com/ruslano69/tdtp-powerbi/pkg/retry"
)

// DefaultBufferSize - размер буфера строк по умолчанию
const DefaultBufferSize = 1000

// Config - конфигурация экспорта в Power BI
type Config struct {
	// Учетные данные Azure AD (password grant).
	// Используются ровно один раз при создании экспортера и не сохраняются.
	Username     string
	Password     string
	ClientID     string
	ClientSecret string

	// Dataset - имя целевого датасета в Power BI
	Dataset string

	// Table - имя таблицы внутри датасета (пустое = "dss-data")
	Table string

	// Workspace - имя workspace'а (пустое или "My workspace" = default)
	Workspace string

	// Overwrite - удалить все одноименные датасеты и создать новый.
	// Без overwrite привязывается первый найденный датасет; если датасета
	// нет, экспорт завершается ошибкой конфигурации.
	Overwrite bool

	// Truncate - при переиспользовании существующего датасета очистить
	// строки таблицы, сохранив сам датасет и связанные отчеты
	Truncate bool

	// BufferSize - емкость буфера строк; вставка срабатывает строго
	// после превышения емкости (батч из BufferSize+1 строк)
	BufferSize int

	// TimeoutMs - таймаут HTTP вызовов в миллисекундах (<= 0 = 30000)
	TimeoutMs int

	// BaseURL и TokenURL переопределяют endpoints (тесты)
	BaseURL  string
	TokenURL string

	// Retry - повторы вставки строк (по умолчанию выключены)
	Retry retry.Config
}

// Validate проверяет обязательные поля конфигурации
func (c *Config) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client_secret is required")
	}
	if c.Dataset == "" {
		return fmt.Errorf("dataset name is required")
	}
	if c.BufferSize < 0 {
		return fmt.Errorf("buffer_size must be >= 0, got %d", c.BufferSize)
	}
	return c.Retry.Validate()
}
