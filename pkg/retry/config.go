package retry

import (
	"fmt"
	"time"
)

// BackoffStrategy определяет стратегию задержки между повторами
type BackoffStrategy string

const (
	// BackoffConstant - постоянная задержка
	BackoffConstant BackoffStrategy = "constant"
	// BackoffLinear - линейное увеличение задержки
	BackoffLinear BackoffStrategy = "linear"
	// BackoffExponential - экспоненциальное увеличение задержки
	BackoffExponential BackoffStrategy = "exponential"
)

// Config содержит конфигурацию retry механизма.
// По умолчанию retry выключен: экспорт работает в семантике
// at-least-once по батчам, повторы - осознанный выбор оператора.
type Config struct {
	// Enabled - включить retry механизм
	Enabled bool

	// MaxAttempts - максимальное количество попыток (включая первую)
	MaxAttempts int

	// InitialDelay - начальная задержка перед первым повтором
	InitialDelay time.Duration

	// MaxDelay - максимальная задержка между попытками
	MaxDelay time.Duration

	// BackoffStrategy - стратегия увеличения задержки
	BackoffStrategy BackoffStrategy

	// BackoffMultiplier - множитель для exponential backoff (обычно 2.0)
	BackoffMultiplier float64

	// Jitter - добавлять случайность к задержке (0.0 - 1.0)
	Jitter float64

	// RetryableErrors - подстроки ошибок, для которых нужен retry
	// Пустой список = retry для всех ошибок
	RetryableErrors []string

	// OnRetry - callback, вызываемый перед каждым повтором
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}
	if c.MaxDelay > 0 && c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%s) must be >= initial_delay (%s)", c.MaxDelay, c.InitialDelay)
	}
	switch c.BackoffStrategy {
	case "", BackoffConstant, BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("unknown backoff strategy: %q", c.BackoffStrategy)
	}
	if c.BackoffStrategy == BackoffExponential && c.BackoffMultiplier < 1.0 {
		return fmt.Errorf("backoff_multiplier must be >= 1.0 for exponential strategy")
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		return fmt.Errorf("jitter must be in [0.0, 1.0], got %f", c.Jitter)
	}
	return nil
}
