package powerbi

import (
	"fmt"
	"os"
)

// Logger - минимальный интерфейс логирования прогресса экспорта.
// Передается в Client и Exporter при создании; глобального состояния
// логирования в пакете нет.
type Logger interface {
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger - логгер-заглушка для тестов
type NopLogger struct{}

func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Errorf(format string, args ...any) {}

// ConsoleLogger печатает строки прогресса в формате плагина:
// "[+] ..." для информации, "ERROR [-] ..." для ошибок.
type ConsoleLogger struct{}

func (ConsoleLogger) Infof(format string, args ...any) {
	fmt.Fprintf(os.Stdout, "[+] "+format+"\n", args...)
}

func (ConsoleLogger) Errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR [-] "+format+"\n", args...)
}
