package powerbi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Коды ошибок - используются в сообщениях и resultlog (поле error_code).
const (
	ErrCodeAuth              = "PBI_AUTH_ERROR"          // токен не получен (кривые credentials, MFA, чужой tenant)
	ErrCodeAPI               = "PBI_API_ERROR"           // REST API вернул >= 400
	ErrCodeWorkspaceNotFound = "PBI_WORKSPACE_NOT_FOUND" // именованный workspace не найден или нет доступа
	ErrCodeFormat            = "PBI_FORMAT_ERROR"        // значение date-колонки не является временем
)

// Sentinel errors - проверяются через errors.Is.
var (
	ErrAuth              = errors.New(ErrCodeAuth)
	ErrAPI               = errors.New(ErrCodeAPI)
	ErrWorkspaceNotFound = errors.New(ErrCodeWorkspaceNotFound)
	ErrFormat            = errors.New(ErrCodeFormat)
)

// ErrorCode преобразует ошибку в строковый код для resultlog.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return ErrCodeAuth
	case errors.Is(err, ErrWorkspaceNotFound):
		return ErrCodeWorkspaceNotFound
	case errors.Is(err, ErrFormat):
		return ErrCodeFormat
	default:
		return ErrCodeAPI
	}
}

// apiErrorBody - вложенное сообщение об ошибке в теле ответа Power BI
type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// extractErrorMessage строит диагностическое сообщение для ответа >= 400.
// Приоритет: кастомное сообщение по коду статуса, затем {error:{message}}
// из JSON тела, затем сырое тело ответа.
func extractErrorMessage(resp *http.Response, customMessages map[int]string) string {
	if msg, ok := customMessages[resp.StatusCode]; ok {
		return msg
	}

	body, _ := io.ReadAll(resp.Body)

	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, parsed.Error.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
}
