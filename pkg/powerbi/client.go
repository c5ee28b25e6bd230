package powerbi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ruslano69/tdtp-powerbi/pkg/core/schema"
	"github.com/ruslano69/tdtp-powerbi/pkg/retry"
)

// Config - конфигурация клиента Power BI REST API
type Config struct {
	// Token - bearer токен, полученный через Authenticate
	Token string

	// BaseURL - корень API (пустое = DefaultBaseURL; переопределяется в тестах)
	BaseURL string

	// TimeoutMs - таймаут каждого HTTP вызова в миллисекундах (<= 0 = 30000)
	TimeoutMs int

	// Logger - логгер прогресса (nil = NopLogger)
	Logger Logger

	// Retry - повторы для вставки строк (по умолчанию выключены)
	Retry retry.Config
}

// Client - типизированный доступ к Power BI REST API.
// Каждый вызов несет Authorization: Bearer <token> и
// Content-Type: application/json. Токен не обновляется: новый
// токен - новый клиент.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	encoder    rowEncoder
	retryer    *retry.Retryer
	log        Logger
}

// NewClient создает клиент с заданным токеном.
// До вызова RegisterFormattableColumns строки сериализуются напрямую.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrAuth)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	retryer, err := retry.NewRetryer(cfg.Retry)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMs) * time.Millisecond,
		},
		encoder: plainEncoder{},
		retryer: retryer,
		log:     logger,
	}, nil
}

// datasetsURL возвращает базовый URL коллекции датасетов.
// Пустой groupID означает "My workspace" (default workspace).
func (c *Client) datasetsURL(groupID string) string {
	if groupID == "" {
		return c.baseURL + "/datasets"
	}
	return c.baseURL + "/groups/" + groupID + "/datasets"
}

// rowsURL возвращает URL строк таблицы датасета
func (c *Client) rowsURL(datasetID, table, groupID string) string {
	return fmt.Sprintf("%s/%s/tables/%s/rows", c.datasetsURL(groupID), datasetID, table)
}

// do выполняет HTTP запрос с заголовками аутентификации
func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %s", ErrAPI, method, url, err.Error())
	}
	return resp, nil
}

// getJSON выполняет GET и декодирует JSON ответ
func (c *Client) getJSON(ctx context.Context, url string, out any, customMessages map[int]string) error {
	resp, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s", ErrAPI, extractErrorMessage(resp, customMessages))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response from %s: %s", ErrAPI, url, err.Error())
	}
	return nil
}

// ListDatasets возвращает датасеты workspace'а (пустой groupID = default)
func (c *Client) ListDatasets(ctx context.Context, groupID string) ([]Dataset, error) {
	var result datasetsResponse
	if err := c.getJSON(ctx, c.datasetsURL(groupID), &result, nil); err != nil {
		return nil, err
	}
	return result.Value, nil
}

// FindDatasetsByName возвращает ID всех датасетов с точно совпадающим
// именем (case-sensitive). Имена в Power BI не уникальны: результат
// может содержать 0, 1 или несколько ID.
func (c *Client) FindDatasetsByName(ctx context.Context, name, groupID string) ([]string, error) {
	datasets, err := c.ListDatasets(ctx, groupID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, ds := range datasets {
		if ds.Name == name {
			ids = append(ids, ds.ID)
		}
	}
	return ids, nil
}

// DeleteDataset удаляет датасет по ID
func (c *Client) DeleteDataset(ctx context.Context, datasetID, groupID string) error {
	url := c.datasetsURL(groupID) + "/" + datasetID
	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: while deleting %s: %s", ErrAPI, datasetID, extractErrorMessage(resp, nil))
	}
	c.log.Infof("Deleted existing Power BI dataset %s (response code: %d)", datasetID, resp.StatusCode)
	return nil
}

// CreateDataset создает push-streaming датасет из схемы источника.
// Типы колонок отображаются через schema.MapToPowerBI.
func (c *Client) CreateDataset(ctx context.Context, name, table string, s *schema.Schema, groupID string) (*Dataset, error) {
	columns := make([]datasetColumn, 0, len(s.Columns))
	for _, col := range s.Columns {
		columns = append(columns, datasetColumn{
			Name:     col.Name,
			DataType: schema.MapToPowerBI(col.Type),
		})
	}
	payload := createDatasetRequest{
		Name:        name,
		DefaultMode: "PushStreaming",
		Tables:      []datasetTable{{Name: table, Columns: columns}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal create dataset payload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.datasetsURL(groupID), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: while creating dataset %q: %s", ErrAPI, name, extractErrorMessage(resp, nil))
	}

	var ds Dataset
	if err := json.NewDecoder(resp.Body).Decode(&ds); err != nil {
		return nil, fmt.Errorf("%w: decode create dataset response: %s", ErrAPI, err.Error())
	}
	if ds.ID == "" {
		return nil, fmt.Errorf("%w: no id in create dataset response for %q", ErrAPI, name)
	}
	return &ds, nil
}

// ResolveGroupID разрешает имя workspace'а в ID группы.
// Пустое имя и "My workspace" означают default workspace и разрешаются
// в пустой ID без обращения к API. Сравнение имен case-insensitive.
func (c *Client) ResolveGroupID(ctx context.Context, workspace string) (string, error) {
	if workspace == "" || workspace == "My workspace" {
		return "", nil
	}

	var result groupsResponse
	err := c.getJSON(ctx, c.baseURL+"/groups", &result, map[int]string{
		http.StatusUnauthorized: "No access to groups/workspaces lists. Please check your access rights.",
	})
	if err != nil {
		return "", err
	}

	lower := strings.ToLower(workspace)
	for _, g := range result.Value {
		if strings.ToLower(g.Name) == lower {
			return g.ID, nil
		}
	}
	return "", fmt.Errorf("%w: the workspace named %q does not exist on your Power BI account, or you do not have access to it", ErrWorkspaceNotFound, workspace)
}

// RegisterFormattableColumns вычисляет множества date/boolean колонок
// схемы и устанавливает энкодер строк. Если таких колонок нет,
// используется прямая сериализация.
func (c *Client) RegisterFormattableColumns(s *schema.Schema) {
	dateCols, boolCols := s.FormattableColumns()
	if len(dateCols) == 0 && len(boolCols) == 0 {
		c.encoder = plainEncoder{}
		return
	}
	c.encoder = &formattingEncoder{dateCols: dateCols, boolCols: boolCols}
}

// InsertRows сериализует строки через установленный энкодер и
// отправляет их в таблицу датасета. Тело запроса - JSON массив строк.
func (c *Client) InsertRows(ctx context.Context, rows []map[string]any, datasetID, table, groupID string) error {
	body, err := c.encoder.Encode(rows)
	if err != nil {
		return err
	}
	url := c.rowsURL(datasetID, table, groupID)

	return c.retryer.Do(ctx, func(ctx context.Context) error {
		resp, err := c.do(ctx, http.MethodPost, url, body)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("%w: while inserting %d rows: %s", ErrAPI, len(rows), extractErrorMessage(resp, nil))
		}
		return nil
	})
}

// ClearTable удаляет все строки таблицы, не удаляя сам датасет -
// связанные отчеты остаются рабочими. Best-effort операция: ошибка
// логируется, но не прерывает экспорт.
func (c *Client) ClearTable(ctx context.Context, datasetID, table, groupID string) error {
	url := c.rowsURL(datasetID, table, groupID)
	resp, err := c.do(ctx, http.MethodDelete, url, nil)
	if err != nil {
		c.log.Errorf("clear table %s/%s: %v", datasetID, table, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.log.Errorf("clear table %s/%s: %s", datasetID, table, extractErrorMessage(resp, nil))
	}
	return nil
}
