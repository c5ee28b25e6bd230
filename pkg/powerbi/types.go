package powerbi

// Endpoints Power BI REST API v1.0
const (
	// DefaultBaseURL - корень API ("My workspace" и групповые ресурсы)
	DefaultBaseURL = "https://api.powerbi.com/v1.0/myorg"

	// DefaultTokenURL - endpoint выдачи токена (password grant, common tenant)
	DefaultTokenURL = "https://login.microsoftonline.com/common/oauth2/token"

	// DashboardURL - шаблон ссылки на датасет в портале Power BI
	DashboardURL = "https://app.powerbi.com/groups/me/datasets/%s"
)

// DefaultTable - фиксированное имя таблицы внутри push-датасета
const DefaultTable = "dss-data"

// Dataset - датасет в Power BI
// Идентичность датасета - назначенный сервисом ID; имена не уникальны.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Group - workspace (группа) Power BI
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// datasetsResponse - ответ GET .../datasets
type datasetsResponse struct {
	Value []Dataset `json:"value"`
}

// groupsResponse - ответ GET .../groups
type groupsResponse struct {
	Value []Group `json:"value"`
}

// datasetColumn - колонка в payload создания датасета
type datasetColumn struct {
	Name     string `json:"name"`
	DataType string `json:"dataType"`
}

// datasetTable - таблица в payload создания датасета
type datasetTable struct {
	Name    string          `json:"name"`
	Columns []datasetColumn `json:"columns"`
}

// createDatasetRequest - тело POST .../datasets
// defaultMode=PushStreaming: строки загружаются через API, не bulk-импортом.
type createDatasetRequest struct {
	Name        string         `json:"name"`
	DefaultMode string         `json:"defaultMode"`
	Tables      []datasetTable `json:"tables"`
}

// tokenResponse - ответ endpoint'а выдачи токена
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}
