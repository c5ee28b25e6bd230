package powerbi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// resourcePowerBI - resource-параметр password grant для Power BI API
const resourcePowerBI = "https://analysis.windows.net/powerbi/api"

// Credentials - учетные данные для password grant.
// Не сохраняются после обмена на токен.
type Credentials struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// AuthConfig - параметры обмена учетных данных на bearer токен
type AuthConfig struct {
	Credentials

	// TokenURL - endpoint выдачи токена (пустое = DefaultTokenURL)
	TokenURL string

	// TimeoutMs - таймаут запроса в миллисекундах (<= 0 = 30000)
	TimeoutMs int
}

// Authenticate обменивает учетные данные на bearer токен Azure AD.
// Единственная точка установления security context: все последующие
// вызовы API несут полученный токен в заголовке Authorization.
//
// Возвращает ErrAuth если ответ не содержит access_token (неверные
// credentials, чужой tenant, включенный MFA) - сырой ответ провайдера
// включается в сообщение для диагностики.
func Authenticate(ctx context.Context, cfg AuthConfig) (string, error) {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	timeoutMs := cfg.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	form := url.Values{}
	form.Set("username", cfg.Username)
	form.Set("password", cfg.Password)
	form.Set("client_id", cfg.ClientID)
	form.Set("client_secret", cfg.ClientSecret)
	form.Set("resource", resourcePowerBI)
	form.Set("grant_type", "password")
	form.Set("scope", "openid")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpClient := &http.Client{Timeout: time.Duration(timeoutMs) * time.Millisecond}
	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token endpoint unreachable: %s", ErrAuth, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read token response: %s", ErrAuth, err.Error())
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d while retrieving access token: %s", ErrAuth, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("%w: decode token response: %s", ErrAuth, err.Error())
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: no access_token in response, check your credentials: %s", ErrAuth, string(body))
	}
	return token.AccessToken, nil
}
