package powerbi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testCredentials() Credentials {
	return Credentials{
		Username:     "user@contoso.com",
		Password:     "secret",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func TestAuthenticate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		for field, want := range map[string]string{
			"username":      "user@contoso.com",
			"password":      "secret",
			"client_id":     "client-id",
			"client_secret": "client-secret",
			"resource":      "https://analysis.windows.net/powerbi/api",
			"grant_type":    "password",
			"scope":         "openid",
		} {
			if got := r.PostFormValue(field); got != want {
				t.Errorf("form field %s = %q, want %q", field, got, want)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer"}`))
	}))
	defer server.Close()

	token, err := Authenticate(context.Background(), AuthConfig{
		Credentials: testCredentials(),
		TokenURL:    server.URL,
	})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q, want tok-123", token)
	}
}

func TestAuthenticate_NoTokenInResponse(t *testing.T) {
	// Провайдер отвечает 200, но без access_token (например, MFA required)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error":"interaction_required"}`))
	}))
	defer server.Close()

	_, err := Authenticate(context.Background(), AuthConfig{
		Credentials: testCredentials(),
		TokenURL:    server.URL,
	})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got: %v", err)
	}
	if !strings.Contains(err.Error(), "interaction_required") {
		t.Errorf("error should include the raw provider response: %v", err)
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"AADSTS50126"}`))
	}))
	defer server.Close()

	_, err := Authenticate(context.Background(), AuthConfig{
		Credentials: testCredentials(),
		TokenURL:    server.URL,
	})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got: %v", err)
	}
	if !strings.Contains(err.Error(), "AADSTS50126") {
		t.Errorf("error should include the provider response body: %v", err)
	}
}

func TestAuthenticate_Unreachable(t *testing.T) {
	_, err := Authenticate(context.Background(), AuthConfig{
		Credentials: testCredentials(),
		TokenURL:    "http://127.0.0.1:1",
		TimeoutMs:   200,
	})
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got: %v", err)
	}
}
