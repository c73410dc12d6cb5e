package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"studysync/internal/shared"
	tu "studysync/internal/testing"
)

func TestAPIClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom Client", func(t *testing.T) {
			customClient := &http.Client{}
			client := NewAPIClient(shared.ServerConfig{BaseURL: "http://example.com"}, customClient, nil)

			if client.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", client.baseURL)
			}
			if client.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty Config", func(t *testing.T) {
			client := NewAPIClient(shared.ServerConfig{}, nil, nil)

			if client.baseURL != "http://localhost:8000" {
				t.Errorf("expected default baseURL 'http://localhost:8000', got %s", client.baseURL)
			}
			if client.httpClient.Timeout != 30*time.Second {
				t.Errorf("expected default 30s timeout, got %s", client.httpClient.Timeout)
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Returns Token Pair", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/api/login" {
					t.Errorf("expected path '/api/login', got %s", r.URL.Path)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["email"] != "user@example.com" {
					t.Errorf("expected email in payload, got %v", body)
				}

				json.NewEncoder(w).Encode(map[string]string{"token": "access-1", "refresh_token": "refresh-1"})
			}))
			defer server.Close()

			client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
			token, err := client.Login(context.Background(), "user@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token.AccessToken != "access-1" || token.RefreshToken != "refresh-1" {
				t.Errorf("unexpected token pair: %+v", token)
			}
		})

		t.Run("Surfaces Server Detail", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "invalid credentials"})
			}))
			defer server.Close()

			client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
			_, err := client.Login(context.Background(), "user@example.com", "wrong")

			if !errors.Is(err, shared.ErrServerRejected) {
				t.Errorf("expected ErrServerRejected, got %v", err)
			}
			if !strings.Contains(err.Error(), "invalid credentials") {
				t.Errorf("expected detail message in error, got %v", err)
			}
		})

		t.Run("Rejects Incomplete Token Pair", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"token": "access-only"})
			}))
			defer server.Close()

			client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
			if _, err := client.Login(context.Background(), "user@example.com", "hunter2"); !errors.Is(err, shared.ErrServerRejected) {
				t.Errorf("expected ErrServerRejected, got %v", err)
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			client := NewAPIClient(shared.ServerConfig{BaseURL: "http://example.com"}, &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
			}, nil)

			if _, err := client.Login(context.Background(), "user@example.com", "hunter2"); !errors.Is(err, shared.ErrNetwork) {
				t.Errorf("expected ErrNetwork, got %v", err)
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/signup" {
				t.Errorf("expected path '/api/signup', got %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
		if err := client.Signup(context.Background(), "user@example.com", "hunter2"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Exchanges Refresh Token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/refresh" {
					t.Errorf("expected path '/api/refresh', got %s", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("refresh should not carry an access token")
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				if body["refresh_token"] != "refresh-1" {
					t.Errorf("expected refresh-1 in payload, got %v", body)
				}

				json.NewEncoder(w).Encode(map[string]string{"token": "access-2", "refresh_token": "refresh-2"})
			}))
			defer server.Close()

			client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
			token, err := client.Refresh(context.Background(), "refresh-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token.AccessToken != "access-2" || token.RefreshToken != "refresh-2" {
				t.Errorf("unexpected token pair: %+v", token)
			}
		})

		t.Run("Rejection Wraps ErrRefreshFailed", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
			if _, err := client.Refresh(context.Background(), "stale"); !errors.Is(err, shared.ErrRefreshFailed) {
				t.Errorf("expected ErrRefreshFailed, got %v", err)
			}
		})
	})

	t.Run("Request Headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
			if r.Header.Get("Authorization") != "Bearer access-1" {
				t.Errorf("expected bearer token, got %s", r.Header.Get("Authorization"))
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := NewAPIClient(shared.ServerConfig{BaseURL: server.URL}, nil, nil)
		resp, err := client.do(context.Background(), http.MethodGet, "/api/classes", "access-1", nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}
