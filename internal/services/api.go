// Raw HTTP client for the StudySync backend.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
	"studysync/internal/shared"
)

// APIClient issues raw HTTP requests to the StudySync backend.
//
// Each request carries a bounded timeout (the backend has none of its own)
// and passes through a client-side rate limiter so bursts of calendar
// navigation do not hammer the service.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewAPIClient creates an APIClient from server settings. A nil client gets
// a default with the configured timeout applied.
func NewAPIClient(cfg shared.ServerConfig, client *http.Client, logger *log.Logger) *APIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout()}
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &APIClient{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)),
		logger:     logger,
	}
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// do performs one HTTP request. An empty token omits the Authorization
// header; a nil body sends no payload. Transport failures wrap
// [shared.ErrNetwork]; any status code is returned to the caller untouched.
func (a *APIClient) do(ctx context.Context, method, path, token string, body []byte) (*APIResponse, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", shared.GenerateID())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}

// apiError converts a non-2xx response into a [shared.ErrServerRejected]
// error carrying the backend's {detail} message when one is present.
func apiError(resp *APIResponse) error {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Detail != "" {
		return fmt.Errorf("%w: %s (status %d)", shared.ErrServerRejected, body.Detail, resp.StatusCode)
	}
	return fmt.Errorf("%w: status %d", shared.ErrServerRejected, resp.StatusCode)
}

type tokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

func (t tokenResponse) oauth() (*oauth2.Token, error) {
	if t.Token == "" || t.RefreshToken == "" {
		return nil, fmt.Errorf("%w: incomplete token pair in response", shared.ErrServerRejected)
	}
	return &oauth2.Token{AccessToken: t.Token, RefreshToken: t.RefreshToken}, nil
}

// Login exchanges credentials for a token pair.
func (a *APIClient) Login(ctx context.Context, email, password string) (*oauth2.Token, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login payload: %w", err)
	}

	resp, err := a.do(ctx, http.MethodPost, "/api/login", "", payload)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiError(resp)
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return body.oauth()
}

// Signup registers a new account. The backend issues no tokens on signup;
// the caller logs in afterwards.
func (a *APIClient) Signup(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return fmt.Errorf("failed to marshal signup payload: %w", err)
	}

	resp, err := a.do(ctx, http.MethodPost, "/api/signup", "", payload)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}
	return nil
}

// Refresh exchanges a refresh token for a new token pair. Implements
// [auth.Refresher].
func (a *APIClient) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal refresh payload: %w", err)
	}

	resp, err := a.do(ctx, http.MethodPost, "/api/refresh", "", payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrRefreshFailed, resp.StatusCode)
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrRefreshFailed, err)
	}
	return body.oauth()
}
