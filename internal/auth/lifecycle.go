package auth

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"studysync/internal/shared"
)

// Refresher exchanges a refresh token for a new token pair at the backend.
// Implemented by [services.APIClient].
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Manager coordinates the [CredentialStore] with the remote refresh endpoint.
type Manager struct {
	store     CredentialStore
	refresher Refresher
	logger    *log.Logger
	group     singleflight.Group

	// onLogout runs fire-and-forget whenever a refresh fails and the session
	// is cleared. The CLI prints a re-login hint, the TUI quits to the login
	// prompt.
	onLogout func()
}

// NewManager creates a Manager. The logout hook may be nil.
func NewManager(store CredentialStore, refresher Refresher, logger *log.Logger, onLogout func()) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		logger:    logger,
		onLogout:  onLogout,
	}
}

// AccessToken returns the stored access token without validating it against
// the server; validity is implicit in the next API call's response code.
// Returns [shared.ErrUnauthenticated] when no session is stored.
func (m *Manager) AccessToken() (string, error) {
	token, err := m.store.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if token == nil || token.AccessToken == "" {
		return "", shared.ErrUnauthenticated
	}
	return token.AccessToken, nil
}

// Token implements [oauth2.TokenSource] over the credential store.
func (m *Manager) Token() (*oauth2.Token, error) {
	token, err := m.store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	if token == nil {
		return nil, shared.ErrUnauthenticated
	}
	return token, nil
}

// Login stores a freshly issued token pair.
func (m *Manager) Login(token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("%w: nil token", shared.ErrInvalidInput)
	}
	return m.store.Set(token.AccessToken, token.RefreshToken)
}

// Logout clears the stored session.
func (m *Manager) Logout() error {
	return m.store.Clear()
}

// Refresh exchanges the stored refresh token for a new token pair and
// returns the new access token.
//
// Concurrent callers are collapsed into one exchange via [singleflight]: the
// refresh token may be single-use on the server, and two racing exchanges
// would log out a live session when the second one bounces. Every caller in
// a burst observes the same outcome.
//
// On any failure the session is cleared and the logout hook fires; the
// returned error wraps [shared.ErrUnauthenticated] so callers can stop
// retrying.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	result, err, _ := m.group.Do("refresh", func() (any, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	stored, err := m.store.Get()
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if stored == nil || stored.RefreshToken == "" {
		return "", fmt.Errorf("%w: %w", shared.ErrUnauthenticated, shared.ErrNoRefreshToken)
	}

	token, err := m.refresher.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed, clearing session", "error", err)
		m.forceLogout()
		return "", fmt.Errorf("%w: %w", shared.ErrUnauthenticated, err)
	}

	if err := m.store.Set(token.AccessToken, token.RefreshToken); err != nil {
		return "", fmt.Errorf("failed to store refreshed credentials: %w", err)
	}

	m.logger.Debug("session refreshed")
	return token.AccessToken, nil
}

// forceLogout clears the session and fires the logout hook fire-and-forget.
func (m *Manager) forceLogout() {
	if err := m.store.Clear(); err != nil {
		m.logger.Error("failed to clear credentials", "error", err)
	}
	if m.onLogout != nil {
		go m.onLogout()
	}
}
