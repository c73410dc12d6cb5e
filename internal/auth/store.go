package auth

import (
	"database/sql"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"studysync/internal/shared"
)

// CredentialStore persists the session token pair.
//
// Invariant: both tokens are present or both are absent. Get returns nil
// when no session is stored. Implementations hold no lifecycle logic; the
// [Manager] decides when to mutate.
type CredentialStore interface {
	Get() (*oauth2.Token, error)
	Set(accessToken, refreshToken string) error
	Clear() error
}

// SQLiteStore persists credentials in the single-row credentials table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a SQLiteStore with the given database connection.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves the stored token pair, or nil when no session exists.
func (s *SQLiteStore) Get() (*oauth2.Token, error) {
	var access, refresh string
	err := s.db.QueryRow("SELECT access_token, refresh_token FROM credentials WHERE id = 1").Scan(&access, &refresh)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}

	return &oauth2.Token{AccessToken: access, RefreshToken: refresh}, nil
}

// Set stores the token pair, replacing any previous session atomically.
func (s *SQLiteStore) Set(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return fmt.Errorf("%w: token pair must be complete", shared.ErrInvalidInput)
	}

	query := `
		INSERT INTO credentials (id, access_token, refresh_token, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, accessToken, refreshToken); err != nil {
		return fmt.Errorf("failed to store credentials: %w", err)
	}

	return nil
}

// Clear removes the stored session.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM credentials WHERE id = 1"); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory [CredentialStore] for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token *oauth2.Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, nil
	}
	copied := *s.token
	return &copied, nil
}

func (s *MemoryStore) Set(accessToken, refreshToken string) error {
	if accessToken == "" || refreshToken == "" {
		return fmt.Errorf("%w: token pair must be complete", shared.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = &oauth2.Token{AccessToken: accessToken, RefreshToken: refreshToken}
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}
