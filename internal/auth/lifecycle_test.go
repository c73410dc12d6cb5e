package auth

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"
	"studysync/internal/shared"
)

// fakeRefresher counts exchanges and returns a canned result after an
// optional delay, so concurrent callers overlap deterministically.
type fakeRefresher struct {
	calls int32
	delay time.Duration
	token *oauth2.Token
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.token, nil
}

func TestManager(t *testing.T) {
	t.Run("AccessToken", func(t *testing.T) {
		t.Run("Without Session", func(t *testing.T) {
			m := NewManager(NewMemoryStore(), &fakeRefresher{}, nil, nil)

			if _, err := m.AccessToken(); !errors.Is(err, shared.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})

		t.Run("With Session", func(t *testing.T) {
			store := NewMemoryStore()
			store.Set("access-1", "refresh-1")
			m := NewManager(store, &fakeRefresher{}, nil, nil)

			token, err := m.AccessToken()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != "access-1" {
				t.Errorf("expected access-1, got %s", token)
			}
		})
	})

	t.Run("Login Then Logout", func(t *testing.T) {
		store := NewMemoryStore()
		m := NewManager(store, &fakeRefresher{}, nil, nil)

		if err := m.Login(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if _, err := m.AccessToken(); err != nil {
			t.Fatalf("expected session after login, got %v", err)
		}

		if err := m.Logout(); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if _, err := m.AccessToken(); !errors.Is(err, shared.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated after logout, got %v", err)
		}
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Rotates Both Tokens", func(t *testing.T) {
			store := NewMemoryStore()
			store.Set("access-1", "refresh-1")
			refresher := &fakeRefresher{token: &oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"}}
			m := NewManager(store, refresher, nil, nil)

			token, err := m.Refresh(context.Background())
			if err != nil {
				t.Fatalf("refresh failed: %v", err)
			}
			if token != "access-2" {
				t.Errorf("expected access-2, got %s", token)
			}

			stored, _ := store.Get()
			if stored.AccessToken != "access-2" || stored.RefreshToken != "refresh-2" {
				t.Errorf("expected rotated pair in store, got %+v", stored)
			}
		})

		t.Run("Without Refresh Token", func(t *testing.T) {
			m := NewManager(NewMemoryStore(), &fakeRefresher{}, nil, nil)

			if _, err := m.Refresh(context.Background()); !errors.Is(err, shared.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}
		})

		t.Run("Concurrent Callers Collapse To One Exchange", func(t *testing.T) {
			store := NewMemoryStore()
			store.Set("access-1", "refresh-1")
			refresher := &fakeRefresher{
				delay: 20 * time.Millisecond,
				token: &oauth2.Token{AccessToken: "access-2", RefreshToken: "refresh-2"},
			}
			m := NewManager(store, refresher, nil, nil)

			const callers = 8
			results := make([]string, callers)
			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					token, err := m.Refresh(context.Background())
					if err != nil {
						t.Errorf("caller %d: %v", i, err)
						return
					}
					results[i] = token
				}(i)
			}
			wg.Wait()

			if got := atomic.LoadInt32(&refresher.calls); got != 1 {
				t.Errorf("expected exactly 1 exchange, got %d", got)
			}
			for i, token := range results {
				if token != "access-2" {
					t.Errorf("caller %d: expected access-2, got %s", i, token)
				}
			}
		})

		t.Run("Failure Clears Session And Fires Logout Hook", func(t *testing.T) {
			store := NewMemoryStore()
			store.Set("access-1", "refresh-1")
			refresher := &fakeRefresher{err: errors.New("refresh token reuse detected")}

			loggedOut := make(chan struct{})
			m := NewManager(store, refresher, nil, func() { close(loggedOut) })

			_, err := m.Refresh(context.Background())
			if !errors.Is(err, shared.ErrUnauthenticated) {
				t.Errorf("expected ErrUnauthenticated, got %v", err)
			}

			stored, _ := store.Get()
			if stored != nil {
				t.Errorf("expected cleared store, got %+v", stored)
			}

			select {
			case <-loggedOut:
			case <-time.After(time.Second):
				t.Error("logout hook did not fire")
			}
		})
	})

	t.Run("TokenSource", func(t *testing.T) {
		store := NewMemoryStore()
		store.Set("access-1", "refresh-1")
		m := NewManager(store, &fakeRefresher{}, nil, nil)

		var source oauth2.TokenSource = m
		token, err := source.Token()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token.AccessToken != "access-1" {
			t.Errorf("expected access-1, got %s", token.AccessToken)
		}
	})
}
