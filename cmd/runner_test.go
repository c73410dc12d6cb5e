package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"studysync/internal/auth"
	"studysync/internal/shared"
	tu "studysync/internal/testing"
)

// newTestRunner builds a Runner against the given backend with an injected
// in-memory credential store, so commands run without a local database.
func newTestRunner(serverURL string, store auth.CredentialStore, input string) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	config := shared.DefaultConfig()
	config.Server.BaseURL = serverURL

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
		Input:  strings.NewReader(input),
		Store:  store,
	})
	return runner, output
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with injected store wires the service", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Store: auth.NewMemoryStore()})

			if runner.service == nil {
				t.Error("expected service to be wired from injected store")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) != 12 {
			t.Errorf("expected 12 commands, got %d", len(commands))
		}

		seen := map[string]bool{}
		for _, cmd := range commands {
			seen[cmd.Name] = true
		}
		for _, name := range []string{"setup", "login", "logout", "whoami", "today", "calendar", "tui", "remind"} {
			if !seen[name] {
				t.Errorf("expected command %s to be registered", name)
			}
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"key": "value"`) {
				t.Errorf("expected indented JSON, got %q", output.String())
			}
		})

		t.Run("write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("readLine", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Output: &bytes.Buffer{},
			Input:  strings.NewReader("  hunter2  \n"),
		})

		line, err := runner.readLine("Password: ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if line != "hunter2" {
			t.Errorf("expected trimmed input, got %q", line)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login Stores Token Pair", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/login" {
				t.Errorf("expected login path, got %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "access-1", "refresh_token": "refresh-1"})
		}))
		defer server.Close()

		store := auth.NewMemoryStore()
		runner, output := newTestRunner(server.URL, store, "hunter2\n")

		cmd := loginCommand(runner)
		if err := cmd.Run(context.Background(), []string{"login", "user@example.com"}); err != nil {
			t.Fatalf("login failed: %v", err)
		}

		stored, _ := store.Get()
		if stored == nil || stored.AccessToken != "access-1" {
			t.Errorf("expected stored session, got %+v", stored)
		}
		if !strings.Contains(output.String(), "Logged in as user@example.com") {
			t.Errorf("expected confirmation, got %q", output.String())
		}
	})

	t.Run("Whoami", func(t *testing.T) {
		t.Run("Without Session", func(t *testing.T) {
			runner, output := newTestRunner("http://example.com", auth.NewMemoryStore(), "")

			cmd := whoamiCommand(runner)
			if err := cmd.Run(context.Background(), []string{"whoami"}); err != nil {
				t.Fatalf("whoami failed: %v", err)
			}
			if !strings.Contains(output.String(), "Not logged in") {
				t.Errorf("expected not-logged-in message, got %q", output.String())
			}
		})

		t.Run("With Session", func(t *testing.T) {
			store := auth.NewMemoryStore()
			store.Set("access-1", "refresh-1")
			runner, output := newTestRunner("http://example.com", store, "")

			cmd := whoamiCommand(runner)
			if err := cmd.Run(context.Background(), []string{"whoami"}); err != nil {
				t.Fatalf("whoami failed: %v", err)
			}
			if !strings.Contains(output.String(), "Session active") {
				t.Errorf("expected active-session message, got %q", output.String())
			}
		})
	})

	t.Run("Logout Clears Session", func(t *testing.T) {
		store := auth.NewMemoryStore()
		store.Set("access-1", "refresh-1")
		runner, _ := newTestRunner("http://example.com", store, "")

		cmd := logoutCommand(runner)
		if err := cmd.Run(context.Background(), []string{"logout"}); err != nil {
			t.Fatalf("logout failed: %v", err)
		}

		stored, _ := store.Get()
		if stored != nil {
			t.Errorf("expected cleared session, got %+v", stored)
		}
	})
}

func TestTodayCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"reviews": []map[string]any{
				{"id": "t1", "chunk_id": "c1", "scheduled_date": "2024-03-15", "task_type": "learn", "completed": true},
				{"id": "t2", "chunk_id": "c2", "scheduled_date": "2024-03-15", "task_type": "quiz", "completed": false},
			},
		})
	}))
	defer server.Close()

	store := auth.NewMemoryStore()
	store.Set("access-1", "refresh-1")
	runner, output := newTestRunner(server.URL, store, "")

	cmd := todayCommand(runner)
	if err := cmd.Run(context.Background(), []string{"today"}); err != nil {
		t.Fatalf("today failed: %v", err)
	}

	if !strings.Contains(output.String(), "Quiz") {
		t.Errorf("expected task listing, got %q", output.String())
	}
	if !strings.Contains(output.String(), "studysync start c2") {
		t.Errorf("expected next-task hint for first pending task, got %q", output.String())
	}
}
