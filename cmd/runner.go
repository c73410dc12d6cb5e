package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"studysync/internal/auth"
	"studysync/internal/repositories"
	"studysync/internal/services"
	"studysync/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	httpClient *http.Client
	api        *services.APIClient

	db       *sql.DB
	tokens   *auth.Manager
	service  *services.StudyService
	taskRepo *repositories.TaskRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	HTTPClient *http.Client

	// Store overrides the sqlite credential store; tests inject a memory store.
	Store auth.CredentialStore
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	r := &Runner{
		config:     opts.Config,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		httpClient: opts.HTTPClient,
	}
	r.api = services.NewAPIClient(opts.Config.Server, opts.HTTPClient, opts.Logger)

	if opts.Store != nil {
		r.tokens = auth.NewManager(opts.Store, r.api, r.logger, r.forcedLogout)
		r.service = services.NewStudyService(r.api, r.tokens, r.logger)
	}

	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, signupCommand, logoutCommand, whoamiCommand,
		classesCommand, todayCommand, startCommand, completeCommand,
		calendarCommand, tuiCommand, remindCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// session lazily opens the local database and wires the authenticated
// service stack. Migrations are idempotent, so a fresh database is usable
// without a separate setup run.
func (r *Runner) session() (*services.StudyService, error) {
	if r.service != nil {
		return r.service, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate local database: %w", err)
	}

	r.db = db
	r.taskRepo = repositories.NewTaskRepository(db)
	r.tokens = auth.NewManager(auth.NewSQLiteStore(db), r.api, r.logger, r.forcedLogout)
	r.service = services.NewStudyService(r.api, r.tokens, r.logger)
	return r.service, nil
}

// forcedLogout is the session-wide effect fired when a token refresh fails.
func (r *Runner) forcedLogout() {
	r.logger.Warn("session expired; run 'studysync login' to sign in again")
}

// Close releases the database connection if one was opened.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// SetLogger swaps the runner's logger (the TUI redirects logs to a file).
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// readLine prompts on the output writer and reads one line of input.
func (r *Runner) readLine(prompt string) (string, error) {
	if prompt != "" {
		r.writePlain("%s", prompt)
	}
	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
