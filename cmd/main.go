package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"studysync/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "studysync",
		Usage:    "Study schedule client for the StudySync spaced-repetition service",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrUnauthenticated) {
			logger.Error("not logged in; run 'studysync login <email>'")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
