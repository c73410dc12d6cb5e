package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"studysync/internal/calendar"
	"studysync/internal/shared"
	"studysync/internal/ui"
)

// TUI launches the interactive calendar. Logs go to a file so they do not
// tear the alternate screen.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	store, err := r.scheduledStore()
	if err != nil {
		return err
	}

	logger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	r.SetLogger(logger)

	weekStart := r.config.Calendar.WeekStartDay()
	projector := calendar.NewProjector(calendar.NewResolver(weekStart), store)
	model := ui.NewModel(ctx, projector, weekStart, time.Now())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}

	return nil
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Browse the task calendar interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Value: "studysync.log",
				Usage: "Where to write logs while the TUI is running",
			},
		},
		Action: r.TUI,
	}
}
