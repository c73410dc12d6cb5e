package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"studysync/internal/calendar"
	"studysync/internal/formatter"
	"studysync/internal/shared"
	"studysync/internal/tasks"
)

// scheduledStore builds the range-scoped task store over the current session.
func (r *Runner) scheduledStore() (*tasks.ScheduledTaskStore, error) {
	service, err := r.session()
	if err != nil {
		return nil, err
	}
	var mirror tasks.Mirror
	if r.taskRepo != nil {
		mirror = r.taskRepo
	}
	return tasks.NewScheduledTaskStore(service, mirror, r.logger), nil
}

// Calendar prints a whole-week month grid of scheduled tasks.
func (r *Runner) Calendar(ctx context.Context, cmd *cli.Command) error {
	month := time.Now()
	if ref := cmd.String("month"); ref != "" {
		parsed, err := time.Parse("2006-01", ref)
		if err != nil {
			return fmt.Errorf("%w: month must be YYYY-MM", shared.ErrInvalidInput)
		}
		month = parsed
	}

	store, err := r.scheduledStore()
	if err != nil {
		return err
	}

	weekStart := r.config.Calendar.WeekStartDay()
	projector := calendar.NewProjector(calendar.NewResolver(weekStart), store)

	cells, err := projector.Project(ctx, month, time.Now())
	if err != nil && !errors.Is(err, shared.ErrStaleRange) {
		if errors.Is(err, shared.ErrUnauthenticated) {
			return err
		}
		r.logger.Warn("showing cached tasks", "error", err)
	}

	return r.writePlain("%s", formatter.FormatMonth(cells, month, weekStart))
}

func calendarCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "calendar",
		Usage: "Show a month grid of scheduled tasks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "month",
				Aliases: []string{"m"},
				Usage:   "Month to show (YYYY-MM, defaults to the current month)",
			},
		},
		Action: r.Calendar,
	}
}
