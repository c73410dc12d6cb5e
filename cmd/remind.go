package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"studysync/internal/remind"
)

// Remind runs a foreground loop that periodically logs pending tasks.
func (r *Runner) Remind(ctx context.Context, cmd *cli.Command) error {
	store, err := r.todayStore()
	if err != nil {
		return err
	}

	reminder, err := remind.New(cmd.String("cron"), store, r.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.writePlain("Reminder loop running (%s). Press Ctrl-C to stop.\n", cmd.String("cron"))
	reminder.Run(ctx)
	return nil
}

func remindCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "remind",
		Usage: "Periodically report pending tasks for today",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "cron",
				Value: "@every 1h",
				Usage: "Cron schedule for reminder checks",
			},
		},
		Action: r.Remind,
	}
}
