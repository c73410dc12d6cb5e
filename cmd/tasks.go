package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"studysync/internal/formatter"
	"studysync/internal/models"
	"studysync/internal/shared"
	"studysync/internal/tasks"
)

// todayStore builds a TodayStore over the current session.
func (r *Runner) todayStore() (*tasks.TodayStore, error) {
	service, err := r.session()
	if err != nil {
		return nil, err
	}
	var mirror tasks.Mirror
	if r.taskRepo != nil {
		mirror = r.taskRepo
	}
	return tasks.NewTodayStore(service, mirror), nil
}

// Today prints the tasks scheduled for the current day.
func (r *Runner) Today(ctx context.Context, cmd *cli.Command) error {
	store, err := r.todayStore()
	if err != nil {
		return err
	}

	if cmd.Bool("offline") {
		if err := store.LoadOffline(time.Now()); err != nil {
			return err
		}
	} else if err := store.Load(ctx); err != nil {
		return err
	}

	all := store.All()

	if cmd.Bool("json") {
		return r.writeJSON(all, true)
	}
	if cmd.Bool("csv") {
		data, err := formatter.TasksToCSV(all)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	if len(all) == 0 {
		return r.writePlain("Nothing scheduled for today.\n")
	}

	for _, task := range all {
		r.writePlain("%s\n", formatter.TaskLine(task))
	}

	if next, ok := store.Next(); ok {
		r.writePlain("\nNext up: %s %s (run 'studysync start %s')\n", next.Type.Label(), next.ChunkID, next.ChunkID)
	} else {
		r.writePlain("\n✓ All done for today\n")
	}

	return nil
}

// Start begins a study session for the given chunk, or for the first
// pending task of the day when no chunk is given.
func (r *Runner) Start(ctx context.Context, cmd *cli.Command) error {
	service, err := r.session()
	if err != nil {
		return err
	}

	chunkID := cmd.StringArg("chunk-id")
	var taskType models.TaskType

	if chunkID == "" {
		store, err := r.todayStore()
		if err != nil {
			return err
		}
		if err := store.Load(ctx); err != nil {
			return err
		}
		next, ok := store.Next()
		if !ok {
			return fmt.Errorf("%w: nothing left to start today", shared.ErrNoPendingTasks)
		}
		chunkID = next.ChunkID
		taskType = next.Type
	}

	session, err := service.StartReview(ctx, chunkID, taskType)
	if err != nil {
		return err
	}

	r.writePlain("─────────────────────────────────────\n")
	r.writePlain("Study Material (chunk %s)\n", session.ChunkID)
	r.writePlain("─────────────────────────────────────\n")
	r.writePlain("%s\n", session.ChunkText)

	if session.QuizQuestion != "" {
		r.writePlain("\nQuiz: %s\n", session.QuizQuestion)
		answer, err := r.readLine("Answer: ")
		if err != nil {
			return err
		}

		feedback, err := service.SubmitQuiz(ctx, session.ChunkID, answer, session.QuizQuestion)
		if err != nil {
			return err
		}
		r.writePlain("\n%s\n", feedback.Feedback)
	}

	if session.QuizQuestion != "" || cmd.Bool("complete") {
		return r.complete(ctx, session.ChunkID)
	}

	return r.writePlain("\nRun 'studysync complete %s' when you're done\n", session.ChunkID)
}

// Complete marks the task for a chunk as completed.
func (r *Runner) Complete(ctx context.Context, cmd *cli.Command) error {
	chunkID := cmd.StringArg("chunk-id")
	if chunkID == "" {
		return fmt.Errorf("%w: chunk-id", shared.ErrMissingArgument)
	}

	if _, err := r.session(); err != nil {
		return err
	}

	return r.complete(ctx, chunkID)
}

func (r *Runner) complete(ctx context.Context, chunkID string) error {
	if err := r.service.CompleteReview(ctx, chunkID); err != nil {
		return err
	}

	// Keep the offline mirror roughly in sync; the server remains the
	// source of truth.
	if r.taskRepo != nil {
		if err := r.taskRepo.MarkCompleted(chunkID); err != nil {
			r.logger.Warn("failed to update local cache", "error", err)
		}
	}

	return r.writePlain("✓ Marked chunk %s as completed\n", chunkID)
}

func todayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "today",
		Usage: "Show today's scheduled tasks",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "csv",
				Usage: "Output CSV",
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Read from the local cache instead of the network",
			},
		},
		Action: r.Today,
	}
}

func startCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start a study session (defaults to the next pending task)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "chunk-id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "complete",
				Usage: "Mark the task completed after showing it",
			},
		},
		Action: r.Start,
	}
}

func completeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "complete",
		Usage: "Mark a task as completed",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "chunk-id"},
		},
		Action: r.Complete,
	}
}
