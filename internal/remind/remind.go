// Package remind runs a cron-scheduled refresh of today's tasks and logs
// pending work, so a long-lived terminal session keeps nudging the user.
package remind

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
	"studysync/internal/shared"
	"studysync/internal/tasks"
)

// Reminder periodically reloads the today store on a cron schedule.
type Reminder struct {
	cron   *cron.Cron
	store  *tasks.TodayStore
	logger *log.Logger
}

// New creates a Reminder for the given cron spec (standard 5-field specs and
// @every descriptors are accepted).
func New(spec string, store *tasks.TodayStore, logger *log.Logger) (*Reminder, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	r := &Reminder{
		cron:   cron.New(),
		store:  store,
		logger: logger,
	}

	if _, err := r.cron.AddFunc(spec, r.tick); err != nil {
		return nil, fmt.Errorf("%w: bad cron spec %q: %v", shared.ErrInvalidFlag, spec, err)
	}

	return r, nil
}

// Run starts the schedule, fires one immediate tick, and blocks until the
// context is canceled.
func (r *Reminder) Run(ctx context.Context) {
	r.tick()
	r.cron.Start()
	<-ctx.Done()

	stopped := r.cron.Stop()
	<-stopped.Done()
}

func (r *Reminder) tick() {
	if err := r.store.Load(context.Background()); err != nil {
		r.logger.Warn("reminder refresh failed", "error", err)
		return
	}

	pending := r.store.Pending()
	if len(pending) == 0 {
		r.logger.Info("no pending tasks today")
		return
	}

	next := pending[0]
	r.logger.Info("tasks pending today", "count", len(pending), "next", next.ChunkID, "type", next.Type.Label())
}
