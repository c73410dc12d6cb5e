package calendar

import (
	"context"
	"sync"
	"time"

	"studysync/internal/models"
)

// DayCell is one square of the month grid, derived fresh on every
// projection and never mutated in place.
type DayCell struct {
	Date           time.Time
	InCurrentMonth bool
	IsToday        bool
	Tasks          []models.Task // server order preserved
}

// TaskSource provides day-bucketed access to scheduled tasks for a range.
// Implemented by [tasks.ScheduledTaskStore].
type TaskSource interface {
	// Load fetches and indexes tasks for the range, replacing any previous
	// window. Returns [shared.ErrStaleRange] when a newer range superseded
	// this one before the response arrived.
	Load(ctx context.Context, r DateRange) error

	// TasksOn returns the cached tasks for a date, or an empty slice. Never
	// fails and never triggers I/O.
	TasksOn(date time.Time) []models.Task
}

// Projector composes a [Resolver] and a [TaskSource] into renderable grids.
// Its only state is the last successfully loaded range, used to skip
// redundant loads when re-projecting the same month.
type Projector struct {
	resolver *Resolver
	source   TaskSource

	mu     sync.Mutex
	loaded *DateRange
}

// NewProjector creates a Projector.
func NewProjector(resolver *Resolver, source TaskSource) *Projector {
	return &Projector{resolver: resolver, source: source}
}

// Project builds the grid for the month containing monthRef.
//
// The task source is reloaded only when the resolved range differs from the
// last successful load; projecting the same month twice is a cache hit. On a
// load failure the grid is still built from whatever the source has cached,
// so a transient fetch failure shows a stale calendar instead of a blank
// one; the error is returned alongside for surfacing.
func (p *Projector) Project(ctx context.Context, monthRef, today time.Time) ([]DayCell, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rng := p.resolver.RangeFor(monthRef)

	var loadErr error
	if p.loaded == nil || !p.loaded.Equal(rng) {
		if loadErr = p.source.Load(ctx, rng); loadErr == nil {
			p.loaded = &rng
		}
	}

	cells := make([]DayCell, 0, rng.Len())
	for _, date := range rng.Days() {
		cells = append(cells, DayCell{
			Date:           date,
			InCurrentMonth: date.Month() == monthRef.Month(),
			IsToday:        SameDay(date, today),
			Tasks:          p.source.TasksOn(date),
		})
	}

	return cells, loadErr
}

// Range exposes the resolved range for monthRef without loading anything.
func (p *Projector) Range(monthRef time.Time) DateRange {
	return p.resolver.RangeFor(monthRef)
}
