// Package tasks implements client-side caches of scheduled study tasks.
//
// [ScheduledTaskStore] is a fetch-once-per-range cache indexed by date,
// backing the calendar grid. [TodayStore] holds only the current day's
// tasks for the dashboard's "start next task" affordance.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"studysync/internal/calendar"
	"studysync/internal/models"
	"studysync/internal/shared"
)

// Fetcher fetches scheduled tasks for an inclusive date range.
// Implemented by [services.StudyService].
type Fetcher interface {
	TasksInRange(ctx context.Context, start, end string) ([]models.Task, error)
}

// Mirror persists fetched tasks locally for offline reads. Implemented by
// [repositories.TaskRepository]; optional.
type Mirror interface {
	ReplaceRange(start, end string, tasks []models.Task) error
	ListBetween(start, end string) ([]models.Task, error)
}

// ScheduledTaskStore caches tasks for the most recently requested range,
// indexed by scheduled date.
//
// Each Load fully replaces the cached window; there is no incremental merge.
// Redundant fetches are accepted in exchange for never serving a stale
// partial window. Month navigation cancels nothing: instead, responses are
// matched against the newest requested range and discarded when they lost
// the race (last-request-wins).
type ScheduledTaskStore struct {
	fetcher Fetcher
	mirror  Mirror
	logger  *log.Logger

	mu      sync.Mutex
	byDate  map[string][]models.Task
	current string // key of the newest requested range
}

// NewScheduledTaskStore creates a store. mirror may be nil.
func NewScheduledTaskStore(fetcher Fetcher, mirror Mirror, logger *log.Logger) *ScheduledTaskStore {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ScheduledTaskStore{
		fetcher: fetcher,
		mirror:  mirror,
		logger:  logger,
		byDate:  make(map[string][]models.Task),
	}
}

// Load fetches tasks for the range and replaces the cached window.
//
// If a newer Load was requested while this one's response was in flight, the
// response is discarded and [shared.ErrStaleRange] is returned; a slow fetch
// for a previous month must not overwrite a faster fetch for the current
// one. Callers treat that error as an expected race outcome, not a fault.
func (s *ScheduledTaskStore) Load(ctx context.Context, r calendar.DateRange) error {
	key := r.String()

	s.mu.Lock()
	s.current = key
	s.mu.Unlock()

	fetched, err := s.fetcher.TasksInRange(ctx, r.Start.Format(models.DateFormat), r.End.Format(models.DateFormat))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != key {
		s.logger.Debug("discarding stale range response", "range", key, "current", s.current)
		return fmt.Errorf("%w: %s", shared.ErrStaleRange, key)
	}

	s.byDate = make(map[string][]models.Task)
	for _, task := range fetched {
		s.byDate[task.ScheduledDate] = append(s.byDate[task.ScheduledDate], task)
	}

	if s.mirror != nil {
		start := r.Start.Format(models.DateFormat)
		end := r.End.Format(models.DateFormat)
		if err := s.mirror.ReplaceRange(start, end, fetched); err != nil {
			// Offline mirror is best-effort; the in-memory window is
			// authoritative for the current session.
			s.logger.Warn("failed to mirror tasks locally", "error", err)
		}
	}

	return nil
}

// TasksOn returns the cached tasks for the date in server order, or an
// empty slice. Never fails, never triggers I/O.
func (s *ScheduledTaskStore) TasksOn(date time.Time) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byDate[date.Format(models.DateFormat)]
}

// TodayFetcher fetches the current day's tasks.
// Implemented by [services.StudyService].
type TodayFetcher interface {
	TodayTasks(ctx context.Context) ([]models.Task, error)
}

// TodayStore holds the current day's tasks, loaded once at session start.
type TodayStore struct {
	fetcher TodayFetcher
	mirror  Mirror

	mu     sync.Mutex
	tasks  []models.Task
	loaded bool
}

// NewTodayStore creates a TodayStore. mirror may be nil.
func NewTodayStore(fetcher TodayFetcher, mirror Mirror) *TodayStore {
	return &TodayStore{fetcher: fetcher, mirror: mirror}
}

// Load fetches today's tasks from the backend.
func (s *TodayStore) Load(ctx context.Context) error {
	fetched, err := s.fetcher.TodayTasks(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = fetched
	s.loaded = true
	return nil
}

// LoadOffline fills the store from the local mirror instead of the network.
func (s *TodayStore) LoadOffline(today time.Time) error {
	if s.mirror == nil {
		return fmt.Errorf("%w: no offline mirror configured", shared.ErrInvalidInput)
	}

	day := today.Format(models.DateFormat)
	cached, err := s.mirror.ListBetween(day, day)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = cached
	s.loaded = true
	return nil
}

// All returns today's tasks in server order.
func (s *TodayStore) All() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks
}

// Pending returns today's uncompleted tasks, preserving server order.
func (s *TodayStore) Pending() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []models.Task
	for _, task := range s.tasks {
		if !task.Completed {
			pending = append(pending, task)
		}
	}
	return pending
}

// Next returns the first pending task. First-pending-wins: the server's
// ordering is the priority, the client adds none of its own.
func (s *TodayStore) Next() (models.Task, bool) {
	pending := s.Pending()
	if len(pending) == 0 {
		return models.Task{}, false
	}
	return pending[0], true
}
