package models

import (
	"fmt"
	"time"
)

// DateFormat is the wire format for calendar dates. Dates are timezone-naive
// and compared only at day granularity, matching the backend convention.
const DateFormat = "2006-01-02"

// TaskType classifies a scheduled task.
type TaskType string

const (
	TaskLearn  TaskType = "learn"
	TaskReview TaskType = "review"
	TaskQuiz   TaskType = "quiz"
)

// Known reports whether the type is one of the three variants the client
// understands. Unknown values are kept as-is and rendered in a default
// bucket rather than rejected, so a new server-side type never breaks an
// older client.
func (t TaskType) Known() bool {
	switch t {
	case TaskLearn, TaskReview, TaskQuiz:
		return true
	}
	return false
}

// Label returns the display label for the task type.
func (t TaskType) Label() string {
	switch t {
	case TaskLearn:
		return "Learn"
	case TaskReview:
		return "Review"
	case TaskQuiz:
		return "Quiz"
	default:
		return "Task"
	}
}

// Marker returns a single-character marker for compact calendar cells.
func (t TaskType) Marker() string {
	switch t {
	case TaskLearn:
		return "L"
	case TaskReview:
		return "R"
	case TaskQuiz:
		return "Q"
	default:
		return "·"
	}
}

// Task is one scheduled unit of study work.
type Task struct {
	ID            string   `json:"id"`
	ChunkID       string   `json:"chunk_id"`
	ScheduledDate string   `json:"scheduled_date"`
	Type          TaskType `json:"task_type"`
	Completed     bool     `json:"completed"`
}

// Date parses ScheduledDate into a calendar day.
func (t Task) Date() (time.Time, error) {
	d, err := time.Parse(DateFormat, t.ScheduledDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid scheduled_date %q: %w", t.ScheduledDate, err)
	}
	return d, nil
}

// Class is an enrolled class grouping uploaded study material.
type Class struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ReviewSession is the study material returned when a task is started.
// QuizQuestion is only set for quiz tasks.
type ReviewSession struct {
	ChunkID      string `json:"chunk_id"`
	ChunkText    string `json:"chunk_text"`
	QuizQuestion string `json:"quiz_question,omitempty"`
}

// QuizFeedback is the grading feedback for a submitted quiz answer.
type QuizFeedback struct {
	Feedback string `json:"feedback"`
}
