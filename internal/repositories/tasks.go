package repositories

import (
	"database/sql"
	"fmt"

	"studysync/internal/models"
)

// TaskRepository persists fetched tasks in the cached_tasks table.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a TaskRepository with the given database connection.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ReplaceRange replaces all cached tasks whose scheduled date falls within
// the inclusive start..end range with the given set, in one transaction.
// Position preserves server order for day-bucketed reads.
func (r *TaskRepository) ReplaceRange(start, end string, tasks []models.Task) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cached_tasks WHERE scheduled_date BETWEEN ? AND ?", start, end); err != nil {
		return fmt.Errorf("failed to clear cached range: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO cached_tasks (id, chunk_id, scheduled_date, task_type, completed, position)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, task := range tasks {
		if _, err := stmt.Exec(task.ID, task.ChunkID, task.ScheduledDate, string(task.Type), task.Completed, i); err != nil {
			return fmt.Errorf("failed to insert task %s: %w", task.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit task cache: %w", err)
	}

	return nil
}

// ListBetween returns cached tasks in the inclusive date range, ordered by
// date then server position.
func (r *TaskRepository) ListBetween(start, end string) ([]models.Task, error) {
	query := `
		SELECT id, chunk_id, scheduled_date, task_type, completed
		FROM cached_tasks
		WHERE scheduled_date BETWEEN ? AND ?
		ORDER BY scheduled_date ASC, position ASC
	`

	rows, err := r.db.Query(query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task
		var taskType string
		if err := rows.Scan(&task.ID, &task.ChunkID, &task.ScheduledDate, &taskType, &task.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Type = models.TaskType(taskType)
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tasks, nil
}

// ListByDate returns cached tasks for one date in server order.
func (r *TaskRepository) ListByDate(date string) ([]models.Task, error) {
	return r.ListBetween(date, date)
}

// MarkCompleted updates the cached completion flag for a chunk after the
// server confirmed the completion.
func (r *TaskRepository) MarkCompleted(chunkID string) error {
	if _, err := r.db.Exec("UPDATE cached_tasks SET completed = 1 WHERE chunk_id = ?", chunkID); err != nil {
		return fmt.Errorf("failed to mark task completed: %w", err)
	}
	return nil
}
