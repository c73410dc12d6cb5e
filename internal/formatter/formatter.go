// package formatter renders tasks and calendar grids to text formats (plain text, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studysync/internal/calendar"
	"studysync/internal/models"
)

// TasksToCSV converts tasks to CSV with columns: ID, ChunkID, Date, Type, Completed
func TasksToCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "ChunkID", "Date", "Type", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range tasks {
		record := []string{
			task.ID,
			task.ChunkID,
			task.ScheduledDate,
			string(task.Type),
			strconv.FormatBool(task.Completed),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// TasksToMarkdown converts a day's tasks to a Markdown checklist.
func TasksToMarkdown(title string, tasks []models.Task) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tasks**: %d\n\n", len(tasks)))

	for _, task := range tasks {
		check := " "
		if task.Completed {
			check = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s (chunk %s)\n", check, task.Type.Label(), task.ChunkID))
	}

	return buf.Bytes()
}

// TaskLine renders one task as a single display line.
func TaskLine(task models.Task) string {
	status := "pending"
	if task.Completed {
		status = "done"
	}
	return fmt.Sprintf("%-7s %-10s %s (%s)", task.Type.Label(), task.ScheduledDate, task.ChunkID, status)
}

// FormatMonth renders the projected grid as a plain-text month view.
//
// Today's cell is bracketed and days with scheduled tasks carry a trailing
// asterisk. Out-of-month days render like any other day; the grid always
// spans whole weeks.
func FormatMonth(cells []calendar.DayCell, monthRef time.Time, weekStart time.Weekday) string {
	var buf strings.Builder

	title := monthRef.Format("January 2006")
	width := 7 * 5
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	buf.WriteString(strings.Repeat(" ", pad) + title + "\n")

	for i := 0; i < 7; i++ {
		day := time.Weekday((int(weekStart) + i) % 7)
		buf.WriteString(fmt.Sprintf("  %s ", day.String()[:2]))
	}
	buf.WriteString("\n")

	for i, cell := range cells {
		label := strconv.Itoa(cell.Date.Day())
		if cell.IsToday {
			label = "[" + label + "]"
		}
		if len(cell.Tasks) > 0 {
			label += "*"
		}
		buf.WriteString(fmt.Sprintf("%5s", label))

		if (i+1)%7 == 0 {
			buf.WriteString("\n")
		}
	}

	return buf.String()
}
