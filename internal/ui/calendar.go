package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"studysync/internal/calendar"
	"studysync/internal/shared"
)

// keyMap defines the key bindings for the calendar TUI.
type keyMap struct {
	left      key.Binding
	right     key.Binding
	up        key.Binding
	down      key.Binding
	prevMonth key.Binding
	nextMonth key.Binding
	today     key.Binding
	start     key.Binding
	reload    key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev week"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next week"),
		),
		prevMonth: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "prev month"),
		),
		nextMonth: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "next month"),
		),
		today: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "today"),
		),
		start: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next task"),
		),
		reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.prevMonth, k.nextMonth, k.today, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.up, k.down},
		{k.prevMonth, k.nextMonth, k.today},
		{k.start, k.reload, k.quit},
	}
}

// gridMsg carries a projected grid back to the event loop, tagged with the
// month it was requested for so late responses can be matched against the
// month currently on screen.
type gridMsg struct {
	month time.Time
	cells []calendar.DayCell
	err   error
}

// Model is the calendar TUI state.
//
// States: loading (spinner in the header) and ready. A failed load keeps the
// previous grid on screen with a status message; it never blanks the view.
type Model struct {
	ctx       context.Context
	projector *calendar.Projector
	weekStart time.Weekday

	month    time.Time // first day of the displayed month
	today    time.Time
	cells    []calendar.DayCell
	selected int

	loading bool
	status  string
	width   int
	height  int
	help    help.Model
	keys    keyMap
}

// NewModel creates a calendar model anchored on today's month.
func NewModel(ctx context.Context, projector *calendar.Projector, weekStart time.Weekday, today time.Time) *Model {
	day := calendar.Day(today)
	return &Model{
		ctx:       ctx,
		projector: projector,
		weekStart: weekStart,
		month:     time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC),
		today:     day,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init triggers the first grid load.
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return m.loadGrid(m.month)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case gridMsg:
		// Last-request-wins: a slow load for a month the user has already
		// navigated away from is dropped on the floor.
		if msg.month.Month() != m.month.Month() || msg.month.Year() != m.month.Year() {
			return m, nil
		}

		m.loading = false
		switch {
		case msg.err == nil:
			m.cells = msg.cells
			m.status = ""
		case errors.Is(msg.err, shared.ErrStaleRange):
			// Expected race outcome, nothing to surface.
		case errors.Is(msg.err, shared.ErrUnauthenticated):
			m.status = "session expired, log in again"
			return m, tea.Quit
		default:
			// Keep the previous grid; a transient failure should not blank
			// the calendar.
			if len(msg.cells) > 0 && len(m.cells) == 0 {
				m.cells = msg.cells
			}
			m.status = fmt.Sprintf("load failed: %v", msg.err)
		}
		m.clampSelection()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.up):
		m.moveSelection(-7)
	case key.Matches(msg, m.keys.down):
		m.moveSelection(7)

	case key.Matches(msg, m.keys.prevMonth):
		return m.navigate(m.month.AddDate(0, -1, 0))
	case key.Matches(msg, m.keys.nextMonth):
		return m.navigate(m.month.AddDate(0, 1, 0))
	case key.Matches(msg, m.keys.today):
		return m.navigate(time.Date(m.today.Year(), m.today.Month(), 1, 0, 0, 0, 0, time.UTC))

	case key.Matches(msg, m.keys.start):
		m.status = m.startHint()

	case key.Matches(msg, m.keys.reload):
		m.loading = true
		return m, m.loadGrid(m.month)
	}

	return m, nil
}

// navigate switches the displayed month and kicks off a load. Nothing is
// canceled; the gridMsg handler discards whichever response loses the race.
func (m *Model) navigate(month time.Time) (tea.Model, tea.Cmd) {
	m.month = month
	m.loading = true
	m.selected = 0
	return m, m.loadGrid(month)
}

func (m *Model) loadGrid(month time.Time) tea.Cmd {
	return func() tea.Msg {
		cells, err := m.projector.Project(m.ctx, month, m.today)
		return gridMsg{month: month, cells: cells, err: err}
	}
}

// startHint names the selected day's first pending task and the command
// that starts it.
func (m *Model) startHint() string {
	if len(m.cells) == 0 || m.selected >= len(m.cells) {
		return ""
	}
	for _, task := range m.cells[m.selected].Tasks {
		if !task.Completed {
			return fmt.Sprintf("%s %s: run 'studysync start %s'", task.Type.Label(), task.ChunkID, task.ChunkID)
		}
	}
	return "nothing pending on this day"
}

func (m *Model) moveSelection(delta int) {
	if len(m.cells) == 0 {
		return
	}
	next := m.selected + delta
	if next >= 0 && next < len(m.cells) {
		m.selected = next
	}
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.cells) {
		m.selected = 0
	}
}

// View renders the month grid with a detail pane for the selected day.
func (m *Model) View() string {
	var b strings.Builder

	title := m.month.Format("January 2006")
	if m.loading {
		title += " (loading…)"
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	for i := 0; i < 7; i++ {
		day := time.Weekday((int(m.weekStart) + i) % 7)
		b.WriteString(styles.help.Render(fmt.Sprintf(" %3s ", day.String()[:3])))
	}
	b.WriteString("\n")

	for i, cell := range m.cells {
		b.WriteString(m.renderCell(i, cell))
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetail())

	if m.status != "" {
		b.WriteString("\n" + styles.warn.Render(m.status))
	}

	b.WriteString("\n" + m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderCell(index int, cell calendar.DayCell) string {
	label := fmt.Sprintf("%2s", strconv.Itoa(cell.Date.Day()))
	if len(cell.Tasks) > 0 {
		label += "•"
	} else {
		label += " "
	}
	label = fmt.Sprintf(" %s ", label)

	switch {
	case index == m.selected:
		return styles.selected.Render(label)
	case cell.IsToday:
		return styles.today.Render(label)
	case !cell.InCurrentMonth:
		return styles.dim.Render(label)
	default:
		return label
	}
}

func (m *Model) renderDetail() string {
	if len(m.cells) == 0 || m.selected >= len(m.cells) {
		return ""
	}

	cell := m.cells[m.selected]
	header := styles.ok.Render(cell.Date.Format("Mon, Jan 2"))
	if len(cell.Tasks) == 0 {
		return fmt.Sprintf("%s\n  %s", header, styles.help.Render("no tasks scheduled"))
	}

	var b strings.Builder
	b.WriteString(header)
	for _, task := range cell.Tasks {
		status := " "
		if task.Completed {
			status = "✓"
		}
		b.WriteString(fmt.Sprintf("\n  %s %s %s", status, task.Type.Label(), styles.help.Render(task.ChunkID)))
	}
	return b.String()
}
