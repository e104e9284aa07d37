package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/gesture"
	"github.com/maticai/matic/internal/scheduler"
	"github.com/maticai/matic/internal/tracker"
	"github.com/maticai/matic/internal/tui/components/agenda"
)

type SessionState int

const (
	StateWeek SessionState = iota
	StateToday
)

var tabTitles = []string{"Week", "Today"}

// weekUnit is how far one arrow press moves the carousel; an offset of one
// unit is one week.
const weekUnit = 1.0

type weekLoadedMsg struct {
	anchor time.Time
	week   tracker.Week
	today  string
	err    error
}

type agendaLoadedMsg struct {
	agenda scheduler.Agenda
	err    error
}

type toggledMsg struct {
	habitID string
	date    string
	err     error
}

type frameMsg time.Time

type Model struct {
	tracker *tracker.Service
	state   SessionState
	keys    KeyMap
	help    help.Model
	agenda  agenda.Model
	now     func() time.Time

	anchor time.Time
	week   tracker.Week
	today  string
	row    int
	col    int

	swipe     *gesture.Tracker
	swipePos  float64
	base      float64
	lastPress time.Time
	glide     *gesture.Inertia
	ticking   bool

	err      error
	quitting bool
	width    int
	height   int
}

type Option func(*Model)

// WithClock overrides the wall clock used for gesture sampling.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(svc *tracker.Service, opts ...Option) Model {
	m := Model{
		tracker: svc,
		state:   StateWeek,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		agenda:  agenda.New(0, 0),
		now:     time.Now,
		swipe:   gesture.NewTracker(),
		col:     -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func (m Model) ShortHelp() []key.Binding {
	if m.state == StateToday {
		return []key.Binding{m.keys.Tab, m.keys.Refresh, m.keys.Quit, m.keys.Help}
	}
	return m.keys.ShortHelp()
}

func (m Model) FullHelp() [][]key.Binding {
	return m.keys.FullHelp()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadWeek(time.Time{}), m.loadAgenda())
}

// loadWeek reads the week containing anchor; a zero anchor means today.
func (m Model) loadWeek(anchor time.Time) tea.Cmd {
	svc := m.tracker
	return func() tea.Msg {
		today, err := svc.Day("")
		if err != nil {
			return weekLoadedMsg{err: err}
		}
		if anchor.IsZero() {
			anchor = today
		}
		w, err := svc.Week(anchor)
		return weekLoadedMsg{
			anchor: anchor,
			week:   w,
			today:  today.Format(constants.DateFormat),
			err:    err,
		}
	}
}

func (m Model) loadAgenda() tea.Cmd {
	svc := m.tracker
	return func() tea.Msg {
		day, err := svc.Day("")
		if err != nil {
			return agendaLoadedMsg{err: err}
		}
		a, err := svc.Agenda(day)
		return agendaLoadedMsg{agenda: a, err: err}
	}
}

func (m Model) toggle(habitID, date string) tea.Cmd {
	svc := m.tracker
	return func() tea.Msg {
		_, err := svc.Toggle(habitID, date)
		return toggledMsg{habitID: habitID, date: date, err: err}
	}
}

func frame() tea.Cmd {
	return tea.Tick(gesture.Frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// swipeOffset is the carousel offset in weeks currently on screen.
func (m Model) swipeOffset() float64 {
	switch {
	case m.swipe.Active():
		return m.base + m.swipe.Offset()
	case m.glide != nil:
		return m.base + m.glide.Offset
	}
	return m.base
}

// selected returns the habit and date under the cursor.
func (m Model) selected() (string, string, bool) {
	if m.row < 0 || m.row >= len(m.week.Rows) || m.col < 0 || m.col >= len(m.week.Dates) {
		return "", "", false
	}
	return m.week.Rows[m.row].Habit.ID, m.week.Dates[m.col], true
}

func (m Model) todayColumn() int {
	for i, d := range m.week.Dates {
		if d == m.today {
			return i
		}
	}
	return 0
}
