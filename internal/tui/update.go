package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maticai/matic/internal/gesture"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.agenda.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case weekLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.anchor = msg.anchor
		m.week = msg.week
		m.today = msg.today
		if m.col < 0 {
			m.col = m.todayColumn()
		}
		m.clampCursor()
		return m, nil

	case agendaLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.agenda.SetAgenda(msg.agenda)
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		return m, tea.Batch(m.loadWeek(m.anchor), m.loadAgenda())

	case frameMsg:
		return m.stepSwipe()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, m.onTab()
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, m.onTab()
		}
		if m.state == StateToday {
			if key.Matches(msg, m.keys.Refresh) {
				return m, m.loadAgenda()
			}
			var cmd tea.Cmd
			m.agenda, cmd = m.agenda.Update(msg)
			return m, cmd
		}
		return m.updateWeek(msg)
	}
	return m, nil
}

func (m Model) onTab() tea.Cmd {
	if m.state == StateToday {
		return m.loadAgenda()
	}
	return nil
}

func (m Model) updateWeek(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.row--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clampCursor()
	case key.Matches(msg, m.keys.Left):
		m.col--
		m.clampCursor()
	case key.Matches(msg, m.keys.Right):
		m.col++
		m.clampCursor()
	case key.Matches(msg, m.keys.Toggle):
		if habitID, date, ok := m.selected(); ok {
			return m, m.toggle(habitID, date)
		}
	case key.Matches(msg, m.keys.PrevWeek):
		return m.press(-weekUnit)
	case key.Matches(msg, m.keys.NextWeek):
		return m.press(weekUnit)
	case key.Matches(msg, m.keys.Today):
		m.glide = nil
		m.base = 0
		m.col = -1
		return m, m.loadWeek(time.Time{})
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadWeek(m.anchor)
	}
	return m, nil
}

// press feeds one arrow press into the swipe gesture. A press during a
// glide catches it and continues from where it was.
func (m Model) press(step float64) (tea.Model, tea.Cmd) {
	now := m.now()
	if m.glide != nil {
		m.base += m.glide.Offset
		m.glide = nil
	}
	if !m.swipe.Active() {
		m.swipePos = 0
		m.swipe.Start(0, now)
	}
	m.swipePos += step
	m.swipe.Move(m.swipePos, now)
	m.lastPress = now
	if m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, frame()
}

// stepSwipe advances the gesture by one frame: a swipe with no press for
// a full sample window is released into a glide, and a glide that comes
// to rest snaps to the nearest week.
func (m Model) stepSwipe() (tea.Model, tea.Cmd) {
	if m.swipe.Active() {
		if m.now().Sub(m.lastPress) <= gesture.SampleWindow {
			return m, frame()
		}
		offset := m.swipe.Offset()
		m.glide = gesture.NewInertia(offset, m.swipe.Release())
	}
	if m.glide == nil {
		m.ticking = false
		return m, nil
	}
	if m.glide.Step() {
		return m, frame()
	}

	shift := gesture.Snap(m.base+m.glide.Offset, weekUnit)
	m.glide = nil
	m.base = 0
	m.ticking = false
	if shift == 0 {
		return m, nil
	}
	m.anchor = m.anchor.AddDate(0, 0, 7*shift)
	return m, m.loadWeek(m.anchor)
}

func (m *Model) clampCursor() {
	m.row = clamp(m.row, 0, len(m.week.Rows)-1)
	m.col = clamp(m.col, 0, len(m.week.Dates)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
