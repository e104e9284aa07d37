package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/gesture"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/storage/sqlstore"
	"github.com/maticai/matic/internal/tracker"
)

// 2026-03-04 is a Wednesday; weeks start on Monday by default.
var fixedNow = time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(t *testing.T, habits ...string) (Model, *tracker.Service, *fakeClock) {
	t.Helper()
	store := sqlstore.NewSQLite(filepath.Join(t.TempDir(), "matic.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	settings := models.DefaultSettings()
	settings.Timezone = "UTC"
	require.NoError(t, store.SaveSettings(settings))

	for i, name := range habits {
		require.NoError(t, store.AddHabit(models.Habit{
			ID: uuid.New().String(), Name: name, Active: true, TargetValue: 1,
			Priority: i, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
		}))
	}

	svc := tracker.New(store, tracker.WithClock(func() time.Time { return fixedNow }))
	clock := &fakeClock{t: time.Unix(0, 0)}
	m := NewModel(svc, WithClock(clock.now))
	m = feed(t, m, m.loadWeek(time.Time{})())
	return m, svc, clock
}

func feed(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyType) Model {
	t.Helper()
	return feed(t, m, tea.KeyMsg{Type: k})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// settle feeds frames until the swipe comes to rest, then applies the
// resulting week load if any.
func settle(t *testing.T, m Model, clock *fakeClock) Model {
	t.Helper()
	for i := 0; i < 1000; i++ {
		clock.advance(gesture.Frame)
		next, cmd := m.Update(frameMsg(clock.now()))
		m = next.(Model)
		if !m.ticking {
			if cmd != nil {
				m = feed(t, m, cmd())
			}
			return m
		}
	}
	t.Fatal("swipe never settled")
	return m
}

func TestInitialWeekSelectsToday(t *testing.T) {
	m, _, _ := newTestModel(t, "Water", "Read")

	require.NoError(t, m.err)
	require.Len(t, m.week.Dates, 7)
	assert.Equal(t, "2026-03-02", m.week.Dates[0])
	assert.Equal(t, "2026-03-04", m.today)
	assert.Equal(t, 2, m.col)
	assert.Equal(t, 0, m.row)
	require.Len(t, m.week.Rows, 2)
	assert.Equal(t, "Water", m.week.Rows[0].Habit.Name)
}

func TestCursorIsClamped(t *testing.T) {
	m, _, _ := newTestModel(t, "Water", "Read")

	m = feed(t, m, runes("j"))
	m = feed(t, m, runes("j"))
	m = feed(t, m, runes("j"))
	assert.Equal(t, 1, m.row)

	for i := 0; i < 10; i++ {
		m = feed(t, m, runes("l"))
	}
	assert.Equal(t, 6, m.col)

	m = press(t, m, tea.KeyUp)
	m = press(t, m, tea.KeyUp)
	assert.Equal(t, 0, m.row)
}

func TestToggleSelectedCell(t *testing.T) {
	m, svc, _ := newTestModel(t, "Water")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(toggledMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, "2026-03-04", msg.date)

	p, err := svc.Store().GetHabitProgress(m.week.Rows[0].Habit.ID, "2026-03-04")
	require.NoError(t, err)
	assert.Equal(t, constants.ProgressCompleted, p.State())

	m = feed(t, m, m.loadWeek(m.anchor)())
	assert.Equal(t, constants.ProgressCompleted, m.week.Rows[0].Cells[2].State)
	assert.Equal(t, 1, m.week.Rows[0].DoneCount)
}

func TestToggleWithoutHabitsDoesNothing(t *testing.T) {
	m, _, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestSinglePressMovesOneWeek(t *testing.T) {
	m, _, clock := newTestModel(t, "Water")

	m = press(t, m, tea.KeyRight)
	assert.True(t, m.ticking)
	assert.Equal(t, 1.0, m.swipeOffset())

	m = settle(t, m, clock)
	assert.Equal(t, "2026-03-09", m.week.Dates[0])
	assert.Zero(t, m.swipeOffset())

	m = press(t, m, tea.KeyLeft)
	m = settle(t, m, clock)
	assert.Equal(t, "2026-03-02", m.week.Dates[0])
}

func TestFastSwipeCoasts(t *testing.T) {
	m, _, clock := newTestModel(t, "Water")

	for i := 0; i < 4; i++ {
		if i > 0 {
			clock.advance(30 * time.Millisecond)
		}
		m = press(t, m, tea.KeyRight)
	}
	assert.Equal(t, 4.0, m.swipeOffset())

	// 4 weeks over 90ms leaves enough velocity to glide four more.
	m = settle(t, m, clock)
	assert.Equal(t, "2026-04-27", m.week.Dates[0])
}

func TestTodayKeyReturnsToCurrentWeek(t *testing.T) {
	m, _, clock := newTestModel(t, "Water")

	m = press(t, m, tea.KeyLeft)
	m = settle(t, m, clock)
	assert.Equal(t, "2026-02-23", m.week.Dates[0])

	_, cmd := m.Update(runes("t"))
	require.NotNil(t, cmd)
	m = feed(t, m, cmd())
	assert.Equal(t, "2026-03-02", m.week.Dates[0])
	assert.Equal(t, 2, m.col)
}

func TestTabSwitchesToAgenda(t *testing.T) {
	m, _, _ := newTestModel(t, "Water")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, StateToday, m.state)
	require.NotNil(t, cmd)
	m = feed(t, m, cmd())
	require.NotNil(t, m.agenda.Agenda)
	assert.Equal(t, 1, m.agenda.Agenda.HabitsDue)

	m = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, StateWeek, m.state)
}

func TestView(t *testing.T) {
	m, _, _ := newTestModel(t, "Water")

	out := m.View()
	assert.Contains(t, out, "Week of 2026-03-02")
	assert.Contains(t, out, "Water")
	assert.True(t, strings.Contains(out, "We 04"))

	m = press(t, m, tea.KeyRight)
	assert.Contains(t, m.View(), "swiping +1.0 weeks")

	next, _ := m.Update(runes("q"))
	assert.Empty(t, next.View())
}
