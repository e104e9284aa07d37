package calendar

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

func TestHabitFeedOneEventPerDueDay(t *testing.T) {
	habits := []models.Habit{
		{
			ID: "gym", Name: "Gym", Category: "fitness", Active: true, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday", "wednesday"}},
		},
		{
			ID: "water", Name: "Water", Active: true, TargetValue: 8, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
		},
		{
			ID: "old", Name: "Archived", Active: false, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
		},
	}
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteHabitFeed(&buf, habits, from, 7, now))

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	require.NoError(t, err)

	events := cal.Events()
	// 2 gym days + 7 water days
	require.Len(t, events, 9)

	var gymDays []string
	for _, e := range events {
		summary := e.GetProperty(ical.ComponentPropertySummary).Value
		assert.NotEqual(t, "Archived", summary)
		if summary == "Gym" {
			start, err := e.GetAllDayStartAt()
			require.NoError(t, err)
			gymDays = append(gymDays, start.Format(constants.DateFormat))
			assert.Equal(t, "fitness", e.GetProperty(ical.ComponentPropertyCategories).Value)
		}
	}
	assert.Equal(t, []string{"2026-03-02", "2026-03-04"}, gymDays)
	assert.Contains(t, buf.String(), "Target: 8")
}

func TestHabitFeedClampsWindow(t *testing.T) {
	habits := []models.Habit{{
		ID: "d", Name: "Daily", Active: true, StartDate: "2020-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
	}}
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Len(t, HabitFeed(habits, from, 0, from).Events(), 1)
	assert.Len(t, HabitFeed(habits, from, 1000, from).Events(), MaxDays)
}
