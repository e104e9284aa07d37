package system

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/cli/clitest"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

func TestSettingsCmd_ListByDefault(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&SettingsCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Current Settings:")
	assert.Contains(t, out, "Timezone:              UTC")
	assert.NotContains(t, out, "Settings updated.")
}

func TestSettingsCmd_Update(t *testing.T) {
	env := clitest.New(t)
	tz, week := "America/Mexico_City", "sunday"

	require.NoError(t, (&SettingsCmd{Timezone: &tz, WeekStart: &week}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Settings updated.")
	assert.NotContains(t, out, "Current Settings:")

	settings, err := env.Store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, tz, settings.Timezone)
	assert.Equal(t, week, settings.WeekStart)
	assert.Equal(t, constants.DefaultMealCategory, settings.DefaultMealCategory)
}

func TestSettingsCmd_RejectsInvalid(t *testing.T) {
	env := clitest.New(t)
	week := "friday"

	assert.Error(t, (&SettingsCmd{WeekStart: &week}).Run(env.Ctx))
}

func TestCalendarCmd(t *testing.T) {
	env := clitest.New(t)
	require.NoError(t, env.Store.AddHabit(models.Habit{
		ID: "h1", Name: "Read", Active: true, TargetValue: 1, StartDate: "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
	}))

	require.NoError(t, (&CalendarCmd{Days: 3}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(out, "SUMMARY:Read"))
	assert.Contains(t, out, "h1-2026-03-04@matic")

	path := filepath.Join(t.TempDir(), "habits.ics")
	require.NoError(t, (&CalendarCmd{Days: 1, Output: path}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Wrote habit calendar to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "SUMMARY:Read"))
}
