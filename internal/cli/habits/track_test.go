package habits

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/cli/clitest"
	"github.com/maticai/matic/internal/constants"
)

func TestHabitTodayCmd(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&HabitTodayCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No habits due on 2026-03-04.")

	read := addHabit(t, env, HabitAddCmd{Name: "Read", Target: 1, Start: "2026-03-01"})
	// 2026-03-04 is a Wednesday.
	addHabit(t, env, HabitAddCmd{Name: "Gym", Target: 1, Start: "2026-03-01",
		ScheduleFlags: ScheduleFlags{Every: "weekdays", Weekdays: "tue,thu"}})

	require.NoError(t, (&HabitToggleCmd{ID: read.ID}).Run(env.Ctx))
	env.Output()

	require.NoError(t, (&HabitTodayCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Habits for 2026-03-04:")
	assert.Contains(t, out, "[x] Read 1/1")
	assert.NotContains(t, out, "Gym")
	assert.Contains(t, out, "Completed: 1/1")

	require.NoError(t, (&HabitTodayCmd{Date: "2026-03-05"}).Run(env.Ctx))
	out = env.Output()
	assert.Contains(t, out, "[ ] Read")
	assert.Contains(t, out, "[ ] Gym")
	assert.Contains(t, out, "Completed: 0/2")
}

func TestHabitTodayCmd_BadDate(t *testing.T) {
	env := clitest.New(t)
	assert.Error(t, (&HabitTodayCmd{Date: "03/04/2026"}).Run(env.Ctx))
}

func TestHabitToggleCmd_Cycles(t *testing.T) {
	env := clitest.New(t)
	h := addHabit(t, env, HabitAddCmd{Name: "Read", Target: 1, Start: "2026-03-01"})

	want := []string{"[x]", "[~]", "[ ]", "[x]"}
	for i, mark := range want {
		require.NoError(t, (&HabitToggleCmd{ID: h.ID, Date: "2026-03-02"}).Run(env.Ctx))
		out := env.Output()
		assert.True(t, strings.HasPrefix(out, mark+" "+h.ID+" on 2026-03-02"), "step %d: %q", i, out)
	}

	p, err := env.Store.GetHabitProgress(h.ID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, constants.ProgressCompleted, p.State())
}

func TestHabitToggleCmd_UnknownHabit(t *testing.T) {
	env := clitest.New(t)
	err := (&HabitToggleCmd{ID: "missing"}).Run(env.Ctx)
	require.Error(t, err)
	assert.Contains(t, env.Notes.String(), "failed to update habit progress")
}

func TestHabitWeekCmd(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&HabitWeekCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No active habits.")

	h := addHabit(t, env, HabitAddCmd{Name: "Read", Target: 1, Start: "2026-03-01"})
	require.NoError(t, (&HabitToggleCmd{ID: h.ID, Date: "2026-03-02"}).Run(env.Ctx))
	require.NoError(t, (&HabitToggleCmd{ID: h.ID, Date: "2026-03-03"}).Run(env.Ctx))
	require.NoError(t, (&HabitToggleCmd{ID: h.ID, Date: "2026-03-03"}).Run(env.Ctx))
	env.Output()

	require.NoError(t, (&HabitWeekCmd{}).Run(env.Ctx))
	lines := strings.Split(strings.TrimRight(env.Output(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Mon02")
	assert.Contains(t, lines[0], "Sun08")
	assert.True(t, strings.HasPrefix(lines[1], "Read"))
	assert.Contains(t, lines[1], "[x]")
	assert.Contains(t, lines[1], "[~]")
	assert.True(t, strings.HasSuffix(lines[1], " 1/7"), lines[1])
}
