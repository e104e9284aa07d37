package tasks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/cli/clitest"
	"github.com/maticai/matic/internal/models"
)

func addTask(t *testing.T, env *clitest.Env, cmd TaskAddCmd) models.Task {
	t.Helper()
	require.NoError(t, cmd.Run(env.Ctx))
	env.Output()
	tasks, err := env.Store.GetAllTasks(true)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Title == cmd.Title {
			return task
		}
	}
	t.Fatalf("task %q not stored", cmd.Title)
	return models.Task{}
}

func TestTaskAddCmd_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TaskAddCmd
		wantErr bool
	}{
		{name: "plain", cmd: TaskAddCmd{Title: "Buy milk"}},
		{name: "due date and time", cmd: TaskAddCmd{Title: "Dentist", Due: "2026-03-10", At: "09:30"}},
		{name: "recurring with time", cmd: TaskAddCmd{Title: "Vitamins", Recurring: true, At: "08:00"}},
		{name: "blank title", cmd: TaskAddCmd{Title: "  "}, wantErr: true},
		{name: "recurring with due date", cmd: TaskAddCmd{Title: "x", Recurring: true, Due: "2026-03-10"}, wantErr: true},
		{name: "time without date", cmd: TaskAddCmd{Title: "x", At: "10:00"}, wantErr: true},
		{name: "bad date", cmd: TaskAddCmd{Title: "x", Due: "10/03/2026"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := clitest.New(t)
			err := tt.cmd.Run(env.Ctx)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, env.Output(), "Added task: "+strings.TrimSpace(tt.cmd.Title))
		})
	}
}

func TestTaskTodayCmd(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&TaskTodayCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No tasks due on 2026-03-04.")

	addTask(t, env, TaskAddCmd{Title: "Dentist", Due: "2026-03-04", At: "09:30", Priority: 2})
	addTask(t, env, TaskAddCmd{Title: "Vitamins", Recurring: true, Priority: 1})
	addTask(t, env, TaskAddCmd{Title: "Taxes", Due: "2026-04-15"})
	addTask(t, env, TaskAddCmd{Title: "Someday"})

	require.NoError(t, (&TaskTodayCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "Tasks for 2026-03-04:")
	assert.Contains(t, out, "[ ] Dentist (due 2026-03-04 09:30)")
	assert.Contains(t, out, "[ ] Vitamins (daily)")
	assert.NotContains(t, out, "Taxes")
	assert.NotContains(t, out, "Someday")
	assert.Less(t, strings.Index(out, "Vitamins"), strings.Index(out, "Dentist"), "lower priority sorts first")
}

func TestTaskDoneCmd(t *testing.T) {
	env := clitest.New(t)
	task := addTask(t, env, TaskAddCmd{Title: "Buy milk"})

	require.NoError(t, (&TaskDoneCmd{ID: task.ID}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Completed task "+task.ID)
	got, err := env.Store.GetTask(task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	require.NoError(t, (&TaskDoneCmd{ID: task.ID, Undo: true}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Reopened task "+task.ID)
	got, err = env.Store.GetTask(task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	assert.Error(t, (&TaskDoneCmd{ID: "missing"}).Run(env.Ctx))
}

func TestTaskDeleteRestore(t *testing.T) {
	env := clitest.New(t)
	task := addTask(t, env, TaskAddCmd{Title: "Buy milk"})

	require.NoError(t, (&TaskDeleteCmd{ID: task.ID}).Run(env.Ctx))
	env.Output()

	require.NoError(t, (&TaskListCmd{}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "No tasks found.")

	require.NoError(t, (&TaskListCmd{Deleted: true}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "[ ] Buy milk [DELETED]")

	require.NoError(t, (&TaskRestoreCmd{ID: task.ID}).Run(env.Ctx))
	env.Output()
	require.NoError(t, (&TaskListCmd{}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "[ ] Buy milk  ["+task.ID+"]")
	assert.NotContains(t, out, "[DELETED]")
}

func TestFormatTask(t *testing.T) {
	at := "08:00"
	task := models.Task{ID: "t1", Title: "Vitamins", Recurring: true, DueTime: &at, Completed: true}
	assert.Equal(t, "[x] Vitamins (daily at 08:00)  [t1]", formatTask(task))
}
