package tasks

import (
	"strings"

	"github.com/google/uuid"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

type TaskCmd struct {
	Add     TaskAddCmd     `cmd:"" help:"Add a new task."`
	List    TaskListCmd    `cmd:"" help:"List tasks."`
	Today   TaskTodayCmd   `cmd:"" help:"Show the tasks due today."`
	Done    TaskDoneCmd    `cmd:"" help:"Mark a task completed."`
	Delete  TaskDeleteCmd  `cmd:"" help:"Delete a task (soft delete)."`
	Restore TaskRestoreCmd `cmd:"" help:"Restore a deleted task."`
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Longer description."`
	Category    string `short:"c" help:"Category."`
	Priority    int    `short:"p" help:"Priority; lower sorts first." default:"0"`
	Due         string `help:"Due date in YYYY-MM-DD format."`
	At          string `help:"Due time in HH:MM format."`
	Recurring   bool   `short:"r" help:"Repeat every day (cannot have a due date)."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task := models.Task{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(c.Title),
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Recurring:   c.Recurring,
		CreatedAt:   ctx.Clock(),
	}
	if c.Due != "" {
		task.DueDate = &c.Due
	}
	if c.At != "" {
		task.DueTime = &c.At
	}
	if err := task.Validate(); err != nil {
		return err
	}

	if err := ctx.Store.AddTask(task); err != nil {
		return ctx.Report(err, "failed to add task")
	}
	ctx.Printf("Added task: %s [%s]\n", task.Title, task.ID)
	return nil
}

type TaskListCmd struct {
	Deleted bool `help:"Include deleted tasks."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	tasks, err := ctx.Store.GetAllTasks(c.Deleted)
	if err != nil {
		return ctx.Report(err, "failed to list tasks")
	}
	if len(tasks) == 0 {
		ctx.Printf("No tasks found.\n")
		return nil
	}
	for _, t := range tasks {
		ctx.Printf("%s\n", formatTask(t))
	}
	return nil
}

type TaskTodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *TaskTodayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	tasks, err := ctx.Tracker.DueTasks(day)
	if err != nil {
		return ctx.Report(err, "failed to load tasks")
	}

	date := day.Format(constants.DateFormat)
	if len(tasks) == 0 {
		ctx.Printf("No tasks due on %s.\n", date)
		return nil
	}
	ctx.Printf("Tasks for %s:\n\n", date)
	for _, t := range tasks {
		ctx.Printf("%s\n", formatTask(t))
	}
	return nil
}

type TaskDoneCmd struct {
	ID   string `arg:"" help:"Task ID."`
	Undo bool   `help:"Mark the task not completed again."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.CompleteTask(c.ID, !c.Undo); err != nil {
		return ctx.Report(err, "failed to update task")
	}
	if c.Undo {
		ctx.Printf("Reopened task %s\n", c.ID)
	} else {
		ctx.Printf("Completed task %s\n", c.ID)
	}
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteTask(c.ID); err != nil {
		return ctx.Report(err, "failed to delete task")
	}
	ctx.Printf("Deleted task %s (restore with 'matic task restore %s')\n", c.ID, c.ID)
	return nil
}

type TaskRestoreCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *TaskRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreTask(c.ID); err != nil {
		return ctx.Report(err, "failed to restore task")
	}
	ctx.Printf("Restored task %s\n", c.ID)
	return nil
}

func formatTask(t models.Task) string {
	mark := "[ ]"
	if t.Completed {
		mark = "[x]"
	}
	when := ""
	switch {
	case t.Recurring:
		when = " (daily)"
	case t.DueDate != nil:
		when = " (due " + *t.DueDate
		if t.DueTime != nil {
			when += " " + *t.DueTime
		}
		when += ")"
	}
	if t.Recurring && t.DueTime != nil {
		when = " (daily at " + *t.DueTime + ")"
	}
	deleted := ""
	if t.DeletedAt != nil {
		deleted = " [DELETED]"
	}
	return mark + " " + t.Title + when + deleted + "  [" + t.ID + "]"
}
