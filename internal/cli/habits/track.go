package habits

import (
	"fmt"
	"strings"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/utils"
)

type HabitTodayCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	due, err := ctx.Tracker.DueHabits(day)
	if err != nil {
		return ctx.Report(err, "failed to load habits")
	}

	date := day.Format(constants.DateFormat)
	if len(due) == 0 {
		ctx.Printf("No habits due on %s.\n", date)
		return nil
	}

	ctx.Printf("Habits for %s:\n\n", date)
	done := 0
	for _, h := range due {
		mark := stateMark(h.State)
		if h.State == constants.ProgressCompleted {
			done++
		}
		value := ""
		if h.Progress != nil {
			value = fmt.Sprintf(" %g/%g", h.Progress.Value, h.TargetValue)
		}
		ctx.Printf("%s %s%s  [%s]\n", mark, h.Name, value, h.ID)
	}
	ctx.Printf("\nCompleted: %d/%d\n", done, len(due))
	return nil
}

type HabitWeekCmd struct {
	Date string `help:"Any date in the week to show (default: today)."`
}

func (c *HabitWeekCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	week, err := ctx.Tracker.Week(day)
	if err != nil {
		return ctx.Report(err, "failed to load week")
	}
	if len(week.Rows) == 0 {
		ctx.Printf("No active habits.\n")
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-20s", "")
	for _, d := range week.Dates {
		t, _ := utils.ParseDate(d)
		fmt.Fprintf(&b, " %-6s", t.Format("Mon02"))
	}
	b.WriteString("\n")
	for _, row := range week.Rows {
		name := row.Habit.Name
		if len(name) > 20 {
			name = name[:19] + "…"
		}
		fmt.Fprintf(&b, "%-20s", name)
		for _, cell := range row.Cells {
			mark := "  ·  "
			if cell.Due || cell.State != constants.ProgressNone {
				mark = " " + stateMark(cell.State) + " "
			}
			fmt.Fprintf(&b, " %-6s", mark)
		}
		fmt.Fprintf(&b, " %d/%d\n", row.DoneCount, row.DueCount)
	}
	ctx.Printf("%s", b.String())
	return nil
}

type HabitToggleCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	date := day.Format(constants.DateFormat)

	p, err := ctx.Tracker.Toggle(c.ID, date)
	if err != nil {
		return ctx.Report(err, "failed to update habit progress")
	}
	ctx.Printf("%s %s on %s\n", stateMark(p.State()), c.ID, date)
	return nil
}

func stateMark(s constants.ProgressState) string {
	switch s {
	case constants.ProgressCompleted:
		return "[x]"
	case constants.ProgressPartial:
		return "[~]"
	default:
		return "[ ]"
	}
}
