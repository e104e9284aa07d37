package habits

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Deactivate a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Reactivate a deleted habit."`
	Today   HabitTodayCmd   `cmd:"" help:"Show the habits due today."`
	Week    HabitWeekCmd    `cmd:"" help:"Show the weekly tracker grid."`
	Toggle  HabitToggleCmd  `cmd:"" help:"Cycle a habit's progress for a day (none, completed, partial)."`
}

// ScheduleFlags describe a habit's recurrence on the command line.
type ScheduleFlags struct {
	Every     string `help:"Schedule: daily, weekdays, monthdays, yeardays or repeat."`
	Weekdays  string `short:"w" help:"Comma-separated weekdays for 'weekdays' (e.g. mon,wed,fri)."`
	MonthDays string `help:"Comma-separated month days for 'monthdays'; 'last' is the last day of the month."`
	YearDates string `help:"Comma-separated MM-DD or YYYY-MM-DD dates for 'yeardays'."`
	Interval  int    `short:"i" help:"Days between occurrences for 'repeat'."`
	Alternate bool   `help:"Mark a daily habit as every other day (display only)."`
}

func (f ScheduleFlags) set() bool {
	return f.Every != ""
}

// Recurrence builds the recurrence the flags describe. An empty schedule is daily.
func (f ScheduleFlags) Recurrence() (models.Recurrence, error) {
	var rec models.Recurrence
	switch f.Every {
	case "", "daily":
		rec.Type = constants.RecurrenceDaily
		rec.AlternateDays = f.Alternate
	case "weekdays":
		days, err := cli.ParseWeekdays(f.Weekdays)
		if err != nil {
			return rec, err
		}
		rec.Type = constants.RecurrenceSpecificWeekdays
		rec.Weekdays = days
	case "monthdays":
		days, err := cli.ParseMonthDays(f.MonthDays)
		if err != nil {
			return rec, err
		}
		rec.Type = constants.RecurrenceSpecificMonthdays
		rec.MonthDays = days
	case "yeardays":
		rec.Type = constants.RecurrenceSpecificYeardays
		rec.YearDates = cli.SplitList(f.YearDates)
	case "repeat":
		rec.Type = constants.RecurrenceRepeat
		rec.Interval = f.Interval
	default:
		return rec, fmt.Errorf("invalid schedule %q (expected daily, weekdays, monthdays, yeardays or repeat)", f.Every)
	}
	return rec, rec.Validate()
}

type HabitAddCmd struct {
	Name     string  `arg:"" help:"Habit name."`
	Category string  `short:"c" help:"Category (e.g. health, fitness)."`
	Priority int     `short:"p" help:"Priority; lower sorts first." default:"0"`
	Target   float64 `short:"t" help:"Daily target value." default:"1"`
	Icon     string  `help:"Icon or emoji."`
	Color    string  `help:"Display color."`
	Start    string  `help:"Start date in YYYY-MM-DD format (default: today)."`
	End      string  `help:"Optional end date in YYYY-MM-DD format."`

	ScheduleFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	rec, err := c.Recurrence()
	if err != nil {
		return err
	}
	start, err := ctx.Tracker.Day(c.Start)
	if err != nil {
		return err
	}

	now := ctx.Clock()
	habit := models.Habit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(c.Name),
		Category:    c.Category,
		Icon:        c.Icon,
		Color:       c.Color,
		Priority:    c.Priority,
		TargetValue: c.Target,
		Active:      true,
		Recurrence:  rec,
		StartDate:   start.Format(constants.DateFormat),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if c.End != "" {
		habit.EndDate = &c.End
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return ctx.Report(err, "failed to add habit")
	}
	ctx.Printf("Added habit: %s (%s) [%s]\n", habit.Name, cli.FormatRecurrence(rec), habit.ID)
	return nil
}

type HabitListCmd struct {
	All bool `short:"a" help:"Include deleted (inactive) habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.All)
	if err != nil {
		return ctx.Report(err, "failed to list habits")
	}
	if len(habits) == 0 {
		ctx.Printf("No habits found.\n")
		return nil
	}

	for _, h := range habits {
		status := ""
		if !h.Active {
			status = " [DELETED]"
		}
		category := ""
		if h.Category != "" {
			category = " #" + h.Category
		}
		ctx.Printf("%s  %s%s  (%s, target %g)%s\n", h.ID, h.Name, category, cli.FormatRecurrence(h.Recurrence), h.TargetValue, status)
	}
	return nil
}

type HabitEditCmd struct {
	ID       string   `arg:"" help:"Habit ID."`
	Name     *string  `help:"New name."`
	Category *string  `short:"c" help:"New category."`
	Priority *int     `short:"p" help:"New priority."`
	Target   *float64 `short:"t" help:"New daily target value."`
	Start    *string  `help:"New start date (YYYY-MM-DD)."`
	End      *string  `help:"New end date (YYYY-MM-DD); empty clears it."`

	ScheduleFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(c.ID)
	if err != nil {
		return fmt.Errorf("failed to find habit: %w", err)
	}

	if c.Name != nil {
		habit.Name = strings.TrimSpace(*c.Name)
	}
	if c.Category != nil {
		habit.Category = *c.Category
	}
	if c.Priority != nil {
		habit.Priority = *c.Priority
	}
	if c.Target != nil {
		habit.TargetValue = *c.Target
	}
	if c.Start != nil {
		habit.StartDate = *c.Start
	}
	if c.End != nil {
		if *c.End == "" {
			habit.EndDate = nil
		} else {
			habit.EndDate = c.End
		}
	}
	if c.ScheduleFlags.set() {
		rec, err := c.Recurrence()
		if err != nil {
			return err
		}
		habit.Recurrence = rec
	}
	habit.UpdatedAt = ctx.Clock()

	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return ctx.Report(err, "failed to update habit")
	}
	ctx.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteHabit(c.ID); err != nil {
		return ctx.Report(err, "failed to delete habit")
	}
	ctx.Printf("Deleted habit %s (restore with 'matic habit restore %s')\n", c.ID, c.ID)
	return nil
}

type HabitRestoreCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.RestoreHabit(c.ID); err != nil {
		return ctx.Report(err, "failed to restore habit")
	}
	ctx.Printf("Restored habit %s\n", c.ID)
	return nil
}
