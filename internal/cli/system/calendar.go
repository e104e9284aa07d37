package system

import (
	"fmt"
	"io"
	"os"

	"github.com/maticai/matic/internal/calendar"
	"github.com/maticai/matic/internal/cli"
)

type CalendarCmd struct {
	Days   int    `help:"Number of days to include." default:"30"`
	From   string `help:"First day in YYYY-MM-DD format (default: today)."`
	Output string `short:"o" help:"Write the feed to this file instead of stdout." type:"path"`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	from, err := ctx.Tracker.Day(c.From)
	if err != nil {
		return err
	}
	habits, err := ctx.Store.GetAllHabits(false)
	if err != nil {
		return ctx.Report(err, "failed to load habits")
	}

	var w io.Writer = ctx.Stdout()
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		w = f
	}
	if err := calendar.WriteHabitFeed(w, habits, from, c.Days, ctx.Clock()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	if c.Output != "" {
		ctx.Printf("Wrote habit calendar to %s\n", c.Output)
	}
	return nil
}
