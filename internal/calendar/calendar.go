// Package calendar exports habit due dates as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/utils"
)

const (
	productID = "-//matic//habits//EN"
	// MaxDays bounds the feed window.
	MaxDays = 366
)

// HabitFeed builds a calendar with one all-day event per habit per due day
// in [from, from+days).
func HabitFeed(habits []models.Habit, from time.Time, days int, now time.Time) *ical.Calendar {
	if days < 1 {
		days = 1
	}
	if days > MaxDays {
		days = MaxDays
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName(constants.AppName + " habits")

	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		for _, h := range utils.DueHabits(habits, day) {
			addHabitEvent(cal, h, day, now)
		}
	}
	return cal
}

func addHabitEvent(cal *ical.Calendar, h models.Habit, day, now time.Time) {
	date := day.Format(constants.DateFormat)
	event := cal.AddEvent(fmt.Sprintf("%s-%s@%s", h.ID, date, constants.AppName))
	event.SetDtStampTime(now.UTC())
	event.SetAllDayStartAt(day)
	event.SetAllDayEndAt(day.AddDate(0, 0, 1))
	event.SetSummary(h.Name)
	if h.Category != "" {
		event.SetProperty(ical.ComponentPropertyCategories, h.Category)
	}
	if h.TargetValue > 1 {
		event.SetDescription(fmt.Sprintf("Target: %g", h.TargetValue))
	}
}

// WriteHabitFeed serializes HabitFeed to w.
func WriteHabitFeed(w io.Writer, habits []models.Habit, from time.Time, days int, now time.Time) error {
	return HabitFeed(habits, from, days, now).SerializeTo(w)
}
