package utils

import (
	"sort"
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

// IsHabitActive reports whether a habit is due on the given calendar day.
// The start/end window is a hard gate applied before the recurrence rule.
// Malformed or unknown recurrence payloads are never due.
func IsHabitActive(habit models.Habit, date time.Time) bool {
	day := civilDate(date)

	start, err := time.Parse(constants.DateFormat, habit.StartDate)
	if err != nil {
		return false
	}
	if day.Before(start) {
		return false
	}
	if habit.EndDate != nil {
		end, err := time.Parse(constants.DateFormat, *habit.EndDate)
		if err != nil || day.After(end) {
			return false
		}
	}

	rec := habit.Recurrence
	switch rec.Type {
	case constants.RecurrenceDaily:
		return true
	case constants.RecurrenceSpecificWeekdays:
		return containsWeekday(rec.Weekdays, day.Weekday())
	case constants.RecurrenceSpecificMonthdays:
		return matchesMonthDay(rec, day)
	case constants.RecurrenceSpecificYeardays:
		return matchesYearDate(rec.YearDates, day)
	case constants.RecurrenceRepeat:
		if rec.Interval < 1 {
			return false
		}
		return DaysBetween(start, day)%rec.Interval == 0
	case constants.RecurrenceLegacyWeekly:
		return day.Weekday() == time.Monday
	default:
		return false
	}
}

func matchesMonthDay(rec models.Recurrence, day time.Time) bool {
	last := IsLastDayOfMonth(day)
	for _, md := range rec.MonthDays {
		if md == day.Day() || (md == constants.LastDayOfMonth && last) {
			// A weekday sub-constraint turns "the 8th" into e.g. "the 8th if it is a Tuesday".
			if wds := rec.MonthDayWeekdays[md]; len(wds) > 0 && !containsWeekday(wds, day.Weekday()) {
				continue
			}
			return true
		}
	}
	return false
}

func matchesYearDate(dates []string, day time.Time) bool {
	for _, s := range dates {
		year, month, d, ok := models.ParseYearDate(s)
		if !ok {
			continue
		}
		if year != 0 && year != day.Year() {
			continue
		}
		if month == day.Month() && d == day.Day() {
			return true
		}
	}
	return false
}

func containsWeekday(names []string, wd time.Weekday) bool {
	want := models.WeekdayName(wd)
	for _, name := range names {
		if name == want {
			return true
		}
	}
	return false
}

// IsLastDayOfMonth reports whether date is the final day of its month.
func IsLastDayOfMonth(date time.Time) bool {
	return date.AddDate(0, 0, 1).Day() == 1
}

// DaysBetween returns the number of calendar days from a to b, ignoring
// clock time and DST transitions.
func DaysBetween(a, b time.Time) int {
	ca, cb := civilDate(a), civilDate(b)
	return int(cb.Sub(ca).Hours() / 24)
}

// civilDate drops the clock and location, keeping the wall-calendar date in UTC.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DueHabits returns the active habits due on date, ordered by priority then name.
func DueHabits(habits []models.Habit, date time.Time) []models.Habit {
	var due []models.Habit
	for _, h := range habits {
		if h.Active && IsHabitActive(h, date) {
			due = append(due, h)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Priority != due[j].Priority {
			return due[i].Priority < due[j].Priority
		}
		return due[i].Name < due[j].Name
	})
	return due
}

// IsTaskDue reports whether a task belongs on the given day's list.
// Dated tasks are due on their date only; undated recurring tasks are due
// every day.
func IsTaskDue(task models.Task, date time.Time) bool {
	if task.DeletedAt != nil {
		return false
	}
	if task.DueDate != nil {
		return *task.DueDate == date.Format(constants.DateFormat)
	}
	return task.Recurring
}

// DueTasks filters tasks down to those due on date, ordered by priority.
func DueTasks(tasks []models.Task, date time.Time) []models.Task {
	var due []models.Task
	for _, t := range tasks {
		if IsTaskDue(t, date) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].Priority < due[j].Priority
	})
	return due
}
