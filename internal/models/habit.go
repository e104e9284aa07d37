package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/maticai/matic/internal/constants"
)

// Recurrence is the canonical in-memory form of a habit's schedule. Both the
// legacy frequency columns and the frequency_data JSON blob are translated
// into it at the storage boundary (see frequency.go).
type Recurrence struct {
	Type constants.RecurrenceType `json:"type"`
	// Weekdays holds lowercase English weekday names for specific_weekdays.
	Weekdays []string `json:"weekdays,omitempty"`
	// MonthDays holds 1-31, or constants.LastDayOfMonth for the last day.
	MonthDays []int `json:"month_days,omitempty"`
	// MonthDayWeekdays optionally constrains a month day to certain weekdays.
	MonthDayWeekdays map[int][]string `json:"month_day_weekdays,omitempty"`
	// YearDates holds MM-DD (every year) or YYYY-MM-DD (a single date).
	YearDates []string `json:"year_dates,omitempty"`
	Interval  int      `json:"interval,omitempty"`
	// AlternateDays and Flexible are display metadata only; they never
	// change whether a habit is due.
	AlternateDays bool `json:"alternate_days,omitempty"`
	Flexible      bool `json:"flexible,omitempty"`
}

// Habit is a user-defined recurring activity tracked per calendar day.
type Habit struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Category    string     `json:"category" db:"category"`
	Icon        string     `json:"icon" db:"icon"`
	Color       string     `json:"color" db:"color"`
	Priority    int        `json:"priority" db:"priority"`
	TargetValue float64    `json:"target_value" db:"target_value"`
	Active      bool       `json:"active" db:"active"`
	Recurrence  Recurrence `json:"recurrence" db:"-"`
	StartDate   string     `json:"start_date" db:"start_date"` // YYYY-MM-DD
	EndDate     *string    `json:"end_date,omitempty" db:"end_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks the habit's fields and recurrence payload.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name is required")
	}
	start, err := time.Parse(constants.DateFormat, h.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", h.StartDate)
	}
	if h.EndDate != nil {
		end, err := time.Parse(constants.DateFormat, *h.EndDate)
		if err != nil {
			return fmt.Errorf("invalid end date %q (expected YYYY-MM-DD)", *h.EndDate)
		}
		if end.Before(start) {
			return fmt.Errorf("end date %s is before start date %s", *h.EndDate, h.StartDate)
		}
	}
	if h.TargetValue < 0 {
		return fmt.Errorf("target value must not be negative")
	}
	return h.Recurrence.Validate()
}

// Validate checks that the payload matches the recurrence type.
func (r Recurrence) Validate() error {
	switch r.Type {
	case constants.RecurrenceDaily, constants.RecurrenceLegacyWeekly:
		return nil
	case constants.RecurrenceSpecificWeekdays:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("specific_weekdays recurrence needs at least one weekday")
		}
		for _, wd := range r.Weekdays {
			if _, ok := ParseWeekday(wd); !ok {
				return fmt.Errorf("invalid weekday: %s", wd)
			}
		}
	case constants.RecurrenceSpecificMonthdays:
		if len(r.MonthDays) == 0 {
			return fmt.Errorf("specific_monthdays recurrence needs at least one day")
		}
		for _, d := range r.MonthDays {
			if d < 1 || d > constants.LastDayOfMonth {
				return fmt.Errorf("month day %d out of range (1-31, or 32 for last day)", d)
			}
		}
		for d, wds := range r.MonthDayWeekdays {
			if d < 1 || d > constants.LastDayOfMonth {
				return fmt.Errorf("month day %d out of range in weekday constraints", d)
			}
			for _, wd := range wds {
				if _, ok := ParseWeekday(wd); !ok {
					return fmt.Errorf("invalid weekday %q for month day %d", wd, d)
				}
			}
		}
	case constants.RecurrenceSpecificYeardays:
		if len(r.YearDates) == 0 {
			return fmt.Errorf("specific_yeardays recurrence needs at least one date")
		}
		for _, d := range r.YearDates {
			if _, _, _, ok := ParseYearDate(d); !ok {
				return fmt.Errorf("invalid year date %q (expected MM-DD or YYYY-MM-DD)", d)
			}
		}
	case constants.RecurrenceRepeat:
		if r.Interval < 1 {
			return fmt.Errorf("repeat interval must be at least 1")
		}
	default:
		return fmt.Errorf("unknown recurrence type: %q", r.Type)
	}
	return nil
}

// ParseWeekday maps a weekday token (full or three-letter, any case) to time.Weekday.
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range constants.Weekdays {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayName returns the canonical lowercase English token for wd.
func WeekdayName(wd time.Weekday) string {
	return constants.Weekdays[wd]
}

// ParseYearDate parses MM-DD or YYYY-MM-DD. year is 0 for the recurring form.
func ParseYearDate(s string) (year int, month time.Month, day int, ok bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(constants.DateFormat, s); err == nil {
		return t.Year(), t.Month(), t.Day(), true
	}
	// Parse against a leap year so 02-29 is accepted.
	if t, err := time.Parse(constants.DateFormat, "2000-"+s); err == nil && len(s) == len(constants.YearDayFormat) {
		return 0, t.Month(), t.Day(), true
	}
	return 0, 0, 0, false
}

// HabitProgress is the per-(habit, date) completion record.
type HabitProgress struct {
	ID        string    `json:"id" db:"id"`
	HabitID   string    `json:"habit_id" db:"habit_id"`
	Date      string    `json:"date" db:"date"` // YYYY-MM-DD
	Value     float64   `json:"value" db:"value"`
	Completed bool      `json:"completed" db:"completed"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
