package utils

import (
	"testing"
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func strPtr(s string) *string { return &s }

func TestIsHabitActive_WindowGating(t *testing.T) {
	recs := []models.Recurrence{
		{Type: constants.RecurrenceDaily},
		{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}},
		{Type: constants.RecurrenceSpecificMonthdays, MonthDays: []int{9, 10, 20, 21, 32}},
		{Type: constants.RecurrenceSpecificYeardays, YearDates: []string{"03-09", "03-21"}},
		{Type: constants.RecurrenceRepeat, Interval: 1},
		{Type: constants.RecurrenceLegacyWeekly},
	}

	for _, rec := range recs {
		t.Run(string(rec.Type), func(t *testing.T) {
			habit := models.Habit{
				StartDate:  "2026-03-10",
				EndDate:    strPtr("2026-03-20"),
				Recurrence: rec,
			}
			for _, outside := range []string{"2026-03-09", "2026-03-21", "2025-03-15", "2027-03-16"} {
				if IsHabitActive(habit, mustDate(t, outside)) {
					t.Errorf("habit due on %s outside its window", outside)
				}
			}
		})
	}
}

func TestIsHabitActive_Daily(t *testing.T) {
	habit := models.Habit{StartDate: "2026-01-01", Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}}

	start := mustDate(t, "2026-01-01")
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		if !IsHabitActive(habit, d) {
			t.Fatalf("daily habit not due on %s", d.Format(constants.DateFormat))
		}
	}
	if IsHabitActive(habit, mustDate(t, "2025-12-31")) {
		t.Error("daily habit due before its start date")
	}
}

func TestIsHabitActive_EndDateInclusive(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2026-01-01",
		EndDate:    strPtr("2026-01-31"),
		Recurrence: models.Recurrence{Type: constants.RecurrenceDaily},
	}
	if !IsHabitActive(habit, mustDate(t, "2026-01-01")) {
		t.Error("start date should be inclusive")
	}
	if !IsHabitActive(habit, mustDate(t, "2026-01-31")) {
		t.Error("end date should be inclusive")
	}
}

func TestIsHabitActive_SpecificWeekdays(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday", "wednesday"}},
	}

	start := mustDate(t, "2026-01-01")
	for i := 0; i < 28; i++ {
		d := start.AddDate(0, 0, i)
		want := d.Weekday() == time.Monday || d.Weekday() == time.Wednesday
		if got := IsHabitActive(habit, d); got != want {
			t.Errorf("IsHabitActive(%s %s) = %v, want %v", d.Format(constants.DateFormat), d.Weekday(), got, want)
		}
	}
}

func TestIsHabitActive_MonthDays(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificMonthdays, MonthDays: []int{1, 15}},
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2026-01-01", true},
		{"2026-01-15", true},
		{"2026-01-16", false},
		{"2026-02-15", true},
		{"2026-02-28", false},
	}
	for _, tt := range tests {
		if got := IsHabitActive(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsHabitActive(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsHabitActive_LastDayOfMonthSentinel(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2023-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificMonthdays, MonthDays: []int{constants.LastDayOfMonth}},
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2023-01-31", true},
		{"2023-01-30", false},
		{"2023-02-28", true}, // non-leap year
		{"2024-02-28", false},
		{"2024-02-29", true}, // leap year
		{"2024-04-30", true},
		{"2024-04-29", false},
		{"2024-12-31", true},
		{"2100-02-28", true}, // century, not a leap year
	}
	for _, tt := range tests {
		if got := IsHabitActive(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsHabitActive(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsHabitActive_MonthDayWeekdayConstraint(t *testing.T) {
	// "The second Tuesday": month days 8-14 constrained to Tuesday.
	constraint := map[int][]string{}
	days := []int{}
	for d := 8; d <= 14; d++ {
		days = append(days, d)
		constraint[d] = []string{"tuesday"}
	}
	habit := models.Habit{
		StartDate: "2026-01-01",
		Recurrence: models.Recurrence{
			Type:             constants.RecurrenceSpecificMonthdays,
			MonthDays:        days,
			MonthDayWeekdays: constraint,
		},
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2026-01-13", true},  // second Tuesday of January 2026
		{"2026-01-06", false}, // first Tuesday
		{"2026-01-14", false}, // Wednesday inside the range
		{"2026-02-10", true},  // second Tuesday of February 2026
	}
	for _, tt := range tests {
		if got := IsHabitActive(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsHabitActive(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsHabitActive_LastDayWithWeekdayConstraint(t *testing.T) {
	habit := models.Habit{
		StartDate: "2026-01-01",
		Recurrence: models.Recurrence{
			Type:             constants.RecurrenceSpecificMonthdays,
			MonthDays:        []int{constants.LastDayOfMonth},
			MonthDayWeekdays: map[int][]string{constants.LastDayOfMonth: {"saturday"}},
		},
	}
	if !IsHabitActive(habit, mustDate(t, "2026-01-31")) { // Saturday
		t.Error("expected due on Saturday 2026-01-31")
	}
	if IsHabitActive(habit, mustDate(t, "2026-03-31")) { // Tuesday
		t.Error("expected not due on Tuesday 2026-03-31")
	}
}

func TestIsHabitActive_YearDays(t *testing.T) {
	habit := models.Habit{
		StartDate: "2024-01-01",
		Recurrence: models.Recurrence{
			Type:      constants.RecurrenceSpecificYeardays,
			YearDates: []string{"12-25", "2026-07-04", "02-29", "garbage"},
		},
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2024-12-25", true},
		{"2025-12-25", true},
		{"2026-07-04", true},
		{"2027-07-04", false},
		{"2024-02-29", true},
		{"2025-02-28", false},
		{"2025-03-01", false},
	}
	for _, tt := range tests {
		if got := IsHabitActive(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsHabitActive(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsHabitActive_RepeatEveryThreeDays(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2026-03-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceRepeat, Interval: 3},
	}
	start := mustDate(t, "2026-03-01")

	for _, offset := range []int{0, 3, 6, 30} {
		if !IsHabitActive(habit, start.AddDate(0, 0, offset)) {
			t.Errorf("expected due at start+%d", offset)
		}
	}
	for _, offset := range []int{1, 2, 4, 5, 7} {
		if IsHabitActive(habit, start.AddDate(0, 0, offset)) {
			t.Errorf("expected not due at start+%d", offset)
		}
	}
}

func TestIsHabitActive_RepeatAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	habit := models.Habit{
		StartDate:  "2026-03-06",
		Recurrence: models.Recurrence{Type: constants.RecurrenceRepeat, Interval: 3},
	}
	// DST starts 2026-03-08 in New York; 2026-03-09 is start+3.
	if !IsHabitActive(habit, time.Date(2026, 3, 9, 0, 30, 0, 0, loc)) {
		t.Error("expected due on 2026-03-09 despite the DST change")
	}
}

func TestIsHabitActive_RepeatFlagsDoNotChangeDueDays(t *testing.T) {
	plain := models.Habit{StartDate: "2026-03-01", Recurrence: models.Recurrence{Type: constants.RecurrenceRepeat, Interval: 2}}
	flagged := plain
	flagged.Recurrence.AlternateDays = true
	flagged.Recurrence.Flexible = true

	start := mustDate(t, "2026-03-01")
	for i := 0; i < 10; i++ {
		d := start.AddDate(0, 0, i)
		if IsHabitActive(plain, d) != IsHabitActive(flagged, d) {
			t.Errorf("flags changed due state on %s", d.Format(constants.DateFormat))
		}
	}
}

func TestIsHabitActive_LegacyWeekly(t *testing.T) {
	habit := models.Habit{StartDate: "2026-01-01", Recurrence: models.Recurrence{Type: constants.RecurrenceLegacyWeekly}}
	if !IsHabitActive(habit, mustDate(t, "2026-01-05")) {
		t.Error("legacy weekly habit should be due on Monday")
	}
	if IsHabitActive(habit, mustDate(t, "2026-01-06")) {
		t.Error("legacy weekly habit should not be due on Tuesday")
	}
}

func TestIsHabitActive_MalformedDefaultsToNotDue(t *testing.T) {
	tests := []struct {
		name  string
		habit models.Habit
	}{
		{"unknown type", models.Habit{StartDate: "2026-01-01", Recurrence: models.Recurrence{Type: "hourly"}}},
		{"empty recurrence", models.Habit{StartDate: "2026-01-01"}},
		{"zero interval", models.Habit{StartDate: "2026-01-01", Recurrence: models.Recurrence{Type: constants.RecurrenceRepeat}}},
		{"weekdays without days", models.Habit{StartDate: "2026-01-01", Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays}}},
		{"bad start date", models.Habit{StartDate: "soon", Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}}},
		{"bad end date", models.Habit{StartDate: "2026-01-01", EndDate: strPtr("later"), Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if IsHabitActive(tt.habit, mustDate(t, "2026-01-05")) {
				t.Error("expected malformed habit to be not due")
			}
		})
	}
}

func TestIsHabitActive_WeekdayNamesAreLowercaseTokens(t *testing.T) {
	habit := models.Habit{
		StartDate:  "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"Monday"}},
	}
	if IsHabitActive(habit, mustDate(t, "2026-01-05")) {
		t.Error("stored weekday tokens are compared as lowercase English names")
	}
}

func TestDueHabits_ScenarioWednesday(t *testing.T) {
	daily := models.Habit{ID: "daily", Name: "Walk", Active: true, StartDate: "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}}
	tuesday := models.Habit{ID: "tue", Name: "Swim", Active: true, StartDate: "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"tuesday"}}}

	wednesday := mustDate(t, "2026-01-07")
	due := DueHabits([]models.Habit{tuesday, daily}, wednesday)
	if len(due) != 1 || due[0].ID != "daily" {
		t.Fatalf("DueHabits() = %+v, want only the daily habit", due)
	}
}

func TestDueHabits_SkipsInactiveAndOrders(t *testing.T) {
	rec := models.Recurrence{Type: constants.RecurrenceDaily}
	habits := []models.Habit{
		{ID: "c", Name: "C", Priority: 2, Active: true, StartDate: "2026-01-01", Recurrence: rec},
		{ID: "b", Name: "B", Priority: 1, Active: true, StartDate: "2026-01-01", Recurrence: rec},
		{ID: "a", Name: "A", Priority: 2, Active: true, StartDate: "2026-01-01", Recurrence: rec},
		{ID: "x", Name: "X", Priority: 0, Active: false, StartDate: "2026-01-01", Recurrence: rec},
	}
	due := DueHabits(habits, mustDate(t, "2026-01-07"))
	var ids []string
	for _, h := range due {
		ids = append(ids, h.ID)
	}
	if len(ids) != 3 || ids[0] != "b" || ids[1] != "a" || ids[2] != "c" {
		t.Errorf("DueHabits() order = %v, want [b a c]", ids)
	}
}

func TestIsTaskDue(t *testing.T) {
	day := mustDate(t, "2026-03-04")
	other := "2026-03-05"
	same := "2026-03-04"
	deleted := time.Now()

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"recurring without date", models.Task{Recurring: true}, true},
		{"dated today", models.Task{DueDate: &same}, true},
		{"dated another day", models.Task{DueDate: &other}, false},
		{"recurring with date behaves as dated", models.Task{Recurring: true, DueDate: &other}, false},
		{"neither", models.Task{}, false},
		{"deleted", models.Task{Recurring: true, DeletedAt: &deleted}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTaskDue(tt.task, day); got != tt.want {
				t.Errorf("IsTaskDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
