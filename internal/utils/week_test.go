package utils

import (
	"testing"
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

func TestWeekDates(t *testing.T) {
	wed := mustDate(t, "2026-01-07")

	mon := WeekDates(wed, time.Monday)
	if got := mon[0].Format(constants.DateFormat); got != "2026-01-05" {
		t.Errorf("monday-start week begins %s, want 2026-01-05", got)
	}
	if got := mon[6].Format(constants.DateFormat); got != "2026-01-11" {
		t.Errorf("monday-start week ends %s, want 2026-01-11", got)
	}

	sun := WeekDates(wed, time.Sunday)
	if got := sun[0].Format(constants.DateFormat); got != "2026-01-04" {
		t.Errorf("sunday-start week begins %s, want 2026-01-04", got)
	}

	// A date on the week start is the first cell.
	if got := WeekDates(mustDate(t, "2026-01-05"), time.Monday)[0]; !got.Equal(mustDate(t, "2026-01-05")) {
		t.Errorf("week of a Monday should start that Monday, got %s", got)
	}
}

func TestWeekGrid(t *testing.T) {
	habit := models.Habit{
		ID: "h1", Name: "Gym", Active: true, StartDate: "2026-01-01",
		Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday", "wednesday", "friday"}},
	}
	inactive := habit
	inactive.ID = "h2"
	inactive.Active = false

	progress := IndexProgress([]models.HabitProgress{
		{HabitID: "h1", Date: "2026-01-05", Completed: true, Value: 1},
		{HabitID: "h1", Date: "2026-01-07", Completed: false, Value: 1},
	})

	rows := WeekGrid([]models.Habit{habit, inactive}, progress, mustDate(t, "2026-01-07"), time.Monday)
	if len(rows) != 1 {
		t.Fatalf("WeekGrid() returned %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.DueCount != 3 || row.DoneCount != 1 {
		t.Errorf("due/done = %d/%d, want 3/1", row.DueCount, row.DoneCount)
	}
	if row.Cells[0].State != constants.ProgressCompleted {
		t.Errorf("monday state = %s, want completed", row.Cells[0].State)
	}
	if row.Cells[2].State != constants.ProgressPartial {
		t.Errorf("wednesday state = %s, want partial", row.Cells[2].State)
	}
	if row.Cells[1].Due {
		t.Error("tuesday should not be due")
	}
}
