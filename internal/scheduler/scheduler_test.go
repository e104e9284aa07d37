package scheduler

import (
	"testing"
	"time"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

func strPtr(s string) *string { return &s }

// Wednesday
var day = time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

func TestBuildAgenda_HabitsDueWithState(t *testing.T) {
	habits := []models.Habit{
		{ID: "h1", Name: "Read", Active: true, Priority: 2, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}},
		{ID: "h2", Name: "Gym", Active: true, Priority: 1, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday"}}},
		{ID: "h3", Name: "Water", Active: true, Priority: 1, StartDate: "2026-01-01",
			Recurrence: models.Recurrence{Type: constants.RecurrenceDaily}},
	}
	progress := []models.HabitProgress{
		{HabitID: "h1", Date: "2026-03-04", Value: 1, Completed: true},
		{HabitID: "h3", Date: "2026-03-04", Value: 4},
		{HabitID: "h3", Date: "2026-03-03", Value: 8, Completed: true},
	}

	agenda := New().BuildAgenda(day, habits, progress, nil)

	if agenda.Date != "2026-03-04" {
		t.Errorf("expected date 2026-03-04, got %s", agenda.Date)
	}
	if len(agenda.Anytime) != 2 {
		t.Fatalf("expected 2 habits (gym is not due), got %d", len(agenda.Anytime))
	}
	if agenda.Anytime[0].ID != "h3" || agenda.Anytime[0].State != constants.ProgressPartial {
		t.Errorf("expected water first and partial, got %+v", agenda.Anytime[0])
	}
	if agenda.Anytime[1].ID != "h1" || !agenda.Anytime[1].Done {
		t.Errorf("expected read completed, got %+v", agenda.Anytime[1])
	}
	if agenda.HabitsDue != 2 || agenda.HabitsDone != 1 {
		t.Errorf("expected 1/2 habits done, got %d/%d", agenda.HabitsDone, agenda.HabitsDue)
	}
}

func TestBuildAgenda_TimedTasksInClockOrder(t *testing.T) {
	tasks := []models.Task{
		{ID: "t1", Title: "Dentist", DueDate: strPtr("2026-03-04"), DueTime: strPtr("15:30")},
		{ID: "t2", Title: "Vitamins", Recurring: true, DueTime: strPtr("08:00"), Completed: true},
		{ID: "t3", Title: "Call bank", DueDate: strPtr("2026-03-04"), Priority: 1},
		{ID: "t4", Title: "Tomorrow", DueDate: strPtr("2026-03-05")},
		{ID: "t5", Title: "Bad time", DueDate: strPtr("2026-03-04"), DueTime: strPtr("25:00")},
	}

	agenda := New().BuildAgenda(day, nil, nil, tasks)

	if len(agenda.Timed) != 2 {
		t.Fatalf("expected 2 timed items, got %d", len(agenda.Timed))
	}
	if agenda.Timed[0].ID != "t2" || agenda.Timed[1].ID != "t1" {
		t.Errorf("expected vitamins then dentist, got %s, %s", agenda.Timed[0].ID, agenda.Timed[1].ID)
	}
	if len(agenda.Anytime) != 2 {
		t.Fatalf("expected 2 untimed tasks, got %d", len(agenda.Anytime))
	}
	if agenda.TasksDue != 4 || agenda.TasksDone != 1 {
		t.Errorf("expected 1/4 tasks done, got %d/%d", agenda.TasksDone, agenda.TasksDue)
	}

	remaining := agenda.Remaining()
	if len(remaining) != 3 {
		t.Errorf("expected 3 remaining items, got %d", len(remaining))
	}
}

func TestBuildAgenda_Empty(t *testing.T) {
	agenda := New().BuildAgenda(day, nil, nil, nil)
	if agenda.Timed == nil || agenda.Anytime == nil {
		t.Error("expected empty, non-nil lists")
	}
	if len(agenda.Remaining()) != 0 {
		t.Error("expected nothing remaining")
	}
}
