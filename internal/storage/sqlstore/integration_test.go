package sqlstore

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
)

// TestPostgres_Integration runs the store against a real database.
// Set POSTGRES_TEST_URL to run it, e.g.
// POSTGRES_TEST_URL="postgres://matic@localhost:5432/matic_test?sslmode=disable"
func TestPostgres_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	store := NewPostgres(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	t.Run("Habits", func(t *testing.T) {
		h := models.Habit{
			ID:          uuid.New().String(),
			Name:        "Integration habit",
			TargetValue: 2,
			Active:      true,
			Recurrence:  models.Recurrence{Type: constants.RecurrenceSpecificWeekdays, Weekdays: []string{"monday"}},
			StartDate:   "2026-01-01",
		}
		if err := store.AddHabit(h); err != nil {
			t.Fatalf("Failed to add habit: %v", err)
		}
		got, err := store.GetHabit(h.ID)
		if err != nil {
			t.Fatalf("Failed to get habit: %v", err)
		}
		if len(got.Recurrence.Weekdays) != 1 || got.Recurrence.Weekdays[0] != "monday" {
			t.Errorf("Expected weekdays [monday], got %v", got.Recurrence.Weekdays)
		}

		p := models.CycleProgress(got, "2026-03-02", nil, time.Now())
		if err := store.SaveHabitProgress(*p); err != nil {
			t.Fatalf("Failed to save progress: %v", err)
		}
		if err := store.SaveHabitProgress(*p); err != nil {
			t.Fatalf("Failed to upsert progress: %v", err)
		}
	})

	t.Run("Expenses", func(t *testing.T) {
		e := models.Expense{
			ID:    uuid.New().String(),
			Store: "Integration",
			Date:  "2026-03-04",
			Total: decimal.RequireFromString("10.25"),
			Items: []models.ExpenseItem{{ProductName: "Item", TotalPrice: decimal.RequireFromString("10.25")}},
		}
		if err := store.AddExpense(e); err != nil {
			t.Fatalf("Failed to add expense: %v", err)
		}
		got, err := store.GetExpense(e.ID)
		if err != nil {
			t.Fatalf("Failed to get expense: %v", err)
		}
		if !got.Total.Equal(e.Total) || len(got.Items) != 1 {
			t.Errorf("Unexpected expense: %+v", got)
		}
		if err := store.DeleteExpense(e.ID); err != nil {
			t.Fatalf("Failed to delete expense: %v", err)
		}
	})
}
