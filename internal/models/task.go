package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/maticai/matic/internal/constants"
)

// Task is either a one-off dated task or a daily recurring task without a
// date; the two variants are mutually exclusive.
type Task struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Category    string     `json:"category" db:"category"`
	Priority    int        `json:"priority" db:"priority"`
	DueDate     *string    `json:"due_date,omitempty" db:"due_date"` // YYYY-MM-DD
	DueTime     *string    `json:"due_time,omitempty" db:"due_time"` // HH:MM
	Completed   bool       `json:"completed" db:"completed"`
	Recurring   bool       `json:"is_recurring" db:"is_recurring"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if t.Recurring && t.DueDate != nil {
		return fmt.Errorf("a recurring task cannot have a due date")
	}
	if t.DueDate != nil {
		if _, err := time.Parse(constants.DateFormat, *t.DueDate); err != nil {
			return fmt.Errorf("invalid due date %q (expected YYYY-MM-DD)", *t.DueDate)
		}
	}
	if t.DueTime != nil {
		if t.DueDate == nil && !t.Recurring {
			return fmt.Errorf("due time requires a due date or a recurring task")
		}
		if _, err := time.Parse(constants.TimeFormat, *t.DueTime); err != nil {
			return fmt.Errorf("invalid due time %q (expected HH:MM)", *t.DueTime)
		}
	}
	return nil
}
