package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/maticai/matic/internal/constants"
)

// State derives the tri-state shown for a day from record presence and flags.
func (p *HabitProgress) State() constants.ProgressState {
	switch {
	case p == nil:
		return constants.ProgressNone
	case p.Completed:
		return constants.ProgressCompleted
	case p.Value > 0:
		return constants.ProgressPartial
	default:
		return constants.ProgressNone
	}
}

// CycleProgress advances a day's progress one tap:
// none -> completed -> partial -> none. A nil result means the record
// should be removed.
func CycleProgress(h Habit, date string, current *HabitProgress, now time.Time) *HabitProgress {
	switch current.State() {
	case constants.ProgressNone:
		next := &HabitProgress{
			ID:        uuid.New().String(),
			HabitID:   h.ID,
			Date:      date,
			Value:     fullValue(h),
			Completed: true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if current != nil {
			next.ID = current.ID
			next.Notes = current.Notes
			next.CreatedAt = current.CreatedAt
		}
		return next
	case constants.ProgressCompleted:
		next := *current
		next.Completed = false
		next.Value = partialValue(h)
		next.UpdatedAt = now
		return &next
	default:
		return nil
	}
}

func fullValue(h Habit) float64 {
	if h.TargetValue > 0 {
		return h.TargetValue
	}
	return 1
}

func partialValue(h Habit) float64 {
	if h.TargetValue > 1 {
		return h.TargetValue / 2
	}
	return 1
}
