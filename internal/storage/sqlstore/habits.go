package sqlstore

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
)

var habitColumns = []string{
	"id", "user_id", "name", "category", "icon", "color", "priority",
	"target_value", "active", "frequency", "frequency_days", "frequency_data",
	"start_date", "end_date", "created_at", "updated_at",
}

// habitRow is a habit as persisted: the recurrence lives in the three
// frequency columns.
type habitRow struct {
	models.Habit
	models.StoredFrequency
}

func (r habitRow) toHabit() models.Habit {
	h := r.Habit
	rec, err := models.DecodeFrequency(r.StoredFrequency)
	if err != nil {
		// A zero recurrence is never due, which is the safe outcome.
		logger.Warn("Unreadable habit recurrence", "habit", h.ID, "error", err)
	}
	h.Recurrence = rec
	return h
}

func (s *Store) AddHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	sf, err := models.EncodeFrequency(h.Recurrence)
	if err != nil {
		return err
	}
	h.CreatedAt = utc(h.CreatedAt)
	h.UpdatedAt = utc(h.UpdatedAt)

	query, args, err := s.sb.Insert("habits").
		Columns(habitColumns...).
		Values(h.ID, h.UserID, h.Name, h.Category, h.Icon, h.Color, h.Priority,
			h.TargetValue, h.Active, sf.Frequency, sf.FrequencyDays, sf.FrequencyData,
			h.StartDate, h.EndDate, h.CreatedAt, h.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	query, args, err := s.sb.Select(habitColumns...).From("habits").
		Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Habit{}, err
	}
	var row habitRow
	if err := s.db.Get(&row, query, args...); err != nil {
		return models.Habit{}, notFound(err, "habit", id)
	}
	return row.toHabit(), nil
}

// GetAllHabits lists habits by priority then name. Archived habits are
// included only on request.
func (s *Store) GetAllHabits(includeInactive bool) ([]models.Habit, error) {
	q := s.sb.Select(habitColumns...).From("habits").OrderBy("priority", "name")
	if !includeInactive {
		q = q.Where(squirrel.Eq{"active": true})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []habitRow
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	habits := make([]models.Habit, 0, len(rows))
	for _, r := range rows {
		habits = append(habits, r.toHabit())
	}
	return habits, nil
}

func (s *Store) UpdateHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	sf, err := models.EncodeFrequency(h.Recurrence)
	if err != nil {
		return err
	}
	query, args, err := s.sb.Update("habits").
		Set("user_id", h.UserID).
		Set("name", h.Name).
		Set("category", h.Category).
		Set("icon", h.Icon).
		Set("color", h.Color).
		Set("priority", h.Priority).
		Set("target_value", h.TargetValue).
		Set("active", h.Active).
		Set("frequency", sf.Frequency).
		Set("frequency_days", sf.FrequencyDays).
		Set("frequency_data", sf.FrequencyData).
		Set("start_date", h.StartDate).
		Set("end_date", h.EndDate).
		Set("updated_at", utc(h.UpdatedAt)).
		Where(squirrel.Eq{"id": h.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireAffected(res, "habit", h.ID)
}

// DeleteHabit archives the habit. Its progress history is kept.
func (s *Store) DeleteHabit(id string) error {
	return s.setHabitActive(id, false)
}

func (s *Store) RestoreHabit(id string) error {
	return s.setHabitActive(id, true)
}

func (s *Store) setHabitActive(id string, active bool) error {
	query, args, err := s.sb.Update("habits").
		Set("active", active).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "habit", id)
}
