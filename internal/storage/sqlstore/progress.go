package sqlstore

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/maticai/matic/internal/models"
)

var progressColumns = []string{
	"id", "habit_id", "date", "value", "completed", "notes", "created_at", "updated_at",
}

// SaveHabitProgress upserts on (habit_id, date); there is at most one
// record per habit per day.
func (s *Store) SaveHabitProgress(p models.HabitProgress) error {
	query, args, err := s.sb.Insert("habit_progress").
		Columns(progressColumns...).
		Values(p.ID, p.HabitID, p.Date, p.Value, p.Completed, p.Notes, utc(p.CreatedAt), utc(p.UpdatedAt)).
		Suffix("ON CONFLICT (habit_id, date) DO UPDATE SET " +
			"value = excluded.value, completed = excluded.completed, " +
			"notes = excluded.notes, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to save habit progress: %w", err)
	}
	return nil
}

func (s *Store) GetHabitProgress(habitID, date string) (models.HabitProgress, error) {
	query, args, err := s.sb.Select(progressColumns...).From("habit_progress").
		Where(squirrel.Eq{"habit_id": habitID, "date": date}).ToSql()
	if err != nil {
		return models.HabitProgress{}, err
	}
	var p models.HabitProgress
	if err := s.db.Get(&p, query, args...); err != nil {
		return models.HabitProgress{}, notFound(err, "habit progress", habitID+"@"+date)
	}
	return p, nil
}

// GetHabitProgressRange returns every record with startDate <= date <= endDate.
func (s *Store) GetHabitProgressRange(startDate, endDate string) ([]models.HabitProgress, error) {
	query, args, err := s.sb.Select(progressColumns...).From("habit_progress").
		Where(squirrel.GtOrEq{"date": startDate}).
		Where(squirrel.LtOrEq{"date": endDate}).
		OrderBy("date", "habit_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var out []models.HabitProgress
	if err := s.db.Select(&out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read habit progress: %w", err)
	}
	return out, nil
}

func (s *Store) DeleteHabitProgress(habitID, date string) error {
	query, args, err := s.sb.Delete("habit_progress").
		Where(squirrel.Eq{"habit_id": habitID, "date": date}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.Exec(query, args...)
	return err
}
