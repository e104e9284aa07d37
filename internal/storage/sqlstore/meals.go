package sqlstore

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/maticai/matic/internal/models"
)

var mealColumns = []string{
	"id", "user_id", "food_id", "servings", "category", "consumed_at", "photo_path", "created_at",
}

func (s *Store) AddMealEntry(m models.MealEntry) error {
	if err := m.Validate(); err != nil {
		return err
	}
	query, args, err := s.sb.Insert("meal_entries").
		Columns(mealColumns...).
		Values(m.ID, m.UserID, m.FoodID, m.Servings, m.Category,
			utc(m.ConsumedAt), m.PhotoPath, utc(m.CreatedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to add meal entry: %w", err)
	}
	return nil
}

// GetMealEntries returns entries consumed in [start, end).
func (s *Store) GetMealEntries(start, end time.Time) ([]models.MealEntry, error) {
	query, args, err := s.sb.Select(mealColumns...).From("meal_entries").
		Where(squirrel.GtOrEq{"consumed_at": start.UTC()}).
		Where(squirrel.Lt{"consumed_at": end.UTC()}).
		OrderBy("consumed_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var entries []models.MealEntry
	if err := s.db.Select(&entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read meal entries: %w", err)
	}
	return entries, nil
}

// GetMealLogs is GetMealEntries joined with each entry's food.
func (s *Store) GetMealLogs(start, end time.Time) ([]models.MealLog, error) {
	cols := make([]string, 0, len(mealColumns)+len(foodColumns))
	for _, c := range mealColumns {
		cols = append(cols, fmt.Sprintf(`m.%s AS "entry.%s"`, c, c))
	}
	for _, c := range foodColumns {
		cols = append(cols, fmt.Sprintf(`f.%s AS "food.%s"`, c, c))
	}
	query, args, err := s.sb.Select(cols...).
		From("meal_entries m").
		Join("foods f ON f.id = m.food_id").
		Where(squirrel.GtOrEq{"m.consumed_at": start.UTC()}).
		Where(squirrel.Lt{"m.consumed_at": end.UTC()}).
		OrderBy("m.consumed_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var logs []models.MealLog
	if err := s.db.Select(&logs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read meal log: %w", err)
	}
	return logs, nil
}

func (s *Store) DeleteMealEntry(id string) error {
	query, args, err := s.sb.Delete("meal_entries").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	return requireAffected(res, "meal entry", id)
}
