package sqlstore

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/maticai/matic/internal/models"
)

var foodColumns = []string{
	"id", "external_id", "name", "brand", "serving_description",
	"calories", "protein", "carbs", "fat", "created_at",
}

// AddFood inserts a reference, or refreshes the macros of the one with the
// same external id.
func (s *Store) AddFood(f models.FoodReference) error {
	if err := f.Validate(); err != nil {
		return err
	}
	query, args, err := s.sb.Insert("foods").
		Columns(foodColumns...).
		Values(f.ID, f.ExternalID, f.Name, f.Brand, f.ServingDescription,
			f.Calories, f.Protein, f.Carbs, f.Fat, utc(f.CreatedAt)).
		Suffix("ON CONFLICT (external_id) DO UPDATE SET " +
			"name = excluded.name, brand = excluded.brand, " +
			"serving_description = excluded.serving_description, " +
			"calories = excluded.calories, protein = excluded.protein, " +
			"carbs = excluded.carbs, fat = excluded.fat").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to add food: %w", err)
	}
	return nil
}

// GetFood looks a food up by id or external id.
func (s *Store) GetFood(id string) (models.FoodReference, error) {
	query, args, err := s.sb.Select(foodColumns...).From("foods").
		Where(squirrel.Or{squirrel.Eq{"id": id}, squirrel.Eq{"external_id": id}}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.FoodReference{}, err
	}
	var f models.FoodReference
	if err := s.db.Get(&f, query, args...); err != nil {
		return models.FoodReference{}, notFound(err, "food", id)
	}
	return f, nil
}

// SearchFoods matches the query case-insensitively anywhere in the name.
func (s *Store) SearchFoods(query string, limit int) ([]models.FoodReference, error) {
	q := s.sb.Select(foodColumns...).From("foods").OrderBy("name")
	if term := strings.TrimSpace(query); term != "" {
		q = q.Where(squirrel.Like{"LOWER(name)": "%" + strings.ToLower(term) + "%"})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var foods []models.FoodReference
	if err := s.db.Select(&foods, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return foods, nil
}
