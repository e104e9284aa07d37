package models

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/maticai/matic/internal/constants"
)

// Nutrients is a rounded macro breakdown: whole kilocalories, grams to one decimal.
type Nutrients struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// SumNutrients adds already-rounded values. Rounding happens per item
// before summation, so totals can drift slightly from an unrounded sum.
func SumNutrients(items ...Nutrients) Nutrients {
	var total Nutrients
	for _, n := range items {
		total.Calories += n.Calories
		total.Protein += n.Protein
		total.Carbs += n.Carbs
		total.Fat += n.Fat
	}
	// Re-round to strip binary float noise from adding one-decimal values.
	total.Protein = Round1(total.Protein)
	total.Carbs = Round1(total.Carbs)
	total.Fat = Round1(total.Fat)
	return total
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FoodReference is a canonical per-serving nutrition record.
type FoodReference struct {
	ID                 string    `json:"id" db:"id"`
	ExternalID         string    `json:"external_id" db:"external_id"`
	Name               string    `json:"name" db:"name"`
	Brand              string    `json:"brand,omitempty" db:"brand"`
	ServingDescription string    `json:"serving_description,omitempty" db:"serving_description"`
	Calories           float64   `json:"calories" db:"calories"`
	Protein            float64   `json:"protein" db:"protein"`
	Carbs              float64   `json:"carbs" db:"carbs"`
	Fat                float64   `json:"fat" db:"fat"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

func (f FoodReference) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("food name is required")
	}
	if f.ExternalID == "" {
		return fmt.Errorf("food external id is required")
	}
	if f.Calories < 0 || f.Protein < 0 || f.Carbs < 0 || f.Fat < 0 {
		return fmt.Errorf("food %q has negative nutrient values", f.Name)
	}
	return nil
}

// NewManualFoodID returns an external id for a hand-entered food:
// manual_<unix millis>_<6 random chars>.
func NewManualFoodID(now time.Time) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return fmt.Sprintf("%s%d_%s", constants.ManualFoodPrefix, now.UnixMilli(), suffix)
}

// IsManualFoodID reports whether id was produced by NewManualFoodID.
func IsManualFoodID(id string) bool {
	return strings.HasPrefix(id, constants.ManualFoodPrefix)
}

// MealEntry is one logged consumption of a food reference.
type MealEntry struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	FoodID     string    `json:"food_id" db:"food_id"`
	Servings   float64   `json:"servings" db:"servings"`
	Category   string    `json:"category" db:"category"`
	ConsumedAt time.Time `json:"consumed_at" db:"consumed_at"`
	PhotoPath  string    `json:"photo_path,omitempty" db:"photo_path"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

func (m MealEntry) Validate() error {
	if m.FoodID == "" {
		return fmt.Errorf("meal entry needs a food")
	}
	if m.Servings <= 0 {
		return fmt.Errorf("servings must be greater than zero")
	}
	if strings.TrimSpace(m.Category) == "" {
		return fmt.Errorf("meal category is required")
	}
	return nil
}

// Nutrition returns the entry's macros: per-serving values times servings.
func (m MealEntry) Nutrition(food FoodReference) Nutrients {
	return Nutrients{
		Calories: int(math.Round(food.Calories * m.Servings)),
		Protein:  Round1(food.Protein * m.Servings),
		Carbs:    Round1(food.Carbs * m.Servings),
		Fat:      Round1(food.Fat * m.Servings),
	}
}

// IsBuiltinMealCategory reports whether c is breakfast, lunch, dinner or snack.
func IsBuiltinMealCategory(c string) bool {
	switch constants.MealCategory(c) {
	case constants.MealBreakfast, constants.MealLunch, constants.MealDinner, constants.MealSnack:
		return true
	}
	return false
}

// MealLog is a meal entry together with the food it refers to.
type MealLog struct {
	Entry MealEntry     `json:"entry" db:"entry"`
	Food  FoodReference `json:"food" db:"food"`
}

func (l MealLog) Nutrition() Nutrients {
	return l.Entry.Nutrition(l.Food)
}
