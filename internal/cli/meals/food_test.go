package meals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maticai/matic/internal/cli/clitest"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/nutrition"
)

type fakeDatabase map[string]nutrition.FoodRecord

func (f fakeDatabase) Search(_ context.Context, term string) ([]nutrition.FoodRecord, error) {
	if rec, ok := f[term]; ok {
		return []nutrition.FoodRecord{rec}, nil
	}
	return nil, nil
}

func TestParseFoodInputs(t *testing.T) {
	got := ParseFoodInputs([]string{"rice = 1 cup", "egg", "pan=2 rebanadas=60g"}, 0.7)
	assert.Equal(t, []nutrition.FoodInput{
		{Name: "rice", EstimatedPortion: "1 cup", Confidence: 0.7},
		{Name: "egg", EstimatedPortion: "", Confidence: 0.7},
		{Name: "pan", EstimatedPortion: "2 rebanadas=60g", Confidence: 0.7},
	}, got)
}

func TestFoodEstimateCmd(t *testing.T) {
	env := clitest.New(t)

	cmd := &FoodEstimateCmd{Items: []string{"chicken=200g", "rice=200g"}, Confidence: 1}
	require.NoError(t, cmd.Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "chicken (200g) · 330 kcal")
	assert.Contains(t, out, "rice (200g) · 260 kcal")
	assert.Contains(t, out, "Total: 590 kcal")

	day, err := env.Ctx.Tracker.Day("")
	require.NoError(t, err)
	totals, err := env.Ctx.Tracker.MealTotals(day)
	require.NoError(t, err)
	assert.Empty(t, totals.Meals, "nothing is logged without --log")
}

func TestFoodEstimateCmd_Log(t *testing.T) {
	env := clitest.New(t)

	cmd := &FoodEstimateCmd{Items: []string{"egg=100g"}, Confidence: 1, Log: true, Category: "breakfast"}
	require.NoError(t, cmd.Run(env.Ctx))
	assert.Contains(t, env.Output(), "Logged 1 item(s).")

	day, err := env.Ctx.Tracker.Day("")
	require.NoError(t, err)
	totals, err := env.Ctx.Tracker.MealTotals(day)
	require.NoError(t, err)
	require.Len(t, totals.Meals, 1)
	assert.Equal(t, "breakfast", totals.Meals[0].Entry.Category)
	assert.Equal(t, 155, totals.Total.Calories)
	assert.True(t, models.IsManualFoodID(totals.Meals[0].Food.ExternalID))
}

func TestFoodAddAndSearch(t *testing.T) {
	env := clitest.New(t)

	require.NoError(t, (&FoodSearchCmd{Query: "oat", Limit: 20}).Run(env.Ctx))
	assert.Contains(t, env.Output(), `No foods match "oat".`)

	add := &FoodAddCmd{Name: "Rolled Oats", Calories: 150, Protein: 5, Carbs: 27, Fat: 2.5, Serving: "40 g"}
	require.NoError(t, add.Run(env.Ctx))
	assert.Contains(t, env.Output(), "Added food: Rolled Oats")

	require.NoError(t, (&FoodSearchCmd{Query: "OAT", Limit: 20}).Run(env.Ctx))
	assert.Contains(t, env.Output(), "Rolled Oats (40 g) · 150 kcal · P5.0 C27.0 F2.5")
}

func TestFoodSearchCmd_Remote(t *testing.T) {
	env := clitest.New(t)
	env.Ctx.Engine = nutrition.New(fakeDatabase{
		"oats": {ID: "fdc_173904", Name: "Oats", Per100g: nutrition.Per100g{Calories: 389, Protein: 16.9, Carbs: 66.3, Fat: 6.9}},
	}, nutrition.Config{Logger: logger.Discard()})

	require.NoError(t, (&FoodSearchCmd{Query: "nothing-here", Remote: true}).Run(env.Ctx))
	assert.Contains(t, env.Output(), `No database match for "nothing-here".`)

	require.NoError(t, (&FoodSearchCmd{Query: "oats", Remote: true, Save: true}).Run(env.Ctx))
	out := env.Output()
	assert.Contains(t, out, "oats (per 100 g): 389 kcal · P16.9 C66.3 F6.9  [fdc_173904]")
	assert.Contains(t, out, "Saved food: oats")

	food, err := env.Store.GetFood("fdc_173904")
	require.NoError(t, err)
	assert.Equal(t, "100 g", food.ServingDescription)

	// Saving again updates the same reference.
	require.NoError(t, (&FoodSearchCmd{Query: "oats", Remote: true, Save: true}).Run(env.Ctx))
	foods, err := env.Store.SearchFoods("oats", 0)
	require.NoError(t, err)
	assert.Len(t, foods, 1)
}
