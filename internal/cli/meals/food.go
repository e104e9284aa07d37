package meals

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/nutrition"
	"github.com/maticai/matic/internal/tui"
)

type FoodCmd struct {
	Estimate FoodEstimateCmd `cmd:"" help:"Estimate nutrition for foods and portions."`
	Add      FoodAddCmd      `cmd:"" help:"Add a food reference by hand."`
	Search   FoodSearchCmd   `cmd:"" help:"Search saved foods, or the nutrition database with --remote."`
}

type FoodEstimateCmd struct {
	Items      []string `arg:"" help:"Foods as NAME or NAME=PORTION (e.g. 'rice=1 cup' 'egg=2 eggs')."`
	Confidence float64  `help:"Confidence to attach to every item." default:"1"`
	Log        bool     `help:"Log the estimates as a meal."`
	Category   string   `short:"c" help:"Meal category when logging (default from settings)."`
}

// ParseFoodInputs turns NAME[=PORTION] arguments into engine inputs.
func ParseFoodInputs(items []string, confidence float64) []nutrition.FoodInput {
	inputs := make([]nutrition.FoodInput, 0, len(items))
	for _, item := range items {
		name, portion, _ := strings.Cut(item, "=")
		inputs = append(inputs, nutrition.FoodInput{
			Name:             strings.TrimSpace(name),
			EstimatedPortion: strings.TrimSpace(portion),
			Confidence:       confidence,
		})
	}
	return inputs
}

func (c *FoodEstimateCmd) Run(ctx *cli.Context) error {
	estimates := ctx.Engine.EstimateAll(context.Background(), ParseFoodInputs(c.Items, c.Confidence))
	printEstimates(ctx, estimates)

	if !c.Log {
		return nil
	}
	entries, err := ctx.Tracker.SaveEstimates(estimates, c.Category, ctx.Clock(), "")
	if err != nil {
		return ctx.Report(err, "failed to log meal")
	}
	ctx.Printf("\nLogged %d item(s).\n", len(entries))
	return nil
}

func printEstimates(ctx *cli.Context, estimates []nutrition.Estimate) {
	for _, e := range estimates {
		ctx.Printf("  %s\n", tui.EstimateLabel(e))
	}
	total := nutrition.Totals(estimates)
	ctx.Printf("\nTotal: %d kcal · protein %.1fg · carbs %.1fg · fat %.1fg\n",
		total.Calories, total.Protein, total.Carbs, total.Fat)
}

type FoodAddCmd struct {
	Name     string  `arg:"" help:"Food name."`
	Calories float64 `help:"Kilocalories per serving." required:""`
	Protein  float64 `help:"Protein grams per serving."`
	Carbs    float64 `help:"Carbohydrate grams per serving."`
	Fat      float64 `help:"Fat grams per serving."`
	Serving  string  `help:"Serving description (e.g. '1 cup')."`
	Brand    string  `help:"Brand."`
}

func (c *FoodAddCmd) Run(ctx *cli.Context) error {
	now := ctx.Clock()
	food := models.FoodReference{
		ID:                 uuid.New().String(),
		ExternalID:         models.NewManualFoodID(now),
		Name:               strings.TrimSpace(c.Name),
		Brand:              c.Brand,
		ServingDescription: c.Serving,
		Calories:           c.Calories,
		Protein:            c.Protein,
		Carbs:              c.Carbs,
		Fat:                c.Fat,
		CreatedAt:          now,
	}
	if err := ctx.Store.AddFood(food); err != nil {
		return ctx.Report(err, "failed to add food")
	}
	ctx.Printf("Added food: %s [%s]\n", food.Name, food.ID)
	return nil
}

type FoodSearchCmd struct {
	Query  string `arg:"" help:"Name to search for."`
	Limit  int    `help:"Maximum results." default:"20"`
	Remote bool   `help:"Look the name up in the nutrition database instead."`
	Save   bool   `help:"With --remote, save the match as a food reference per 100 g."`
}

func (c *FoodSearchCmd) Run(ctx *cli.Context) error {
	if c.Remote {
		return c.remote(ctx)
	}
	foods, err := ctx.Store.SearchFoods(c.Query, c.Limit)
	if err != nil {
		return ctx.Report(err, "failed to search foods")
	}
	if len(foods) == 0 {
		ctx.Printf("No foods match %q.\n", c.Query)
		return nil
	}
	for _, f := range foods {
		serving := f.ServingDescription
		if serving == "" {
			serving = "1 serving"
		}
		ctx.Printf("%s  %s (%s) · %.0f kcal · P%.1f C%.1f F%.1f\n", f.ID, f.Name, serving, f.Calories, f.Protein, f.Carbs, f.Fat)
	}
	return nil
}

func (c *FoodSearchCmd) remote(ctx *cli.Context) error {
	records := ctx.Engine.LookupBatch(context.Background(), []string{c.Query})
	if len(records) == 0 {
		ctx.Printf("No database match for %q.\n", c.Query)
		return nil
	}
	rec := records[0]
	ctx.Printf("%s (per 100 g): %.0f kcal · P%.1f C%.1f F%.1f  [%s]\n",
		rec.Name, rec.Per100g.Calories, rec.Per100g.Protein, rec.Per100g.Carbs, rec.Per100g.Fat, rec.ID)
	if !c.Save {
		return nil
	}

	food := models.FoodReference{
		ID:                 uuid.New().String(),
		ExternalID:         rec.ID,
		Name:               rec.Name,
		ServingDescription: "100 g",
		Calories:           rec.Per100g.Calories,
		Protein:            rec.Per100g.Protein,
		Carbs:              rec.Per100g.Carbs,
		Fat:                rec.Per100g.Fat,
		CreatedAt:          ctx.Clock(),
	}
	if err := ctx.Store.AddFood(food); err != nil {
		return ctx.Report(err, "failed to save food")
	}
	saved, err := ctx.Store.GetFood(rec.ID)
	if err != nil {
		return ctx.Report(err, "failed to reload food")
	}
	ctx.Printf("Saved food: %s [%s]\n", saved.Name, saved.ID)
	return nil
}
