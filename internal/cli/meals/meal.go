package meals

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/cli"
	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/models"
	"github.com/maticai/matic/internal/notifier"
	"github.com/maticai/matic/internal/tui"
)

type MealCmd struct {
	Log     MealLogCmd     `cmd:"" help:"Log servings of a saved food."`
	Analyze MealAnalyzeCmd `cmd:"" help:"Identify the foods in a photo and log them."`
	List    MealListCmd    `cmd:"" help:"List the meals of a day."`
	Totals  MealTotalsCmd  `cmd:"" help:"Show a day's nutrition totals."`
	Delete  MealDeleteCmd  `cmd:"" help:"Delete a meal entry."`
}

// consumedAt parses "YYYY-MM-DD HH:MM" in the configured timezone; empty
// means now.
func consumedAt(ctx *cli.Context, at string) (time.Time, error) {
	if at == "" {
		return ctx.Clock(), nil
	}
	loc, err := ctx.Tracker.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(constants.DateFormat+" "+constants.TimeFormat, at, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (expected YYYY-MM-DD HH:MM)", at)
	}
	return t, nil
}

type MealLogCmd struct {
	Food     string  `arg:"" help:"Food ID or external ID."`
	Servings float64 `short:"s" help:"Number of servings." default:"1"`
	Category string  `short:"c" help:"Meal category (breakfast, lunch, dinner, snack)."`
	At       string  `help:"When it was eaten, as 'YYYY-MM-DD HH:MM' (default: now)."`
}

func (c *MealLogCmd) Run(ctx *cli.Context) error {
	food, err := ctx.Store.GetFood(c.Food)
	if err != nil {
		return fmt.Errorf("failed to find food: %w", err)
	}
	when, err := consumedAt(ctx, c.At)
	if err != nil {
		return err
	}
	category := c.Category
	if category == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return ctx.Report(err, "failed to load settings")
		}
		category = settings.DefaultMealCategory
	}

	entry := models.MealEntry{
		ID:         uuid.New().String(),
		FoodID:     food.ID,
		Servings:   c.Servings,
		Category:   category,
		ConsumedAt: when,
		CreatedAt:  ctx.Clock(),
	}
	if err := ctx.Store.AddMealEntry(entry); err != nil {
		return ctx.Report(err, "failed to log meal")
	}
	n := entry.Nutrition(food)
	ctx.Printf("Logged %g × %s as %s: %d kcal [%s]\n", c.Servings, food.Name, category, n.Calories, entry.ID)
	return nil
}

type MealAnalyzeCmd struct {
	Photo    string `arg:"" help:"Meal photo." type:"existingfile"`
	Category string `short:"c" help:"Meal category (default from settings)."`
	Yes      bool   `short:"y" help:"Log every detected item without asking."`
}

func (c *MealAnalyzeCmd) Run(ctx *cli.Context) error {
	client, err := ctx.RequireAI()
	if err != nil {
		return err
	}
	image, err := cli.ReadImage(c.Photo)
	if err != nil {
		return err
	}

	analysis, err := client.AnalyzeFood(context.Background(), image)
	if err != nil {
		if errors.Is(err, ai.ErrOverloaded) {
			return ctx.Report(err, "the food analyzer is busy, try again in a minute")
		}
		return ctx.Report(err, "food analysis failed")
	}
	if len(analysis.Foods) == 0 {
		ctx.Printf("No foods recognized in %s.\n", filepath.Base(c.Photo))
		return nil
	}

	estimates := ctx.Engine.EstimateAll(context.Background(), analysis.Foods)
	printEstimates(ctx, estimates)
	for _, s := range analysis.Suggestions {
		ctx.Printf("  tip: %s\n", s)
	}

	if !c.Yes {
		estimates, err = tui.PickEstimates(estimates)
		if err != nil {
			return err
		}
	}
	if len(estimates) == 0 {
		ctx.Printf("Nothing logged.\n")
		return nil
	}

	entries, err := ctx.Tracker.SaveEstimates(estimates, c.Category, ctx.Clock(), c.Photo)
	if err != nil {
		return ctx.Report(err, "failed to save meal")
	}
	notifier.Infof(ctx.Notifier, "Logged %d item(s) from %s", len(entries), filepath.Base(c.Photo))
	return nil
}

type MealListCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *MealListCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	totals, err := ctx.Tracker.MealTotals(day)
	if err != nil {
		return ctx.Report(err, "failed to load meals")
	}
	if len(totals.Meals) == 0 {
		ctx.Printf("No meals logged on %s.\n", totals.Date)
		return nil
	}

	loc, err := ctx.Tracker.Location()
	if err != nil {
		return err
	}
	for _, m := range totals.Meals {
		n := m.Nutrition()
		ctx.Printf("%s  %-9s %g × %s · %d kcal  [%s]\n",
			m.Entry.ConsumedAt.In(loc).Format(constants.TimeFormat), m.Entry.Category,
			m.Entry.Servings, m.Food.Name, n.Calories, m.Entry.ID)
	}
	return nil
}

type MealTotalsCmd struct {
	Date string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *MealTotalsCmd) Run(ctx *cli.Context) error {
	day, err := ctx.Tracker.Day(c.Date)
	if err != nil {
		return err
	}
	totals, err := ctx.Tracker.MealTotals(day)
	if err != nil {
		return ctx.Report(err, "failed to load meals")
	}

	ctx.Printf("Nutrition for %s\n\n", totals.Date)
	categories := make([]string, 0, len(totals.ByCategory))
	for cat := range totals.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		ctx.Printf("  %-10s %s\n", cat, formatNutrients(totals.ByCategory[cat]))
	}
	ctx.Printf("  %-10s %s\n", "total", formatNutrients(totals.Total))
	return nil
}

func formatNutrients(n models.Nutrients) string {
	return fmt.Sprintf("%d kcal · protein %.1fg · carbs %.1fg · fat %.1fg", n.Calories, n.Protein, n.Carbs, n.Fat)
}

type MealDeleteCmd struct {
	ID string `arg:"" help:"Meal entry ID."`
}

func (c *MealDeleteCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.DeleteMealEntry(c.ID); err != nil {
		return ctx.Report(err, "failed to delete meal")
	}
	ctx.Printf("Deleted meal entry %s\n", c.ID)
	return nil
}
