package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/maticai/matic/internal/nutrition"
)

// EstimateLabel is the one-line summary shown for an estimate in pickers.
func EstimateLabel(e nutrition.Estimate) string {
	portion := e.EstimatedPortion
	if portion == "" {
		portion = fmt.Sprintf("%.0fg", e.PortionGrams)
	}
	return fmt.Sprintf("%s (%s) · %d kcal · P%.1f C%.1f F%.1f [%s]",
		e.Name, portion, e.Calories, e.Protein, e.Carbs, e.Fat, e.Provenance)
}

// estimateForm builds the picker for which estimates to log. All items start
// selected; picked receives the chosen indexes.
func estimateForm(estimates []nutrition.Estimate, picked *[]int) *huh.Form {
	opts := make([]huh.Option[int], 0, len(estimates))
	for i, e := range estimates {
		opts = append(opts, huh.NewOption(EstimateLabel(e), i).Selected(true))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Log these items?").
				Options(opts...).
				Value(picked),
		),
	)
}

// PickEstimates asks which of the estimated items should be logged.
func PickEstimates(estimates []nutrition.Estimate) ([]nutrition.Estimate, error) {
	if len(estimates) == 0 {
		return nil, nil
	}
	var picked []int
	if err := estimateForm(estimates, &picked).Run(); err != nil {
		return nil, err
	}
	return selectEstimates(estimates, picked), nil
}

func selectEstimates(estimates []nutrition.Estimate, picked []int) []nutrition.Estimate {
	out := make([]nutrition.Estimate, 0, len(picked))
	for _, i := range picked {
		if i >= 0 && i < len(estimates) {
			out = append(out, estimates[i])
		}
	}
	return out
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	return ok, err
}
