package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
)

// ErrImplausible marks a database record rejected by the plausibility checks.
var ErrImplausible = errors.New("implausible nutrient values")

// Thresholds are the tunable plausibility limits, all per 100 g.
type Thresholds struct {
	VegetableMaxKcal      float64 `yaml:"vegetable_max_kcal"`
	LeanProteinMinProtein float64 `yaml:"lean_protein_min_protein"`
	LeanProteinMaxCarbs   float64 `yaml:"lean_protein_max_carbs"`
	MacroTolerance        float64 `yaml:"macro_tolerance"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		VegetableMaxKcal:      constants.DefaultVegetableMaxKcal,
		LeanProteinMinProtein: constants.DefaultLeanProteinMinProtein,
		LeanProteinMaxCarbs:   constants.DefaultLeanProteinMaxCarbs,
		MacroTolerance:        constants.DefaultMacroTolerance,
	}
}

func (t Thresholds) Validate() error {
	if t.VegetableMaxKcal <= 0 {
		return fmt.Errorf("vegetable_max_kcal must be positive")
	}
	if t.LeanProteinMinProtein < 0 || t.LeanProteinMaxCarbs < 0 {
		return fmt.Errorf("lean protein thresholds must not be negative")
	}
	if t.MacroTolerance <= 0 || t.MacroTolerance >= 1 {
		return fmt.Errorf("macro_tolerance must be between 0 and 1")
	}
	return nil
}

var vegetableKeywords = []string{
	"lechuga", "lettuce", "espinaca", "spinach", "brocoli", "broccoli",
	"tomate", "tomato", "pepino", "cucumber", "zanahoria", "carrot",
	"apio", "celery", "col", "cabbage", "coliflor", "cauliflower",
	"calabacin", "zucchini", "pimiento", "pepper", "cebolla", "onion",
	"acelga", "chard", "berenjena", "eggplant", "champinon", "mushroom",
	"esparrago", "asparagus", "ejote", "verdura", "vegetable", "ensalada", "salad",
}

var leanProteinKeywords = []string{
	"pechuga", "pollo", "pavo", "atun", "pescado", "tilapia", "merluza",
	"clara de huevo", "chicken", "turkey", "tuna", "cod", "egg white",
}

// Validator applies plausibility checks to per-100 g database values.
type Validator struct {
	thresholds Thresholds
	logger     *log.Logger
}

func NewValidator(t Thresholds, l *log.Logger) *Validator {
	if l == nil {
		l = logger.Discard()
	}
	return &Validator{thresholds: t, logger: l}
}

// Check returns an error wrapping ErrImplausible when values cannot belong
// to the named food. Macro arithmetic drift is only logged.
func (v *Validator) Check(name string, n Per100g) error {
	if n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0 {
		return fmt.Errorf("%w: negative values for %q", ErrImplausible, name)
	}

	computed := n.Protein*constants.KcalPerGramProtein +
		n.Carbs*constants.KcalPerGramCarbs +
		n.Fat*constants.KcalPerGramFat
	if n.Calories > 0 && math.Abs(computed-n.Calories)/n.Calories > v.thresholds.MacroTolerance {
		v.logger.Warn("energy disagrees with macro arithmetic",
			"food", name, "kcal", n.Calories, "computed", math.Round(computed))
	}

	words := strings.Fields(Normalize(name))
	if hasAnyToken(words, vegetableKeywords) && n.Calories > v.thresholds.VegetableMaxKcal {
		return fmt.Errorf("%w: vegetable %q at %.0f kcal/100g", ErrImplausible, name, n.Calories)
	}
	if hasAnyToken(words, leanProteinKeywords) {
		if n.Protein < v.thresholds.LeanProteinMinProtein {
			return fmt.Errorf("%w: lean protein %q has %.1fg protein/100g", ErrImplausible, name, n.Protein)
		}
		if n.Carbs > v.thresholds.LeanProteinMaxCarbs {
			return fmt.Errorf("%w: lean protein %q has %.1fg carbs/100g", ErrImplausible, name, n.Carbs)
		}
	}
	return nil
}
