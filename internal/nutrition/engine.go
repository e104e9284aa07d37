// Package nutrition turns food names and portion descriptions into macro
// estimates, preferring database values over AI-estimated absolutes and
// degrading through a fallback table to a conservative default.
package nutrition

import (
	"context"
	"math"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/maticai/matic/internal/constants"
	"github.com/maticai/matic/internal/logger"
	"github.com/maticai/matic/internal/models"
)

// FoodInput is one food identified by the vision analyzer or typed by the user.
type FoodInput struct {
	Name             string  `json:"name"`
	EstimatedPortion string  `json:"estimated_portion"`
	Confidence       float64 `json:"confidence"`
}

// Estimate is the macro breakdown for the whole portion.
type Estimate struct {
	Name             string `json:"name"`
	EstimatedPortion string `json:"estimated_portion"`
	models.Nutrients
	PortionGrams float64              `json:"portion_grams"`
	Confidence   float64              `json:"confidence"`
	Provenance   constants.Provenance `json:"provenance"`
	SearchTerm   string               `json:"search_term,omitempty"`
	SourceID     string               `json:"source_id,omitempty"`
}

// Config tunes an Engine. Zero values take the package defaults.
type Config struct {
	Thresholds          Thresholds
	Rules               []Rule
	DefaultPortionGrams float64
	ConfidencePenalty   float64
	Concurrency         int
	Logger              *log.Logger
}

// Engine resolves estimates. It is safe for concurrent use.
type Engine struct {
	db          Database
	dict        *Dictionary
	validator   *Validator
	portion     float64
	penalty     float64
	concurrency int
	logger      *log.Logger
}

// New builds an engine over db. A nil db skips straight to the fallback tiers.
func New(db Database, cfg Config) *Engine {
	if cfg.Thresholds == (Thresholds{}) {
		cfg.Thresholds = DefaultThresholds()
	}
	if cfg.Rules == nil {
		cfg.Rules = DefaultRules
	}
	if cfg.DefaultPortionGrams <= 0 {
		cfg.DefaultPortionGrams = constants.DefaultPortionGrams
	}
	if cfg.ConfidencePenalty <= 0 {
		cfg.ConfidencePenalty = constants.DefaultConfidencePenalty
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = constants.DefaultEstimateConcurrency
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}
	return &Engine{
		db:          db,
		dict:        NewDictionary(cfg.Rules),
		validator:   NewValidator(cfg.Thresholds, cfg.Logger),
		portion:     cfg.DefaultPortionGrams,
		penalty:     cfg.ConfidencePenalty,
		concurrency: cfg.Concurrency,
		logger:      cfg.Logger,
	}
}

// Estimate always returns a usable value; failures fall through to the next tier.
func (e *Engine) Estimate(ctx context.Context, in FoodInput) Estimate {
	grams := ParsePortionGrams(in.EstimatedPortion, e.portion)
	out := Estimate{
		Name:             in.Name,
		EstimatedPortion: in.EstimatedPortion,
		PortionGrams:     grams,
		Confidence:       in.Confidence,
	}

	if rec, term, ok := e.lookup(ctx, in.Name); ok {
		out.Nutrients = Scale(rec.Per100g, grams)
		out.Provenance = constants.ProvenanceDatabase
		out.SearchTerm = term
		out.SourceID = rec.ID
		return out
	}

	if per, ok := lookupFallback(in.Name); ok {
		out.Nutrients = Scale(per, grams)
		out.Provenance = constants.ProvenanceFallbackTable
		return out
	}

	e.logger.Debug("using default estimate", "food", in.Name)
	out.Nutrients = models.Nutrients{
		Calories: int(constants.DefaultKcal),
		Protein:  constants.DefaultProtein,
		Carbs:    constants.DefaultCarbs,
		Fat:      constants.DefaultFat,
	}
	out.Confidence = in.Confidence * e.penalty
	out.Provenance = constants.ProvenanceDefault
	return out
}

// EstimateAll estimates every input concurrently and keeps input order.
func (e *Engine) EstimateAll(ctx context.Context, inputs []FoodInput) []Estimate {
	out := make([]Estimate, len(inputs))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			out[i] = e.Estimate(ctx, in)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// LookupBatch resolves names against the database only. The result holds
// one record per name that matched and passed validation, in request
// order, with Name set to the requested name; missing names were not found.
func (e *Engine) LookupBatch(ctx context.Context, names []string) []FoodRecord {
	found := make([]*FoodRecord, len(names))
	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if rec, _, ok := e.lookup(ctx, name); ok {
				rec.Name = name
				found[i] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()

	var out []FoodRecord
	for _, rec := range found {
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}

func (e *Engine) lookup(ctx context.Context, name string) (FoodRecord, string, bool) {
	if e.db == nil || strings.TrimSpace(name) == "" {
		return FoodRecord{}, "", false
	}
	term, kind := e.dict.SearchTerm(name)

	records, err := e.db.Search(ctx, term)
	if err != nil {
		e.logger.Warn("nutrition lookup failed", "food", name, "term", term, "err", err)
		return FoodRecord{}, term, false
	}
	if len(records) == 0 {
		e.logger.Debug("no database match", "food", name, "term", term, "match", kind)
		return FoodRecord{}, term, false
	}

	rec := records[0]
	if err := e.validator.Check(name, rec.Per100g); err != nil {
		e.logger.Warn("rejected database match", "food", name, "record", rec.Name, "err", err)
		return FoodRecord{}, term, false
	}
	return rec, term, true
}

// Scale converts per-100 g values to a portion: whole kilocalories, macros
// to one decimal.
func Scale(per Per100g, grams float64) models.Nutrients {
	factor := grams / constants.ReferenceGrams
	return models.Nutrients{
		Calories: int(math.Round(per.Calories * factor)),
		Protein:  models.Round1(per.Protein * factor),
		Carbs:    models.Round1(per.Carbs * factor),
		Fat:      models.Round1(per.Fat * factor),
	}
}

// Totals sums estimates after per-item rounding.
func Totals(estimates []Estimate) models.Nutrients {
	items := make([]models.Nutrients, len(estimates))
	for i, est := range estimates {
		items[i] = est.Nutrients
	}
	return models.SumNutrients(items...)
}
