package constants

const (
	// Provenance tags
	ProvenanceDatabase      Provenance = "database"
	ProvenanceFallbackTable Provenance = "fallback_table"
	ProvenanceDefault       Provenance = "default"

	// Portion parsing
	DefaultPortionGrams = 15.0
	ReferenceGrams      = 100.0

	// Plausibility thresholds (per 100 g). Overridable through the config file.
	DefaultVegetableMaxKcal      = 100.0
	DefaultLeanProteinMinProtein = 15.0
	DefaultLeanProteinMaxCarbs   = 2.0
	DefaultMacroTolerance        = 0.30
	DefaultConfidencePenalty     = 0.5

	// Conservative default estimate, returned as-is for the whole portion
	DefaultKcal    = 50.0
	DefaultProtein = 1.0
	DefaultCarbs   = 10.0
	DefaultFat     = 1.0

	// Atwater factors
	KcalPerGramProtein = 4.0
	KcalPerGramCarbs   = 4.0
	KcalPerGramFat     = 9.0

	// FoodData Central nutrient identifiers
	NutrientIDEnergy  = 1008
	NutrientIDProtein = 1003
	NutrientIDCarbs   = 1005
	NutrientIDFat     = 1004
	NutrientUnitKcal  = "KCAL"
	NutrientUnitGram  = "G"
)
