package nutrition

// fallbackTable holds per-100 g values for a few staples, keyed by
// normalized name.
var fallbackTable = map[string]Per100g{
	"miel":     {Calories: 304, Protein: 0.3, Carbs: 82.4, Fat: 0},
	"honey":    {Calories: 304, Protein: 0.3, Carbs: 82.4, Fat: 0},
	"aguacate": {Calories: 160, Protein: 2, Carbs: 8.5, Fat: 14.7},
	"avocado":  {Calories: 160, Protein: 2, Carbs: 8.5, Fat: 14.7},
	"huevo":    {Calories: 155, Protein: 13, Carbs: 1.1, Fat: 11},
	"egg":      {Calories: 155, Protein: 13, Carbs: 1.1, Fat: 11},
	"pollo":    {Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"chicken":  {Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	"arroz":    {Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	"rice":     {Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
	"pan":      {Calories: 265, Protein: 9, Carbs: 49, Fat: 3.2},
	"bread":    {Calories: 265, Protein: 9, Carbs: 49, Fat: 3.2},
}

func lookupFallback(name string) (Per100g, bool) {
	n, ok := fallbackTable[Normalize(name)]
	return n, ok
}
