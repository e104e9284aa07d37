package nutrition

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Rule maps a common (mostly Spanish) food name to the English search term
// sent to the nutrition database, annotated with cooking state.
type Rule struct {
	Key  string
	Term string
}

// MatchKind records how a search term was resolved.
type MatchKind string

const (
	MatchExact       MatchKind = "exact"
	MatchPartial     MatchKind = "partial"
	MatchCookedHint  MatchKind = "cooked_suffix"
	MatchPassThrough MatchKind = "pass_through"
)

// DefaultRules is the built-in translation table. Order breaks ties between
// equally long partial matches at the same position.
var DefaultRules = []Rule{
	// Proteins
	{"pollo", "chicken breast cooked without skin"},
	{"pechuga de pollo", "chicken breast cooked without skin"},
	{"muslo de pollo", "chicken thigh cooked"},
	{"pavo", "turkey breast cooked"},
	{"carne", "beef cooked"},
	{"carne molida", "ground beef cooked"},
	{"res", "beef cooked"},
	{"bistec", "beef steak cooked"},
	{"cerdo", "pork loin cooked"},
	{"jamon", "ham sliced"},
	{"tocino", "bacon cooked"},
	{"salchicha", "sausage cooked"},
	{"pescado", "white fish cooked"},
	{"salmon", "salmon cooked"},
	{"atun", "tuna canned in water"},
	{"camarones", "shrimp cooked"},
	{"huevo", "egg whole cooked"},
	{"huevo frito", "egg whole fried"},
	{"clara de huevo", "egg white raw"},
	// Carbohydrate staples
	{"arroz", "rice white cooked"},
	{"arroz integral", "rice brown cooked"},
	{"pasta", "pasta cooked"},
	{"espagueti", "spaghetti cooked"},
	{"pan", "bread white"},
	{"pan integral", "bread whole wheat"},
	{"tortilla", "tortilla corn"},
	{"tortilla de harina", "tortilla flour"},
	{"papa", "potato boiled"},
	{"patata", "potato boiled"},
	{"papas fritas", "french fries"},
	{"camote", "sweet potato cooked"},
	{"avena", "oats cooked"},
	{"quinoa", "quinoa cooked"},
	{"cereal", "breakfast cereal"},
	// Vegetables
	{"lechuga", "lettuce raw"},
	{"tomate", "tomato raw"},
	{"zanahoria", "carrot raw"},
	{"brocoli", "broccoli cooked"},
	{"espinaca", "spinach raw"},
	{"pepino", "cucumber raw"},
	{"cebolla", "onion raw"},
	{"pimiento", "bell pepper raw"},
	{"calabacin", "zucchini cooked"},
	{"col", "cabbage raw"},
	{"ensalada", "mixed salad greens raw"},
	{"verduras", "mixed vegetables cooked"},
	// Fruits
	{"manzana", "apple raw"},
	{"platano", "banana raw"},
	{"naranja", "orange raw"},
	{"fresa", "strawberries raw"},
	{"uvas", "grapes raw"},
	{"sandia", "watermelon raw"},
	{"pina", "pineapple raw"},
	{"mango", "mango raw"},
	{"papaya", "papaya raw"},
	// Dairy
	{"leche", "milk whole"},
	{"leche descremada", "milk skim"},
	{"leche de almendras", "almond milk unsweetened"},
	{"leche de soya", "soy milk unsweetened"},
	{"leche de soja", "soy milk unsweetened"},
	{"leche de avena", "oat milk"},
	{"leche de coco", "coconut milk beverage"},
	{"yogur", "yogurt plain"},
	{"queso", "cheese cheddar"},
	{"queso fresco", "queso fresco"},
	// Fats
	{"aguacate", "avocado raw"},
	{"aceite de oliva", "olive oil"},
	{"mantequilla", "butter salted"},
	{"nueces", "walnuts"},
	{"almendras", "almonds"},
	{"cacahuate", "peanuts"},
	{"miel", "honey"},
	// Legumes
	{"frijoles", "black beans cooked"},
	{"lentejas", "lentils cooked"},
	{"garbanzos", "chickpeas cooked"},
}

// cookedTokens are foods that are usually eaten cooked.
var cookedTokens = []string{
	"rice", "chicken", "meat", "fish", "pasta", "potato", "turkey", "pork",
	"beans", "lentils", "vegetable", "broccoli",
	"arroz", "pollo", "carne", "pescado", "papa", "patata", "pavo", "cerdo",
	"frijol", "lenteja", "verdura", "brocoli",
}

// stateMarkers mean the name already says how the food was prepared.
var stateMarkers = []string{
	"cooked", "raw", "boiled", "grilled", "fried", "baked", "roasted", "steamed",
	"cocido", "cocida", "crudo", "cruda", "hervido", "hervida", "frito", "frita",
	"horneado", "horneada", "asado", "asada", "plancha", "vapor",
}

// stopwords never anchor a partial match on their own.
var stopwords = map[string]bool{
	"de": true, "del": true, "con": true, "y": true, "e": true, "el": true,
	"la": true, "los": true, "las": true, "al": true, "a": true, "en": true,
	"un": true, "una": true, "sin": true, "of": true, "with": true, "and": true,
}

// Dictionary resolves food names to database search terms.
type Dictionary struct {
	exact map[string]string
	// byLength holds rules longest key first, table order within a length.
	byLength []Rule
}

// NewDictionary indexes rules. Keys are normalized; the first rule for a
// duplicated key wins.
func NewDictionary(rules []Rule) *Dictionary {
	d := &Dictionary{exact: make(map[string]string, len(rules))}
	for _, r := range rules {
		key := Normalize(r.Key)
		if key == "" {
			continue
		}
		if _, dup := d.exact[key]; dup {
			continue
		}
		d.exact[key] = r.Term
		d.byLength = append(d.byLength, Rule{Key: key, Term: r.Term})
	}
	sort.SliceStable(d.byLength, func(i, j int) bool {
		return len(d.byLength[i].Key) > len(d.byLength[j].Key)
	})
	return d
}

// SearchTerm returns the term to query the database with and how it was found.
func (d *Dictionary) SearchTerm(name string) (string, MatchKind) {
	normalized := Normalize(name)
	if term, ok := d.exact[normalized]; ok {
		return term, MatchExact
	}
	if term, ok := d.partial(normalized); ok {
		return term, MatchPartial
	}
	if needsCookedSuffix(normalized) {
		return strings.TrimSpace(name) + " cooked", MatchCookedHint
	}
	return strings.TrimSpace(name), MatchPassThrough
}

// partial matches a key appearing as whole words in the input. The key that
// starts earliest wins, since Spanish dish names lead with the head noun
// ("leche de almendras", "arroz con pollo"); at the same position the longest
// key wins. Failing that, an input appearing as whole words inside a key
// matches, unless the input is only stopwords.
func (d *Dictionary) partial(input string) (string, bool) {
	words := strings.Fields(input)
	if !hasContentWord(words) {
		return "", false
	}
	best, bestPos := "", -1
	for _, r := range d.byLength {
		pos := phraseIndex(words, strings.Fields(r.Key))
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos {
			best, bestPos = r.Term, pos
		}
	}
	if bestPos >= 0 {
		return best, true
	}
	for _, r := range d.byLength {
		if containsPhrase(strings.Fields(r.Key), words) {
			return r.Term, true
		}
	}
	return "", false
}

func hasContentWord(words []string) bool {
	for _, w := range words {
		if !stopwords[w] {
			return true
		}
	}
	return false
}

func needsCookedSuffix(normalized string) bool {
	words := strings.Fields(normalized)
	if hasAnyToken(words, stateMarkers) {
		return false
	}
	return hasAnyToken(words, cookedTokens)
}

// containsPhrase reports whether needle occurs as a contiguous run of words
// in haystack, allowing plural s/es on either side.
func containsPhrase(haystack, needle []string) bool {
	return phraseIndex(haystack, needle) >= 0
}

// phraseIndex is the word offset of the first occurrence of needle in
// haystack, or -1.
func phraseIndex(haystack, needle []string) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, w := range needle {
			if !sameWord(haystack[i+j], w) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

func sameWord(a, b string) bool {
	return a == b || a == b+"s" || a == b+"es" || b == a+"s" || b == a+"es"
}

// hasAnyToken matches single or multi-word keywords against words.
func hasAnyToken(words []string, keywords []string) bool {
	for _, kw := range keywords {
		if containsPhrase(words, strings.Fields(kw)) {
			return true
		}
	}
	return false
}

// Normalize lowercases, strips accents and collapses punctuation and
// whitespace, so "Plátano  Maduro," becomes "platano maduro".
func Normalize(s string) string {
	// transform.Chain keeps state, so each call builds its own.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	fields := strings.FieldsFunc(stripped, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
