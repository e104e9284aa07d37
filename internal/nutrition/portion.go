package nutrition

import (
	"regexp"
	"strconv"
	"strings"
)

// Longer unit spellings come first; RE2 alternation is leftmost-first.
var gramsPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:gramos|gramo|grams|gram|grs|gr|g)\b`)

// thousandsPattern is a comma followed by exactly three digits, as in "1,500".
var thousandsPattern = regexp.MustCompile(`^\d{1,3},\d{3}$`)

// ParsePortionGrams returns the first gram quantity in s ("150g", "1,5 g",
// "150 gramos", "1,500 gr"), or def when there is none. An explicit zero
// stays zero.
func ParsePortionGrams(s string, def float64) float64 {
	m := gramsPattern.FindStringSubmatch(s)
	if m == nil {
		return def
	}
	num := m[1]
	if thousandsPattern.MatchString(num) {
		num = strings.Replace(num, ",", "", 1)
	} else {
		num = strings.Replace(num, ",", ".", 1)
	}
	grams, err := strconv.ParseFloat(num, 64)
	if err != nil || grams < 0 {
		return def
	}
	return grams
}
