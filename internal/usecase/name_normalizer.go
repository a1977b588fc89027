package usecase

import (
	"regexp"
	"sort"
	"strings"
)

// Compiled regex patterns for name cleanup
var (
	// Matches "(optional)", "(240 ml)", and an unclosed "(" through end of line
	parentheticalPattern = regexp.MustCompile(`\([^)]*\)|\(.*$`)

	// Matches trailing notes that never change what the ingredient is
	trailingNotePattern = regexp.MustCompile(`\s*\b(optional|divided|plus more.*|plus extra.*|or more|for serving|for garnish|for dusting|to taste|as needed|at room temperature|room temperature)$`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

var namePrefixes = []string{"of ", "the ", "a ", "an "}

// preparationWords describe state or size, not identity
var preparationWords = map[string]bool{
	"chopped": true, "minced": true, "diced": true, "sliced": true, "grated": true,
	"shredded": true, "melted": true, "softened": true, "sifted": true, "packed": true,
	"beaten": true, "crushed": true, "cubed": true, "peeled": true, "halved": true,
	"finely": true, "roughly": true, "coarsely": true, "thinly": true, "lightly": true,
	"freshly": true, "fresh": true, "cold": true, "warm": true, "lukewarm": true,
	"large": true, "small": true, "medium": true, "jumbo": true, "extra-large": true,
	"heaping": true, "level": true, "scant": true, "about": true, "approximately": true,
}

// compoundNames maps a trailing phrase to the canonical name of the whole
// ingredient. Varieties that behave differently in a recipe (brown vs white
// sugar, salted vs unsalted butter) keep their own names.
var compoundNames = map[string]string{
	"extra virgin olive oil":     "olive oil",
	"extra-virgin olive oil":     "olive oil",
	"olive oil":                  "olive oil",
	"all purpose flour":          "flour",
	"all-purpose flour":          "flour",
	"plain flour":                "flour",
	"unbleached flour":           "flour",
	"white sugar":                "white sugar",
	"granulated sugar":           "white sugar",
	"caster sugar":               "white sugar",
	"cane sugar":                 "cane sugar",
	"brown sugar":                "brown sugar",
	"light brown sugar":          "light brown sugar",
	"dark brown sugar":           "dark brown sugar",
	"confectioners sugar":        "powdered sugar",
	"confectioners' sugar":       "powdered sugar",
	"icing sugar":                "powdered sugar",
	"powdered sugar":             "powdered sugar",
	"coconut sugar":              "coconut sugar",
	"salted butter":              "salted butter",
	"unsalted butter":            "unsalted butter",
	"sea salt":                   "salt",
	"kosher salt":                "salt",
	"table salt":                 "salt",
	"flaky sea salt":             "salt",
	"fine sea salt":              "salt",
	"black pepper":               "pepper",
	"ground black pepper":        "pepper",
	"active dry yeast":           "yeast",
	"instant yeast":              "yeast",
	"vanilla extract":            "vanilla",
	"pure vanilla extract":       "vanilla",
	"garlic powder":              "garlic",
	"smoked paprika":             "paprika",
	"parmesan cheese":            "cheese",
	"whole milk":                 "milk",
	"heavy whipping cream":       "heavy cream",
	"jumbo shrimp":               "shrimp",
	"whole corn cobs":            "corn",
	"corn cobs":                  "corn",
	"italian seasoning":          "seasoning",
	"chocolate chunks":           "chocolate chips",
	"semi-sweet chocolate chips": "chocolate chips",
}

// singularNames folds plural head nouns of common whole ingredients
var singularNames = map[string]string{
	"eggs": "egg", "yolks": "yolk", "whites": "white", "bananas": "banana",
	"lemons": "lemon", "limes": "lime", "onions": "onion", "carrots": "carrot",
	"potatoes": "potato", "tomatoes": "tomato", "apples": "apple",
}

// compoundOrder is compoundNames' keys, longest first
var compoundOrder = func() []string {
	keys := make([]string, 0, len(compoundNames))
	for k := range compoundNames {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// NameNormalizer reduces free-form ingredient names to a canonical lowercase
// form used for matching, density lookup and display
type NameNormalizer struct{}

// NewNameNormalizer creates a name normalizer
func NewNameNormalizer() *NameNormalizer {
	return &NameNormalizer{}
}

// Normalize returns the canonical name and whether it differs from the raw
// name by more than case and whitespace
func (n *NameNormalizer) Normalize(raw string) (string, bool) {
	baseline := collapseSpaces(strings.ToLower(raw))
	if baseline == "" {
		return "", false
	}

	cleaned := parentheticalPattern.ReplaceAllString(baseline, " ")

	// Text after the first comma is preparation ("butter, softened")
	if idx := strings.Index(cleaned, ","); idx > 0 {
		cleaned = cleaned[:idx]
	}

	cleaned = collapseSpaces(cleaned)
	cleaned = strings.Trim(cleaned, " -–.;:/*")
	cleaned = stripPrefixes(cleaned)
	cleaned = trailingNotePattern.ReplaceAllString(cleaned, "")
	cleaned = removePreparationWords(cleaned)
	cleaned = stripPrefixes(cleaned)
	cleaned = strings.Trim(cleaned, " -–.;:/*")

	if cleaned == "" {
		return baseline, false
	}

	cleaned = canonicalCompound(cleaned)
	cleaned = singularHead(cleaned)

	// Dropping "of" or folding a plural is not a correction
	plain := stripPrefixes(baseline)
	return cleaned, cleaned != plain && cleaned != singularHead(plain)
}

func stripPrefixes(s string) string {
	for changed := true; changed; {
		changed = false
		for _, prefix := range namePrefixes {
			if strings.HasPrefix(s, prefix) && len(s) > len(prefix) {
				s = strings.TrimSpace(s[len(prefix):])
				changed = true
			}
		}
	}
	return s
}

func removePreparationWords(s string) string {
	words := strings.Fields(s)
	kept := words[:0]
	for _, word := range words {
		if !preparationWords[strings.Trim(word, ",.;:")] {
			kept = append(kept, word)
		}
	}
	return strings.Join(kept, " ")
}

// canonicalCompound replaces the whole name when it ends with a known
// compound ("unbleached all-purpose flour" -> "flour"). Only trailing phrases
// count so "whole milk ricotta" stays ricotta.
func canonicalCompound(s string) string {
	padded := " " + s
	for _, compound := range compoundOrder {
		if strings.HasSuffix(padded, " "+compound) {
			return compoundNames[compound]
		}
	}
	return s
}

func singularHead(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	last := len(words) - 1
	if singular, ok := singularNames[words[last]]; ok {
		words[last] = singular
	}
	return strings.Join(words, " ")
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(s, " "))
}
