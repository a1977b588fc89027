package usecase

import (
	"sort"
	"strings"
)

// DefaultDensities is the built-in grams-per-cup table keyed by ingredient keyword
var DefaultDensities = map[string]float64{
	"flour":             120,
	"bread flour":       127,
	"whole wheat flour": 113,
	"cornstarch":        128,
	"cocoa":             85,
	"oats":              90,
	"rice":              185,
	"sugar":             200,
	"brown sugar":       213,
	"powdered sugar":    120,
	"honey":             340,
	"maple syrup":       315,
	"butter":            227,
	"oil":               218,
	"shortening":        205,
	"lard":              205,
	"cheese":            113,
	"cream cheese":      232,
	"water":             236,
	"milk":              236,
	"buttermilk":        245,
	"cream":             238,
	"stock":             236,
	"broth":             236,
	"wine":              236,
	"beer":              236,
	"juice":             248,
	"egg":               243,
	"yogurt":            245,
	"salt":              292,
	"baking soda":       220,
	"baking powder":     192,
	"yeast":             150,
	"vanilla":           208,
	"chocolate chips":   170,
}

// DefaultUnitMasses is the average grams of one count unit
var DefaultUnitMasses = map[string]float64{
	UnitClove:   5,
	UnitStick:   113,
	UnitHead:    500,
	UnitCan:     400,
	UnitPackage: 225,
}

// DefaultItemMasses is the average grams of one whole item counted without a unit
var DefaultItemMasses = map[string]float64{
	"egg":          50,
	"egg yolk":     17,
	"egg white":    33,
	"garlic clove": 5,
	"clove":        5,
	"banana":       120,
	"onion":        150,
	"lemon":        100,
	"potato":       200,
	"carrot":       60,
	"tomato":       120,
}

type weightedKeyword struct {
	phrase keywordPhrase
	grams  float64
}

// KeywordDensityTable resolves names to densities by the most specific
// keyword phrase they contain ("brown sugar" beats "sugar"). It is read-only
// after construction and safe for concurrent use.
type KeywordDensityTable struct {
	densities  []weightedKeyword
	items      []weightedKeyword
	unitMasses map[string]float64
}

// DefaultDensityTable builds a table from the built-in data
func DefaultDensityTable() *KeywordDensityTable {
	return NewDensityTable(DefaultDensities, DefaultUnitMasses, DefaultItemMasses)
}

// NewDensityTable builds a table from explicit data, so tests and config can
// substitute their own figures
func NewDensityTable(densities, unitMasses, itemMasses map[string]float64) *KeywordDensityTable {
	units := make(map[string]float64, len(unitMasses))
	for unit, grams := range unitMasses {
		canonical, _ := NormalizeUnit(unit)
		units[canonical] = grams
	}
	return &KeywordDensityTable{
		densities:  buildKeywords(densities),
		items:      buildKeywords(itemMasses),
		unitMasses: units,
	}
}

// WithOverrides returns a copy whose densities are replaced or extended by overrides
func (t *KeywordDensityTable) WithOverrides(overrides map[string]float64) *KeywordDensityTable {
	if len(overrides) == 0 {
		return t
	}
	merged := make(map[string]float64, len(t.densities)+len(overrides))
	for _, kw := range t.densities {
		merged[kw.phrase.text] = kw.grams
	}
	for keyword, grams := range overrides {
		merged[strings.ToLower(strings.TrimSpace(keyword))] = grams
	}
	return &KeywordDensityTable{
		densities:  buildKeywords(merged),
		items:      t.items,
		unitMasses: t.unitMasses,
	}
}

// GramsPerCup implements domain.DensityTable
func (t *KeywordDensityTable) GramsPerCup(name string) (float64, bool) {
	return lookupKeyword(t.densities, name)
}

// UnitMass implements domain.DensityTable
func (t *KeywordDensityTable) UnitMass(name, unit string) (float64, bool) {
	canonical, _ := NormalizeUnit(unit)
	if canonical == UnitNone {
		return lookupKeyword(t.items, name)
	}
	grams, ok := t.unitMasses[canonical]
	return grams, ok
}

// buildKeywords orders keywords most specific first: more words, then longer
// text, then alphabetical so lookups never depend on map iteration order.
func buildKeywords(table map[string]float64) []weightedKeyword {
	keywords := make([]weightedKeyword, 0, len(table))
	for text, grams := range table {
		phrase := newKeywordPhrase(strings.ToLower(text))
		if len(phrase.tokens) == 0 {
			continue
		}
		keywords = append(keywords, weightedKeyword{phrase: phrase, grams: grams})
	}
	sort.Slice(keywords, func(i, j int) bool {
		a, b := keywords[i].phrase, keywords[j].phrase
		if len(a.tokens) != len(b.tokens) {
			return len(a.tokens) > len(b.tokens)
		}
		if len(a.text) != len(b.text) {
			return len(a.text) > len(b.text)
		}
		return a.text < b.text
	})
	return keywords
}

func lookupKeyword(keywords []weightedKeyword, name string) (float64, bool) {
	tokens := tokenize(name)
	if len(tokens) == 0 {
		return 0, false
	}
	for _, kw := range keywords {
		if kw.phrase.matchIn(tokens, false) {
			return kw.grams, true
		}
	}
	return 0, false
}
