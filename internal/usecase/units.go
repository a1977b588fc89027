package usecase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// Canonical unit tokens
const (
	UnitCup     = "cup"
	UnitTbls    = "tbls"
	UnitTsps    = "tsps"
	UnitML      = "ml"
	UnitLiter   = "l"
	UnitFlOz    = "fl oz"
	UnitGram    = "g"
	UnitKilo    = "kg"
	UnitOunce   = "oz"
	UnitPound   = "lb"
	UnitClove   = "clove"
	UnitHead    = "head"
	UnitStick   = "stick"
	UnitPackage = "package"
	UnitCan     = "can"
	UnitNone    = ""
)

type unitDef struct {
	kind domain.UnitKind
	// toBase is ml for volume units and grams for mass units
	toBase float64
}

var unitTable = map[string]unitDef{
	// volume (base = ml)
	UnitCup:   {kind: domain.UnitKindVolume, toBase: 236.5882365},
	UnitTbls:  {kind: domain.UnitKindVolume, toBase: 14.78676478125},
	UnitTsps:  {kind: domain.UnitKindVolume, toBase: 4.92892159375},
	UnitML:    {kind: domain.UnitKindVolume, toBase: 1},
	UnitLiter: {kind: domain.UnitKindVolume, toBase: 1000},
	UnitFlOz:  {kind: domain.UnitKindVolume, toBase: 29.5735295625},

	// mass (base = g)
	UnitGram:  {kind: domain.UnitKindMass, toBase: 1},
	UnitKilo:  {kind: domain.UnitKindMass, toBase: 1000},
	UnitOunce: {kind: domain.UnitKindMass, toBase: 28.349523125},
	UnitPound: {kind: domain.UnitKindMass, toBase: 453.59237},

	// count
	UnitClove:   {kind: domain.UnitKindCount},
	UnitHead:    {kind: domain.UnitKindCount},
	UnitStick:   {kind: domain.UnitKindCount},
	UnitPackage: {kind: domain.UnitKindCount},
	UnitCan:     {kind: domain.UnitKindCount},
	UnitNone:    {kind: domain.UnitKindCount},
}

// unitAlias maps a spelling to its canonical unit. renamed marks mappings that
// replace the cook's unit word with a house abbreviation (tablespoon -> tbls)
// as opposed to plain plural or abbreviation folding (cups -> cup).
type unitAlias struct {
	canonical string
	renamed   bool
}

var unitAliases = map[string]unitAlias{
	"cup": {UnitCup, false}, "cups": {UnitCup, false}, "c": {UnitCup, false},

	"tablespoon": {UnitTbls, true}, "tablespoons": {UnitTbls, true},
	"tbsp": {UnitTbls, true}, "tbsps": {UnitTbls, true}, "tbs": {UnitTbls, true},
	"tbl": {UnitTbls, true}, "tbls": {UnitTbls, false},

	"teaspoon": {UnitTsps, true}, "teaspoons": {UnitTsps, true},
	"tsp": {UnitTsps, true}, "tsps": {UnitTsps, false},

	"ml": {UnitML, false}, "milliliter": {UnitML, false}, "milliliters": {UnitML, false},
	"millilitre": {UnitML, false}, "millilitres": {UnitML, false},
	"l": {UnitLiter, false}, "liter": {UnitLiter, false}, "liters": {UnitLiter, false},
	"litre": {UnitLiter, false}, "litres": {UnitLiter, false},
	"fl oz": {UnitFlOz, false}, "fluid ounce": {UnitFlOz, false}, "fluid ounces": {UnitFlOz, false},

	"g": {UnitGram, false}, "gram": {UnitGram, false}, "grams": {UnitGram, false},
	"kg": {UnitKilo, false}, "kilogram": {UnitKilo, false}, "kilograms": {UnitKilo, false},
	"oz": {UnitOunce, false}, "ounce": {UnitOunce, false}, "ounces": {UnitOunce, false},
	"lb": {UnitPound, false}, "lbs": {UnitPound, false}, "pound": {UnitPound, false}, "pounds": {UnitPound, false},

	"clove": {UnitClove, false}, "cloves": {UnitClove, false},
	"head": {UnitHead, false}, "heads": {UnitHead, false},
	"stick": {UnitStick, false}, "sticks": {UnitStick, false},
	"package": {UnitPackage, false}, "packages": {UnitPackage, false}, "pkg": {UnitPackage, false},
	"can": {UnitCan, false}, "cans": {UnitCan, false},
}

// unitSpellings is every alias ordered longest first so that "grams" is tried
// before "g" when scanning text.
var unitSpellings = func() []string {
	spellings := make([]string, 0, len(unitAliases))
	for alias := range unitAliases {
		spellings = append(spellings, alias)
	}
	sort.Slice(spellings, func(i, j int) bool {
		if len(spellings[i]) != len(spellings[j]) {
			return len(spellings[i]) > len(spellings[j])
		}
		return spellings[i] < spellings[j]
	})
	return spellings
}()

// cleanUnitToken lowercases, trims, collapses inner spaces and drops trailing
// dots ("Tbsp." -> "tbsp", "Tbsp ." -> "tbsp"). It is idempotent.
func cleanUnitToken(token string) string {
	token = strings.Join(strings.Fields(strings.ToLower(token)), " ")
	return strings.TrimRight(token, ". ")
}

// NormalizeUnit maps a raw unit token to its canonical form. Matching is
// case- and plural-insensitive. Unknown tokens come back cleaned but otherwise
// unchanged. renamed is true when the token was replaced by a different unit
// word. Normalizing a canonical unit returns it unchanged.
func NormalizeUnit(token string) (canonical string, renamed bool) {
	cleaned := cleanUnitToken(token)
	if alias, ok := unitAliases[cleaned]; ok {
		return alias.canonical, alias.renamed
	}
	return cleaned, false
}

// UnitKindOf returns the dimension of a unit and whether the unit is known.
// Unknown units are treated as counts.
func UnitKindOf(unit string) (domain.UnitKind, bool) {
	canonical, _ := NormalizeUnit(unit)
	def, ok := unitTable[canonical]
	if !ok {
		return domain.UnitKindCount, false
	}
	return def.kind, true
}

// matchUnitPrefix finds a unit spelling at the start of s. The spelling must
// end on a word boundary so "garlic" is not read as "g" + "arlic".
func matchUnitPrefix(s string) (raw, rest string, ok bool) {
	for _, spelling := range unitSpellings {
		if len(s) < len(spelling) || !strings.EqualFold(s[:len(spelling)], spelling) {
			continue
		}
		tail := s[len(spelling):]
		tail = strings.TrimPrefix(tail, ".")
		if next, _ := utf8.DecodeRuneInString(tail); tail != "" && (unicode.IsLetter(next) || unicode.IsDigit(next)) {
			continue
		}
		return s[:len(spelling)], strings.TrimSpace(tail), true
	}
	return "", s, false
}
