package usecase

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fractionSlash is U+2044, what NFKC turns vulgar fraction glyphs into ("½" -> "1⁄2")
const fractionSlash = '⁄'

// bullet and list glyphs scraped along with ingredient lines
const bulletGlyphs = "▢□•◦▪●○■·*-–—✓✔"

// ParsedLine is the tokenizer's output for one raw ingredient line
type ParsedLine struct {
	Quantity     Quantity
	RawUnit      string
	Unit         string
	RawName      string
	Name         string
	OriginalText string
	// Parsed is false when the line degraded to a pass-through
	Parsed bool
	// WasNormalized is true when quantity, unit or name needed correction
	WasNormalized bool
}

// IngredientParser turns one raw ingredient line into quantity, unit and name
type IngredientParser struct {
	names *NameNormalizer
}

// NewIngredientParser creates a new ingredient parser
func NewIngredientParser(names *NameNormalizer) *IngredientParser {
	if names == nil {
		names = NewNameNormalizer()
	}
	return &IngredientParser{names: names}
}

// Parse never fails: a line it cannot make sense of comes back with quantity
// zero, no unit, and the original text as the name.
func (p *IngredientParser) Parse(line string) ParsedLine {
	result := ParsedLine{OriginalText: line}
	text := cleanLine(line)

	quantity, rest := parseQuantity(text)
	corrected := false
	unit := ""

	if quantity.Kind != QuantityUnknown {
		rawUnit, afterUnit, ok := matchUnitPrefix(rest)
		if !ok {
			// "1 (14 oz) can tomatoes": the unit follows a package size note
			if strings.HasPrefix(rest, "(") {
				if end := strings.Index(rest, ")"); end > 0 {
					rawUnit, afterUnit, ok = matchUnitPrefix(strings.TrimSpace(rest[end+1:]))
				}
			}
		}
		if ok {
			result.RawUnit = rawUnit
			rest = afterUnit
		}

		// Dual measurement "50g/3 tbsp": the second one is the practical one
		if strings.HasPrefix(rest, "/") {
			if q2, afterQ2 := parseQuantity(strings.TrimSpace(rest[1:])); q2.Kind != QuantityUnknown {
				if rawUnit2, afterUnit2, ok2 := matchUnitPrefix(afterQ2); ok2 {
					quantity, result.RawUnit, rest = q2, rawUnit2, afterUnit2
					corrected = true
				}
			}
		}
	} else if vague, afterVague, ok := parseVague(rest); ok {
		quantity, rest = vague, afterVague
	}

	if result.RawUnit != "" {
		var renamed bool
		unit, renamed = NormalizeUnit(result.RawUnit)
		corrected = corrected || renamed
	}

	rawName := strings.TrimSpace(strings.TrimLeft(rest, " .,;:-–/"))
	if !hasLetter(rawName) {
		// No usable name boundary: pass the line through untouched
		result.Name = line
		return result
	}

	name, renamedName := p.names.Normalize(rawName)
	if quantity.Kind == QuantityUnknown {
		// A bare name ("Salt") still counts as one of it
		quantity = Quantity{Kind: QuantityExact, Exact: 1}
	}

	result.Quantity = quantity
	result.Unit = unit
	result.RawName = rawName
	result.Name = name
	result.Parsed = true
	result.WasNormalized = corrected || renamedName || quantity.Corrected()
	return result
}

// cleanLine strips bullets and folds unicode number forms into ASCII so the
// quantity grammar only has to deal with digits, dots and slashes.
func cleanLine(line string) string {
	line = strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || strings.ContainsRune(bulletGlyphs, r)
	})

	var b strings.Builder
	b.Grow(len(line) + 8)
	for _, r := range line {
		if unicode.Is(unicode.No, r) {
			if folded := norm.NFKC.String(string(r)); strings.ContainsRune(folded, fractionSlash) {
				// Pad so "1½" reads as the mixed number "1 1/2"
				b.WriteByte(' ')
				b.WriteString(strings.ReplaceAll(folded, string(fractionSlash), "/"))
				b.WriteByte(' ')
				continue
			}
		}
		b.WriteRune(r)
	}

	// NBSP, full-width digits, typed fraction slashes and similar
	cleaned := norm.NFKC.String(b.String())
	cleaned = strings.ReplaceAll(cleaned, string(fractionSlash), "/")
	return strings.Join(strings.Fields(cleaned), " ")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
