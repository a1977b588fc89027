package usecase

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// QuantityKind tags how a leading quantity token was written
type QuantityKind int

const (
	QuantityUnknown QuantityKind = iota
	QuantityExact                // "2", "1.5", "1/2"
	QuantityMixed                // "1 1/2"
	QuantityRange                // "2-3", "2 to 3"
	QuantityVague                // "a pinch of", "to taste"
)

// Quantity is the tokenizer's view of a quantity. It is resolved to a single
// canonical float with Value.
type Quantity struct {
	Kind  QuantityKind
	Exact float64
	Whole float64
	Frac  float64
	Low   float64
	High  float64
	// Unmeasured is set for vague amounts that name no count ("a pinch of",
	// "to taste"), as opposed to the article in "an egg"
	Unmeasured bool
}

// Value resolves the quantity to its canonical number: ranges take the lower
// bound, vague amounts count as one, unknown is zero.
func (q Quantity) Value() float64 {
	switch q.Kind {
	case QuantityExact:
		return round2(q.Exact)
	case QuantityMixed:
		return round2(q.Whole + q.Frac)
	case QuantityRange:
		return round2(q.Low)
	case QuantityVague:
		return 1
	default:
		return 0
	}
}

// Corrected reports whether resolving the quantity discarded information
func (q Quantity) Corrected() bool {
	return q.Kind == QuantityRange || q.Kind == QuantityVague
}

const quantityAtom = `\d+\s+\d+/\d+|\d+/\d+|\d+(?:\.\d+)?|\.\d+`

var (
	rangeQuantityRegex  = regexp.MustCompile(`^(` + quantityAtom + `)\s*(?:-|–|—|\bto\b|\bor\b)\s*(` + quantityAtom + `)`)
	singleQuantityRegex = regexp.MustCompile(`^(` + quantityAtom + `)`)
	mixedNumberRegex    = regexp.MustCompile(`^(\d+)\s+(\d+)/(\d+)$`)
	// "1-1/2" is the US way of writing one and a half
	hyphenMixedRegex = regexp.MustCompile(`^(\d+)-(\d+)/(\d+)`)
)

// leading phrases that stand for an amount nobody measured
var vaguePrefixes = []string{
	"a pinch of ", "pinch of ", "a dash of ", "dash of ",
	"a handful of ", "handful of ", "a splash of ", "splash of ",
	"some ",
}

// articles imply "one of something" without a number
var articlePrefixes = []string{"a ", "an "}

var vagueSuffixes = []string{" to taste", " as needed", " for serving", " for garnish"}

// parseQuantity reads a leading quantity from s and returns the remainder.
// When s has no leading number the result has kind QuantityUnknown and rest
// equals s.
func parseQuantity(s string) (Quantity, string) {
	if m := hyphenMixedRegex.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		if frac, ok := parseFraction(m[2], m[3]); ok && frac < 1 {
			return Quantity{Kind: QuantityMixed, Whole: whole, Frac: frac}, strings.TrimSpace(s[len(m[0]):])
		}
	}

	if m := rangeQuantityRegex.FindStringSubmatch(s); m != nil {
		low, okLow := parseAtom(m[1])
		high, okHigh := parseAtom(m[2])
		if okLow && okHigh {
			if high < low {
				low, high = high, low
			}
			return Quantity{Kind: QuantityRange, Low: low, High: high}, strings.TrimSpace(s[len(m[0]):])
		}
	}

	if m := singleQuantityRegex.FindStringSubmatch(s); m != nil {
		rest := strings.TrimSpace(s[len(m[0]):])
		if mm := mixedNumberRegex.FindStringSubmatch(m[1]); mm != nil {
			whole, _ := strconv.ParseFloat(mm[1], 64)
			frac, ok := parseFraction(mm[2], mm[3])
			if ok {
				return Quantity{Kind: QuantityMixed, Whole: whole, Frac: frac}, rest
			}
		}
		if v, ok := parseAtom(m[1]); ok {
			return Quantity{Kind: QuantityExact, Exact: v}, rest
		}
	}

	return Quantity{Kind: QuantityUnknown}, s
}

// parseVague recognises "a pinch of salt" and "salt to taste"
func parseVague(s string) (Quantity, string, bool) {
	lower := strings.ToLower(s)
	for _, prefix := range vaguePrefixes {
		if strings.HasPrefix(lower, prefix) && len(s) > len(prefix) {
			return Quantity{Kind: QuantityVague, Unmeasured: true}, strings.TrimSpace(s[len(prefix):]), true
		}
	}
	for _, suffix := range vagueSuffixes {
		if strings.HasSuffix(lower, suffix) && len(s) > len(suffix) {
			return Quantity{Kind: QuantityVague, Unmeasured: true}, strings.TrimSpace(s[:len(s)-len(suffix)]), true
		}
	}
	for _, prefix := range articlePrefixes {
		if strings.HasPrefix(lower, prefix) && len(s) > len(prefix) {
			return Quantity{Kind: QuantityVague}, strings.TrimSpace(s[len(prefix):]), true
		}
	}
	return Quantity{Kind: QuantityUnknown}, s, false
}

func parseAtom(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if m := mixedNumberRegex.FindStringSubmatch(s); m != nil {
		whole, _ := strconv.ParseFloat(m[1], 64)
		frac, ok := parseFraction(m[2], m[3])
		return whole + frac, ok
	}
	if num, den, found := strings.Cut(s, "/"); found {
		return parseFraction(num, den)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFraction(num, den string) (float64, bool) {
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, false
	}
	return n / d, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
