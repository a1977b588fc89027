package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

const (
	DefaultMinGrams = 20.0
	DefaultMaxDigit = 9

	// deviations closer than this are the same deviation
	deviationEpsilon = 1e-9
)

// RatioConfig holds the ratio search parameters
type RatioConfig struct {
	// MinGrams is the smallest mass that lets an ingredient count
	MinGrams float64
	// MaxDigit bounds every integer in the ratio
	MaxDigit int
	// Tolerance widens what counts as a tie with the best deviation
	Tolerance float64
}

// DefaultRatioConfig returns the standard 20 g / single-digit settings
func DefaultRatioConfig() RatioConfig {
	return RatioConfig{MinGrams: DefaultMinGrams, MaxDigit: DefaultMaxDigit}
}

// RatioEngine reduces category gram totals to a small memorable integer ratio
type RatioEngine struct {
	cfg RatioConfig
}

// NewRatioEngine creates a ratio engine, filling zero config values with defaults
func NewRatioEngine(cfg RatioConfig) *RatioEngine {
	if cfg.MinGrams <= 0 {
		cfg.MinGrams = DefaultMinGrams
	}
	if cfg.MaxDigit <= 0 || cfg.MaxDigit > DefaultMaxDigit {
		cfg.MaxDigit = DefaultMaxDigit
	}
	if cfg.Tolerance < 0 {
		cfg.Tolerance = 0
	}
	return &RatioEngine{cfg: cfg}
}

// Compute returns ErrEmptyInput when the list carries no mass at all and
// ErrRatioUnavailable when fewer than two categories qualify.
func (e *RatioEngine) Compute(ingredients []domain.Ingredient) (*domain.RatioResult, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredients", domain.ErrEmptyInput)
	}

	var total float64
	totals := make(map[domain.Category]float64, len(domain.RatioCategories))
	for _, ing := range ingredients {
		if ing.Grams <= 0 {
			continue
		}
		total += ing.Grams
		if ing.Category.IsRatioCategory() && ing.Grams >= e.cfg.MinGrams {
			totals[ing.Category] += ing.Grams
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: no ingredient has a usable mass", domain.ErrEmptyInput)
	}

	result := &domain.RatioResult{}
	var qualifying float64
	for _, category := range domain.RatioCategories {
		if grams := totals[category]; grams > 0 {
			result.Categories = append(result.Categories, category)
			result.Grams = append(result.Grams, round2(grams))
			qualifying += grams
		}
	}
	if len(result.Categories) < 2 {
		return nil, fmt.Errorf("%w: %d qualifying categories", domain.ErrRatioUnavailable, len(result.Categories))
	}

	shares := make([]float64, len(result.Categories))
	for i, category := range result.Categories {
		shares[i] = totals[category] / qualifying
	}

	result.Ratio = e.search(shares)
	result.RatioString = formatRatio(result.Ratio)
	return result, nil
}

// search enumerates every tuple of digits 1..MaxDigit with gcd 1. The first
// pass finds the smallest achievable maximum share deviation. The second pass
// picks, among tuples within epsilon of it, the smallest sum and then the
// lexicographically smallest tuple.
func (e *RatioEngine) search(shares []float64) []int {
	best := math.Inf(1)
	e.enumerate(len(shares), func(tuple []int) {
		if dev := maxDeviation(tuple, shares); dev < best {
			best = dev
		}
	})

	limit := best + deviationEpsilon + e.cfg.Tolerance
	var chosen []int
	chosenSum := 0
	e.enumerate(len(shares), func(tuple []int) {
		if maxDeviation(tuple, shares) > limit {
			return
		}
		sum := sumInts(tuple)
		if chosen == nil || sum < chosenSum || (sum == chosenSum && lessTuple(tuple, chosen)) {
			chosen = append(chosen[:0], tuple...)
			chosenSum = sum
		}
	})
	return chosen
}

// enumerate calls visit for each reduced tuple in lexicographic order. The
// tuple is reused between calls.
func (e *RatioEngine) enumerate(n int, visit func([]int)) {
	tuple := make([]int, n)
	var walk func(pos int)
	walk = func(pos int) {
		if pos == n {
			if gcdAll(tuple) == 1 {
				visit(tuple)
			}
			return
		}
		for digit := 1; digit <= e.cfg.MaxDigit; digit++ {
			tuple[pos] = digit
			walk(pos + 1)
		}
	}
	walk(0)
}

func maxDeviation(tuple []int, shares []float64) float64 {
	sum := float64(sumInts(tuple))
	var worst float64
	for i, r := range tuple {
		if dev := math.Abs(float64(r)/sum - shares[i]); dev > worst {
			worst = dev
		}
	}
	return worst
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func lessTuple(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func gcdAll(values []int) int {
	g := 0
	for _, v := range values {
		g = gcd(g, v)
	}
	return g
}

func formatRatio(ratio []int) string {
	parts := make([]string, len(ratio))
	for i, r := range ratio {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ":")
}
