package usecase

import (
	"strings"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// Deduplicator merges entries that name the same ingredient in a compatible
// dimension, keeping the position and original text of the first occurrence
type Deduplicator struct {
	converter *GramConverter
}

// NewDeduplicator creates a deduplicator that recomputes merged grams with converter
func NewDeduplicator(converter *GramConverter) *Deduplicator {
	return &Deduplicator{converter: converter}
}

// Dedupe returns a new slice; the input is not modified
func (d *Deduplicator) Dedupe(ingredients []domain.Ingredient) []domain.Ingredient {
	merged := make([]domain.Ingredient, 0, len(ingredients))
	index := make(map[string]int, len(ingredients))

	for _, ing := range ingredients {
		conv := d.converter.Convert(ing.Name, ing.Quantity, ing.Unit)
		key := ing.MatchKey() + "|" + conv.Dimension()
		if ing.Unmeasured {
			key += "|unmeasured"
		}

		pos, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, ing)
			continue
		}
		merged[pos] = d.merge(merged[pos], ing)
	}

	return merged
}

func (d *Deduplicator) merge(first, next domain.Ingredient) domain.Ingredient {
	out := first
	out.WasNormalized = first.WasNormalized || next.WasNormalized

	firstUnit, _ := NormalizeUnit(first.Unit)
	nextUnit, _ := NormalizeUnit(next.Unit)
	if firstUnit == nextUnit {
		out.Quantity = round2(first.Quantity + next.Quantity)
		out.Unit = firstUnit
	} else {
		// Mixed units can only be shown on the gram basis
		out.Quantity = round2(first.Grams + next.Grams)
		out.Unit = UnitGram
	}

	if out.Unmeasured {
		out.Grams = 0
		return out
	}
	out.Grams = d.converter.Convert(out.Name, out.Quantity, out.Unit).Grams
	return out
}

// dropRepeatedLines removes scrape duplicates: the exact same raw line listed
// twice within one section
func dropRepeatedLines(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		key := strings.TrimSpace(line)
		if key != "" && seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, line)
	}
	return kept
}
