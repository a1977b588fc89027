package usecase

import (
	"github.com/sanpixel/ratio.ai/internal/domain"
)

const (
	// FallbackGramsPerCup approximates an unknown ingredient as water-like
	FallbackGramsPerCup = 236.0
	// FallbackUnitMass is used for count items with no known average mass
	FallbackUnitMass = 50.0
)

// Dimension classes. Entries only merge within one class.
const (
	DimensionCount          = "count"
	DimensionWeight         = "weight"
	DimensionVolumeEstimate = "volume-estimate"
)

// Conversion is the result of converting one (name, quantity, unit) triple
type Conversion struct {
	Grams float64
	Kind  domain.UnitKind
	// Estimated is set when a fallback density or unit mass was used
	Estimated bool
}

// Dimension returns the merge class of the conversion
func (c Conversion) Dimension() string {
	switch {
	case c.Kind == domain.UnitKindCount:
		return DimensionCount
	case c.Kind == domain.UnitKindVolume && c.Estimated:
		return DimensionVolumeEstimate
	default:
		return DimensionWeight
	}
}

// GramConverter maps quantities onto the gram basis using an injected density table
type GramConverter struct {
	densities domain.DensityTable
}

// NewGramConverter creates a converter over the given density table
func NewGramConverter(densities domain.DensityTable) *GramConverter {
	if densities == nil {
		densities = DefaultDensityTable()
	}
	return &GramConverter{densities: densities}
}

// Convert never fails. Unknown densities and unit masses fall back to generic
// estimates and mark the result Estimated.
func (c *GramConverter) Convert(name string, quantity float64, unit string) Conversion {
	canonical, _ := NormalizeUnit(unit)
	kind, known := UnitKindOf(canonical)
	conv := Conversion{Kind: kind}

	if quantity <= 0 {
		return conv
	}

	switch kind {
	case domain.UnitKindMass:
		conv.Grams = quantity * unitTable[canonical].toBase

	case domain.UnitKindVolume:
		gramsPerCup, ok := c.densities.GramsPerCup(name)
		if !ok {
			gramsPerCup = FallbackGramsPerCup
			conv.Estimated = true
		}
		conv.Grams = quantity * unitTable[canonical].toBase / unitTable[UnitCup].toBase * gramsPerCup

	default:
		mass, ok := c.densities.UnitMass(name, canonical)
		if !ok || !known {
			mass = FallbackUnitMass
			conv.Estimated = true
		}
		conv.Grams = quantity * mass
	}

	conv.Grams = round2(conv.Grams)
	return conv
}
