package domain

import "strings"

// Category is the ratio bucket an ingredient falls into
type Category string

const (
	CategoryFlour  Category = "flour"
	CategoryLiquid Category = "liquid"
	CategoryEgg    Category = "egg"
	CategoryFat    Category = "fat"
	CategoryOther  Category = "other"
)

// RatioCategories lists the ratio-eligible categories in output order.
// The order is fixed and never depends on ingredient order.
var RatioCategories = []Category{CategoryFlour, CategoryLiquid, CategoryEgg, CategoryFat}

// IsRatioCategory reports whether c takes part in ratio math
func (c Category) IsRatioCategory() bool {
	for _, rc := range RatioCategories {
		if rc == c {
			return true
		}
	}
	return false
}

// Family is a finer grouping than Category. Sugar, seasoning etc. all land in
// CategoryOther but keep their family so a consumer can tell them apart.
type Family string

const (
	FamilyFlour     Family = "flour"
	FamilyLiquid    Family = "liquid"
	FamilyEgg       Family = "egg"
	FamilyFat       Family = "fat"
	FamilySugar     Family = "sugar"
	FamilyLeavening Family = "leavening"
	FamilySeasoning Family = "seasoning"
	FamilyProtein   Family = "protein"
	FamilyVegetable Family = "vegetable"
	FamilyMixIn     Family = "mix-in"
	FamilyUnknown   Family = ""
)

// UnitKind is the physical dimension of a canonical unit
type UnitKind string

const (
	UnitKindMass   UnitKind = "mass"
	UnitKindVolume UnitKind = "volume"
	UnitKindCount  UnitKind = "count"
)

// Ingredient is one parsed, converted and categorized recipe line
// (or the merge of several lines naming the same ingredient).
type Ingredient struct {
	Name          string   `json:"name"`
	Quantity      float64  `json:"quantity"`
	Unit          string   `json:"unit"`
	Grams         float64  `json:"grams"`
	OriginalText  string   `json:"original_text"`
	WasNormalized bool     `json:"was_normalized"`
	Category      Category `json:"category"`
	Family        Family   `json:"family,omitempty"`
	Section       string   `json:"section,omitempty"`
	// Unmeasured marks amounts like "a pinch" or "to taste". They keep
	// quantity 1 for display but carry no grams.
	Unmeasured bool `json:"unmeasured,omitempty"`
}

// MatchKey is the lowercased, trimmed, space-collapsed name used for identity.
func (i Ingredient) MatchKey() string {
	return strings.Join(strings.Fields(strings.ToLower(i.Name)), " ")
}

// IngredientEdit is a full replacement of the user-editable fields
type IngredientEdit struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// IngredientSection is a titled group of raw ingredient lines
// ("For the dough", "For the topping").
type IngredientSection struct {
	Title string   `json:"title,omitempty"`
	Lines []string `json:"lines"`
}

// RatioResult is a snapshot of the memorable ratio for an ingredient list
type RatioResult struct {
	Categories  []Category `json:"categories"`
	Ratio       []int      `json:"ratio"`
	RatioString string     `json:"ratio_string"`
	// Grams holds the qualifying grams per category, parallel to Categories
	Grams []float64 `json:"grams"`
}
