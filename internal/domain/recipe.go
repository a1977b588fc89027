package domain

import "time"

// RawRecipe is what a fetcher extracts from a recipe page before any parsing
type RawRecipe struct {
	Title    string              `json:"title"`
	URL      string              `json:"url"`
	Sections []IngredientSection `json:"sections"`
}

// Lines flattens all section lines in order
func (r *RawRecipe) Lines() []string {
	var lines []string
	for _, s := range r.Sections {
		lines = append(lines, s.Lines...)
	}
	return lines
}

// ProcessedRecipe is the engine output for a whole recipe
type ProcessedRecipe struct {
	Title          string              `json:"title"`
	URL            string              `json:"url,omitempty"`
	Sections       []IngredientSection `json:"sections,omitempty"`
	Ingredients    []Ingredient        `json:"ingredients"`
	Ratio          *RatioResult        `json:"ratio"`
	RatioAvailable bool                `json:"ratio_available"`
	Source         string              `json:"source"` // "web", "cache" or "text"
	ProcessedAt    time.Time           `json:"processed_at"`
}

// SavedRecipe is a processed recipe persisted by the store. Ingredients and
// Ratio are stored verbatim and never recomputed on read.
type SavedRecipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	URL         string       `json:"url,omitempty"`
	Ingredients []Ingredient `json:"ingredients"`
	Ratio       *RatioResult `json:"ratio"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
