package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecipeFetcher retrieves raw ingredient text for a recipe URL
type RecipeFetcher interface {
	FetchRecipe(ctx context.Context, url string) (*RawRecipe, error)
}

// RecipeStore persists processed recipes as opaque data
type RecipeStore interface {
	Save(ctx context.Context, recipe *SavedRecipe) error
	Get(ctx context.Context, id string) (*SavedRecipe, error)
	List(ctx context.Context, limit int) ([]SavedRecipe, error)
	Delete(ctx context.Context, id string) error
}

// DensityTable is a read-only lookup used by the gram converter.
// Implementations must be deterministic for a given name.
type DensityTable interface {
	// GramsPerCup returns the density for name, and false when no entry matches
	GramsPerCup(name string) (float64, bool)
	// UnitMass returns the average grams of one count unit ("clove", "stick")
	// or, for unit "", of one item named name ("egg").
	UnitMass(name, unit string) (float64, bool)
}
