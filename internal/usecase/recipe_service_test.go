package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	setCalled bool
	lastTTL   time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	m.lastTTL = ttl
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockRecipeFetcher is a mock implementation of domain.RecipeFetcher
type MockRecipeFetcher struct {
	recipe *domain.RawRecipe
	err    error
	calls  int
}

func (m *MockRecipeFetcher) FetchRecipe(ctx context.Context, url string) (*domain.RawRecipe, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.recipe, nil
}

// MockRecipeStore is a mock implementation of domain.RecipeStore
type MockRecipeStore struct {
	recipes   map[string]domain.SavedRecipe
	lastLimit int
	saveError error
}

func NewMockRecipeStore() *MockRecipeStore {
	return &MockRecipeStore{recipes: make(map[string]domain.SavedRecipe)}
}

func (m *MockRecipeStore) Save(ctx context.Context, recipe *domain.SavedRecipe) error {
	if m.saveError != nil {
		return m.saveError
	}
	if recipe.ID == "" {
		recipe.ID = "generated-id"
	}
	m.recipes[recipe.ID] = *recipe
	return nil
}

func (m *MockRecipeStore) Get(ctx context.Context, id string) (*domain.SavedRecipe, error) {
	recipe, ok := m.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return &recipe, nil
}

func (m *MockRecipeStore) List(ctx context.Context, limit int) ([]domain.SavedRecipe, error) {
	m.lastLimit = limit
	var out []domain.SavedRecipe
	for _, r := range m.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (m *MockRecipeStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.recipes[id]; !ok {
		return domain.ErrRecipeNotFound
	}
	delete(m.recipes, id)
	return nil
}

func cookieRecipe() *domain.RawRecipe {
	return &domain.RawRecipe{
		Title: "Shortbread",
		URL:   "https://example.com/shortbread",
		Sections: []domain.IngredientSection{
			{Lines: []string{"2 cups flour", "1 cup sugar", "1/2 cup butter"}},
		},
	}
}

func newTestRecipeService(cache domain.CacheRepository, fetcher domain.RecipeFetcher, store domain.RecipeStore) *RecipeService {
	engine := NewEngine(DefaultDensityTable(), EngineConfig{}, zap.NewNop())
	return NewRecipeService(engine, cache, fetcher, store, RecipeServiceConfig{}, zap.NewNop())
}

func TestNewRecipeService(t *testing.T) {
	t.Run("creates service with default values", func(t *testing.T) {
		svc := newTestRecipeService(nil, nil, nil)
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
	})

	t.Run("creates service with custom values", func(t *testing.T) {
		engine := NewEngine(nil, EngineConfig{}, nil)
		svc := NewRecipeService(engine, nil, nil, nil, RecipeServiceConfig{CacheTTL: time.Hour}, nil)
		if svc.cacheTTL != time.Hour {
			t.Errorf("cacheTTL = %v, want 1h", svc.cacheTTL)
		}
	})
}

func TestProcessURL(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects invalid urls", func(t *testing.T) {
		svc := newTestRecipeService(NewMockCacheRepository(), &MockRecipeFetcher{}, nil)
		for _, u := range []string{"", "   ", "ftp://example.com/x", "not a url", "https://"} {
			if _, err := svc.ProcessURL(ctx, u); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("ProcessURL(%q) error = %v, want ErrInvalidRequest", u, err)
			}
		}
	})

	t.Run("fetches and caches on miss", func(t *testing.T) {
		cache := NewMockCacheRepository()
		fetcher := &MockRecipeFetcher{recipe: cookieRecipe()}
		svc := newTestRecipeService(cache, fetcher, nil)

		got, err := svc.ProcessURL(ctx, "https://Example.com/shortbread")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Source != SourceWeb {
			t.Errorf("Source = %v, want web", got.Source)
		}
		if got.Title != "Shortbread" || len(got.Ingredients) != 3 {
			t.Errorf("got %q with %d ingredients", got.Title, len(got.Ingredients))
		}
		if !got.RatioAvailable || got.Ratio.RatioString != "2:1" {
			t.Errorf("ratio = %+v, available = %v", got.Ratio, got.RatioAvailable)
		}
		if !cache.setCalled || cache.lastTTL != 24*time.Hour {
			t.Errorf("cache set = %v with ttl %v", cache.setCalled, cache.lastTTL)
		}
		if _, ok := cache.data["recipe:https://example.com/shortbread"]; !ok {
			t.Errorf("cache keys = %v", cache.data)
		}
	})

	t.Run("second call is served from cache", func(t *testing.T) {
		cache := NewMockCacheRepository()
		fetcher := &MockRecipeFetcher{recipe: cookieRecipe()}
		svc := newTestRecipeService(cache, fetcher, nil)

		if _, err := svc.ProcessURL(ctx, "https://example.com/shortbread"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := svc.ProcessURL(ctx, "https://example.com/shortbread")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Source != SourceCache {
			t.Errorf("Source = %v, want cache", got.Source)
		}
		if fetcher.calls != 1 {
			t.Errorf("fetcher called %d times, want 1", fetcher.calls)
		}
		if got.Ratio == nil || got.Ratio.RatioString != "2:1" {
			t.Errorf("cached ratio = %+v", got.Ratio)
		}
	})

	t.Run("undecodable cache entry is refetched", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.data["recipe:https://example.com/shortbread"] = []byte("{not json")
		fetcher := &MockRecipeFetcher{recipe: cookieRecipe()}
		svc := newTestRecipeService(cache, fetcher, nil)

		got, err := svc.ProcessURL(ctx, "https://example.com/shortbread")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Source != SourceWeb || fetcher.calls != 1 {
			t.Errorf("source = %v, fetches = %d", got.Source, fetcher.calls)
		}
	})

	t.Run("cache failures do not fail the request", func(t *testing.T) {
		cache := NewMockCacheRepository()
		cache.getError = errors.New("connection refused")
		cache.setError = errors.New("connection refused")
		svc := newTestRecipeService(cache, &MockRecipeFetcher{recipe: cookieRecipe()}, nil)

		if _, err := svc.ProcessURL(ctx, "https://example.com/shortbread"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("wraps fetch errors", func(t *testing.T) {
		svc := newTestRecipeService(NewMockCacheRepository(), &MockRecipeFetcher{err: errors.New("dial tcp: timeout")}, nil)

		_, err := svc.ProcessURL(ctx, "https://example.com/shortbread")
		if !errors.Is(err, domain.ErrFetchFailure) {
			t.Errorf("error = %v, want ErrFetchFailure", err)
		}
	})

	t.Run("keeps no recipe data error", func(t *testing.T) {
		svc := newTestRecipeService(NewMockCacheRepository(), &MockRecipeFetcher{err: domain.ErrNoRecipeData}, nil)

		_, err := svc.ProcessURL(ctx, "https://example.com/blog")
		if !errors.Is(err, domain.ErrNoRecipeData) {
			t.Errorf("error = %v, want ErrNoRecipeData", err)
		}
	})

	t.Run("page without usable lines is empty input", func(t *testing.T) {
		fetcher := &MockRecipeFetcher{recipe: &domain.RawRecipe{
			Title:    "Odd page",
			Sections: []domain.IngredientSection{{Lines: []string{"12", "***"}}},
		}}
		cache := NewMockCacheRepository()
		svc := newTestRecipeService(cache, fetcher, nil)

		_, err := svc.ProcessURL(ctx, "https://example.com/odd")
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("error = %v, want ErrEmptyInput", err)
		}
		if cache.setCalled {
			t.Error("failed results must not be cached")
		}
	})
}

func TestProcessText(t *testing.T) {
	ctx := context.Background()
	svc := newTestRecipeService(nil, nil, nil)

	t.Run("ratio unavailable is not an error", func(t *testing.T) {
		got, err := svc.ProcessText(ctx, "", []domain.IngredientSection{{Lines: []string{"3 cups flour"}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.RatioAvailable || got.Ratio != nil {
			t.Errorf("ratio = %+v, available = %v", got.Ratio, got.RatioAvailable)
		}
		if got.Title != DefaultRecipeTitle || got.Source != SourceText {
			t.Errorf("title/source = %q/%q", got.Title, got.Source)
		}
	})

	t.Run("empty sections fail", func(t *testing.T) {
		_, err := svc.ProcessText(ctx, "Nothing", nil)
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("error = %v, want ErrEmptyInput", err)
		}
	})

	t.Run("lines with section starts", func(t *testing.T) {
		got, err := svc.ProcessLines(ctx, "Pancakes", []string{"1 cup flour", "1 cup milk", "1 cup flour"}, []int{2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.Ingredients) != 2 || got.Ingredients[0].Grams != 240 {
			t.Errorf("ingredients = %+v", got.Ingredients)
		}
		if got.Ratio == nil || got.Ratio.RatioString != "1:1" {
			t.Errorf("ratio = %+v", got.Ratio)
		}
	})

	t.Run("result survives a json round trip", func(t *testing.T) {
		got, err := svc.ProcessText(ctx, "Shortbread", cookieRecipe().Sections)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := json.Marshal(got)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var decoded domain.ProcessedRecipe
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if decoded.Ratio.RatioString != got.Ratio.RatioString || len(decoded.Ingredients) != len(got.Ingredients) {
			t.Errorf("decoded = %+v", decoded)
		}
	})
}

func TestRecipeService_Recalculate(t *testing.T) {
	ctx := context.Background()
	svc := newTestRecipeService(nil, nil, nil)
	processed, err := svc.ProcessText(ctx, "Shortbread", cookieRecipe().Sections)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("edit changes the ratio", func(t *testing.T) {
		ingredients, ratio, err := svc.Recalculate(ctx, processed.Ingredients, map[int]domain.IngredientEdit{
			2: {Name: "butter", Quantity: 1, Unit: "cup"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ingredients[2].Grams != 227 {
			t.Errorf("edited grams = %v, want 227", ingredients[2].Grams)
		}
		if ratio == nil || ratio.RatioString != "1:1" {
			t.Errorf("ratio = %+v, want 1:1", ratio)
		}
		if processed.Ingredients[2].Grams != 113.5 {
			t.Error("input ingredients were modified")
		}
	})

	t.Run("no edits recomputes as is", func(t *testing.T) {
		_, ratio, err := svc.Recalculate(ctx, processed.Ingredients, nil)
		if err != nil || ratio == nil || ratio.RatioString != "2:1" {
			t.Errorf("ratio = %+v, err = %v", ratio, err)
		}
	})

	t.Run("unavailable ratio returns ingredients", func(t *testing.T) {
		ingredients, ratio, err := svc.Recalculate(ctx, processed.Ingredients, map[int]domain.IngredientEdit{
			2: {Name: "butter", Quantity: 1, Unit: "tsp"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ratio != nil || len(ingredients) != 3 {
			t.Errorf("ratio = %+v, ingredients = %d", ratio, len(ingredients))
		}
	})

	t.Run("rejects bad edits", func(t *testing.T) {
		badEdits := []map[int]domain.IngredientEdit{
			{5: {Name: "butter", Quantity: 1, Unit: "cup"}},
			{-1: {Name: "butter", Quantity: 1, Unit: "cup"}},
			{0: {Name: " ", Quantity: 1, Unit: "cup"}},
			{0: {Name: "flour", Quantity: -2, Unit: "cup"}},
		}
		for _, edits := range badEdits {
			if _, _, err := svc.Recalculate(ctx, processed.Ingredients, edits); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("Recalculate(%v) error = %v, want ErrInvalidRequest", edits, err)
			}
		}
	})

	t.Run("empty list fails", func(t *testing.T) {
		if _, _, err := svc.Recalculate(ctx, nil, nil); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("error = %v, want ErrEmptyInput", err)
		}
	})
}

func TestRecipeService_SavedRecipes(t *testing.T) {
	ctx := context.Background()
	store := NewMockRecipeStore()
	svc := newTestRecipeService(nil, nil, store)

	t.Run("save rejects recipes without ingredients", func(t *testing.T) {
		for _, r := range []*domain.SavedRecipe{nil, {Title: "Empty"}} {
			if _, err := svc.SaveRecipe(ctx, r); !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("SaveRecipe(%+v) error = %v, want ErrInvalidRequest", r, err)
			}
		}
	})

	t.Run("save get list delete", func(t *testing.T) {
		saved, err := svc.SaveRecipe(ctx, &domain.SavedRecipe{
			Ingredients: []domain.Ingredient{{Name: "flour", Quantity: 1, Unit: "cup", Grams: 120}},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if saved.ID == "" || saved.Title != DefaultRecipeTitle {
			t.Errorf("saved = %+v", saved)
		}

		got, err := svc.GetRecipe(ctx, saved.ID)
		if err != nil || got.Ingredients[0].Grams != 120 {
			t.Errorf("GetRecipe = %+v, %v", got, err)
		}

		if _, err := svc.ListRecipes(ctx, 0); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if store.lastLimit != defaultListLimit {
			t.Errorf("limit = %d, want %d", store.lastLimit, defaultListLimit)
		}
		if _, err := svc.ListRecipes(ctx, 5000); err != nil || store.lastLimit != maxListLimit {
			t.Errorf("limit = %d, want %d", store.lastLimit, maxListLimit)
		}

		if err := svc.DeleteRecipe(ctx, saved.ID); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := svc.GetRecipe(ctx, saved.ID); !errors.Is(err, domain.ErrRecipeNotFound) {
			t.Errorf("error = %v, want ErrRecipeNotFound", err)
		}
	})

	t.Run("blank ids are invalid", func(t *testing.T) {
		if _, err := svc.GetRecipe(ctx, " "); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("GetRecipe error = %v", err)
		}
		if err := svc.DeleteRecipe(ctx, ""); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("DeleteRecipe error = %v", err)
		}
	})
}
