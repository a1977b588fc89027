package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

const (
	// DefaultRecipeTitle is used when neither the page nor the caller names the recipe
	DefaultRecipeTitle = "Untitled Recipe"

	defaultListLimit = 50
	maxListLimit     = 200
)

// Recipe sources reported in ProcessedRecipe.Source
const (
	SourceWeb   = "web"
	SourceCache = "cache"
	SourceText  = "text"
)

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	CacheTTL time.Duration
}

// RecipeService ties the engine to its collaborators: the fetcher in front of
// it, the cache around it and the store behind it
type RecipeService struct {
	engine   *Engine
	cache    domain.CacheRepository
	fetcher  domain.RecipeFetcher
	store    domain.RecipeStore
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewRecipeService creates a new recipe service with dependencies
func NewRecipeService(
	engine *Engine,
	cache domain.CacheRepository,
	fetcher domain.RecipeFetcher,
	store domain.RecipeStore,
	config RecipeServiceConfig,
	logger *zap.Logger,
) *RecipeService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RecipeService{
		engine:   engine,
		cache:    cache,
		fetcher:  fetcher,
		store:    store,
		cacheTTL: cacheTTL,
		logger:   logger.With(zap.String("component", "recipe_service")),
		now:      time.Now,
	}
}

// ProcessURL fetches, processes and caches a recipe page.
// Flow: check cache -> fetch -> engine -> cache -> return
func (s *RecipeService) ProcessURL(ctx context.Context, rawURL string) (*domain.ProcessedRecipe, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := validateRecipeURL(rawURL); err != nil {
		return nil, err
	}

	cacheKey := recipeCacheKey(rawURL)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = SourceCache
		return cached, nil
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("cache read failed", zap.String("key", cacheKey), zap.Error(err))
	}

	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", domain.ErrFetchFailure)
	}
	raw, err := s.fetcher.FetchRecipe(ctx, rawURL)
	if err != nil {
		if errors.Is(err, domain.ErrNoRecipeData) || errors.Is(err, domain.ErrFetchFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}

	processed, err := s.process(raw.Title, rawURL, raw.Sections, SourceWeb)
	if err != nil {
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, processed); err != nil {
		// A cache outage never fails the request
		s.logger.Warn("cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	s.logger.Info("recipe processed",
		zap.String("url", rawURL),
		zap.Int("ingredients", len(processed.Ingredients)),
		zap.Bool("ratio_available", processed.RatioAvailable),
	)
	return processed, nil
}

// ProcessText runs the engine over caller-supplied ingredient sections
func (s *RecipeService) ProcessText(ctx context.Context, title string, sections []domain.IngredientSection) (*domain.ProcessedRecipe, error) {
	return s.process(title, "", sections, SourceText)
}

// ProcessLines is ProcessText for a flat line list with section start indexes
func (s *RecipeService) ProcessLines(ctx context.Context, title string, lines []string, sectionStarts []int) (*domain.ProcessedRecipe, error) {
	return s.ProcessText(ctx, title, splitSections(lines, sectionStarts))
}

// Recalculate applies edits keyed by ingredient index, then refreshes every
// ingredient and recomputes the ratio. An unavailable ratio is not an error.
func (s *RecipeService) Recalculate(
	ctx context.Context,
	ingredients []domain.Ingredient,
	edits map[int]domain.IngredientEdit,
) ([]domain.Ingredient, *domain.RatioResult, error) {
	if len(ingredients) == 0 {
		return nil, nil, fmt.Errorf("%w: no ingredients", domain.ErrEmptyInput)
	}

	edited := make([]domain.Ingredient, len(ingredients))
	copy(edited, ingredients)
	for idx, edit := range edits {
		if idx < 0 || idx >= len(edited) {
			return nil, nil, fmt.Errorf("%w: edit index %d out of range", domain.ErrInvalidRequest, idx)
		}
		if strings.TrimSpace(edit.Name) == "" || edit.Quantity < 0 {
			return nil, nil, fmt.Errorf("%w: edit %d needs a name and a non-negative quantity", domain.ErrInvalidRequest, idx)
		}
		edited[idx] = s.engine.ApplyEdit(edited[idx], edit)
	}

	refreshed, ratio, err := s.engine.Recalculate(edited)
	if err != nil {
		if errors.Is(err, domain.ErrRatioUnavailable) {
			return refreshed, nil, nil
		}
		return nil, nil, err
	}
	return refreshed, ratio, nil
}

// SaveRecipe persists a processed recipe verbatim
func (s *RecipeService) SaveRecipe(ctx context.Context, recipe *domain.SavedRecipe) (*domain.SavedRecipe, error) {
	if recipe == nil || len(recipe.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: recipe has no ingredients", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(recipe.Title) == "" {
		recipe.Title = DefaultRecipeTitle
	}
	if err := s.store.Save(ctx, recipe); err != nil {
		return nil, err
	}
	s.logger.Info("recipe saved", zap.String("id", recipe.ID), zap.String("title", recipe.Title))
	return recipe, nil
}

// GetRecipe loads a saved recipe by id
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*domain.SavedRecipe, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.store.Get(ctx, id)
}

// ListRecipes returns saved recipes, newest first
func (s *RecipeService) ListRecipes(ctx context.Context, limit int) ([]domain.SavedRecipe, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.store.List(ctx, limit)
}

// DeleteRecipe removes a saved recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.ErrInvalidRequest
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("recipe deleted", zap.String("id", id))
	return nil
}

func (s *RecipeService) process(title, sourceURL string, sections []domain.IngredientSection, source string) (*domain.ProcessedRecipe, error) {
	ingredients, err := s.engine.ProcessSections(sections)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		title = DefaultRecipeTitle
	}
	processed := &domain.ProcessedRecipe{
		Title:       strings.TrimSpace(title),
		URL:         sourceURL,
		Sections:    sections,
		Ingredients: ingredients,
		Source:      source,
		ProcessedAt: s.now().UTC(),
	}

	ratio, err := s.engine.ComputeRatios(ingredients)
	switch {
	case err == nil:
		processed.Ratio = ratio
		processed.RatioAvailable = true
	case errors.Is(err, domain.ErrRatioUnavailable):
		s.logger.Debug("ratio unavailable", zap.String("title", processed.Title), zap.Error(err))
	default:
		return nil, err
	}

	return processed, nil
}

// recipeCacheKey normalizes a URL for use as a cache key.
// Format: "recipe:{lowercased url}"
func recipeCacheKey(rawURL string) string {
	return "recipe:" + strings.ToLower(strings.TrimSpace(rawURL))
}

func validateRecipeURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: url is required", domain.ErrInvalidRequest)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("%w: %q is not an http(s) url", domain.ErrInvalidRequest, rawURL)
	}
	return nil
}

// getFromCache retrieves a processed recipe from cache
func (s *RecipeService) getFromCache(ctx context.Context, key string) (*domain.ProcessedRecipe, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var recipe domain.ProcessedRecipe
	if err := json.Unmarshal(value, &recipe); err != nil {
		return nil, fmt.Errorf("%w: undecodable entry: %v", domain.ErrCacheMiss, err)
	}
	return &recipe, nil
}

// setInCache stores a processed recipe in cache
func (s *RecipeService) setInCache(ctx context.Context, key string, recipe *domain.ProcessedRecipe) error {
	if s.cache == nil {
		return nil
	}
	data, err := json.Marshal(recipe)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
