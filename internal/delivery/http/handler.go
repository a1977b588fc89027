package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

// RecipeUsecase is the application surface the handlers call
type RecipeUsecase interface {
	ProcessURL(ctx context.Context, url string) (*domain.ProcessedRecipe, error)
	ProcessText(ctx context.Context, title string, sections []domain.IngredientSection) (*domain.ProcessedRecipe, error)
	ProcessLines(ctx context.Context, title string, lines []string, sectionStarts []int) (*domain.ProcessedRecipe, error)
	Recalculate(ctx context.Context, ingredients []domain.Ingredient, edits map[int]domain.IngredientEdit) ([]domain.Ingredient, *domain.RatioResult, error)
	SaveRecipe(ctx context.Context, recipe *domain.SavedRecipe) (*domain.SavedRecipe, error)
	GetRecipe(ctx context.Context, id string) (*domain.SavedRecipe, error)
	ListRecipes(ctx context.Context, limit int) ([]domain.SavedRecipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes RecipeUsecase
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(recipes RecipeUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		recipes: recipes,
		logger:  logger.With(zap.String("component", "http")),
	}
}

// ProcessRecipeRequest asks for a recipe page to be fetched and analyzed
type ProcessRecipeRequest struct {
	URL string `json:"url" binding:"required"`
}

// ParseRecipeRequest carries raw ingredient text, either as a flat list with
// section start indexes or as explicit sections
type ParseRecipeRequest struct {
	Title         string                     `json:"title"`
	Lines         []string                   `json:"lines"`
	SectionStarts []int                      `json:"section_starts"`
	Sections      []domain.IngredientSection `json:"sections"`
}

// RecalculateRequest carries the current ingredient list and optional edits keyed by index
type RecalculateRequest struct {
	Ingredients []domain.Ingredient           `json:"ingredients" binding:"required"`
	Edits       map[int]domain.IngredientEdit `json:"edits"`
}

// RecalculateResponse is the refreshed ingredient list and its ratio
type RecalculateResponse struct {
	Ingredients    []domain.Ingredient `json:"ingredients"`
	Ratio          *domain.RatioResult `json:"ratio"`
	RatioAvailable bool                `json:"ratio_available"`
}

// SaveRecipeRequest is a processed recipe to persist
type SaveRecipeRequest struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	URL         string              `json:"url"`
	Ingredients []domain.Ingredient `json:"ingredients" binding:"required"`
	Ratio       *domain.RatioResult `json:"ratio"`
}

// ListRecipesResponse wraps a page of saved recipes
type ListRecipesResponse struct {
	Recipes []domain.SavedRecipe `json:"recipes"`
	Count   int                  `json:"count"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ratio-ai",
		"version": "1.0.0",
	})
}

// ProcessRecipe fetches a recipe page and returns its ingredients and ratio
func (h *Handler) ProcessRecipe(c *gin.Context) {
	var req ProcessRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	recipe, err := h.recipes.ProcessURL(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Info("process recipe failed", zap.String("url", req.URL), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// ParseRecipe analyzes caller-supplied ingredient lines
func (h *Handler) ParseRecipe(c *gin.Context) {
	var req ParseRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	var (
		recipe *domain.ProcessedRecipe
		err    error
	)
	switch {
	case len(req.Sections) > 0:
		recipe, err = h.recipes.ProcessText(c.Request.Context(), req.Title, req.Sections)
	case len(req.Lines) > 0:
		recipe, err = h.recipes.ProcessLines(c.Request.Context(), req.Title, req.Lines, req.SectionStarts)
	default:
		err = fmt.Errorf("%w: lines or sections are required", domain.ErrInvalidRequest)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// Recalculate applies edits and recomputes grams, categories and the ratio
func (h *Handler) Recalculate(c *gin.Context) {
	var req RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	ingredients, ratio, err := h.recipes.Recalculate(c.Request.Context(), req.Ingredients, req.Edits)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecalculateResponse{
		Ingredients:    ingredients,
		Ratio:          ratio,
		RatioAvailable: ratio != nil,
	})
}

// SaveRecipe persists a processed recipe
func (h *Handler) SaveRecipe(c *gin.Context) {
	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	saved, err := h.recipes.SaveRecipe(c.Request.Context(), &domain.SavedRecipe{
		ID:          req.ID,
		Title:       req.Title,
		URL:         req.URL,
		Ingredients: req.Ingredients,
		Ratio:       req.Ratio,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// ListRecipes returns saved recipes, newest first
func (h *Handler) ListRecipes(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, fmt.Errorf("%w: limit must be a non-negative integer", domain.ErrInvalidRequest))
			return
		}
		limit = n
	}

	recipes, err := h.recipes.ListRecipes(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if recipes == nil {
		recipes = []domain.SavedRecipe{}
	}

	c.JSON(http.StatusOK, ListRecipesResponse{Recipes: recipes, Count: len(recipes)})
}

// GetRecipe returns one saved recipe
func (h *Handler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a saved recipe
func (h *Handler) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
