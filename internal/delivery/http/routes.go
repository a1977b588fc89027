package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/config"
)

const maxRequestBody = 1 << 20

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP), logger))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(BodySizeLimit(maxRequestBody))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.POST("/process", handler.ProcessRecipe)
			recipes.POST("/parse", handler.ParseRecipe)
			recipes.POST("", handler.SaveRecipe)
			recipes.GET("", handler.ListRecipes)
			recipes.GET("/:id", handler.GetRecipe)
			recipes.DELETE("/:id", handler.DeleteRecipe)
		}

		ratios := v1.Group("/ratios")
		{
			ratios.POST("/recalculate", handler.Recalculate)
		}
	}

	return router
}
