package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sanpixel/ratio.ai/config"
	httpDelivery "github.com/sanpixel/ratio.ai/internal/delivery/http"
	"github.com/sanpixel/ratio.ai/internal/domain"
	"github.com/sanpixel/ratio.ai/internal/infrastructure/cache"
	"github.com/sanpixel/ratio.ai/internal/infrastructure/recipeweb"
	"github.com/sanpixel/ratio.ai/internal/infrastructure/sqlite"
	"github.com/sanpixel/ratio.ai/internal/pkg/logger"
	"github.com/sanpixel/ratio.ai/internal/usecase"
)

type closableCache interface {
	domain.CacheRepository
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(cfg.Log.Level, cfg.Server.Environment)
	defer func() { _ = zlog.Sync() }()

	zlog.Info("starting ratio.ai backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	// Initialize infrastructure dependencies
	recipeCache, err := newCache(cfg.Cache)
	if err != nil {
		zlog.Fatal("failed to initialize cache", zap.Error(err))
	}
	defer recipeCache.Close()

	store, err := sqlite.Open(cfg.Store.Path)
	if err != nil {
		zlog.Fatal("failed to open recipe store", zap.String("path", cfg.Store.Path), zap.Error(err))
	}
	defer store.Close()

	fetcher := recipeweb.NewClient(recipeweb.Config{
		UserAgent:         cfg.Fetcher.UserAgent,
		Timeout:           cfg.Fetcher.Timeout,
		RequestsPerSecond: cfg.Fetcher.RequestsPerSecond,
		Burst:             cfg.Fetcher.Burst,
		MaxRetries:        cfg.Fetcher.MaxRetries,
	}, zlog)

	// Initialize usecase layer
	densities := usecase.DefaultDensityTable().WithOverrides(cfg.Ratio.Densities)
	engine := usecase.NewEngine(densities, usecase.EngineConfig{
		MinGrams:            cfg.Ratio.MinGrams,
		MaxDigit:            cfg.Ratio.MaxDigit,
		Tolerance:           cfg.Ratio.Tolerance,
		EnableFuzzyMatching: cfg.Ratio.EnableFuzzyMatching,
	}, zlog)

	zlog.Info("ratio engine configured",
		zap.Float64("min_grams", cfg.Ratio.MinGrams),
		zap.Int("max_digit", cfg.Ratio.MaxDigit),
		zap.Float64("tolerance", cfg.Ratio.Tolerance),
		zap.Bool("fuzzy", cfg.Ratio.EnableFuzzyMatching),
		zap.Int("density_overrides", len(cfg.Ratio.Densities)),
	)

	recipeService := usecase.NewRecipeService(
		engine,
		recipeCache,
		fetcher,
		store,
		usecase.RecipeServiceConfig{CacheTTL: cfg.Cache.TTL},
		zlog,
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(recipeService, zlog)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, zlog)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zlog.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
	zlog.Info("server exited")
}

func newCache(cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, "ratioai:")
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}
