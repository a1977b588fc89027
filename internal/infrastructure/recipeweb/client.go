package recipeweb

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sanpixel/ratio.ai/internal/domain"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	defaultTimeout   = 10 * time.Second
	defaultRPS       = 2
	defaultBurst     = 4
	defaultAttempts  = 3
	baseRetryBackoff = 500 * time.Millisecond
)

// Config controls outbound fetching
type Config struct {
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int // total attempts, including the first
}

// Client fetches recipe pages and extracts their raw ingredient sections
type Client struct {
	http        *resty.Client
	rateLimiter *rate.Limiter
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *zap.Logger
}

// NewClient creates a fetcher. Zero config fields take defaults.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Client{
		http:        httpClient,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		maxAttempts: cfg.MaxRetries,
		backoff:     exponentialBackoff,
		logger:      logger.With(zap.String("component", "fetcher")),
	}
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return baseRetryBackoff * time.Duration(1<<uint(attempt-1))
}

// FetchRecipe downloads pageURL and extracts its ingredient sections.
// Transport errors and 5xx responses are retried; 4xx responses are not.
func (c *Client) FetchRecipe(ctx context.Context, pageURL string) (*domain.RawRecipe, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrFetchFailure, err)
		}

		resp, err := c.http.R().SetContext(ctx).Get(pageURL)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, ctx.Err())
			}
			c.logger.Warn("fetch attempt failed",
				zap.String("url", pageURL), zap.Int("attempt", attempt), zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)

		case resp.StatusCode() >= http.StatusInternalServerError:
			c.logger.Warn("fetch attempt got server error",
				zap.String("url", pageURL), zap.Int("attempt", attempt), zap.Int("status", resp.StatusCode()))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFetchFailure, resp.StatusCode())

		case resp.StatusCode() >= http.StatusBadRequest:
			return nil, fmt.Errorf("%w: status %d", domain.ErrFetchFailure, resp.StatusCode())

		default:
			recipe, err := Extract(resp.Body(), pageURL)
			if err != nil {
				return nil, err
			}
			c.logger.Debug("recipe page extracted",
				zap.String("url", pageURL),
				zap.Int("sections", len(recipe.Sections)),
				zap.Int("lines", len(recipe.Lines())))
			return recipe, nil
		}

		if attempt < c.maxAttempts {
			if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
			}
		}
	}

	c.logger.Error("all fetch attempts failed", zap.String("url", pageURL), zap.Error(lastErr))
	return nil, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
