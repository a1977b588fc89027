package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Ratio     RatioConfig     `mapstructure:"ratio"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// FetcherConfig holds recipe page fetching configuration
type FetcherConfig struct {
	UserAgent         string        `mapstructure:"user_agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	MaxRetries        int           `mapstructure:"max_retries"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds saved recipe storage configuration
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// RatioConfig tunes the ratio engine
type RatioConfig struct {
	MinGrams            float64            `mapstructure:"min_grams"`
	MaxDigit            int                `mapstructure:"max_digit"`
	Tolerance           float64            `mapstructure:"tolerance"`
	EnableFuzzyMatching bool               `mapstructure:"enable_fuzzy_matching"`
	Densities           map[string]float64 `mapstructure:"densities"` // keyword -> grams per cup
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ratioai/")

	// Environment variable settings
	v.SetEnvPrefix("RATIOAI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*", "http://localhost:3000"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("log.level", "info")

	// Fetcher defaults
	v.SetDefault("fetcher.user_agent", "")
	v.SetDefault("fetcher.timeout", "10s")
	v.SetDefault("fetcher.requests_per_second", 2)
	v.SetDefault("fetcher.burst", 4)
	v.SetDefault("fetcher.max_retries", 3)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	v.SetDefault("store.path", "ratio_ai.db")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Ratio engine defaults
	v.SetDefault("ratio.min_grams", 20)
	v.SetDefault("ratio.max_digit", 9)
	v.SetDefault("ratio.tolerance", 0)
	v.SetDefault("ratio.enable_fuzzy_matching", false)
	v.SetDefault("ratio.densities", map[string]float64{})
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if config.Ratio.MinGrams <= 0 {
		return fmt.Errorf("ratio min_grams must be positive, got: %v", config.Ratio.MinGrams)
	}

	if config.Ratio.MaxDigit < 1 || config.Ratio.MaxDigit > 9 {
		return fmt.Errorf("ratio max_digit must be between 1 and 9, got: %d", config.Ratio.MaxDigit)
	}

	if config.Ratio.Tolerance < 0 {
		return fmt.Errorf("ratio tolerance must not be negative, got: %v", config.Ratio.Tolerance)
	}

	for name, gramsPerCup := range config.Ratio.Densities {
		if gramsPerCup <= 0 {
			return fmt.Errorf("density for %q must be positive, got: %v", name, gramsPerCup)
		}
	}

	return nil
}
