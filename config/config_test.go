package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[0] != "chrome-extension://*" {
			t.Errorf("Server.AllowedOrigins = %v, want chrome-extension://* and localhost", cfg.Server.AllowedOrigins)
		}
		if cfg.Server.ShutdownTimeout != 5*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 5s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
		if cfg.Fetcher.Timeout != 10*time.Second {
			t.Errorf("Fetcher.Timeout = %v, want 10s", cfg.Fetcher.Timeout)
		}
		if cfg.Fetcher.RequestsPerSecond != 2 || cfg.Fetcher.Burst != 4 || cfg.Fetcher.MaxRetries != 3 {
			t.Errorf("Fetcher = %+v, want rps 2, burst 4, retries 3", cfg.Fetcher)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Store.Path != "ratio_ai.db" {
			t.Errorf("Store.Path = %s, want ratio_ai.db", cfg.Store.Path)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.Ratio.MinGrams != 20 || cfg.Ratio.MaxDigit != 9 || cfg.Ratio.Tolerance != 0 {
			t.Errorf("Ratio = %+v, want min 20, max digit 9, tolerance 0", cfg.Ratio)
		}
		if cfg.Ratio.EnableFuzzyMatching {
			t.Errorf("Ratio.EnableFuzzyMatching = true, want false")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		t.Setenv("RATIOAI_SERVER_PORT", "9090")
		t.Setenv("RATIOAI_SERVER_ENVIRONMENT", "production")
		t.Setenv("RATIOAI_SERVER_ALLOWED_ORIGINS", "chrome-extension://abc,https://app.example.com")
		t.Setenv("RATIOAI_LOG_LEVEL", "debug")
		t.Setenv("RATIOAI_FETCHER_TIMEOUT", "3s")
		t.Setenv("RATIOAI_CACHE_TYPE", "redis")
		t.Setenv("RATIOAI_CACHE_REDIS_URL", "redis://localhost:6379")
		t.Setenv("RATIOAI_CACHE_TTL", "1h")
		t.Setenv("RATIOAI_STORE_PATH", "/tmp/recipes.db")
		t.Setenv("RATIOAI_RATELIMIT_PER_IP", "200")
		t.Setenv("RATIOAI_RATIO_MIN_GRAMS", "10")
		t.Setenv("RATIOAI_RATIO_MAX_DIGIT", "5")
		t.Setenv("RATIOAI_RATIO_TOLERANCE", "0.02")
		t.Setenv("RATIOAI_RATIO_ENABLE_FUZZY_MATCHING", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if strings.Join(cfg.Server.AllowedOrigins, ",") != "chrome-extension://abc,https://app.example.com" {
			t.Errorf("Server.AllowedOrigins = %v", cfg.Server.AllowedOrigins)
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
		if cfg.Fetcher.Timeout != 3*time.Second {
			t.Errorf("Fetcher.Timeout = %v, want 3s", cfg.Fetcher.Timeout)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379", cfg.Cache.RedisURL)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Store.Path != "/tmp/recipes.db" {
			t.Errorf("Store.Path = %s, want /tmp/recipes.db", cfg.Store.Path)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Ratio.MinGrams != 10 || cfg.Ratio.MaxDigit != 5 || cfg.Ratio.Tolerance != 0.02 {
			t.Errorf("Ratio = %+v, want min 10, max digit 5, tolerance 0.02", cfg.Ratio)
		}
		if !cfg.Ratio.EnableFuzzyMatching {
			t.Errorf("Ratio.EnableFuzzyMatching = false, want true")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		t.Setenv("RATIOAI_CACHE_TYPE", "invalid")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		t.Setenv("RATIOAI_CACHE_TYPE", "redis")

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})

	t.Run("fails validation for out of range max digit", func(t *testing.T) {
		t.Setenv("RATIOAI_RATIO_MAX_DIGIT", "12")

		_, err := Load()
		if err == nil || !strings.Contains(err.Error(), "max_digit") {
			t.Errorf("Load() error = %v, want max_digit error", err)
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Cache: CacheConfig{Type: "memory"},
			Store: StoreConfig{Path: "ratio_ai.db"},
			Ratio: RatioConfig{MinGrams: 20, MaxDigit: 9},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}, wantErr: false},
		{name: "valid densities", mutate: func(c *Config) { c.Ratio.Densities = map[string]float64{"spelt flour": 110} }, wantErr: false},
		{name: "zero min grams", mutate: func(c *Config) { c.Ratio.MinGrams = 0 }, wantErr: true},
		{name: "max digit zero", mutate: func(c *Config) { c.Ratio.MaxDigit = 0 }, wantErr: true},
		{name: "negative tolerance", mutate: func(c *Config) { c.Ratio.Tolerance = -0.1 }, wantErr: true},
		{name: "non-positive density", mutate: func(c *Config) { c.Ratio.Densities = map[string]float64{"flour": 0} }, wantErr: true},
		{name: "missing store path", mutate: func(c *Config) { c.Store.Path = "" }, wantErr: true},
		{name: "redis without url", mutate: func(c *Config) { c.Cache.Type = "redis" }, wantErr: true},
		{name: "redis with url", mutate: func(c *Config) { c.Cache.Type = "redis"; c.Cache.RedisURL = "redis://localhost:6379/0" }, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		chdirTemp(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		chdirTemp(t)

		envContent := `
# Comment line
RATIOAI_TEST_VAR_1=value1

# TEST_COMMENTED=should_not_load
RATIOAI_TEST_VAR_2=value2
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}
		t.Cleanup(func() {
			os.Unsetenv("RATIOAI_TEST_VAR_1")
			os.Unsetenv("RATIOAI_TEST_VAR_2")
		})

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("RATIOAI_TEST_VAR_1") != "value1" {
			t.Errorf("RATIOAI_TEST_VAR_1 = %s, want value1", os.Getenv("RATIOAI_TEST_VAR_1"))
		}
		if os.Getenv("RATIOAI_TEST_VAR_2") != "value2" {
			t.Errorf("RATIOAI_TEST_VAR_2 = %s, want value2", os.Getenv("RATIOAI_TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		chdirTemp(t)
		t.Setenv("RATIOAI_TEST_EXISTING", "from-env")

		if err := os.WriteFile(".env", []byte("RATIOAI_TEST_EXISTING=from-file\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}
		if got := os.Getenv("RATIOAI_TEST_EXISTING"); got != "from-env" {
			t.Errorf("RATIOAI_TEST_EXISTING = %s, want from-env", got)
		}
	})

	t.Run("Load picks up .env values", func(t *testing.T) {
		chdirTemp(t)
		t.Cleanup(func() { os.Unsetenv("RATIOAI_SERVER_PORT") })

		if err := os.WriteFile(".env", []byte("RATIOAI_SERVER_PORT=7070\n"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
	})
}

// chdirTemp moves the test into a fresh directory and restores the old one afterwards
func chdirTemp(t *testing.T) {
	t.Helper()
	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}
