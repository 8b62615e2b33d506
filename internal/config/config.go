// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
)

// Session store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Timeouts  TimeoutConfig
	Logging   logger.Config
	App       AppConfig
	SearchAPI SearchAPIConfig
	Session   SessionConfig
	Redis     RedisConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`

	// RateLimit is the per-client request rate; 0 disables throttling
	RateLimit float64 `env:"SERVER_RATE_LIMIT" envDefault:"20"`
	RateBurst int     `env:"SERVER_RATE_BURST" envDefault:"40"`
}

// TimeoutConfig holds timeout settings for flight search operations.
type TimeoutConfig struct {
	GlobalSearch time.Duration `env:"TIMEOUT_GLOBAL_SEARCH" envDefault:"5s"`
	PerSearcher  time.Duration `env:"TIMEOUT_PER_SEARCHER" envDefault:"3s"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

// SearchAPIConfig holds settings for the upstream flight search endpoint.
// With no base URL the service searches the fixture file instead.
type SearchAPIConfig struct {
	BaseURL string `env:"SEARCH_API_BASE_URL"`
	APIKey  string `env:"SEARCH_API_KEY"`

	// RetryMax is the number of HTTP-level retries on 429 and 5xx responses
	RetryMax int `env:"SEARCH_API_RETRY_MAX" envDefault:"2"`

	// RateLimit caps outgoing requests per second; 0 disables the limiter
	RateLimit float64 `env:"SEARCH_API_RATE_LIMIT" envDefault:"5"`
	RateBurst int     `env:"SEARCH_API_RATE_BURST" envDefault:"10"`

	// Attempts is the number of search attempts per request, including the first
	Attempts int `env:"SEARCH_ATTEMPTS" envDefault:"2"`

	FixturePath    string        `env:"SEARCH_FIXTURE_PATH" envDefault:"docs/response-mock/flight_offers.json"`
	FixtureLatency time.Duration `env:"SEARCH_FIXTURE_LATENCY" envDefault:"0s"`
}

// SessionConfig holds results-page session settings.
type SessionConfig struct {
	Store string        `env:"SESSION_STORE" envDefault:"memory"`
	TTL   time.Duration `env:"SESSION_TTL" envDefault:"30m"`

	// SweepSchedule is the cron spec of the in-memory expiry sweep
	SweepSchedule string `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 1m"`
}

// RedisConfig holds the Redis connection used by the redis session store.
type RedisConfig struct {
	Addr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password  string `env:"REDIS_PASSWORD"`
	DB        int    `env:"REDIS_DB" envDefault:"0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"flight-booking:session:"`
}

// UsesFixture reports whether searches are served from the fixture file.
func (c SearchAPIConfig) UsesFixture() bool {
	return c.BaseURL == ""
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	// Validate server port
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	// Validate timeouts are positive
	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if cfg.Timeouts.GlobalSearch <= 0 {
		return fmt.Errorf("TIMEOUT_GLOBAL_SEARCH must be positive")
	}
	if cfg.Timeouts.PerSearcher <= 0 {
		return fmt.Errorf("TIMEOUT_PER_SEARCHER must be positive")
	}

	// Validate per-searcher timeout is less than global timeout
	if cfg.Timeouts.PerSearcher >= cfg.Timeouts.GlobalSearch {
		return fmt.Errorf("TIMEOUT_PER_SEARCHER (%s) should be less than TIMEOUT_GLOBAL_SEARCH (%s)",
			cfg.Timeouts.PerSearcher, cfg.Timeouts.GlobalSearch)
	}

	if cfg.Server.RateLimit < 0 {
		return fmt.Errorf("SERVER_RATE_LIMIT must not be negative")
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	if err := validateSearchAPI(cfg.SearchAPI); err != nil {
		return err
	}
	return validateSession(cfg.Session, cfg.Redis)
}

func validateSearchAPI(c SearchAPIConfig) error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("SEARCH_API_BASE_URL must be an absolute http(s) URL, got %q", c.BaseURL)
		}
	} else if c.FixturePath == "" {
		return fmt.Errorf("SEARCH_FIXTURE_PATH is required when SEARCH_API_BASE_URL is empty")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("SEARCH_API_RETRY_MAX must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("SEARCH_API_RATE_LIMIT must not be negative")
	}
	if c.Attempts < 1 {
		return fmt.Errorf("SEARCH_ATTEMPTS must be at least 1")
	}
	return nil
}

func validateSession(s SessionConfig, r RedisConfig) error {
	switch s.Store {
	case StoreMemory:
		if _, err := cron.ParseStandard(s.SweepSchedule); err != nil {
			return fmt.Errorf("SESSION_SWEEP_SCHEDULE is not a valid cron spec: %w", err)
		}
	case StoreRedis:
		if r.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE is redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be one of: memory, redis; got %q", s.Store)
	}
	if s.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
