package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/retry"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
)

// Default timeout values.
const (
	DefaultSearchTimeout   = 5 * time.Second
	DefaultSearcherTimeout = 3 * time.Second
)

// Config contains configuration options for the results use case.
// Zero values are replaced by defaults.
type Config struct {
	// SearchTimeout bounds a whole search across all searchers
	SearchTimeout time.Duration

	// SearcherTimeout bounds each searcher call, retries included
	SearcherTimeout time.Duration

	// Retry controls retries of searcher errors marked retryable
	Retry retry.Config

	Clock  timeutil.Clock
	Logger *logger.Logger

	// NewID generates session IDs
	NewID func() string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SearchTimeout:   DefaultSearchTimeout,
		SearcherTimeout: DefaultSearcherTimeout,
		Retry:           retry.SearchConfig,
		Clock:           timeutil.NewRealClock(),
		Logger:          logger.Nop(),
		NewID:           uuid.NewString,
	}
}

func (c *Config) withDefaults() Config {
	cfg := DefaultConfig()
	if c == nil {
		return cfg
	}
	if c.SearchTimeout > 0 {
		cfg.SearchTimeout = c.SearchTimeout
	}
	if c.SearcherTimeout > 0 {
		cfg.SearcherTimeout = c.SearcherTimeout
	}
	if c.Retry.MaxAttempts > 0 {
		cfg.Retry = c.Retry
	}
	if c.Clock != nil {
		cfg.Clock = c.Clock
	}
	if c.Logger != nil {
		cfg.Logger = c.Logger
	}
	if c.NewID != nil {
		cfg.NewID = c.NewID
	}
	return cfg
}
