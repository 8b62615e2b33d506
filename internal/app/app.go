// Package app assembles the results service from configuration.
// It is shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/flight-search/flight-booking-system/internal/adapter/provider/fixture"
	"github.com/flight-search/flight-booking-system/internal/adapter/provider/searchapi"
	"github.com/flight-search/flight-booking-system/internal/adapter/store"
	"github.com/flight-search/flight-booking-system/internal/config"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/ratelimit"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/retry"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
	"github.com/flight-search/flight-booking-system/internal/usecase"
)

// Service is an assembled use case plus the resources it holds.
type Service struct {
	UseCase   usecase.ResultsUseCase
	Store     domain.SessionStore
	Searchers []domain.FlightSearcher

	closers []func() error
}

// Close releases the store and its background jobs.
func (s *Service) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewSearchers returns the live search API adapter when a base URL is configured,
// otherwise the fixture adapter.
func NewSearchers(cfg config.SearchAPIConfig, timeout time.Duration, log *logger.Logger) []domain.FlightSearcher {
	if cfg.UsesFixture() {
		log.Info().Str("path", cfg.FixturePath).Msg("Searching fixture file")
		return []domain.FlightSearcher{
			fixture.NewAdapter(cfg.FixturePath, fixture.WithLatency(cfg.FixtureLatency)),
		}
	}

	limiter := ratelimit.New(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit,
		Burst:             cfg.RateBurst,
	})
	log.Info().Str("base_url", cfg.BaseURL).Float64("rate_limit", cfg.RateLimit).Msg("Searching live API")
	return []domain.FlightSearcher{
		searchapi.NewAdapter(searchapi.Config{
			BaseURL:  cfg.BaseURL,
			APIKey:   cfg.APIKey,
			Timeout:  timeout,
			RetryMax: cfg.RetryMax,
		}, limiter, log),
	}
}

// NewStore builds the configured session store. The returned function stops it.
func NewStore(ctx context.Context, cfg *config.Config, clock timeutil.Clock, log *logger.Logger) (domain.SessionStore, func() error, error) {
	switch cfg.Session.Store {
	case config.StoreRedis:
		r, err := store.NewRedis(ctx, store.RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Session.TTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect session store: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Using redis session store")
		return r, r.Close, nil

	default:
		m := store.NewMemory(cfg.Session.TTL, clock, log)
		if err := m.StartSweeper(cfg.Session.SweepSchedule); err != nil {
			return nil, nil, fmt.Errorf("start session sweeper: %w", err)
		}
		log.Info().Dur("ttl", cfg.Session.TTL).Msg("Using in-memory session store")
		return m, func() error { m.Stop(); return nil }, nil
	}
}

// New assembles the results use case from configuration.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Service, error) {
	clock := timeutil.NewRealClock()

	sessions, closeStore, err := NewStore(ctx, cfg, clock, log)
	if err != nil {
		return nil, err
	}

	searchers := NewSearchers(cfg.SearchAPI, cfg.Timeouts.PerSearcher, log)

	uc := usecase.NewResultsUseCase(searchers, sessions, &usecase.Config{
		SearchTimeout:   cfg.Timeouts.GlobalSearch,
		SearcherTimeout: cfg.Timeouts.PerSearcher,
		Retry:           retry.SearchConfig.WithMaxAttempts(cfg.SearchAPI.Attempts),
		Clock:           clock,
		Logger:          log,
	})

	return &Service{
		UseCase:   uc,
		Store:     sessions,
		Searchers: searchers,
		closers:   []func() error{closeStore},
	}, nil
}
