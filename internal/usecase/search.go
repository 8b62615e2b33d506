package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/retry"
)

// SearchOutcome is the gathered result of one search across all searchers.
type SearchOutcome struct {
	Itineraries []domain.Itinerary
	Queried     []string
	Failed      []string
	Duration    time.Duration
}

// searcherResult holds the result from a single searcher.
type searcherResult struct {
	index       int
	name        string
	itineraries []domain.Itinerary
	err         error
}

// aggregator fans a query out to every searcher and gathers the results
// in registration order.
type aggregator struct {
	searchers       []domain.FlightSearcher
	searchTimeout   time.Duration
	searcherTimeout time.Duration
	retry           retry.Config
	log             *logger.Logger
}

func newAggregator(searchers []domain.FlightSearcher, cfg Config) *aggregator {
	return &aggregator{
		searchers:       searchers,
		searchTimeout:   cfg.SearchTimeout,
		searcherTimeout: cfg.SearcherTimeout,
		retry:           cfg.Retry.WithRetryIf(domain.IsRetryable),
		log:             cfg.Logger,
	}
}

// Search queries all searchers concurrently under the global timeout.
// It fails only when no searcher produced a result.
func (a *aggregator) Search(ctx context.Context, query domain.SearchQuery) (SearchOutcome, error) {
	start := time.Now()
	if len(a.searchers) == 0 {
		return SearchOutcome{}, fmt.Errorf("%w: no searchers configured", domain.ErrSearchUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.searchTimeout)
	defer cancel()

	// Buffered so late searchers never block after the deadline
	resultsChan := make(chan searcherResult, len(a.searchers))
	var wg sync.WaitGroup
	for i, s := range a.searchers {
		wg.Add(1)
		go func(i int, s domain.FlightSearcher) {
			defer wg.Done()
			resultsChan <- a.querySearcher(ctx, i, s, query)
		}(i, s)
	}
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]*searcherResult, len(a.searchers))
	received := 0
gather:
	for received < len(a.searchers) {
		select {
		case r, ok := <-resultsChan:
			if !ok {
				break gather
			}
			results[r.index] = &r
			received++
		case <-ctx.Done():
			break gather
		}
	}

	outcome := SearchOutcome{}
	var firstErr error
	allTimedOut := true
	for i, s := range a.searchers {
		name := s.Name()
		outcome.Queried = append(outcome.Queried, name)

		r := results[i]
		if r == nil {
			outcome.Failed = append(outcome.Failed, name)
			if firstErr == nil {
				firstErr = domain.NewSearchError(name, domain.ErrSearchTimeout)
			}
			continue
		}
		if r.err != nil {
			outcome.Failed = append(outcome.Failed, name)
			if firstErr == nil {
				firstErr = r.err
			}
			if !domain.IsTimeout(r.err) {
				allTimedOut = false
			}
			continue
		}
		allTimedOut = false
		outcome.Itineraries = append(outcome.Itineraries, r.itineraries...)
	}
	outcome.Duration = time.Since(start)

	if len(outcome.Failed) == len(a.searchers) {
		sentinel := domain.ErrSearchUnavailable
		if allTimedOut {
			sentinel = domain.ErrSearchTimeout
		}
		return outcome, fmt.Errorf("%w: %w", sentinel, firstErr)
	}

	outcome.Itineraries = assignItineraryIDs(outcome.Itineraries)
	return outcome, nil
}

// querySearcher queries one searcher with timeout, retries and panic recovery.
func (a *aggregator) querySearcher(ctx context.Context, index int, s domain.FlightSearcher, query domain.SearchQuery) (result searcherResult) {
	name := s.Name()
	result = searcherResult{index: index, name: name}
	log := a.log.For(ctx).WithSearcher(name)

	ctx, cancel := context.WithTimeout(ctx, a.searcherTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("searcher panicked")
			result.itineraries = nil
			result.err = domain.NewSearchError(name, fmt.Errorf("searcher panic: %v", r))
		}
	}()

	cfg := a.retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("retrying search")
	})

	itineraries, err := retry.DoWithResult(ctx, func() ([]domain.Itinerary, error) {
		return s.Search(ctx, query)
	}, cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrSearchTimeout) {
			err = domain.NewSearchError(name, domain.ErrSearchTimeout)
		}
		result.err = err
		return result
	}

	result.itineraries = itineraries
	return result
}

// assignItineraryIDs gives every itinerary a unique ID. Missing or duplicate
// IDs are replaced by the 1-based position, suffixed when that is taken.
func assignItineraryIDs(itineraries []domain.Itinerary) []domain.Itinerary {
	seen := make(map[string]bool, len(itineraries))
	for _, it := range itineraries {
		if it.ID != "" {
			seen[it.ID] = false
		}
	}

	out := make([]domain.Itinerary, len(itineraries))
	for i, it := range itineraries {
		if it.ID == "" || seen[it.ID] {
			id := strconv.Itoa(i + 1)
			for n := 2; isTaken(seen, id); n++ {
				id = strconv.Itoa(i+1) + "-" + strconv.Itoa(n)
			}
			it.ID = id
		}
		seen[it.ID] = true
		out[i] = it
	}
	return out
}

func isTaken(seen map[string]bool, id string) bool {
	_, ok := seen[id]
	return ok
}
