// Package fixture serves itineraries from a JSON file in the search endpoint's
// payload format. It backs local development and demos.
package fixture

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flight-search/flight-booking-system/internal/adapter/provider/payload"
	"github.com/flight-search/flight-booking-system/internal/domain"
)

// Name is the unique identifier of the fixture searcher.
const Name = "fixture"

// Adapter reads the fixture file on every search so edits are picked up live.
type Adapter struct {
	path    string
	latency time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLatency delays every search, to exercise timeouts and loading states.
func WithLatency(d time.Duration) Option {
	return func(a *Adapter) { a.latency = d }
}

// NewAdapter creates an Adapter for the given file.
func NewAdapter(path string, opts ...Option) *Adapter {
	a := &Adapter{path: path}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the searcher identifier.
func (a *Adapter) Name() string {
	return Name
}

// Search returns the fixture itineraries whose outbound trip matches the
// query route. Itineraries whose outbound trip has no endpoints are kept.
func (a *Adapter) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Itinerary, error) {
	if a.latency > 0 {
		timer := time.NewTimer(a.latency)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, domain.NewSearchError(Name, ctx.Err())
		case <-timer.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewSearchError(Name, err)
	}

	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, domain.NewRetryableSearchError(Name, fmt.Errorf("%w: read fixture: %v", domain.ErrSearchUnavailable, err))
	}

	itineraries, err := payload.Decode(data)
	if err != nil {
		return nil, domain.NewSearchError(Name, err)
	}

	result := make([]domain.Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		if matchesRoute(it, query) {
			result = append(result, it)
		}
	}
	return result, nil
}

func matchesRoute(it domain.Itinerary, q domain.SearchQuery) bool {
	outbound, ok := it.Outbound()
	if !ok {
		return false
	}
	if outbound.From == "" || outbound.To == "" {
		return true
	}
	return strings.EqualFold(outbound.From, q.From) && strings.EqualFold(outbound.To, q.To)
}

var _ domain.FlightSearcher = (*Adapter)(nil)
