// Package mock provides test doubles for the flight booking system.
// These mocks are designed for integration testing where we need
// configurable behavior (delays, errors, specific responses).
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// Searcher is a configurable implementation of domain.FlightSearcher.
// It supports delays, errors and per-call responses for testing timeouts,
// retries and stale refreshes.
type Searcher struct {
	name string

	mu          sync.Mutex
	itineraries []domain.Itinerary
	err         error
	failFirst   int
	delay       time.Duration
	calls       int
	queries     []domain.SearchQuery
}

// NewSearcher creates a new mock searcher with the given name.
// The searcher is configured using the builder pattern methods.
func NewSearcher(name string) *Searcher {
	return &Searcher{name: name}
}

// WithItineraries configures the searcher to return the given itineraries.
func (s *Searcher) WithItineraries(itineraries []domain.Itinerary) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itineraries = itineraries
	return s
}

// WithError configures the searcher to fail every call with err.
func (s *Searcher) WithError(err error) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// WithFailures makes the first n calls fail with a retryable
// domain.ErrSearchUnavailable.
func (s *Searcher) WithFailures(n int) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFirst = n
	return s
}

// WithDelay configures the searcher to wait before responding.
func (s *Searcher) WithDelay(d time.Duration) *Searcher {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
	return s
}

// Name returns the searcher's identifier.
func (s *Searcher) Name() string {
	return s.name
}

// Search respects context cancellation, applies the configured delay,
// and returns a copy of the configured itineraries or error.
func (s *Searcher) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Itinerary, error) {
	s.mu.Lock()
	s.calls++
	call := s.calls
	s.queries = append(s.queries, query)
	delay, err, failFirst := s.delay, s.err, s.failFirst
	result := append([]domain.Itinerary(nil), s.itineraries...)
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil {
		return nil, err
	}
	if call <= failFirst {
		return nil, domain.NewRetryableSearchError(s.name, fmt.Errorf("%w: attempt %d", domain.ErrSearchUnavailable, call))
	}
	return result, nil
}

// CallCount returns the number of times Search was called.
func (s *Searcher) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Queries returns the queries received so far.
func (s *Searcher) Queries() []domain.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SearchQuery(nil), s.queries...)
}

// Reset clears the call history.
func (s *Searcher) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = 0
	s.queries = nil
}

var _ domain.FlightSearcher = (*Searcher)(nil)

// SampleItineraries returns count JFK ⇄ LHR round trips on carrier.
// Outbound departures start at 06:00 on 2024-06-01 and are two hours apart;
// prices start at 500 and rise by 25. Every third itinerary has one stop.
func SampleItineraries(carrier string, count int) []domain.Itinerary {
	base := time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)
	returnDep := time.Date(2024, 6, 8, 10, 0, 0, 0, time.UTC)

	itineraries := make([]domain.Itinerary, count)
	for i := range count {
		dep := base.Add(time.Duration(i*2) * time.Hour)
		arr := dep.Add(7 * time.Hour)

		outbound := domain.Trip{
			From: "JFK", To: "LHR",
			Legs: []domain.Leg{leg(carrier, i, "JFK", "LHR", dep, arr)},
		}
		if i%3 == 2 {
			mid := dep.Add(3 * time.Hour)
			outbound.Stops = 1
			outbound.Legs = []domain.Leg{
				leg(carrier, i, "JFK", "BOS", dep, mid.Add(-time.Hour)),
				leg(carrier, i+50, "BOS", "LHR", mid, arr.Add(2*time.Hour)),
			}
		}

		itineraries[i] = domain.Itinerary{
			ID:             fmt.Sprintf("%s-%d", carrier, i+1),
			TotalPrice:     fmt.Sprintf("%d.00", 500+i*25),
			CurrencyCode:   domain.DefaultCurrency,
			SeatsAvailable: 9,
			Trips: []domain.Trip{
				outbound,
				{
					From: "LHR", To: "JFK",
					Legs: []domain.Leg{leg(carrier, i+100, "LHR", "JFK", returnDep, returnDep.Add(8*time.Hour))},
				},
			},
		}
	}
	return itineraries
}

func leg(carrier string, n int, from, to string, dep, arr time.Time) domain.Leg {
	const layout = "2006-01-02T15:04:05"
	return domain.Leg{
		FlightNumber:         fmt.Sprintf("%s%d", carrier, 100+n),
		OperatingCarrierCode: carrier,
		DepartureAirport:     from,
		DepartureDateTime:    dep.Format(layout),
		ArrivalAirport:       to,
		ArrivalDateTime:      arr.Format(layout),
	}
}
