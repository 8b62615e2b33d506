package usecase

import (
	"github.com/flight-search/flight-booking-system/internal/domain"
)

// ResultsView is the derived state the results page renders.
type ResultsView struct {
	SessionID string             `json:"sessionId"`
	Query     domain.SearchQuery `json:"query"`
	Stage     domain.Stage       `json:"stage"`
	Sort      domain.SortKey     `json:"sort"`

	// Filters is the effective filter state, price range clamped to PriceBounds
	Filters domain.FilterState `json:"filters"`

	// PriceBounds is the observed price range of the unfiltered result set
	PriceBounds *domain.PriceRange `json:"priceBounds,omitempty"`

	// Carriers lists the carrier codes available for filtering
	Carriers []string `json:"carriers"`

	TotalResults    int `json:"totalResults"`
	MatchingResults int `json:"matchingResults"`

	Partition

	Departure *domain.Itinerary `json:"departure,omitempty"`
	Return    *domain.Itinerary `json:"return,omitempty"`

	// Combined is the itinerary that will be handed to the booking flow, set in review
	Combined *domain.Itinerary `json:"combined,omitempty"`

	// SearchFailed reports that the upstream search failed and the list is empty
	SearchFailed bool `json:"searchFailed,omitempty"`
}

// DeriveView computes the page view from a session: clamp the filters, filter, sort,
// then partition by the selection stage. It never mutates the session.
func DeriveView(s *domain.Session) ResultsView {
	filters := ClampFilters(s.Filters, s.Itineraries)
	filtered := ApplyFilters(s.Itineraries, filters)
	sorted := SortItineraries(filtered, s.Sort)
	partition := PartitionByDirection(sorted, s.Query.From, s.Query.To, s.Selection.Departure)

	view := ResultsView{
		SessionID:       s.ID,
		Query:           s.Query,
		Stage:           s.Selection.Stage,
		Sort:            s.Sort,
		Filters:         filters,
		Carriers:        AvailableCarriers(s.Itineraries),
		TotalResults:    len(s.Itineraries),
		MatchingResults: len(sorted),
		Partition:       partition,
		Departure:       s.Selection.Departure,
		Return:          s.Selection.Return,
		SearchFailed:    s.SearchFailed,
	}
	if bounds, ok := ObservedPriceBounds(s.Itineraries); ok {
		view.PriceBounds = &bounds
	}
	if combined, err := AssembleSelection(s.Selection); err == nil {
		view.Combined = &combined
	}
	return view
}
