package domain

import (
	"slices"
	"time"
)

// Session is the server-side state of one results page.
// Itineraries are replaced wholesale by each search and never edited in place.
type Session struct {
	ID    string      `json:"id"`
	Query SearchQuery `json:"query"`

	// Itineraries is the raw, unfiltered result set of the latest search
	Itineraries []Itinerary `json:"itineraries"`

	Filters   FilterState    `json:"filters"`
	Sort      SortKey        `json:"sort"`
	Selection SelectionState `json:"selection"`

	// Generation increases with every search started for this session.
	// A result is applied only if its generation is still current.
	Generation int `json:"generation"`

	// SearchFailed records that the latest search returned no data because the upstream failed
	SearchFailed bool `json:"searchFailed,omitempty"`

	// Booking is set once passenger details are confirmed
	Booking *BookingConfirmation `json:"booking,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSession creates a session for the given query with initial filter, sort and selection state.
func NewSession(id string, query SearchQuery, now time.Time) *Session {
	return &Session{
		ID:        id,
		Query:     query,
		Sort:      SortBest,
		Selection: NewSelectionState(query.IsOneWay()),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ApplySearchResult replaces the result set and resets page state derived from the previous one.
func (s *Session) ApplySearchResult(itineraries []Itinerary, failed bool, now time.Time) {
	s.Itineraries = itineraries
	s.SearchFailed = failed
	s.Filters = FilterState{}
	s.Selection = NewSelectionState(s.Query.IsOneWay())
	s.Booking = nil
	s.UpdatedAt = now
}

// Clone returns a copy of the session that shares no mutable state with s.
// Itineraries are treated as immutable and shared.
func (s *Session) Clone() *Session {
	c := *s
	c.Itineraries = slices.Clone(s.Itineraries)
	c.Filters = FilterState{
		DepartureTimes: slices.Clone(s.Filters.DepartureTimes),
		Stops:          slices.Clone(s.Filters.Stops),
		Carriers:       slices.Clone(s.Filters.Carriers),
	}
	if s.Filters.PriceRange != nil {
		r := *s.Filters.PriceRange
		c.Filters.PriceRange = &r
	}
	if s.Selection.Departure != nil {
		d := *s.Selection.Departure
		c.Selection.Departure = &d
	}
	if s.Selection.Return != nil {
		r := *s.Selection.Return
		c.Selection.Return = &r
	}
	if s.Booking != nil {
		b := *s.Booking
		b.Passengers = slices.Clone(s.Booking.Passengers)
		c.Booking = &b
	}
	return &c
}
