package domain

import "context"

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=domain

// FlightSearcher is the Flight Search Endpoint collaborator.
// Implementations return the priced itineraries for a query and must respect
// context cancellation.
type FlightSearcher interface {
	// Name returns the unique identifier of the search source.
	Name() string

	// Search fetches itineraries for the query.
	Search(ctx context.Context, query SearchQuery) ([]Itinerary, error)
}

// SessionStore persists results-page sessions.
type SessionStore interface {
	// Get returns the session or an error wrapping ErrSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// Save creates or replaces the session.
	Save(ctx context.Context, session *Session) error

	// Delete removes the session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error

	// Update loads the session, applies fn and saves the result as one atomic
	// step with respect to every other writer of the store, including other
	// processes. Nothing is saved when fn fails. fn may run more than once
	// and must only change the session it is given.
	Update(ctx context.Context, id string, fn func(*Session) error) error
}
