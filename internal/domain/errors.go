package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors used across the system. Wrap them with fmt.Errorf("%w: ...")
// and match with errors.Is.
var (
	// ErrInvalidRequest indicates malformed or invalid input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidTransition indicates a selection action not allowed in the current stage.
	ErrInvalidTransition = errors.New("invalid selection transition")

	// ErrPreconditionViolation indicates a caller bug, such as assembling a
	// combined itinerary before both legs are chosen.
	ErrPreconditionViolation = errors.New("precondition violation")

	// ErrSessionNotFound indicates an unknown or expired search session.
	ErrSessionNotFound = errors.New("search session not found")

	// ErrItineraryNotFound indicates an itinerary ID not present among the candidates.
	ErrItineraryNotFound = errors.New("itinerary not found")

	// ErrSearchTimeout indicates the upstream search did not answer in time.
	ErrSearchTimeout = errors.New("search timeout")

	// ErrSearchUnavailable indicates the upstream search could not be reached
	// or answered with a non-success status.
	ErrSearchUnavailable = errors.New("search unavailable")

	// ErrStaleSearch indicates a search result superseded by a newer search.
	ErrStaleSearch = errors.New("stale search result")

	// ErrSessionConflict indicates a session update that kept losing to
	// concurrent writers and gave up.
	ErrSessionConflict = errors.New("session modified concurrently")
)

// SearchError wraps a failure of a flight search source.
type SearchError struct {
	// Source is the name of the failing source
	Source string

	// Err is the underlying error
	Err error

	// Retryable reports whether repeating the request may succeed
	Retryable bool
}

// NewSearchError creates a non-retryable SearchError.
func NewSearchError(source string, err error) *SearchError {
	return &SearchError{Source: source, Err: err}
}

// NewRetryableSearchError creates a SearchError that may be retried.
func NewRetryableSearchError(source string, err error) *SearchError {
	return &SearchError{Source: source, Err: err, Retryable: true}
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	return fmt.Sprintf("search source %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *SearchError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is marked retryable.
func IsRetryable(err error) bool {
	var se *SearchError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return false
}

// IsTimeout reports whether err is a search timeout or a context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrSearchTimeout) || errors.Is(err, context.DeadlineExceeded)
}
