package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SearchQuery is the route state that opens a results page.
type SearchQuery struct {
	// From is the IATA code of the origin airport (e.g., "JFK")
	From string `json:"from"`

	// To is the IATA code of the destination airport (e.g., "LHR")
	To string `json:"to"`

	// DepartDate is the outbound date in YYYY-MM-DD format
	DepartDate string `json:"departDate"`

	// ReturnDate is the return date in YYYY-MM-DD format; empty for one-way searches
	ReturnDate string `json:"returnDate,omitempty"`

	// Adults is the number of adult passengers (default: 1)
	Adults int `json:"adults"`

	// Children is the number of child passengers
	Children int `json:"children"`

	// CurrencyCode is the ISO 4217 currency prices are requested in (default: USD)
	CurrencyCode string `json:"currencyCode,omitempty"`
}

// Passenger limits per search.
const (
	MaxPassengers   = 9
	DefaultCurrency = "USD"
)

// airportCodeRegex matches valid IATA airport codes (3 uppercase letters).
var airportCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// currencyRegex matches ISO 4217 codes.
var currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)

const dateLayout = "2006-01-02"

// IsOneWay reports whether the query has no return date.
func (q SearchQuery) IsOneWay() bool {
	return q.ReturnDate == ""
}

// Passengers returns the total number of travellers.
func (q SearchQuery) Passengers() int {
	return q.Adults + q.Children
}

// SetDefaults normalizes codes and applies defaults to empty optional fields.
func (q *SearchQuery) SetDefaults() {
	q.From = strings.ToUpper(strings.TrimSpace(q.From))
	q.To = strings.ToUpper(strings.TrimSpace(q.To))
	q.CurrencyCode = strings.ToUpper(strings.TrimSpace(q.CurrencyCode))
	if q.Adults == 0 && q.Children == 0 {
		q.Adults = 1
	}
	if q.CurrencyCode == "" {
		q.CurrencyCode = DefaultCurrency
	}
}

// Validate checks if the query is valid.
// Returns a wrapped ErrInvalidRequest error if validation fails.
func (q *SearchQuery) Validate() error {
	if !airportCodeRegex.MatchString(q.From) {
		return fmt.Errorf("%w: from must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, q.From)
	}
	if !airportCodeRegex.MatchString(q.To) {
		return fmt.Errorf("%w: to must be a valid 3-letter IATA code, got %q", ErrInvalidRequest, q.To)
	}
	if q.From == q.To {
		return fmt.Errorf("%w: from and to must be different", ErrInvalidRequest)
	}

	depart, err := time.Parse(dateLayout, q.DepartDate)
	if err != nil {
		return fmt.Errorf("%w: departDate must be a valid YYYY-MM-DD date, got %q", ErrInvalidRequest, q.DepartDate)
	}
	if q.ReturnDate != "" {
		ret, err := time.Parse(dateLayout, q.ReturnDate)
		if err != nil {
			return fmt.Errorf("%w: returnDate must be a valid YYYY-MM-DD date, got %q", ErrInvalidRequest, q.ReturnDate)
		}
		if ret.Before(depart) {
			return fmt.Errorf("%w: returnDate cannot be before departDate", ErrInvalidRequest)
		}
	}

	if q.Adults < 1 {
		return fmt.Errorf("%w: at least one adult is required", ErrInvalidRequest)
	}
	if q.Children < 0 {
		return fmt.Errorf("%w: children cannot be negative", ErrInvalidRequest)
	}
	if q.Passengers() > MaxPassengers {
		return fmt.Errorf("%w: passengers cannot exceed %d", ErrInvalidRequest, MaxPassengers)
	}
	if !currencyRegex.MatchString(q.CurrencyCode) {
		return fmt.Errorf("%w: currencyCode must be a 3-letter ISO 4217 code, got %q", ErrInvalidRequest, q.CurrencyCode)
	}
	return nil
}

// BookingHandoff is the route state passed from the results page to the
// passenger-details and review screens.
type BookingHandoff struct {
	Flight     Itinerary `json:"flight"`
	Passengers int       `json:"passengers"`
}
