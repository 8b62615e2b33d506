// Package http provides the HTTP handler layer for the flight booking API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// StartSearchRequest is the route state that opens a results page.
type StartSearchRequest struct {
	// From is the IATA code of the origin airport (e.g., "JFK")
	From string `json:"from" example:"JFK"`

	// To is the IATA code of the destination airport (e.g., "LHR")
	To string `json:"to" example:"LHR"`

	// DepartDate is the outbound date in YYYY-MM-DD format
	DepartDate string `json:"departDate" example:"2026-12-15"`

	// ReturnDate is the return date in YYYY-MM-DD format; omit for one-way searches
	ReturnDate string `json:"returnDate,omitempty" example:"2026-12-22"`

	// Adults is the number of adult passengers (default: 1)
	Adults int `json:"adults" example:"1"`

	// Children is the number of child passengers
	Children int `json:"children" example:"0"`

	// CurrencyCode is the ISO 4217 currency prices are requested in (default: USD)
	CurrencyCode string `json:"currencyCode,omitempty" example:"USD"`
}

// FiltersRequest replaces the filter state of a results page.
// Example: {"priceRange": {"min": "500", "max": "800"}, "departureTimes": ["Morning"], "stops": ["Nonstop"], "carriers": ["BA"]}
type FiltersRequest struct {
	// PriceRange restricts total price; omit for no restriction
	PriceRange *PriceRangeRequest `json:"priceRange,omitempty"`

	// DepartureTimes lists departure buckets: Morning, Afternoon, Evening
	DepartureTimes []string `json:"departureTimes,omitempty" example:"Morning,Evening"`

	// Stops lists stop labels: Nonstop, 1 Stop, 2+ Stops
	Stops []string `json:"stops,omitempty" example:"Nonstop"`

	// Carriers lists carrier codes; an itinerary matches if any leg is operated by one of them
	Carriers []string `json:"carriers,omitempty" example:"BA,AA"`
}

// PriceRangeRequest is an inclusive price interval in decimal strings.
type PriceRangeRequest struct {
	Min string `json:"min" example:"500"`
	Max string `json:"max" example:"800"`
}

// SortRequest changes the sort order of a results page.
type SortRequest struct {
	// SortBy is one of: best, price-asc, price-desc, duration-asc, departure-asc
	SortBy string `json:"sortBy" example:"price-asc"`
}

// SelectRequest chooses an itinerary in the current selection stage.
type SelectRequest struct {
	ItineraryID string `json:"itineraryId" example:"3"`
}

// ResetSelectionRequest moves the selection flow back to an earlier stage.
type ResetSelectionRequest struct {
	// Stage is choosing-departure or choosing-return
	Stage string `json:"stage" example:"choosing-departure"`
}

// BookingRequest carries the passenger-details form.
type BookingRequest struct {
	Passengers []PassengerRequest `json:"passengers"`
	Contact    ContactRequest     `json:"contact"`
}

// PassengerRequest holds one traveller's details.
type PassengerRequest struct {
	// Type is adult or child
	Type        string `json:"type" example:"adult"`
	FirstName   string `json:"firstName" example:"Ana"`
	LastName    string `json:"lastName" example:"Müller"`
	DateOfBirth string `json:"dateOfBirth,omitempty" example:"1990-04-02"`
}

// ContactRequest is the booking contact.
type ContactRequest struct {
	Email string `json:"email" example:"ana@example.com"`
	Phone string `json:"phone,omitempty" example:"+44 20 7946 0000"`
}

// Validation regex patterns.
var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	carrierCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)
	currencyPattern    = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// orNil returns errs as an error, or nil when it holds nothing.
func (v *ValidationErrors) orNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}

// Validate validates the search request and normalizes codes to upper case.
func (r *StartSearchRequest) Validate() error {
	errs := &ValidationErrors{}

	r.From = validateAirport(errs, "from", r.From)
	r.To = validateAirport(errs, "to", r.To)
	if r.From != "" && r.From == r.To {
		errs.Add("to", "from and to must be different")
	}

	depart, ok := validateDate(errs, "departDate", r.DepartDate, true)
	if r.ReturnDate != "" {
		if ret, retOK := validateDate(errs, "returnDate", r.ReturnDate, false); retOK && ok && ret.Before(depart) {
			errs.Add("returnDate", "returnDate cannot be before departDate")
		}
	}

	r.validatePassengers(errs)

	r.CurrencyCode = strings.ToUpper(strings.TrimSpace(r.CurrencyCode))
	if r.CurrencyCode != "" && !currencyPattern.MatchString(r.CurrencyCode) {
		errs.Add("currencyCode", "currencyCode must be a 3-letter ISO 4217 code")
	}

	return errs.orNil()
}

func (r *StartSearchRequest) validatePassengers(errs *ValidationErrors) {
	if r.Adults < 0 {
		errs.Add("adults", "adults must be a non-negative number")
	}
	if r.Children < 0 {
		errs.Add("children", "children must be a non-negative number")
	}
	if r.Children > 0 && r.Adults == 0 {
		errs.Add("adults", "at least one adult is required")
	}
	if r.Adults+r.Children > domain.MaxPassengers {
		errs.Add("adults", fmt.Sprintf("passengers cannot exceed %d", domain.MaxPassengers))
	}
}

func validateAirport(errs *ValidationErrors, field, value string) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		errs.Add(field, field+" is required")
		return code
	}
	if !airportCodePattern.MatchString(code) {
		errs.Add(field, field+" must be a valid 3-letter IATA airport code")
	}
	return code
}

func validateDate(errs *ValidationErrors, field, value string, required bool) (time.Time, bool) {
	if value == "" {
		if required {
			errs.Add(field, field+" is required")
		}
		return time.Time{}, false
	}
	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		errs.Add(field, field+" is not a valid date")
		return time.Time{}, false
	}
	return t, true
}

// Validate validates the filter request and normalizes carrier codes.
func (r *FiltersRequest) Validate() error {
	errs := &ValidationErrors{}

	if r.PriceRange != nil {
		validateAmount(errs, "priceRange.min", r.PriceRange.Min)
		validateAmount(errs, "priceRange.max", r.PriceRange.Max)
	}

	for i, b := range r.DepartureTimes {
		if _, ok := domain.ParseTimeBucket(b); !ok {
			errs.Add(fmt.Sprintf("departureTimes[%d]", i), "departure time must be one of: Morning, Afternoon, Evening")
		}
	}

	for i, s := range r.Stops {
		if _, ok := domain.ParseStopLabel(s); !ok {
			errs.Add(fmt.Sprintf("stops[%d]", i), "stops must be one of: Nonstop, 1 Stop, 2+ Stops")
		}
	}

	for i, code := range r.Carriers {
		normalized := strings.ToUpper(strings.TrimSpace(code))
		if !carrierCodePattern.MatchString(normalized) {
			errs.Add(fmt.Sprintf("carriers[%d]", i), "carrier code must be 2 or 3 characters")
		}
		r.Carriers[i] = normalized
	}

	return errs.orNil()
}

func validateAmount(errs *ValidationErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, field+" is required when priceRange is specified")
		return
	}
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		errs.Add(field, field+" must be a decimal number")
		return
	}
	if d.IsNegative() {
		errs.Add(field, field+" must not be negative")
	}
}

// Validate checks the sort key.
func (r *SortRequest) Validate() error {
	errs := &ValidationErrors{}
	if !domain.SortKey(strings.ToLower(strings.TrimSpace(r.SortBy))).IsValid() {
		errs.Add("sortBy", "sortBy must be one of: best, price-asc, price-desc, duration-asc, departure-asc")
	}
	return errs.orNil()
}

// Validate checks the itinerary id.
func (r *SelectRequest) Validate() error {
	errs := &ValidationErrors{}
	r.ItineraryID = strings.TrimSpace(r.ItineraryID)
	if r.ItineraryID == "" {
		errs.Add("itineraryId", "itineraryId is required")
	}
	return errs.orNil()
}

// Validate checks the target stage.
func (r *ResetSelectionRequest) Validate() error {
	errs := &ValidationErrors{}
	if _, err := domain.ParseStage(r.Stage); err != nil {
		errs.Add("stage", "stage must be one of: choosing-departure, choosing-return")
	}
	return errs.orNil()
}

// Validate checks the shape of the passenger-details form.
// Passenger counts are checked against the search by the use case.
func (r *BookingRequest) Validate() error {
	errs := &ValidationErrors{}

	if len(r.Passengers) == 0 {
		errs.Add("passengers", "at least one passenger is required")
	}
	for i, p := range r.Passengers {
		field := fmt.Sprintf("passengers[%d]", i)
		switch domain.PassengerType(strings.ToLower(p.Type)) {
		case domain.PassengerAdult, domain.PassengerChild:
		default:
			errs.Add(field+".type", "type must be adult or child")
		}
		if strings.TrimSpace(p.FirstName) == "" {
			errs.Add(field+".firstName", "firstName is required")
		}
		if strings.TrimSpace(p.LastName) == "" {
			errs.Add(field+".lastName", "lastName is required")
		}
		if p.DateOfBirth != "" {
			validateDate(errs, field+".dateOfBirth", p.DateOfBirth, false)
		}
	}

	if strings.TrimSpace(r.Contact.Email) == "" {
		errs.Add("contact.email", "contact.email is required")
	}

	return errs.orNil()
}
