// Package payload decodes and normalizes the itinerary payload returned by
// flight search endpoints and fixture files.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
)

// envelope is the wrapped response shape: {"data": [...]}.
type envelope struct {
	Data []json.RawMessage `json:"data"`
}

// record is one itinerary as sent upstream. Prices and IDs may arrive as
// JSON strings or numbers.
type record struct {
	ID             flexString    `json:"id"`
	TotalPrice     flexString    `json:"totalPrice"`
	BasePrice      flexString    `json:"basePrice"`
	CurrencyCode   string        `json:"currencyCode"`
	SeatsAvailable int           `json:"seatsAvailable"`
	Trips          []domain.Trip `json:"trips"`
}

// flexString accepts a JSON string, number or null.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// ErrMalformed indicates a body that is neither an array nor a data envelope.
var ErrMalformed = errors.New("malformed itinerary payload")

// Decode parses a bare JSON array of itineraries or a {"data": [...]} envelope
// and normalizes every record. Only a body that is not a list fails; records
// that do not decode or have no trips are dropped.
func Decode(body []byte) ([]domain.Itinerary, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}

	var raw []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raw = env.Data
	default:
		return nil, fmt.Errorf("%w: unexpected leading %q", ErrMalformed, body[0])
	}

	return normalize(decodeRecords(raw)), nil
}

// decodeRecords unmarshals each element on its own so one bad record does
// not cost the rest of the page.
func decodeRecords(raw []json.RawMessage) []record {
	records := make([]record, 0, len(raw))
	for i, msg := range raw {
		var r record
		if err := json.Unmarshal(msg, &r); err != nil {
			logger.Debug().Err(err).Int("index", i).Msg("skipping malformed itinerary record")
			continue
		}
		records = append(records, r)
	}
	return records
}

// normalize converts wire records to domain itineraries, skipping records
// that have no trips.
func normalize(records []record) []domain.Itinerary {
	result := make([]domain.Itinerary, 0, len(records))
	for _, r := range records {
		if len(r.Trips) == 0 {
			continue
		}
		result = append(result, normalizeItinerary(r))
	}
	return result
}

func normalizeItinerary(r record) domain.Itinerary {
	trips := make([]domain.Trip, len(r.Trips))
	for i, t := range r.Trips {
		trips[i] = normalizeTrip(t)
	}
	return domain.Itinerary{
		ID:             string(r.ID),
		TotalPrice:     string(r.TotalPrice),
		BasePrice:      string(r.BasePrice),
		CurrencyCode:   strings.ToUpper(strings.TrimSpace(r.CurrencyCode)),
		SeatsAvailable: max(r.SeatsAvailable, 0),
		Trips:          trips,
	}
}

// normalizeTrip upper-cases codes, fills missing endpoints from the legs and
// derives the stop count from the legs when upstream sent none.
func normalizeTrip(t domain.Trip) domain.Trip {
	legs := make([]domain.Leg, len(t.Legs))
	for i, l := range t.Legs {
		l.OperatingCarrierCode = upper(l.OperatingCarrierCode)
		l.DepartureAirport = upper(l.DepartureAirport)
		l.ArrivalAirport = upper(l.ArrivalAirport)
		l.FlightNumber = strings.TrimSpace(l.FlightNumber)
		legs[i] = l
	}
	t.Legs = legs
	t.From = upper(t.From)
	t.To = upper(t.To)

	if len(legs) > 0 {
		if t.From == "" {
			t.From = legs[0].DepartureAirport
		}
		if t.To == "" {
			t.To = legs[len(legs)-1].ArrivalAirport
		}
	}
	if t.Stops == 0 && len(legs) > 1 {
		t.Stops = len(legs) - 1
	}
	if t.Stops < 0 {
		t.Stops = 0
	}
	return t
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
