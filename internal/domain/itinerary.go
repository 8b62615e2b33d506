// Package domain contains the core business entities and rules for the flight booking system.
// These entities are independent of transport and storage and form the foundation
// upon which the results controller, sessions and adapters are built.
package domain

import (
	"strings"
	"time"
)

// Itinerary represents one priced, bookable search result.
// Trips[0] is the outbound journey; Trips[1], when present, is the return journey.
type Itinerary struct {
	// ID identifies the itinerary within one result set
	ID string `json:"id"`

	// TotalPrice is the total price as a decimal string (e.g., "595.00")
	TotalPrice string `json:"totalPrice"`

	// BasePrice is the fare before taxes and fees as a decimal string
	BasePrice string `json:"basePrice,omitempty"`

	// CurrencyCode is the ISO 4217 currency code (e.g., "USD")
	CurrencyCode string `json:"currencyCode"`

	// SeatsAvailable is the number of bookable seats left at this price
	SeatsAvailable int `json:"seatsAvailable"`

	// Trips contains the directional journeys of this itinerary
	Trips []Trip `json:"trips"`
}

// Trip is one directional journey (outbound or return) of an itinerary.
type Trip struct {
	// From is the IATA code of the trip origin (e.g., "JFK")
	From string `json:"from"`

	// To is the IATA code of the trip destination (e.g., "LHR")
	To string `json:"to"`

	// Stops is the number of intermediate stops (0 = nonstop)
	Stops int `json:"stops"`

	// FlightDuration is the total trip duration as sent by the upstream (e.g., "7h 5m")
	FlightDuration string `json:"flightDuration,omitempty"`

	// LayoverDuration is the total time spent on layovers
	LayoverDuration string `json:"layoverDuration,omitempty"`

	// Legs contains the physical flight segments in travel order
	Legs []Leg `json:"legs"`
}

// Leg is one non-stop flight segment within a trip.
type Leg struct {
	FlightNumber         string `json:"flightNumber"`
	OperatingCarrierCode string `json:"operatingCarrierCode"`
	AircraftCode         string `json:"aircraftCode,omitempty"`

	DepartureAirport  string `json:"departureAirport"`
	DepartureTerminal string `json:"departureTerminal,omitempty"`
	// DepartureDateTime is the local wall-clock time at the departure airport
	DepartureDateTime string `json:"departureDateTime"`

	ArrivalAirport  string `json:"arrivalAirport"`
	ArrivalTerminal string `json:"arrivalTerminal,omitempty"`
	// ArrivalDateTime is the local wall-clock time at the arrival airport
	ArrivalDateTime string `json:"arrivalDateTime"`

	Duration string `json:"duration,omitempty"`

	// LayoverDuration is the connection time after this leg, if any
	LayoverDuration string `json:"layoverDuration,omitempty"`
}

// Outbound returns the outbound trip. ok is false if the itinerary has no trips.
func (it Itinerary) Outbound() (Trip, bool) {
	if len(it.Trips) == 0 {
		return Trip{}, false
	}
	return it.Trips[0], true
}

// Inbound returns the return trip. ok is false for one-way itineraries.
func (it Itinerary) Inbound() (Trip, bool) {
	if len(it.Trips) < 2 {
		return Trip{}, false
	}
	return it.Trips[1], true
}

// IsRoundTrip reports whether the itinerary carries a return trip.
func (it Itinerary) IsRoundTrip() bool {
	return len(it.Trips) >= 2
}

// IsWellFormed reports whether the itinerary has at least one trip.
// Itineraries without trips cannot be rendered and are dropped from derived views.
func (it Itinerary) IsWellFormed() bool {
	return len(it.Trips) > 0
}

// Carriers returns the distinct operating carrier codes across all legs, upper-cased,
// in order of first appearance.
func (it Itinerary) Carriers() []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, trip := range it.Trips {
		for _, leg := range trip.Legs {
			code := strings.ToUpper(strings.TrimSpace(leg.OperatingCarrierCode))
			if code == "" {
				continue
			}
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

// Matches reports whether the trip runs from origin to destination (case-insensitive).
func (t Trip) Matches(origin, destination string) bool {
	return strings.EqualFold(t.From, origin) && strings.EqualFold(t.To, destination)
}

// FirstLeg returns the first leg of the trip.
func (t Trip) FirstLeg() (Leg, bool) {
	if len(t.Legs) == 0 {
		return Leg{}, false
	}
	return t.Legs[0], true
}

// LastLeg returns the last leg of the trip.
func (t Trip) LastLeg() (Leg, bool) {
	if len(t.Legs) == 0 {
		return Leg{}, false
	}
	return t.Legs[len(t.Legs)-1], true
}

// DepartureTime returns the parsed local departure time of the trip's first leg.
// ok is false when the trip has no legs or the timestamp cannot be parsed.
func (t Trip) DepartureTime() (time.Time, bool) {
	leg, ok := t.FirstLeg()
	if !ok {
		return time.Time{}, false
	}
	return ParseLocalDateTime(leg.DepartureDateTime)
}

// ArrivalTime returns the parsed local arrival time of the trip's last leg.
func (t Trip) ArrivalTime() (time.Time, bool) {
	leg, ok := t.LastLeg()
	if !ok {
		return time.Time{}, false
	}
	return ParseLocalDateTime(leg.ArrivalDateTime)
}

// DurationMinutes returns the elapsed minutes between the first departure and the
// last arrival. Missing or unparsable timestamps yield 0.
func (t Trip) DurationMinutes() int {
	dep, ok := t.DepartureTime()
	if !ok {
		return 0
	}
	arr, ok := t.ArrivalTime()
	if !ok {
		return 0
	}
	return int(arr.Sub(dep).Minutes())
}

// dateTimeLayouts are the accepted upstream timestamp layouts, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseLocalDateTime parses an upstream leg timestamp.
// The wall-clock fields are kept as sent: a timestamp with an offset is not converted to UTC.
func ParseLocalDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
