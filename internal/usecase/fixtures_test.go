package usecase

import (
	"time"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

var testNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

// leg builds a leg operated by carrier departing at dep and arriving at arr.
func leg(carrier, from, to, dep, arr string) domain.Leg {
	return domain.Leg{
		FlightNumber:         carrier + "100",
		OperatingCarrierCode: carrier,
		DepartureAirport:     from,
		DepartureDateTime:    dep,
		ArrivalAirport:       to,
		ArrivalDateTime:      arr,
	}
}

// trip builds a trip over the given legs; stops is derived from the leg count.
func trip(from, to string, legs ...domain.Leg) domain.Trip {
	stops := len(legs) - 1
	if stops < 0 {
		stops = 0
	}
	return domain.Trip{From: from, To: to, Stops: stops, Legs: legs}
}

func itinerary(id, price string, trips ...domain.Trip) domain.Itinerary {
	return domain.Itinerary{
		ID:             id,
		TotalPrice:     price,
		BasePrice:      price,
		CurrencyCode:   "USD",
		SeatsAvailable: 9,
		Trips:          trips,
	}
}

// roundTrip builds a JFK ⇄ LHR itinerary with a nonstop outbound on carrier
// departing at outDep, and a nonstop return.
func roundTrip(id, price, carrier, outDep, outArr string) domain.Itinerary {
	return itinerary(id, price,
		trip("JFK", "LHR", leg(carrier, "JFK", "LHR", outDep, outArr)),
		trip("LHR", "JFK", leg(carrier, "LHR", "JFK", "2024-06-08T10:00:00", "2024-06-08T13:00:00")),
	)
}

// sampleItineraries is a small mixed result set.
//
//	a: AA nonstop 08:15, 720, 420 min
//	b: UA 1 stop 06:30, 595, 750 min
//	c: BA nonstop 19:40, 880, 400 min
//	d: UA/LH 2 stops 13:05, 640, 900 min
func sampleItineraries() []domain.Itinerary {
	return []domain.Itinerary{
		roundTrip("a", "720", "AA", "2024-06-01T08:15:00", "2024-06-01T15:15:00"),
		itinerary("b", "595",
			trip("JFK", "LHR",
				leg("UA", "JFK", "EWR", "2024-06-01T06:30:00", "2024-06-01T07:30:00"),
				leg("UA", "EWR", "LHR", "2024-06-01T09:00:00", "2024-06-01T19:00:00")),
			trip("LHR", "JFK", leg("UA", "LHR", "JFK", "2024-06-08T09:00:00", "2024-06-08T12:00:00")),
		),
		roundTrip("c", "880", "BA", "2024-06-01T19:40:00", "2024-06-02T02:20:00"),
		itinerary("d", "640",
			trip("JFK", "LHR",
				leg("UA", "JFK", "ORD", "2024-06-01T13:05:00", "2024-06-01T15:00:00"),
				leg("LH", "ORD", "FRA", "2024-06-01T17:00:00", "2024-06-02T03:00:00"),
				leg("LH", "FRA", "LHR", "2024-06-02T04:00:00", "2024-06-02T04:05:00")),
			trip("LHR", "JFK", leg("LH", "LHR", "JFK", "2024-06-08T15:00:00", "2024-06-08T18:00:00")),
		),
	}
}

func ids(itineraries []domain.Itinerary) []string {
	out := make([]string, len(itineraries))
	for i, it := range itineraries {
		out[i] = it.ID
	}
	return out
}
