package usecase

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// sortEntry caches the derived sort fields of one itinerary.
type sortEntry struct {
	itinerary domain.Itinerary
	price     decimal.Decimal
	minutes   int
	departure time.Time
}

// SortItineraries orders itineraries by the given key.
// Uses stable sorting so ties keep their prior relative order.
//
// Sort keys:
//   - SortBest: upstream (recommended) order, no reordering
//   - SortPriceAsc / SortPriceDesc: total price parsed as a decimal, unparsable as zero
//   - SortDurationAsc: outbound last arrival minus first departure in minutes, missing as zero
//   - SortDepartureAsc: outbound first departure, missing timestamps first
//
// Behavior:
//   - Unknown keys behave like SortBest
//   - Does NOT mutate the input slice
func SortItineraries(itineraries []domain.Itinerary, key domain.SortKey) []domain.Itinerary {
	// Copy to avoid mutating input
	result := make([]domain.Itinerary, len(itineraries))
	copy(result, itineraries)

	if len(result) <= 1 || key == domain.SortBest || !key.IsValid() {
		return result
	}

	entries := make([]sortEntry, len(result))
	for i, it := range result {
		entries[i] = newSortEntry(it)
	}

	var less func(a, b sortEntry) bool
	switch key {
	case domain.SortPriceAsc:
		less = func(a, b sortEntry) bool { return a.price.LessThan(b.price) }
	case domain.SortPriceDesc:
		less = func(a, b sortEntry) bool { return a.price.GreaterThan(b.price) }
	case domain.SortDurationAsc:
		less = func(a, b sortEntry) bool { return a.minutes < b.minutes }
	case domain.SortDepartureAsc:
		less = func(a, b sortEntry) bool { return a.departure.Before(b.departure) }
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return less(entries[i], entries[j])
	})

	for i, e := range entries {
		result[i] = e.itinerary
	}
	return result
}

func newSortEntry(it domain.Itinerary) sortEntry {
	e := sortEntry{itinerary: it, price: it.TotalAmount()}
	if outbound, ok := it.Outbound(); ok {
		e.minutes = outbound.DurationMinutes()
		if dep, ok := outbound.DepartureTime(); ok {
			e.departure = dep
		}
	}
	return e
}
