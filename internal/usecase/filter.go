// Package usecase provides the business logic of the flight results page:
// the pure filter/sort/selection functions and the session use cases that thread
// page state through them.
package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// ApplyFilters returns the itineraries matching every criterion of the filter state.
//
// Behavior:
//   - Price: total price within the range, bounds included (skipped when the range is nil)
//   - Carriers: at least one leg of any trip is operated by a selected carrier
//   - Stops: the outbound trip's stop label is selected
//   - Departure times: the outbound first leg departs within a selected bucket;
//     a trip without legs or with an unparsable time never matches
//   - Itineraries without trips are dropped
//   - Input order is preserved and the input slice is not mutated
func ApplyFilters(itineraries []domain.Itinerary, filters domain.FilterState) []domain.Itinerary {
	// Pre-build sets for O(1) lookup
	carrierSet := buildCarrierSet(filters.Carriers)
	stopSet := make(map[domain.StopLabel]struct{}, len(filters.Stops))
	for _, s := range filters.Stops {
		stopSet[s] = struct{}{}
	}

	result := make([]domain.Itinerary, 0, len(itineraries))
	for _, it := range itineraries {
		if passesAllFilters(it, filters, carrierSet, stopSet) {
			result = append(result, it)
		}
	}
	return result
}

// passesAllFilters checks a single itinerary against the filter state.
func passesAllFilters(it domain.Itinerary, f domain.FilterState, carriers map[string]struct{}, stops map[domain.StopLabel]struct{}) bool {
	outbound, ok := it.Outbound()
	if !ok {
		return false
	}

	if f.PriceRange != nil && !f.PriceRange.Contains(it.TotalAmount()) {
		return false
	}

	if len(carriers) > 0 && !operatedByAny(it, carriers) {
		return false
	}

	if len(stops) > 0 {
		if _, ok := stops[outbound.StopLabel()]; !ok {
			return false
		}
	}

	if len(f.DepartureTimes) > 0 && !departsInAny(outbound, f.DepartureTimes) {
		return false
	}

	return true
}

// buildCarrierSet creates a case-insensitive lookup set from carrier codes.
func buildCarrierSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			set[code] = struct{}{}
		}
	}
	return set
}

func operatedByAny(it domain.Itinerary, carriers map[string]struct{}) bool {
	for _, code := range it.Carriers() {
		if _, ok := carriers[code]; ok {
			return true
		}
	}
	return false
}

func departsInAny(trip domain.Trip, buckets []domain.TimeBucket) bool {
	dep, ok := trip.DepartureTime()
	if !ok {
		return false
	}
	for _, b := range buckets {
		if b.Contains(dep) {
			return true
		}
	}
	return false
}

// ObservedPriceBounds returns the min and max total price across well-formed itineraries.
// ok is false when there is nothing to observe.
func ObservedPriceBounds(itineraries []domain.Itinerary) (domain.PriceRange, bool) {
	var (
		min, max decimal.Decimal
		found    bool
	)
	for _, it := range itineraries {
		if !it.IsWellFormed() {
			continue
		}
		amount := it.TotalAmount()
		if !found {
			min, max, found = amount, amount, true
			continue
		}
		if amount.LessThan(min) {
			min = amount
		}
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	return domain.PriceRange{Min: min, Max: max}, found
}

// AvailableCarriers lists the distinct carrier codes across well-formed itineraries,
// in order of first appearance.
func AvailableCarriers(itineraries []domain.Itinerary) []string {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, it := range itineraries {
		if !it.IsWellFormed() {
			continue
		}
		for _, code := range it.Carriers() {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

// ClampFilters returns a copy of the filter state whose price range lies within the
// observed bounds of the unfiltered result set. An unset range becomes the full bounds.
// With an empty result set the price range is cleared. Set criteria are copied, de-duplicated
// and normalized.
func ClampFilters(filters domain.FilterState, itineraries []domain.Itinerary) domain.FilterState {
	out := domain.FilterState{
		DepartureTimes: dedupe(filters.DepartureTimes),
		Stops:          dedupe(filters.Stops),
		Carriers:       normalizeCarriers(filters.Carriers),
	}

	bounds, ok := ObservedPriceBounds(itineraries)
	if !ok {
		return out
	}
	r := bounds
	if filters.PriceRange != nil {
		r = filters.PriceRange.Clamp(bounds)
	}
	out.PriceRange = &r
	return out
}

func dedupe[T comparable](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(values))
	out := make([]T, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeCarriers(codes []string) []string {
	normalized := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			normalized = append(normalized, c)
		}
	}
	return dedupe(normalized)
}
