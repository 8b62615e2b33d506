package domain

import (
	"strings"
	"time"
)

// SortKey defines the available orderings of a result list.
type SortKey string

// Available sort keys.
const (
	// SortBest keeps the upstream (recommended) order
	SortBest SortKey = "best"

	// SortPriceAsc sorts by total price, cheapest first
	SortPriceAsc SortKey = "price-asc"

	// SortPriceDesc sorts by total price, most expensive first
	SortPriceDesc SortKey = "price-desc"

	// SortDurationAsc sorts by outbound trip duration, shortest first
	SortDurationAsc SortKey = "duration-asc"

	// SortDepartureAsc sorts by outbound departure time, earliest first
	SortDepartureAsc SortKey = "departure-asc"
)

// IsValid checks if the sort key is a known value.
func (s SortKey) IsValid() bool {
	switch s {
	case SortBest, SortPriceAsc, SortPriceDesc, SortDurationAsc, SortDepartureAsc:
		return true
	default:
		return false
	}
}

// ParseSortKey converts a string to a SortKey.
// Returns SortBest if the string is empty or unknown.
func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key.IsValid() {
		return key
	}
	return SortBest
}

// TimeBucket is a departure time-of-day bucket.
type TimeBucket string

// Departure time buckets. Departures between 00:00 and 05:59 fall in none of them.
const (
	Morning   TimeBucket = "Morning"
	Afternoon TimeBucket = "Afternoon"
	Evening   TimeBucket = "Evening"
)

// TimeBuckets lists all buckets in display order.
var TimeBuckets = []TimeBucket{Morning, Afternoon, Evening}

// ParseTimeBucket matches a bucket name case-insensitively.
func ParseTimeBucket(s string) (TimeBucket, bool) {
	for _, b := range TimeBuckets {
		if strings.EqualFold(string(b), strings.TrimSpace(s)) {
			return b, true
		}
	}
	return "", false
}

// Contains reports whether the wall-clock hour of t falls in the bucket.
func (b TimeBucket) Contains(t time.Time) bool {
	h := t.Hour()
	switch b {
	case Morning:
		return h >= 6 && h < 12
	case Afternoon:
		return h >= 12 && h < 18
	case Evening:
		return h >= 18 && h <= 23
	default:
		return false
	}
}

// StopLabel is the categorical bucket derived from a trip's stop count.
type StopLabel string

// Stop labels.
const (
	Nonstop      StopLabel = "Nonstop"
	OneStop      StopLabel = "1 Stop"
	TwoPlusStops StopLabel = "2+ Stops"
)

// StopLabels lists all labels in display order.
var StopLabels = []StopLabel{Nonstop, OneStop, TwoPlusStops}

// StopLabelFor returns the label for a stop count.
func StopLabelFor(stops int) StopLabel {
	switch {
	case stops <= 0:
		return Nonstop
	case stops == 1:
		return OneStop
	default:
		return TwoPlusStops
	}
}

// ParseStopLabel matches a label case-insensitively.
func ParseStopLabel(s string) (StopLabel, bool) {
	for _, l := range StopLabels {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// StopLabel returns the label of the trip's stop count.
func (t Trip) StopLabel() StopLabel {
	return StopLabelFor(t.Stops)
}

// FilterState holds the user's filter selection for a result list.
// Empty sets mean no filtering on that criterion.
type FilterState struct {
	// PriceRange restricts total price; nil means unrestricted
	PriceRange *PriceRange `json:"priceRange,omitempty"`

	// DepartureTimes keeps itineraries whose outbound departure falls in any bucket
	DepartureTimes []TimeBucket `json:"departureTimes,omitempty"`

	// Stops keeps itineraries whose outbound stop label is listed
	Stops []StopLabel `json:"stops,omitempty"`

	// Carriers keeps itineraries with at least one leg operated by a listed carrier
	Carriers []string `json:"carriers,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (f FilterState) IsEmpty() bool {
	return f.PriceRange == nil && len(f.DepartureTimes) == 0 && len(f.Stops) == 0 && len(f.Carriers) == 0
}
