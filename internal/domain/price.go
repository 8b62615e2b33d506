package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal price string.
// Empty or unparsable values yield zero so views stay renderable under partial data.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// TotalAmount returns the itinerary total price as a decimal.
func (it Itinerary) TotalAmount() decimal.Decimal {
	return ParseAmount(it.TotalPrice)
}

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// NewPriceRange builds a range from two amounts, swapping them if min > max.
func NewPriceRange(min, max decimal.Decimal) PriceRange {
	if min.GreaterThan(max) {
		min, max = max, min
	}
	return PriceRange{Min: min, Max: max}
}

// Contains reports whether amount lies within the range, bounds included.
func (r PriceRange) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(r.Min) && amount.LessThanOrEqual(r.Max)
}

// Clamp restricts both bounds to within the given limits.
func (r PriceRange) Clamp(limits PriceRange) PriceRange {
	clamp := func(d decimal.Decimal) decimal.Decimal {
		if d.LessThan(limits.Min) {
			return limits.Min
		}
		if d.GreaterThan(limits.Max) {
			return limits.Max
		}
		return d
	}
	return NewPriceRange(clamp(r.Min), clamp(r.Max))
}
