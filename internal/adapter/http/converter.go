package http

import (
	"strings"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// ToDomainQuery converts a validated StartSearchRequest to a domain.SearchQuery.
// Defaults are applied by the use case.
func ToDomainQuery(req *StartSearchRequest) domain.SearchQuery {
	return domain.SearchQuery{
		From:         req.From,
		To:           req.To,
		DepartDate:   req.DepartDate,
		ReturnDate:   req.ReturnDate,
		Adults:       req.Adults,
		Children:     req.Children,
		CurrencyCode: req.CurrencyCode,
	}
}

// ToDomainFilters converts a validated FiltersRequest to a domain.FilterState.
// Unknown labels have already been rejected by Validate and are skipped here.
func ToDomainFilters(req *FiltersRequest) domain.FilterState {
	var f domain.FilterState

	if req.PriceRange != nil {
		r := domain.NewPriceRange(
			domain.ParseAmount(req.PriceRange.Min),
			domain.ParseAmount(req.PriceRange.Max),
		)
		f.PriceRange = &r
	}

	for _, s := range req.DepartureTimes {
		if b, ok := domain.ParseTimeBucket(s); ok {
			f.DepartureTimes = append(f.DepartureTimes, b)
		}
	}

	for _, s := range req.Stops {
		if l, ok := domain.ParseStopLabel(s); ok {
			f.Stops = append(f.Stops, l)
		}
	}

	if len(req.Carriers) > 0 {
		f.Carriers = append([]string(nil), req.Carriers...)
	}
	return f
}

// ToDomainBooking converts a validated BookingRequest to a domain.BookingRequest.
func ToDomainBooking(req *BookingRequest) domain.BookingRequest {
	passengers := make([]domain.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		passengers[i] = domain.Passenger{
			Type:        domain.PassengerType(strings.ToLower(p.Type)),
			FirstName:   p.FirstName,
			LastName:    p.LastName,
			DateOfBirth: p.DateOfBirth,
		}
	}
	return domain.BookingRequest{
		Passengers: passengers,
		Contact: domain.Contact{
			Email: req.Contact.Email,
			Phone: req.Contact.Phone,
		},
	}
}
