package http

import (
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/currency"
	"github.com/flight-search/flight-booking-system/internal/usecase"
)

// ResultsViewDTO is the results page state returned by every session endpoint.
type ResultsViewDTO struct {
	SessionID string             `json:"sessionId" example:"6f1c2b9e-1d3a-4c55-9f0e-2b7f4a8d1e90"`
	Query     domain.SearchQuery `json:"query"`
	Stage     string             `json:"stage" example:"choosing-departure"`
	SortBy    string             `json:"sortBy" example:"best"`

	Filters     FiltersDTO     `json:"filters"`
	PriceBounds *PriceRangeDTO `json:"priceBounds,omitempty"`
	Options     OptionsDTO     `json:"options"`

	TotalResults    int `json:"totalResults" example:"8"`
	MatchingResults int `json:"matchingResults" example:"5"`

	DepartureCandidates []ItineraryDTO `json:"departureCandidates"`
	ReturnCandidates    []ItineraryDTO `json:"returnCandidates"`

	Departure *ItineraryDTO `json:"departure,omitempty"`
	Return    *ItineraryDTO `json:"return,omitempty"`
	Combined  *ItineraryDTO `json:"combined,omitempty"`

	SearchFailed bool `json:"searchFailed,omitempty"`
}

// FiltersDTO is the effective filter state of a page.
type FiltersDTO struct {
	PriceRange     *PriceRangeDTO `json:"priceRange,omitempty"`
	DepartureTimes []string       `json:"departureTimes"`
	Stops          []string       `json:"stops"`
	Carriers       []string       `json:"carriers"`
}

// PriceRangeDTO is an inclusive price interval with display strings.
type PriceRangeDTO struct {
	Min          string `json:"min" example:"595"`
	Max          string `json:"max" example:"880"`
	FormattedMin string `json:"formattedMin" example:"USD 595.00"`
	FormattedMax string `json:"formattedMax" example:"USD 880.00"`
}

// OptionsDTO lists the values the filter controls can offer.
type OptionsDTO struct {
	DepartureTimes []string `json:"departureTimes" example:"Morning,Afternoon,Evening"`
	Stops          []string `json:"stops" example:"Nonstop,1 Stop,2+ Stops"`
	Carriers       []string `json:"carriers" example:"AA,BA,UA"`
}

// ItineraryDTO is an itinerary decorated with the values a result card displays.
type ItineraryDTO struct {
	domain.Itinerary

	FormattedPrice  string `json:"formattedPrice" example:"USD 720.00"`
	StopLabel       string `json:"stopLabel" example:"Nonstop"`
	DurationMinutes int    `json:"durationMinutes" example:"420"`
	DepartsAt       string `json:"departsAt,omitempty" example:"2024-06-01T08:15:00"`
}

// HandoffDTO is the route state passed to the passenger-details screen.
type HandoffDTO struct {
	Flight     ItineraryDTO `json:"flight"`
	Passengers int          `json:"passengers" example:"1"`
}

// ToResultsViewDTO converts a derived view for the wire.
func ToResultsViewDTO(view usecase.ResultsView) *ResultsViewDTO {
	code := view.Query.CurrencyCode
	dto := &ResultsViewDTO{
		SessionID:       view.SessionID,
		Query:           view.Query,
		Stage:           view.Stage.String(),
		SortBy:          string(view.Sort),
		Filters:         toFiltersDTO(view.Filters, code),
		PriceBounds:     toPriceRangeDTO(view.PriceBounds, code),
		TotalResults:    view.TotalResults,
		MatchingResults: view.MatchingResults,
		SearchFailed:    view.SearchFailed,
		Options: OptionsDTO{
			DepartureTimes: stringsOf(domain.TimeBuckets),
			Stops:          stringsOf(domain.StopLabels),
			Carriers:       nonNil(view.Carriers),
		},
		DepartureCandidates: toItineraryDTOs(view.DepartureCandidates),
		ReturnCandidates:    toReturnDTOs(view.ReturnCandidates),
		Departure:           toItineraryDTOPtr(view.Departure),
		Return:              toReturnDTOPtr(view.Return),
		Combined:            toItineraryDTOPtr(view.Combined),
	}
	return dto
}

// ToHandoffDTO converts a booking hand-off for the wire.
func ToHandoffDTO(h domain.BookingHandoff) *HandoffDTO {
	return &HandoffDTO{
		Flight:     ToItineraryDTO(h.Flight),
		Passengers: h.Passengers,
	}
}

// ToItineraryDTO decorates an itinerary with display values from its outbound trip.
func ToItineraryDTO(it domain.Itinerary) ItineraryDTO {
	return decorate(it, it.Outbound)
}

// ToReturnDTO decorates a return choice with display values from its return
// trip, the flight the traveller is picking at that stage.
func ToReturnDTO(it domain.Itinerary) ItineraryDTO {
	if !it.IsRoundTrip() {
		return ToItineraryDTO(it)
	}
	return decorate(it, it.Inbound)
}

func decorate(it domain.Itinerary, trip func() (domain.Trip, bool)) ItineraryDTO {
	dto := ItineraryDTO{
		Itinerary:      it,
		FormattedPrice: currency.Format(it.TotalAmount(), it.CurrencyCode),
	}
	if t, ok := trip(); ok {
		dto.StopLabel = string(t.StopLabel())
		dto.DurationMinutes = t.DurationMinutes()
		if leg, ok := t.FirstLeg(); ok {
			dto.DepartsAt = leg.DepartureDateTime
		}
	}
	return dto
}

func toItineraryDTOs(itineraries []domain.Itinerary) []ItineraryDTO {
	result := make([]ItineraryDTO, len(itineraries))
	for i, it := range itineraries {
		result[i] = ToItineraryDTO(it)
	}
	return result
}

func toReturnDTOs(itineraries []domain.Itinerary) []ItineraryDTO {
	result := make([]ItineraryDTO, len(itineraries))
	for i, it := range itineraries {
		result[i] = ToReturnDTO(it)
	}
	return result
}

func toReturnDTOPtr(it *domain.Itinerary) *ItineraryDTO {
	if it == nil {
		return nil
	}
	dto := ToReturnDTO(*it)
	return &dto
}

func toItineraryDTOPtr(it *domain.Itinerary) *ItineraryDTO {
	if it == nil {
		return nil
	}
	dto := ToItineraryDTO(*it)
	return &dto
}

func toFiltersDTO(f domain.FilterState, code string) FiltersDTO {
	return FiltersDTO{
		PriceRange:     toPriceRangeDTO(f.PriceRange, code),
		DepartureTimes: stringsOf(f.DepartureTimes),
		Stops:          stringsOf(f.Stops),
		Carriers:       nonNil(f.Carriers),
	}
}

func toPriceRangeDTO(r *domain.PriceRange, code string) *PriceRangeDTO {
	if r == nil {
		return nil
	}
	return &PriceRangeDTO{
		Min:          r.Min.String(),
		Max:          r.Max.String(),
		FormattedMin: currency.Format(r.Min, code),
		FormattedMax: currency.Format(r.Max, code),
	}
}

func stringsOf[T ~string](values []T) []string {
	result := make([]string, len(values))
	for i, v := range values {
		result[i] = string(v)
	}
	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
