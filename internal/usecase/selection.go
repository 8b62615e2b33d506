package usecase

import (
	"fmt"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

// Partition splits a filtered, sorted list into the candidates of each selection stage.
type Partition struct {
	DepartureCandidates []domain.Itinerary `json:"departureCandidates"`
	ReturnCandidates    []domain.Itinerary `json:"returnCandidates"`
}

// PartitionByDirection splits itineraries by trip direction.
// Departure candidates run origin → destination on their outbound trip. Return candidates
// are computed only once a departure is selected and run destination → origin on their
// second trip. Both keep the input order; malformed itineraries are skipped.
func PartitionByDirection(itineraries []domain.Itinerary, origin, destination string, selectedDeparture *domain.Itinerary) Partition {
	p := Partition{
		DepartureCandidates: make([]domain.Itinerary, 0, len(itineraries)),
		ReturnCandidates:    make([]domain.Itinerary, 0),
	}

	for _, it := range itineraries {
		if outbound, ok := it.Outbound(); ok && outbound.Matches(origin, destination) {
			p.DepartureCandidates = append(p.DepartureCandidates, it)
		}
	}

	if selectedDeparture == nil {
		return p
	}
	for _, it := range itineraries {
		if inbound, ok := it.Inbound(); ok && inbound.Matches(destination, origin) {
			p.ReturnCandidates = append(p.ReturnCandidates, it)
		}
	}
	return p
}

// AdvanceSelection records the chosen itinerary for the current stage and moves forward.
//
//   - choosing-departure: records the departure, moves to choosing-return
//     (or straight to review for one-way flows)
//   - choosing-return: records the return, moves to review
//   - review: ErrInvalidTransition, the state is returned unchanged
func AdvanceSelection(state domain.SelectionState, chosen domain.Itinerary) (domain.SelectionState, error) {
	next := state
	switch state.Stage {
	case domain.StageChoosingDeparture:
		next.Departure = &chosen
		next.Return = nil
		next.Stage = domain.StageChoosingReturn
		if state.OneWay {
			next.Stage = domain.StageReview
		}
	case domain.StageChoosingReturn:
		if state.Departure == nil {
			return state, fmt.Errorf("%w: no departure selected", domain.ErrPreconditionViolation)
		}
		next.Return = &chosen
		next.Stage = domain.StageReview
	default:
		return state, fmt.Errorf("%w: cannot select in stage %s", domain.ErrInvalidTransition, state.Stage)
	}
	return next, nil
}

// ResetToStage moves the flow back to an earlier stage.
// Returning to choosing-departure clears both selections; returning to choosing-return
// clears only the return selection. Any other target is ErrInvalidTransition.
func ResetToStage(state domain.SelectionState, target domain.Stage) (domain.SelectionState, error) {
	next := state
	switch {
	case target == domain.StageChoosingDeparture:
		next.Departure = nil
		next.Return = nil
	case target == domain.StageChoosingReturn && !state.OneWay && state.Stage >= domain.StageChoosingReturn:
		next.Return = nil
	default:
		return state, fmt.Errorf("%w: cannot reset from %s to %s", domain.ErrInvalidTransition, state.Stage, target)
	}
	next.Stage = target
	return next, nil
}

// AssembleCombinedItinerary builds the itinerary handed to the booking flow from the
// outbound trip of the departure selection and the return trip of the return selection.
// Prices are exact decimal sums; the currency comes from the departure selection.
// Missing selections are a caller bug reported as ErrPreconditionViolation.
func AssembleCombinedItinerary(departure, ret *domain.Itinerary) (domain.Itinerary, error) {
	if departure == nil || ret == nil {
		return domain.Itinerary{}, fmt.Errorf("%w: both departure and return selections are required", domain.ErrPreconditionViolation)
	}
	outbound, ok := departure.Outbound()
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("%w: departure selection %q has no trips", domain.ErrPreconditionViolation, departure.ID)
	}
	inbound, ok := ret.Inbound()
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("%w: return selection %q has no return trip", domain.ErrPreconditionViolation, ret.ID)
	}

	return domain.Itinerary{
		ID:             departure.ID + "+" + ret.ID,
		TotalPrice:     departure.TotalAmount().Add(ret.TotalAmount()).String(),
		BasePrice:      sumPrices(departure.BasePrice, ret.BasePrice),
		CurrencyCode:   departure.CurrencyCode,
		SeatsAvailable: min(departure.SeatsAvailable, ret.SeatsAvailable),
		Trips:          []domain.Trip{outbound, inbound},
	}, nil
}

// AssembleOneWayItinerary builds the hand-off itinerary for a one-way flow.
func AssembleOneWayItinerary(departure *domain.Itinerary) (domain.Itinerary, error) {
	if departure == nil {
		return domain.Itinerary{}, fmt.Errorf("%w: departure selection is required", domain.ErrPreconditionViolation)
	}
	outbound, ok := departure.Outbound()
	if !ok {
		return domain.Itinerary{}, fmt.Errorf("%w: departure selection %q has no trips", domain.ErrPreconditionViolation, departure.ID)
	}
	combined := *departure
	combined.Trips = []domain.Trip{outbound}
	return combined, nil
}

// AssembleSelection assembles the hand-off itinerary for a completed selection.
func AssembleSelection(state domain.SelectionState) (domain.Itinerary, error) {
	if !state.IsComplete() {
		return domain.Itinerary{}, fmt.Errorf("%w: selection is not complete (stage %s)", domain.ErrPreconditionViolation, state.Stage)
	}
	if state.OneWay {
		return AssembleOneWayItinerary(state.Departure)
	}
	return AssembleCombinedItinerary(state.Departure, state.Return)
}

// sumPrices adds two decimal price strings; empty when both are empty.
func sumPrices(a, b string) string {
	if a == "" && b == "" {
		return ""
	}
	return domain.ParseAmount(a).Add(domain.ParseAmount(b)).String()
}
