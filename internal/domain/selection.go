package domain

import (
	"fmt"
	"strings"
)

// Stage is the current step of the departure → return → review selection flow.
type Stage int

// Selection stages. The zero value is the initial stage.
const (
	StageChoosingDeparture Stage = iota
	StageChoosingReturn
	StageReview
)

var stageNames = map[Stage]string{
	StageChoosingDeparture: "choosing-departure",
	StageChoosingReturn:    "choosing-return",
	StageReview:            "review",
}

// String returns the wire name of the stage.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage converts a wire name to a Stage.
func ParseStage(s string) (Stage, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for stage, name := range stageNames {
		if name == s {
			return stage, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown stage %q", ErrInvalidRequest, s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	if _, ok := stageNames[s]; !ok {
		return nil, fmt.Errorf("invalid stage %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(b []byte) error {
	stage, err := ParseStage(string(b))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

// SelectionState tracks the itineraries chosen so far on a results page.
// The zero value is a round-trip flow at StageChoosingDeparture with nothing chosen.
type SelectionState struct {
	Stage     Stage      `json:"stage"`
	Departure *Itinerary `json:"departure,omitempty"`
	Return    *Itinerary `json:"return,omitempty"`

	// OneWay skips the return stage: choosing a departure moves straight to review
	OneWay bool `json:"oneWay,omitempty"`
}

// NewSelectionState returns the initial state for a round-trip or one-way search.
func NewSelectionState(oneWay bool) SelectionState {
	return SelectionState{Stage: StageChoosingDeparture, OneWay: oneWay}
}

// IsComplete reports whether the flow has reached review with every required leg chosen.
func (s SelectionState) IsComplete() bool {
	if s.Stage != StageReview || s.Departure == nil {
		return false
	}
	return s.OneWay || s.Return != nil
}
