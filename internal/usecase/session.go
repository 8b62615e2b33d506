package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
)

// ResultsUseCase drives a results page: one search session holding the
// result set plus the filter, sort and selection state the user applied.
type ResultsUseCase interface {
	// StartSearch creates a session for the query and runs the first search.
	// Upstream failures yield an empty result set, never an error.
	StartSearch(ctx context.Context, query domain.SearchQuery) (ResultsView, error)

	// Refresh re-runs the search of an existing session.
	Refresh(ctx context.Context, sessionID string) (ResultsView, error)

	// View returns the derived page state of a session.
	View(ctx context.Context, sessionID string) (ResultsView, error)

	UpdateFilters(ctx context.Context, sessionID string, filters domain.FilterState) (ResultsView, error)
	UpdateSort(ctx context.Context, sessionID string, key domain.SortKey) (ResultsView, error)

	// Select chooses an itinerary among the candidates of the current stage.
	Select(ctx context.Context, sessionID, itineraryID string) (ResultsView, error)

	// ResetSelection moves the selection flow back to an earlier stage.
	ResetSelection(ctx context.Context, sessionID string, stage domain.Stage) (ResultsView, error)

	// Handoff returns the booking hand-off once the selection is complete.
	Handoff(ctx context.Context, sessionID string) (domain.BookingHandoff, error)

	// Book confirms passenger details for the completed selection.
	Book(ctx context.Context, sessionID string, req domain.BookingRequest) (*domain.BookingConfirmation, error)
}

type resultsUseCase struct {
	store    domain.SessionStore
	searcher *aggregator
	locks    keyLock
	clock    timeutil.Clock
	log      *logger.Logger
	newID    func() string
}

// NewResultsUseCase creates a ResultsUseCase over the given searchers and store.
// If config is nil, defaults are used.
func NewResultsUseCase(searchers []domain.FlightSearcher, store domain.SessionStore, config *Config) ResultsUseCase {
	cfg := config.withDefaults()
	return &resultsUseCase{
		store:    store,
		searcher: newAggregator(searchers, cfg),
		clock:    cfg.Clock,
		log:      cfg.Logger,
		newID:    cfg.NewID,
	}
}

func (uc *resultsUseCase) StartSearch(ctx context.Context, query domain.SearchQuery) (ResultsView, error) {
	query.SetDefaults()
	if err := query.Validate(); err != nil {
		return ResultsView{}, err
	}

	session := domain.NewSession(uc.newID(), query, uc.clock.Now())
	session.Generation = 1
	if err := uc.store.Save(ctx, session); err != nil {
		return ResultsView{}, fmt.Errorf("save session: %w", err)
	}

	return uc.search(ctx, session.ID, query, session.Generation)
}

func (uc *resultsUseCase) Refresh(ctx context.Context, sessionID string) (ResultsView, error) {
	var (
		query      domain.SearchQuery
		generation int
	)
	err := uc.mutate(ctx, sessionID, func(s *domain.Session) error {
		s.Generation++
		query, generation = s.Query, s.Generation
		return nil
	})
	if err != nil {
		return ResultsView{}, err
	}

	return uc.search(ctx, sessionID, query, generation)
}

// search fetches results for one generation of a session and applies them
// unless a newer search has started meanwhile.
func (uc *resultsUseCase) search(ctx context.Context, sessionID string, query domain.SearchQuery, generation int) (ResultsView, error) {
	log := uc.log.For(ctx).WithSession(sessionID)

	outcome, err := uc.searcher.Search(ctx, query)
	failed := err != nil
	if failed {
		log.Warn().Err(err).
			Str("from", query.From).Str("to", query.To).
			Msg("search failed, showing empty results")
	} else {
		log.Info().
			Int("results", len(outcome.Itineraries)).
			Strs("failed_searchers", outcome.Failed).
			Dur("duration", outcome.Duration).
			Msg("search completed")
	}

	// The request may be gone; the result still belongs to the session.
	saveCtx := context.WithoutCancel(ctx)
	err = uc.mutate(saveCtx, sessionID, func(s *domain.Session) error {
		if s.Generation != generation {
			return fmt.Errorf("%w: generation %d superseded by %d", domain.ErrStaleSearch, generation, s.Generation)
		}
		s.ApplySearchResult(outcome.Itineraries, failed, uc.clock.Now())
		return nil
	})
	if errors.Is(err, domain.ErrStaleSearch) {
		log.Debug().Err(err).Msg("discarding stale search result")
		return uc.View(saveCtx, sessionID)
	}
	if err != nil {
		return ResultsView{}, err
	}

	return uc.View(saveCtx, sessionID)
}

func (uc *resultsUseCase) View(ctx context.Context, sessionID string) (ResultsView, error) {
	s, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return ResultsView{}, err
	}
	return DeriveView(s), nil
}

func (uc *resultsUseCase) UpdateFilters(ctx context.Context, sessionID string, filters domain.FilterState) (ResultsView, error) {
	return uc.mutateView(ctx, sessionID, func(s *domain.Session) error {
		s.Filters = ClampFilters(filters, s.Itineraries)
		return nil
	})
}

func (uc *resultsUseCase) UpdateSort(ctx context.Context, sessionID string, key domain.SortKey) (ResultsView, error) {
	if !key.IsValid() {
		return ResultsView{}, fmt.Errorf("%w: unknown sort key %q", domain.ErrInvalidRequest, key)
	}
	return uc.mutateView(ctx, sessionID, func(s *domain.Session) error {
		s.Sort = key
		return nil
	})
}

func (uc *resultsUseCase) Select(ctx context.Context, sessionID, itineraryID string) (ResultsView, error) {
	return uc.mutateView(ctx, sessionID, func(s *domain.Session) error {
		view := DeriveView(s)

		var candidates []domain.Itinerary
		switch s.Selection.Stage {
		case domain.StageChoosingDeparture:
			candidates = view.DepartureCandidates
		case domain.StageChoosingReturn:
			candidates = view.ReturnCandidates
		}

		chosen, found := findByID(candidates, itineraryID)
		if !found && s.Selection.Stage != domain.StageReview {
			return fmt.Errorf("%w: %q is not a %s candidate", domain.ErrItineraryNotFound, itineraryID, s.Selection.Stage)
		}

		next, err := AdvanceSelection(s.Selection, chosen)
		if err != nil {
			return err
		}
		s.Selection = next
		s.Booking = nil
		return nil
	})
}

func (uc *resultsUseCase) ResetSelection(ctx context.Context, sessionID string, stage domain.Stage) (ResultsView, error) {
	return uc.mutateView(ctx, sessionID, func(s *domain.Session) error {
		next, err := ResetToStage(s.Selection, stage)
		if err != nil {
			return err
		}
		s.Selection = next
		s.Booking = nil
		return nil
	})
}

func (uc *resultsUseCase) Handoff(ctx context.Context, sessionID string) (domain.BookingHandoff, error) {
	s, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return domain.BookingHandoff{}, err
	}
	flight, err := AssembleSelection(s.Selection)
	if err != nil {
		return domain.BookingHandoff{}, err
	}
	return domain.BookingHandoff{Flight: flight, Passengers: s.Query.Passengers()}, nil
}

func (uc *resultsUseCase) Book(ctx context.Context, sessionID string, req domain.BookingRequest) (*domain.BookingConfirmation, error) {
	var confirmation *domain.BookingConfirmation
	err := uc.mutate(ctx, sessionID, func(s *domain.Session) error {
		if s.Booking != nil {
			confirmation = s.Booking
			return nil
		}

		flight, err := AssembleSelection(s.Selection)
		if err != nil {
			return err
		}
		if err := req.Validate(s.Query.Adults, s.Query.Children); err != nil {
			return err
		}

		s.Booking = BuildConfirmation(flight, req, NewBookingReference(), uc.clock.Now())
		confirmation = s.Booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.For(ctx).WithSession(sessionID).Info().
		Str("reference", confirmation.Reference).
		Int("passengers", len(confirmation.Passengers)).
		Msg("booking confirmed")
	return confirmation, nil
}

// mutate applies fn to the session through the store's atomic Update.
// Nothing is saved when fn fails. fn may run again if another process
// changed the session meanwhile; the key lock only spares writers in this
// process from retrying against each other.
func (uc *resultsUseCase) mutate(ctx context.Context, sessionID string, fn func(*domain.Session) error) error {
	unlock := uc.locks.Lock(sessionID)
	defer unlock()

	return uc.store.Update(ctx, sessionID, func(s *domain.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = uc.clock.Now()
		return nil
	})
}

func (uc *resultsUseCase) mutateView(ctx context.Context, sessionID string, fn func(*domain.Session) error) (ResultsView, error) {
	var view ResultsView
	err := uc.mutate(ctx, sessionID, func(s *domain.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = DeriveView(s)
		return nil
	})
	return view, err
}

func findByID(itineraries []domain.Itinerary, id string) (domain.Itinerary, bool) {
	for _, it := range itineraries {
		if it.ID == id {
			return it, true
		}
	}
	return domain.Itinerary{}, false
}

// Ensure resultsUseCase implements ResultsUseCase at compile time.
var _ ResultsUseCase = (*resultsUseCase)(nil)
