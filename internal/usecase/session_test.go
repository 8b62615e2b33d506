package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/timeutil"
)

// mapStore is an in-memory SessionStore that copies on every access.
type mapStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMapStore() *mapStore {
	return &mapStore{sessions: make(map[string]*domain.Session)}
}

func (m *mapStore) Get(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return s.Clone(), nil
}

func (m *mapStore) Save(_ context.Context, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *mapStore) Update(_ context.Context, id string, fn func(*domain.Session) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	s = s.Clone()
	if err := fn(s); err != nil {
		return err
	}
	m.sessions[id] = s.Clone()
	return nil
}

func (m *mapStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func newTestUseCase(store domain.SessionStore, searchers ...domain.FlightSearcher) ResultsUseCase {
	var n atomic.Int32
	return NewResultsUseCase(searchers, store, &Config{
		SearchTimeout:   200 * time.Millisecond,
		SearcherTimeout: 100 * time.Millisecond,
		Retry:           fastRetry(),
		Clock:           timeutil.NewMockClock(testNow),
		NewID:           func() string { return fmt.Sprintf("sess-%d", n.Add(1)) },
	})
}

func routeQuery() domain.SearchQuery {
	return domain.SearchQuery{From: "jfk", To: "lhr", DepartDate: "2024-06-01", ReturnDate: "2024-06-08", Adults: 1, Children: 1}
}

func TestStartSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))

	view, err := uc.StartSearch(context.Background(), routeQuery())

	require.NoError(t, err)
	assert.Equal(t, "sess-1", view.SessionID)
	assert.Equal(t, "JFK", view.Query.From, "query normalized")
	assert.Equal(t, "USD", view.Query.CurrencyCode)
	assert.Equal(t, 4, view.TotalResults)
	assert.Equal(t, domain.StageChoosingDeparture, view.Stage)
	assert.Equal(t, domain.SortBest, view.Sort)
	assert.False(t, view.SearchFailed)
}

func TestStartSearch_InvalidQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockSessionStore(ctrl)
	uc := newTestUseCase(store, setupMockSearcher(ctrl, "searchapi", nil, nil))

	query := routeQuery()
	query.To = "JFK"
	_, err := uc.StartSearch(context.Background(), query)

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestStartSearch_UpstreamFailureYieldsEmptyResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := setupMockSearcher(ctrl, "searchapi", nil, domain.NewSearchError("searchapi", errors.New("status 502")))
	uc := newTestUseCase(newMapStore(), broken)

	view, err := uc.StartSearch(context.Background(), routeQuery())

	require.NoError(t, err)
	assert.True(t, view.SearchFailed)
	assert.Zero(t, view.TotalResults)
	assert.Empty(t, view.DepartureCandidates)
}

func TestStartSearch_FailureLogCarriesRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := setupMockSearcher(ctrl, "searchapi", nil, domain.NewSearchError("searchapi", errors.New("status 502")))

	var buf bytes.Buffer
	uc := NewResultsUseCase([]domain.FlightSearcher{broken}, newMapStore(), &Config{
		SearchTimeout:   200 * time.Millisecond,
		SearcherTimeout: 100 * time.Millisecond,
		Retry:           fastRetry(),
		Clock:           timeutil.NewMockClock(testNow),
		NewID:           func() string { return "sess-log" },
		Logger:          logger.NewWithOutput(logger.Config{Level: "debug", Format: "json"}, &buf),
	})

	ctx := logger.ContextWithRequestID(context.Background(), "req-502")
	_, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] != "search failed, showing empty results" {
			continue
		}
		found = true
		assert.Equal(t, "req-502", entry["request_id"])
		assert.Equal(t, "sess-log", entry["session_id"])
		assert.Equal(t, "warn", entry["level"])
	}
	assert.True(t, found, "expected a search failure entry in %s", buf.String())
}

func TestStartSearch_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockSessionStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))
	uc := newTestUseCase(store, setupMockSearcher(ctrl, "searchapi", nil, nil))

	_, err := uc.StartSearch(context.Background(), routeQuery())
	assert.ErrorContains(t, err, "connection refused")
}

func TestRefresh_ConflictingWritersSurface(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := domain.NewMockSessionStore(ctrl)
	store.EXPECT().Update(gomock.Any(), "s-1", gomock.Any()).
		Return(fmt.Errorf("%w: s-1 after 10 attempts", domain.ErrSessionConflict))
	uc := newTestUseCase(store, setupMockSearcher(ctrl, "searchapi", nil, nil))

	_, err := uc.Refresh(context.Background(), "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionConflict)
}

func TestView_UnknownSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", nil, nil))

	_, err := uc.View(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestUpdateFiltersAndSort(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)

	view, err = uc.UpdateFilters(ctx, view.SessionID, domain.FilterState{
		PriceRange: priceRange("0", "700"),
		Carriers:   []string{"ua"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d"}, ids(view.DepartureCandidates))
	assert.Equal(t, "595", view.Filters.PriceRange.Min.String(), "clamped to observed bounds")

	view, err = uc.UpdateSort(ctx, view.SessionID, domain.SortPriceDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b"}, ids(view.DepartureCandidates))

	_, err = uc.UpdateSort(ctx, view.SessionID, domain.SortKey("bogus"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	reloaded, err := uc.View(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SortPriceDesc, reloaded.Sort, "state persisted")
}

func TestSelectionFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)
	id := view.SessionID

	_, err = uc.Handoff(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPreconditionViolation, "no hand-off before review")

	_, err = uc.Select(ctx, id, "nope")
	assert.ErrorIs(t, err, domain.ErrItineraryNotFound)

	view, err = uc.Select(ctx, id, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StageChoosingReturn, view.Stage)
	assert.Len(t, view.ReturnCandidates, 4)

	view, err = uc.Select(ctx, id, "c")
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, view.Stage)
	require.NotNil(t, view.Combined)
	assert.Equal(t, "1600", view.Combined.TotalPrice)

	_, err = uc.Select(ctx, id, "b")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	handoff, err := uc.Handoff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "a+c", handoff.Flight.ID)
	assert.Equal(t, 2, handoff.Passengers)

	view, err = uc.ResetSelection(ctx, id, domain.StageChoosingReturn)
	require.NoError(t, err)
	assert.Equal(t, "a", view.Departure.ID)
	assert.Nil(t, view.Return)

	view, err = uc.ResetSelection(ctx, id, domain.StageChoosingDeparture)
	require.NoError(t, err)
	assert.Nil(t, view.Departure)

	_, err = uc.ResetSelection(ctx, id, domain.StageReview)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSelect_OnlyAmongFilteredCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)
	_, err = uc.UpdateFilters(ctx, view.SessionID, domain.FilterState{Carriers: []string{"BA"}})
	require.NoError(t, err)

	_, err = uc.Select(ctx, view.SessionID, "a")
	assert.ErrorIs(t, err, domain.ErrItineraryNotFound)
}

func TestOneWayFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	oneWay := []domain.Itinerary{
		itinerary("ow", "300", trip("JFK", "LHR", leg("DL", "JFK", "LHR", "2024-06-01T09:00:00", "2024-06-01T21:00:00"))),
	}
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", oneWay, nil))
	ctx := context.Background()

	query := routeQuery()
	query.ReturnDate = ""
	view, err := uc.StartSearch(ctx, query)
	require.NoError(t, err)

	view, err = uc.Select(ctx, view.SessionID, "ow")
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, view.Stage)

	handoff, err := uc.Handoff(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "ow", handoff.Flight.ID)
	assert.Len(t, handoff.Flight.Trips, 1)
}

func TestRefresh_ResetsPageState(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)
	_, err = uc.UpdateFilters(ctx, view.SessionID, domain.FilterState{Carriers: []string{"BA"}})
	require.NoError(t, err)
	_, err = uc.Select(ctx, view.SessionID, "c")
	require.NoError(t, err)

	view, err = uc.Refresh(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageChoosingDeparture, view.Stage)
	assert.Nil(t, view.Departure)
	assert.Empty(t, view.Filters.Carriers)
	assert.Equal(t, 4, view.MatchingResults)

	_, err = uc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRefresh_DiscardsStaleResult(t *testing.T) {
	ctrl := gomock.NewController(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	searcher := domain.NewMockFlightSearcher(ctrl)
	searcher.EXPECT().Name().Return("searchapi").AnyTimes()
	searcher.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ domain.SearchQuery) ([]domain.Itinerary, error) {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
				return sampleItineraries(), nil
			}
			return sampleItineraries()[:1], nil
		}).Times(2)

	store := newMapStore()
	uc := NewResultsUseCase([]domain.FlightSearcher{searcher}, store, &Config{
		SearchTimeout:   time.Second,
		SearcherTimeout: time.Second,
		Clock:           timeutil.NewMockClock(testNow),
		NewID:           func() string { return "sess-1" },
	})
	ctx := context.Background()

	firstDone := make(chan ResultsView, 1)
	go func() {
		view, err := uc.StartSearch(ctx, routeQuery())
		assert.NoError(t, err)
		firstDone <- view
	}()

	<-entered
	refreshed, err := uc.Refresh(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.TotalResults)

	close(release)
	first := <-firstDone
	assert.Equal(t, 1, first.TotalResults, "older search must not overwrite the newer result")

	s, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Generation)
	assert.Len(t, s.Itineraries, 1)
}

func TestBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)
	id := view.SessionID

	req := domain.BookingRequest{
		Passengers: []domain.Passenger{
			{Type: domain.PassengerAdult, FirstName: "José", LastName: "Núñez"},
			{Type: domain.PassengerChild, FirstName: "Zoë", LastName: "Núñez", DateOfBirth: "2016-03-09"},
		},
		Contact: domain.Contact{Email: "jose@example.com"},
	}

	_, err = uc.Book(ctx, id, req)
	assert.ErrorIs(t, err, domain.ErrPreconditionViolation, "cannot book before review")

	_, err = uc.Select(ctx, id, "a")
	require.NoError(t, err)
	_, err = uc.Select(ctx, id, "b")
	require.NoError(t, err)

	bad := req
	bad.Passengers = req.Passengers[:1]
	_, err = uc.Book(ctx, id, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	confirmation, err := uc.Book(ctx, id, req)
	require.NoError(t, err)
	assert.Len(t, confirmation.Reference, 6)
	assert.Equal(t, "a+b", confirmation.Flight.ID)
	assert.Equal(t, "JOSE", confirmation.Passengers[0].FirstName)
	assert.Equal(t, "NUNEZ", confirmation.Passengers[0].LastName)
	assert.Equal(t, "ZOE", confirmation.Passengers[1].FirstName)
	assert.Equal(t, "1315", confirmation.TotalPrice)
	assert.Equal(t, "USD 1,315.00", confirmation.FormattedTotal)
	assert.Equal(t, testNow, confirmation.CreatedAt)

	again, err := uc.Book(ctx, id, req)
	require.NoError(t, err)
	assert.Equal(t, confirmation.Reference, again.Reference, "booking is idempotent")
}

func TestConcurrentMutationsOnOneSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	uc := newTestUseCase(newMapStore(), setupMockSearcher(ctrl, "searchapi", sampleItineraries(), nil))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, routeQuery())
	require.NoError(t, err)

	keys := []domain.SortKey{domain.SortPriceAsc, domain.SortPriceDesc, domain.SortDurationAsc, domain.SortDepartureAsc}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := uc.UpdateSort(ctx, view.SessionID, keys[i%len(keys)])
			assert.NoError(t, err)
			_, err = uc.UpdateFilters(ctx, view.SessionID, domain.FilterState{Stops: []domain.StopLabel{domain.Nonstop}})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	final, err := uc.View(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []domain.StopLabel{domain.Nonstop}, final.Filters.Stops)
	assert.Contains(t, keys, final.Sort)
}
