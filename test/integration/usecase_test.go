package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-booking-system/internal/adapter/store"
	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/usecase"
	"github.com/flight-search/flight-booking-system/test/mock"
)

func itineraryIDs(itineraries []domain.Itinerary) []string {
	out := make([]string, len(itineraries))
	for i, it := range itineraries {
		out[i] = it.ID
	}
	return out
}

// TestResults_MultipleSearchers_Aggregates tests that results from every
// searcher end up in one result set, in registration order.
func TestResults_MultipleSearchers_Aggregates(t *testing.T) {
	aa := mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 2))
	ba := mock.NewSearcher("ba").WithItineraries(mock.SampleItineraries("BA", 3))

	uc := CreateUseCase(aa, ba)

	view, err := uc.StartSearch(context.Background(), DefaultQuery())

	require.NoError(t, err)
	assert.False(t, view.SearchFailed)
	assert.Equal(t, 5, view.TotalResults)
	assert.ElementsMatch(t, []string{"AA", "BA"}, view.Carriers)
	assert.Equal(t, 1, aa.CallCount())
	assert.Equal(t, 1, ba.CallCount())
	assert.Equal(t, "USD", aa.Queries()[0].CurrencyCode, "defaults are applied before searching")
}

// TestResults_PartialFailure tests that one failing searcher does not fail the page.
func TestResults_PartialFailure(t *testing.T) {
	aa := mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 2))
	broken := mock.NewSearcher("broken").WithError(errors.New("connection refused"))

	view, err := CreateUseCase(aa, broken).StartSearch(context.Background(), DefaultQuery())

	require.NoError(t, err)
	assert.False(t, view.SearchFailed)
	assert.Equal(t, []string{"AA-1", "AA-2"}, itineraryIDs(view.DepartureCandidates))
}

// TestResults_AllSearchersFail tests that a failed search yields an empty page
// rather than an error.
func TestResults_AllSearchersFail(t *testing.T) {
	uc := CreateUseCase(
		mock.NewSearcher("a").WithError(errors.New("network error")),
		mock.NewSearcher("b").WithError(domain.ErrSearchUnavailable),
	)

	view, err := uc.StartSearch(context.Background(), DefaultQuery())

	require.NoError(t, err)
	assert.True(t, view.SearchFailed)
	assert.Zero(t, view.TotalResults)
	assert.Empty(t, view.DepartureCandidates)
	assert.Nil(t, view.PriceBounds)
}

// TestResults_SearcherTimeout tests that a slow searcher is cut off.
func TestResults_SearcherTimeout(t *testing.T) {
	slow := mock.NewSearcher("slow").
		WithDelay(500 * time.Millisecond).
		WithItineraries(mock.SampleItineraries("AA", 1))

	cfg := TestConfig()
	cfg.SearcherTimeout = 50 * time.Millisecond

	start := time.Now()
	view, err := CreateUseCaseWithConfig(store.NewMemory(time.Hour, cfg.Clock, cfg.Logger), cfg, slow).
		StartSearch(context.Background(), DefaultQuery())

	require.NoError(t, err)
	assert.True(t, view.SearchFailed)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

// TestResults_RetriesTransientFailure tests that a retryable failure is retried.
func TestResults_RetriesTransientFailure(t *testing.T) {
	flaky := mock.NewSearcher("flaky").
		WithFailures(1).
		WithItineraries(mock.SampleItineraries("AA", 3))

	view, err := CreateUseCase(flaky).StartSearch(context.Background(), DefaultQuery())

	require.NoError(t, err)
	assert.False(t, view.SearchFailed)
	assert.Equal(t, 3, view.TotalResults)
	assert.Equal(t, 2, flaky.CallCount())
}

// TestResults_FilterAndSort tests filters and sort applied through the use case.
func TestResults_FilterAndSort(t *testing.T) {
	uc := CreateUseCase(mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 6)))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, DefaultQuery())
	require.NoError(t, err)
	require.NotNil(t, view.PriceBounds)
	assert.True(t, decimal.NewFromInt(500).Equal(view.PriceBounds.Min))
	assert.True(t, decimal.NewFromInt(625).Equal(view.PriceBounds.Max))

	view, err = uc.UpdateFilters(ctx, view.SessionID, domain.FilterState{Stops: []domain.StopLabel{domain.Nonstop}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AA-1", "AA-2", "AA-4", "AA-5"}, itineraryIDs(view.DepartureCandidates))

	view, err = uc.UpdateSort(ctx, view.SessionID, domain.SortPriceDesc)
	require.NoError(t, err)
	assert.Equal(t, []string{"AA-5", "AA-4", "AA-2", "AA-1"}, itineraryIDs(view.DepartureCandidates))
	assert.Equal(t, 4, view.MatchingResults)

	// Sort and filters survive a plain read
	view, err = uc.View(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.SortPriceDesc, view.Sort)
	assert.Equal(t, []string{"AA-5", "AA-4", "AA-2", "AA-1"}, itineraryIDs(view.DepartureCandidates))
}

// TestResults_SelectionToBooking walks the whole flow from search to booking.
func TestResults_SelectionToBooking(t *testing.T) {
	uc := CreateUseCase(mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 4)))
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, DefaultQuery())
	require.NoError(t, err)
	id := view.SessionID

	_, err = uc.Handoff(ctx, id)
	assert.ErrorIs(t, err, domain.ErrPreconditionViolation)

	view, err = uc.Select(ctx, id, "AA-2")
	require.NoError(t, err)
	assert.Equal(t, domain.StageChoosingReturn, view.Stage)
	assert.Len(t, view.ReturnCandidates, 4)

	view, err = uc.Select(ctx, id, "AA-3")
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, view.Stage)
	require.NotNil(t, view.Combined)
	assert.Equal(t, "AA-2+AA-3", view.Combined.ID)
	assert.Equal(t, "1075", view.Combined.TotalPrice)

	_, err = uc.Select(ctx, id, "AA-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	handoff, err := uc.Handoff(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, handoff.Passengers)
	assert.Equal(t, view.Combined.ID, handoff.Flight.ID)

	first, err := uc.Book(ctx, id, DefaultBooking())
	require.NoError(t, err)
	again, err := uc.Book(ctx, id, DefaultBooking())
	require.NoError(t, err)
	assert.Equal(t, first.Reference, again.Reference, "booking is idempotent")

	// Going back clears the booking and the return choice
	view, err = uc.ResetSelection(ctx, id, domain.StageChoosingReturn)
	require.NoError(t, err)
	assert.Equal(t, domain.StageChoosingReturn, view.Stage)
	assert.Nil(t, view.Return)
	require.NotNil(t, view.Departure)
	assert.Equal(t, "AA-2", view.Departure.ID)
}

// TestResults_OneWay tests that a one-way search goes straight to review.
func TestResults_OneWay(t *testing.T) {
	uc := CreateUseCase(mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 2)))
	ctx := context.Background()

	q := DefaultQuery()
	q.ReturnDate = ""
	view, err := uc.StartSearch(ctx, q)
	require.NoError(t, err)

	view, err = uc.Select(ctx, view.SessionID, "AA-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageReview, view.Stage)
	require.NotNil(t, view.Combined)
	assert.Len(t, view.Combined.Trips, 1)
}

// TestResults_RefreshResetsPageState tests that a refresh replaces results
// and clears filters and selection.
func TestResults_RefreshResetsPageState(t *testing.T) {
	searcher := mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 3))
	uc := CreateUseCase(searcher)
	ctx := context.Background()

	view, err := uc.StartSearch(ctx, DefaultQuery())
	require.NoError(t, err)
	id := view.SessionID

	_, err = uc.UpdateFilters(ctx, id, domain.FilterState{Carriers: []string{"AA"}})
	require.NoError(t, err)
	_, err = uc.Select(ctx, id, "AA-1")
	require.NoError(t, err)

	searcher.WithItineraries(mock.SampleItineraries("AA", 5))
	view, err = uc.Refresh(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, 5, view.TotalResults)
	assert.True(t, view.Filters.IsEmpty())
	assert.Equal(t, domain.StageChoosingDeparture, view.Stage)
	assert.Nil(t, view.Departure)
	assert.Equal(t, 2, searcher.CallCount())
}

// TestResults_UnknownSession tests the not-found path of every operation.
func TestResults_UnknownSession(t *testing.T) {
	uc := CreateUseCase(mock.NewSearcher("aa"))
	ctx := context.Background()

	_, err := uc.View(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.Refresh(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.Select(ctx, "missing", "1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = uc.Book(ctx, "missing", DefaultBooking())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

// TestResults_RedisStore_SharedAcrossInstances tests that two service
// instances over the same Redis see each other's session state.
func TestResults_RedisStore_SharedAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := store.NewRedisWithClient(client, "it:", time.Minute)
	searcher := mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 3))

	first := CreateUseCaseWithStore(sessions, searcher)
	second := CreateUseCaseWithStore(sessions, searcher)
	ctx := context.Background()

	view, err := first.StartSearch(ctx, DefaultQuery())
	require.NoError(t, err)
	_, err = first.Select(ctx, view.SessionID, "AA-2")
	require.NoError(t, err)

	got, err := second.View(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageChoosingReturn, got.Stage)
	require.NotNil(t, got.Departure)
	assert.Equal(t, "AA-2", got.Departure.ID)

	mr.FastForward(2 * time.Minute)
	_, err = second.View(ctx, view.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestResults_RedisStore_ConcurrentRefreshAcrossInstances(t *testing.T) {
	mr := miniredis.RunT(t)
	newStore := func() *store.Redis {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return store.NewRedisWithClient(client, "it:", time.Minute)
	}
	searcher := mock.NewSearcher("aa").WithItineraries(mock.SampleItineraries("AA", 3))

	firstStore := newStore()
	instances := []usecase.ResultsUseCase{
		CreateUseCaseWithStore(firstStore, searcher),
		CreateUseCaseWithStore(newStore(), searcher),
	}
	ctx := context.Background()

	view, err := instances[0].StartSearch(ctx, DefaultQuery())
	require.NoError(t, err)

	const perInstance = 5
	var wg sync.WaitGroup
	for _, inst := range instances {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perInstance; i++ {
				_, err := inst.Refresh(ctx, view.SessionID)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := firstStore.Get(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 1+2*perInstance, got.Generation, "every refresh claims its own generation")
	assert.Len(t, got.Itineraries, 3)
	assert.False(t, got.SearchFailed)
}
