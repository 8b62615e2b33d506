package usecase

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flight-search/flight-booking-system/internal/domain"
)

func TestSortItineraries(t *testing.T) {
	tests := []struct {
		name string
		key  domain.SortKey
		want []string
	}{
		{"best keeps upstream order", domain.SortBest, []string{"a", "b", "c", "d"}},
		{"price ascending", domain.SortPriceAsc, []string{"b", "d", "a", "c"}},
		{"price descending", domain.SortPriceDesc, []string{"c", "a", "d", "b"}},
		{"duration ascending", domain.SortDurationAsc, []string{"c", "a", "b", "d"}},
		{"departure ascending", domain.SortDepartureAsc, []string{"b", "a", "d", "c"}},
		{"unknown key behaves like best", domain.SortKey("cheapest"), []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortItineraries(sampleItineraries(), tt.key)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortItineraries_AscDescAreReverses(t *testing.T) {
	asc := ids(SortItineraries(sampleItineraries(), domain.SortPriceAsc))
	desc := ids(SortItineraries(sampleItineraries(), domain.SortPriceDesc))

	slices.Reverse(desc)
	assert.Equal(t, asc, desc)
}

func TestSortItineraries_StableOnTies(t *testing.T) {
	input := []domain.Itinerary{
		roundTrip("x", "500", "AA", "2024-06-01T09:00:00", "2024-06-01T10:00:00"),
		roundTrip("y", "400", "AA", "2024-06-01T09:00:00", "2024-06-01T10:00:00"),
		roundTrip("z", "500", "AA", "2024-06-01T09:00:00", "2024-06-01T10:00:00"),
	}

	assert.Equal(t, []string{"y", "x", "z"}, ids(SortItineraries(input, domain.SortPriceAsc)))
	assert.Equal(t, []string{"x", "y", "z"}, ids(SortItineraries(input, domain.SortDepartureAsc)))
}

func TestSortItineraries_UnparsableValues(t *testing.T) {
	input := []domain.Itinerary{
		roundTrip("priced", "100", "AA", "2024-06-01T09:00:00", "2024-06-01T10:00:00"),
		roundTrip("garbage", "N/A", "AA", "never", ""),
	}

	assert.Equal(t, []string{"garbage", "priced"}, ids(SortItineraries(input, domain.SortPriceAsc)), "unparsable price sorts as zero")
	assert.Equal(t, []string{"garbage", "priced"}, ids(SortItineraries(input, domain.SortDepartureAsc)), "missing departure sorts first")
	assert.Equal(t, []string{"garbage", "priced"}, ids(SortItineraries(input, domain.SortDurationAsc)), "missing duration sorts as zero")
}

func TestSortItineraries_EmptyAndSingle(t *testing.T) {
	empty := SortItineraries(nil, domain.SortPriceAsc)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	single := sampleItineraries()[:1]
	assert.Equal(t, single, SortItineraries(single, domain.SortPriceDesc))
}

func TestSortItineraries_DoesNotMutateInput(t *testing.T) {
	input := sampleItineraries()
	_ = SortItineraries(input, domain.SortPriceAsc)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(input))
}
