package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQuery_Validate(t *testing.T) {
	// Helper to create a valid base query
	validQuery := func() *SearchQuery {
		return &SearchQuery{
			From:         "JFK",
			To:           "LHR",
			DepartDate:   "2024-06-01",
			ReturnDate:   "2024-06-10",
			Adults:       2,
			Children:     1,
			CurrencyCode: "USD",
		}
	}

	tests := []struct {
		name        string
		modify      func(*SearchQuery)
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid round trip passes",
			modify:  func(q *SearchQuery) {},
			wantErr: false,
		},
		{
			name:    "valid one way passes",
			modify:  func(q *SearchQuery) { q.ReturnDate = "" },
			wantErr: false,
		},
		{
			name:        "lowercase origin fails",
			modify:      func(q *SearchQuery) { q.From = "jfk" },
			wantErr:     true,
			errContains: "from must be a valid 3-letter IATA code",
		},
		{
			name:        "empty destination fails",
			modify:      func(q *SearchQuery) { q.To = "" },
			wantErr:     true,
			errContains: "to must be a valid 3-letter IATA code",
		},
		{
			name:        "same origin and destination fails",
			modify:      func(q *SearchQuery) { q.To = "JFK" },
			wantErr:     true,
			errContains: "must be different",
		},
		{
			name:        "bad depart date fails",
			modify:      func(q *SearchQuery) { q.DepartDate = "2024-13-01" },
			wantErr:     true,
			errContains: "departDate",
		},
		{
			name:        "return before departure fails",
			modify:      func(q *SearchQuery) { q.ReturnDate = "2024-05-30" },
			wantErr:     true,
			errContains: "returnDate cannot be before departDate",
		},
		{
			name:        "no adults fails",
			modify:      func(q *SearchQuery) { q.Adults = 0 },
			wantErr:     true,
			errContains: "at least one adult",
		},
		{
			name:        "too many passengers fails",
			modify:      func(q *SearchQuery) { q.Adults = 8; q.Children = 2 },
			wantErr:     true,
			errContains: "cannot exceed 9",
		},
		{
			name:        "bad currency fails",
			modify:      func(q *SearchQuery) { q.CurrencyCode = "dollars" },
			wantErr:     true,
			errContains: "currencyCode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuery()
			tt.modify(q)

			err := q.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSearchQuery_SetDefaults(t *testing.T) {
	q := SearchQuery{From: " jfk", To: "lhr ", DepartDate: "2024-06-01"}
	q.SetDefaults()

	assert.Equal(t, "JFK", q.From)
	assert.Equal(t, "LHR", q.To)
	assert.Equal(t, 1, q.Adults)
	assert.Equal(t, 0, q.Children)
	assert.Equal(t, DefaultCurrency, q.CurrencyCode)
	assert.True(t, q.IsOneWay())
	assert.Equal(t, 1, q.Passengers())
}

func TestSearchQuery_SetDefaults_KeepsChildren(t *testing.T) {
	q := SearchQuery{Adults: 0, Children: 2, CurrencyCode: "eur"}
	q.SetDefaults()

	assert.Equal(t, 0, q.Adults, "children-only queries keep zero adults and fail validation")
	assert.Equal(t, "EUR", q.CurrencyCode)
}

func TestBookingRequest_Validate(t *testing.T) {
	valid := func() *BookingRequest {
		return &BookingRequest{
			Passengers: []Passenger{
				{Type: PassengerAdult, FirstName: "Ada", LastName: "Lovelace", DateOfBirth: "1985-12-10"},
				{Type: PassengerChild, FirstName: "Byron", LastName: "Lovelace"},
			},
			Contact: Contact{Email: "ada@example.com"},
		}
	}

	tests := []struct {
		name        string
		modify      func(*BookingRequest)
		errContains string
	}{
		{name: "valid request", modify: func(r *BookingRequest) {}},
		{
			name:        "wrong passenger count",
			modify:      func(r *BookingRequest) { r.Passengers = r.Passengers[:1] },
			errContains: "expected 2 passengers, got 1",
		},
		{
			name:        "wrong adult child split",
			modify:      func(r *BookingRequest) { r.Passengers[1].Type = PassengerAdult },
			errContains: "expected 1 adults and 1 children",
		},
		{
			name:        "unknown passenger type",
			modify:      func(r *BookingRequest) { r.Passengers[0].Type = "infant" },
			errContains: "passengers[0].type",
		},
		{
			name:        "missing first name",
			modify:      func(r *BookingRequest) { r.Passengers[1].FirstName = " " },
			errContains: "passengers[1].firstName",
		},
		{
			name:        "missing last name",
			modify:      func(r *BookingRequest) { r.Passengers[0].LastName = "" },
			errContains: "passengers[0].lastName",
		},
		{
			name:        "bad date of birth",
			modify:      func(r *BookingRequest) { r.Passengers[0].DateOfBirth = "10/12/1985" },
			errContains: "dateOfBirth",
		},
		{
			name:        "missing email",
			modify:      func(r *BookingRequest) { r.Contact.Email = "" },
			errContains: "contact.email is required",
		},
		{
			name:        "invalid email",
			modify:      func(r *BookingRequest) { r.Contact.Email = "not-an-email" },
			errContains: "contact.email is not a valid address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.modify(r)

			err := r.Validate(1, 1)
			if tt.errContains == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
