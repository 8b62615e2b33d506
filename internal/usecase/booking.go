package usecase

import (
	"strings"
	"time"

	"github.com/anyascii/go"
	"github.com/google/uuid"

	"github.com/flight-search/flight-booking-system/internal/domain"
	"github.com/flight-search/flight-booking-system/internal/infrastructure/currency"
)

const bookingReferenceLength = 6

// NewBookingReference returns a six character upper-case record locator.
func NewBookingReference() string {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return ref[:bookingReferenceLength]
}

// TicketName converts a passenger name to the upper-case ASCII form printed
// on tickets: "José Ñúñez" becomes "JOSE NUNEZ". Whitespace is collapsed.
func TicketName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(anyascii.Transliterate(name)), " "))
}

// BuildConfirmation assembles the booking-success data for a validated request.
// Passenger names are transliterated for ticketing.
func BuildConfirmation(flight domain.Itinerary, req domain.BookingRequest, reference string, now time.Time) *domain.BookingConfirmation {
	passengers := make([]domain.Passenger, len(req.Passengers))
	for i, p := range req.Passengers {
		p.FirstName = TicketName(p.FirstName)
		p.LastName = TicketName(p.LastName)
		passengers[i] = p
	}

	return &domain.BookingConfirmation{
		Reference:      reference,
		Flight:         flight,
		Passengers:     passengers,
		Contact:        domain.Contact{Email: strings.TrimSpace(req.Contact.Email), Phone: strings.TrimSpace(req.Contact.Phone)},
		TotalPrice:     flight.TotalPrice,
		FormattedTotal: currency.Format(flight.TotalAmount(), flight.CurrencyCode),
		CreatedAt:      now,
	}
}
