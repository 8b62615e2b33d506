package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// PassengerType distinguishes adult and child travellers.
type PassengerType string

// Passenger types.
const (
	PassengerAdult PassengerType = "adult"
	PassengerChild PassengerType = "child"
)

// Passenger holds the details entered on the passenger-details screen.
type Passenger struct {
	Type        PassengerType `json:"type"`
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	DateOfBirth string        `json:"dateOfBirth,omitempty"`
}

// Contact is the booking contact.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// BookingRequest is the passenger-details form submitted for review and confirmation.
type BookingRequest struct {
	Passengers []Passenger `json:"passengers"`
	Contact    Contact     `json:"contact"`
}

// BookingConfirmation is the data shown on the booking-success screen.
type BookingConfirmation struct {
	Reference      string      `json:"reference"`
	Flight         Itinerary   `json:"flight"`
	Passengers     []Passenger `json:"passengers"`
	Contact        Contact     `json:"contact"`
	TotalPrice     string      `json:"totalPrice"`
	FormattedTotal string      `json:"formattedTotal"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// Validate checks the request against the search's passenger counts.
func (r *BookingRequest) Validate(adults, children int) error {
	if len(r.Passengers) != adults+children {
		return fmt.Errorf("%w: expected %d passengers, got %d", ErrInvalidRequest, adults+children, len(r.Passengers))
	}

	var gotAdults, gotChildren int
	for i, p := range r.Passengers {
		switch p.Type {
		case PassengerAdult:
			gotAdults++
		case PassengerChild:
			gotChildren++
		default:
			return fmt.Errorf("%w: passengers[%d].type must be adult or child, got %q", ErrInvalidRequest, i, p.Type)
		}
		if strings.TrimSpace(p.FirstName) == "" {
			return fmt.Errorf("%w: passengers[%d].firstName is required", ErrInvalidRequest, i)
		}
		if strings.TrimSpace(p.LastName) == "" {
			return fmt.Errorf("%w: passengers[%d].lastName is required", ErrInvalidRequest, i)
		}
		if p.DateOfBirth != "" {
			if _, err := time.Parse(dateLayout, p.DateOfBirth); err != nil {
				return fmt.Errorf("%w: passengers[%d].dateOfBirth must be YYYY-MM-DD", ErrInvalidRequest, i)
			}
		}
	}
	if gotAdults != adults || gotChildren != children {
		return fmt.Errorf("%w: expected %d adults and %d children, got %d and %d",
			ErrInvalidRequest, adults, children, gotAdults, gotChildren)
	}

	if r.Contact.Email == "" {
		return fmt.Errorf("%w: contact.email is required", ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(r.Contact.Email); err != nil {
		return fmt.Errorf("%w: contact.email is not a valid address", ErrInvalidRequest)
	}
	return nil
}
