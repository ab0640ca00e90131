// Package api is the in-process contract a presentation layer (desktop
// forms, the operator CLI) uses to drive bookings. It converts raw form
// values to domain types and delegates to the services.
package api

import (
	"context"
	"time"

	"github.com/Domenick1991/airreserve/internal/baggage"
	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/repository"
	"github.com/Domenick1991/airreserve/internal/service/booking"
	"github.com/Domenick1991/airreserve/internal/service/flights"
	"github.com/Domenick1991/airreserve/internal/service/passengers"
)

type BaggageUseCase interface {
	Remaining(ctx context.Context, passengerID int64, code string, typ domain.BaggageType, privileged bool) (float64, error)
	TryAdd(ctx context.Context, in baggage.AddInput) (int64, error)
}

type ReservationAPI struct {
	flights    flights.FlightUseCase
	bookings   booking.BookingUseCase
	baggage    BaggageUseCase
	passengers passengers.PassengerUseCase
	listings   repository.Listings
}

func New(
	flights flights.FlightUseCase,
	bookings booking.BookingUseCase,
	baggage BaggageUseCase,
	passengers passengers.PassengerUseCase,
	listings repository.Listings,
) *ReservationAPI {
	return &ReservationAPI{
		flights:    flights,
		bookings:   bookings,
		baggage:    baggage,
		passengers: passengers,
		listings:   listings,
	}
}

// IsGuidance reports whether err should be shown as a hint to fix the input
// rather than as a failure.
func IsGuidance(err error) bool {
	return domain.IsGuidance(err)
}

// ParseDate reads a YYYY-MM-DD form value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, domain.Validation("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
