package api

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
)

func (a *ReservationAPI) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	return a.listings.Reservations(ctx)
}

// ReservationForPassenger returns the booking and seat a passenger holds.
func (a *ReservationAPI) ReservationForPassenger(ctx context.Context, passengerID int64) (*domain.Reservation, error) {
	if passengerID <= 0 {
		return nil, domain.Validation("passenger id must be positive")
	}
	return a.listings.ReservationForPassenger(ctx, passengerID)
}

func (a *ReservationAPI) ReservationsByReference(ctx context.Context, referenceCode string) ([]domain.Reservation, error) {
	return a.listings.ReservationsByReference(ctx, normalizeCode(referenceCode))
}

func (a *ReservationAPI) PassengersByReference(ctx context.Context, referenceCode string) ([]domain.Passenger, error) {
	return a.listings.PassengersByReference(ctx, normalizeCode(referenceCode))
}

func (a *ReservationAPI) PassengersForFlight(ctx context.Context, flightID int64, date time.Time) ([]domain.Passenger, error) {
	return a.listings.PassengersForFlight(ctx, flightID, date)
}

func (a *ReservationAPI) Passenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return a.passengers.Get(ctx, id)
}

func (a *ReservationAPI) BaggageByReference(ctx context.Context, referenceCode string) ([]domain.BaggageItem, error) {
	return a.listings.BaggageByReference(ctx, normalizeCode(referenceCode))
}

func (a *ReservationAPI) Baggage(ctx context.Context) ([]domain.BaggageItem, error) {
	return a.listings.AllBaggage(ctx)
}

func (a *ReservationAPI) Payments(ctx context.Context) ([]domain.Payment, error) {
	return a.listings.Payments(ctx)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
