package api

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
)

func (a *ReservationAPI) SearchFlights(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	return a.flights.Search(ctx, origin, destination, date)
}

func (a *ReservationAPI) Flights(ctx context.Context) ([]domain.Flight, error) {
	return a.flights.List(ctx)
}

func (a *ReservationAPI) Flight(ctx context.Context, id int64) (*domain.Flight, error) {
	return a.flights.GetByID(ctx, id)
}

func (a *ReservationAPI) Airports(ctx context.Context) ([]domain.Airport, error) {
	return a.flights.Airports(ctx)
}

// AvailableSeats is 0 for dates the flight is not scheduled on.
func (a *ReservationAPI) AvailableSeats(ctx context.Context, flightID int64, date time.Time) (int, error) {
	return a.listings.AvailableSeats(ctx, flightID, date)
}

// RouteAvailability shows every flight scheduled on the route for date with
// its seat count. Unlike SearchFlights it keeps sold-out and departed flights.
func (a *ReservationAPI) RouteAvailability(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))
	if origin == "" || destination == "" {
		return nil, domain.Validation("origin and destination are required")
	}
	return a.listings.RouteAvailability(ctx, origin, destination, date)
}
