package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/jackc/pgx/v5"
)

// AvailableSeats returns 0 when the flight is not scheduled on that date.
func (q *Queries) AvailableSeats(ctx context.Context, flightID int64, journeyDate time.Time) (int, error) {
	return q.availableSeats(ctx, `SELECT available_seats FROM flight_availability WHERE flight_id=$1 AND journey_date=$2`, flightID, journeyDate)
}

// LockInventory reads the seat count and holds a row lock on it until the
// surrounding transaction ends. Concurrent bookings of the same flight/date
// queue up here.
func (q *Queries) LockInventory(ctx context.Context, flightID int64, journeyDate time.Time) (int, error) {
	return q.availableSeats(ctx, `SELECT available_seats FROM flight_availability WHERE flight_id=$1 AND journey_date=$2 FOR UPDATE`, flightID, journeyDate)
}

func (q *Queries) availableSeats(ctx context.Context, sql string, flightID int64, journeyDate time.Time) (int, error) {
	var available int
	if err := q.db.QueryRow(ctx, sql, flightID, domain.DateOf(journeyDate)).Scan(&available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, domain.Persistence("read inventory", err)
	}
	return available, nil
}

func (q *Queries) DecrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error {
	return q.adjustInventory(ctx, flightID, journeyDate, -count)
}

// IncrementInventory has no upper bound since scheduled capacity is not stored.
func (q *Queries) IncrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error {
	return q.adjustInventory(ctx, flightID, journeyDate, count)
}

func (q *Queries) adjustInventory(ctx context.Context, flightID int64, journeyDate time.Time, delta int) error {
	cmd, err := q.db.Exec(ctx, `
        UPDATE flight_availability
        SET available_seats = available_seats + $1
        WHERE flight_id = $2 AND journey_date = $3
    `, delta, flightID, domain.DateOf(journeyDate))
	if err != nil {
		return domain.Persistence("update inventory", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// OpenInventory schedules a flight on a date with the given number of seats,
// or resets the count if it is already scheduled.
func (q *Queries) OpenInventory(ctx context.Context, flightID int64, journeyDate time.Time, seats int) error {
	_, err := q.db.Exec(ctx, `
        INSERT INTO flight_availability (flight_id, journey_date, available_seats)
        VALUES ($1, $2, $3)
        ON CONFLICT (flight_id, journey_date) DO UPDATE SET available_seats = EXCLUDED.available_seats
    `, flightID, domain.DateOf(journeyDate), seats)
	return domain.Persistence("open inventory", err)
}

// RouteAvailability lists every flight on the route scheduled for
// journeyDate with its remaining seats, sold-out ones included.
func (q *Queries) RouteAvailability(ctx context.Context, origin, destination string, journeyDate time.Time) ([]domain.Flight, error) {
	rows, err := q.db.Query(ctx, `
        SELECT `+flightColumns+`, a.available_seats
        `+flightJoins+`
        JOIN flight_availability a ON a.flight_id = f.id
        WHERE f.origin = $1 AND f.destination = $2 AND a.journey_date = $3
        ORDER BY f.departure_time, f.id
    `, origin, destination, domain.DateOf(journeyDate))
	if err != nil {
		return nil, domain.Persistence("select route availability", err)
	}
	return collectFlights(rows)
}
