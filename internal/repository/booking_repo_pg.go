package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (q *Queries) ReferenceCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM reservations WHERE reference_code=$1)
            OR EXISTS (SELECT 1 FROM payments WHERE reference_code=$1)
    `, code).Scan(&exists)
	if err != nil {
		return false, domain.Persistence("check reference code", err)
	}
	return exists, nil
}

func (q *Queries) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	_, err := q.db.Exec(ctx, `INSERT INTO reservations (reference_code, passenger_id, flight_id, seat_no, booking_date, journey_date)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		r.ReferenceCode, r.PassengerID, r.FlightID, r.SeatNo, domain.DateOf(r.BookingDate), domain.DateOf(r.JourneyDate))
	return domain.Persistence("insert reservation", err)
}

// TakenSeats lists seat labels already assigned on a flight/date.
func (q *Queries) TakenSeats(ctx context.Context, flightID int64, journeyDate time.Time) ([]string, error) {
	rows, err := q.db.Query(ctx, `SELECT seat_no FROM reservations WHERE flight_id=$1 AND journey_date=$2`, flightID, domain.DateOf(journeyDate))
	if err != nil {
		return nil, domain.Persistence("select taken seats", err)
	}
	seats, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, domain.Persistence("scan taken seats", err)
	}
	return seats, nil
}

func (q *Queries) ReservationGroups(ctx context.Context, code string) ([]domain.ReservationGroup, error) {
	rows, err := q.db.Query(ctx, `
        SELECT flight_id, journey_date, COUNT(*)
        FROM reservations
        WHERE reference_code = $1
        GROUP BY flight_id, journey_date
        ORDER BY flight_id, journey_date
    `, code)
	if err != nil {
		return nil, domain.Persistence("select reservation groups", err)
	}
	defer rows.Close()

	var groups []domain.ReservationGroup
	for rows.Next() {
		var g domain.ReservationGroup
		if err := rows.Scan(&g.FlightID, &g.JourneyDate, &g.PassengerCount); err != nil {
			return nil, domain.Persistence("scan reservation group", err)
		}
		groups = append(groups, g)
	}
	return groups, domain.Persistence("iterate reservation groups", rows.Err())
}

// LockReservations locks every reservation row of code and returns how many
// there are. Rows deleted by a transaction that committed while waiting are
// not counted.
func (q *Queries) LockReservations(ctx context.Context, code string) (int, error) {
	rows, err := q.db.Query(ctx, `SELECT passenger_id FROM reservations WHERE reference_code=$1 ORDER BY passenger_id FOR UPDATE`, code)
	if err != nil {
		return 0, domain.Persistence("lock reservations", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, domain.Persistence("lock reservations", err)
	}
	return len(ids), nil
}

// LockReservation holds the (reference code, passenger) reservation row until
// the transaction ends.
func (q *Queries) LockReservation(ctx context.Context, code string, passengerID int64) error {
	var one int
	err := q.db.QueryRow(ctx, `SELECT 1 FROM reservations WHERE reference_code=$1 AND passenger_id=$2 FOR UPDATE`, code, passengerID).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("reservation %s for passenger %d: %w", code, passengerID, domain.ErrNotFound)
		}
		return domain.Persistence("lock reservation", err)
	}
	return nil
}

func (q *Queries) DeleteReservations(ctx context.Context, code string) (int64, error) {
	cmd, err := q.db.Exec(ctx, `DELETE FROM reservations WHERE reference_code=$1`, code)
	if err != nil {
		return 0, domain.Persistence("delete reservations", err)
	}
	return cmd.RowsAffected(), nil
}

func (q *Queries) ReservationsByReference(ctx context.Context, code string) ([]domain.Reservation, error) {
	return q.queryReservations(ctx, `
        SELECT reference_code, passenger_id, flight_id, seat_no, booking_date, journey_date
        FROM reservations
        WHERE reference_code = $1
        ORDER BY passenger_id
    `, code)
}

func (q *Queries) Reservations(ctx context.Context) ([]domain.Reservation, error) {
	return q.queryReservations(ctx, `
        SELECT reference_code, passenger_id, flight_id, seat_no, booking_date, journey_date
        FROM reservations
        ORDER BY journey_date, flight_id, reference_code, passenger_id
    `)
}

// ReservationForPassenger returns the reservation holding passengerID's seat.
func (q *Queries) ReservationForPassenger(ctx context.Context, passengerID int64) (*domain.Reservation, error) {
	reservations, err := q.queryReservations(ctx, `
        SELECT reference_code, passenger_id, flight_id, seat_no, booking_date, journey_date
        FROM reservations
        WHERE passenger_id = $1
    `, passengerID)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, fmt.Errorf("reservation for passenger %d: %w", passengerID, domain.ErrNotFound)
	}
	return &reservations[0], nil
}

func (q *Queries) queryReservations(ctx context.Context, sql string, args ...any) ([]domain.Reservation, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Persistence("select reservations", err)
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	for rows.Next() {
		var r domain.Reservation
		if err := rows.Scan(&r.ReferenceCode, &r.PassengerID, &r.FlightID, &r.SeatNo, &r.BookingDate, &r.JourneyDate); err != nil {
			return nil, domain.Persistence("scan reservation", err)
		}
		reservations = append(reservations, r)
	}
	return reservations, domain.Persistence("iterate reservations", rows.Err())
}

func (q *Queries) CreatePayment(ctx context.Context, p *domain.Payment) error {
	err := q.db.QueryRow(ctx, `INSERT INTO payments (reference_code, transaction_ref, amount_cents, method)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`, p.ReferenceCode, p.TransactionRef, p.AmountCents, string(p.Method)).
		Scan(&p.ID, &p.CreatedAt)
	return domain.Persistence("insert payment", err)
}

func (q *Queries) DeletePayments(ctx context.Context, code string) (int64, error) {
	cmd, err := q.db.Exec(ctx, `DELETE FROM payments WHERE reference_code=$1`, code)
	if err != nil {
		return 0, domain.Persistence("delete payments", err)
	}
	return cmd.RowsAffected(), nil
}

func (q *Queries) Payments(ctx context.Context) ([]domain.Payment, error) {
	rows, err := q.db.Query(ctx, `SELECT id, reference_code, transaction_ref, amount_cents, method, created_at FROM payments ORDER BY created_at, id`)
	if err != nil {
		return nil, domain.Persistence("select payments", err)
	}
	defer rows.Close()

	payments := make([]domain.Payment, 0)
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.ReferenceCode, &p.TransactionRef, &p.AmountCents, &p.Method, &p.CreatedAt); err != nil {
			return nil, domain.Persistence("scan payment", err)
		}
		payments = append(payments, p)
	}
	return payments, domain.Persistence("iterate payments", rows.Err())
}
