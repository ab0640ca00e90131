package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (q *Queries) CreatePassenger(ctx context.Context, p *domain.Passenger) error {
	err := q.db.QueryRow(ctx, `INSERT INTO passengers (name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		p.Name, p.Email, p.Phone).Scan(&p.ID)
	return domain.Persistence("insert passenger", err)
}

func (q *Queries) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return q.scanPassenger(ctx, `SELECT id, name, email, phone FROM passengers WHERE id=$1`, id)
}

// LockPassenger is GetPassenger plus a row lock for read-modify-write.
func (q *Queries) LockPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	return q.scanPassenger(ctx, `SELECT id, name, email, phone FROM passengers WHERE id=$1 FOR UPDATE`, id)
}

func (q *Queries) scanPassenger(ctx context.Context, sql string, id int64) (*domain.Passenger, error) {
	var p domain.Passenger
	if err := q.db.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Name, &p.Email, &p.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("passenger %d: %w", id, domain.ErrNotFound)
		}
		return nil, domain.Persistence("select passenger", err)
	}
	return &p, nil
}

func (q *Queries) UpdatePassengerContact(ctx context.Context, id int64, field domain.ContactField, value string) error {
	var sql string
	switch field {
	case domain.ContactEmail:
		sql = `UPDATE passengers SET email=$1 WHERE id=$2`
	case domain.ContactPhone:
		sql = `UPDATE passengers SET phone=$1 WHERE id=$2`
	default:
		return fmt.Errorf("%w: %s is not an editable field", domain.ErrValidation, field)
	}

	cmd, err := q.db.Exec(ctx, sql, value, id)
	if err != nil {
		return domain.Persistence("update passenger", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("passenger %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (q *Queries) DeletePassengers(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := q.db.Exec(ctx, `DELETE FROM passengers WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, domain.Persistence("delete passengers", err)
	}
	return cmd.RowsAffected(), nil
}

func (q *Queries) PassengersForFlight(ctx context.Context, flightID int64, journeyDate time.Time) ([]domain.Passenger, error) {
	return q.queryPassengers(ctx, `
        SELECT p.id, p.name, p.email, p.phone
        FROM reservations r
        JOIN passengers p ON r.passenger_id = p.id
        WHERE r.flight_id = $1 AND r.journey_date = $2
        ORDER BY p.name
    `, flightID, domain.DateOf(journeyDate))
}

func (q *Queries) PassengersByReference(ctx context.Context, code string) ([]domain.Passenger, error) {
	return q.queryPassengers(ctx, `
        SELECT p.id, p.name, p.email, p.phone
        FROM reservations r
        JOIN passengers p ON r.passenger_id = p.id
        WHERE r.reference_code = $1
        ORDER BY p.id
    `, code)
}

func (q *Queries) queryPassengers(ctx context.Context, sql string, args ...any) ([]domain.Passenger, error) {
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, domain.Persistence("select passengers", err)
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone); err != nil {
			return nil, domain.Persistence("scan passenger", err)
		}
		passengers = append(passengers, p)
	}
	return passengers, domain.Persistence("iterate passengers", rows.Err())
}
