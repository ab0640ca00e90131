package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, journeyDate time.Time, departingAfter *domain.TimeOfDay) ([]domain.Flight, error)
	Airports(ctx context.Context) ([]domain.Airport, error)
}

type PGFlightRepository struct {
	db DBTX
}

func NewFlightRepository(db DBTX) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.airline, f.origin, f.destination, o.name, d.name, f.departure_time, f.arrival_time, f.price_cents`

const flightJoins = `FROM flights f
        JOIN airports o ON o.id = f.origin
        JOIN airports d ON d.id = f.destination`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+`, 0 `+flightJoins+` ORDER BY f.departure_time, f.id`)
	if err != nil {
		return nil, domain.Persistence("select flights", err)
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+`, 0 `+flightJoins+` WHERE f.id=$1`, id)
	f, err := scanFlight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
		}
		return nil, domain.Persistence("select flight", err)
	}
	return &f, nil
}

// Search lists flights on the route that still have seats on journeyDate.
// A non-nil departingAfter drops flights that leave at or before it.
func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, journeyDate time.Time, departingAfter *domain.TimeOfDay) ([]domain.Flight, error) {
	after := pgtype.Time{}
	if departingAfter != nil {
		after = pgtype.Time{Microseconds: time.Duration(*departingAfter).Microseconds(), Valid: true}
	}
	rows, err := r.db.Query(ctx, `
        SELECT `+flightColumns+`, a.available_seats
        `+flightJoins+`
        JOIN flight_availability a ON a.flight_id = f.id
        WHERE f.origin = $1 AND f.destination = $2
          AND a.journey_date = $3
          AND a.available_seats > 0
          AND ($4::time IS NULL OR f.departure_time > $4::time)
        ORDER BY f.departure_time, f.id
    `, origin, destination, domain.DateOf(journeyDate), after)
	if err != nil {
		return nil, domain.Persistence("search flights", err)
	}
	return collectFlights(rows)
}

func (r *PGFlightRepository) Airports(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, city FROM airports ORDER BY id`)
	if err != nil {
		return nil, domain.Persistence("select airports", err)
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Name, &a.City); err != nil {
			return nil, domain.Persistence("scan airport", err)
		}
		airports = append(airports, a)
	}
	return airports, domain.Persistence("iterate airports", rows.Err())
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, domain.Persistence("scan flight", err)
		}
		flights = append(flights, f)
	}
	return flights, domain.Persistence("iterate flights", rows.Err())
}

func scanFlight(row pgx.Row) (domain.Flight, error) {
	var (
		f                  domain.Flight
		departure, arrival pgtype.Time
	)
	err := row.Scan(&f.ID, &f.Airline, &f.Origin, &f.Destination, &f.OriginName, &f.DestinationName,
		&departure, &arrival, &f.PriceCents, &f.AvailableSeats)
	if err != nil {
		return domain.Flight{}, err
	}
	f.DepartureTime = timeOfDay(departure)
	f.ArrivalTime = timeOfDay(arrival)
	return f, nil
}

func timeOfDay(t pgtype.Time) domain.TimeOfDay {
	return domain.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

var _ FlightRepository = (*PGFlightRepository)(nil)
