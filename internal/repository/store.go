package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InventoryLedger tracks remaining seats per (flight, journey date). It does
// not reject over-decrements; callers lock and check first.
type InventoryLedger interface {
	AvailableSeats(ctx context.Context, flightID int64, journeyDate time.Time) (int, error)
	LockInventory(ctx context.Context, flightID int64, journeyDate time.Time) (int, error)
	DecrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error
	IncrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error
}

type PassengerStore interface {
	CreatePassenger(ctx context.Context, p *domain.Passenger) error
	GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error)
	LockPassenger(ctx context.Context, id int64) (*domain.Passenger, error)
	UpdatePassengerContact(ctx context.Context, id int64, field domain.ContactField, value string) error
	DeletePassengers(ctx context.Context, ids []int64) (int64, error)
}

type ReservationStore interface {
	ReferenceCodeExists(ctx context.Context, code string) (bool, error)
	CreateReservation(ctx context.Context, r *domain.Reservation) error
	TakenSeats(ctx context.Context, flightID int64, journeyDate time.Time) ([]string, error)
	LockReservations(ctx context.Context, code string) (int, error)
	ReservationGroups(ctx context.Context, code string) ([]domain.ReservationGroup, error)
	PassengersByReference(ctx context.Context, code string) ([]domain.Passenger, error)
	LockReservation(ctx context.Context, code string, passengerID int64) error
	DeleteReservations(ctx context.Context, code string) (int64, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *domain.Payment) error
	DeletePayments(ctx context.Context, code string) (int64, error)
}

type BaggageStore interface {
	BaggageWeight(ctx context.Context, passengerID int64, code string, typ domain.BaggageType) (float64, error)
	CreateBaggage(ctx context.Context, b *domain.BaggageItem) error
	DeleteBaggage(ctx context.Context, code string) (int64, error)
}

// Tx is everything a transaction callback may touch.
type Tx interface {
	InventoryLedger
	PassengerStore
	ReservationStore
	PaymentStore
	BaggageStore
}

// Transactor runs fn inside one database transaction. Any error returned by
// fn rolls back every statement fn issued.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Listings are the read-only projections used by reporting screens.
type Listings interface {
	Reservations(ctx context.Context) ([]domain.Reservation, error)
	ReservationsByReference(ctx context.Context, code string) ([]domain.Reservation, error)
	ReservationForPassenger(ctx context.Context, passengerID int64) (*domain.Reservation, error)
	RouteAvailability(ctx context.Context, origin, destination string, journeyDate time.Time) ([]domain.Flight, error)
	PassengersByReference(ctx context.Context, code string) ([]domain.Passenger, error)
	PassengersForFlight(ctx context.Context, flightID int64, journeyDate time.Time) ([]domain.Passenger, error)
	BaggageByReference(ctx context.Context, code string) ([]domain.BaggageItem, error)
	AllBaggage(ctx context.Context) ([]domain.BaggageItem, error)
	Payments(ctx context.Context) ([]domain.Payment, error)
	AvailableSeats(ctx context.Context, flightID int64, journeyDate time.Time) (int, error)
}

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// InTx uses READ COMMITTED; contention on inventory and reservation rows is
// handled with SELECT ... FOR UPDATE inside the callbacks.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return domain.Persistence("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &Queries{db: tx}); err != nil {
		return domain.Persistence("transaction", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Persistence("commit", err)
	}
	return nil
}

// Queries runs single statements directly on the pool.
func (s *Store) Queries() *Queries {
	return &Queries{db: s.pool}
}

// Queries implements Tx and Listings over either a pool or a transaction.
type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

var (
	_ Transactor = (*Store)(nil)
	_ Tx         = (*Queries)(nil)
	_ Listings   = (*Queries)(nil)
)
