// Package mocks provides testify mocks of the repository interfaces for
// service tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/repository"
)

// MockStore runs the callback against Tx and returns the mocked commit error.
// A callback error is returned as is, so the commit expectation is only
// needed for callbacks that succeed.
type MockStore struct {
	mock.Mock
	Tx *MockTx
}

func NewMockStore() *MockStore {
	return &MockStore{Tx: &MockTx{}}
}

func (m *MockStore) InTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := fn(ctx, m.Tx); err != nil {
		return domain.Persistence("transaction", err)
	}
	args := m.Called(ctx)
	return args.Error(0)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) AvailableSeats(ctx context.Context, flightID int64, journeyDate time.Time) (int, error) {
	args := m.Called(ctx, flightID, journeyDate)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) LockInventory(ctx context.Context, flightID int64, journeyDate time.Time) (int, error) {
	args := m.Called(ctx, flightID, journeyDate)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) DecrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error {
	args := m.Called(ctx, flightID, journeyDate, count)
	return args.Error(0)
}

func (m *MockTx) IncrementInventory(ctx context.Context, flightID int64, journeyDate time.Time, count int) error {
	args := m.Called(ctx, flightID, journeyDate, count)
	return args.Error(0)
}

func (m *MockTx) CreatePassenger(ctx context.Context, p *domain.Passenger) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockTx) GetPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockTx) LockPassenger(ctx context.Context, id int64) (*domain.Passenger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passenger), args.Error(1)
}

func (m *MockTx) UpdatePassengerContact(ctx context.Context, id int64, field domain.ContactField, value string) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *MockTx) DeletePassengers(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) ReferenceCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockTx) TakenSeats(ctx context.Context, flightID int64, journeyDate time.Time) ([]string, error) {
	args := m.Called(ctx, flightID, journeyDate)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTx) LockReservations(ctx context.Context, code string) (int, error) {
	args := m.Called(ctx, code)
	return args.Int(0), args.Error(1)
}

func (m *MockTx) ReservationGroups(ctx context.Context, code string) ([]domain.ReservationGroup, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.ReservationGroup), args.Error(1)
}

func (m *MockTx) PassengersByReference(ctx context.Context, code string) ([]domain.Passenger, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockTx) LockReservation(ctx context.Context, code string, passengerID int64) error {
	args := m.Called(ctx, code, passengerID)
	return args.Error(0)
}

func (m *MockTx) DeleteReservations(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) CreatePayment(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockTx) DeletePayments(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) BaggageWeight(ctx context.Context, passengerID int64, code string, typ domain.BaggageType) (float64, error) {
	args := m.Called(ctx, passengerID, code, typ)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockTx) CreateBaggage(ctx context.Context, b *domain.BaggageItem) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockTx) DeleteBaggage(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

var (
	_ repository.Transactor = (*MockStore)(nil)
	_ repository.Tx         = (*MockTx)(nil)
)
