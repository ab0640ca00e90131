package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/identifier"
	"github.com/Domenick1991/airreserve/internal/kafka"
	"github.com/Domenick1991/airreserve/internal/repository/mocks"
)

type MockFlightLookup struct {
	mock.Mock
}

func (m *MockFlightLookup) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockIdentifierGenerator struct {
	mock.Mock
}

func (m *MockIdentifierGenerator) NewReferenceCode(ctx context.Context, checker identifier.CodeChecker) (string, error) {
	args := m.Called(ctx, checker)
	return args.String(0), args.Error(1)
}

func (m *MockIdentifierGenerator) AssignSeat(taken map[string]struct{}) (string, error) {
	args := m.Called(taken)
	return args.String(0), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value any, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

var (
	today       = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	journeyDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	store    *mocks.MockStore
	flights  *MockFlightLookup
	ids      *MockIdentifierGenerator
	producer *MockProducer
	service  *BookingService
}

func newFixture(opts ...BookingServiceOption) *fixture {
	f := &fixture{
		store:    mocks.NewMockStore(),
		flights:  &MockFlightLookup{},
		ids:      &MockIdentifierGenerator{},
		producer: &MockProducer{},
	}
	opts = append([]BookingServiceOption{
		WithClock(func() time.Time { return today }),
		WithNotificationsTopic("notifications_topic"),
	}, opts...)
	f.service = NewBookingService(f.store, f.flights, f.ids, f.producer, "booking_topic", opts...)
	return f
}

func flight100() *domain.Flight {
	return &domain.Flight{ID: 100, Airline: "IndiGo", Origin: "DEL", Destination: "BOM", PriceCents: 20000}
}

func twoPassengers() BookInput {
	return BookInput{
		FlightID:    100,
		JourneyDate: journeyDate,
		Passengers: []PassengerInput{
			{Name: "Asha Rao", Email: "asha@example.com", Phone: "9800000001"},
			{Name: "Vikram Rao", Phone: "9800000002"},
		},
		PaymentMethod: "UPI",
	}
}

// expectPassengers assigns ids 11, 12, ... to created passengers.
func expectPassengers(tx *mocks.MockTx, n int) {
	next := int64(11)
	tx.On("CreatePassenger", mock.Anything, mock.AnythingOfType("*domain.Passenger")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Passenger).ID = next
			next++
		}).Return(nil).Times(n)
}

func TestBookingService_Book_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(5, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{"C3"}, nil).Once()
	expectPassengers(tx, 2)
	f.ids.On("AssignSeat", mock.MatchedBy(func(taken map[string]struct{}) bool {
		_, ok := taken["C3"]
		return ok
	})).Return("A1", nil).Once()
	f.ids.On("AssignSeat", mock.Anything).Return("B2", nil).Once()
	tx.On("CreateReservation", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil).Twice()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 2).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.ReferenceCode == "ABC234" && p.AmountCents == 40000 && p.Method == domain.PaymentUPI
	})).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, "booking_topic", "ABC234", mock.AnythingOfType("kafka.BookingEvent"), DefaultPublishRetries).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, "notifications_topic", "ABC234", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCreated && e.Passengers == 2 && e.AmountCents == 40000 &&
			assert.ObjectsAreEqual([]string{"asha@example.com"}, e.Emails)
	}), DefaultPublishRetries).Return(nil).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	require.NoError(t, err)
	assert.Equal(t, "ABC234", booking.ReferenceCode)
	assert.Equal(t, []string{"A1", "B2"}, booking.Seats())
	assert.Equal(t, int64(40000), booking.Payment.AmountCents)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", booking.Payment.TransactionRef.String())
	require.Len(t, booking.Reservations, 2)
	assert.Equal(t, int64(11), booking.Reservations[0].PassengerID)
	assert.Equal(t, int64(12), booking.Reservations[1].PassengerID)
	assert.Equal(t, domain.DateOf(today), booking.Reservations[0].BookingDate)
	assert.Equal(t, journeyDate, booking.Reservations[1].JourneyDate)

	tx.AssertExpectations(t)
	f.ids.AssertExpectations(t)
	f.producer.AssertExpectations(t)
	f.store.AssertExpectations(t)
}

func TestBookingService_Book_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(in *BookInput)
	}{
		{name: "no flight", mutate: func(in *BookInput) { in.FlightID = 0 }},
		{name: "no date", mutate: func(in *BookInput) { in.JourneyDate = time.Time{} }},
		{name: "past date", mutate: func(in *BookInput) { in.JourneyDate = today.AddDate(0, 0, -1) }},
		{name: "no passengers", mutate: func(in *BookInput) { in.Passengers = nil }},
		{name: "blank name", mutate: func(in *BookInput) { in.Passengers[1].Name = "  " }},
		{name: "no payment method", mutate: func(in *BookInput) { in.PaymentMethod = "" }},
		{name: "unknown payment method", mutate: func(in *BookInput) { in.PaymentMethod = "cheque" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			input := twoPassengers()
			tc.mutate(&input)

			booking, err := f.service.Book(context.Background(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Nil(t, booking)
			assert.Empty(t, f.flights.Calls)
			assert.Empty(t, f.store.Tx.Calls)
			assert.Empty(t, f.producer.Calls)
		})
	}
}

func TestBookingService_Book_TodayIsAllowed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	input := twoPassengers()
	input.JourneyDate = today

	f.flights.On("GetByID", ctx, int64(100)).Return(nil, domain.ErrNotFound).Once()

	_, err := f.service.Book(ctx, input)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.flights.AssertExpectations(t)
}

func TestBookingService_Book_FlightNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(100)).Return(nil, domain.ErrNotFound).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, booking)
	assert.Empty(t, f.store.Tx.Calls)
}

func TestBookingService_Book_InsufficientInventory(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(1, nil).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
	assert.NotErrorIs(t, err, domain.ErrPersistence)
	assert.Nil(t, booking)
	tx.AssertNotCalled(t, "CreatePassenger", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "DecrementInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ids.AssertNotCalled(t, "NewReferenceCode", mock.Anything, mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Book_UnscheduledDateHasNoSeats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	f.store.Tx.On("LockInventory", ctx, int64(100), journeyDate).Return(0, nil).Once()

	_, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

func TestBookingService_Book_ExhaustedRetries(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(5, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("", domain.ErrExhaustedRetries).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrExhaustedRetries)
	assert.False(t, domain.IsGuidance(err))
	assert.Nil(t, booking)
	tx.AssertNotCalled(t, "CreatePassenger", mock.Anything, mock.Anything)
}

func TestBookingService_Book_PersistenceFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	dbErr := errors.New("connection reset by peer")

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(5, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{}, nil).Once()
	expectPassengers(tx, 2)
	f.ids.On("AssignSeat", mock.Anything).Return("A1", nil).Once()
	f.ids.On("AssignSeat", mock.Anything).Return("A2", nil).Once()
	tx.On("CreateReservation", ctx, mock.Anything).Return(nil).Twice()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 2).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.Anything).Return(domain.Persistence("insert payment", dbErr)).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, dbErr)
	assert.Nil(t, booking)
	f.store.AssertNotCalled(t, "InTx", mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Book_CommitFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(5, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{}, nil).Once()
	expectPassengers(tx, 2)
	f.ids.On("AssignSeat", mock.Anything).Return("A1", nil).Twice()
	tx.On("CreateReservation", ctx, mock.Anything).Return(nil).Twice()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 2).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.Anything).Return(nil).Once()
	f.store.On("InTx", ctx).Return(domain.Persistence("commit", errors.New("serialization failure"))).Once()

	booking, err := f.service.Book(ctx, twoPassengers())

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Nil(t, booking)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Book_PublishFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	input := twoPassengers()
	input.Passengers = input.Passengers[:1]

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(1, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{}, nil).Once()
	expectPassengers(tx, 1)
	f.ids.On("AssignSeat", mock.Anything).Return("J6", nil).Once()
	tx.On("CreateReservation", ctx, mock.Anything).Return(nil).Once()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 1).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.Anything).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, mock.Anything, "ABC234", mock.Anything, DefaultPublishRetries).Return(errors.New("kafka unavailable")).Twice()

	booking, err := f.service.Book(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, int64(20000), booking.Payment.AmountCents)
	f.producer.AssertExpectations(t)
}

func TestBookingService_Book_WithoutProducer(t *testing.T) {
	f := newFixture()
	f.service.producer = nil
	ctx := context.Background()
	tx := f.store.Tx
	input := twoPassengers()
	input.Passengers = input.Passengers[:1]

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(3, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{}, nil).Once()
	expectPassengers(tx, 1)
	f.ids.On("AssignSeat", mock.Anything).Return("A1", nil).Once()
	tx.On("CreateReservation", ctx, mock.Anything).Return(nil).Once()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 1).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.Anything).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()

	booking, err := f.service.Book(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "ABC234", booking.ReferenceCode)
}

func TestBookingService_Cancel_Success(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	var calls []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { calls = append(calls, name) }
	}
	groups := []domain.ReservationGroup{{FlightID: 100, JourneyDate: journeyDate, PassengerCount: 2}}
	passengers := []domain.Passenger{
		{ID: 11, Name: "Asha Rao", Email: "asha@example.com"},
		{ID: 12, Name: "Vikram Rao"},
	}

	tx.On("LockReservations", ctx, "ABC234").Run(record("rows")).Return(2, nil).Once()
	tx.On("ReservationGroups", ctx, "ABC234").Return(groups, nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Run(record("lock")).Return(3, nil).Once()
	tx.On("PassengersByReference", ctx, "ABC234").Return(passengers, nil).Once()
	tx.On("DeleteBaggage", ctx, "ABC234").Run(record("baggage")).Return(int64(1), nil).Once()
	tx.On("DeleteReservations", ctx, "ABC234").Run(record("reservations")).Return(int64(2), nil).Once()
	tx.On("DeletePayments", ctx, "ABC234").Run(record("payments")).Return(int64(1), nil).Once()
	tx.On("DeletePassengers", ctx, []int64{11, 12}).Run(record("passengers")).Return(int64(2), nil).Once()
	tx.On("IncrementInventory", ctx, int64(100), journeyDate, 2).Run(record("increment")).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, mock.Anything, "ABC234", mock.MatchedBy(func(e kafka.BookingEvent) bool {
		return e.Type == kafka.EventBookingCancelled && e.FlightID == 100 && e.Passengers == 2
	}), DefaultPublishRetries).Return(nil).Twice()

	cancellation, err := f.service.Cancel(ctx, " abc234 ")

	require.NoError(t, err)
	assert.Equal(t, "ABC234", cancellation.ReferenceCode)
	assert.Equal(t, 2, cancellation.SeatsReleased())
	assert.Equal(t, []int64{11, 12}, cancellation.PassengerIDs)
	assert.Equal(t, []string{"asha@example.com"}, cancellation.Emails)
	assert.Equal(t, int64(1), cancellation.Baggage)
	assert.Equal(t, []string{"rows", "lock", "baggage", "reservations", "payments", "passengers", "increment"}, calls)
	tx.AssertExpectations(t)
	f.producer.AssertExpectations(t)
}

func TestBookingService_Cancel_MultipleGroups(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	otherDate := journeyDate.AddDate(0, 0, 7)
	groups := []domain.ReservationGroup{
		{FlightID: 100, JourneyDate: journeyDate, PassengerCount: 1},
		{FlightID: 200, JourneyDate: otherDate, PassengerCount: 1},
	}

	tx.On("LockReservations", ctx, "ABC234").Return(2, nil).Once()
	tx.On("ReservationGroups", ctx, "ABC234").Return(groups, nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(3, nil).Once()
	tx.On("LockInventory", ctx, int64(200), otherDate).Return(9, nil).Once()
	tx.On("PassengersByReference", ctx, "ABC234").Return([]domain.Passenger{{ID: 11}, {ID: 12}}, nil).Once()
	tx.On("DeleteBaggage", ctx, "ABC234").Return(int64(0), nil).Once()
	tx.On("DeleteReservations", ctx, "ABC234").Return(int64(2), nil).Once()
	tx.On("DeletePayments", ctx, "ABC234").Return(int64(1), nil).Once()
	tx.On("DeletePassengers", ctx, []int64{11, 12}).Return(int64(2), nil).Once()
	tx.On("IncrementInventory", ctx, int64(100), journeyDate, 1).Return(nil).Once()
	tx.On("IncrementInventory", ctx, int64(200), otherDate, 1).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, mock.Anything, "ABC234", mock.Anything, DefaultPublishRetries).Return(nil).Twice()

	cancellation, err := f.service.Cancel(ctx, "ABC234")

	require.NoError(t, err)
	assert.Equal(t, 2, cancellation.SeatsReleased())
	tx.AssertExpectations(t)
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	tx.On("LockReservations", ctx, "ZZZ999").Return(0, nil).Once()

	cancellation, err := f.service.Cancel(ctx, "ZZZ999")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	tx.AssertNotCalled(t, "ReservationGroups", mock.Anything, mock.Anything)
	assert.Nil(t, cancellation)
	tx.AssertNotCalled(t, "DeleteBaggage", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "IncrementInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Cancel_UnknownIsNoop(t *testing.T) {
	f := newFixture(WithCancelUnknownNoop(true))
	ctx := context.Background()
	tx := f.store.Tx

	tx.On("LockReservations", ctx, "ZZZ999").Return(0, nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()

	cancellation, err := f.service.Cancel(ctx, "ZZZ999")

	require.NoError(t, err)
	assert.Equal(t, 0, cancellation.SeatsReleased())
	tx.AssertNotCalled(t, "DeleteReservations", mock.Anything, mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Cancel_FailureRollsBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	groups := []domain.ReservationGroup{{FlightID: 100, JourneyDate: journeyDate, PassengerCount: 2}}

	tx.On("LockReservations", ctx, "ABC234").Return(2, nil).Once()
	tx.On("ReservationGroups", ctx, "ABC234").Return(groups, nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(3, nil).Once()
	tx.On("PassengersByReference", ctx, "ABC234").Return([]domain.Passenger{{ID: 11}, {ID: 12}}, nil).Once()
	tx.On("DeleteBaggage", ctx, "ABC234").Return(int64(0), nil).Once()
	tx.On("DeleteReservations", ctx, "ABC234").Return(int64(2), nil).Once()
	tx.On("DeletePayments", ctx, "ABC234").Return(int64(1), nil).Once()
	tx.On("DeletePassengers", ctx, []int64{11, 12}).Return(int64(2), nil).Once()
	tx.On("IncrementInventory", ctx, int64(100), journeyDate, 2).Return(domain.ErrNotFound).Once()

	cancellation, err := f.service.Cancel(ctx, "ABC234")

	assert.Error(t, err)
	assert.Nil(t, cancellation)
	f.store.AssertNotCalled(t, "InTx", mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

// A second cancel of the same code can read groups that another transaction
// is deleting. Nothing is released unless every locked row is deleted here.
func TestBookingService_Cancel_ReservationsAlreadyDeleted(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx
	staleGroups := []domain.ReservationGroup{{FlightID: 100, JourneyDate: journeyDate, PassengerCount: 2}}

	tx.On("LockReservations", ctx, "ABC234").Return(2, nil).Once()
	tx.On("ReservationGroups", ctx, "ABC234").Return(staleGroups, nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(3, nil).Once()
	tx.On("PassengersByReference", ctx, "ABC234").Return([]domain.Passenger{{ID: 11}, {ID: 12}}, nil).Once()
	tx.On("DeleteBaggage", ctx, "ABC234").Return(int64(0), nil).Once()
	tx.On("DeleteReservations", ctx, "ABC234").Return(int64(0), nil).Once()

	cancellation, err := f.service.Cancel(ctx, "ABC234")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, cancellation)
	tx.AssertNotCalled(t, "DeletePayments", mock.Anything, mock.Anything)
	tx.AssertNotCalled(t, "IncrementInventory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.store.AssertNotCalled(t, "InTx", mock.Anything)
	assert.Empty(t, f.producer.Calls)
}

func TestBookingService_Cancel_LockFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tx := f.store.Tx

	tx.On("LockReservations", ctx, "ABC234").Return(0, domain.Persistence("lock reservations", errors.New("deadlock detected"))).Once()

	_, err := f.service.Cancel(ctx, "ABC234")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	tx.AssertNotCalled(t, "ReservationGroups", mock.Anything, mock.Anything)
}

func TestBookingService_PublishRetries(t *testing.T) {
	f := newFixture(WithPublishRetries(5))
	ctx := context.Background()
	tx := f.store.Tx
	input := twoPassengers()
	input.Passengers = input.Passengers[:1]

	f.flights.On("GetByID", ctx, int64(100)).Return(flight100(), nil).Once()
	tx.On("LockInventory", ctx, int64(100), journeyDate).Return(1, nil).Once()
	f.ids.On("NewReferenceCode", ctx, tx).Return("ABC234", nil).Once()
	tx.On("TakenSeats", ctx, int64(100), journeyDate).Return([]string{}, nil).Once()
	expectPassengers(tx, 1)
	f.ids.On("AssignSeat", mock.Anything).Return("A1", nil).Once()
	tx.On("CreateReservation", ctx, mock.Anything).Return(nil).Once()
	tx.On("DecrementInventory", ctx, int64(100), journeyDate, 1).Return(nil).Once()
	tx.On("CreatePayment", ctx, mock.Anything).Return(nil).Once()
	f.store.On("InTx", ctx).Return(nil).Once()
	f.producer.On("PublishWithRetry", ctx, mock.Anything, "ABC234", mock.Anything, 5).Return(nil).Twice()

	_, err := f.service.Book(ctx, input)

	require.NoError(t, err)
	f.producer.AssertExpectations(t)
}

func TestWithPublishRetries_IgnoresNonPositive(t *testing.T) {
	f := newFixture(WithPublishRetries(0))
	assert.Equal(t, DefaultPublishRetries, f.service.publishRetries)
}

func TestBookingService_Cancel_EmptyCode(t *testing.T) {
	f := newFixture()

	_, err := f.service.Cancel(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, f.store.Tx.Calls)
}
