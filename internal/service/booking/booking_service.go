package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/identifier"
	"github.com/Domenick1991/airreserve/internal/kafka"
	"github.com/Domenick1991/airreserve/internal/metrics"
	"github.com/Domenick1991/airreserve/internal/repository"
)

type BookingUseCase interface {
	Book(ctx context.Context, input BookInput) (*domain.Booking, error)
	Cancel(ctx context.Context, referenceCode string) (*domain.Cancellation, error)
}

type FlightLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type IdentifierGenerator interface {
	NewReferenceCode(ctx context.Context, checker identifier.CodeChecker) (string, error)
	AssignSeat(taken map[string]struct{}) (string, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value any, maxRetries int) error
}

const DefaultPublishRetries = 3

type PassengerInput struct {
	Name  string
	Email string
	Phone string
}

type BookInput struct {
	FlightID      int64
	JourneyDate   time.Time
	Passengers    []PassengerInput
	PaymentMethod string
}

type BookingService struct {
	store              repository.Transactor
	flights            FlightLookup
	ids                IdentifierGenerator
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	cancelUnknownNoop  bool
	publishRetries     int
	log                logrus.FieldLogger
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithCancelUnknownNoop makes Cancel of an unknown reference code succeed
// without effect instead of returning domain.ErrNotFound.
func WithCancelUnknownNoop(noop bool) BookingServiceOption {
	return func(s *BookingService) {
		s.cancelUnknownNoop = noop
	}
}

// WithPublishRetries bounds the attempts per topic for an event. Values
// below 1 keep the default.
func WithPublishRetries(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.publishRetries = n
		}
	}
}

func WithLogger(log logrus.FieldLogger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// NewBookingService accepts a nil producer; events are then not published.
func NewBookingService(
	store repository.Transactor,
	flights FlightLookup,
	ids IdentifierGenerator,
	producer Producer,
	bookingTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		store:          store,
		flights:        flights,
		ids:            ids,
		producer:       producer,
		bookingTopic:   bookingTopic,
		publishRetries: DefaultPublishRetries,
		log:            logrus.StandardLogger(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Book creates the passengers, their reservations and the payment of one
// booking in a single transaction and returns the reference code with it.
// Nothing is persisted when an error is returned.
func (s *BookingService) Book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	booking, err := s.book(ctx, input)
	metrics.BookingsTotal.WithLabelValues(domain.Kind(err)).Inc()
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"flight_id":    input.FlightID,
			"journey_date": input.JourneyDate.Format(time.DateOnly),
			"passengers":   len(input.Passengers),
		}).Warn("booking failed")
		return nil, err
	}

	metrics.SeatsBooked.Add(float64(len(booking.Reservations)))
	s.log.WithFields(logrus.Fields{
		"reference_code": booking.ReferenceCode,
		"flight_id":      booking.FlightID,
		"journey_date":   booking.JourneyDate.Format(time.DateOnly),
		"passengers":     len(booking.Passengers),
	}).Info("booking created")

	event := kafka.NewBookingEvent(kafka.EventBookingCreated, booking.ReferenceCode)
	event.FlightID = booking.FlightID
	event.JourneyDate = booking.JourneyDate
	event.Passengers = len(booking.Passengers)
	event.Emails = contactEmails(booking.Passengers)
	event.AmountCents = booking.Payment.AmountCents
	s.publish(ctx, event)

	return booking, nil
}

func (s *BookingService) book(ctx context.Context, input BookInput) (*domain.Booking, error) {
	method, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	journeyDate := domain.DateOf(input.JourneyDate)
	bookingDate := domain.DateOf(s.now())
	count := len(input.Passengers)

	var booking *domain.Booking
	err = s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		available, err := tx.LockInventory(ctx, flight.ID, journeyDate)
		if err != nil {
			return err
		}
		if available < count {
			return fmt.Errorf("%w: %d seats requested, %d available on flight %d for %s",
				domain.ErrInsufficientInventory, count, available, flight.ID, journeyDate.Format(time.DateOnly))
		}

		code, err := s.ids.NewReferenceCode(ctx, tx)
		if err != nil {
			return err
		}

		takenSeats, err := tx.TakenSeats(ctx, flight.ID, journeyDate)
		if err != nil {
			return err
		}
		taken := lo.SliceToMap(takenSeats, func(seat string) (string, struct{}) {
			return seat, struct{}{}
		})

		b := &domain.Booking{
			ReferenceCode: code,
			FlightID:      flight.ID,
			JourneyDate:   journeyDate,
			Passengers:    make([]domain.Passenger, 0, count),
			Reservations:  make([]domain.Reservation, 0, count),
		}
		for _, in := range input.Passengers {
			passenger := domain.Passenger{
				Name:  strings.TrimSpace(in.Name),
				Email: strings.TrimSpace(in.Email),
				Phone: strings.TrimSpace(in.Phone),
			}
			if err := tx.CreatePassenger(ctx, &passenger); err != nil {
				return err
			}

			seat, err := s.ids.AssignSeat(taken)
			if err != nil {
				return err
			}

			reservation := domain.Reservation{
				ReferenceCode: code,
				PassengerID:   passenger.ID,
				FlightID:      flight.ID,
				SeatNo:        seat,
				BookingDate:   bookingDate,
				JourneyDate:   journeyDate,
			}
			if err := tx.CreateReservation(ctx, &reservation); err != nil {
				return err
			}

			b.Passengers = append(b.Passengers, passenger)
			b.Reservations = append(b.Reservations, reservation)
		}

		if err := tx.DecrementInventory(ctx, flight.ID, journeyDate, count); err != nil {
			return err
		}

		b.Payment = domain.Payment{
			ReferenceCode:  code,
			TransactionRef: uuid.New(),
			AmountCents:    flight.PriceCents * int64(count),
			Method:         method,
		}
		if err := tx.CreatePayment(ctx, &b.Payment); err != nil {
			return err
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) validate(input BookInput) (domain.PaymentMethod, error) {
	if input.FlightID <= 0 {
		return "", fmt.Errorf("%w: flight is required", domain.ErrValidation)
	}
	if input.JourneyDate.IsZero() {
		return "", fmt.Errorf("%w: journey date is required", domain.ErrValidation)
	}
	if domain.DateOf(input.JourneyDate).Before(domain.DateOf(s.now())) {
		return "", fmt.Errorf("%w: journey date %s is in the past", domain.ErrValidation, input.JourneyDate.Format(time.DateOnly))
	}
	if len(input.Passengers) == 0 {
		return "", fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	}
	for i, p := range input.Passengers {
		if strings.TrimSpace(p.Name) == "" {
			return "", fmt.Errorf("%w: passenger %d has no name", domain.ErrValidation, i+1)
		}
	}
	return domain.ParsePaymentMethod(input.PaymentMethod)
}

// Cancel removes everything booked under referenceCode and returns the seats
// to inventory, all in one transaction.
func (s *BookingService) Cancel(ctx context.Context, referenceCode string) (*domain.Cancellation, error) {
	code := strings.ToUpper(strings.TrimSpace(referenceCode))
	cancellation, err := s.cancel(ctx, code)
	metrics.CancellationsTotal.WithLabelValues(domain.Kind(err)).Inc()
	if err != nil {
		s.log.WithError(err).WithField("reference_code", code).Warn("cancellation failed")
		return nil, err
	}
	if len(cancellation.Groups) == 0 {
		s.log.WithField("reference_code", code).Info("cancel of unknown reference code ignored")
		return cancellation, nil
	}

	metrics.SeatsReleased.Add(float64(cancellation.SeatsReleased()))
	s.log.WithFields(logrus.Fields{
		"reference_code": code,
		"passengers":     len(cancellation.PassengerIDs),
		"seats":          cancellation.SeatsReleased(),
	}).Info("booking cancelled")

	first := cancellation.Groups[0]
	event := kafka.NewBookingEvent(kafka.EventBookingCancelled, code)
	event.FlightID = first.FlightID
	event.JourneyDate = first.JourneyDate
	event.Passengers = cancellation.SeatsReleased()
	event.Emails = cancellation.Emails
	s.publish(ctx, event)

	return cancellation, nil
}

func (s *BookingService) cancel(ctx context.Context, code string) (*domain.Cancellation, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: reference code is required", domain.ErrValidation)
	}

	cancellation := &domain.Cancellation{ReferenceCode: code}
	err := s.store.InTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		// The reservation rows are locked first. A concurrent cancel of the
		// same code waits here and then finds nothing left to release.
		locked, err := tx.LockReservations(ctx, code)
		if err != nil {
			return err
		}
		if locked == 0 {
			if s.cancelUnknownNoop {
				return nil
			}
			return fmt.Errorf("reference code %s: %w", code, domain.ErrNotFound)
		}

		groups, err := tx.ReservationGroups(ctx, code)
		if err != nil {
			return err
		}
		for _, g := range groups {
			if _, err := tx.LockInventory(ctx, g.FlightID, g.JourneyDate); err != nil {
				return err
			}
		}

		passengers, err := tx.PassengersByReference(ctx, code)
		if err != nil {
			return err
		}

		baggage, err := tx.DeleteBaggage(ctx, code)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteReservations(ctx, code)
		if err != nil {
			return err
		}
		if deleted != int64(locked) {
			return fmt.Errorf("reference code %s: %d of %d reservations deleted: %w", code, deleted, locked, domain.ErrNotFound)
		}
		if _, err := tx.DeletePayments(ctx, code); err != nil {
			return err
		}

		ids := lo.Map(passengers, func(p domain.Passenger, _ int) int64 { return p.ID })
		if _, err := tx.DeletePassengers(ctx, ids); err != nil {
			return err
		}

		for _, g := range groups {
			if err := tx.IncrementInventory(ctx, g.FlightID, g.JourneyDate, g.PassengerCount); err != nil {
				return err
			}
		}

		cancellation.Groups = groups
		cancellation.PassengerIDs = ids
		cancellation.Emails = contactEmails(passengers)
		cancellation.Baggage = baggage
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancellation, nil
}

// publish runs after commit. A failure is logged and counted but never
// reported to the caller.
func (s *BookingService) publish(ctx context.Context, event kafka.BookingEvent) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.PublishWithRetry(ctx, topic, event.ReferenceCode, event, s.publishRetries); err != nil {
			metrics.EventsPublishFailed.WithLabelValues(event.Type).Inc()
			s.log.WithError(err).WithFields(logrus.Fields{
				"reference_code": event.ReferenceCode,
				"topic":          topic,
			}).Warnf("failed to publish %s event", event.Type)
		}
	}
}

func contactEmails(passengers []domain.Passenger) []string {
	return lo.FilterMap(passengers, func(p domain.Passenger, _ int) (string, bool) {
		return p.Email, p.Email != ""
	})
}

var _ BookingUseCase = (*BookingService)(nil)
