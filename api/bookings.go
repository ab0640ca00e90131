package api

import (
	"context"
	"time"

	"github.com/Domenick1991/airreserve/internal/baggage"
	"github.com/Domenick1991/airreserve/internal/domain"
	"github.com/Domenick1991/airreserve/internal/service/booking"
)

type PassengerDetails struct {
	Name  string
	Email string
	Phone string
}

type BookTicketRequest struct {
	FlightID      int64
	JourneyDate   time.Time
	Passengers    []PassengerDetails
	PaymentMethod string
}

type SeatAssignment struct {
	PassengerID int64
	Name        string
	SeatNo      string
}

type BookingConfirmation struct {
	ReferenceCode  string
	FlightID       int64
	JourneyDate    time.Time
	Seats          []SeatAssignment
	AmountCents    int64
	PaymentMethod  domain.PaymentMethod
	TransactionRef string
}

type AddBaggageRequest struct {
	PassengerID   int64
	ReferenceCode string
	Weight        float64
	Type          string
	Privileged    bool
}

// BookTicket books every passenger on one flight and date and records the
// payment. No reference code is returned unless all of it was stored.
func (a *ReservationAPI) BookTicket(ctx context.Context, req BookTicketRequest) (*BookingConfirmation, error) {
	input := booking.BookInput{
		FlightID:      req.FlightID,
		JourneyDate:   req.JourneyDate,
		Passengers:    make([]booking.PassengerInput, 0, len(req.Passengers)),
		PaymentMethod: req.PaymentMethod,
	}
	for _, p := range req.Passengers {
		input.Passengers = append(input.Passengers, booking.PassengerInput{Name: p.Name, Email: p.Email, Phone: p.Phone})
	}

	b, err := a.bookings.Book(ctx, input)
	if err != nil {
		return nil, err
	}

	confirmation := &BookingConfirmation{
		ReferenceCode:  b.ReferenceCode,
		FlightID:       b.FlightID,
		JourneyDate:    b.JourneyDate,
		Seats:          make([]SeatAssignment, 0, len(b.Reservations)),
		AmountCents:    b.Payment.AmountCents,
		PaymentMethod:  b.Payment.Method,
		TransactionRef: b.Payment.TransactionRef.String(),
	}
	for i, r := range b.Reservations {
		confirmation.Seats = append(confirmation.Seats, SeatAssignment{
			PassengerID: r.PassengerID,
			Name:        b.Passengers[i].Name,
			SeatNo:      r.SeatNo,
		})
	}
	return confirmation, nil
}

func (a *ReservationAPI) CancelTicket(ctx context.Context, referenceCode string) (*domain.Cancellation, error) {
	return a.bookings.Cancel(ctx, referenceCode)
}

// AddBaggage returns the new baggage id, or a *domain.RuleViolationError when
// the weight does not fit the allowance.
func (a *ReservationAPI) AddBaggage(ctx context.Context, req AddBaggageRequest) (int64, error) {
	typ, err := domain.ParseBaggageType(req.Type)
	if err != nil {
		return 0, err
	}
	return a.baggage.TryAdd(ctx, baggage.AddInput{
		PassengerID:   req.PassengerID,
		ReferenceCode: req.ReferenceCode,
		Weight:        req.Weight,
		Type:          typ,
		Privileged:    req.Privileged,
	})
}

func (a *ReservationAPI) RemainingBaggage(ctx context.Context, passengerID int64, referenceCode, baggageType string, privileged bool) (float64, error) {
	typ, err := domain.ParseBaggageType(baggageType)
	if err != nil {
		return 0, err
	}
	return a.baggage.Remaining(ctx, passengerID, referenceCode, typ, privileged)
}

// UpdatePassengerDetail changes the passenger's email or phone. Setting the
// current value again yields domain.UpdateNoChange, not an error.
func (a *ReservationAPI) UpdatePassengerDetail(ctx context.Context, passengerID int64, field, value string) (domain.UpdateResult, error) {
	f, err := domain.ParseContactField(field)
	if err != nil {
		return 0, err
	}
	return a.passengers.UpdateContactField(ctx, passengerID, f, value)
}
