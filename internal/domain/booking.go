package domain

import (
	"time"

	"github.com/google/uuid"
)

type Passenger struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Reservation is one passenger's seat on one flight/date under a reference code.
type Reservation struct {
	ReferenceCode string
	PassengerID   int64
	FlightID      int64
	SeatNo        string
	BookingDate   time.Time
	JourneyDate   time.Time
}

// ReservationGroup is the (flight, journey date) slice of a booking together
// with the number of passengers holding seats on it.
type ReservationGroup struct {
	FlightID       int64
	JourneyDate    time.Time
	PassengerCount int
}

type Payment struct {
	ID             int64
	ReferenceCode  string
	TransactionRef uuid.UUID
	AmountCents    int64
	Method         PaymentMethod
	CreatedAt      time.Time
}

// Booking is what a successful booking transaction hands back to the caller.
type Booking struct {
	ReferenceCode string
	FlightID      int64
	JourneyDate   time.Time
	Passengers    []Passenger
	Reservations  []Reservation
	Payment       Payment
}

// Seats returns the assigned seat labels in passenger order.
func (b *Booking) Seats() []string {
	seats := make([]string, 0, len(b.Reservations))
	for _, r := range b.Reservations {
		seats = append(seats, r.SeatNo)
	}
	return seats
}

// Cancellation describes what a cancellation removed.
type Cancellation struct {
	ReferenceCode string
	Groups        []ReservationGroup
	PassengerIDs  []int64
	Emails        []string
	Baggage       int64
}

// SeatsReleased is the total passenger count restored to inventory.
func (c *Cancellation) SeatsReleased() int {
	total := 0
	for _, g := range c.Groups {
		total += g.PassengerCount
	}
	return total
}
