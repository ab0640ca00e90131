package kafka

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingCancelled = "booking_cancelled"
)

// BookingEvent is published after a booking or cancellation commits.
type BookingEvent struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReferenceCode string    `json:"reference_code"`
	FlightID      int64     `json:"flight_id"`
	JourneyDate   time.Time `json:"journey_date"`
	Passengers    int       `json:"passengers"`
	Emails        []string  `json:"emails"`
	AmountCents   int64     `json:"amount_cents"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType, referenceCode string) BookingEvent {
	return BookingEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReferenceCode: referenceCode,
		OccurredAt:    time.Now().UTC(),
	}
}
