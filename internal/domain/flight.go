package domain

import (
	"fmt"
	"time"
)

// TimeOfDay is an offset from midnight. Flights repeat daily, so departure and
// arrival are stored without a date.
type TimeOfDay time.Duration

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ClockOf returns the time of day of t in t's location.
func ClockOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func (t TimeOfDay) String() string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// DateOf truncates t to its calendar date, expressed as midnight UTC, which is
// how DATE columns come back from Postgres.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Airport struct {
	ID   string
	Name string
	City string
}

type Flight struct {
	ID              int64
	Airline         string
	Origin          string
	Destination     string
	OriginName      string
	DestinationName string
	DepartureTime   TimeOfDay
	ArrivalTime     TimeOfDay
	PriceCents      int64
	AvailableSeats  int
}

// InventoryEntry is the remaining seat count of one flight on one travel date.
type InventoryEntry struct {
	FlightID       int64
	JourneyDate    time.Time
	AvailableSeats int
}
