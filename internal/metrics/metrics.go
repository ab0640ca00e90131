package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsTotal counts booking attempts by outcome.
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "bookings_total",
			Help:      "The total number of booking attempts",
		},
		[]string{"outcome"},
	)

	SeatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "seats_booked_total",
			Help:      "The total number of seats taken by committed bookings",
		},
	)

	CancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "cancellations_total",
			Help:      "The total number of cancellation attempts",
		},
		[]string{"outcome"},
	)

	SeatsReleased = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "seats_released_total",
			Help:      "The total number of seats returned to inventory by cancellations",
		},
	)

	BaggageAdds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "baggage_adds_total",
			Help:      "The total number of add-baggage requests",
		},
		[]string{"type", "outcome"},
	)

	EventsPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "events_publish_failed_total",
			Help:      "Booking events that could not be published after commit",
		},
		[]string{"type"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airreserve",
			Name:      "notifications_sent_total",
			Help:      "E-mails sent by the notification worker",
		},
		[]string{"type"},
	)

	// MessageProcessingDuration is the time the worker spends per Kafka message
	// (summary with quantiles 0.5, 0.9 and 0.99).
	MessageProcessingDuration = promauto.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace:  "airreserve",
			Name:       "message_processing_duration_seconds",
			Help:       "The time spent processing booking event messages",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"topic"},
	)
)

