package email

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/kafka"
	"github.com/Domenick1991/airreserve/internal/logging"
)

// Sender delivers booking notifications. It only logs the message; swapping in
// an SMTP client means replacing deliver.
type Sender struct {
	deliver func(ctx context.Context, to, subject, body string) error
}

func NewSender() *Sender {
	return &Sender{deliver: logDelivery}
}

// Send mails every address on the event and returns how many were sent.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) (int, error) {
	subject, body := compose(event)
	sent := 0
	for _, to := range event.Emails {
		if to == "" {
			continue
		}
		if err := s.deliver(ctx, to, subject, body); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func compose(event kafka.BookingEvent) (string, string) {
	date := event.JourneyDate.Format("2006-01-02")
	switch event.Type {
	case kafka.EventBookingCancelled:
		return "Booking " + event.ReferenceCode + " cancelled",
			"Your booking " + event.ReferenceCode + " for " + date + " has been cancelled."
	default:
		return "Booking " + event.ReferenceCode + " confirmed",
			"Your booking " + event.ReferenceCode + " for " + date + " is confirmed."
	}
}

func logDelivery(ctx context.Context, to, subject, _ string) error {
	logging.FromContext(ctx).WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("send email")
	return nil
}
