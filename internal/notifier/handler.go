// Package notifier turns booking events read from Kafka into customer e-mails.
package notifier

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v3"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Domenick1991/airreserve/internal/kafka"
	"github.com/Domenick1991/airreserve/internal/logging"
	"github.com/Domenick1991/airreserve/internal/metrics"
)

type Mailer interface {
	Send(ctx context.Context, event kafka.BookingEvent) (int, error)
}

type Handler struct {
	mailer Mailer
	log    logrus.FieldLogger
}

func NewHandler(mailer Mailer, log logrus.FieldLogger) *Handler {
	return &Handler{mailer: mailer, log: log}
}

// Handle processes one message. Undecodable messages are logged and skipped
// so a single bad payload cannot stall the consumer group.
func (h *Handler) Handle(ctx context.Context, msg kafkago.Message) error {
	start := time.Now()
	defer func() {
		metrics.MessageProcessingDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
	}()

	correlationID := kafka.CorrelationID(msg)
	if correlationID == "" {
		correlationID = shortuuid.New()
	}
	logger := h.log.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"topic":          msg.Topic,
		"offset":         msg.Offset,
	})
	ctx = logging.ContextWithCorrelationID(ctx, correlationID)
	ctx = logging.ToContext(ctx, logger)

	event, err := kafka.DecodeBookingEvent(msg)
	if err != nil {
		logger.WithError(err).Error("skip message")
		return nil
	}

	sent, err := h.mailer.Send(ctx, event)
	if sent > 0 {
		metrics.NotificationsSent.WithLabelValues(event.Type).Add(float64(sent))
	}
	if err != nil {
		logger.WithError(err).WithField("reference_code", event.ReferenceCode).Error("send notification")
		return err
	}

	logger.WithFields(logrus.Fields{
		"reference_code": event.ReferenceCode,
		"type":           event.Type,
		"sent":           sent,
	}).Info("notification sent")
	return nil
}
