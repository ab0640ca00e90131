package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingEvent(t *testing.T) {
	a := NewBookingEvent(EventBookingCreated, "ABC234")
	b := NewBookingEvent(EventBookingCreated, "ABC234")

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "ABC234", a.ReferenceCode)
	assert.WithinDuration(t, time.Now(), a.OccurredAt, time.Minute)
}

func TestDecodeBookingEvent(t *testing.T) {
	event := NewBookingEvent(EventBookingCancelled, "XYZ789")
	event.FlightID = 100
	event.Emails = []string{"a@example.com"}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeBookingEvent(kafka.Message{Value: payload})
	require.NoError(t, err)
	assert.Equal(t, EventBookingCancelled, decoded.Type)
	assert.Equal(t, int64(100), decoded.FlightID)
	assert.Equal(t, []string{"a@example.com"}, decoded.Emails)

	_, err = DecodeBookingEvent(kafka.Message{Value: []byte("{"), Offset: 7})
	assert.ErrorContains(t, err, "offset 7")
}

func TestCorrelationID(t *testing.T) {
	msg := kafka.Message{Headers: []kafka.Header{
		{Key: "other", Value: []byte("x")},
		{Key: CorrelationHeader, Value: []byte("corr-1")},
	}}
	assert.Equal(t, "corr-1", CorrelationID(msg))
	assert.Empty(t, CorrelationID(kafka.Message{}))
}
