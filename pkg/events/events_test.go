package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoo/pkg/kafka"
	"zoo/pkg/logger"
)

type recordingProducer struct {
	msgs []kafka.Message
	err  error
}

func (p *recordingProducer) Publish(_ context.Context, msg kafka.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func (p *recordingProducer) Close() error { return nil }

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &recordingProducer{}
	pub := NewKafkaPublisher(producer, "zoo-api", time.Second, logger.Discard())

	ctx := logger.ContextWithRequestID(context.Background(), "req-1")
	pub.Publish(ctx, AnimalCreated, "65f1c0a2e4b0a1b2c3d4e5f6", map[string]string{"name": "Leo"})

	require.Len(t, producer.msgs, 1)
	msg := producer.msgs[0]
	assert.Equal(t, "65f1c0a2e4b0a1b2c3d4e5f6", msg.Key)
	assert.Equal(t, AnimalCreated, msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.Equal(t, "zoo-api", msg.Headers[kafka.HeaderSource])

	var ev Event
	require.NoError(t, msg.DecodeValue(&ev))
	assert.Equal(t, AnimalCreated, ev.Type)
	assert.Equal(t, "65f1c0a2e4b0a1b2c3d4e5f6", ev.Subject)
}

func TestKafkaPublisher_FailureIsSwallowed(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	pub := NewKafkaPublisher(producer, "zoo-api", time.Second, logger.Discard())

	assert.NotPanics(t, func() {
		pub.Publish(context.Background(), TicketUsed, "abc", nil)
	})
	assert.Len(t, producer.msgs, 1)
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	pub.Publish(context.Background(), AnimalDeleted, "abc", nil)
	assert.NoError(t, pub.Close())
}
