package events

import (
	"context"
	"time"

	"zoo/pkg/kafka"
	"zoo/pkg/logger"
)

const (
	AnimalCreated = "animal.created"
	AnimalUpdated = "animal.updated"
	AnimalDeleted = "animal.deleted"

	StaffCreated = "staff.created"
	StaffUpdated = "staff.updated"
	StaffDeleted = "staff.deleted"

	VisitorCreated = "visitor.created"
	VisitorUpdated = "visitor.updated"
	VisitorDeleted = "visitor.deleted"
	VisitRecorded  = "visitor.visit_recorded"

	TicketCreated  = "ticket.created"
	TicketUpdated  = "ticket.updated"
	TicketDeleted  = "ticket.deleted"
	TicketUsed     = "ticket.used"
	TicketExited   = "ticket.exited"
	TicketsExpired = "ticket.expired"

	StaffLoggedIn = "auth.logged_in"

	schemaVersion = "1"
)

// Event is a domain change notification. Subject is the id of the entity.
type Event struct {
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// Publisher fans out domain events. Publishing is best effort: a failure is
// logged and never fails the request that caused it.
type Publisher interface {
	Publish(ctx context.Context, eventType, subject string, data any)
	Close() error
}

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	producer messageProducer
	source   string
	timeout  time.Duration
	log      *logger.Logger
}

func NewKafkaPublisher(producer messageProducer, source string, timeout time.Duration, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, source: source, timeout: timeout, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType, subject string, data any) {
	msg, err := kafka.NewMessage().
		WithKey(subject).
		WithEventType(eventType).
		WithSource(p.source).
		WithSchemaVersion(schemaVersion).
		WithCorrelationID(logger.RequestIDFromContext(ctx)).
		WithValue(Event{
			Type:       eventType,
			Subject:    subject,
			OccurredAt: time.Now().UTC(),
			Data:       data,
		}).
		Build()
	if err != nil {
		p.log.FromContext(ctx).Error("Failed to encode event", "event_type", eventType, "error", err)
		return
	}

	// The request may finish before the broker answers.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.producer.Publish(pubCtx, msg); err != nil {
		p.log.FromContext(ctx).Warn("Failed to publish event",
			"event_type", eventType,
			"subject", subject,
			"error", err,
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, string, any) {}

func (noopPublisher) Close() error { return nil }
