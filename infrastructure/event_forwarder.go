package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rewards/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// messagePublisher is the part of NATSClient the forwarder needs
type messagePublisher interface {
	Publish(ctx context.Context, subject, msgID string, data []byte) error
}

// EventEnvelope wraps a domain event for external consumers such as the
// payment processor integration
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// EventForwarder republishes committed in-process events to NATS
type EventForwarder struct {
	publisher messagePublisher
	now       func() time.Time
}

// NewEventForwarder creates a forwarder publishing through publisher
func NewEventForwarder(publisher messagePublisher) *EventForwarder {
	return &EventForwarder{publisher: publisher, now: time.Now}
}

// Register subscribes the forwarder to every forwarded event type
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, eventType := range ForwardedEventTypes() {
		bus.Subscribe(eventType, f.Handle)
	}
}

// Handle publishes one event. Failures are logged; the ledger change has
// already committed and the activity log remains the source of truth.
func (f *EventForwarder) Handle(ctx context.Context, event events.Event) {
	envelope, err := f.envelope(event)
	if err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to encode event for NATS")
		return
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		log.WithError(err).Error("Failed to marshal event envelope")
		return
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, envelope.EventID, data); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"subject":   subject,
			"error":     err,
		}).Error("Failed to publish event to NATS")
		return
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
}

func (f *EventForwarder) envelope(event events.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     string(event.Type()),
		Timestamp:     f.now().UTC(),
		SourceService: "rewards",
		Payload:       payload,
	}, nil
}
