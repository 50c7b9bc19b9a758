package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"rewards/events"
	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	msgID   string
	data    []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, subject, msgID string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, publishedMessage{subject: subject, msgID: msgID, data: data})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func TestEventForwarder_Handle(t *testing.T) {
	publisher := &fakePublisher{}
	forwarder := NewEventForwarder(publisher)
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	forwarder.now = func() time.Time { return fixed }

	requestID := uuid.New()
	forwarder.Handle(context.Background(), events.WithdrawalCompletedEvent{
		RequestID: requestID,
		UserID:    "u1",
		Method:    models.WithdrawalMethodBank,
		Amount:    decimal.NewFromInt(100),
		Fee:       decimal.NewFromInt(10),
		NetAmount: decimal.NewFromInt(90),
		ActorID:   "admin",
	})

	require.Len(t, publisher.messages, 1)
	msg := publisher.messages[0]
	assert.Equal(t, "rewards.withdrawals.completed", msg.subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.data, &envelope))
	assert.Equal(t, msg.msgID, envelope.EventID)
	assert.Equal(t, "withdrawal_completed", envelope.EventType)
	assert.Equal(t, "rewards", envelope.SourceService)
	assert.True(t, fixed.Equal(envelope.Timestamp))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, requestID.String(), payload["request_id"])
	assert.Equal(t, "90", payload["net_amount"])
	assert.Equal(t, "bank", payload["method"])
}

func TestEventForwarder_PublishErrorIsSwallowed(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("nats: timeout")}
	forwarder := NewEventForwarder(publisher)

	assert.NotPanics(t, func() {
		forwarder.Handle(context.Background(), events.AccountCreatedEvent{UserID: "u1"})
	})
	assert.Zero(t, publisher.count())
}

func TestEventForwarder_Register(t *testing.T) {
	publisher := &fakePublisher{}
	bus := events.NewBus()
	NewEventForwarder(publisher).Register(bus)

	bus.Emit(context.Background(), events.AccountCreatedEvent{UserID: "u1"})
	bus.Emit(context.Background(), events.WithdrawalRequestedEvent{RequestID: uuid.New(), UserID: "u1"})

	assert.Eventually(t, func() bool { return publisher.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestSubjectFor(t *testing.T) {
	assert.Equal(t, "rewards.balances.changed", SubjectFor(events.EventTypeBalanceChange))
	assert.Equal(t, "rewards.unknown.mystery", SubjectFor(events.EventType("mystery")))
	assert.Len(t, AllSubjects(), len(ForwardedEventTypes()))
}
