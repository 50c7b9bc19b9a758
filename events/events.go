package events

import (
	"context"
	"sync"

	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange           EventType = "balance_change"
	EventTypeAccountCreated          EventType = "account_created"
	EventTypeWithdrawalRequested     EventType = "withdrawal_requested"
	EventTypeWithdrawalStatusChanged EventType = "withdrawal_status_changed"
	EventTypeWithdrawalCompleted     EventType = "withdrawal_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID       string              `json:"user_id"`
	OldBalance   decimal.Decimal     `json:"old_balance"`
	NewBalance   decimal.Decimal     `json:"new_balance"`
	ActivityType models.ActivityType `json:"activity_type"`
	ChangeAmount decimal.Decimal     `json:"change_amount"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new ledger account
type AccountCreatedEvent struct {
	UserID string `json:"user_id"`
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// WithdrawalRequestedEvent is emitted when a user files a new request
type WithdrawalRequestedEvent struct {
	RequestID uuid.UUID               `json:"request_id"`
	UserID    string                  `json:"user_id"`
	Amount    decimal.Decimal         `json:"amount"`
	Method    models.WithdrawalMethod `json:"method"`
}

func (e WithdrawalRequestedEvent) Type() EventType {
	return EventTypeWithdrawalRequested
}

// WithdrawalStatusChangedEvent represents any state machine move
type WithdrawalStatusChangedEvent struct {
	RequestID uuid.UUID               `json:"request_id"`
	UserID    string                  `json:"user_id"`
	OldStatus models.WithdrawalStatus `json:"old_status"`
	NewStatus models.WithdrawalStatus `json:"new_status"`
	ActorID   string                  `json:"actor_id"`
}

func (e WithdrawalStatusChangedEvent) Type() EventType {
	return EventTypeWithdrawalStatusChanged
}

// WithdrawalCompletedEvent hands a debited request to the payment processor
type WithdrawalCompletedEvent struct {
	RequestID uuid.UUID               `json:"request_id"`
	UserID    string                  `json:"user_id"`
	Method    models.WithdrawalMethod `json:"method"`
	Amount    decimal.Decimal         `json:"amount"`
	Fee       decimal.Decimal         `json:"fee"`
	NetAmount decimal.Decimal         `json:"net_amount"`
	ActorID   string                  `json:"actor_id"`
}

func (e WithdrawalCompletedEvent) Type() EventType {
	return EventTypeWithdrawalCompleted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks a commit
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	// Handlers outlive the request, so they must not inherit its cancellation
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of events waiting for Flush
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
