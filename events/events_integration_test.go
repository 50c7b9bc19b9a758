package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEventDeliveryIntegration tests the complete event flow from TransactionalBus to main Bus
func TestEventDeliveryIntegration(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	eventReceived := make(chan BalanceChangeEvent, 1)
	mainBus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		if balanceEvent, ok := event.(BalanceChangeEvent); ok {
			eventReceived <- balanceEvent
		} else {
			t.Errorf("Expected BalanceChangeEvent, got %T", event)
		}
	})

	testEvent := BalanceChangeEvent{
		UserID:       "user-1",
		OldBalance:   decimal.NewFromInt(100),
		NewBalance:   decimal.NewFromInt(80),
		ActivityType: models.ActivityTypeAdminAdjustment,
		ChangeAmount: decimal.NewFromInt(-20),
	}

	transactionalBus.Publish(testEvent)
	assert.Equal(t, 1, transactionalBus.Pending())

	err := transactionalBus.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, transactionalBus.Pending())

	select {
	case received := <-eventReceived:
		assert.Equal(t, testEvent.UserID, received.UserID)
		assert.True(t, testEvent.ChangeAmount.Equal(received.ChangeAmount))
		assert.Equal(t, testEvent.ActivityType, received.ActivityType)
	case <-time.After(2 * time.Second):
		t.Fatal("Event was not received within timeout")
	}
}

// TestDiscardDropsPendingEvents tests that rolled back work never reaches subscribers
func TestDiscardDropsPendingEvents(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	var mu sync.Mutex
	received := 0
	mainBus.Subscribe(EventTypeWithdrawalCompleted, func(ctx context.Context, event Event) {
		mu.Lock()
		defer mu.Unlock()
		received++
	})

	transactionalBus.Publish(WithdrawalCompletedEvent{RequestID: uuid.New(), UserID: "user-1"})
	transactionalBus.Discard()
	require.NoError(t, transactionalBus.Flush(context.Background()))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, received)
}

// TestHandlerPanicIsRecovered tests that a panicking subscriber does not affect others
func TestHandlerPanicIsRecovered(t *testing.T) {
	mainBus := NewBus()

	done := make(chan struct{}, 1)
	mainBus.Subscribe(EventTypeAccountCreated, func(ctx context.Context, event Event) {
		panic("boom")
	})
	mainBus.Subscribe(EventTypeAccountCreated, func(ctx context.Context, event Event) {
		done <- struct{}{}
	})

	mainBus.Emit(context.Background(), AccountCreatedEvent{UserID: "user-1"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Second handler was not called")
	}
}

// TestFlushContextSurvivesCancellation tests that handlers get a context detached from the request
func TestFlushContextSurvivesCancellation(t *testing.T) {
	mainBus := NewBus()
	transactionalBus := NewTransactionalBus(mainBus)

	ctxErr := make(chan error, 1)
	mainBus.Subscribe(EventTypeWithdrawalStatusChanged, func(ctx context.Context, event Event) {
		ctxErr <- ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	transactionalBus.Publish(WithdrawalStatusChangedEvent{
		RequestID: uuid.New(),
		OldStatus: models.WithdrawalStatusPending,
		NewStatus: models.WithdrawalStatusApproved,
	})
	require.NoError(t, transactionalBus.Flush(ctx))
	cancel()

	select {
	case err := <-ctxErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Handler was not called")
	}
}
