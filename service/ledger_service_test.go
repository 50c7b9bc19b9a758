package service

import (
	"context"
	"fmt"
	"testing"

	"rewards/events"
	"rewards/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_Adjust_Credit(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx)
	f.expectCommit()
	f.acceptEvents()

	service := NewLedgerService(f.factory)

	f.balances.On("ApplyDelta", ctx, "user-1", decEq("50")).Return(balanceOf("user-1", "150", "250"), nil)
	f.activity.On("Record", ctx, mock.MatchedBy(func(e *models.ActivityLogEntry) bool {
		return e.UserID == "user-1" &&
			e.ActivityType == models.ActivityTypeAdminAdjustment &&
			e.Amount.Equal(dec("50")) &&
			e.BalanceBefore.Equal(dec("100")) &&
			e.BalanceAfter.Equal(dec("150")) &&
			e.Description == "campaign bonus" &&
			e.Metadata["actor_id"] == "admin-1"
	})).Return(nil)

	balance, err := service.Adjust(ctx, "user-1", dec("50"), "  campaign bonus ", adminActor)

	require.NoError(t, err)
	assert.True(t, balance.AvailableBalance.Equal(dec("150")))
	f.activity.AssertNumberOfCalls(t, "Record", 1)

	changes := publishedOfType[events.BalanceChangeEvent](f.bus)
	require.Len(t, changes, 1)
	assert.True(t, changes[0].NewBalance.Equal(dec("150")))
	f.assertExpectations(t)
}

func TestLedgerService_Adjust_Debit(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx)
	f.expectCommit()
	f.acceptEvents()

	service := NewLedgerService(f.factory)

	f.balances.On("ApplyDelta", ctx, "user-1", decEq("-10")).Return(balanceOf("user-1", "5", "15"), nil)
	f.activity.On("Record", ctx, mock.MatchedBy(func(e *models.ActivityLogEntry) bool {
		return e.Amount.Equal(dec("-10")) && e.BalanceBefore.Equal(dec("15")) && e.BalanceAfter.Equal(dec("5"))
	})).Return(nil)

	balance, err := service.Adjust(ctx, "user-1", dec("-10"), "correction", adminActor)

	require.NoError(t, err)
	assert.True(t, balance.AvailableBalance.Equal(dec("5")))
	f.assertExpectations(t)
}

// Overdraft leaves the balance and the log untouched
func TestLedgerService_Adjust_Overdraft(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx)

	service := NewLedgerService(f.factory)

	overdraft := fmt.Errorf("failed to apply balance change: %w", models.ErrInsufficientBalance)
	f.balances.On("ApplyDelta", ctx, "user-1", decEq("-20")).Return(nil, overdraft)

	balance, err := service.Adjust(ctx, "user-1", dec("-20"), "chargeback", adminActor)

	assert.Nil(t, balance)
	assert.ErrorIs(t, err, models.ErrInsufficientBalance)
	assert.ErrorIs(t, err, models.ErrValidation)
	f.activity.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	f.uow.AssertNotCalled(t, "Commit")
	f.bus.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestLedgerService_Adjust_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		delta  string
		reason string
		actor  models.Actor
	}{
		{name: "zero delta", userID: "user-1", delta: "0", reason: "noop", actor: adminActor},
		{name: "sub-cent delta", userID: "user-1", delta: "1.005", reason: "rounding", actor: adminActor},
		{name: "blank reason", userID: "user-1", delta: "5", reason: "   ", actor: adminActor},
		{name: "missing user", userID: "", delta: "5", reason: "bonus", actor: adminActor},
		{name: "missing actor", userID: "user-1", delta: "5", reason: "bonus", actor: models.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := new(MockUnitOfWorkFactory)
			service := NewLedgerService(factory)

			_, err := service.Adjust(context.Background(), tt.userID, dec(tt.delta), tt.reason, tt.actor)

			assert.ErrorIs(t, err, models.ErrValidation)
			factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestLedgerService_Adjust_UnknownUser(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx)

	service := NewLedgerService(f.factory)

	f.balances.On("ApplyDelta", ctx, "ghost", decEq("5")).Return(nil, models.ErrNotFound)

	_, err := service.Adjust(ctx, "ghost", dec("5"), "bonus", adminActor)

	assert.ErrorIs(t, err, models.ErrNotFound)
	f.uow.AssertNotCalled(t, "Commit")
}

func TestLedgerService_Adjust_RetriesConflictOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("second attempt succeeds", func(t *testing.T) {
		f := newServiceFixture(ctx)
		f.expectCommit()
		f.acceptEvents()
		service := NewLedgerService(f.factory)

		f.balances.On("ApplyDelta", ctx, "user-1", decEq("-5")).Return(nil, models.ErrPersistenceConflict).Once()
		f.balances.On("ApplyDelta", ctx, "user-1", decEq("-5")).Return(balanceOf("user-1", "10", "15"), nil).Once()
		f.activity.On("Record", ctx, mock.Anything).Return(nil).Once()

		balance, err := service.Adjust(ctx, "user-1", dec("-5"), "fix", adminActor)

		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.Equal(dec("10")))
		f.balances.AssertNumberOfCalls(t, "ApplyDelta", 2)
		f.factory.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("second conflict surfaces", func(t *testing.T) {
		f := newServiceFixture(ctx)
		service := NewLedgerService(f.factory)

		f.balances.On("ApplyDelta", ctx, "user-1", decEq("-5")).Return(nil, models.ErrPersistenceConflict)

		_, err := service.Adjust(ctx, "user-1", dec("-5"), "fix", adminActor)

		assert.ErrorIs(t, err, models.ErrPersistenceConflict)
		f.balances.AssertNumberOfCalls(t, "ApplyDelta", 2)
	})
}

func TestLedgerService_Adjust_LogFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(ctx)

	service := NewLedgerService(f.factory)

	f.balances.On("ApplyDelta", ctx, "user-1", decEq("5")).Return(balanceOf("user-1", "20", "20"), nil)
	f.activity.On("Record", ctx, mock.Anything).Return(fmt.Errorf("disk full"))

	_, err := service.Adjust(ctx, "user-1", dec("5"), "bonus", adminActor)

	assert.Error(t, err)
	f.uow.AssertNotCalled(t, "Commit")
	f.uow.AssertCalled(t, "Rollback")
}

func TestLedgerService_Read(t *testing.T) {
	ctx := context.Background()

	t.Run("existing account", func(t *testing.T) {
		f := newServiceFixture(ctx)
		service := NewLedgerService(f.factory)

		f.balances.On("GetByUserID", ctx, "user-1").Return(balanceOf("user-1", "12.34", "40"), nil)

		balance, err := service.Read(ctx, "user-1")

		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.Equal(dec("12.34")))
		f.assertExpectations(t)
	})

	t.Run("missing account", func(t *testing.T) {
		f := newServiceFixture(ctx)
		service := NewLedgerService(f.factory)

		f.balances.On("GetByUserID", ctx, "ghost").Return(nil, nil)

		_, err := service.Read(ctx, "ghost")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestLedgerService_EnsureAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("opens new account", func(t *testing.T) {
		f := newServiceFixture(ctx)
		f.expectCommit()
		f.acceptEvents()
		service := NewLedgerService(f.factory)

		f.balances.On("Create", ctx, "user-1").Return(balanceOf("user-1", "0", "0"), nil)

		balance, err := service.EnsureAccount(ctx, "user-1")

		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.IsZero())
		require.Len(t, publishedOfType[events.AccountCreatedEvent](f.bus), 1)
		f.assertExpectations(t)
	})

	t.Run("returns existing account", func(t *testing.T) {
		f := newServiceFixture(ctx)
		f.expectCommit()
		service := NewLedgerService(f.factory)

		f.balances.On("Create", ctx, "user-1").Return(nil, nil)
		f.balances.On("GetByUserID", ctx, "user-1").Return(balanceOf("user-1", "7", "7"), nil)

		balance, err := service.EnsureAccount(ctx, "user-1")

		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.Equal(dec("7")))
		f.bus.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("blank user id", func(t *testing.T) {
		service := NewLedgerService(new(MockUnitOfWorkFactory))
		_, err := service.EnsureAccount(ctx, " ")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestLedgerService_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("credits earnings", func(t *testing.T) {
		f := newServiceFixture(ctx)
		f.expectCommit()
		f.acceptEvents()
		service := NewLedgerService(f.factory)

		f.balances.On("ApplyDelta", ctx, "user-1", decEq("25.50")).Return(balanceOf("user-1", "25.50", "25.50"), nil)
		f.activity.On("Record", ctx, mock.MatchedBy(func(e *models.ActivityLogEntry) bool {
			return e.ActivityType == models.ActivityTypeCredit && e.Amount.Equal(dec("25.50")) && e.BalanceBefore.IsZero()
		})).Return(nil)

		balance, err := service.Credit(ctx, "user-1", dec("25.50"), "Spring campaign payout")

		require.NoError(t, err)
		assert.True(t, balance.TotalEarned.Equal(dec("25.50")))
		f.assertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		service := NewLedgerService(new(MockUnitOfWorkFactory))

		for _, amount := range []string{"0", "-1"} {
			_, err := service.Credit(ctx, "user-1", dec(amount), "payout")
			assert.ErrorIs(t, err, models.ErrValidation, amount)
		}
	})
}

func TestLedgerService_Summary(t *testing.T) {
	ctx := context.Background()

	t.Run("totals every account and keeps the top holders", func(t *testing.T) {
		f := newServiceFixture(ctx)
		service := NewLedgerService(f.factory)

		f.balances.On("GetAll", ctx).Return([]*models.UserBalance{
			balanceOf("rich", "500.25", "900"),
			balanceOf("mid", "40", "40"),
			balanceOf("broke", "0", "12.50"),
		}, nil)

		summary, err := service.Summary(ctx, 2)

		require.NoError(t, err)
		assert.Equal(t, 3, summary.Accounts)
		assert.True(t, summary.TotalAvailable.Equal(dec("540.25")))
		assert.True(t, summary.TotalEarned.Equal(dec("952.50")))
		require.Len(t, summary.Top, 2)
		assert.Equal(t, "rich", summary.Top[0].UserID)
		assert.Equal(t, "mid", summary.Top[1].UserID)
		f.assertExpectations(t)
	})

	t.Run("empty ledger", func(t *testing.T) {
		f := newServiceFixture(ctx)
		service := NewLedgerService(f.factory)

		f.balances.On("GetAll", ctx).Return(nil, nil)

		summary, err := service.Summary(ctx, 10)

		require.NoError(t, err)
		assert.Zero(t, summary.Accounts)
		assert.True(t, summary.TotalAvailable.IsZero())
		assert.Empty(t, summary.Top)
	})
}
