package repository

import (
	"context"
	"sync"
	"testing"

	"rewards/models"
	"rewards/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestUserBalanceRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("new account starts at zero", func(t *testing.T) {
		balance, err := repo.Create(ctx, "user-create")
		require.NoError(t, err)
		require.NotNil(t, balance)

		assert.Equal(t, "user-create", balance.UserID)
		assert.True(t, balance.AvailableBalance.IsZero())
		assert.True(t, balance.TotalEarned.IsZero())
		assert.False(t, balance.CreatedAt.IsZero())
	})

	t.Run("existing account returns nil", func(t *testing.T) {
		balance, err := repo.Create(ctx, "user-create")
		require.NoError(t, err)
		assert.Nil(t, balance)
	})
}

func TestUserBalanceRepository_GetByUserID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserBalanceRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing account", func(t *testing.T) {
		balance, err := repo.GetByUserID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, balance)
	})

	t.Run("existing account", func(t *testing.T) {
		_, err := repo.Create(ctx, "user-get")
		require.NoError(t, err)

		balance, err := repo.GetByUserID(ctx, "user-get")
		require.NoError(t, err)
		require.NotNil(t, balance)
		assert.Equal(t, "user-get", balance.UserID)
	})
}

func TestUserBalanceRepository_ApplyDelta(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "user-delta")
	require.NoError(t, err)

	t.Run("credit raises available and total earned", func(t *testing.T) {
		balance, err := repo.ApplyDelta(ctx, "user-delta", dec("100.00"))
		require.NoError(t, err)

		assert.True(t, balance.AvailableBalance.Equal(dec("100.00")))
		assert.True(t, balance.TotalEarned.Equal(dec("100.00")))
	})

	t.Run("debit leaves total earned alone", func(t *testing.T) {
		balance, err := repo.ApplyDelta(ctx, "user-delta", dec("-30.50"))
		require.NoError(t, err)

		assert.True(t, balance.AvailableBalance.Equal(dec("69.50")))
		assert.True(t, balance.TotalEarned.Equal(dec("100.00")))
	})

	t.Run("overdraft is rejected without change", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, "user-delta", dec("-69.51"))
		require.ErrorIs(t, err, models.ErrInsufficientBalance)

		balance, err := repo.GetByUserID(ctx, "user-delta")
		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.Equal(dec("69.50")))
	})

	t.Run("draining to exactly zero is allowed", func(t *testing.T) {
		balance, err := repo.ApplyDelta(ctx, "user-delta", dec("-69.50"))
		require.NoError(t, err)
		assert.True(t, balance.AvailableBalance.IsZero())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, "ghost", dec("5"))
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUserBalanceRepository_ApplyDeltaConcurrentDebits(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserBalanceRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.Create(ctx, "user-race")
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, "user-race", dec("15"))
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(ctx, "user-race", dec("-10"))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, models.ErrInsufficientBalance) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)

	balance, err := repo.GetByUserID(ctx, "user-race")
	require.NoError(t, err)
	assert.True(t, balance.AvailableBalance.Equal(dec("5")))
}

func TestUserBalanceRepository_GetAll(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserBalanceRepository(testDB.DB)
	ctx := context.Background()

	for _, id := range []string{"low", "high"} {
		_, err := repo.Create(ctx, id)
		require.NoError(t, err)
	}
	_, err := repo.ApplyDelta(ctx, "high", dec("50"))
	require.NoError(t, err)

	balances, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "high", balances[0].UserID)
	assert.Equal(t, "low", balances[1].UserID)
}
