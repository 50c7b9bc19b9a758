package testutil

import (
	"time"

	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestBalance creates an in-memory balance with default values
func CreateTestBalance(userID string, available string) *models.UserBalance {
	now := time.Now()
	amount := decimal.RequireFromString(available)
	return &models.UserBalance{
		UserID:           userID,
		AvailableBalance: amount,
		TotalEarned:      amount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// CreateTestWithdrawal creates a pending withdrawal request with a 10% fee
func CreateTestWithdrawal(userID string, amount string, method models.WithdrawalMethod) *models.WithdrawalRequest {
	now := time.Now()
	gross := decimal.RequireFromString(amount)
	fee := gross.Mul(decimal.RequireFromString("0.10")).Round(2)
	return &models.WithdrawalRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    gross,
		Method:    method,
		Fee:       fee,
		NetAmount: gross.Sub(fee),
		Status:    models.WithdrawalStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestActivity creates an activity entry that moves a balance from before by amount
func CreateTestActivity(userID string, activityType models.ActivityType, before, amount string) *models.ActivityLogEntry {
	start := decimal.RequireFromString(before)
	change := decimal.RequireFromString(amount)
	return &models.ActivityLogEntry{
		UserID:        userID,
		ActivityType:  activityType,
		Description:   "test " + string(activityType),
		Amount:        change,
		BalanceBefore: start,
		BalanceAfter:  start.Add(change),
		Metadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}
