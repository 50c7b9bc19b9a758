package service

import (
	"context"
	"fmt"
	"strings"

	"rewards/events"
	"rewards/models"

	"github.com/shopspring/decimal"
)

// RecordActivity appends an activity entry and queues the matching balance change
// event. Every ledger mutation goes through here so the entry and the balance
// commit or roll back together.
func RecordActivity(ctx context.Context, uow UnitOfWork, entry *models.ActivityLogEntry) error {
	if err := validateActivityEntry(entry); err != nil {
		return err
	}

	if err := uow.ActivityLogRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       entry.UserID,
		OldBalance:   entry.BalanceBefore,
		NewBalance:   entry.BalanceAfter,
		ActivityType: entry.ActivityType,
		ChangeAmount: entry.Amount,
	})

	return nil
}

// newBalanceActivity builds the log entry for a balance that has already been
// moved by amount
func newBalanceActivity(after *models.UserBalance, activityType models.ActivityType, amount decimal.Decimal, description string) *models.ActivityLogEntry {
	return &models.ActivityLogEntry{
		UserID:        after.UserID,
		ActivityType:  activityType,
		Description:   description,
		Amount:        amount,
		BalanceBefore: after.AvailableBalance.Sub(amount),
		BalanceAfter:  after.AvailableBalance,
	}
}

func validateActivityEntry(entry *models.ActivityLogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: activity entry is required", models.ErrValidation)
	}
	if strings.TrimSpace(entry.UserID) == "" {
		return fmt.Errorf("%w: activity entry needs a user id", models.ErrValidation)
	}
	if !entry.ActivityType.IsValid() {
		return fmt.Errorf("%w: unknown activity type %q", models.ErrValidation, entry.ActivityType)
	}
	if strings.TrimSpace(entry.Description) == "" {
		return fmt.Errorf("%w: activity entry needs a description", models.ErrValidation)
	}
	if entry.Amount.IsZero() {
		return fmt.Errorf("%w: activity amount must be non-zero", models.ErrValidation)
	}
	if err := validateScale(entry.Amount, "activity amount"); err != nil {
		return err
	}
	if err := validateScale(entry.BalanceBefore, "balance before"); err != nil {
		return err
	}
	return validateScale(entry.BalanceAfter, "balance after")
}
