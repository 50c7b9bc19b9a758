package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rewards/events"
	"rewards/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
}

// NewLedgerService creates a new balance ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

// EnsureAccount opens a zero-balance account for userID if none exists
func (s *ledgerService) EnsureAccount(ctx context.Context, userID string) (*models.UserBalance, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", models.ErrValidation)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.UserBalanceRepository().Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if balance != nil {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
		log.WithField("userID", userID).Info("Opened balance account")
	} else {
		balance, err = uow.UserBalanceRepository().GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get account: %w", err)
		}
		if balance == nil {
			return nil, fmt.Errorf("%w: account for user %s vanished during creation", models.ErrPersistenceConflict, userID)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance, nil
}

// Read returns the current balance snapshot
func (s *ledgerService) Read(ctx context.Context, userID string) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.UserBalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: user %s has no balance account", models.ErrNotFound, userID)
	}

	return balance, nil
}

// Adjust applies a signed admin adjustment. Overdrafts are reported as both
// ErrValidation and ErrInsufficientBalance.
func (s *ledgerService) Adjust(ctx context.Context, userID string, delta decimal.Decimal, reason string, actor models.Actor) (*models.UserBalance, error) {
	reason = strings.TrimSpace(reason)
	if err := validateInput(adjustInput{UserID: userID, Reason: reason, ActorID: actor.UserID}); err != nil {
		return nil, err
	}
	if delta.IsZero() {
		return nil, fmt.Errorf("%w: adjustment must be non-zero", models.ErrValidation)
	}
	if err := validateScale(delta, "adjustment"); err != nil {
		return nil, err
	}

	balance, err := retryOnConflict(ctx, "adjust", func() (*models.UserBalance, error) {
		return s.applyChange(ctx, userID, delta, func(after *models.UserBalance) *models.ActivityLogEntry {
			entry := newBalanceActivity(after, models.ActivityTypeAdminAdjustment, delta, reason)
			entry.Metadata = map[string]any{
				"actor_id": actor.UserID,
				"reason":   reason,
			}
			return entry
		})
	})
	if errors.Is(err, models.ErrInsufficientBalance) {
		return nil, fmt.Errorf("%w: %w", models.ErrValidation, err)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"delta":      delta.StringFixed(MoneyScale),
		"newBalance": balance.AvailableBalance.StringFixed(MoneyScale),
		"actorID":    actor.UserID,
	}).Info("Applied admin balance adjustment")

	return balance, nil
}

// Credit adds earnings to a user's balance
func (s *ledgerService) Credit(ctx context.Context, userID string, amount decimal.Decimal, description string) (*models.UserBalance, error) {
	description = strings.TrimSpace(description)
	if err := validateInput(creditInput{UserID: userID, Description: description}); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: credit amount must be positive", models.ErrValidation)
	}
	if err := validateScale(amount, "credit"); err != nil {
		return nil, err
	}

	balance, err := retryOnConflict(ctx, "credit", func() (*models.UserBalance, error) {
		return s.applyChange(ctx, userID, amount, func(after *models.UserBalance) *models.ActivityLogEntry {
			return newBalanceActivity(after, models.ActivityTypeCredit, amount, description)
		})
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"amount":     amount.StringFixed(MoneyScale),
		"newBalance": balance.AvailableBalance.StringFixed(MoneyScale),
	}).Info("Credited earnings")

	return balance, nil
}

// Summary totals every account and keeps the top holders by available balance
func (s *ledgerService) Summary(ctx context.Context, top int) (*models.LedgerSummary, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balances, err := uow.UserBalanceRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}

	summary := &models.LedgerSummary{
		Accounts:       len(balances),
		TotalAvailable: decimal.Zero,
		TotalEarned:    decimal.Zero,
	}
	for _, b := range balances {
		summary.TotalAvailable = summary.TotalAvailable.Add(b.AvailableBalance)
		summary.TotalEarned = summary.TotalEarned.Add(b.TotalEarned)
	}
	summary.Top = balances[:min(len(balances), clampLimit(top))]

	return summary, nil
}

// applyChange moves the balance and logs the change in one transaction
func (s *ledgerService) applyChange(ctx context.Context, userID string, delta decimal.Decimal, entryFor func(after *models.UserBalance) *models.ActivityLogEntry) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.UserBalanceRepository().ApplyDelta(ctx, userID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance change: %w", err)
	}

	if err := RecordActivity(ctx, uow, entryFor(balance)); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance, nil
}
