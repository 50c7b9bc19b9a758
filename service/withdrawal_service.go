package service

import (
	"context"
	"fmt"

	"rewards/events"
	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 25
	maxListLimit     = 100
)

type withdrawalService struct {
	uowFactory  UnitOfWorkFactory
	feeSchedule FeeSchedule
}

// NewWithdrawalService creates a new withdrawal workflow service
func NewWithdrawalService(uowFactory UnitOfWorkFactory, feeSchedule FeeSchedule) WithdrawalService {
	return &withdrawalService{
		uowFactory:  uowFactory,
		feeSchedule: feeSchedule,
	}
}

// Create files a pending withdrawal request. Funds are checked but not reserved;
// the debit happens at completion.
func (s *withdrawalService) Create(ctx context.Context, userID string, amount decimal.Decimal, method models.WithdrawalMethod) (*models.WithdrawalRequest, error) {
	if err := validateInput(withdrawalInput{UserID: userID, Method: string(method)}); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", models.ErrValidation)
	}
	if err := validateScale(amount, "withdrawal amount"); err != nil {
		return nil, err
	}

	fee, err := s.feeSchedule.Fee(method, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fee: %w", err)
	}
	if fee.IsNegative() {
		return nil, fmt.Errorf("%w: fee schedule returned negative fee %s", models.ErrValidation, fee)
	}
	if err := validateScale(fee, "fee"); err != nil {
		return nil, err
	}
	netAmount := amount.Sub(fee)
	if !netAmount.IsPositive() {
		return nil, fmt.Errorf("%w: fee %s leaves nothing to pay out from %s",
			models.ErrValidation, fee.StringFixed(MoneyScale), amount.StringFixed(MoneyScale))
	}

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
	if !balance.CanAfford(amount) {
		return nil, fmt.Errorf("%w: requested %s, available %s", models.ErrInsufficientBalance,
			amount.StringFixed(MoneyScale), balance.AvailableBalance.StringFixed(MoneyScale))
	}

	request := &models.WithdrawalRequest{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Method:    method,
		Fee:       fee,
		NetAmount: netAmount,
		Status:    models.WithdrawalStatusPending,
	}
	if err := uow.WithdrawalRepository().Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalRequestedEvent{
		RequestID: request.ID,
		UserID:    userID,
		Amount:    amount,
		Method:    method,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"requestID": request.ID,
		"userID":    userID,
		"amount":    amount.StringFixed(MoneyScale),
		"fee":       fee.StringFixed(MoneyScale),
		"method":    method,
	}).Info("Withdrawal request created")

	return request, nil
}

// Transition moves a request along the state machine. Callers are responsible
// for verifying that actor holds the admin role.
func (s *withdrawalService) Transition(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus, actor models.Actor) (*models.WithdrawalRequest, error) {
	if err := validateInput(transitionInput{Target: string(target), ActorID: actor.UserID}); err != nil {
		return nil, err
	}

	request, err := retryOnConflict(ctx, "withdrawal transition", func() (*models.WithdrawalRequest, error) {
		return s.transition(ctx, requestID, target, actor)
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"requestID": requestID,
		"userID":    request.UserID,
		"status":    request.Status,
		"actorID":   actor.UserID,
	}).Info("Withdrawal request transitioned")

	return request, nil
}

func (s *withdrawalService) transition(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus, actor models.Actor) (*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.WithdrawalRepository().GetByIDForUpdate(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: withdrawal request %s", models.ErrNotFound, requestID)
	}

	previous := request.Status
	if !previous.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, previous, target)
	}

	if target == models.WithdrawalStatusCompleted {
		if err := s.debitForCompletion(ctx, uow, request, actor); err != nil {
			return nil, err
		}
	}

	updated, err := uow.WithdrawalRepository().UpdateStatus(ctx, requestID, previous, target, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal status: %w", err)
	}

	uow.EventBus().Publish(events.WithdrawalStatusChangedEvent{
		RequestID: requestID,
		UserID:    updated.UserID,
		OldStatus: previous,
		NewStatus: target,
		ActorID:   actor.UserID,
	})
	if target == models.WithdrawalStatusCompleted {
		uow.EventBus().Publish(events.WithdrawalCompletedEvent{
			RequestID: requestID,
			UserID:    updated.UserID,
			Method:    updated.Method,
			Amount:    updated.Amount,
			Fee:       updated.Fee,
			NetAmount: updated.NetAmount,
			ActorID:   actor.UserID,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

// debitForCompletion removes the gross amount from the ledger and logs the payout
func (s *withdrawalService) debitForCompletion(ctx context.Context, uow UnitOfWork, request *models.WithdrawalRequest, actor models.Actor) error {
	debit := request.Amount.Neg()

	balance, err := uow.UserBalanceRepository().ApplyDelta(ctx, request.UserID, debit)
	if err != nil {
		return fmt.Errorf("failed to debit withdrawal: %w", err)
	}

	relatedID := request.ID.String()
	entry := newBalanceActivity(balance, models.ActivityTypeWithdrawal, debit,
		fmt.Sprintf("Withdrawal via %s (net %s)", request.Method, request.NetAmount.StringFixed(MoneyScale)))
	entry.RelatedID = &relatedID
	entry.Metadata = map[string]any{
		"request_id": relatedID,
		"method":     string(request.Method),
		"fee":        request.Fee.StringFixed(MoneyScale),
		"net_amount": request.NetAmount.StringFixed(MoneyScale),
		"actor_id":   actor.UserID,
	}

	return RecordActivity(ctx, uow, entry)
}

// Get retrieves a withdrawal request by ID
func (s *withdrawalService) Get(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.WithdrawalRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request: %w", err)
	}
	if request == nil {
		return nil, fmt.Errorf("%w: withdrawal request %s", models.ErrNotFound, requestID)
	}

	return request, nil
}

// ListByUser returns a user's requests, newest first
func (s *withdrawalService) ListByUser(ctx context.Context, userID string, limit int) ([]*models.WithdrawalRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	requests, err := uow.WithdrawalRepository().ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}

	return requests, nil
}

// ListByStatus returns requests in status, oldest first
func (s *withdrawalService) ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit int) ([]*models.WithdrawalRequest, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown withdrawal status %q", models.ErrValidation, status)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	requests, err := uow.WithdrawalRepository().ListByStatus(ctx, status, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}

	return requests, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
