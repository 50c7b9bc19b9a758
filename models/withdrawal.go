package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalStatus represents the state of a withdrawal request
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

// allowedTransitions lists every legal move; anything absent is rejected
var allowedTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalStatusPending:  {WithdrawalStatusApproved, WithdrawalStatusRejected},
	WithdrawalStatusApproved: {WithdrawalStatusCompleted},
}

// IsValid reports whether the status is one of the known states
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusApproved, WithdrawalStatusRejected, WithdrawalStatusCompleted:
		return true
	}
	return false
}

// IsTerminal returns true for states that accept no further transitions
func (s WithdrawalStatus) IsTerminal() bool {
	return s == WithdrawalStatusRejected || s == WithdrawalStatusCompleted
}

// CanTransitionTo reports whether moving from s to target is allowed
func (s WithdrawalStatus) CanTransitionTo(target WithdrawalStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// String returns the string representation of the status
func (s WithdrawalStatus) String() string {
	return string(s)
}

// WithdrawalMethod is the payout channel chosen by the user
type WithdrawalMethod string

const (
	WithdrawalMethodBank   WithdrawalMethod = "bank"
	WithdrawalMethodCard   WithdrawalMethod = "card"
	WithdrawalMethodPayPal WithdrawalMethod = "paypal"
)

// WithdrawalMethods lists the supported payout channels in display order
var WithdrawalMethods = []WithdrawalMethod{
	WithdrawalMethodBank,
	WithdrawalMethodCard,
	WithdrawalMethodPayPal,
}

// IsValid reports whether the method is a supported payout channel
func (m WithdrawalMethod) IsValid() bool {
	for _, known := range WithdrawalMethods {
		if m == known {
			return true
		}
	}
	return false
}

// WithdrawalRequest is a user's request to cash out part of their available balance
type WithdrawalRequest struct {
	ID          uuid.UUID        `db:"id"`
	UserID      string           `db:"user_id"`
	Amount      decimal.Decimal  `db:"amount"`
	Method      WithdrawalMethod `db:"method"`
	Fee         decimal.Decimal  `db:"fee"`
	NetAmount   decimal.Decimal  `db:"net_amount"`
	Status      WithdrawalStatus `db:"status"`
	ProcessedBy *string          `db:"processed_by"`
	CreatedAt   time.Time        `db:"created_at"`
	UpdatedAt   time.Time        `db:"updated_at"`
	CompletedAt *time.Time       `db:"completed_at"`
}

// IsPending checks if the request is waiting for review
func (w *WithdrawalRequest) IsPending() bool {
	return w.Status == WithdrawalStatusPending
}

// IsApproved checks if the request was approved and awaits payout
func (w *WithdrawalRequest) IsApproved() bool {
	return w.Status == WithdrawalStatusApproved
}

// IsTerminal checks if the request can no longer change
func (w *WithdrawalRequest) IsTerminal() bool {
	return w.Status.IsTerminal()
}

// AmountsConsistent checks that net = amount - fee and that the payout is positive
func (w *WithdrawalRequest) AmountsConsistent() bool {
	return w.NetAmount.Equal(w.Amount.Sub(w.Fee)) && w.NetAmount.IsPositive()
}
