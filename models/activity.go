package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType represents the kind of balance-affecting event
type ActivityType string

const (
	ActivityTypeCredit          ActivityType = "credit"
	ActivityTypeDebit           ActivityType = "debit"
	ActivityTypeAdminAdjustment ActivityType = "admin_adjustment"
	ActivityTypeWithdrawal      ActivityType = "withdrawal"
)

// IsValid reports whether the type is known
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTypeCredit, ActivityTypeDebit, ActivityTypeAdminAdjustment, ActivityTypeWithdrawal:
		return true
	}
	return false
}

// String returns the string representation of the activity type
func (t ActivityType) String() string {
	return string(t)
}

// ActivityLogEntry is an immutable audit record of a ledger change
type ActivityLogEntry struct {
	ID            int64           `db:"id"`
	UserID        string          `db:"user_id"`
	ActivityType  ActivityType    `db:"activity_type"`
	Description   string          `db:"description"`
	Amount        decimal.Decimal `db:"amount"` // positive = credit, negative = debit
	BalanceBefore decimal.Decimal `db:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after"`
	Metadata      map[string]any  `db:"metadata"`
	RelatedID     *string         `db:"related_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

// IsCredit returns true if the entry increased the balance
func (e *ActivityLogEntry) IsCredit() bool {
	return e.Amount.IsPositive()
}

// IsDebit returns true if the entry decreased the balance
func (e *ActivityLogEntry) IsDebit() bool {
	return e.Amount.IsNegative()
}

// GetDescription returns the stored description or a readable default for the type
func (e *ActivityLogEntry) GetDescription() string {
	if e.Description != "" {
		return e.Description
	}
	switch e.ActivityType {
	case ActivityTypeCredit:
		return "Earnings credit"
	case ActivityTypeDebit:
		return "Balance debit"
	case ActivityTypeAdminAdjustment:
		return "Admin adjustment"
	case ActivityTypeWithdrawal:
		return "Withdrawal payout"
	default:
		return string(e.ActivityType)
	}
}

// ActivityFilter narrows an activity log query. Zero values mean "no restriction".
// From is inclusive, To is exclusive.
type ActivityFilter struct {
	UserID string
	Types  []ActivityType
	From   time.Time
	To     time.Time
	Limit  int
}
