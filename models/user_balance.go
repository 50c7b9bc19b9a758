package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserBalance is the authoritative ledger record for a single user
type UserBalance struct {
	UserID           string          `db:"user_id"`
	AvailableBalance decimal.Decimal `db:"available_balance"`
	TotalEarned      decimal.Decimal `db:"total_earned"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// CanAfford checks if the user has sufficient available balance for an amount
func (b *UserBalance) CanAfford(amount decimal.Decimal) bool {
	return b.AvailableBalance.GreaterThanOrEqual(amount)
}

// CalculateNewBalance calculates what the available balance would be after a change
func (b *UserBalance) CalculateNewBalance(delta decimal.Decimal) decimal.Decimal {
	return b.AvailableBalance.Add(delta)
}

// CalculateNewTotalEarned returns the lifetime total after a change; only increases count
func (b *UserBalance) CalculateNewTotalEarned(delta decimal.Decimal) decimal.Decimal {
	if delta.IsPositive() {
		return b.TotalEarned.Add(delta)
	}
	return b.TotalEarned
}

// LedgerSummary aggregates every account for the admin overview
type LedgerSummary struct {
	Accounts       int
	TotalAvailable decimal.Decimal
	TotalEarned    decimal.Decimal
	Top            []*UserBalance // highest available balance first
}
