package repository

import (
	"context"
	"errors"
	"fmt"

	"rewards/database"
	"rewards/models"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userBalanceColumns = `user_id, available_balance, total_earned, created_at, updated_at`

// UserBalanceRepository implements the UserBalanceRepository interface
type UserBalanceRepository struct {
	q queryable
}

// NewUserBalanceRepository creates a new pool-backed balance repository
func NewUserBalanceRepository(db *database.DB) *UserBalanceRepository {
	return &UserBalanceRepository{q: db.Pool}
}

// newUserBalanceRepositoryWithTx creates a new balance repository with a transaction
func newUserBalanceRepositoryWithTx(tx queryable) *UserBalanceRepository {
	return &UserBalanceRepository{q: tx}
}

func scanUserBalance(row pgx.Row) (*models.UserBalance, error) {
	var balance models.UserBalance
	err := row.Scan(
		&balance.UserID,
		&balance.AvailableBalance,
		&balance.TotalEarned,
		&balance.CreatedAt,
		&balance.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetByUserID retrieves a balance by user ID
func (r *UserBalanceRepository) GetByUserID(ctx context.Context, userID string) (*models.UserBalance, error) {
	query := `SELECT ` + userBalanceColumns + ` FROM user_balances WHERE user_id = $1`

	balance, err := scanUserBalance(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance for user %s: %w", userID, classifyError(err))
	}

	return balance, nil
}

// Create opens a zero-balance account. Returns nil when the account already exists.
func (r *UserBalanceRepository) Create(ctx context.Context, userID string) (*models.UserBalance, error) {
	query := `
		INSERT INTO user_balances (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + userBalanceColumns

	balance, err := scanUserBalance(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create balance for user %s: %w", userID, classifyError(err))
	}

	return balance, nil
}

// ApplyDelta adds delta to the available balance in one statement. The row only
// changes when the result stays non-negative, so concurrent debits serialize on
// the row lock and the loser observes the winner's balance.
func (r *UserBalanceRepository) ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal) (*models.UserBalance, error) {
	query := `
		UPDATE user_balances
		SET available_balance = available_balance + $2::numeric,
		    total_earned = total_earned + GREATEST($2::numeric, 0),
		    updated_at = NOW()
		WHERE user_id = $1 AND available_balance + $2::numeric >= 0
		RETURNING ` + userBalanceColumns

	balance, err := scanUserBalance(r.q.QueryRow(ctx, query, userID, money(delta)))
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to apply delta %s for user %s: %w", money(delta), userID, classifyError(err))
	}

	// No row updated: either the account is missing or the guard rejected the delta
	existing, getErr := r.GetByUserID(ctx, userID)
	if getErr != nil {
		return nil, getErr
	}
	if existing == nil {
		return nil, fmt.Errorf("%w: user %s has no balance account", models.ErrNotFound, userID)
	}
	return nil, fmt.Errorf("%w: user %s has %s available, delta %s",
		models.ErrInsufficientBalance, userID, money(existing.AvailableBalance), money(delta))
}

// GetAll returns every account ordered by available balance, highest first
func (r *UserBalanceRepository) GetAll(ctx context.Context) ([]*models.UserBalance, error) {
	query := `SELECT ` + userBalanceColumns + ` FROM user_balances ORDER BY available_balance DESC, user_id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", classifyError(err))
	}
	defer rows.Close()

	var balances []*models.UserBalance
	for rows.Next() {
		balance, err := scanUserBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}
