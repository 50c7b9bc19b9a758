package repository

import (
	"context"
	"errors"
	"fmt"

	"rewards/database"
	"rewards/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const withdrawalColumns = `id, user_id, amount, method, fee, net_amount, status, processed_by, created_at, updated_at, completed_at`

// WithdrawalRepository implements the WithdrawalRepository interface
type WithdrawalRepository struct {
	q queryable
}

// NewWithdrawalRepository creates a new pool-backed withdrawal repository
func NewWithdrawalRepository(db *database.DB) *WithdrawalRepository {
	return &WithdrawalRepository{q: db.Pool}
}

// newWithdrawalRepositoryWithTx creates a new withdrawal repository with a transaction
func newWithdrawalRepositoryWithTx(tx queryable) *WithdrawalRepository {
	return &WithdrawalRepository{q: tx}
}

func scanWithdrawal(row pgx.Row) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := row.Scan(
		&request.ID,
		&request.UserID,
		&request.Amount,
		&request.Method,
		&request.Fee,
		&request.NetAmount,
		&request.Status,
		&request.ProcessedBy,
		&request.CreatedAt,
		&request.UpdatedAt,
		&request.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// Create inserts a new withdrawal request. A zero ID is replaced with a fresh UUID.
func (r *WithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}
	if request.Status == "" {
		request.Status = models.WithdrawalStatusPending
	}

	query := `
		INSERT INTO withdrawal_requests (id, user_id, amount, method, fee, net_amount, status)
		VALUES ($1, $2, $3::numeric, $4, $5::numeric, $6::numeric, $7)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		request.ID.String(),
		request.UserID,
		money(request.Amount),
		string(request.Method),
		money(request.Fee),
		money(request.NetAmount),
		string(request.Status),
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: withdrawal request %s already exists", models.ErrPersistenceConflict, request.ID)
		}
		return fmt.Errorf("failed to create withdrawal request for user %s: %w", request.UserID, classifyError(err))
	}

	return nil
}

// GetByID retrieves a withdrawal request by ID
func (r *WithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate retrieves a withdrawal request and locks its row until the
// surrounding transaction ends
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	return r.getByID(ctx, id, true)
}

func (r *WithdrawalRepository) getByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawal request %s: %w", id, classifyError(err))
	}

	return request, nil
}

// UpdateStatus performs a compare-and-set on the status column
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, processedBy string) (*models.WithdrawalRequest, error) {
	query := `
		UPDATE withdrawal_requests
		SET status = $3,
		    processed_by = $4,
		    updated_at = NOW(),
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END
		WHERE id = $1 AND status = $2
		RETURNING ` + withdrawalColumns

	request, err := scanWithdrawal(r.q.QueryRow(ctx, query, id.String(), string(from), string(to), processedBy))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: withdrawal request %s is no longer %s", models.ErrPersistenceConflict, id, from)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update withdrawal request %s to %s: %w", id, to, classifyError(err))
	}

	return request, nil
}

// ListByUser returns a user's withdrawal requests, newest first
func (r *WithdrawalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests for user %s: %w", userID, classifyError(err))
	}

	return collectWithdrawals(rows)
}

// ListByStatus returns withdrawal requests in the given status, oldest first
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit int) ([]*models.WithdrawalRequest, error) {
	query := `
		SELECT ` + withdrawalColumns + `
		FROM withdrawal_requests
		WHERE status = $1
		ORDER BY created_at ASC, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, string(status), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s withdrawal requests: %w", status, classifyError(err))
	}

	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]*models.WithdrawalRequest, error) {
	defer rows.Close()

	var requests []*models.WithdrawalRequest
	for rows.Next() {
		request, err := scanWithdrawal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdrawal request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate withdrawal requests: %w", err)
	}

	return requests, nil
}
