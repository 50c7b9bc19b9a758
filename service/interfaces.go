package service

import (
	"context"
	"iter"

	"rewards/events"
	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserBalanceRepository defines the interface for ledger data access
type UserBalanceRepository interface {
	// GetByUserID retrieves a balance, returning nil when the user has no account
	GetByUserID(ctx context.Context, userID string) (*models.UserBalance, error)

	// Create opens an account with zero balances, returning nil if it already exists
	Create(ctx context.Context, userID string) (*models.UserBalance, error)

	// ApplyDelta adds a signed delta in a single conditional update. It fails with
	// models.ErrInsufficientBalance when the result would be negative and
	// models.ErrNotFound when the account does not exist.
	ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal) (*models.UserBalance, error)

	// GetAll returns every account ordered by available balance
	GetAll(ctx context.Context) ([]*models.UserBalance, error)
}

// WithdrawalRepository defines the interface for withdrawal request data access
type WithdrawalRepository interface {
	// Create inserts a new request
	Create(ctx context.Context, request *models.WithdrawalRequest) error

	// GetByID retrieves a request, returning nil when it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)

	// GetByIDForUpdate retrieves and row-locks a request for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error)

	// UpdateStatus moves a request from one status to another. The write only applies
	// while the stored status still equals from; otherwise models.ErrPersistenceConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, processedBy string) (*models.WithdrawalRequest, error)

	// ListByUser returns a user's requests, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.WithdrawalRequest, error)

	// ListByStatus returns requests in a status, oldest first
	ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit int) ([]*models.WithdrawalRequest, error)
}

// ActivityLogRepository defines the interface for the append-only activity log
type ActivityLogRepository interface {
	// Record appends a new entry and fills in its ID and CreatedAt
	Record(ctx context.Context, entry *models.ActivityLogEntry) error

	// Query streams matching entries ordered by created_at descending. Every range
	// over the returned sequence runs a fresh query.
	Query(ctx context.Context, filter models.ActivityFilter) iter.Seq2[*models.ActivityLogEntry, error]
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserBalanceRepository() UserBalanceRepository
	WithdrawalRepository() WithdrawalRepository
	ActivityLogRepository() ActivityLogRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// RoleChecker is the role collaborator; roles are evaluated outside this core
type RoleChecker interface {
	// Roles returns every role granted to userID in a single lookup
	Roles(ctx context.Context, userID string) ([]models.Role, error)
}

// FeeSchedule computes the processing fee for a withdrawal. Implementations must be
// deterministic and defined for every supported method and positive amount.
type FeeSchedule interface {
	Fee(method models.WithdrawalMethod, amount decimal.Decimal) (decimal.Decimal, error)
}

// LedgerService defines the interface for balance ledger operations
type LedgerService interface {
	// EnsureAccount returns the user's balance, opening a zero account if needed
	EnsureAccount(ctx context.Context, userID string) (*models.UserBalance, error)

	// Read returns the current balance snapshot
	Read(ctx context.Context, userID string) (*models.UserBalance, error)

	// Adjust applies a signed admin adjustment and logs it
	Adjust(ctx context.Context, userID string, delta decimal.Decimal, reason string, actor models.Actor) (*models.UserBalance, error)

	// Credit adds earnings to a user's balance and lifetime total
	Credit(ctx context.Context, userID string, amount decimal.Decimal, description string) (*models.UserBalance, error)

	// Summary totals every account and returns the top holders
	Summary(ctx context.Context, top int) (*models.LedgerSummary, error)
}

// WithdrawalService defines the interface for the withdrawal workflow
type WithdrawalService interface {
	// Create files a new pending request after checking the available balance
	Create(ctx context.Context, userID string, amount decimal.Decimal, method models.WithdrawalMethod) (*models.WithdrawalRequest, error)

	// Transition moves a request through the state machine on behalf of an admin
	Transition(ctx context.Context, requestID uuid.UUID, target models.WithdrawalStatus, actor models.Actor) (*models.WithdrawalRequest, error)

	// Get retrieves a request by ID
	Get(ctx context.Context, requestID uuid.UUID) (*models.WithdrawalRequest, error)

	// ListByUser returns a user's requests, newest first
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.WithdrawalRequest, error)

	// ListByStatus returns the review queue for a status, oldest first
	ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit int) ([]*models.WithdrawalRequest, error)
}

// ActivityService defines the interface for the activity log
type ActivityService interface {
	// Append writes a standalone entry
	Append(ctx context.Context, entry *models.ActivityLogEntry) error

	// Query streams entries matching the filter, newest first
	Query(ctx context.Context, filter models.ActivityFilter) iter.Seq2[*models.ActivityLogEntry, error]
}
