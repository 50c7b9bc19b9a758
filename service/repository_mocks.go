package service

import (
	"context"
	"iter"

	"rewards/events"
	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockUserBalanceRepository is a mock implementation of UserBalanceRepository
type MockUserBalanceRepository struct {
	mock.Mock
}

func (m *MockUserBalanceRepository) GetByUserID(ctx context.Context, userID string) (*models.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockUserBalanceRepository) Create(ctx context.Context, userID string) (*models.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockUserBalanceRepository) ApplyDelta(ctx context.Context, userID string, delta decimal.Decimal) (*models.UserBalance, error) {
	args := m.Called(ctx, userID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockUserBalanceRepository) GetAll(ctx context.Context) ([]*models.UserBalance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserBalance), args.Error(1)
}

// MockWithdrawalRepository is a mock implementation of WithdrawalRepository
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) Create(ctx context.Context, request *models.WithdrawalRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.WithdrawalStatus, processedBy string) (*models.WithdrawalRequest, error) {
	args := m.Called(ctx, id, from, to, processedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListByStatus(ctx context.Context, status models.WithdrawalStatus, limit int) ([]*models.WithdrawalRequest, error) {
	args := m.Called(ctx, status, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawalRequest), args.Error(1)
}

// MockActivityLogRepository is a mock implementation of ActivityLogRepository
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) Record(ctx context.Context, entry *models.ActivityLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) Query(ctx context.Context, filter models.ActivityFilter) iter.Seq2[*models.ActivityLogEntry, error] {
	args := m.Called(ctx, filter)
	return args.Get(0).(iter.Seq2[*models.ActivityLogEntry, error])
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Lifecycle calls go
// through testify; repository getters return whatever SetRepositories stored.
type MockUnitOfWork struct {
	mock.Mock
	userBalanceRepo UserBalanceRepository
	withdrawalRepo  WithdrawalRepository
	activityLogRepo ActivityLogRepository
	eventBus        EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(balances UserBalanceRepository, withdrawals WithdrawalRepository, activity ActivityLogRepository, bus EventPublisher) {
	m.userBalanceRepo = balances
	m.withdrawalRepo = withdrawals
	m.activityLogRepo = activity
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserBalanceRepository() UserBalanceRepository {
	return m.userBalanceRepo
}

func (m *MockUnitOfWork) WithdrawalRepository() WithdrawalRepository {
	return m.withdrawalRepo
}

func (m *MockUnitOfWork) ActivityLogRepository() ActivityLogRepository {
	return m.activityLogRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockRoleChecker is a mock implementation of RoleChecker
type MockRoleChecker struct {
	mock.Mock
}

func (m *MockRoleChecker) Roles(ctx context.Context, userID string) ([]models.Role, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Role), args.Error(1)
}
