package service

import (
	"context"
	"testing"

	"rewards/events"
	"rewards/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// serviceFixture wires one mock unit of work shared by every Create call
type serviceFixture struct {
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	balances    *MockUserBalanceRepository
	withdrawals *MockWithdrawalRepository
	activity    *MockActivityLogRepository
	bus         *MockEventPublisher
}

func newServiceFixture(ctx context.Context) *serviceFixture {
	f := &serviceFixture{
		factory:     new(MockUnitOfWorkFactory),
		uow:         new(MockUnitOfWork),
		balances:    new(MockUserBalanceRepository),
		withdrawals: new(MockWithdrawalRepository),
		activity:    new(MockActivityLogRepository),
		bus:         new(MockEventPublisher),
	}
	f.uow.SetRepositories(f.balances, f.withdrawals, f.activity, f.bus)

	f.factory.On("Create").Return(f.uow)
	f.uow.On("Begin", ctx).Return(nil)
	f.uow.On("Rollback").Return(nil)

	return f
}

func (f *serviceFixture) expectCommit() {
	f.uow.On("Commit").Return(nil)
}

func (f *serviceFixture) acceptEvents() {
	f.bus.On("Publish", mock.Anything).Return()
}

func (f *serviceFixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.factory.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.balances.AssertExpectations(t)
	f.withdrawals.AssertExpectations(t)
	f.activity.AssertExpectations(t)
	f.bus.AssertExpectations(t)
}

// publishedOfType returns the events of type T passed to Publish
func publishedOfType[T events.Event](bus *MockEventPublisher) []T {
	var out []T
	for _, call := range bus.Calls {
		if call.Method != "Publish" {
			continue
		}
		if e, ok := call.Arguments.Get(0).(T); ok {
			out = append(out, e)
		}
	}
	return out
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decEq matches a decimal argument by value rather than representation
func decEq(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

func balanceOf(userID, available, earned string) *models.UserBalance {
	return &models.UserBalance{
		UserID:           userID,
		AvailableBalance: dec(available),
		TotalEarned:      dec(earned),
	}
}

var adminActor = models.Actor{UserID: "admin-1", Roles: []models.Role{models.RoleAdmin}}
