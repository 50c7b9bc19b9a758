package repository

import (
	"context"
	"errors"
	"fmt"

	"rewards/database"
	"rewards/events"
	"rewards/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userBalanceRepo  service.UserBalanceRepository
	withdrawalRepo   service.WithdrawalRepository
	activityLogRepo  service.ActivityLogRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new read-committed transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classifyError(err))
	}

	u.tx = tx
	u.ctx = ctx

	u.userBalanceRepo = newUserBalanceRepositoryWithTx(tx)
	u.withdrawalRepo = newWithdrawalRepositoryWithTx(tx)
	u.activityLogRepo = newActivityLogRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classifyError(err))
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserBalanceRepository returns the balance repository for this unit of work
func (u *unitOfWork) UserBalanceRepository() service.UserBalanceRepository {
	if u.userBalanceRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userBalanceRepo
}

// WithdrawalRepository returns the withdrawal repository for this unit of work
func (u *unitOfWork) WithdrawalRepository() service.WithdrawalRepository {
	if u.withdrawalRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.withdrawalRepo
}

// ActivityLogRepository returns the activity log repository for this unit of work
func (u *unitOfWork) ActivityLogRepository() service.ActivityLogRepository {
	if u.activityLogRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.activityLogRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
