package cmd

import (
	"context"
	"fmt"

	"rewards/config"
	"rewards/database"
	"rewards/events"
	"rewards/repository"
	"rewards/service"

	log "github.com/sirupsen/logrus"
)

// CreditBalance records earnings for a user from the command line, opening
// the account first if it does not exist yet
func CreditBalance(ctx context.Context, userID, rawAmount, description string) error {
	amount, err := service.ParseAmount(rawAmount)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(ctx, config.Get().GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ledger := service.NewLedgerService(repository.NewUnitOfWorkFactory(db, events.NewBus()))
	if _, err := ledger.EnsureAccount(ctx, userID); err != nil {
		return err
	}

	balance, err := ledger.Credit(ctx, userID, amount, description)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userID":      userID,
		"amount":      amount.StringFixed(2),
		"newBalance":  balance.AvailableBalance.StringFixed(2),
		"totalEarned": balance.TotalEarned.StringFixed(2),
	}).Info("Balance credited")
	return nil
}
