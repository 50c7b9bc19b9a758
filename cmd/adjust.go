package cmd

import (
	"context"
	"fmt"

	"rewards/config"
	"rewards/database"
	"rewards/events"
	"rewards/models"
	"rewards/repository"
	"rewards/service"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// operatorActor is used for adjustments run from a shell on the host, which
// already implies admin access
var operatorActor = models.Actor{UserID: "cli", Roles: []models.Role{models.RoleAdmin}}

// AdjustBalance applies a signed delta to a user's balance from the command line
func AdjustBalance(ctx context.Context, userID, rawDelta, reason string) error {
	delta, err := parseSignedDelta(rawDelta)
	if err != nil {
		return err
	}

	db, err := database.NewConnection(ctx, config.Get().GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	ledger := service.NewLedgerService(repository.NewUnitOfWorkFactory(db, events.NewBus()))
	balance, err := ledger.Adjust(ctx, userID, delta, reason, operatorActor)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"delta":      delta.StringFixed(2),
		"newBalance": balance.AvailableBalance.StringFixed(2),
	}).Info("Balance adjusted")
	return nil
}

// parseSignedDelta accepts "+10", "-2.50" or "7" and reuses ParseAmount for the magnitude
func parseSignedDelta(raw string) (decimal.Decimal, error) {
	negative := false
	switch {
	case len(raw) > 0 && raw[0] == '-':
		negative, raw = true, raw[1:]
	case len(raw) > 0 && raw[0] == '+':
		raw = raw[1:]
	}

	magnitude, err := service.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if negative {
		return magnitude.Neg(), nil
	}
	return magnitude, nil
}
