package repository

import (
	"errors"
	"fmt"

	"rewards/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// Postgres SQLSTATE codes the repositories care about
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == pgUniqueViolation
}

// classifyError attaches a models error kind to driver errors that have one
func classifyError(err error) error {
	switch pgErrorCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return fmt.Errorf("%w: %w", models.ErrPersistenceConflict, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", models.ErrNotFound, err)
	case pgCheckViolation:
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}
	return err
}

// money renders a decimal as a NUMERIC literal sent in text format
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
