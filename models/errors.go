package models

import "errors"

// Error kinds surfaced by the ledger, withdrawal workflow and activity log.
// Callers wrap them with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrPersistenceConflict = errors.New("concurrent update conflict")
)
