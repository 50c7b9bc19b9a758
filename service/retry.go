package service

import (
	"context"
	"errors"

	"rewards/models"

	log "github.com/sirupsen/logrus"
)

// retryOnConflict runs fn and, if it lost a race to a concurrent writer, runs it
// exactly once more. A second conflict is returned to the caller.
func retryOnConflict[T any](ctx context.Context, operation string, fn func() (T, error)) (T, error) {
	result, err := fn()
	if !errors.Is(err, models.ErrPersistenceConflict) || ctx.Err() != nil {
		return result, err
	}

	log.WithFields(log.Fields{
		"operation": operation,
		"error":     err,
	}).Warn("Persistence conflict, retrying once")

	return fn()
}
