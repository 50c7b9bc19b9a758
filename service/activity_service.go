package service

import (
	"context"
	"fmt"
	"iter"

	"rewards/models"

	log "github.com/sirupsen/logrus"
)

type activityService struct {
	uowFactory UnitOfWorkFactory
	reader     ActivityLogRepository
}

// NewActivityService creates a new activity log service. Queries go through
// reader so they never hold a transaction open while the caller iterates.
func NewActivityService(uowFactory UnitOfWorkFactory, reader ActivityLogRepository) ActivityService {
	return &activityService{
		uowFactory: uowFactory,
		reader:     reader,
	}
}

// Append writes a standalone activity entry
func (s *activityService) Append(ctx context.Context, entry *models.ActivityLogEntry) error {
	if err := validateActivityEntry(entry); err != nil {
		return err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ActivityLogRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"entryID":      entry.ID,
		"userID":       entry.UserID,
		"activityType": entry.ActivityType,
	}).Debug("Appended activity entry")

	return nil
}

// Query streams entries matching filter, newest first. An invalid filter yields
// a single ErrValidation.
func (s *activityService) Query(ctx context.Context, filter models.ActivityFilter) iter.Seq2[*models.ActivityLogEntry, error] {
	if err := validateActivityFilter(filter); err != nil {
		return func(yield func(*models.ActivityLogEntry, error) bool) {
			yield(nil, err)
		}
	}
	return s.reader.Query(ctx, filter)
}

// CollectActivity drains a query into a slice, stopping at the first error
func CollectActivity(seq iter.Seq2[*models.ActivityLogEntry, error]) ([]*models.ActivityLogEntry, error) {
	var entries []*models.ActivityLogEntry
	for entry, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func validateActivityFilter(filter models.ActivityFilter) error {
	if filter.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", models.ErrValidation)
	}
	for _, t := range filter.Types {
		if !t.IsValid() {
			return fmt.Errorf("%w: unknown activity type %q", models.ErrValidation, t)
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.To.After(filter.From) {
		return fmt.Errorf("%w: date range end must be after its start", models.ErrValidation)
	}
	return nil
}
