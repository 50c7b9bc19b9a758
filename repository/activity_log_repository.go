package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"rewards/database"
	"rewards/models"

	"github.com/jackc/pgx/v5"
)

// ActivityLogRepository implements the ActivityLogRepository interface
type ActivityLogRepository struct {
	q queryable
}

// NewActivityLogRepository creates a new pool-backed activity log repository
func NewActivityLogRepository(db *database.DB) *ActivityLogRepository {
	return &ActivityLogRepository{q: db.Pool}
}

// newActivityLogRepositoryWithTx creates a new activity log repository with a transaction
func newActivityLogRepositoryWithTx(tx queryable) *ActivityLogRepository {
	return &ActivityLogRepository{q: tx}
}

// Record appends a new activity log entry
func (r *ActivityLogRepository) Record(ctx context.Context, entry *models.ActivityLogEntry) error {
	var metadataJSON []byte
	if len(entry.Metadata) > 0 {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal activity metadata: %w", err)
		}
	}

	query := `
		INSERT INTO activity_log
		(user_id, activity_type, description, amount, balance_before, balance_after, metadata, related_id)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7, $8)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		string(entry.ActivityType),
		entry.Description,
		money(entry.Amount),
		money(entry.BalanceBefore),
		money(entry.BalanceAfter),
		metadataJSON,
		entry.RelatedID,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s activity for user %s: %w", entry.ActivityType, entry.UserID, classifyError(err))
	}

	return nil
}

// Query returns a lazy sequence of entries matching the filter. The query runs
// when the sequence is ranged over, and again on every subsequent range.
func (r *ActivityLogRepository) Query(ctx context.Context, filter models.ActivityFilter) iter.Seq2[*models.ActivityLogEntry, error] {
	query, args := buildActivityQuery(filter)

	return func(yield func(*models.ActivityLogEntry, error) bool) {
		rows, err := r.q.Query(ctx, query, args...)
		if err != nil {
			yield(nil, fmt.Errorf("failed to query activity log: %w", classifyError(err)))
			return
		}
		defer rows.Close()

		for rows.Next() {
			entry, err := scanActivityEntry(rows)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(entry, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("failed to iterate activity log: %w", classifyError(err)))
		}
	}
}

func buildActivityQuery(filter models.ActivityFilter) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.UserID != "" {
		conditions = append(conditions, "user_id = "+addArg(filter.UserID))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		conditions = append(conditions, "activity_type = ANY("+addArg(types)+")")
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "created_at >= "+addArg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "created_at < "+addArg(filter.To))
	}

	var b strings.Builder
	b.WriteString(`SELECT id, user_id, activity_type, description, amount, balance_before, balance_after,
		metadata, related_id, created_at
		FROM activity_log`)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		b.WriteString(" LIMIT " + addArg(filter.Limit))
	}

	return b.String(), args
}

func scanActivityEntry(rows pgx.Rows) (*models.ActivityLogEntry, error) {
	var entry models.ActivityLogEntry
	var metadataJSON []byte

	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ActivityType,
		&entry.Description,
		&entry.Amount,
		&entry.BalanceBefore,
		&entry.BalanceAfter,
		&metadataJSON,
		&entry.RelatedID,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan activity entry: %w", err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity metadata: %w", err)
		}
	}

	return &entry, nil
}
