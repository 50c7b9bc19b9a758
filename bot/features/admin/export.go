package admin

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strconv"
	"time"

	"rewards/models"
)

var exportHeader = []string{
	"id", "created_at", "user_id", "activity_type", "description",
	"amount", "balance_before", "balance_after", "related_id", "metadata",
}

// WriteActivityCSV streams entries from seq as CSV rows and returns how many
// rows were written, excluding the header
func WriteActivityCSV(w io.Writer, seq iter.Seq2[*models.ActivityLogEntry, error]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for entry, err := range seq {
		if err != nil {
			return rows, err
		}

		record, err := activityRecord(entry)
		if err != nil {
			return rows, err
		}
		if err := cw.Write(record); err != nil {
			return rows, fmt.Errorf("failed to write entry %d: %w", entry.ID, err)
		}
		rows++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	return rows, nil
}

func activityRecord(e *models.ActivityLogEntry) ([]string, error) {
	relatedID := ""
	if e.RelatedID != nil {
		relatedID = *e.RelatedID
	}

	metadata := ""
	if len(e.Metadata) > 0 {
		raw, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata for entry %d: %w", e.ID, err)
		}
		metadata = string(raw)
	}

	return []string{
		strconv.FormatInt(e.ID, 10),
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.UserID,
		e.ActivityType.String(),
		e.Description,
		e.Amount.StringFixed(2),
		e.BalanceBefore.StringFixed(2),
		e.BalanceAfter.StringFixed(2),
		relatedID,
		metadata,
	}, nil
}
