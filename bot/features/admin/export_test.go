package admin

import (
	"bytes"
	"errors"
	"iter"
	"testing"
	"time"

	"rewards/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seqOf(entries []*models.ActivityLogEntry, tail error) iter.Seq2[*models.ActivityLogEntry, error] {
	return func(yield func(*models.ActivityLogEntry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
		if tail != nil {
			yield(nil, tail)
		}
	}
}

func TestWriteActivityCSV(t *testing.T) {
	related := "0a1b2c3d-0000-4000-8000-000000000001"
	entries := []*models.ActivityLogEntry{
		{
			ID:            2,
			UserID:        "u1",
			ActivityType:  models.ActivityTypeWithdrawal,
			Description:   "Withdrawal via bank, fee included",
			Amount:        decimal.NewFromInt(-50),
			BalanceBefore: decimal.NewFromInt(100),
			BalanceAfter:  decimal.NewFromInt(50),
			RelatedID:     &related,
			Metadata:      map[string]any{"method": "bank"},
			CreatedAt:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:            1,
			UserID:        "u1",
			ActivityType:  models.ActivityTypeCredit,
			Description:   "Campaign payout",
			Amount:        decimal.NewFromInt(100),
			BalanceBefore: decimal.Zero,
			BalanceAfter:  decimal.NewFromInt(100),
			CreatedAt:     time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	rows, err := WriteActivityCSV(&buf, seqOf(entries, nil))

	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	expected := "id,created_at,user_id,activity_type,description,amount,balance_before,balance_after,related_id,metadata\n" +
		"2,2024-03-01T12:00:00Z,u1,withdrawal,\"Withdrawal via bank, fee included\",-50.00,100.00,50.00," + related + ",\"{\"\"method\"\":\"\"bank\"\"}\"\n" +
		"1,2024-02-01T09:30:00Z,u1,credit,Campaign payout,100.00,0.00,100.00,,\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteActivityCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	rows, err := WriteActivityCSV(&buf, seqOf(nil, nil))

	require.NoError(t, err)
	assert.Zero(t, rows)
	assert.Equal(t, "id,created_at,user_id,activity_type,description,amount,balance_before,balance_after,related_id,metadata\n", buf.String())
}

func TestWriteActivityCSV_SequenceError(t *testing.T) {
	boom := errors.New("connection reset")
	entries := []*models.ActivityLogEntry{{ID: 1, UserID: "u1", ActivityType: models.ActivityTypeCredit, Amount: decimal.NewFromInt(1)}}

	var buf bytes.Buffer
	rows, err := WriteActivityCSV(&buf, seqOf(entries, boom))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, rows)
}
