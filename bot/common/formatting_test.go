package common

import (
	"testing"

	"rewards/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected string
	}{
		{"zero", "0", "$0.00"},
		{"cents", "0.5", "$0.50"},
		{"below a thousand", "999.99", "$999.99"},
		{"thousands", "1234.5", "$1,234.50"},
		{"millions", "1234567", "$1,234,567.00"},
		{"negative", "-45", "-$45.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMoney(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatSignedMoney(t *testing.T) {
	assert.Equal(t, "+$5.00", FormatSignedMoney(decimal.NewFromInt(5)))
	assert.Equal(t, "-$2.50", FormatSignedMoney(decimal.RequireFromString("-2.5")))
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "⏳ Pending", FormatStatus(models.WithdrawalStatusPending))
	assert.Equal(t, "unknown", FormatStatus("unknown"))
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("3f2b8c1a-0000-4000-8000-000000000000")
	assert.Equal(t, "3f2b8c1a", ShortID(id))
}
