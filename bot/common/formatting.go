package common

import (
	"fmt"
	"strings"
	"time"

	"rewards/models"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as dollars with thousand separators, e.g. "$1,234.50"
func FormatMoney(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}

	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	n := len(whole)
	var result strings.Builder
	for i, digit := range whole {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return fmt.Sprintf("%s$%s.%s", sign, result.String(), cents)
}

// FormatSignedMoney always shows the sign, e.g. "+$5.00" or "-$2.50"
func FormatSignedMoney(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatMoney(amount)
	}
	return FormatMoney(amount)
}

// FormatStatus renders a withdrawal status with an indicator emoji
func FormatStatus(status models.WithdrawalStatus) string {
	switch status {
	case models.WithdrawalStatusPending:
		return "⏳ Pending"
	case models.WithdrawalStatusApproved:
		return "👍 Approved"
	case models.WithdrawalStatusRejected:
		return "🚫 Rejected"
	case models.WithdrawalStatusCompleted:
		return "✅ Completed"
	default:
		return string(status)
	}
}

// ShortID returns the first block of a UUID for compact display
func ShortID(id fmt.Stringer) string {
	s := id.String()
	if head, _, ok := strings.Cut(s, "-"); ok {
		return head
	}
	return s
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
