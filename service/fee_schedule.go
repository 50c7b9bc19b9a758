package service

import (
	"fmt"

	"rewards/config"
	"rewards/models"

	"github.com/shopspring/decimal"
)

// RateFeeSchedule charges a per-method percentage of the amount, rounded to
// cents, with a per-method flat minimum
type RateFeeSchedule struct {
	rules map[models.WithdrawalMethod]config.FeeRule
}

// NewRateFeeSchedule builds a schedule from configured rules keyed by method name
func NewRateFeeSchedule(rules map[string]config.FeeRule) *RateFeeSchedule {
	schedule := &RateFeeSchedule{rules: make(map[models.WithdrawalMethod]config.FeeRule, len(rules))}
	for method, rule := range rules {
		schedule.rules[models.WithdrawalMethod(method)] = rule
	}
	return schedule
}

// Fee returns the processing fee for a withdrawal of amount via method
func (s *RateFeeSchedule) Fee(method models.WithdrawalMethod, amount decimal.Decimal) (decimal.Decimal, error) {
	rule, ok := s.rules[method]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no fee rule for method %q", models.ErrValidation, method)
	}

	fee := amount.Mul(rule.Rate).Round(MoneyScale)
	if fee.LessThan(rule.Minimum) {
		fee = rule.Minimum
	}
	return fee, nil
}

// FeeScheduleFunc adapts a plain function to FeeSchedule
type FeeScheduleFunc func(method models.WithdrawalMethod, amount decimal.Decimal) (decimal.Decimal, error)

// Fee calls f(method, amount)
func (f FeeScheduleFunc) Fee(method models.WithdrawalMethod, amount decimal.Decimal) (decimal.Decimal, error) {
	return f(method, amount)
}
