package service

import (
	"errors"
	"fmt"
	"strings"

	"rewards/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places stored for every amount
const MoneyScale = 2

var validate = validator.New(validator.WithRequiredStructEnabled())

type adjustInput struct {
	UserID  string `validate:"required,max=64"`
	Reason  string `validate:"required,max=500"`
	ActorID string `validate:"required,max=64"`
}

type creditInput struct {
	UserID      string `validate:"required,max=64"`
	Description string `validate:"required,max=500"`
}

type withdrawalInput struct {
	UserID string `validate:"required,max=64"`
	Method string `validate:"required,oneof=bank card paypal"`
}

type transitionInput struct {
	Target  string `validate:"required,oneof=pending approved rejected completed"`
	ActorID string `validate:"required,max=64"`
}

// validateInput runs struct tag validation and reports failures as ErrValidation
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
}

// validateScale rejects amounts with more precision than the ledger stores
func validateScale(amount decimal.Decimal, field string) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w: %s %s has more than %d decimal places", models.ErrValidation, field, amount, MoneyScale)
	}
	return nil
}

// ParseAmount parses an admin-entered magnitude such as "12.50". It rejects
// non-numeric and non-finite input, zero or negative values, and more than two
// decimal places.
func ParseAmount(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", models.ErrValidation)
	}

	switch strings.ToLower(strings.TrimLeft(trimmed, "+-")) {
	case "nan", "inf", "infinity":
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a finite number", models.ErrValidation, raw)
	}

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", models.ErrValidation, raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero", models.ErrValidation)
	}
	if err := validateScale(amount, "amount"); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}
