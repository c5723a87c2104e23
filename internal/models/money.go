package models

import (
	"github.com/shopspring/decimal"
)

// Money is a currency-agnostic amount in integer minor units (e.g. cents).
// It is stored and transported as an integer; display formatting goes
// through Decimal.
type Money int64

// NewMoneyFromDecimal converts a major-unit decimal amount to minor units.
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money(amount.Shift(2).Round(0).IntPart())
}

// Decimal returns the amount in major units with two decimal places.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -2)
}

// Display renders the amount as a fixed two-decimal string.
func (m Money) Display() string {
	return m.Decimal().StringFixed(2)
}
