package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxUnitAmount is the largest amount, in minor units, the payment processor
// accepts for a single unit.
const MaxUnitAmount int64 = 99999999

var maxUnitAmount = decimal.NewFromInt(MaxUnitAmount)

// ParseAmount parses a decimal string such as "25.99". Negative, non-numeric
// and values above MaxUnitAmount once rounded are rejected.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, NewValidationError(field, "is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError(field, "invalid decimal %q", raw)
	}
	if d.IsNegative() {
		return decimal.Zero, NewValidationError(field, "must not be negative, got %s", raw)
	}
	if d.RoundBank(2).Shift(2).GreaterThan(maxUnitAmount) {
		return decimal.Zero, NewValidationError(field, "must not exceed %s, got %s", FormatMinorUnits(MaxUnitAmount), raw)
	}
	return d, nil
}

// ToMinorUnits rounds half-even to two places and returns the amount in cents.
// d must already be bounded by ParseAmount.
func ToMinorUnits(d decimal.Decimal) int64 {
	return d.RoundBank(2).Shift(2).IntPart()
}

// FormatMinorUnits renders cents as a two-place decimal string.
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
