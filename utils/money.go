package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a currency amount expressed in major units
// (e.g. "149.50") to integer cents. Sub-cent precision is rejected rather
// than rounded so the ledger never stores an amount the caller didn't send.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() || d.IsZero() {
		return 0, fmt.Errorf("amount must be positive, got %s", s)
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders integer cents as a major-unit decimal string.
func FormatAmount(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
