package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a decimal string and rounds it half-up to AmountScale places.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return NormalizeAmount(d), nil
}

// NormalizeAmount rounds d half-up to AmountScale places.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts the simulator works with.
func NormalizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountScale)
}

// FormatAmount renders d with exactly AmountScale decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountScale)
}

// StartingBalance returns amount scaled by multiplier, the way starting
// balances are derived from the transfer amount.
func StartingBalance(amount decimal.Decimal, multiplier int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(multiplier))
}
