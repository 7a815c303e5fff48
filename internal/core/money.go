// Package core defines the transaction model, its validation rules and
// the aggregation computed over transaction sets.
//
// This file contains amount parsing and formatting. Amounts are exact
// decimals; float arithmetic is never used for ledger math.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string into a strictly positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Zero, negative and non-numeric input fail with ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders an amount with two decimal places and an optional
// currency symbol. This is for display only; persisted amounts keep
// their original precision.
func FormatAmount(d decimal.Decimal, symbol string) string {
	return symbol + d.StringFixed(2)
}
