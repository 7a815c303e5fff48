package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter is a combination of optional predicates over transactions.
// Nil or zero fields are no-ops; the rest combine with logical AND.
type Filter struct {
	StartDate *Date
	EndDate   *Date
	Category  *Category
	// Description is a case-insensitive substring test. Empty means no
	// filtering; a row with an empty description never matches a
	// non-empty term.
	Description string
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
}

// Matches reports whether t satisfies every supplied predicate.
// Date and amount bounds are inclusive; dates compare as parsed
// calendar dates, not as text.
func (f Filter) Matches(t Transaction) bool {
	if f.StartDate != nil && t.Date.Before(f.StartDate.Time) {
		return false
	}
	if f.EndDate != nil && t.Date.After(f.EndDate.Time) {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Description != "" &&
		!strings.Contains(strings.ToLower(t.Description), strings.ToLower(f.Description)) {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

// Apply returns the matching transactions in their original order.
// No matches yields an empty slice, never an error.
func (f Filter) Apply(ts []Transaction) []Transaction {
	out := make([]Transaction, 0, len(ts))
	for _, t := range ts {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
