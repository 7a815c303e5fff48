package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the fixed pattern every persisted date uses (DD-MM-YYYY).
const DateFormat = "02-01-2006"

// Columns is the fixed on-disk column order of the ledger file.
var Columns = []string{"id", "date", "amount", "category", "description"}

const (
	Income  Category = "Income"
	Expense Category = "Expense"
)

type (
	// Category is the closed set of transaction kinds.
	Category string

	// Date is a calendar date without a time-of-day or timezone component.
	Date struct {
		time.Time
	}

	// Transaction is the sole persisted entity of the ledger.
	Transaction struct {
		ID          int64
		Date        Date
		Amount      decimal.Decimal
		Category    Category
		Description string
	}

	// Patch carries optional raw-text field replacements for an update.
	// Nil fields keep the current value.
	Patch struct {
		Date        *string
		Amount      *string
		Category    *string
		Description *string
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
)

// ParseDate parses a date in DateFormat. Anything else is ErrInvalidDate.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar date.
func Today() Date {
	y, m, d := time.Now().Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ParseCategory maps text onto the closed enumeration.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case Income, Expense:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// NewTransaction builds a Transaction from raw text fields, running the
// same validation the store applies on every mutation. A Transaction
// value obtained here is valid at the moment of construction.
func NewTransaction(id int64, date, amount, category, description string) (Transaction, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Transaction{}, err
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return Transaction{}, err
	}
	c, err := ParseCategory(category)
	if err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:          id,
		Date:        d,
		Amount:      a,
		Category:    c,
		Description: description,
	}, nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// Record encodes the transaction as the five fixed columns, in order.
func (t Transaction) Record() []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		t.Date.String(),
		t.Amount.String(),
		string(t.Category),
		t.Description,
	}
}

// TransactionFromRecord decodes one on-disk row, re-validating every
// field. Rows come from a file that may have been edited externally, so
// nothing read from disk is trusted.
func TransactionFromRecord(rec []string) (Transaction, error) {
	if len(rec) != len(Columns) {
		return Transaction{}, fmt.Errorf("expected %d fields, got %d", len(Columns), len(rec))
	}
	id, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
	if err != nil || id <= 0 {
		return Transaction{}, fmt.Errorf("invalid id %q", rec[0])
	}
	return NewTransaction(id, rec[1], rec[2], rec[3], rec[4])
}

// Apply produces the raw-text fields of the patched transaction. The
// caller re-validates the result before persisting anything.
func (p Patch) Apply(cur Transaction) (date, amount, category, description string) {
	date = cur.Date.String()
	amount = cur.Amount.String()
	category = string(cur.Category)
	description = cur.Description
	if p.Date != nil {
		date = *p.Date
	}
	if p.Amount != nil {
		amount = *p.Amount
	}
	if p.Category != nil {
		category = *p.Category
	}
	if p.Description != nil {
		description = *p.Description
	}
	return date, amount, category, description
}
