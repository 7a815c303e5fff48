package backend

import (
	"context"

	"fintrack/internal/core"
)

// Ledger is the contract both persistence backends satisfy. Front ends
// and the interchange layer talk to the ledger exclusively through it.
type Ledger interface {
	// Add validates the raw fields, allocates a fresh id and persists
	// one transaction. Ids are unique and strictly increasing over the
	// ledger's lifetime.
	Add(ctx context.Context, date, amount, category, description string) (core.Transaction, error)
	// GetByID reports found=false for an absent id; absence is not an
	// error.
	GetByID(ctx context.Context, id int64) (core.Transaction, bool, error)
	// GetAll returns every transaction in insertion order.
	GetAll(ctx context.Context) ([]core.Transaction, error)
	// Update applies a partial patch, re-validating the result. It
	// reports false when the id is unknown or the patched row is
	// invalid; either way the prior state is retained.
	Update(ctx context.Context, id int64, patch core.Patch) (bool, error)
	// Delete removes a row; the freed id is never reassigned.
	Delete(ctx context.Context, id int64) (bool, error)
	// Query filters the full dataset, preserving order.
	Query(ctx context.Context, f core.Filter) ([]core.Transaction, error)
	// Backup copies the backing file to path (or a generated
	// timestamped path when empty) and returns the path used.
	Backup(ctx context.Context, path string) (string, error)
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the ledger instance and optional cleanup function
type Result struct {
	Ledger  Ledger
	Cleanup CleanupFunc
}

// Type represents the kind of persistence backend
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// CSV specific
	CSVPath string

	// SQLite specific
	SQLiteDBPath string
}
