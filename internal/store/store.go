// Package store implements the CSV-backed ledger: whole-dataset
// load/rewrite primitives, identifier allocation and CRUD. Every
// mutation is a read-all, compute-in-memory, write-all sequence; the
// design assumes a single process and a single user, and trades write
// efficiency for simplicity at personal-ledger scale.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// Store is a ledger persisted as a single flat CSV file with the fixed
// header id,date,amount,category,description.
type Store struct {
	path   string
	logger *log.Logger
	// lastID is the largest id ever observed, including rows deleted
	// since. The allocator never goes below it, so freed ids are not
	// reassigned.
	lastID int64
}

// New opens (or creates) the ledger file at path and runs the legacy
// migration if the persisted header predates the id column. No other
// operation proceeds before initialization completes.
func New(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	s := &Store{path: path, logger: logger}
	if err := s.initialize(); err != nil {
		return nil, err
	}
	// Seed the id high-water mark from the persisted rows. A file that
	// fails validation is rejected here rather than on first use.
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initialize() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return s.writeHeader()
	}
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		// Truly empty content counts as an empty dataset.
		return s.writeHeader()
	}
	if err != nil {
		return fmt.Errorf("read ledger header: %w", err)
	}
	if len(header) > 0 && header[0] == core.Columns[0] {
		return nil
	}
	return s.migrateLegacy()
}

func (s *Store) writeHeader() error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return s.rewrite(nil)
}

// load reads and re-validates the whole dataset. A missing file yields
// an empty dataset; a malformed row aborts the read.
func (s *Store) load() ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	ts := make([]core.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := core.TransactionFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("ledger row %d: %w", i+2, err)
		}
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
		ts = append(ts, t)
	}
	return ts, nil
}

// rewrite replaces the whole file: header plus one row per transaction,
// in slice order.
func (s *Store) rewrite(ts []core.Transaction) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewrite ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(core.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range ts {
		if err := w.Write(t.Record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush ledger: %w", err)
	}
	return f.Close()
}

// NextID returns one past the largest id the store has ever held, or 1
// for a store that never held a row. The mark only moves up: deleting
// the row carrying the maximum does not free its id. The rows are
// rescanned first so ids appended by another writer are not collided
// with either.
func (s *Store) NextID(ctx context.Context) (int64, error) {
	if _, err := s.load(); err != nil {
		return 0, err
	}
	return s.lastID + 1, nil
}

// Add validates the raw fields, allocates a fresh id and appends a
// single row. No existing row is rewritten.
func (s *Store) Add(ctx context.Context, date, amount, category, description string) (core.Transaction, error) {
	t, err := core.NewTransaction(0, date, amount, category, description)
	if err != nil {
		return core.Transaction{}, err
	}
	id, err := s.NextID(ctx)
	if err != nil {
		return core.Transaction{}, err
	}
	t.ID = id

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("append to ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Record()); err != nil {
		return core.Transaction{}, fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return core.Transaction{}, fmt.Errorf("flush row: %w", err)
	}
	if err := f.Close(); err != nil {
		return core.Transaction{}, fmt.Errorf("close ledger: %w", err)
	}
	s.lastID = t.ID

	s.logger.Info("transaction added",
		log.FieldOperation, log.OpAdd,
		log.FieldTransactionID, t.ID,
		log.FieldDate, t.Date.String(),
		log.FieldAmount, t.Amount.String(),
		log.FieldCategory, t.Category.String())
	return t, nil
}

// GetByID returns the matching transaction, or found=false when the id
// is absent. Absence is a normal result, not an error.
func (s *Store) GetByID(ctx context.Context, id int64) (core.Transaction, bool, error) {
	ts, err := s.load()
	if err != nil {
		return core.Transaction{}, false, err
	}
	for _, t := range ts {
		if t.ID == id {
			return t, true, nil
		}
	}
	return core.Transaction{}, false, nil
}

// GetAll returns every row in file order.
func (s *Store) GetAll(ctx context.Context) ([]core.Transaction, error) {
	return s.load()
}

// Update applies the supplied field replacements to the row with the
// given id, re-validates the result and rewrites the whole file. It
// returns false both when the id does not exist and when the patched
// row fails validation; in either case the prior state is retained.
func (s *Store) Update(ctx context.Context, id int64, patch core.Patch) (bool, error) {
	ts, err := s.load()
	if err != nil {
		return false, err
	}
	idx := -1
	for i, t := range ts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	date, amount, category, description := patch.Apply(ts[idx])
	updated, err := core.NewTransaction(id, date, amount, category, description)
	if err != nil {
		s.logger.Warn("update rejected",
			log.FieldOperation, log.OpUpdate,
			log.FieldTransactionID, id,
			log.FieldError, err.Error())
		return false, nil
	}

	ts[idx] = updated
	if err := s.rewrite(ts); err != nil {
		return false, err
	}
	s.logger.Info("transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldTransactionID, id)
	return true, nil
}

// Delete removes the row with the given id and rewrites the remaining
// rows in order. The freed id is never reassigned.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	ts, err := s.load()
	if err != nil {
		return false, err
	}
	kept := make([]core.Transaction, 0, len(ts))
	for _, t := range ts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(ts) {
		return false, nil
	}
	if err := s.rewrite(kept); err != nil {
		return false, err
	}
	s.logger.Info("transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldTransactionID, id)
	return true, nil
}

// Query filters the full dataset. Zero matches yield an empty slice.
func (s *Store) Query(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	ts, err := s.load()
	if err != nil {
		return nil, err
	}
	return f.Apply(ts), nil
}
