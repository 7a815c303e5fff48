// Package storage provides the SQLite-backed ledger. It honors the same
// contract as the CSV store: validation at the boundary, monotonically
// increasing ids that are never reused, and order-preserving reads.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

type SQLiteRepository struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStorage)
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Add validates the raw fields and inserts one row. AUTOINCREMENT keeps
// ids strictly increasing, so a deleted id is never handed out again.
func (r *SQLiteRepository) Add(ctx context.Context, date, amount, category, description string) (core.Transaction, error) {
	t, err := core.NewTransaction(0, date, amount, category, description)
	if err != nil {
		return core.Transaction{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (date, amount, category, description) VALUES (?, ?, ?, ?)`,
		t.Date.String(), t.Amount.String(), string(t.Category), t.Description)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id

	r.logger.Info("transaction added",
		log.FieldOperation, log.OpAdd,
		log.FieldTransactionID, t.ID,
		log.FieldCategory, t.Category.String())
	return t, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (core.Transaction, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount, category, description FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return core.Transaction{}, false, nil
	}
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, true, nil
}

// GetAll returns every row ordered by id, which matches insertion order.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, category, description FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var ts []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}

// Update patches the stored row, re-validates and writes back only when
// the result is valid. A missing id or a failed validation both report
// false with the prior state retained.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch core.Patch) (bool, error) {
	cur, found, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	date, amount, category, description := patch.Apply(cur)
	updated, err := core.NewTransaction(id, date, amount, category, description)
	if err != nil {
		r.logger.Warn("update rejected",
			log.FieldOperation, log.OpUpdate,
			log.FieldTransactionID, id,
			log.FieldError, err.Error())
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE transactions SET date = ?, amount = ?, category = ?, description = ? WHERE id = ?`,
		updated.Date.String(), updated.Amount.String(), string(updated.Category), updated.Description, id)
	if err != nil {
		return false, fmt.Errorf("update transaction: %w", err)
	}
	return true, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// Query loads the full dataset and filters in memory so that filter
// semantics stay identical across backends.
func (r *SQLiteRepository) Query(ctx context.Context, f core.Filter) ([]core.Transaction, error) {
	ts, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(ts), nil
}

// Backup copies the database file to path, or to a timestamped sibling
// path when none is supplied.
func (r *SQLiteRepository) Backup(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.backup_%s", r.path, time.Now().Format("20060102_150405"))
	}
	src, err := os.ReadFile(r.path)
	if err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	if err := os.WriteFile(path, src, 0644); err != nil {
		return "", fmt.Errorf("backup database: %w", err)
	}
	r.logger.Info("database backed up",
		log.FieldOperation, log.OpBackup,
		log.FieldBackupPath, path)
	return path, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		id                           int64
		date, amount, category, desc string
	)
	if err := row.Scan(&id, &date, &amount, &category, &desc); err != nil {
		return core.Transaction{}, err
	}
	// Stored rows are re-validated on the way out, same as CSV reads.
	return core.NewTransaction(id, date, amount, category, desc)
}
