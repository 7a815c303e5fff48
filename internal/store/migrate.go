package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

// ErrMigration marks a failed legacy-schema upgrade. Migration failures
// are fatal: a partially migrated file would corrupt the dataset, so no
// other operation runs until the error is resolved.
var ErrMigration = errors.New("ledger migration failed")

// legacyColumns is the pre-id on-disk schema.
var legacyColumns = []string{"date", "amount", "category", "description"}

// migrateLegacy upgrades a file whose header lacks the id column:
// the original file is copied to <path>.backup first, then every row is
// assigned a sequential id (1..n, in file order) and the file is
// rewritten under the current schema.
func (s *Store) migrateLegacy() error {
	logger := s.logger.WithComponent(log.ComponentMigration)

	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: open: %v", ErrMigration, err)
	}
	records, err := csv.NewReader(f).ReadAll()
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: read: %v", ErrMigration, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: empty file with unknown header", ErrMigration)
	}
	if len(records[0]) != len(legacyColumns) {
		return fmt.Errorf("%w: unrecognized header %v", ErrMigration, records[0])
	}

	ts := make([]core.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(legacyColumns) {
			return fmt.Errorf("%w: row %d has %d fields", ErrMigration, i+2, len(rec))
		}
		t, err := core.NewTransaction(int64(i+1), rec[0], rec[1], rec[2], rec[3])
		if err != nil {
			return fmt.Errorf("%w: row %d: %v", ErrMigration, i+2, err)
		}
		ts = append(ts, t)
	}

	// Back up before touching the original.
	backupPath := s.path + ".backup"
	if err := copyFile(s.path, backupPath); err != nil {
		return fmt.Errorf("%w: backup: %v", ErrMigration, err)
	}

	if err := s.rewrite(ts); err != nil {
		return fmt.Errorf("%w: rewrite: %v", ErrMigration, err)
	}

	logger.Info("ledger migrated to id schema",
		log.FieldOperation, log.OpMigrate,
		log.FieldRows, len(ts),
		log.FieldBackupPath, backupPath)
	return nil
}
