package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"fintrack/internal/log"
)

const backupTimestampFormat = "20060102_150405"

// Backup copies the backing file byte-for-byte to path, or to
// <file>.backup_<timestamp> when path is empty, and returns the path
// used. The source is never mutated.
func (s *Store) Backup(ctx context.Context, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s.backup_%s", s.path, time.Now().Format(backupTimestampFormat))
	}
	if err := copyFile(s.path, path); err != nil {
		return "", fmt.Errorf("backup ledger: %w", err)
	}
	s.logger.Info("ledger backed up",
		log.FieldOperation, log.OpBackup,
		log.FieldBackupPath, path)
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
