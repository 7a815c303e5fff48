package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/config"
)

func TestOpenCSVBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.Open(context.Background(), Config{
		Type:    CSVBackend,
		CSVPath: filepath.Join(t.TempDir(), "finance_data.csv"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ledger)
	assert.Nil(t, res.Cleanup)

	tr, err := res.Ledger.Add(context.Background(), "01-01-2026", "10", "Income", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.ID)
}

func TestOpenSQLiteBackend(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.Open(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "finance_data.db"),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Ledger)
	require.NotNil(t, res.Cleanup)
	defer res.Cleanup()

	tr, err := res.Ledger.Add(context.Background(), "01-01-2026", "10", "Expense", "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tr.ID)
}

func TestOpenRejectsInvalidType(t *testing.T) {
	f := NewFactory(nil)
	_, err := f.Open(context.Background(), Config{Type: "sheets"})
	require.Error(t, err)
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "csv",
		DataFile:     "./data/finance_data.csv",
		SQLiteDBPath: "./data/finance_data.db",
	})
	require.NoError(t, err)
	assert.Equal(t, CSVBackend, cfg.Type)
	assert.Equal(t, "./data/finance_data.csv", cfg.CSVPath)

	_, err = FromAppConfig(&config.Config{DataBackend: "bogus"})
	require.Error(t, err)

	_, err = FromAppConfig(nil)
	require.Error(t, err)
}
