package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupToExplicitPath(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "01-01-2026", "100", "Income", "Salary")
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "snapshot.csv")
	used, err := s.Backup(ctx, dst)
	require.NoError(t, err)
	assert.Equal(t, dst, used)

	src, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, src, got, "backup must be a byte-for-byte copy")
}

func TestBackupGeneratesTimestampedPath(t *testing.T) {
	s := newTestStore(t)

	used, err := s.Backup(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(used, s.Path()+".backup_"), "got %s", used)

	_, err = os.Stat(used)
	require.NoError(t, err)
}

func TestBackupDoesNotMutateSource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "01-01-2026", "100", "Income", "Salary")
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	_, err = s.Backup(ctx, "")
	require.NoError(t, err)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
