package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	s, err := New(path, nil)
	require.NoError(t, err)
	return s
}

func TestNewCreatesHeaderOnlyFile(t *testing.T) {
	s := newTestStore(t)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "id,date,amount,category,description\n", string(data))
}

func TestNewTreatsEmptyFileAsEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finance_data.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	s, err := New(path, nil)
	require.NoError(t, err)

	ts, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ts)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,date,amount,category,description\n", string(data))
}

func TestAddRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, "28-01-2026", "10.50", "Income", "Salary")
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.ID)

	got, found, err := s.GetByID(ctx, added.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, added.ID, got.ID)
	assert.Equal(t, "28-01-2026", got.Date.String())
	assert.True(t, got.Amount.Equal(added.Amount))
	assert.Equal(t, core.Income, got.Category)
	assert.Equal(t, "Salary", got.Description)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "2026-01-28", "10", "Income", "x")
	assert.ErrorIs(t, err, core.ErrInvalidDate)

	_, err = s.Add(ctx, "28-01-2026", "0", "Income", "x")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = s.Add(ctx, "28-01-2026", "10", "Savings", "x")
	assert.ErrorIs(t, err, core.ErrInvalidCategory)

	// Nothing may have been appended.
	ts, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ts)
}

func TestIDsArePairwiseDistinct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		tr, err := s.Add(ctx, "01-01-2026", "5", "Expense", "coffee")
		require.NoError(t, err)
		assert.False(t, seen[tr.ID], "id %d reused", tr.ID)
		seen[tr.ID] = true
	}
}

func TestDeletedIDsAreNeverReassigned(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "01-01-2026", "5", "Expense", "a")
	require.NoError(t, err)
	second, err := s.Add(ctx, "02-01-2026", "5", "Expense", "b")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, removed)

	next, err := s.Add(ctx, "03-01-2026", "5", "Expense", "c")
	require.NoError(t, err)
	assert.Greater(t, next.ID, second.ID, "ids must be strictly increasing over the store lifetime")
}

func TestNextIDDoesNotDropAfterDeletingMaximum(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Add(ctx, "01-01-2026", "5", "Expense", "a")
	require.NoError(t, err)
	second, err := s.Add(ctx, "02-01-2026", "5", "Expense", "b")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, second.ID)
	require.NoError(t, err)
	require.True(t, removed)

	id, err := s.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, id)

	next, err := s.Add(ctx, "03-01-2026", "5", "Expense", "c")
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, next.ID)
	assert.NotEqual(t, first.ID, next.ID)
}

func TestGetByIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, found, err := s.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetAllPreservesFileOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, desc := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, "01-01-2026", "1", "Income", desc)
		require.NoError(t, err)
	}

	ts, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, ts, 3)
	assert.Equal(t, "first", ts[0].Description)
	assert.Equal(t, "second", ts[1].Description)
	assert.Equal(t, "third", ts[2].Description)
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tr, err := s.Add(ctx, "01-01-2026", "100", "Income", "Salary")
	require.NoError(t, err)

	amount := "250"
	ok, err := s.Update(ctx, tr.ID, core.Patch{Amount: &amount})
	require.NoError(t, err)
	require.True(t, ok)

	got, found, err := s.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "250", got.Amount.String())
	assert.Equal(t, "01-01-2026", got.Date.String())
	assert.Equal(t, core.Income, got.Category)
	assert.Equal(t, "Salary", got.Description)
}

func TestUpdateIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tr, err := s.Add(ctx, "01-01-2026", "100", "Income", "Salary")
	require.NoError(t, err)

	bad := "-5"
	ok, err := s.Update(ctx, tr.ID, core.Patch{Amount: &bad})
	require.NoError(t, err)
	assert.False(t, ok, "invalid patch must be rejected")

	got, found, err := s.GetByID(ctx, tr.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "100", got.Amount.String(), "row must be unchanged after a rejected update")
}

func TestUpdateUnknownID(t *testing.T) {
	s := newTestStore(t)

	amount := "10"
	ok, err := s.Update(context.Background(), 99, core.Patch{Amount: &amount})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.Add(ctx, "01-01-2026", "1", "Income", "a")
	require.NoError(t, err)
	b, err := s.Add(ctx, "02-01-2026", "2", "Expense", "b")
	require.NoError(t, err)

	removed, err := s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete of the same id must report false")

	ts, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, b.ID, ts[0].ID)
}

func TestQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "01-01-2026", "100", "Income", "Salary")
	require.NoError(t, err)
	_, err = s.Add(ctx, "15-01-2026", "50", "Expense", "Rent")
	require.NoError(t, err)
	_, err = s.Add(ctx, "31-01-2026", "75", "Income", "Bonus")
	require.NoError(t, err)

	start, err := core.ParseDate("10-01-2026")
	require.NoError(t, err)
	end, err := core.ParseDate("20-01-2026")
	require.NoError(t, err)

	got, err := s.Query(ctx, core.Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rent", got[0].Description)

	// No matches is an empty result, not an error.
	got, err = s.Query(ctx, core.Filter{Description: "yacht"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadRejectsExternallyCorruptedRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Add(ctx, "01-01-2026", "1", "Income", "ok")
	require.NoError(t, err)

	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("2,01-01-2026,-3,Income,tampered\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = s.GetAll(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
}

func TestNextID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.Add(ctx, "01-01-2026", "1", "Income", "x")
	require.NoError(t, err)

	id, err = s.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)
}
