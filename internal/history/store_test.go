package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), ".autojournal-cache", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(ref string) Record {
	return Record{
		Reference:   ref,
		SourceFile:  "chase_checking.csv",
		BankAccount: "1010",
		Date:        time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("-4.00"),
		Kind:        "expense",
		EntryID:     "2025-01-001",
		ImportedAt:  time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "cache", "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, path, s.Path())
	assert.FileExists(t, path)
}

func TestRecordAndIsPosted(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	posted, err := s.IsPosted(ctx, "chase_20250103_GITHUBPROS")
	require.NoError(t, err)
	assert.False(t, posted)

	require.NoError(t, s.Record(ctx, sampleRecord("chase_20250103_GITHUBPROS")))

	posted, err = s.IsPosted(ctx, "chase_20250103_GITHUBPROS")
	require.NoError(t, err)
	assert.True(t, posted)
}

func TestRecord_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Record(ctx, sampleRecord("ref-1")))
	err := s.Record(ctx, sampleRecord("ref-1"))
	assert.ErrorIs(t, err, ErrAlreadyRecorded)

	n, err := s.FileEntries(ctx, "chase_checking.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "rolled-back insert does not bump totals")
}

func TestTransaction_RollbackFailureKeepsCause(t *testing.T) {
	s := openTestStore(t)

	err := s.transaction(context.Background(), func(tx *sql.Tx) error {
		require.NoError(t, tx.Rollback())
		return fmt.Errorf("%w: ref-1", ErrAlreadyRecorded)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyRecorded)
	assert.ErrorIs(t, err, sql.ErrTxDone)
	assert.Contains(t, err.Error(), "rollback failed")
}

func TestRecords_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	later := sampleRecord("ref-b")
	later.Date = time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	later.Kind = "transfer"
	later.EntryID = ""
	later.Amount = decimal.RequireFromString("-500")

	require.NoError(t, s.Record(ctx, later))
	require.NoError(t, s.Record(ctx, sampleRecord("ref-a")))

	recs, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "ref-a", first.Reference, "ordered by date")
	assert.Equal(t, "1010", first.BankAccount)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-4")))
	assert.Equal(t, "2025-01-001", first.EntryID)
	assert.True(t, first.ImportedAt.Equal(time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC)))

	assert.Equal(t, "transfer", recs[1].Kind)
	assert.Empty(t, recs[1].EntryID)
}

func TestRecord_DefaultsImportedAt(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	rec := sampleRecord("ref-now")
	rec.ImportedAt = time.Time{}
	require.NoError(t, s.Record(ctx, rec))

	recs, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].ImportedAt.Equal(fixed))
}

func TestFileEntries(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	n, err := s.FileEntries(ctx, "chase_checking.csv")
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, ref := range []string{"a", "b", "c"} {
		require.NoError(t, s.Record(ctx, sampleRecord(ref)))
	}
	n, err = s.FileEntries(ctx, "chase_checking.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestReopenKeepsHistory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, sampleRecord("persisted")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	posted, err := s.IsPosted(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, posted)
}

func TestRecord_ConcurrentSameReference(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var wg sync.WaitGroup
	results := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Record(ctx, sampleRecord("race"))
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 1, succeeded)
}
