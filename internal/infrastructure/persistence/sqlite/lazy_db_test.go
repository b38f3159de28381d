package sqlite_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/comet/internal/infrastructure/persistence/sqlite"
)

func TestLazyDB_OpensOnFirstAccess(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "comet.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	assert.False(t, lazy.IsInitialized())

	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	assert.True(t, lazy.IsInitialized())

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('settings', 'meta')`).Scan(&tables))
	assert.Equal(t, 2, tables)
}

func TestLazyDB_ConcurrentCallersShareConnection(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "comet.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	const callers = 8
	got := make([]any, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			db, err := lazy.DB(ctx)
			assert.NoError(t, err)
			got[i] = db
		}()
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		assert.Same(t, got[0], got[i])
	}
}

func TestLazyDB_RetriesAfterFailedOpen(t *testing.T) {
	ctx := testCtx()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o600))

	lazy := sqlite.NewLazyDB(filepath.Join(blocker, "comet.db"))
	t.Cleanup(func() { _ = lazy.Close() })

	_, err := lazy.DB(ctx)
	require.Error(t, err)
	assert.False(t, lazy.IsInitialized())

	require.NoError(t, os.Remove(blocker))
	_, err = lazy.DB(ctx)
	require.NoError(t, err)
	assert.True(t, lazy.IsInitialized())
}

func TestLazyDB_Close(t *testing.T) {
	ctx := testCtx()

	unopened := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "comet.db"))
	assert.NoError(t, unopened.Close())

	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), "comet.db"))
	_, err := lazy.DB(ctx)
	require.NoError(t, err)
	require.NoError(t, lazy.Close())
	assert.False(t, lazy.IsInitialized())

	_, err = lazy.DB(ctx)
	assert.ErrorIs(t, err, sqlite.ErrClosed)
}

func TestLazyDB_Path(t *testing.T) {
	assert.Equal(t, "/var/lib/comet/comet.db", sqlite.NewLazyDB("/var/lib/comet/comet.db").Path())
}

func TestDSN(t *testing.T) {
	dsn := sqlite.DSN("/home/me/.local/share/comet/comet.db")

	assert.Contains(t, dsn, "file:/home/me/.local/share/comet/comet.db?")
	assert.Contains(t, dsn, "_pragma=busy_timeout%285000%29")
	assert.Contains(t, dsn, "_pragma=journal_mode%28wal%29")
	assert.Contains(t, dsn, "_txlock=immediate")

	assert.Contains(t, sqlite.DSN("/tmp/a b/comet.db"), "file:/tmp/a%20b/comet.db?")
}
