package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_Open(t *testing.T) {
	t.Parallel()

	pragma := func(t *testing.T, db *sqlite.DB, name string) string {
		t.Helper()
		var value string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA "+name).Scan(&value))
		return value
	}

	t.Run("migrates schema in memory", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)

		var names []string
		rows, err := db.QueryContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name")
		require.NoError(t, err)
		defer rows.Close()
		for rows.Next() {
			var name string
			require.NoError(t, rows.Scan(&name))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())

		assert.Equal(t, []string{"statements", "table_tags", "tables"}, names)
		assert.Equal(t, "1", pragma(t, db, "foreign_keys"))
		assert.Equal(t, "memory", pragma(t, db, "journal_mode"))
	})

	t.Run("uses WAL on disk and reopens existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "tablex.db")
		first := sqlite.NewDB(path)
		require.NoError(t, first.Open())
		assert.Equal(t, "wal", pragma(t, first, "journal_mode"))
		_, err := sqlite.NewTableService(first).FindTables(context.Background(), tablex.TableFilter{})
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second := sqlite.NewDB(path)
		require.NoError(t, second.Open())
		t.Cleanup(func() { second.Close() })
		assert.Equal(t, "5000", pragma(t, second, "busy_timeout"))
	})

	t.Run("fails when directory is missing", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "missing", "tablex.db"))

		assert.Error(t, db.Open())
		assert.NoError(t, db.Close())
	})
}

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(sqlite.MemoryPath)
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}
