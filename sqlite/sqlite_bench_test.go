package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// This simulates saving every table of a large filing.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkTableInserts(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkTableInserts(b, true)
	})
}

func benchmarkTableInserts(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")

	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	mode := "DELETE"
	if useWAL {
		mode = "WAL"
	}
	_, err := db.ExecContext(ctx, "PRAGMA journal_mode = "+mode)
	require.NoError(b, err)

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	svc := sqlite.NewTableService(db)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		table := benchTable(i)
		if err := svc.CreateTable(ctx, table); err != nil {
			b.Fatal(err)
		}
	}
}

func benchTable(n int) *tablex.Table {
	table := &tablex.Table{
		Label:          fmt.Sprintf("table-%d", n),
		Source:         "bench.html",
		Mode:           tablex.ModeXBRL,
		OriginalMarkup: fmt.Sprintf("<table id=%d></table>", n),
		Headers:        tablex.SyntheticHeaders(4, true),
	}
	for r := 0; r < 40; r++ {
		table.Rows = append(table.Rows, []tablex.Cell{
			tablex.TaggedCell(fmt.Sprintf("item %d", r), "", nil),
			tablex.TaggedCell("", "", nil),
			tablex.TaggedCell(fmt.Sprintf("%d,000", r), fmt.Sprintf("jppfs_cor:Item%d", r), nil),
			tablex.TaggedCell(fmt.Sprintf("%d,500", r), fmt.Sprintf("jppfs_cor:Item%d", r), nil),
		})
	}
	return table
}
