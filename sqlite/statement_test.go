package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balanceSheet() *tablex.Statement {
	return &tablex.Statement{
		Metadata: tablex.StatementMetadata{
			ReportType: "貸借対照表",
			Unit:       "百万円",
			Periods:    tablex.Periods{Previous: "前期", Current: "当期"},
		},
		Data: []*tablex.Node{
			{
				ItemName:       "資産の部",
				Level:          1,
				PreviousPeriod: tablex.NumberValue(350),
				CurrentPeriod:  tablex.NumberValue(290),
				Children: []*tablex.Node{
					{
						ItemName:       "現金及び預金",
						Level:          2,
						XBRLTag:        "jppfs_cor:CashAndDeposits",
						PreviousPeriod: tablex.NumberValue(100),
						CurrentPeriod:  tablex.TextValue("-"),
						Children:       []*tablex.Node{},
					},
				},
			},
		},
		Annotations: map[string]string{"※1": "注記を参照"},
	}
}

func TestStatementService(t *testing.T) {
	t.Parallel()

	t.Run("stores and finds the latest statement", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		tables := sqlite.NewTableService(db)
		svc := sqlite.NewStatementService(db)
		ctx := context.Background()
		table := createTable(t, tables, xbrlTable("table-1"))

		first := &tablex.StoredStatement{TableID: table.ID, Statement: &tablex.Statement{}}
		require.NoError(t, svc.CreateStatement(ctx, first))
		second := &tablex.StoredStatement{TableID: table.ID, Statement: balanceSheet()}
		require.NoError(t, svc.CreateStatement(ctx, second))
		assert.NotEmpty(t, second.ID)
		assert.False(t, second.CreatedAt.IsZero())

		found, err := svc.FindStatementByTableID(ctx, table.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, found.ID)
		assert.Equal(t, balanceSheet(), found.Statement)
	})

	t.Run("rejects statements for missing tables", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewStatementService(setupTestDB(t))

		err := svc.CreateStatement(context.Background(), &tablex.StoredStatement{
			TableID:   "missing",
			Statement: balanceSheet(),
		})

		assert.Equal(t, tablex.ENOTFOUND, tablex.ErrorCode(err))
	})

	t.Run("rejects incomplete statements", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewStatementService(setupTestDB(t))
		ctx := context.Background()

		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(svc.CreateStatement(ctx, &tablex.StoredStatement{Statement: balanceSheet()})))
		assert.Equal(t, tablex.EINVALID, tablex.ErrorCode(svc.CreateStatement(ctx, &tablex.StoredStatement{TableID: "x"})))
	})

	t.Run("returns not found without statements", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewStatementService(setupTestDB(t))

		_, err := svc.FindStatementByTableID(context.Background(), "missing")

		assert.Equal(t, tablex.ENOTFOUND, tablex.ErrorCode(err))
	})
}
