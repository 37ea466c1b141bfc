package mock

import (
	"context"

	"github.com/fwojciec/tablex"
)

var _ tablex.TableService = (*TableService)(nil)

// TableService is a mock implementation of tablex.TableService.
type TableService struct {
	CreateTableFn   func(ctx context.Context, table *tablex.Table) error
	FindTableByIDFn func(ctx context.Context, id string) (*tablex.Table, error)
	FindTablesFn    func(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error)
	UpdateTableFn   func(ctx context.Context, id string, upd tablex.TableUpdate) (*tablex.Table, error)
	DeleteTableFn   func(ctx context.Context, id string) error
}

func (s *TableService) CreateTable(ctx context.Context, table *tablex.Table) error {
	return s.CreateTableFn(ctx, table)
}

func (s *TableService) FindTableByID(ctx context.Context, id string) (*tablex.Table, error) {
	return s.FindTableByIDFn(ctx, id)
}

func (s *TableService) FindTables(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
	return s.FindTablesFn(ctx, filter)
}

func (s *TableService) UpdateTable(ctx context.Context, id string, upd tablex.TableUpdate) (*tablex.Table, error) {
	return s.UpdateTableFn(ctx, id, upd)
}

func (s *TableService) DeleteTable(ctx context.Context, id string) error {
	return s.DeleteTableFn(ctx, id)
}

var _ tablex.StatementService = (*StatementService)(nil)

// StatementService is a mock implementation of tablex.StatementService.
type StatementService struct {
	CreateStatementFn        func(ctx context.Context, s *tablex.StoredStatement) error
	FindStatementByTableIDFn func(ctx context.Context, tableID string) (*tablex.StoredStatement, error)
}

func (s *StatementService) CreateStatement(ctx context.Context, st *tablex.StoredStatement) error {
	return s.CreateStatementFn(ctx, st)
}

func (s *StatementService) FindStatementByTableID(ctx context.Context, tableID string) (*tablex.StoredStatement, error) {
	return s.FindStatementByTableIDFn(ctx, tableID)
}
