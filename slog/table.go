package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tablex"
)

// Ensure LoggingTableService implements tablex.TableService.
var _ tablex.TableService = (*LoggingTableService)(nil)

// LoggingTableService wraps a TableService with debug logging.
type LoggingTableService struct {
	next   tablex.TableService
	logger *slog.Logger
}

// NewLoggingTableService creates a new LoggingTableService.
func NewLoggingTableService(next tablex.TableService, logger *slog.Logger) *LoggingTableService {
	return &LoggingTableService{next: next, logger: logger}
}

func (s *LoggingTableService) CreateTable(ctx context.Context, table *tablex.Table) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create table",
			"id", table.ID,
			"label", table.Label,
			"rows", len(table.Rows),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateTable(ctx, table)
}

func (s *LoggingTableService) FindTableByID(ctx context.Context, id string) (table *tablex.Table, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find table", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindTableByID(ctx, id)
}

func (s *LoggingTableService) FindTables(ctx context.Context, filter tablex.TableFilter) (tables []*tablex.Table, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find tables", "count", len(tables), "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.FindTables(ctx, filter)
}

func (s *LoggingTableService) UpdateTable(ctx context.Context, id string, upd tablex.TableUpdate) (table *tablex.Table, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("update table", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.UpdateTable(ctx, id, upd)
}

func (s *LoggingTableService) DeleteTable(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete table", "id", id, "duration", time.Since(begin), "err", err)
	}(time.Now())
	return s.next.DeleteTable(ctx, id)
}
