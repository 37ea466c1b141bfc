package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tablex.TableService = (*TableService)(nil)

// TableService implements tablex.TableService using SQLite.
type TableService struct {
	db *DB
}

// NewTableService creates a new TableService.
func NewTableService(db *DB) *TableService {
	return &TableService{db: db}
}

// MarkupHash returns the hash stored for a table's original markup.
func MarkupHash(markup string) string {
	return hashMarkup(markup)
}

const tableColumns = "id, label, source, mode, headers, rows, original_markup, created_at, updated_at"

// CreateTable stores a new table under a generated ID.
// Returns ECONFLICT if the same markup from the same source is already stored.
func (s *TableService) CreateTable(ctx context.Context, table *tablex.Table) error {
	if strings.TrimSpace(table.Label) == "" {
		return tablex.Errorf(tablex.EINVALID, "table label required")
	}
	table.Recompute()
	if err := table.Validate(); err != nil {
		return err
	}

	hash := ""
	if table.OriginalMarkup != "" {
		hash = hashMarkup(table.OriginalMarkup)
		existing, err := s.FindTables(ctx, tablex.TableFilter{Source: &table.Source, MarkupHash: &hash, Limit: 1})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return tablex.Errorf(tablex.ECONFLICT, "table %q from %q is already stored as %s", table.Label, table.Source, existing[0].ID)
		}
	}

	headers, rows, err := encodeGrid(table)
	if err != nil {
		return err
	}

	table.ID = uuid.New().String()
	now := time.Now().UTC()
	table.CreatedAt = now
	table.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO tables (id, label, source, mode, headers, rows, original_markup, markup_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, table.ID, table.Label, table.Source, string(table.Mode), headers, rows, table.OriginalMarkup, hash,
		formatTime(table.CreatedAt), formatTime(table.UpdatedAt)); err != nil {
		return err
	}

	if err := replaceTags(ctx, tx, table.ID, table.Stats.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// FindTableByID retrieves a table by ID.
func (s *TableService) FindTableByID(ctx context.Context, id string) (*tablex.Table, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tableColumns+" FROM tables WHERE id = ?", id)
	table, err := scanTable(row)
	if err == sql.ErrNoRows {
		return nil, tablex.Errorf(tablex.ENOTFOUND, "table %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

// FindTables retrieves tables matching the filter, oldest first.
func (s *TableService) FindTables(ctx context.Context, filter tablex.TableFilter) ([]*tablex.Table, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + tableColumns + " FROM tables WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}
	if filter.Label != nil {
		query.WriteString(" AND label = ?")
		args = append(args, *filter.Label)
	}
	if filter.Tag != nil {
		query.WriteString(" AND id IN (SELECT table_id FROM table_tags WHERE tag = ?)")
		args = append(args, *filter.Tag)
	}
	if filter.MarkupHash != nil {
		query.WriteString(" AND markup_hash = ?")
		args = append(args, *filter.MarkupHash)
	}

	query.WriteString(" ORDER BY created_at ASC, rowid ASC")
	limit, limitArgs := limitClause(filter.Limit, filter.Offset)
	query.WriteString(limit)
	args = append(args, limitArgs...)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]*tablex.Table, 0)
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return tables, rows.Err()
}

// UpdateTable updates the label or grid of an existing table.
func (s *TableService) UpdateTable(ctx context.Context, id string, upd tablex.TableUpdate) (*tablex.Table, error) {
	table, err := s.FindTableByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Label != nil {
		if strings.TrimSpace(*upd.Label) == "" {
			return nil, tablex.Errorf(tablex.EINVALID, "table label required")
		}
		table.Label = *upd.Label
	}
	if upd.Headers != nil {
		table.Headers = upd.Headers
	}
	if upd.Rows != nil {
		table.Rows = upd.Rows
	}

	table.Recompute()
	if err := table.Validate(); err != nil {
		return nil, err
	}

	headers, rows, err := encodeGrid(table)
	if err != nil {
		return nil, err
	}
	table.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE tables
		SET label = ?, headers = ?, rows = ?, updated_at = ?
		WHERE id = ?
	`, table.Label, headers, rows, formatTime(table.UpdatedAt), id); err != nil {
		return nil, err
	}

	if err := replaceTags(ctx, tx, id, table.Stats.Tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return table, nil
}

// DeleteTable permanently removes a table along with its tags and statements.
func (s *TableService) DeleteTable(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tables WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return tablex.Errorf(tablex.ENOTFOUND, "table %q not found", id)
	}

	return nil
}

func replaceTags(ctx context.Context, tx *sql.Tx, tableID string, tags []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM table_tags WHERE table_id = ?", tableID); err != nil {
		return err
	}
	for _, tag := range tags {
		if _, err := tx.ExecContext(ctx, "INSERT INTO table_tags (table_id, tag) VALUES (?, ?)", tableID, tag); err != nil {
			return err
		}
	}
	return nil
}

func encodeGrid(table *tablex.Table) (headers, rows string, err error) {
	h, err := json.Marshal(table.Headers)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode headers: %w", err)
	}
	r, err := json.Marshal(table.Rows)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode rows: %w", err)
	}
	return string(h), string(r), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(row scanner) (*tablex.Table, error) {
	var table tablex.Table
	var mode, headers, rows, createdAt, updatedAt string

	if err := row.Scan(&table.ID, &table.Label, &table.Source, &mode, &headers, &rows,
		&table.OriginalMarkup, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	table.Mode = tablex.Mode(mode)
	if err := json.Unmarshal([]byte(headers), &table.Headers); err != nil {
		return nil, fmt.Errorf("failed to decode headers: %w", err)
	}
	if err := json.Unmarshal([]byte(rows), &table.Rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}

	var err error
	if table.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if table.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}

	table.Recompute()
	return &table, nil
}
