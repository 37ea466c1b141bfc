package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/tablex"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tablex.StatementService = (*StatementService)(nil)

// StatementService implements tablex.StatementService using SQLite.
type StatementService struct {
	db *DB
}

// NewStatementService creates a new StatementService.
func NewStatementService(db *DB) *StatementService {
	return &StatementService{db: db}
}

// CreateStatement stores a restructured statement for an existing table.
func (s *StatementService) CreateStatement(ctx context.Context, st *tablex.StoredStatement) error {
	if st.TableID == "" {
		return tablex.Errorf(tablex.EINVALID, "table ID required")
	}
	if st.Statement == nil {
		return tablex.Errorf(tablex.EINVALID, "statement required")
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM tables WHERE id = ?", st.TableID).Scan(&exists)
	if err == sql.ErrNoRows {
		return tablex.Errorf(tablex.ENOTFOUND, "table %q not found", st.TableID)
	}
	if err != nil {
		return err
	}

	data, err := json.Marshal(st.Statement)
	if err != nil {
		return fmt.Errorf("failed to encode statement: %w", err)
	}

	st.ID = uuid.New().String()
	st.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO statements (id, table_id, data, created_at)
		VALUES (?, ?, ?, ?)
	`, st.ID, st.TableID, string(data), formatTime(st.CreatedAt))

	return err
}

// FindStatementByTableID returns the most recently stored statement of a table.
func (s *StatementService) FindStatementByTableID(ctx context.Context, tableID string) (*tablex.StoredStatement, error) {
	var st tablex.StoredStatement
	var data, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, table_id, data, created_at
		FROM statements
		WHERE table_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, tableID).Scan(&st.ID, &st.TableID, &data, &createdAt)

	if err == sql.ErrNoRows {
		return nil, tablex.Errorf(tablex.ENOTFOUND, "no statement stored for table %q", tableID)
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), &st.Statement); err != nil {
		return nil, fmt.Errorf("failed to decode statement: %w", err)
	}
	if st.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}

	return &st, nil
}
