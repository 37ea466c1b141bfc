// Package sqlite stores tables and restructured statements in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB is a single-connection handle to a tablex database file.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns an unopened DB for path.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragma is applied to every new connection in order.
type pragma struct {
	name, stmt string
	fileOnly   bool
}

var pragmas = []pragma{
	{name: "busy timeout", stmt: "PRAGMA busy_timeout = 5000"},
	// In-memory databases reject WAL.
	{name: "WAL journal", stmt: "PRAGMA journal_mode = WAL", fileOnly: true},
	{name: "foreign keys", stmt: "PRAGMA foreign_keys = ON"},
}

// Open connects to the database and migrates the schema.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.prepare(conn); err != nil {
		conn.Close()
		return err
	}
	db.db = conn
	return nil
}

func (db *DB) prepare(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database %q: %w", db.path, err)
	}
	for _, p := range pragmas {
		if p.fileOnly && db.path == MemoryPath {
			continue
		}
		if _, err := conn.Exec(p.stmt); err != nil {
			return fmt.Errorf("failed to set %s: %w", p.name, err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the connection. Closing an unopened DB is a no-op.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Tags are denormalized into table_tags so lookups by XBRL tag stay indexed.
const schema = `
CREATE TABLE IF NOT EXISTS tables (
	id TEXT PRIMARY KEY,
	label TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	mode TEXT NOT NULL,
	headers TEXT NOT NULL,
	rows TEXT NOT NULL,
	original_markup TEXT NOT NULL DEFAULT '',
	markup_hash TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tables_source ON tables(source);
CREATE INDEX IF NOT EXISTS idx_tables_markup_hash ON tables(markup_hash);

CREATE TABLE IF NOT EXISTS table_tags (
	table_id TEXT NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
	tag TEXT NOT NULL,
	PRIMARY KEY (table_id, tag)
);
CREATE INDEX IF NOT EXISTS idx_table_tags_tag ON table_tags(tag);

CREATE TABLE IF NOT EXISTS statements (
	id TEXT PRIMARY KEY,
	table_id TEXT NOT NULL REFERENCES tables(id) ON DELETE CASCADE,
	data TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_statements_table_id ON statements(table_id);
`
