package sqlite

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Timestamps are stored as RFC 3339 text in UTC.
func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", column, value, err)
	}
	return t, nil
}

// limitClause renders LIMIT/OFFSET for non-zero values. SQLite requires a
// LIMIT before OFFSET, and -1 means unbounded.
func limitClause(limit, offset int) (string, []any) {
	switch {
	case limit <= 0 && offset <= 0:
		return "", nil
	case offset <= 0:
		return " LIMIT ?", []any{limit}
	case limit <= 0:
		return " LIMIT -1 OFFSET ?", []any{offset}
	default:
		return " LIMIT ? OFFSET ?", []any{limit, offset}
	}
}

// hashMarkup fingerprints original table markup as 16 hex digits.
func hashMarkup(markup string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(markup))
}
