package tablex

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Mode identifies which cell variant a table uses.
type Mode string

// Table modes.
const (
	ModePlain Mode = "plain"
	ModeXBRL  Mode = "xbrl"
)

// Statistics summarizes a table's grid. It is derived data and is
// recomputed after every structural change.
type Statistics struct {
	RowCount    int      `json:"rowCount"`
	ColumnCount int      `json:"columnCount"`
	EmptyCells  int      `json:"emptyCells"`
	TotalCells  int      `json:"totalCells"`
	UniqueTags  int      `json:"uniqueTags"`
	Tags        []string `json:"tags"`
}

// Table is an HTML table normalized into a rectangular grid.
type Table struct {
	ID             string     `json:"id"`
	Label          string     `json:"label"`
	Source         string     `json:"source,omitempty"`
	Mode           Mode       `json:"mode"`
	Headers        []Cell     `json:"headers"`
	Rows           [][]Cell   `json:"rows"`
	OriginalMarkup string     `json:"originalMarkup,omitempty"`
	Stats          Statistics `json:"statistics"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ColumnCount returns the number of columns, defined by the headers.
func (t *Table) ColumnCount() int {
	return len(t.Headers)
}

// HeaderValues returns the header texts.
func (t *Table) HeaderValues() []string {
	values := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		values[i] = CellValue(h)
	}
	return values
}

// Validate returns an error if the table is not a consistent rectangular grid.
func (t *Table) Validate() error {
	if t.Mode != ModePlain && t.Mode != ModeXBRL {
		return Errorf(EINVALID, "table mode must be %q or %q", ModePlain, ModeXBRL)
	}
	tagged := t.Mode == ModeXBRL
	for i, h := range t.Headers {
		if h.Tagged != tagged {
			return Errorf(EINVALID, "header %d does not match table mode %q", i, t.Mode)
		}
	}
	for r, row := range t.Rows {
		if len(row) != len(t.Headers) {
			return Errorf(EINVALID, "row %d has %d cells, expected %d", r, len(row), len(t.Headers))
		}
		for c, cell := range row {
			if cell.Tagged != tagged {
				return Errorf(EINVALID, "cell %d,%d does not match table mode %q", r, c, t.Mode)
			}
		}
	}
	return nil
}

// Recompute refreshes the table statistics from headers and rows.
func (t *Table) Recompute() {
	stats := Statistics{
		RowCount:    len(t.Rows),
		ColumnCount: len(t.Headers),
	}

	seen := make(map[string]bool)
	addTag := func(c Cell) {
		if c.Tag != "" && !seen[c.Tag] {
			seen[c.Tag] = true
			stats.Tags = append(stats.Tags, c.Tag)
		}
	}

	for _, h := range t.Headers {
		addTag(h)
	}
	for _, row := range t.Rows {
		for _, c := range row {
			stats.TotalCells++
			if strings.TrimSpace(CellValue(c)) == "" {
				stats.EmptyCells++
			}
			addTag(c)
		}
	}

	sort.Strings(stats.Tags)
	stats.UniqueTags = len(stats.Tags)
	t.Stats = stats
}

// Clone returns a deep copy of the table grid and metadata.
func (t *Table) Clone() *Table {
	other := *t
	other.Headers = append([]Cell(nil), t.Headers...)
	other.Rows = make([][]Cell, len(t.Rows))
	for i, row := range t.Rows {
		other.Rows[i] = append([]Cell(nil), row...)
	}
	other.Stats.Tags = append([]string(nil), t.Stats.Tags...)
	return &other
}

// SyntheticHeaders returns "Column 1" … "Column n" header cells.
func SyntheticHeaders(n int, tagged bool) []Cell {
	headers := make([]Cell, n)
	for i := range headers {
		headers[i] = Cell{Value: ColumnName(i + 1), Tagged: tagged}
	}
	return headers
}

// ColumnName returns the synthetic name of the 1-based column n.
func ColumnName(n int) string {
	return "Column " + strconv.Itoa(n)
}

// XBRLTagCounts returns how often each XBRL tag occurs across the tables.
func XBRLTagCounts(tables []*Table) map[string]int {
	counts := make(map[string]int)
	for _, t := range tables {
		for _, h := range t.Headers {
			if h.Tag != "" {
				counts[h.Tag]++
			}
		}
		for _, row := range t.Rows {
			for _, c := range row {
				if c.Tag != "" {
					counts[c.Tag]++
				}
			}
		}
	}
	return counts
}

// TableService represents a service for managing stored tables.
type TableService interface {
	// CreateTable stores a new table and assigns it an ID.
	CreateTable(ctx context.Context, table *Table) error

	// FindTableByID retrieves a table by ID.
	// Returns ENOTFOUND if table does not exist.
	FindTableByID(ctx context.Context, id string) (*Table, error)

	// FindTables retrieves tables matching the filter.
	FindTables(ctx context.Context, filter TableFilter) ([]*Table, error)

	// UpdateTable replaces the grid or label of an existing table.
	// Returns ENOTFOUND if table does not exist.
	UpdateTable(ctx context.Context, id string, upd TableUpdate) (*Table, error)

	// DeleteTable permanently removes a table and its statements.
	// Returns ENOTFOUND if table does not exist.
	DeleteTable(ctx context.Context, id string) error
}

// TableFilter represents a filter for FindTables.
type TableFilter struct {
	ID         *string `json:"id"`
	Source     *string `json:"source"`
	Label      *string `json:"label"`
	Tag        *string `json:"tag"`
	MarkupHash *string `json:"markupHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// TableUpdate represents fields that can be updated on a table.
// Headers and Rows are replaced together.
type TableUpdate struct {
	Label   *string  `json:"label"`
	Headers []Cell   `json:"headers"`
	Rows    [][]Cell `json:"rows"`
}
