package tablex

import "strings"

func (t *Table) tagged() bool {
	return t.Mode == ModeXBRL
}

func (t *Table) blankRow() []Cell {
	row := make([]Cell, len(t.Headers))
	for i := range row {
		row[i] = Cell{Tagged: t.tagged()}
	}
	return row
}

func (t *Table) checkRow(i int) error {
	if i < 0 || i >= len(t.Rows) {
		return Errorf(EINVALID, "row %d out of range (table has %d rows)", i, len(t.Rows))
	}
	return nil
}

func (t *Table) checkColumn(i int) error {
	if i < 0 || i >= len(t.Headers) {
		return Errorf(EINVALID, "column %d out of range (table has %d columns)", i, len(t.Headers))
	}
	return nil
}

// AddRow inserts an empty row before index at. An index equal to the row
// count appends.
func (t *Table) AddRow(at int) error {
	if at < 0 || at > len(t.Rows) {
		return Errorf(EINVALID, "row %d out of range (table has %d rows)", at, len(t.Rows))
	}
	t.Rows = append(t.Rows, nil)
	copy(t.Rows[at+1:], t.Rows[at:])
	t.Rows[at] = t.blankRow()
	t.Recompute()
	return nil
}

// DeleteRow removes row i.
func (t *Table) DeleteRow(i int) error {
	if err := t.checkRow(i); err != nil {
		return err
	}
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
	t.Recompute()
	return nil
}

// AddColumn inserts a column named name before index at. An empty name
// becomes the synthetic "Column N" name of the new position.
func (t *Table) AddColumn(at int, name string) error {
	if at < 0 || at > len(t.Headers) {
		return Errorf(EINVALID, "column %d out of range (table has %d columns)", at, len(t.Headers))
	}
	if strings.TrimSpace(name) == "" {
		name = ColumnName(at + 1)
	}
	t.Headers = insertCell(t.Headers, at, Cell{Value: name, Tagged: t.tagged()})
	for r := range t.Rows {
		t.Rows[r] = insertCell(t.Rows[r], at, Cell{Tagged: t.tagged()})
	}
	t.Recompute()
	return nil
}

// DeleteColumn removes column i from the headers and every row.
func (t *Table) DeleteColumn(i int) error {
	if err := t.checkColumn(i); err != nil {
		return err
	}
	t.Headers = append(t.Headers[:i], t.Headers[i+1:]...)
	for r := range t.Rows {
		t.Rows[r] = append(t.Rows[r][:i], t.Rows[r][i+1:]...)
	}
	t.Recompute()
	return nil
}

// RenameHeader sets the text of header i. Any XBRL tag on the header is kept.
func (t *Table) RenameHeader(i int, name string) error {
	if err := t.checkColumn(i); err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return Errorf(EINVALID, "header name required")
	}
	t.Headers[i].Value = name
	t.Recompute()
	return nil
}

// SetCell replaces the text of the cell at row r, column c.
func (t *Table) SetCell(r, c int, value string) error {
	if err := t.checkRow(r); err != nil {
		return err
	}
	if err := t.checkColumn(c); err != nil {
		return err
	}
	t.Rows[r][c].Value = value
	t.Recompute()
	return nil
}

// Transpose swaps rows and columns. The headers become the first column of
// the result and synthetic headers are generated for the new columns.
func (t *Table) Transpose() {
	grid := make([][]Cell, 0, len(t.Rows)+1)
	grid = append(grid, t.Headers)
	grid = append(grid, t.Rows...)

	rows := make([][]Cell, len(t.Headers))
	for c := range t.Headers {
		row := make([]Cell, len(grid))
		for r := range grid {
			row[r] = grid[r][c]
		}
		rows[c] = row
	}

	t.Headers = SyntheticHeaders(len(grid), t.tagged())
	t.Rows = rows
	t.Recompute()
}

// Split cuts the table before row at. Both halves keep the headers.
func (t *Table) Split(at int) (*Table, *Table, error) {
	if at <= 0 || at >= len(t.Rows) {
		return nil, nil, Errorf(EINVALID, "split point %d must be between 1 and %d", at, len(t.Rows)-1)
	}

	first := t.Clone()
	first.ID = t.ID + "-a"
	first.Label = t.Label + "-a"
	first.Rows = first.Rows[:at]
	first.Recompute()

	second := t.Clone()
	second.ID = t.ID + "-b"
	second.Label = t.Label + "-b"
	second.Rows = second.Rows[at:]
	second.Recompute()

	return first, second, nil
}

// MergeTables appends the rows of all tables under the headers of the first.
// Every table must use the same mode and column count.
func MergeTables(tables ...*Table) (*Table, error) {
	if len(tables) < 2 {
		return nil, Errorf(EINVALID, "at least two tables required to merge")
	}

	base := tables[0]
	merged := base.Clone()
	ids := []string{base.ID}
	for _, other := range tables[1:] {
		if other.Mode != base.Mode {
			return nil, Errorf(EINVALID, "cannot merge %s table %q into %s table", other.Mode, other.ID, base.Mode)
		}
		if other.ColumnCount() != base.ColumnCount() {
			return nil, Errorf(EINVALID, "table %q has %d columns, expected %d", other.ID, other.ColumnCount(), base.ColumnCount())
		}
		for _, row := range other.Rows {
			merged.Rows = append(merged.Rows, append([]Cell(nil), row...))
		}
		ids = append(ids, other.ID)
	}

	merged.ID = "merged-" + strings.Join(ids, "+")
	merged.Label = merged.ID
	merged.OriginalMarkup = ""
	merged.Recompute()
	return merged, nil
}

func insertCell(cells []Cell, at int, c Cell) []Cell {
	cells = append(cells, Cell{})
	copy(cells[at+1:], cells[at:])
	cells[at] = c
	return cells
}
