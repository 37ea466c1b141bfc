package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/runewidth"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	table, err := deps.Tables.FindTableByID(deps.Ctx, c.ID)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if c.Markup {
		if table.OriginalMarkup == "" {
			err := tablex.Errorf(tablex.ENOTFOUND, "table %q has no original markup", table.ID)
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintln(deps.Stdout, table.OriginalMarkup)
		return nil
	}

	view := table.Filter(c.Filter)
	if c.Sort != "" {
		col, err := columnIndex(view, c.Sort)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		if view, err = view.Sort(col, c.Desc); err != nil {
			printError(deps.Stderr, err)
			return err
		}
	}

	size := c.PageSize
	if size <= 0 {
		size = deps.Config.PageSize
	}
	page := view.Paginate(c.Page, size)
	view.Rows = page.Rows

	if err := runewidth.NewExporter().Export(deps.Stdout, []*tablex.Table{view}, tablex.ExportOptions{IncludeXBRL: c.XBRL}); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nPage %d of %d (%d rows)", page.Page, max(page.TotalPages, 1), page.TotalRows)
	if c.Filter != "" {
		fmt.Fprintf(deps.Stdout, ", %d of %d rows match %q", page.TotalRows, len(table.Rows), c.Filter)
	}
	fmt.Fprintln(deps.Stdout)

	s := table.Stats
	fmt.Fprintf(deps.Stdout, "%d cells, %d empty, %d unique XBRL tags\n", s.TotalCells, s.EmptyCells, s.UniqueTags)
	return nil
}

// columnIndex resolves a 1-based column number or a header name to a
// 0-based column index.
func columnIndex(t *tablex.Table, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > t.ColumnCount() {
			return 0, tablex.Errorf(tablex.EINVALID, "column %d out of range (table has %d columns)", n, t.ColumnCount())
		}
		return n - 1, nil
	}
	for i, key := range tablex.RecordKeys(t) {
		if strings.EqualFold(key, strings.TrimSpace(ref)) {
			return i, nil
		}
	}
	return 0, tablex.Errorf(tablex.EINVALID, "no column named %q", ref)
}
