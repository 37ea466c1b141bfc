package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/tablex"
)

// Run executes the edit command. Edits apply in a fixed order: headers,
// cells, rows, columns, transpose, split. Deletions of several rows or
// columns refer to numbering before any of them is removed.
func (c *EditCmd) Run(deps *Dependencies) error {
	table, err := deps.Tables.FindTableByID(deps.Ctx, c.ID)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	if !c.changes() {
		err := tablex.Errorf(tablex.EINVALID, "no edits given")
		printError(deps.Stderr, err)
		return err
	}

	edited := table.Clone()
	if err := c.apply(edited); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	var second *tablex.Table
	if c.Split > 0 {
		first, rest, err := edited.Split(c.Split - 1)
		if err != nil {
			printError(deps.Stderr, err)
			return err
		}
		edited, second = first, rest
	}

	upd := tablex.TableUpdate{Headers: edited.Headers, Rows: edited.Rows}
	if c.Label != "" || second != nil {
		upd.Label = &edited.Label
	}
	updated, err := deps.Tables.UpdateTable(deps.Ctx, table.ID, upd)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	fmt.Fprintf(deps.Stdout, "Updated table %q (%s): %d rows x %d columns\n",
		updated.Label, updated.ID, updated.Stats.RowCount, updated.Stats.ColumnCount)

	if second != nil {
		second.ID = ""
		second.OriginalMarkup = ""
		if err := deps.Tables.CreateTable(deps.Ctx, second); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Created table %q (%s): %d rows x %d columns\n",
			second.Label, second.ID, second.Stats.RowCount, second.Stats.ColumnCount)
	}

	return nil
}

func (c *EditCmd) changes() bool {
	return c.Label != "" || len(c.RenameHeader) > 0 || len(c.Set) > 0 ||
		len(c.AddRow) > 0 || len(c.DeleteRow) > 0 || len(c.AddColumn) > 0 ||
		len(c.DeleteColumn) > 0 || c.Transpose || c.Split > 0
}

func (c *EditCmd) apply(t *tablex.Table) error {
	if c.Label != "" {
		if strings.TrimSpace(c.Label) == "" {
			return tablex.Errorf(tablex.EINVALID, "table label required")
		}
		t.Label = c.Label
	}

	for _, spec := range c.RenameHeader {
		n, name, err := parseRename(spec)
		if err != nil {
			return err
		}
		if err := t.RenameHeader(n-1, name); err != nil {
			return err
		}
	}

	for _, spec := range c.Set {
		r, col, value, err := parseSet(spec)
		if err != nil {
			return err
		}
		if err := t.SetCell(r-1, col-1, value); err != nil {
			return err
		}
	}

	for _, n := range c.AddRow {
		if err := t.AddRow(n - 1); err != nil {
			return err
		}
	}
	for _, n := range descending(c.DeleteRow) {
		if err := t.DeleteRow(n - 1); err != nil {
			return err
		}
	}

	for _, spec := range c.AddColumn {
		n, name, err := parseAddColumn(spec)
		if err != nil {
			return err
		}
		if err := t.AddColumn(n-1, name); err != nil {
			return err
		}
	}
	for _, n := range descending(c.DeleteColumn) {
		if err := t.DeleteColumn(n - 1); err != nil {
			return err
		}
	}

	if c.Transpose {
		t.Transpose()
	}
	return nil
}

// descending returns the distinct values of ns, largest first.
func descending(ns []int) []int {
	out := slices.Clone(ns)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

// parseRename parses "N=NAME".
func parseRename(spec string) (int, string, error) {
	num, name, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, "", tablex.Errorf(tablex.EINVALID, "invalid header rename %q: expected N=NAME", spec)
	}
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, "", tablex.Errorf(tablex.EINVALID, "invalid column number in %q", spec)
	}
	return n, name, nil
}

// parseSet parses "R,C=VALUE". The value may be empty.
func parseSet(spec string) (int, int, string, error) {
	pos, value, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, 0, "", tablex.Errorf(tablex.EINVALID, "invalid cell edit %q: expected R,C=VALUE", spec)
	}
	rs, cs, ok := strings.Cut(pos, ",")
	if !ok {
		return 0, 0, "", tablex.Errorf(tablex.EINVALID, "invalid cell edit %q: expected R,C=VALUE", spec)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return 0, 0, "", tablex.Errorf(tablex.EINVALID, "invalid row number in %q", spec)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return 0, 0, "", tablex.Errorf(tablex.EINVALID, "invalid column number in %q", spec)
	}
	return r, col, value, nil
}

// parseAddColumn parses "N" or "N=NAME".
func parseAddColumn(spec string) (int, string, error) {
	num, name, _ := strings.Cut(spec, "=")
	n, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, "", tablex.Errorf(tablex.EINVALID, "invalid column insert %q: expected N[=NAME]", spec)
	}
	return n, name, nil
}
