package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tablex"
	"github.com/mattn/go-runewidth"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := tablex.TableFilter{Limit: c.Limit, Offset: c.Offset}
	for _, f := range []struct {
		value string
		dst   **string
	}{
		{c.Source, &filter.Source},
		{c.Tag, &filter.Tag},
		{c.Label, &filter.Label},
	} {
		if f.value != "" {
			*f.dst = &f.value
		}
	}

	tables, err := deps.Tables.FindTables(deps.Ctx, filter)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if len(tables) == 0 {
		fmt.Fprintln(deps.Stdout, "No tables found. Use 'tablex extract --save' to store some.")
		return nil
	}

	lines := [][]string{{"ID", "LABEL", "SIZE", "MODE", "SOURCE"}}
	for _, t := range tables {
		source := t.Source
		if source == "" {
			source = "-"
		}
		lines = append(lines, []string{
			t.ID, t.Label,
			fmt.Sprintf("%dx%d", t.Stats.RowCount, t.Stats.ColumnCount),
			string(t.Mode), source,
		})
	}
	writeColumns(deps, lines)
	return nil
}

// writeColumns aligns cells by display width so Japanese labels line up.
// The last column is not padded.
func writeColumns(deps *Dependencies, lines [][]string) {
	widths := make([]int, len(lines[0]))
	for _, line := range lines {
		for i, cell := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, line := range lines {
		var b strings.Builder
		for i, cell := range line {
			if i == len(line)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(runewidth.FillRight(cell, widths[i]))
			b.WriteString("  ")
		}
		fmt.Fprintln(deps.Stdout, b.String())
	}
}
