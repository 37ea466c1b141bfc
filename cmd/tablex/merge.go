package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tablex"
)

// Run executes the merge command.
func (c *MergeCmd) Run(deps *Dependencies) error {
	if len(c.IDs) < 2 {
		err := tablex.Errorf(tablex.EINVALID, "at least two tables required to merge")
		printError(deps.Stderr, err)
		return err
	}

	tables, err := loadTables(deps, c.IDs)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	merged, err := tablex.MergeTables(tables...)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}

	merged.ID = ""
	merged.Label = tables[0].Label + " (merged)"
	if strings.TrimSpace(c.Label) != "" {
		merged.Label = c.Label
	}

	if err := deps.Tables.CreateTable(deps.Ctx, merged); err != nil {
		printError(deps.Stderr, err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created table %q (%s): %d rows x %d columns from %d tables\n",
		merged.Label, merged.ID, merged.Stats.RowCount, merged.Stats.ColumnCount, len(tables))
	return nil
}
