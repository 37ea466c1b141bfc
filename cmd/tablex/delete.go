package main

import (
	"fmt"

	"github.com/fwojciec/tablex"
)

// Run executes the delete command. All targets are resolved before the
// first delete so a typo in one ID leaves the store untouched.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if len(c.IDs) == 0 && c.Source == "" {
		err := tablex.Errorf(tablex.EINVALID, "give table IDs or --source")
		printError(deps.Stderr, err)
		return err
	}
	if !c.Force {
		fmt.Fprintln(deps.Stderr, "error: use --force to confirm deletion")
		return tablex.Errorf(tablex.EINVALID, "use --force to confirm deletion")
	}

	targets, err := c.targets(deps)
	if err != nil {
		if tablex.ErrorCode(err) == tablex.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s. Use 'tablex list' to see stored tables.\n", tablex.ErrorMessage(err))
			return err
		}
		printError(deps.Stderr, err)
		return err
	}

	for _, t := range targets {
		if err := deps.Tables.DeleteTable(deps.Ctx, t.ID); err != nil {
			printError(deps.Stderr, err)
			return err
		}
		fmt.Fprintf(deps.Stdout, "Deleted table %q (%s)\n", t.Label, t.ID)
	}
	if len(targets) > 1 {
		fmt.Fprintf(deps.Stdout, "%d tables deleted\n", len(targets))
	}
	return nil
}

func (c *DeleteCmd) targets(deps *Dependencies) ([]*tablex.Table, error) {
	var targets []*tablex.Table
	seen := make(map[string]bool)
	add := func(t *tablex.Table) {
		if !seen[t.ID] {
			seen[t.ID] = true
			targets = append(targets, t)
		}
	}

	for _, id := range c.IDs {
		t, err := deps.Tables.FindTableByID(deps.Ctx, id)
		if err != nil {
			return nil, err
		}
		add(t)
	}
	if c.Source != "" {
		tables, err := deps.Tables.FindTables(deps.Ctx, tablex.TableFilter{Source: &c.Source})
		if err != nil {
			return nil, err
		}
		if len(tables) == 0 {
			return nil, tablex.Errorf(tablex.ENOTFOUND, "no tables from %q", c.Source)
		}
		for _, t := range tables {
			add(t)
		}
	}
	return targets, nil
}
