package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/tablex"
	tablexcsv "github.com/fwojciec/tablex/csv"
	tablexml "github.com/fwojciec/tablex/etree"
	tablexcel "github.com/fwojciec/tablex/excelize"
	"github.com/fwojciec/tablex/fs"
	"github.com/fwojciec/tablex/htmltomarkdown"
	tablexjson "github.com/fwojciec/tablex/json"
	"github.com/fwojciec/tablex/runewidth"
)

// newExporter returns the exporter for a format.
func newExporter(format tablex.Format) tablex.Exporter {
	switch format {
	case tablex.FormatJSON:
		return tablexjson.NewExporter()
	case tablex.FormatExcel:
		return tablexcel.NewExporter()
	case tablex.FormatMarkdown:
		return htmltomarkdown.NewExporter()
	case tablex.FormatXBRL:
		return tablexml.NewExporter()
	case tablex.FormatText:
		return runewidth.NewExporter()
	default:
		return tablexcsv.NewExporter()
	}
}

// output describes where exported tables go.
type output struct {
	Format string
	File   string
	Dir    string
	XBRL   bool
}

// write exports tables to stdout, a single file, or one file per table.
func (o output) write(deps *Dependencies, tables []*tablex.Table) error {
	name := o.Format
	if name == "" {
		name = deps.Config.Format
	}
	format, err := tablex.ParseFormat(name)
	if err != nil {
		return err
	}
	exporter := newExporter(format)
	opts := tablex.ExportOptions{IncludeXBRL: o.XBRL}

	switch {
	case o.Dir != "":
		paths, err := fs.NewWriter(o.Dir, format, exporter).WriteTables(tables, opts)
		for _, p := range paths {
			fmt.Fprintf(deps.Stderr, "Wrote %s\n", p)
		}
		return err
	case o.File != "":
		f, err := os.Create(o.File)
		if err != nil {
			return err
		}
		if err := exporter.Export(f, tables, opts); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %s\n", o.File)
		return nil
	default:
		return exporter.Export(deps.Stdout, tables, opts)
	}
}

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	tables, err := loadTables(deps, c.IDs)
	if err != nil {
		printError(deps.Stderr, err)
		return err
	}
	if len(tables) == 0 {
		err := tablex.Errorf(tablex.ENOTFOUND, "no stored tables to export")
		printError(deps.Stderr, err)
		return err
	}

	out := output{Format: c.Format, File: c.Output, Dir: c.Dir, XBRL: c.XBRL}
	if err := out.write(deps, tables); err != nil {
		printError(deps.Stderr, err)
		return err
	}
	return nil
}

// loadTables returns the tables with the given IDs in order, or every
// stored table when ids is empty.
func loadTables(deps *Dependencies, ids []string) ([]*tablex.Table, error) {
	if len(ids) == 0 {
		return deps.Tables.FindTables(deps.Ctx, tablex.TableFilter{})
	}
	tables := make([]*tablex.Table, 0, len(ids))
	for _, id := range ids {
		t, err := deps.Tables.FindTableByID(deps.Ctx, id)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}
