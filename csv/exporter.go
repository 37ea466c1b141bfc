// Package csv exports tables as comma-separated values.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/fwojciec/tablex"
)

var _ tablex.Exporter = (*Exporter)(nil)

// Exporter writes tables as CSV. Multiple tables are separated by a blank line.
type Exporter struct{}

// NewExporter creates a new CSV Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes each table as a header row followed by its rows. With
// IncludeXBRL every column is followed by a "<header>_XBRL" column.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	for i, table := range tables {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := writeTable(w, table, opts.IncludeXBRL); err != nil {
			return fmt.Errorf("export %s: %w", table.Label, err)
		}
	}
	return nil
}

func writeTable(w io.Writer, table *tablex.Table, withTags bool) error {
	cw := csv.NewWriter(w)

	keys := tablex.RecordKeys(table)
	header := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		header = append(header, key)
		if withTags {
			header = append(header, key+tablex.TagSuffix)
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, rec := range tablex.Records(table, withTags) {
		fields := make([]string, len(rec))
		for i, f := range rec {
			fields[i] = f.Value
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
