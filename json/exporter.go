// Package json exports tables as arrays of header-keyed JSON objects.
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/tablex"
)

var _ tablex.Exporter = (*Exporter)(nil)

// Exporter writes tables as JSON.
type Exporter struct {
	indent string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithIndent sets the indentation of the output. An empty string writes
// compact JSON.
func WithIndent(indent string) Option {
	return func(e *Exporter) {
		e.indent = indent
	}
}

// NewExporter creates a new JSON Exporter indenting with two spaces.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{indent: "  "}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes a single table as an array of objects. Multiple tables are
// written as one object keyed by table label, in input order.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	var buf bytes.Buffer

	if len(tables) == 1 {
		data, err := json.Marshal(tablex.Records(tables[0], opts.IncludeXBRL))
		if err != nil {
			return fmt.Errorf("encode %s: %w", tables[0].Label, err)
		}
		buf.Write(data)
	} else {
		buf.WriteByte('{')
		for i, label := range uniqueLabels(tables) {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(label)
			if err != nil {
				return err
			}
			data, err := json.Marshal(tablex.Records(tables[i], opts.IncludeXBRL))
			if err != nil {
				return fmt.Errorf("encode %s: %w", label, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(data)
		}
		buf.WriteByte('}')
	}

	if e.indent != "" {
		var out bytes.Buffer
		if err := json.Indent(&out, buf.Bytes(), "", e.indent); err != nil {
			return err
		}
		buf = out
	}
	buf.WriteByte('\n')

	_, err := buf.WriteTo(w)
	return err
}

// uniqueLabels returns the table labels with " (n)" appended to repeats.
func uniqueLabels(tables []*tablex.Table) []string {
	labels := make([]string, len(tables))
	seen := make(map[string]int)
	for i, t := range tables {
		label := t.Label
		if label == "" {
			label = fmt.Sprintf("table-%d", i+1)
		}
		seen[label]++
		if n := seen[label]; n > 1 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		labels[i] = label
	}
	return labels
}
