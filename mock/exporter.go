package mock

import (
	"io"

	"github.com/fwojciec/tablex"
)

var _ tablex.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of tablex.Exporter.
type Exporter struct {
	ExportFn func(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error
}

func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	return e.ExportFn(w, tables, opts)
}
