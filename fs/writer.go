// Package fs provides file-based output for exported tables.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/tablex"
)

var fileNameReplacer = strings.NewReplacer("/", "_", `\`, "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_")

// FileName returns a safe file name for a table label with the format's
// extension. Blank labels fall back to "table".
func FileName(label string, format tablex.Format) string {
	name := strings.TrimSpace(fileNameReplacer.Replace(label))
	name = strings.Trim(name, ".")
	if name == "" {
		name = "table"
	}
	return name + format.Extension()
}

// Writer writes one export file per table into a directory.
type Writer struct {
	baseDir  string
	format   tablex.Format
	exporter tablex.Exporter
}

// NewWriter creates a Writer exporting tables in format into baseDir.
func NewWriter(baseDir string, format tablex.Format, exporter tablex.Exporter) *Writer {
	return &Writer{baseDir: baseDir, format: format, exporter: exporter}
}

// WriteTables exports every table to <label>.<ext> and returns the written
// paths in table order. Repeated labels get a "-2", "-3" suffix. Each file
// is written to a temporary name first and renamed when complete.
func (w *Writer) WriteTables(tables []*tablex.Table, opts tablex.ExportOptions) ([]string, error) {
	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	paths := make([]string, 0, len(tables))
	for _, t := range tables {
		name := FileName(t.Label, w.format)
		seen[name]++
		if n := seen[name]; n > 1 {
			ext := filepath.Ext(name)
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
		}

		path := filepath.Join(w.baseDir, name)
		if err := w.writeFile(path, t, opts); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (w *Writer) writeFile(path string, t *tablex.Table, opts tablex.ExportOptions) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := w.exporter.Export(f, []*tablex.Table{t}, opts); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
