// Package runewidth renders tables as aligned plain text, measuring cells
// by terminal display width so East Asian text lines up.
package runewidth

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/tablex"
	"github.com/mattn/go-runewidth"
)

var _ tablex.Exporter = (*Exporter)(nil)

// DefaultMaxWidth is the widest a column is rendered before truncation.
const DefaultMaxWidth = 40

const ellipsis = "..."

// Exporter writes tables as aligned text grids.
type Exporter struct {
	maxWidth int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithMaxWidth sets the maximum display width of a column. Zero disables
// truncation.
func WithMaxWidth(n int) Option {
	return func(e *Exporter) {
		e.maxWidth = n
	}
}

// NewExporter creates a new text Exporter.
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{maxWidth: DefaultMaxWidth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes each table under its label. Numeric columns are right
// aligned. With IncludeXBRL every column is followed by its tag column.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	bw := bufio.NewWriter(w)
	for i, t := range tables {
		if i > 0 {
			bw.WriteString("\n")
		}
		if t.Label != "" {
			bw.WriteString(t.Label + "\n")
		}

		var headers []string
		for _, key := range tablex.RecordKeys(t) {
			headers = append(headers, key)
			if opts.IncludeXBRL {
				headers = append(headers, key+tablex.TagSuffix)
			}
		}
		var rows [][]string
		for _, rec := range tablex.Records(t, opts.IncludeXBRL) {
			row := make([]string, len(rec))
			for j, f := range rec {
				row[j] = f.Value
			}
			rows = append(rows, row)
		}
		e.grid(bw, headers, rows)
	}
	return bw.Flush()
}

// RenderComparative writes the period-over-period view of a statement.
// Item names are indented by depth; change and rate are blank where they
// cannot be computed.
func (e *Exporter) RenderComparative(w io.Writer, s *tablex.Statement) error {
	bw := bufio.NewWriter(w)

	meta := s.Metadata
	title := meta.ReportType
	if meta.Unit != "" {
		title += fmt.Sprintf("（単位：%s）", meta.Unit)
	}
	if title != "" {
		bw.WriteString(title + "\n")
	}

	headers := []string{"科目", orDefault(meta.Periods.Previous, "前期"), orDefault(meta.Periods.Current, "当期"), "増減", "増減率"}
	var rows [][]string
	for _, r := range tablex.Comparative(s) {
		row := []string{r.ItemName, r.PreviousPeriod.String(), r.CurrentPeriod.String(), "", ""}
		if r.Change != nil {
			row[3] = strconv.FormatFloat(*r.Change, 'f', -1, 64)
		}
		if r.ChangeRate != nil {
			row[4] = *r.ChangeRate
		}
		rows = append(rows, row)
	}
	e.grid(bw, headers, rows)

	return bw.Flush()
}

func (e *Exporter) grid(w *bufio.Writer, headers []string, rows [][]string) {
	headers = e.truncateAll(headers)
	for i := range rows {
		rows[i] = e.truncateAll(rows[i])
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	right := make([]bool, len(headers))
	for i := range headers {
		right[i] = numericColumn(rows, i)
	}

	writeLine(w, headers, widths, func(int) bool { return false })
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	w.WriteString(strings.Join(sep, "-+-") + "\n")
	for _, row := range rows {
		writeLine(w, row, widths, func(i int) bool { return right[i] })
	}
}

func writeLine(w *bufio.Writer, cells []string, widths []int, rightAlign func(int) bool) {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if rightAlign(i) {
			padded[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	w.WriteString(strings.TrimRight(strings.Join(padded, " | "), " ") + "\n")
}

func (e *Exporter) truncateAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "\n", " ")
		if e.maxWidth > 0 {
			c = runewidth.Truncate(c, e.maxWidth, ellipsis)
		}
		out[i] = c
	}
	return out
}

// numericColumn reports whether every non-blank cell of column i is numeric.
func numericColumn(rows [][]string, i int) bool {
	found := false
	for _, row := range rows {
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		if !tablex.IsNumeric(cell) {
			return false
		}
		found = true
	}
	return found
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
