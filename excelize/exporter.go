// Package excelize exports tables as Excel workbooks.
package excelize

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/tablex"
	"github.com/xuri/excelize/v2"
)

var _ tablex.Exporter = (*Exporter)(nil)

// TagSheet is the name of the sheet listing XBRL tag frequencies.
const TagSheet = "XBRL Tags"

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", "_", `\`, "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")

// Exporter writes tables as an xlsx workbook with one sheet per table.
type Exporter struct{}

// NewExporter creates a new Excel Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export writes the workbook to w. Header rows are bold and cells that
// parse as financial amounts are stored as numbers. With IncludeXBRL a
// final sheet lists every tag with its number of occurrences.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	if len(tables) == 0 {
		return tablex.Errorf(tablex.EINVALID, "no tables to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	var reserved []string
	if opts.IncludeXBRL {
		reserved = append(reserved, TagSheet)
	}
	names := SheetNames(tables, reserved...)

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), names[i]); err != nil {
				return fmt.Errorf("name sheet %q: %w", names[i], err)
			}
		} else if _, err := f.NewSheet(names[i]); err != nil {
			return fmt.Errorf("create sheet %q: %w", names[i], err)
		}
		if err := writeSheet(f, names[i], table, bold); err != nil {
			return fmt.Errorf("write sheet %q: %w", names[i], err)
		}
	}

	if opts.IncludeXBRL {
		if err := writeTagSheet(f, tables, bold); err != nil {
			return fmt.Errorf("write sheet %q: %w", TagSheet, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, table *tablex.Table, headerStyle int) error {
	headers := tablex.RecordKeys(table)
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}
	if len(headers) > 0 {
		if err := styleRow(f, sheet, 1, len(headers), headerStyle); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		values := make([]any, len(row))
		for c, cell := range row {
			values[c] = cellValue(tablex.CellValue(cell))
		}
		if err := writeRow(f, sheet, r+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeTagSheet(f *excelize.File, tables []*tablex.Table, headerStyle int) error {
	if _, err := f.NewSheet(TagSheet); err != nil {
		return err
	}

	counts := tablex.XBRLTagCounts(tables)
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if err := writeRow(f, TagSheet, 1, []string{"XBRL Tag", "Count"}); err != nil {
		return err
	}
	if err := styleRow(f, TagSheet, 1, 2, headerStyle); err != nil {
		return err
	}
	for i, tag := range tags {
		if err := writeRow(f, TagSheet, i+2, []any{tag, counts[tag]}); err != nil {
			return err
		}
	}
	return nil
}

func writeRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}

// cellValue returns the number an amount represents, or the text itself.
func cellValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if v := tablex.ParseFinancialValue(s); v.IsNumber() && !strings.Contains(s, "※") {
		return v.Number
	}
	return s
}

// SheetNames returns a valid, unique sheet name for every table. Names are
// compared case-insensitively, as Excel does, and never collide with reserved.
func SheetNames(tables []*tablex.Table, reserved ...string) []string {
	used := make(map[string]bool)
	for _, r := range reserved {
		used[strings.ToLower(r)] = true
	}

	names := make([]string, len(tables))
	for i, t := range tables {
		base := strings.TrimSpace(sheetNameReplacer.Replace(t.Label))
		base = strings.Trim(base, "'")
		if base == "" {
			base = fmt.Sprintf("Table %d", i+1)
		}
		base = truncateRunes(base, maxSheetName)

		name := base
		for n := 2; used[strings.ToLower(name)]; n++ {
			suffix := fmt.Sprintf(" (%d)", n)
			name = truncateRunes(base, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
