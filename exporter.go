package tablex

import (
	"io"
	"strings"
)

// Format names an export format.
type Format string

// Export formats.
const (
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatExcel    Format = "xlsx"
	FormatMarkdown Format = "markdown"
	FormatXBRL     Format = "xbrl"
	FormatText     Format = "text"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatJSON, FormatExcel, FormatMarkdown, FormatXBRL, FormatText}

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "md":
		return FormatMarkdown, nil
	case "excel", "xls":
		return FormatExcel, nil
	case "txt":
		return FormatText, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", Errorf(EINVALID, "unknown format %q", s)
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatXBRL:
		return ".xml"
	case FormatText:
		return ".txt"
	}
	return "." + string(f)
}

// ExportOptions controls what an exporter writes.
type ExportOptions struct {
	// IncludeXBRL adds XBRL tags next to cell values where the format allows.
	IncludeXBRL bool
}

// Exporter writes tables in a specific output format.
type Exporter interface {
	// Export writes tables to w.
	Export(w io.Writer, tables []*Table, opts ExportOptions) error
}
