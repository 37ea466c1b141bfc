package tablex

import "context"

// MsgNoTables is reported when a document contains no table elements.
const MsgNoTables = "no tables found in the document"

// ExtractOptions controls how tables are normalized.
type ExtractOptions struct {
	DetectHeaders       bool `json:"detectHeaders" yaml:"detect_headers"`
	TrimWhitespace      bool `json:"trimWhitespace" yaml:"trim_whitespace"`
	IgnoreEmptyRows     bool `json:"ignoreEmptyRows" yaml:"ignore_empty_rows"`
	ConvertSpecialChars bool `json:"convertSpecialChars" yaml:"convert_special_chars"`
	ExtractXBRLTags     bool `json:"extractXbrlTags" yaml:"extract_xbrl_tags"`
}

// DefaultExtractOptions returns options with every step enabled.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		DetectHeaders:       true,
		TrimWhitespace:      true,
		IgnoreEmptyRows:     true,
		ConvertSpecialChars: true,
		ExtractXBRLTags:     true,
	}
}

// DocumentKind classifies an HTML document.
type DocumentKind string

// Document kinds.
const (
	KindPlain      DocumentKind = "plain"
	KindInlineXBRL DocumentKind = "inline-xbrl"
)

// ExtractResult holds the tables extracted from one document.
type ExtractResult struct {
	Tables []*Table
	Kind   DocumentKind

	// Message describes an empty result. It is not an error: a document
	// without tables is a valid input.
	Message string
}

// Empty reports whether no tables were extracted.
func (r *ExtractResult) Empty() bool {
	return len(r.Tables) == 0
}

// ExtractProgress reports how many tables of a document have been processed.
type ExtractProgress struct {
	Completed int
	Total     int
}

// Proportion returns the completed fraction in [0, 1].
func (p ExtractProgress) Proportion() float64 {
	if p.Total == 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// ExtractProgressFunc is called after each batch of tables.
type ExtractProgressFunc func(ExtractProgress)

// Extractor extracts normalized tables from HTML documents.
type Extractor interface {
	// Extract parses html and returns every table it contains.
	// A document with no tables yields an empty result with Message set.
	// The progress callback may be nil.
	Extract(ctx context.Context, html string, opts ExtractOptions, progress ExtractProgressFunc) (*ExtractResult, error)
}

// Detector classifies HTML documents.
type Detector interface {
	// Detect returns KindInlineXBRL for inline XBRL documents and
	// KindPlain otherwise.
	Detect(html string) DocumentKind
}
