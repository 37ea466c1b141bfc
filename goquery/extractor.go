// Package goquery implements table extraction and document detection on top
// of the goquery HTML document model.
package goquery

import (
	"context"
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of tables processed between progress reports.
const DefaultBatchSize = 5

// maxColspan caps colspan expansion for malformed markup.
const maxColspan = 1000

// Ensure Extractor implements tablex.Extractor at compile time.
var _ tablex.Extractor = (*Extractor)(nil)

// Extractor extracts normalized tables from HTML documents.
// Extractor is safe for concurrent use by multiple goroutines.
type Extractor struct {
	logger    *slog.Logger
	batchSize int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-cell XBRL diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithBatchSize sets how many tables are processed per batch.
// Defaults to DefaultBatchSize (5) if not specified.
func WithBatchSize(n int) Option {
	return func(e *Extractor) {
		e.batchSize = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		logger:    slog.New(slog.DiscardHandler),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.batchSize <= 0 {
		e.batchSize = DefaultBatchSize
	}
	return e
}

// Extract parses rawHTML and returns every table it contains.
//
// Tables are processed in batches. Tables of one batch are normalized
// concurrently; the progress callback runs after each batch and the context
// is checked before the next one starts.
func (e *Extractor) Extract(ctx context.Context, rawHTML string, opts tablex.ExtractOptions, progress tablex.ExtractProgressFunc) (*tablex.ExtractResult, error) {
	if err := tablex.ValidateText(rawHTML); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "failed to parse HTML: %v", err)
	}

	result := &tablex.ExtractResult{Kind: detectKind(doc)}

	found := doc.Find("table")
	total := found.Length()
	if total == 0 {
		result.Message = tablex.MsgNoTables
		return result, nil
	}

	tables := make([]*tablex.Table, total)
	for start := 0; start < total; start += e.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+e.batchSize, total)
		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				tables[i] = e.extractTable(found.Eq(i), i+1, opts)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		if progress != nil {
			progress(tablex.ExtractProgress{Completed: end, Total: total})
		}
	}

	result.Tables = tables
	return result, nil
}

// extractTable normalizes one table element into a rectangular grid.
func (e *Extractor) extractTable(sel *goquery.Selection, n int, opts tablex.ExtractOptions) *tablex.Table {
	mode := tablex.ModePlain
	if opts.ExtractXBRLTags {
		mode = tablex.ModeXBRL
	}
	tagged := mode == tablex.ModeXBRL

	var rows [][]tablex.Cell
	maxCols := 0

	sel.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var row []tablex.Cell
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			text := cellText(td, opts)

			cell := tablex.Cell{Value: text, Tagged: tagged}
			if opts.ExtractXBRLTags {
				cell.Tag, cell.Info = e.findTag(td)
			}
			row = append(row, cell)

			for range spanAttr(td, "colspan") - 1 {
				row = append(row, tablex.Cell{Tagged: tagged})
			}

			// rowspan is not expanded into the following rows.
			if span := spanAttr(td, "rowspan"); span > 1 {
				e.logger.Debug("rowspan ignored", "table", n, "rowspan", span)
			}
		})

		if opts.IgnoreEmptyRows && blankRow(row) {
			return
		}

		maxCols = max(maxCols, len(row))
		rows = append(rows, row)
	})

	for i, row := range rows {
		for len(row) < maxCols {
			row = append(row, tablex.Cell{Tagged: tagged})
		}
		rows[i] = row
	}

	t := &tablex.Table{
		ID:    "table-" + strconv.Itoa(n),
		Label: "table-" + strconv.Itoa(n),
		Mode:  mode,
	}

	if h := tablex.DetectHeaderRow(rows, opts.DetectHeaders); h >= 0 {
		t.Headers = rows[h]
		t.Rows = append(rows[:h:h], rows[h+1:]...)
	} else {
		t.Headers = tablex.SyntheticHeaders(maxCols, tagged)
		t.Rows = rows
	}
	if t.Rows == nil {
		t.Rows = [][]tablex.Cell{}
	}

	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		e.logger.Debug("render table markup", "table", t.ID, "err", err)
	}
	t.OriginalMarkup = markup

	t.Recompute()
	return t
}

var (
	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}\x{FEFF}]+`)
	specialChars = strings.NewReplacer(
		"△", "-", "▲", "-",
		"−", "-", "－", "-", "‒", "-", "–", "-",
		"　", " ",
	)
)

// cellText returns the normalized text content of a cell.
func cellText(td *goquery.Selection, opts tablex.ExtractOptions) string {
	text := td.Text()
	if opts.TrimWhitespace {
		text = collapseWhitespace(text)
	}
	if opts.ConvertSpecialChars {
		text = html.UnescapeString(specialChars.Replace(text))
		if opts.TrimWhitespace {
			text = collapseWhitespace(text)
		}
	}
	return text
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// spanAttr reads a span attribute. Missing or invalid values are 1.
func spanAttr(sel *goquery.Selection, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(sel.AttrOr(name, "1")))
	if err != nil || v < 1 {
		return 1
	}
	return min(v, maxColspan)
}

func blankRow(row []tablex.Cell) bool {
	for _, c := range row {
		if strings.TrimSpace(tablex.CellValue(c)) != "" {
			return false
		}
	}
	return true
}
