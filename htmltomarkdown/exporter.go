// Package htmltomarkdown exports tables as Markdown pipe tables.
package htmltomarkdown

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/tablex"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Exporter implements tablex.Exporter at compile time.
var _ tablex.Exporter = (*Exporter)(nil)

// Exporter renders each table to clean HTML and converts it to Markdown.
type Exporter struct {
	conv *converter.Converter
}

// NewExporter creates a new Markdown Exporter.
func NewExporter() *Exporter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Exporter{conv: conv}
}

// Export writes every table under a level-two heading with its label. With
// IncludeXBRL every column is followed by a "<header>_XBRL" column.
func (e *Exporter) Export(w io.Writer, tables []*tablex.Table, opts tablex.ExportOptions) error {
	for i, t := range tables {
		md, err := e.Convert(RenderHTML(t, opts.IncludeXBRL))
		if err != nil {
			return fmt.Errorf("export %s: %w", t.Label, err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, strings.TrimSpace(md)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Convert transforms HTML content into Markdown.
func (e *Exporter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", tablex.Errorf(tablex.EINVALID, "empty HTML input")
	}
	return e.conv.ConvertString(html)
}

// RenderHTML returns the table as a heading and a minimal <table> with a
// <thead> built from the record keys.
func RenderHTML(t *tablex.Table, withTags bool) string {
	keys := tablex.RecordKeys(t)

	heading := element(atom.H2, text(t.Label))

	var headerCells []*html.Node
	for _, key := range keys {
		headerCells = append(headerCells, element(atom.Th, text(key)))
		if withTags {
			headerCells = append(headerCells, element(atom.Th, text(key+tablex.TagSuffix)))
		}
	}
	thead := element(atom.Thead, element(atom.Tr, headerCells...))

	var rows []*html.Node
	for _, rec := range tablex.Records(t, withTags) {
		cells := make([]*html.Node, len(rec))
		for i, f := range rec {
			cells[i] = element(atom.Td, text(f.Value))
		}
		rows = append(rows, element(atom.Tr, cells...))
	}
	tbody := element(atom.Tbody, rows...)

	var buf bytes.Buffer
	if t.Label != "" {
		_ = html.Render(&buf, heading)
	}
	_ = html.Render(&buf, element(atom.Table, thead, tbody))
	return buf.String()
}

func element(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
