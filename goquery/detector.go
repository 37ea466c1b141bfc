package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
)

// Ensure Detector implements tablex.Detector at compile time.
var _ tablex.Detector = (*Detector)(nil)

// Detector identifies inline XBRL documents from HTML content.
// It checks for the ix namespace declaration on any element and for
// elements in the ix namespace, such as ix:header or ix:nonFraction.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the document kind.
// Returns KindPlain if the document cannot be parsed.
func (d *Detector) Detect(html string) tablex.DocumentKind {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return tablex.KindPlain
	}
	return detectKind(doc)
}

func detectKind(doc *goquery.Document) tablex.DocumentKind {
	kind := tablex.KindPlain
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.HasPrefix(strings.ToLower(goquery.NodeName(s)), "ix:") || hasIXNamespace(s) {
			kind = tablex.KindInlineXBRL
			return false
		}
		return true
	})
	return kind
}

// hasIXNamespace reports whether the element declares the inline XBRL namespace.
func hasIXNamespace(s *goquery.Selection) bool {
	for _, n := range s.Nodes {
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, "xmlns:ix") {
				return true
			}
			if strings.HasPrefix(strings.ToLower(a.Key), "xmlns") && strings.Contains(a.Val, "inlineXBRL") {
				return true
			}
		}
	}
	return false
}
