package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
)

// taxonomyRe matches element names from the Japanese EDINET taxonomies.
var taxonomyRe = regexp.MustCompile(`^(jppfs_cor:|jpcrp[^:]*:|jpdei_cor:)`)

// findTag searches the cell subtree for an XBRL tag. Inline XBRL
// nonFraction elements win over nonNumeric elements, which win over any
// element with a namespaced name attribute. Within each kind the first
// element in document order is used. Elements without a usable name are
// skipped and never fail the extraction.
func (e *Extractor) findTag(td *goquery.Selection) (string, *tablex.XBRLInfo) {
	var nonFraction, nonNumeric, named *goquery.Selection

	td.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch elementKind(goquery.NodeName(s)) {
		case tablex.XBRLNonFraction:
			if nonFraction == nil && e.hasName(s) {
				nonFraction = s
			}
		case tablex.XBRLNonNumeric:
			if nonNumeric == nil && e.hasName(s) {
				nonNumeric = s
			}
		default:
			if named == nil && isTaxonomyName(s.AttrOr("name", "")) {
				named = s
			}
		}
		return nonFraction == nil
	})

	switch {
	case nonFraction != nil:
		return nonFraction.AttrOr("name", ""), &tablex.XBRLInfo{
			Type:       tablex.XBRLNonFraction,
			Name:       nonFraction.AttrOr("name", ""),
			ContextRef: nonFraction.AttrOr("contextref", ""),
			UnitRef:    nonFraction.AttrOr("unitref", ""),
			Decimals:   nonFraction.AttrOr("decimals", ""),
			Scale:      nonFraction.AttrOr("scale", ""),
			Format:     nonFraction.AttrOr("format", ""),
		}
	case nonNumeric != nil:
		return nonNumeric.AttrOr("name", ""), &tablex.XBRLInfo{
			Type:       tablex.XBRLNonNumeric,
			Name:       nonNumeric.AttrOr("name", ""),
			ContextRef: nonNumeric.AttrOr("contextref", ""),
			Escape:     nonNumeric.AttrOr("escape", ""),
			Format:     nonNumeric.AttrOr("format", ""),
		}
	case named != nil:
		return named.AttrOr("name", ""), nil
	}
	return "", nil
}

func (e *Extractor) hasName(s *goquery.Selection) bool {
	if strings.TrimSpace(s.AttrOr("name", "")) == "" {
		e.logger.Debug("inline XBRL element without name", "element", goquery.NodeName(s))
		return false
	}
	return true
}

// elementKind classifies an element by its (lower-cased) tag name.
func elementKind(name string) tablex.XBRLType {
	name = strings.ToLower(name)
	switch {
	case name == "nonfraction" || strings.HasSuffix(name, ":nonfraction"):
		return tablex.XBRLNonFraction
	case name == "nonnumeric" || strings.HasSuffix(name, ":nonnumeric"):
		return tablex.XBRLNonNumeric
	}
	return ""
}

func isTaxonomyName(name string) bool {
	name = strings.TrimSpace(name)
	return taxonomyRe.MatchString(name) || strings.Contains(name, ":")
}
