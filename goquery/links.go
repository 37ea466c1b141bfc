package goquery

import (
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tablex"
)

// Ensure LinkExtractor implements tablex.LinkExtractor at compile time.
var _ tablex.LinkExtractor = (*LinkExtractor)(nil)

// documentExtensions are the link targets worth following.
var documentExtensions = []string{".html", ".htm", ".xhtml"}

// LinkExtractor finds links to HTML documents in a page.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns same-host links to HTML documents. Fragments are
// dropped and links back to the page itself are skipped.
func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]tablex.Link, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tablex.Errorf(tablex.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	links := []tablex.Link{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == nil || resolved.Host != base.Host || !isDocument(resolved) {
			return
		}

		u := resolved.String()
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		links = append(links, tablex.Link{URL: u, Text: strings.TrimSpace(sel.Text())})
	})

	return links, nil
}

// resolveURL resolves href against base without its fragment. It returns
// nil for unparsable or self-referential links.
func resolveURL(base *url.URL, href string) *url.URL {
	ref, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return nil
	}
	return resolved
}

func isDocument(u *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return slices.Contains(documentExtensions, strings.ToLower(path.Ext(u.Path)))
}

// isNonHTTPLink reports hrefs with schemes that never lead to a document.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
