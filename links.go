package tablex

import "regexp"

// Link is a reference from one document to another.
type Link struct {
	URL  string
	Text string
}

// LinkExtractor finds links to further input documents in a page, such as
// the report files listed on a filing index.
type LinkExtractor interface {
	// ExtractLinks returns absolute links on the same host as baseURL that
	// point to supported documents, in document order without duplicates.
	ExtractLinks(html, baseURL string) ([]Link, error)
}

// LinkFilter selects followed links by URL pattern.
type LinkFilter struct {
	// Include, when set, keeps only URLs matching at least one pattern.
	Include []*regexp.Regexp

	// Exclude drops URLs matching any pattern. It is applied after Include.
	Exclude []*regexp.Regexp
}

// NewLinkFilter compiles include and exclude patterns.
func NewLinkFilter(include, exclude []string) (*LinkFilter, error) {
	f := &LinkFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid include pattern %q: %v", p, err)
		}
		f.Include = append(f.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match reports whether url passes the filter. A nil filter passes all.
func (f *LinkFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}
	return true
}
