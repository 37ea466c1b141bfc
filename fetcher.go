package tablex

import "context"

// Fetcher downloads a disclosure document so its tables can be extracted.
type Fetcher interface {
	// Fetch returns the document at url as UTF-8 HTML.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close stops any browser or connection pool the fetcher owns.
	Close() error
}

// DomainLimiter paces requests made to a single host.
type DomainLimiter interface {
	// Wait returns once a request to domain may proceed, or with ctx's
	// error if it ends first.
	Wait(ctx context.Context, domain string) error
}
