package mock

import (
	"context"

	"github.com/fwojciec/tablex"
)

var _ tablex.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tablex.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ tablex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of tablex.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ tablex.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of tablex.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]tablex.Link, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]tablex.Link, error) {
	return e.ExtractLinksFn(html, baseURL)
}
