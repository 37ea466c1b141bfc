// Package http fetches static disclosure documents over plain HTTP.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/tablex"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds a whole request, body included.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "tablex/1.0 (+https://github.com/fwojciec/tablex)"

var _ tablex.Fetcher = (*Fetcher)(nil)

// Fetcher downloads documents without running their scripts. Inline XBRL
// filings are served fully rendered, so this is the default fetcher.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBytes caps the response body. Defaults to tablex.MaxFileSize.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  tablex.MaxFileSize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch retrieves the document at url and decodes it to UTF-8 using the
// charset declared by the response or the document itself.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := tablex.ValidateURL(url); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", tablex.Errorf(tablex.ENOTFOUND, "no document at %s (HTTP %d)", url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	if resp.ContentLength > f.maxBytes {
		return "", tablex.Errorf(tablex.EINVALID, "document at %s is %d bytes, limit is %d", url, resp.ContentLength, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxBytes {
		return "", tablex.Errorf(tablex.EINVALID, "document at %s exceeds %d bytes", url, f.maxBytes)
	}

	return decode(body, resp.Header.Get("Content-Type"))
}

// decode converts body to UTF-8. Japanese filings still arrive as
// Shift_JIS or EUC-JP.
func decode(body []byte, contentType string) (string, error) {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (name == "windows-1252" && isASCII(body)) {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decode %s body: %w", name, err)
	}
	return string(decoded), nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

// Close drops idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
