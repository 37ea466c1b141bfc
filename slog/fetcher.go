// Package slog decorates tablex services with structured logging.
package slog

import (
	"context"
	"log/slog"
	neturl "net/url"
	"time"

	"github.com/fwojciec/tablex"
)

var _ tablex.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every page fetch. Successful fetches are logged at
// debug level and failures at warn level.
type LoggingFetcher struct {
	next   tablex.Fetcher
	logger *slog.Logger
}

func NewLoggingFetcher(next tablex.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)

	logger := f.logger.With("host", hostOf(url), "url", url, "duration", time.Since(begin))
	if err != nil {
		logger.WarnContext(ctx, "fetch failed", "err", err)
		return html, err
	}
	logger.DebugContext(ctx, "fetched", "bytes", len(html))
	return html, nil
}

func (f *LoggingFetcher) Close() error {
	err := f.next.Close()
	if err != nil {
		f.logger.Warn("fetcher close failed", "err", err)
	}
	return err
}

func hostOf(raw string) string {
	u, err := neturl.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
