// Package batch provides multi-source extraction orchestration.
// It resolves sources (files, URLs, stdin), fetches and extracts their
// tables concurrently, and optionally stores the results.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fwojciec/tablex"
	"github.com/fwojciec/tablex/bloom"
	"golang.org/x/sync/errgroup"
)

// Stdin is the source name that reads the document from standard input.
const Stdin = "-"

// DefaultConcurrency is the number of sources processed at once.
const DefaultConcurrency = 4

// Runner extracts tables from many sources.
type Runner struct {
	Fetcher     tablex.Fetcher
	Extractor   tablex.Extractor
	Tables      tablex.TableService
	Limiter     tablex.DomainLimiter
	Concurrency int

	// Input is read for the "-" source. Defaults to os.Stdin.
	Input io.Reader

	// Links, when set, finds documents linked from URL sources. Linked
	// documents are extracted right after the page that lists them.
	Links tablex.LinkExtractor

	// LinkFilter restricts which links are followed.
	LinkFilter *tablex.LinkFilter

	Logger *slog.Logger
}

// Result holds the outcome of a batch run.
type Result struct {
	// Sources holds one entry per unique source, in input order.
	Sources []SourceResult

	Tables     int
	Saved      int
	Skipped    int
	Failed     int
	Duplicates int
	Bytes      int
}

// SourceResult is the outcome of a single source.
type SourceResult struct {
	Source  string
	Bytes   int
	Extract *tablex.ExtractResult
	Err     error
}

// ProgressEvent reports progress during a batch run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Source    string
	Tables    int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

type sourceResult struct {
	position int
	SourceResult
}

// Run extracts tables from every source and, when Tables is set, stores them.
// Per-source failures are reported in the result; Run itself only fails
// when the context is canceled.
func (r *Runner) Run(ctx context.Context, sources []string, opts tablex.ExtractOptions, progress ProgressFunc) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if r.Links != nil {
		sources = r.follow(ctx, sources, logger)
	}

	unique, duplicates := dedupe(sources)
	for _, s := range duplicates {
		logger.Debug("skip duplicate source", "source", s)
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	total := len(unique)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan sourceResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, source := range unique {
			g.Go(func() error {
				resultCh <- r.process(gctx, i, source, opts)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	result := &Result{
		Sources:    make([]SourceResult, total),
		Duplicates: len(duplicates),
	}
	for sr := range resultCh {
		n := int(completed.Add(1))
		result.Sources[sr.position] = sr.SourceResult

		if sr.Err != nil {
			result.Failed++
			logger.Debug("source failed", "source", sr.Source, "error", sr.Err)
			if progress != nil {
				progress(ProgressEvent{Type: ProgressFailed, Completed: n, Total: total, Source: sr.Source, Error: sr.Err})
			}
			continue
		}

		result.Bytes += sr.Bytes
		result.Tables += len(sr.Extract.Tables)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressCompleted, Completed: n, Total: total, Source: sr.Source, Tables: len(sr.Extract.Tables)})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Store in source order so IDs are created deterministically.
	if r.Tables != nil {
		for _, sr := range result.Sources {
			if sr.Err != nil {
				continue
			}
			for _, table := range sr.Extract.Tables {
				err := r.Tables.CreateTable(ctx, table)
				switch {
				case err == nil:
					result.Saved++
				case tablex.ErrorCode(err) == tablex.ECONFLICT:
					result.Skipped++
					logger.Debug("skip stored table", "source", sr.Source, "label", table.Label)
				default:
					return nil, fmt.Errorf("store table %q from %s: %w", table.Label, sr.Source, err)
				}
			}
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	return result, nil
}

func (r *Runner) process(ctx context.Context, position int, source string, opts tablex.ExtractOptions) sourceResult {
	result := sourceResult{position: position}
	result.Source = source

	html, err := r.read(ctx, source)
	if err != nil {
		result.Err = err
		return result
	}
	result.Bytes = len(html)

	extracted, err := r.Extractor.Extract(ctx, html, opts, nil)
	if err != nil {
		result.Err = err
		return result
	}
	for _, table := range extracted.Tables {
		table.Source = source
	}
	result.Extract = extracted

	return result
}

// follow inserts the documents linked from each URL source after it.
// Pages that cannot be fetched are left for the extraction pass to report.
func (r *Runner) follow(ctx context.Context, sources []string, logger *slog.Logger) []string {
	expanded := make([]string, 0, len(sources))
	for _, source := range sources {
		expanded = append(expanded, source)
		if !tablex.IsURL(source) {
			continue
		}

		html, err := r.fetch(ctx, source)
		if err != nil {
			logger.Debug("cannot follow links", "source", source, "error", err)
			continue
		}
		links, err := r.Links.ExtractLinks(html, strings.TrimSpace(source))
		if err != nil {
			logger.Debug("cannot follow links", "source", source, "error", err)
			continue
		}
		n := 0
		for _, link := range links {
			if r.LinkFilter.Match(link.URL) {
				expanded = append(expanded, link.URL)
				n++
			}
		}
		logger.Debug("followed links", "source", source, "found", len(links), "followed", n)
	}
	return expanded
}

// read returns the HTML of a source.
func (r *Runner) read(ctx context.Context, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch {
	case source == Stdin:
		return r.readStdin()
	case tablex.IsURL(source):
		return r.fetch(ctx, source)
	default:
		return ReadFile(source)
	}
}

func (r *Runner) readStdin() (string, error) {
	in := r.Input
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(io.LimitReader(in, tablex.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if err := tablex.ValidateText(string(data)); err != nil {
		return "", err
	}
	return string(data), nil
}

func (r *Runner) fetch(ctx context.Context, source string) (string, error) {
	if err := tablex.ValidateURL(source); err != nil {
		return "", err
	}
	if r.Fetcher == nil {
		return "", tablex.Errorf(tablex.EINVALID, "cannot fetch %s: no fetcher configured", source)
	}
	if r.Limiter != nil {
		u, err := url.Parse(strings.TrimSpace(source))
		if err != nil {
			return "", tablex.Errorf(tablex.EINVALID, "invalid URL %q: %v", source, err)
		}
		if err := r.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	return r.Fetcher.Fetch(ctx, source)
}

// ReadFile validates and reads a local input document.
func ReadFile(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", tablex.Errorf(tablex.ENOTFOUND, "file %q not found", path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", tablex.Errorf(tablex.EINVALID, "%q is a directory", path)
	}
	if err := tablex.ValidateFile(path, info.Size()); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// dedupe drops repeated sources, keeping the first occurrence.
func dedupe(sources []string) (unique, duplicates []string) {
	seen := bloom.NewSourceSet(uint(len(sources)))
	for _, s := range sources {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if seen.Add(s) {
			duplicates = append(duplicates, s)
			continue
		}
		unique = append(unique, s)
	}
	return unique, duplicates
}
