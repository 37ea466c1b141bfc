package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tablex"
)

// Ensure LoggingExtractor implements tablex.Extractor.
var _ tablex.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   tablex.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next tablex.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor, logging each batch at debug
// level and the outcome at info level.
func (e *LoggingExtractor) Extract(ctx context.Context, html string, opts tablex.ExtractOptions, progress tablex.ExtractProgressFunc) (result *tablex.ExtractResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		}
		if result != nil {
			attrs = append(attrs, "tables", len(result.Tables), "kind", result.Kind)
			if result.Message != "" {
				attrs = append(attrs, "message", result.Message)
			}
		}
		e.logger.Info("extract", attrs...)
	}(time.Now())

	logged := func(p tablex.ExtractProgress) {
		e.logger.Debug("extract batch", "completed", p.Completed, "total", p.Total)
		if progress != nil {
			progress(p)
		}
	}
	return e.next.Extract(ctx, html, opts, logged)
}

// Ensure LoggingRestructurer implements tablex.Restructurer.
var _ tablex.Restructurer = (*LoggingRestructurer)(nil)

// LoggingRestructurer wraps a Restructurer with logging.
type LoggingRestructurer struct {
	next   tablex.Restructurer
	logger *slog.Logger
}

// NewLoggingRestructurer creates a new LoggingRestructurer.
func NewLoggingRestructurer(next tablex.Restructurer, logger *slog.Logger) *LoggingRestructurer {
	return &LoggingRestructurer{next: next, logger: logger}
}

// Restructure delegates to the wrapped restructurer and logs the node count.
func (r *LoggingRestructurer) Restructure(records []tablex.Record) (s *tablex.Statement, err error) {
	defer func(begin time.Time) {
		nodes := 0
		if s != nil {
			s.Walk(func(*tablex.Node, int) { nodes++ })
		}
		r.logger.Info("restructure",
			"records", len(records),
			"nodes", nodes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Restructure(records)
}

var _ tablex.JSONRestructurer = (*LoggingJSONRestructurer)(nil)

// LoggingJSONRestructurer logs the outcome of each JSON restructuring.
// Failed results are logged at warn level with their message.
type LoggingJSONRestructurer struct {
	next   tablex.JSONRestructurer
	logger *slog.Logger
}

func NewLoggingJSONRestructurer(next tablex.JSONRestructurer, logger *slog.Logger) *LoggingJSONRestructurer {
	return &LoggingJSONRestructurer{next: next, logger: logger}
}

func (r *LoggingJSONRestructurer) RestructureJSON(data []byte) tablex.RestructureResult {
	begin := time.Now()
	result := r.next.RestructureJSON(data)
	if !result.Success {
		r.logger.Warn("restructure json failed", "bytes", len(data), "message", result.Message)
		return result
	}
	r.logger.Info("restructure json", "bytes", len(data), "duration", time.Since(begin))
	return result
}
