package mock

import (
	"context"

	"github.com/fwojciec/tablex"
)

var _ tablex.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tablex.Extractor.
type Extractor struct {
	ExtractFn func(ctx context.Context, html string, opts tablex.ExtractOptions, progress tablex.ExtractProgressFunc) (*tablex.ExtractResult, error)
}

func (e *Extractor) Extract(ctx context.Context, html string, opts tablex.ExtractOptions, progress tablex.ExtractProgressFunc) (*tablex.ExtractResult, error) {
	return e.ExtractFn(ctx, html, opts, progress)
}

var _ tablex.Restructurer = (*Restructurer)(nil)

// Restructurer is a mock implementation of tablex.Restructurer.
type Restructurer struct {
	RestructureFn func(records []tablex.Record) (*tablex.Statement, error)
}

func (r *Restructurer) Restructure(records []tablex.Record) (*tablex.Statement, error) {
	return r.RestructureFn(records)
}

var _ tablex.JSONRestructurer = (*JSONRestructurer)(nil)

// JSONRestructurer is a mock implementation of tablex.JSONRestructurer.
type JSONRestructurer struct {
	RestructureJSONFn func(data []byte) tablex.RestructureResult
}

func (r *JSONRestructurer) RestructureJSON(data []byte) tablex.RestructureResult {
	return r.RestructureJSONFn(data)
}
