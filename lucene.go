// Package lucene is the public entry point: parse query text, render an
// AST back to text, and run the bundled visitor passes (include
// expansion, field resolution, validation, stats, simplification) over a
// parsed document.
package lucene

import (
	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/parser"
	"github.com/lucenequery/lucene/render"
	"github.com/lucenequery/lucene/visitor"
	"github.com/lucenequery/lucene/visitor/fieldresolve"
	"github.com/lucenequery/lucene/visitor/include"
	"github.com/lucenequery/lucene/visitor/simplify"
	"github.com/lucenequery/lucene/visitor/stats"
	"github.com/lucenequery/lucene/visitor/validate"
)

// DefaultOperator resolves a clause joined to its predecessor with no
// explicit AND/OR.
type DefaultOperator = parser.DefaultOperator

const (
	Or  = parser.Or
	And = parser.And
)

// ParseError is a non-fatal parse diagnostic.
type ParseError = parser.ParseError

// Document wraps a parsed AST with the operations described in the
// package doc: render, run a visitor chain, expand includes, resolve
// fields, validate, and collect stats.
type Document struct {
	*ast.Document
}

// ParseResult is the outcome of Parse.
type ParseResult struct {
	Document *Document
	Errors   []ParseError
}

// IsSuccess reports whether parsing produced no diagnostics.
func (r ParseResult) IsSuccess() bool { return len(r.Errors) == 0 }

// Parse parses text into a ParseResult. Parsing never fails outright: a
// malformed query still yields a well-formed Document, with problems
// surfaced through Errors.
func Parse(text string, defaultOp DefaultOperator) ParseResult {
	res := parser.Parse(text, defaultOp)
	return ParseResult{Document: &Document{res.Document}, Errors: res.Errors}
}

// Render serializes the document back to canonical query text.
func (d *Document) Render() string {
	return render.Render(d.Document)
}

// RunVisitors runs chain over the document, returning a new Document built
// from whatever replacements the chain's handlers made. ctx may be nil, in
// which case a fresh visitor.Context is created.
func (d *Document) RunVisitors(ctx *visitor.Context, chain *visitor.Chain) (*Document, error) {
	ctx = ensureContext(ctx)
	result, err := visitor.Walk(ctx, d.Document, chain)
	if err != nil {
		return nil, err
	}
	return &Document{result.(*ast.Document)}, nil
}

// ExpandIncludes resolves every @include reference in the document via
// opts.Resolver, recursively, returning the expanded document and any
// include-related errors (unresolved names, cycles, parse errors in
// resolved text). It never returns a nil document.
func (d *Document) ExpandIncludes(ctx *visitor.Context, opts include.Options) (*Document, []error) {
	ctx = ensureContext(ctx)
	expanded, errs := include.Expand(ctx, d.Document, opts)
	return &Document{expanded}, errs
}

// ResolveFields rewrites field names through resolver, returning the
// rewritten document and the field names that had no applicable mapping.
func (d *Document) ResolveFields(ctx *visitor.Context, resolver fieldresolve.Resolver) (*Document, []string) {
	ctx = ensureContext(ctx)
	resolved, unresolved := fieldresolve.Resolve(ctx, d.Document, resolver)
	return &Document{resolved}, unresolved
}

// Validate checks the document against opts and returns a summary of what
// it found, without raising even if opts describes a violation.
func (d *Document) Validate(opts validate.Options) (validate.Result, error) {
	opts.ShouldThrow = false
	return validate.Validate(d.Document, opts)
}

// ValidateAndThrow behaves like Validate, but returns a non-nil
// *validate.Exception as its error when the pass finds any violation.
func (d *Document) ValidateAndThrow(opts validate.Options) (validate.Result, error) {
	opts.ShouldThrow = true
	return validate.Validate(d.Document, opts)
}

// Stats tallies the shape of the document: node/clause counts, field
// frequency, wildcard usage, and so on.
func (d *Document) Stats(ctx *visitor.Context) stats.Result {
	ctx = ensureContext(ctx)
	return stats.Collect(ctx, d.Document)
}

// Simplify rewrites the document to an equivalent, smaller form (flattened
// nested booleans, collapsed redundant groups, double negation removed),
// iterating to a fixed point bounded by maxPasses (0 uses
// simplify.DefaultMaxPasses).
func (d *Document) Simplify(maxPasses int) *Document {
	simplified, _ := simplify.Simplify(d.Document, maxPasses)
	return &Document{simplified}
}

func ensureContext(ctx *visitor.Context) *visitor.Context {
	if ctx != nil {
		return ctx
	}
	return visitor.NewContext(nil)
}
