// Package include expands "@include:name" field references into the text
// a Resolver returns for that name, recursively, with cycle detection.
//
// Expansion runs as a Field handler on visitor.Walk: cycle detection reads
// and pushes onto ctx.IncludeStack, which Walk itself pops back to its
// pre-call length once the subtree a pushed name covers has been fully
// walked, so recursive @include references within the resolved text are
// picked up by Walk's own recursion into the replacement node rather than
// by a second, separately-driven traversal.
package include

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/parser"
	"github.com/lucenequery/lucene/visitor"
	"github.com/lucenequery/lucene/visitor/validate"
)

// fieldName is the reserved field name an include reference is written
// under: "@include:report_filters".
const fieldName = "@include"

// Resolver looks up the replacement text for an include name.
type Resolver interface {
	Resolve(ctx *visitor.Context, name string) (text string, found bool, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx *visitor.Context, name string) (string, bool, error)

func (f ResolverFunc) Resolve(ctx *visitor.Context, name string) (string, bool, error) {
	return f(ctx, name)
}

// Options configures Expand.
type Options struct {
	Resolver Resolver
	// DefaultOperator resolves clauses without an explicit AND/OR inside
	// resolved include text, same as the outer document's parse.
	DefaultOperator parser.DefaultOperator
	// MaxDepth bounds recursive expansion even absent an outright cycle
	// (e.g. a long chain of distinct includes). Zero means unbounded.
	MaxDepth int
	// Skip, when non-nil, marks include names left untouched.
	Skip func(name string) bool
}

// Error describes one include reference that could not be fully expanded.
type Error struct {
	Name    string
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("include %q: %s", e.Name, e.Message) }

// Register installs the include-expansion handler onto chain at priority.
// When ctx already carries a *validate.Result (via validate.ContextResult),
// every reference is also mirrored into it through RecordReferencedInclude
// / RecordUnresolvedInclude, so a caller running validate and include on
// the same chain gets one consistent bookkeeping of include names instead
// of two disconnected summaries.
func Register(chain *visitor.Chain, ctx *visitor.Context, priority int, opts Options) (errs func() []error) {
	var collected []error

	record := func(name, msg string) {
		collected = append(collected, Error{Name: name, Message: msg})
		if result, ok := validate.ResultFromContext(ctx); ok {
			if name != "" {
				result.RecordUnresolvedInclude(name, msg)
			} else {
				result.Errors = append(result.Errors, msg)
			}
		}
	}
	refer := func(name string) {
		if result, ok := validate.ResultFromContext(ctx); ok {
			result.RecordReferencedInclude(name)
		}
	}

	visitor.Add[*ast.Field](chain, priority, func(ctx *visitor.Context, f *ast.Field) (ast.Node, error) {
		return handleField(ctx, f, opts, record, refer), nil
	})

	return func() []error { return collected }
}

// Expand returns a new document with every @include reference replaced by
// the parsed, recursively expanded query it resolves to. Unresolvable or
// cyclic references are left in place and reported in the returned error
// slice; Expand never returns a nil document.
func Expand(ctx *visitor.Context, doc *ast.Document, opts Options) (*ast.Document, []error) {
	if doc == nil || doc.Query == nil {
		return doc, nil
	}

	chain := visitor.NewChain()
	errsFn := Register(chain, ctx, 0, opts)

	query, err := visitor.Walk(ctx, doc.Query, chain)
	if err != nil {
		return doc, append(errsFn(), err)
	}
	return ast.NewDocument(doc.Span(), query), errsFn()
}

// handleField resolves a single @include:name field. On any failure it
// records an error and leaves the original reference in the tree so the
// document stays well-formed.
func handleField(ctx *visitor.Context, f *ast.Field, opts Options, record func(name, msg string), refer func(name string)) ast.Node {
	if !strings.EqualFold(f.FieldName, fieldName) {
		return f
	}

	name, ok := includeName(f.Query)
	if !ok {
		record("", "@include value must be a term or phrase")
		return f
	}
	refer(name)

	if opts.Skip != nil && opts.Skip(name) {
		return f
	}

	for _, seen := range ctx.IncludeStack {
		if strings.EqualFold(seen, name) {
			record(name, "Circular include: "+name)
			return f
		}
	}
	if opts.MaxDepth > 0 && len(ctx.IncludeStack) >= opts.MaxDepth {
		record(name, "max include depth exceeded")
		return f
	}
	if opts.Resolver == nil {
		record(name, "no resolver configured")
		return f
	}

	text, found, err := opts.Resolver.Resolve(ctx, name)
	if err != nil {
		record(name, errors.Wrapf(err, "resolving include %q", name).Error())
		return f
	}
	if !found {
		record(name, "unresolved include")
		return f
	}

	result := parser.Parse(text, opts.DefaultOperator)
	for _, pe := range result.Errors {
		record(name, pe.Message)
	}
	if len(result.Errors) > 0 {
		return f
	}

	var expanded ast.Node = ast.NewBoolean(f.Span(), nil)
	if result.Document.Query != nil {
		expanded = result.Document.Query
	}

	ctx.IncludeStack = append(append([]string{}, ctx.IncludeStack...), name)

	// An include always expands inside a Group, even when the resolved
	// text is a single bare term, so its boundaries stay intact no matter
	// what operator context it's spliced into.
	return ast.NewGroup(f.Span(), expanded, nil)
}

func includeName(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.Term:
		return v.UnescapedTerm, true
	case *ast.Phrase:
		return v.PhraseText, true
	default:
		return "", false
	}
}
