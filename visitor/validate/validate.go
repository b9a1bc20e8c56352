// Package validate runs a single read-only pass over a document, checking
// it against a field/operation allow-list and depth budget and collecting
// a summary of what it referenced.
package validate

import (
	"fmt"
	"strings"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/visitor"
)

// Options configures Validate. A nil or zero-value slice for any allow/deny
// list means "no restriction on that axis".
type Options struct {
	AllowedFields        []string
	RestrictedFields     []string
	AllowedOperations    []string
	RestrictedOperations []string
	MaxDepth             int
	AllowLeadingWildcard bool
	ShouldThrow          bool
}

// Result summarizes one validation pass.
type Result struct {
	ReferencedFields   []string
	ReferencedIncludes []string
	UnresolvedIncludes []string // @include names the include visitor could not fully expand
	UnresolvedFields   []string // referenced but not in AllowedFields / excluded by RestrictedFields
	MaxDepthSeen       int
	Operations         map[string]int
	Errors             []string
}

// RecordReferencedInclude appends name to ReferencedIncludes if it hasn't
// already been recorded. Exported so the include visitor can report into
// a Result shared via ContextResult without duplicating validate's own
// @include bookkeeping.
func (r *Result) RecordReferencedInclude(name string) {
	for _, n := range r.ReferencedIncludes {
		if n == name {
			return
		}
	}
	r.ReferencedIncludes = append(r.ReferencedIncludes, name)
}

// RecordUnresolvedInclude appends name to UnresolvedIncludes (once) and
// msg to Errors. Exported for the same reason as RecordReferencedInclude.
func (r *Result) RecordUnresolvedInclude(name, msg string) {
	found := false
	for _, n := range r.UnresolvedIncludes {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		r.UnresolvedIncludes = append(r.UnresolvedIncludes, name)
	}
	r.Errors = append(r.Errors, msg)
}

// Exception is returned from Validate when Options.ShouldThrow is set and
// the pass collected at least one error.
type Exception struct {
	Result Result
}

func (e *Exception) Error() string {
	return fmt.Sprintf("query validation failed: %s", strings.Join(e.Result.Errors, "; "))
}

const resultContextKey = "validate.result"

// ContextResult stashes result into ctx under a well-known key, so any
// other visitor composed onto the same chain (the include visitor, in
// particular) can record its own diagnostics into the same
// ValidationResult instead of returning them disconnected from validate's.
func ContextResult(ctx *visitor.Context, result *Result) {
	ctx.Set(resultContextKey, result)
}

// ResultFromContext retrieves a Result previously stashed with
// ContextResult.
func ResultFromContext(ctx *visitor.Context) (*Result, bool) {
	return visitor.GetTyped[*Result](ctx, resultContextKey)
}

type tracker struct {
	opts      Options
	result    *Result
	seenField map[string]bool
}

// Register installs validate's handlers onto chain at priority and stores
// the Result they write into via ContextResult, so it can run alongside
// other passes (include expansion, in particular) in one Walk, sharing
// state through ctx rather than each pass returning its own disconnected
// summary.
func Register(chain *visitor.Chain, ctx *visitor.Context, priority int, opts Options) *Result {
	t := &tracker{
		opts:      opts,
		result:    &Result{Operations: map[string]int{}},
		seenField: map[string]bool{},
	}
	ContextResult(ctx, t.result)

	track := func(ctx *visitor.Context, n ast.Node) {
		if ctx.Depth > t.result.MaxDepthSeen {
			t.result.MaxDepthSeen = ctx.Depth
		}
		if t.opts.MaxDepth > 0 && ctx.Depth > t.opts.MaxDepth {
			t.addError(fmt.Sprintf("max depth %d exceeded at depth %d", t.opts.MaxDepth, ctx.Depth))
		}
		t.result.Operations[n.Kind().String()]++
		t.checkOperation(n.Kind())
	}

	visitor.Add[*ast.Group](chain, priority, func(ctx *visitor.Context, v *ast.Group) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.Not](chain, priority, func(ctx *visitor.Context, v *ast.Not) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.Boolean](chain, priority, func(ctx *visitor.Context, v *ast.Boolean) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.Field](chain, priority, func(ctx *visitor.Context, v *ast.Field) (ast.Node, error) {
		track(ctx, v)
		if strings.EqualFold(v.FieldName, "@include") {
			t.recordInclude(v.Query)
		} else {
			t.checkField(v.FieldName)
		}
		return v, nil
	})
	visitor.Add[*ast.Range](chain, priority, func(ctx *visitor.Context, v *ast.Range) (ast.Node, error) {
		track(ctx, v)
		if v.FieldName != "" {
			t.checkField(v.FieldName)
		}
		return v, nil
	})
	visitor.Add[*ast.Exists](chain, priority, func(ctx *visitor.Context, v *ast.Exists) (ast.Node, error) {
		track(ctx, v)
		t.checkField(v.FieldName)
		return v, nil
	})
	visitor.Add[*ast.Missing](chain, priority, func(ctx *visitor.Context, v *ast.Missing) (ast.Node, error) {
		track(ctx, v)
		t.checkField(v.FieldName)
		return v, nil
	})
	visitor.Add[*ast.Term](chain, priority, func(ctx *visitor.Context, v *ast.Term) (ast.Node, error) {
		track(ctx, v)
		if v.IsWildcard && ast.HasLeadingWildcard(v.RawTerm) && !t.opts.AllowLeadingWildcard {
			t.addError(fmt.Sprintf("leading wildcard not allowed: %q", v.RawTerm))
		}
		return v, nil
	})
	visitor.Add[*ast.Phrase](chain, priority, func(ctx *visitor.Context, v *ast.Phrase) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.Regex](chain, priority, func(ctx *visitor.Context, v *ast.Regex) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.MatchAll](chain, priority, func(ctx *visitor.Context, v *ast.MatchAll) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})
	visitor.Add[*ast.MultiTerm](chain, priority, func(ctx *visitor.Context, v *ast.MultiTerm) (ast.Node, error) {
		track(ctx, v)
		return v, nil
	})

	return t.result
}

// Validate walks doc and returns a Result. When opts.ShouldThrow is true
// and the pass produced any error, Validate returns a non-nil *Exception
// alongside the (still fully populated) Result.
func Validate(doc *ast.Document, opts Options) (Result, error) {
	ctx := visitor.NewContext(nil)
	chain := visitor.NewChain()
	result := Register(chain, ctx, 0, opts)

	if doc != nil && doc.Query != nil {
		if _, err := visitor.Walk(ctx, doc.Query, chain); err != nil {
			return *result, err
		}
	}
	if opts.ShouldThrow && len(result.Errors) > 0 {
		return *result, &Exception{Result: *result}
	}
	return *result, nil
}

func (t *tracker) recordInclude(value ast.Node) {
	name, ok := includeNameOf(value)
	if !ok {
		return
	}
	t.result.RecordReferencedInclude(name)
}

func includeNameOf(value ast.Node) (string, bool) {
	switch val := value.(type) {
	case *ast.Term:
		return val.UnescapedTerm, true
	case *ast.Phrase:
		return val.PhraseText, true
	default:
		return "", false
	}
}

func (t *tracker) checkField(name string) {
	if !t.seenField[name] {
		t.seenField[name] = true
		t.result.ReferencedFields = append(t.result.ReferencedFields, name)
	}

	allowed := true
	if len(t.opts.AllowedFields) > 0 {
		allowed = containsFold(t.opts.AllowedFields, name)
	}
	if allowed && len(t.opts.RestrictedFields) > 0 && containsFold(t.opts.RestrictedFields, name) {
		allowed = false
	}
	if !allowed {
		if !containsFold(t.result.UnresolvedFields, name) {
			t.result.UnresolvedFields = append(t.result.UnresolvedFields, name)
		}
		t.addError(fmt.Sprintf("field %q is not permitted", name))
	}
}

func (t *tracker) checkOperation(kind ast.Kind) {
	name := kind.String()
	if len(t.opts.AllowedOperations) > 0 && !containsFold(t.opts.AllowedOperations, name) {
		t.addError(fmt.Sprintf("operation %q is not permitted", name))
	}
	if len(t.opts.RestrictedOperations) > 0 && containsFold(t.opts.RestrictedOperations, name) {
		t.addError(fmt.Sprintf("operation %q is restricted", name))
	}
}

func (t *tracker) addError(msg string) {
	t.result.Errors = append(t.result.Errors, msg)
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
