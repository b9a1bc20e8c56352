// Package stats runs a narrow, read-only counting pass over a document,
// the query-side analogue of the teacher's result-side TopKCollector: a
// single composable aggregation that never mutates what it walks.
package stats

import (
	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/visitor"
)

// Result is the tally produced by Collect.
type Result struct {
	NodeCount     int
	MaxDepth      int
	FieldCounts   map[string]int
	ClauseCount   int
	MustCount     int
	MustNotCount  int
	ShouldCount   int
	WildcardCount int
	PrefixCount   int
	BoostedCount  int
}

// Register installs stats's counting handlers onto chain at priority, so
// collection can run alongside other passes (validate, include) in one
// Walk instead of its own private recursion.
func Register(chain *visitor.Chain, priority int) *Result {
	r := &Result{FieldCounts: map[string]int{}}

	tally := func(ctx *visitor.Context) {
		r.NodeCount++
		if ctx.Depth > r.MaxDepth {
			r.MaxDepth = ctx.Depth
		}
	}

	visitor.Add[*ast.Group](chain, priority, func(ctx *visitor.Context, v *ast.Group) (ast.Node, error) {
		tally(ctx)
		if v.Boost != nil {
			r.BoostedCount++
		}
		return v, nil
	})
	visitor.Add[*ast.Not](chain, priority, func(ctx *visitor.Context, v *ast.Not) (ast.Node, error) {
		tally(ctx)
		return v, nil
	})
	visitor.Add[*ast.Boolean](chain, priority, func(ctx *visitor.Context, v *ast.Boolean) (ast.Node, error) {
		tally(ctx)
		for _, c := range v.Clauses {
			r.ClauseCount++
			switch c.Occur {
			case ast.Must:
				r.MustCount++
			case ast.MustNot:
				r.MustNotCount++
			default:
				r.ShouldCount++
			}
		}
		return v, nil
	})
	visitor.Add[*ast.Field](chain, priority, func(ctx *visitor.Context, v *ast.Field) (ast.Node, error) {
		tally(ctx)
		r.FieldCounts[v.FieldName]++
		return v, nil
	})
	visitor.Add[*ast.Range](chain, priority, func(ctx *visitor.Context, v *ast.Range) (ast.Node, error) {
		tally(ctx)
		if v.FieldName != "" {
			r.FieldCounts[v.FieldName]++
		}
		return v, nil
	})
	visitor.Add[*ast.Exists](chain, priority, func(ctx *visitor.Context, v *ast.Exists) (ast.Node, error) {
		tally(ctx)
		r.FieldCounts[v.FieldName]++
		return v, nil
	})
	visitor.Add[*ast.Missing](chain, priority, func(ctx *visitor.Context, v *ast.Missing) (ast.Node, error) {
		tally(ctx)
		r.FieldCounts[v.FieldName]++
		return v, nil
	})
	visitor.Add[*ast.Term](chain, priority, func(ctx *visitor.Context, v *ast.Term) (ast.Node, error) {
		tally(ctx)
		if v.IsWildcard {
			r.WildcardCount++
		}
		if v.IsPrefix {
			r.PrefixCount++
		}
		return v, nil
	})
	visitor.Add[*ast.Phrase](chain, priority, func(ctx *visitor.Context, v *ast.Phrase) (ast.Node, error) {
		tally(ctx)
		if v.Boost != nil {
			r.BoostedCount++
		}
		return v, nil
	})
	visitor.Add[*ast.Regex](chain, priority, func(ctx *visitor.Context, v *ast.Regex) (ast.Node, error) {
		tally(ctx)
		return v, nil
	})
	visitor.Add[*ast.MatchAll](chain, priority, func(ctx *visitor.Context, v *ast.MatchAll) (ast.Node, error) {
		tally(ctx)
		return v, nil
	})
	visitor.Add[*ast.MultiTerm](chain, priority, func(ctx *visitor.Context, v *ast.MultiTerm) (ast.Node, error) {
		tally(ctx)
		return v, nil
	})

	return r
}

// Collect walks doc and tallies it into a Result. Unlike validate.Validate
// it never rejects anything; it exists purely to answer "what does this
// query look like", e.g. for telemetry or query-shape dashboards.
func Collect(ctx *visitor.Context, doc *ast.Document) Result {
	chain := visitor.NewChain()
	r := Register(chain, 0)

	if doc != nil && doc.Query != nil {
		visitor.Walk(ctx, doc.Query, chain)
	}
	return *r
}
