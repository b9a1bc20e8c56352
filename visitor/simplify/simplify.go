// Package simplify rewrites an AST to an equivalent, smaller form by
// repeated application of a small rule set until a fixed point (or a pass
// budget) is reached. It is adapted from the teacher's query-optimizer
// pass over its execution-time BooleanQuery: same fixed-point loop and
// same flatten/collapse shape, translated to this package's flat,
// connector-labeled clause list instead of a per-clause Must/Should/MustNot
// boolean tree. Traversal itself is delegated to visitor.Walk: each rule
// below is a plain Add[T] handler, so the rules above compose with any
// other pass registered on the same chain instead of hand-rolling their
// own recursion.
package simplify

import (
	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/visitor"
)

// DefaultMaxPasses bounds the fixed-point loop so a pathological or buggy
// rule can't spin forever. Because each Walk pass only collapses one
// level of nesting at a time (a handler sees a node before its children
// have been rewritten by this same pass), a deeply nested query can take
// more than one pass to fully simplify; the bound just needs enough
// headroom to cover any realistic nesting depth.
const DefaultMaxPasses = 32

// Register installs simplify's rewrite rules onto chain at priority, so
// they can run in one Walk alongside other passes.
func Register(chain *visitor.Chain, priority int) {
	visitor.Add[*ast.Group](chain, priority, simplifyGroup)
	visitor.Add[*ast.Not](chain, priority, simplifyNot)
	visitor.Add[*ast.Boolean](chain, priority, simplifyBoolean)
}

// Simplify rewrites doc until no rule changes it or maxPasses is reached
// (0 uses DefaultMaxPasses). It returns the simplified document and the
// number of passes actually applied.
func Simplify(doc *ast.Document, maxPasses int) (*ast.Document, int) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	if doc == nil || doc.Query == nil {
		return doc, 0
	}

	chain := visitor.NewChain()
	Register(chain, 0)
	ctx := visitor.NewContext(nil)

	query := doc.Query
	passes := 0
	for passes < maxPasses {
		next, err := visitor.Walk(ctx, query, chain)
		passes++
		if err != nil {
			// None of the rules above ever return an error.
			break
		}
		if next == query {
			break
		}
		query = next
	}
	if query == doc.Query {
		return doc, passes
	}
	return ast.NewDocument(doc.Span(), query), passes
}

// simplifyGroup drops a group entirely when it wraps a node that carries
// no boost and never needed parentheses in the first place (a bare term,
// phrase, range, and so on).
func simplifyGroup(_ *visitor.Context, g *ast.Group) (ast.Node, error) {
	if g.Boost == nil && !needsGroup(g.Query) {
		return g.Query, nil
	}
	return g, nil
}

// needsGroup mirrors render.needsParens: only a Boolean or a Not actually
// depends on the parentheses a Group supplies.
func needsGroup(n ast.Node) bool {
	switch n.(type) {
	case *ast.Boolean, *ast.Not:
		return true
	default:
		return false
	}
}

// simplifyNot drops a double negation.
func simplifyNot(_ *visitor.Context, not *ast.Not) (ast.Node, error) {
	if inner, ok := unwrapGroup(not.Query).(*ast.Not); ok {
		return inner.Query, nil
	}
	return not, nil
}

func simplifyBoolean(_ *visitor.Context, b *ast.Boolean) (ast.Node, error) {
	changed := false
	clauses := make([]ast.Clause, 0, len(b.Clauses))

	for _, c := range b.Clauses {
		if inner, ok := unwrapGroup(c.Query).(*ast.Boolean); ok && canFlatten(c, inner) {
			changed = true
			for j, ic := range inner.Clauses {
				op := ic.Operator
				if j == 0 {
					op = c.Operator
				}
				clauses = append(clauses, ast.Clause{Query: ic.Query, Occur: ic.Occur, Operator: op})
			}
			continue
		}
		clauses = append(clauses, c)
	}

	if len(clauses) == 1 && clauses[0].Occur == ast.Should && clauses[0].Operator == ast.Implicit {
		return clauses[0].Query, nil
	}
	if !changed {
		return b, nil
	}
	return ast.NewBoolean(b.Span(), clauses), nil
}

// canFlatten reports whether an inner Boolean nested (directly, or through
// a redundant Group) inside clause c can be spliced into the outer clause
// list in place of c: c itself must not carry an occurrence marker, and
// every one of the inner clauses beyond the first must share the operator
// c is about to be replaced by.
func canFlatten(c ast.Clause, inner *ast.Boolean) bool {
	if c.Occur != ast.Should {
		return false
	}
	if c.Operator != ast.And && c.Operator != ast.Or {
		return false
	}
	for i, ic := range inner.Clauses {
		if ic.Occur != ast.Should {
			return false
		}
		if i > 0 && ic.Operator != c.Operator {
			return false
		}
	}
	return true
}

func unwrapGroup(n ast.Node) ast.Node {
	if g, ok := n.(*ast.Group); ok && g.Boost == nil {
		return g.Query
	}
	return n
}
