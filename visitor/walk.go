package visitor

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lucenequery/lucene/ast"
)

// Walk runs c against n and every descendant, rebuilding the tree around
// whatever replacements handlers make. It type-switches on n to decide how
// to recurse once c's handlers for this node have run; a handler that
// swaps a node for one of a different kind continues descending into the
// replacement's own children under that new kind's case.
//
// Walk also maintains ctx.Depth and ctx.IncludeStack: on entry it
// increments Depth and remembers the current lengths, then restores both
// on return via defer. A handler that appends to ctx.IncludeStack (the
// include visitor, expanding a reference into the subtree Walk is about to
// descend into) therefore has that push automatically undone once this
// node's whole subtree has been walked, without needing an explicit pop.
func Walk(ctx *Context, n ast.Node, c *Chain) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}

	savedDepth := ctx.Depth
	savedStackLen := len(ctx.IncludeStack)
	ctx.Depth = savedDepth + 1
	defer func() {
		ctx.Depth = savedDepth
		ctx.IncludeStack = ctx.IncludeStack[:savedStackLen]
	}()

	replaced, err := c.run(ctx, n)
	if err != nil {
		return nil, errors.Wrapf(err, "visiting %s", n.Kind())
	}

	switch v := replaced.(type) {
	case *ast.Document:
		child, err := Walk(ctx, v.Query, c)
		if err != nil {
			return nil, err
		}
		if child == v.Query {
			return v, nil
		}
		return ast.NewDocument(v.Span(), child), nil

	case *ast.Group:
		child, err := Walk(ctx, v.Query, c)
		if err != nil {
			return nil, err
		}
		if child == v.Query {
			return v, nil
		}
		return ast.NewGroup(v.Span(), child, v.Boost), nil

	case *ast.Not:
		child, err := Walk(ctx, v.Query, c)
		if err != nil {
			return nil, err
		}
		if child == v.Query {
			return v, nil
		}
		return ast.NewNot(v.Span(), child), nil

	case *ast.Field:
		child, err := Walk(ctx, v.Query, c)
		if err != nil {
			return nil, err
		}
		if child == v.Query {
			return v, nil
		}
		return ast.NewField(v.Span(), v.FieldName, child), nil

	case *ast.Boolean:
		return walkBoolean(ctx, v, c)

	default:
		// Leaves (Term, Phrase, Range, Regex, Exists, Missing, MatchAll,
		// MultiTerm) have no children to recurse into.
		return replaced, nil
	}
}

func walkBoolean(ctx *Context, b *ast.Boolean, c *Chain) (ast.Node, error) {
	results := make([]ast.Node, len(b.Clauses))

	if ctx.Concurrent && len(b.Clauses) > 1 {
		g, gctx := errgroup.WithContext(ctx.Context)
		for i, clause := range b.Clauses {
			i, clause := i, clause
			g.Go(func() error {
				// Each goroutine gets its own Context value so concurrent
				// siblings can independently grow Depth/IncludeStack
				// without racing on the same struct fields; values and mu
				// are still shared (and mutex-guarded) on purpose.
				branchCtx := &Context{
					Context:      gctx,
					RunID:        ctx.RunID,
					Concurrent:   ctx.Concurrent,
					Depth:        ctx.Depth,
					IncludeStack: append([]string(nil), ctx.IncludeStack...),
					values:       ctx.values,
					mu:           ctx.mu,
				}
				child, err := Walk(branchCtx, clause.Query, c)
				if err != nil {
					return err
				}
				results[i] = child
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, clause := range b.Clauses {
			child, err := Walk(ctx, clause.Query, c)
			if err != nil {
				return nil, err
			}
			results[i] = child
		}
	}

	changed := false
	newClauses := make([]ast.Clause, len(b.Clauses))
	for i, clause := range b.Clauses {
		newClauses[i] = ast.Clause{Query: results[i], Occur: clause.Occur, Operator: clause.Operator}
		if results[i] != clause.Query {
			changed = true
		}
	}
	if !changed {
		return b, nil
	}
	return ast.NewBoolean(b.Span(), newClauses), nil
}
