package visitor

import (
	"testing"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/parser"
)

func TestWalk_ReplacesMatchingNodeType(t *testing.T) {
	res := parser.Parse("a AND b", parser.Or)
	c := NewChain()
	Add[*ast.Term](c, 0, func(_ *Context, t *ast.Term) (ast.Node, error) {
		if t.UnescapedTerm == "a" {
			return ast.NewTerm(t.Span(), "z", "z", false, false), nil
		}
		return t, nil
	})

	ctx := NewContext(nil)
	result, err := Walk(ctx, res.Document, c)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	doc := result.(*ast.Document)
	b := doc.Query.(*ast.Boolean)
	first := b.Clauses[0].Query.(*ast.Term)
	if first.UnescapedTerm != "z" {
		t.Errorf("got %q, want %q", first.UnescapedTerm, "z")
	}
}

func TestWalk_UnchangedNodesKeepIdentity(t *testing.T) {
	res := parser.Parse("a AND b", parser.Or)
	c := NewChain() // no handlers registered
	ctx := NewContext(nil)

	result, err := Walk(ctx, res.Document, c)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if result != ast.Node(res.Document) {
		t.Error("expected an untouched tree to come back as the same node")
	}
}

func TestWalk_PriorityOrdersHandlersForSameKind(t *testing.T) {
	res := parser.Parse("a", parser.Or)
	c := NewChain()
	var order []string
	Add[*ast.Term](c, 10, func(ctx *Context, t *ast.Term) (ast.Node, error) {
		order = append(order, "second")
		return t, nil
	})
	Add[*ast.Term](c, -10, func(ctx *Context, t *ast.Term) (ast.Node, error) {
		order = append(order, "first")
		return t, nil
	})

	ctx := NewContext(nil)
	if _, err := Walk(ctx, res.Document, c); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("got order %v, want [first second]", order)
	}
}

func TestWalk_ConcurrentBooleanPreservesClauseOrder(t *testing.T) {
	res := parser.Parse("a AND b AND c AND d", parser.Or)
	c := NewChain()
	Add[*ast.Term](c, 0, func(_ *Context, t *ast.Term) (ast.Node, error) {
		return ast.NewTerm(t.Span(), t.RawTerm+"!", t.UnescapedTerm+"!", false, false), nil
	})

	ctx := NewContext(nil)
	ctx.Concurrent = true
	result, err := Walk(ctx, res.Document, c)
	if err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	b := result.(*ast.Document).Query.(*ast.Boolean)
	want := []string{"a!", "b!", "c!", "d!"}
	for i, c := range b.Clauses {
		got := c.Query.(*ast.Term).UnescapedTerm
		if got != want[i] {
			t.Errorf("clause %d: got %q, want %q", i, got, want[i])
		}
	}
}

func TestRemoveReplaceBefore(t *testing.T) {
	c := NewChain()
	Add[*ast.Term](c, 0, func(_ *Context, t *ast.Term) (ast.Node, error) { return t, nil })
	if len(c.handlers) != 1 {
		t.Fatalf("got %d handlers, want 1", len(c.handlers))
	}
	Remove[*ast.Term](c)
	if len(c.handlers) != 0 {
		t.Fatalf("got %d handlers after Remove, want 0", len(c.handlers))
	}

	var ran string
	Replace[*ast.Term](c, 0, func(_ *Context, t *ast.Term) (ast.Node, error) { ran = "replaced"; return t, nil })
	Before[*ast.Term](c, func(_ *Context, t *ast.Term) (ast.Node, error) { ran = "before"; return t, nil })

	res := parser.Parse("a", parser.Or)
	ctx := NewContext(nil)
	if _, err := Walk(ctx, res.Document, c); err != nil {
		t.Fatalf("Walk returned error: %v", err)
	}
	if ran != "replaced" {
		t.Errorf("expected the last-run handler to be the replaced one, got %q", ran)
	}
}
