package simplify

import (
	"testing"

	"github.com/lucenequery/lucene/parser"
	"github.com/lucenequery/lucene/render"
)

func TestSimplify_DropsRedundantGroupAroundBareValue(t *testing.T) {
	res := parser.Parse("(a)", parser.Or)
	doc, passes := Simplify(res.Document, 0)
	if passes == 0 {
		t.Fatal("expected at least one pass to run")
	}
	if got := render.Render(doc); got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestSimplify_CollapsesDoubleNegation(t *testing.T) {
	res := parser.Parse("NOT NOT a", parser.Or)
	doc, _ := Simplify(res.Document, 0)
	if got := render.Render(doc); got != "a" {
		t.Errorf("got %q, want %q", got, "a")
	}
}

func TestSimplify_FlattensNestedCompatibleBoolean(t *testing.T) {
	res := parser.Parse("a AND (b AND c)", parser.Or)
	doc, _ := Simplify(res.Document, 0)
	if got := render.Render(doc); got != "a AND b AND c" {
		t.Errorf("got %q, want %q", got, "a AND b AND c")
	}
}

func TestSimplify_DoesNotFlattenAcrossMismatchedOccur(t *testing.T) {
	res := parser.Parse("a AND (+b OR c)", parser.Or)
	doc, _ := Simplify(res.Document, 0)
	got := render.Render(doc)
	if got != "a AND (+b OR c)" {
		t.Errorf("got %q, want the inner group preserved since +b isn't Should", got)
	}
}

func TestSimplify_KeepsParenthesesAroundBooleanFieldValue(t *testing.T) {
	res := parser.Parse("category:(tech OR science)", parser.Or)
	doc, _ := Simplify(res.Document, 0)
	if got := render.Render(doc); got != "category:(tech OR science)" {
		t.Errorf("got %q, want the group preserved since it holds a field value", got)
	}
}

func TestSimplify_StopsAtFixedPointWithinMaxPasses(t *testing.T) {
	res := parser.Parse("a", parser.Or)
	doc, passes := Simplify(res.Document, 0)
	if doc != res.Document {
		t.Error("expected an already-simplified document to come back unchanged")
	}
	if passes != 1 {
		t.Errorf("got %d passes, want exactly 1 (the pass that finds no change)", passes)
	}
}
