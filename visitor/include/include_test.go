package include

import (
	"strings"
	"testing"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/parser"
	"github.com/lucenequery/lucene/render"
	"github.com/lucenequery/lucene/visitor"
)

func mapResolver(m map[string]string) Resolver {
	return ResolverFunc(func(_ *visitor.Context, name string) (string, bool, error) {
		text, ok := m[name]
		return text, ok, nil
	})
}

func TestExpand_ReplacesIncludeWithResolvedQuery(t *testing.T) {
	res := parser.Parse(`status:active AND @include:extra`, parser.Or)
	doc, errs := Expand(visitor.NewContext(nil), res.Document, Options{
		Resolver: mapResolver(map[string]string{"extra": "tags:red"}),
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	got := render.Render(doc)
	want := "status:active AND (tags:red)"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpand_UnresolvedIncludeLeavesReferenceAndReportsError(t *testing.T) {
	res := parser.Parse(`@include:missing`, parser.Or)
	doc, errs := Expand(visitor.NewContext(nil), res.Document, Options{
		Resolver: mapResolver(nil),
	})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1", len(errs))
	}
	if _, ok := doc.Query.(*ast.Field); !ok {
		t.Fatalf("got %T, want the original @include field left in place", doc.Query)
	}
}

func TestExpand_CycleIsDetectedAndReported(t *testing.T) {
	res := parser.Parse(`@include:a`, parser.Or)
	doc, errs := Expand(visitor.NewContext(nil), res.Document, Options{
		Resolver: mapResolver(map[string]string{
			"a": "@include:b",
			"b": "@include:a",
		}),
	})
	if len(errs) == 0 {
		t.Fatal("expected a cyclic include error")
	}
	if doc == nil {
		t.Fatal("Expand must never return a nil document")
	}
}

func TestExpand_SkipPredicateLeavesReferenceUntouched(t *testing.T) {
	res := parser.Parse(`@include:keep_me`, parser.Or)
	doc, errs := Expand(visitor.NewContext(nil), res.Document, Options{
		Resolver: mapResolver(map[string]string{"keep_me": "x"}),
		Skip:     func(name string) bool { return name == "keep_me" },
	})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	f, ok := doc.Query.(*ast.Field)
	if !ok {
		t.Fatalf("got %T, want the reference left as a field", doc.Query)
	}
	if !strings.EqualFold(f.FieldName, "@include") {
		t.Errorf("got field name %q", f.FieldName)
	}
}

func TestExpand_MaxDepthExceededReportsError(t *testing.T) {
	res := parser.Parse(`@include:a`, parser.Or)
	_, errs := Expand(visitor.NewContext(nil), res.Document, Options{
		Resolver: mapResolver(map[string]string{
			"a": "@include:b",
			"b": "@include:c",
			"c": "x",
		}),
		MaxDepth: 1,
	})
	if len(errs) == 0 {
		t.Fatal("expected a max-depth error")
	}
}
