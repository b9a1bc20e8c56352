package render

import (
	"testing"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/parser"
)

func roundTrip(t *testing.T, text string) string {
	t.Helper()
	res := parser.Parse(text, parser.Or)
	if len(res.Errors) != 0 {
		t.Fatalf("Parse(%q) produced unexpected errors: %v", text, res.Errors)
	}
	return Render(res.Document)
}

func TestRender_EmptyDocument(t *testing.T) {
	res := parser.Parse("", parser.Or)
	if got := Render(res.Document); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestRender_RoundTripsToEquivalentText(t *testing.T) {
	cases := []string{
		"hello",
		"status:active",
		"+required -prohibited should",
		"a AND b OR c",
		"(a OR b)",
		`title:"hello world"`,
		`"hello world"^2`,
		"price:[1 TO 10]",
		"price:[1 TO 10}",
		"price:{1 TO *]",
		"price:>=5",
		"price:<10",
		"tags:*",
		"NOT tags:*",
		"_missing_:tags",
		"NOT deleted:true",
		"/fo.*bar/",
		"tags:red blue",
		`a\:b`,
		`foo\ bar`,
	}
	for _, text := range cases {
		rendered := roundTrip(t, text)
		reparsed := roundTrip(t, rendered)
		if rendered != reparsed {
			t.Errorf("round trip mismatch for %q: first render %q, second render %q", text, rendered, reparsed)
		}
	}
}

func TestRender_EscapedTermDoesNotDoubleEscape(t *testing.T) {
	res := parser.Parse(`a\:b`, parser.Or)
	if len(res.Errors) != 0 {
		t.Fatalf("Parse produced unexpected errors: %v", res.Errors)
	}
	term, ok := res.Document.Query.(*ast.Term)
	if !ok {
		t.Fatalf("got %T, want *ast.Term", res.Document.Query)
	}
	if term.UnescapedTerm != "a:b" {
		t.Fatalf("got unescaped term %q, want %q", term.UnescapedTerm, "a:b")
	}

	rendered := Render(res.Document)
	if rendered != `a\:b` {
		t.Errorf("got rendered %q, want %q (a single backslash, not doubled)", rendered, `a\:b`)
	}

	reparsed := parser.Parse(rendered, parser.Or)
	reterm, ok := reparsed.Document.Query.(*ast.Term)
	if !ok {
		t.Fatalf("got %T, want *ast.Term", reparsed.Document.Query)
	}
	if reterm.UnescapedTerm != "a:b" {
		t.Errorf("got reparsed unescaped term %q, want %q", reterm.UnescapedTerm, "a:b")
	}
}

func TestRender_FieldWithBooleanValueParenthesized(t *testing.T) {
	// A parenthesized boolean value must stay parenthesized under its
	// field when re-rendered, or the AND/OR would escape the field scope.
	got := roundTrip(t, "category:(tech OR science)")
	if got != "category:(tech OR science)" {
		t.Errorf("got %q", got)
	}
}
