package cli

import (
	"testing"

	"github.com/lucenequery/lucene"
)

func TestParseDefaultOperator(t *testing.T) {
	cases := map[string]lucene.DefaultOperator{
		"":    lucene.Or,
		"or":  lucene.Or,
		"OR":  lucene.Or,
		"and": lucene.And,
		"AND": lucene.And,
	}
	for in, want := range cases {
		got, err := parseDefaultOperator(in)
		if err != nil {
			t.Fatalf("parseDefaultOperator(%q) returned error: %v", in, err)
		}
		if got != want {
			t.Errorf("parseDefaultOperator(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := parseDefaultOperator("xor"); err == nil {
		t.Error("expected an error for an unknown operator name")
	}
}

func TestSplitCSV(t *testing.T) {
	if got := splitCSV(""); got != nil {
		t.Errorf("got %v, want nil for empty input", got)
	}
	got := splitCSV("a, b ,,c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
}

func TestDescribe_TermAndField(t *testing.T) {
	result := lucene.Parse("status:active", lucene.Or)
	out := describe(result.Document.Query).(map[string]any)
	if out["kind"] != "Field" {
		t.Fatalf("got kind %v, want Field", out["kind"])
	}
	if out["field"] != "status" {
		t.Errorf("got field %v, want status", out["field"])
	}
	inner := out["query"].(map[string]any)
	if inner["kind"] != "Term" || inner["value"] != "active" {
		t.Errorf("got inner %v", inner)
	}
}
