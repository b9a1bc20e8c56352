package stats

import (
	"testing"

	"github.com/lucenequery/lucene/parser"
	"github.com/lucenequery/lucene/visitor"
)

func TestCollect_TalliesClausesFieldsAndWildcards(t *testing.T) {
	res := parser.Parse(`+status:active -deleted:true "hello world"^2 tags:red* price:[1 TO 10]`, parser.Or)
	r := Collect(visitor.NewContext(nil), res.Document)

	if r.ClauseCount != 5 {
		t.Errorf("got clause count %d, want 5", r.ClauseCount)
	}
	if r.MustCount != 1 {
		t.Errorf("got must count %d, want 1", r.MustCount)
	}
	if r.MustNotCount != 1 {
		t.Errorf("got must-not count %d, want 1", r.MustNotCount)
	}
	if r.ShouldCount != 3 {
		t.Errorf("got should count %d, want 3", r.ShouldCount)
	}
	if r.BoostedCount != 1 {
		t.Errorf("got boosted count %d, want 1", r.BoostedCount)
	}
	if r.PrefixCount != 1 {
		t.Errorf("got prefix count %d, want 1", r.PrefixCount)
	}
	if r.FieldCounts["status"] != 1 || r.FieldCounts["deleted"] != 1 || r.FieldCounts["tags"] != 1 || r.FieldCounts["price"] != 1 {
		t.Errorf("got field counts %v", r.FieldCounts)
	}
}

func TestCollect_EmptyDocument(t *testing.T) {
	res := parser.Parse("", parser.Or)
	r := Collect(visitor.NewContext(nil), res.Document)
	if r.NodeCount != 0 {
		t.Errorf("got node count %d, want 0", r.NodeCount)
	}
}

func TestCollect_MaxDepthAcrossNestedGroups(t *testing.T) {
	res := parser.Parse("((a))", parser.Or)
	r := Collect(visitor.NewContext(nil), res.Document)
	if r.MaxDepth != 3 {
		t.Errorf("got max depth %d, want 3", r.MaxDepth)
	}
}
