package ast

import "testing"

func TestClassifyWildcard(t *testing.T) {
	cases := []struct {
		raw          string
		isPrefix     bool
		isWildcard   bool
	}{
		{"hello", false, false},
		{"hel*", true, false},
		{"*hello", false, true},
		{"hel*lo", false, true},
		{"h?llo", false, true},
		{`hel\*`, false, false}, // escaped star is not a wildcard
		{`hel\*lo*`, true, false},
		{"**", false, true},
	}
	for _, c := range cases {
		gotPrefix, gotWildcard := ClassifyWildcard(c.raw)
		if gotPrefix != c.isPrefix || gotWildcard != c.isWildcard {
			t.Errorf("ClassifyWildcard(%q) = (%v, %v), want (%v, %v)",
				c.raw, gotPrefix, gotWildcard, c.isPrefix, c.isWildcard)
		}
	}
}

func TestHasLeadingWildcard(t *testing.T) {
	if !HasLeadingWildcard("*foo") {
		t.Error("expected *foo to have a leading wildcard")
	}
	if !HasLeadingWildcard("?foo") {
		t.Error("expected ?foo to have a leading wildcard")
	}
	if HasLeadingWildcard("foo*") {
		t.Error("did not expect foo* to have a leading wildcard")
	}
	if HasLeadingWildcard(`\*foo`) {
		t.Error("an escaped leading star should not count")
	}
}
