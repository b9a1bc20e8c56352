// Package render renders an AST back to Lucene query text. Parsing a
// rendered document is expected to produce an equivalent tree (same
// clauses, same field bindings, same literal values) though not
// necessarily byte-identical source text.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucenequery/lucene/ast"
)

// Render serializes doc's query to canonical query text. An empty document
// renders to "".
func Render(doc *ast.Document) string {
	if doc == nil || doc.Query == nil {
		return ""
	}
	return node(doc.Query)
}

func node(n ast.Node) string {
	if n == nil {
		return ""
	}
	switch v := n.(type) {
	case *ast.Group:
		return group(v)
	case *ast.Boolean:
		return boolean(v)
	case *ast.Field:
		return field(v)
	case *ast.Term:
		return term(v)
	case *ast.Phrase:
		return phrase(v)
	case *ast.Range:
		return rangeNode(v)
	case *ast.Regex:
		return "/" + v.Pattern + "/"
	case *ast.Not:
		return "NOT " + node(v.Query)
	case *ast.Exists:
		return ast.Escape(v.FieldName) + ":*"
	case *ast.Missing:
		return "_missing_:" + ast.Escape(v.FieldName)
	case *ast.MatchAll:
		return "*"
	case *ast.MultiTerm:
		parts := make([]string, len(v.Terms))
		for i, t := range v.Terms {
			parts[i] = ast.Escape(t)
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func group(g *ast.Group) string {
	s := "(" + node(g.Query) + ")"
	return s + boostSuffix(g.Boost)
}

func boolean(b *ast.Boolean) string {
	parts := make([]string, len(b.Clauses))
	for i, c := range b.Clauses {
		var connector string
		if i > 0 {
			switch c.Operator {
			case ast.And:
				connector = "AND "
			case ast.Or:
				connector = "OR "
			}
		}
		occur := ""
		switch c.Occur {
		case ast.Must:
			occur = "+"
		case ast.MustNot:
			occur = "-"
		}
		parts[i] = connector + occur + node(c.Query)
	}
	return strings.Join(parts, " ")
}

func field(f *ast.Field) string {
	value := node(f.Query)
	if needsParens(f.Query) {
		value = "(" + value + ")"
	}
	return ast.Escape(f.FieldName) + ":" + value
}

// needsParens reports whether a field's value must be wrapped in
// parentheses to round-trip, i.e. it would otherwise read as a top-level
// Boolean or prefix-NOT expression rather than a single value.
func needsParens(n ast.Node) bool {
	switch n.(type) {
	case *ast.Boolean, *ast.Not:
		return true
	default:
		return false
	}
}

// term emits t.RawTerm verbatim: it already carries the source's original
// backslash-escaping (the lexer copies "\" + escaped-byte pairs through
// unchanged), so re-escaping it would double the backslashes. Only a
// synthesized term with no raw form (e.g. a parser placeholder) falls
// back to escaping the unescaped value.
func term(t *ast.Term) string {
	if t.RawTerm != "" {
		return t.RawTerm
	}
	return ast.Escape(t.UnescapedTerm)
}

func phrase(p *ast.Phrase) string {
	return `"` + ast.EscapePhraseBody(p.PhraseText) + `"` + boostSuffix(p.Boost)
}

func rangeNode(r *ast.Range) string {
	prefix := ""
	if r.FieldName != "" {
		prefix = ast.Escape(r.FieldName) + ":"
	}
	if r.Op != ast.NoRangeOp {
		val := ""
		if r.Op == ast.Gt || r.Op == ast.Gte {
			if r.Min != nil {
				val = ast.Escape(*r.Min)
			}
		} else if r.Max != nil {
			val = ast.Escape(*r.Max)
		}
		return prefix + r.Op.String() + val
	}

	open := "["
	if !r.MinInclusive {
		open = "{"
	}
	closeCh := "]"
	if !r.MaxInclusive {
		closeCh = "}"
	}
	min := "*"
	if r.Min != nil {
		min = ast.Escape(*r.Min)
	}
	max := "*"
	if r.Max != nil {
		max = ast.Escape(*r.Max)
	}
	return fmt.Sprintf("%s%s%s TO %s%s", prefix, open, min, max, closeCh)
}

func boostSuffix(boost *float32) string {
	if boost == nil {
		return ""
	}
	return "^" + strconv.FormatFloat(float64(*boost), 'g', -1, 32)
}
