package cli

import "github.com/lucenequery/lucene/ast"

// describe converts an AST node into a plain map/slice tree suitable for
// encoding/json, since ast.Node is an interface and its concrete variants
// carry no json tags of their own (the ast package has no reason to know
// about presentation formats).
func describe(n ast.Node) any {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.Group:
		out := map[string]any{"kind": "Group", "query": describe(v.Query)}
		if v.Boost != nil {
			out["boost"] = *v.Boost
		}
		return out
	case *ast.Boolean:
		clauses := make([]any, len(v.Clauses))
		for i, c := range v.Clauses {
			clauses[i] = map[string]any{
				"occur":    c.Occur.String(),
				"operator": c.Operator.String(),
				"query":    describe(c.Query),
			}
		}
		return map[string]any{"kind": "Boolean", "clauses": clauses}
	case *ast.Field:
		return map[string]any{"kind": "Field", "field": v.FieldName, "query": describe(v.Query)}
	case *ast.Term:
		return map[string]any{
			"kind": "Term", "raw": v.RawTerm, "value": v.UnescapedTerm,
			"isPrefix": v.IsPrefix, "isWildcard": v.IsWildcard,
		}
	case *ast.Phrase:
		out := map[string]any{"kind": "Phrase", "value": v.PhraseText}
		if v.Boost != nil {
			out["boost"] = *v.Boost
		}
		return out
	case *ast.Range:
		out := map[string]any{
			"kind": "Range", "field": v.FieldName,
			"minInclusive": v.MinInclusive, "maxInclusive": v.MaxInclusive,
		}
		if v.Min != nil {
			out["min"] = *v.Min
		}
		if v.Max != nil {
			out["max"] = *v.Max
		}
		if v.Op != ast.NoRangeOp {
			out["op"] = v.Op.String()
		}
		return out
	case *ast.Regex:
		return map[string]any{"kind": "Regex", "pattern": v.Pattern}
	case *ast.Not:
		return map[string]any{"kind": "Not", "query": describe(v.Query)}
	case *ast.Exists:
		return map[string]any{"kind": "Exists", "field": v.FieldName}
	case *ast.Missing:
		return map[string]any{"kind": "Missing", "field": v.FieldName}
	case *ast.MatchAll:
		return map[string]any{"kind": "MatchAll"}
	case *ast.MultiTerm:
		return map[string]any{"kind": "MultiTerm", "terms": v.Terms}
	default:
		return map[string]any{"kind": n.Kind().String()}
	}
}
