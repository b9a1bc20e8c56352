// Package fieldresolve rewrites the field names referenced by a query
// against an external schema, so documents written against short or
// historical field names still bind to the names the index actually uses.
package fieldresolve

import (
	"sort"
	"strings"
	"sync"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/visitor"
)

// Resolver maps a dotted field path to the name the index stores it under.
// ok is false when no mapping, at any ancestor level, applies.
type Resolver interface {
	ResolveField(name string) (resolved string, ok bool)
}

// HierarchicalResolver resolves a dotted field path ("user.address.city")
// by matching the longest registered ancestor prefix and substituting its
// mapped value, carrying the unmatched suffix through unchanged. A mapping
// for "user" therefore also governs "user.address.city" unless a more
// specific "user.address" or "user.address.city" entry overrides it.
type HierarchicalResolver struct {
	mappings map[string]string
}

// NewHierarchicalResolver builds a resolver from path -> replacement-path
// entries.
func NewHierarchicalResolver(mappings map[string]string) *HierarchicalResolver {
	copied := make(map[string]string, len(mappings))
	for k, v := range mappings {
		copied[k] = v
	}
	return &HierarchicalResolver{mappings: copied}
}

func (r *HierarchicalResolver) ResolveField(name string) (string, bool) {
	parts := strings.Split(name, ".")
	for i := len(parts); i > 0; i-- {
		prefix := strings.Join(parts[:i], ".")
		mapped, ok := r.mappings[prefix]
		if !ok {
			continue
		}
		rest := parts[i:]
		if len(rest) == 0 {
			return mapped, true
		}
		return mapped + "." + strings.Join(rest, "."), true
	}
	return name, false
}

// Register installs resolver's field-rewriting handlers onto chain at
// priority, so field resolution can run alongside other passes in one
// Walk instead of building its own private chain. It returns an accessor
// for the sorted set of field names that had no applicable mapping,
// valid only after the Walk it was registered for has completed.
func Register(chain *visitor.Chain, priority int, resolver Resolver) (unresolved func() []string) {
	var mu sync.Mutex
	seen := map[string]bool{}
	var names []string

	recordUnresolved := func(name string) {
		mu.Lock()
		defer mu.Unlock()
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	resolveName := func(name string) string {
		resolved, ok := resolver.ResolveField(name)
		if !ok {
			recordUnresolved(name)
			return name
		}
		return resolved
	}

	visitor.Add[*ast.Field](chain, priority, func(_ *visitor.Context, f *ast.Field) (ast.Node, error) {
		resolved := resolveName(f.FieldName)
		if resolved == f.FieldName {
			return f, nil
		}
		return ast.NewField(f.Span(), resolved, f.Query), nil
	})
	visitor.Add[*ast.Range](chain, priority, func(_ *visitor.Context, r *ast.Range) (ast.Node, error) {
		if r.FieldName == "" {
			return r, nil
		}
		resolved := resolveName(r.FieldName)
		if resolved == r.FieldName {
			return r, nil
		}
		return ast.NewRange(r.Span(), resolved, r.Min, r.Max, r.MinInclusive, r.MaxInclusive, r.Op), nil
	})
	visitor.Add[*ast.Exists](chain, priority, func(_ *visitor.Context, e *ast.Exists) (ast.Node, error) {
		resolved := resolveName(e.FieldName)
		if resolved == e.FieldName {
			return e, nil
		}
		return ast.NewExists(e.Span(), resolved), nil
	})
	visitor.Add[*ast.Missing](chain, priority, func(_ *visitor.Context, m *ast.Missing) (ast.Node, error) {
		resolved := resolveName(m.FieldName)
		if resolved == m.FieldName {
			return m, nil
		}
		return ast.NewMissing(m.Span(), resolved), nil
	})

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return sorted
	}
}

// Resolve rewrites every field-bearing node (Field, Range, Exists, Missing)
// in doc through resolver, returning the rewritten document and the sorted
// set of field names that had no applicable mapping.
func Resolve(ctx *visitor.Context, doc *ast.Document, resolver Resolver) (*ast.Document, []string) {
	chain := visitor.NewChain()
	unresolved := Register(chain, 0, resolver)

	result, err := visitor.Walk(ctx, doc, chain)
	if err != nil {
		// None of the handlers above return an error; this branch exists
		// only because Walk's signature allows for it.
		return doc, unresolved()
	}
	return result.(*ast.Document), unresolved()
}
