package lucene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucenequery/lucene/visitor"
	"github.com/lucenequery/lucene/visitor/fieldresolve"
	"github.com/lucenequery/lucene/visitor/include"
	"github.com/lucenequery/lucene/visitor/validate"
)

// TestParseRenderScenarios exercises the facade end to end, in the style
// of a table of query -> expected-canonical-form scenarios.
func TestParseRenderScenarios(t *testing.T) {
	cases := map[string]string{
		"status:active AND (tags:red OR tags:blue) AND price:[10 TO 100]": "status:active AND (tags:red OR tags:blue) AND price:[10 TO 100]",
		"+required -prohibited should":                                    "+required -prohibited should",
		`title:"search engine"^2`:                                         `title:"search engine"^2`,
		"NOT deleted:true":                                                "NOT deleted:true",
		"_missing_:tags":                                                  "_missing_:tags",
	}
	for query, want := range cases {
		res := Parse(query, Or)
		require.Truef(t, res.IsSuccess(), "Parse(%q) produced errors: %v", query, res.Errors)
		assert.Equal(t, want, res.Document.Render())
	}
}

func TestParse_MalformedQueryStillYieldsWellFormedDocument(t *testing.T) {
	res := Parse("status:active AND", Or)
	assert.False(t, res.IsSuccess(), "expected diagnostics for a dangling AND")
	require.NotNil(t, res.Document)
	require.NotNil(t, res.Document.Document)
}

func TestDocument_ExpandIncludesThenSimplify(t *testing.T) {
	res := Parse("status:active AND @include:extra", Or)
	resolver := include.ResolverFunc(func(_ *visitor.Context, name string) (string, bool, error) {
		if name == "extra" {
			return "tags:red", true, nil
		}
		return "", false, nil
	})

	expanded, errs := res.Document.ExpandIncludes(nil, include.Options{Resolver: resolver})
	require.Empty(t, errs)

	simplified := expanded.Simplify(0)
	assert.Equal(t, "status:active AND tags:red", simplified.Render())
}

func TestDocument_ResolveFields(t *testing.T) {
	res := Parse("user.name:alice", Or)
	resolver := fieldresolve.NewHierarchicalResolver(map[string]string{"user": "u"})
	resolved, unresolved := res.Document.ResolveFields(nil, resolver)
	require.Empty(t, unresolved)
	assert.Equal(t, "u.name:alice", resolved.Render())
}

func TestDocument_ValidateAndThrow(t *testing.T) {
	res := Parse("secret:1", Or)
	_, err := res.Document.ValidateAndThrow(validate.Options{RestrictedFields: []string{"secret"}})
	require.Error(t, err)
	assert.IsType(t, &validate.Exception{}, err)

	result, err := res.Document.Validate(validate.Options{RestrictedFields: []string{"secret"}})
	require.NoError(t, err, "Validate must never return an error even on violations")
	assert.NotEmpty(t, result.Errors)
}

func TestDocument_Stats(t *testing.T) {
	res := Parse("status:active AND tags:red*", Or)
	s := res.Document.Stats(nil)
	assert.Equal(t, 2, s.ClauseCount)
	assert.Equal(t, 1, s.PrefixCount)
}
