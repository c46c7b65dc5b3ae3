package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/ruleset"
)

func testDefinition() *ruleset.Definition {
	return &ruleset.Definition{
		Name:     "toylang",
		Keywords: []string{"let", "fn", "return"},
		Patterns: []*ruleset.PatternDefinition{
			{Name: "line-comment", Match: `//[^\n]*`, Kind: "comment", Class: "comment", Priority: 100},
			{Name: "string", Match: `"(?:[^"\\\n]|\\.)*"`, Kind: "string", Class: "string", Priority: 90},
			{Name: "number", Match: `\d+`, Kind: "number", Class: "number", Priority: 80},
			{Name: "arrow", Literal: "->", Kind: "operator", Class: "operator", Priority: 50},
		},
		Completion: &ruleset.CompletionDefinition{
			KeywordPriority: 7,
			StaticMembers: []*ruleset.StaticMemberDefinition{
				{Label: "length", Kind: "method", Detail: "length(x)"},
			},
			Snippets: []*ruleset.SnippetDefinition{
				{Label: "fn", InsertText: "fn ${1:name}() {\n\t$0\n}", Statements: []string{"general"}},
			},
		},
		Validation: []*ruleset.ValidationDefinition{
			{Name: "todo", Literal: "TODO", Message: "TODO marker", Severity: "info"},
		},
	}
}

func TestCompile(t *testing.T) {
	rs, err := testDefinition().Compile()
	require.NoError(t, err)

	assert.Equal(t, "toylang@default", rs.ID())
	assert.Len(t, rs.Patterns, 4)
	assert.True(t, rs.IsKeyword("let"))
	assert.False(t, rs.IsKeyword("Let"), "keyword lookup is case-sensitive")
	assert.Equal(t, 7, rs.Completion.KeywordPriority)
	require.Len(t, rs.Completion.StaticMembers, 1)
	assert.Equal(t, "length", rs.Completion.StaticMembers[0].InsertText,
		"insert text defaults to the label")
	require.Len(t, rs.Validation, 1)
	assert.Equal(t, ruleset.SeverityInfo, rs.Validation[0].Severity)
}

func TestCompileSortsPatternsByPriority(t *testing.T) {
	def := &ruleset.Definition{
		Name: "ordered",
		Patterns: []*ruleset.PatternDefinition{
			{Name: "low", Literal: "a", Kind: "unknown", Priority: 1},
			{Name: "high", Literal: "b", Kind: "unknown", Priority: 9},
			{Name: "mid-first", Literal: "c", Kind: "unknown", Priority: 5},
			{Name: "mid-second", Literal: "d", Kind: "unknown", Priority: 5},
		},
	}

	rs, err := def.Compile()
	require.NoError(t, err)

	var names []string
	for _, p := range rs.Patterns {
		names = append(names, p.Name)
	}
	// Descending priority; the two mid-priority patterns keep their
	// declaration order.
	assert.Equal(t, []string{"high", "mid-first", "mid-second", "low"}, names)
}

func TestCompileAggregatesErrors(t *testing.T) {
	def := &ruleset.Definition{
		Name: "broken",
		Patterns: []*ruleset.PatternDefinition{
			{Name: "bad-regex", Match: `[unclosed`, Kind: "string"},
			{Name: "no-matcher", Kind: "string"},
			{Name: "both-matchers", Literal: "x", Match: "y", Kind: "string"},
		},
		Validation: []*ruleset.ValidationDefinition{
			{Name: "bad-severity", Literal: "X", Message: "x", Severity: "catastrophic"},
			{Name: "no-message", Literal: "Y"},
		},
	}

	_, err := def.Compile()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "bad-regex")
	assert.Contains(t, msg, "no-matcher")
	assert.Contains(t, msg, "both-matchers")
	assert.Contains(t, msg, "bad-severity")
	assert.Contains(t, msg, "no-message")
}

func TestCompileRequiresName(t *testing.T) {
	def := &ruleset.Definition{}
	_, err := def.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestCompileDefaultsSeverityToWarning(t *testing.T) {
	def := &ruleset.Definition{
		Name: "lax",
		Validation: []*ruleset.ValidationDefinition{
			{Name: "todo", Literal: "TODO", Message: "TODO marker"},
		},
	}

	rs, err := def.Compile()
	require.NoError(t, err)
	require.Len(t, rs.Validation, 1)
	assert.Equal(t, ruleset.SeverityWarning, rs.Validation[0].Severity)
}

func TestSnippetAppliesIn(t *testing.T) {
	everywhere := ruleset.Snippet{Label: "x"}
	assert.True(t, everywhere.AppliesIn("general"))
	assert.True(t, everywhere.AppliesIn("loop"))

	gated := ruleset.Snippet{Label: "else", Statements: []string{"conditional"}}
	assert.True(t, gated.AppliesIn("conditional"))
	assert.False(t, gated.AppliesIn("general"))
}
