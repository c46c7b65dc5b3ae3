package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/ruleset"
)

func TestDefaultForProfile(t *testing.T) {
	tests := []struct {
		name       string
		profile    string
		wantFamily string
	}{
		{name: "exact csharp", profile: "csharp", wantFamily: "c-family"},
		{name: "csharp with suffix", profile: "CSharp-Modern", wantFamily: "c-family"},
		{name: "cpp", profile: "cpp17", wantFamily: "c-family"},
		{name: "java", profile: "java", wantFamily: "c-family"},
		{name: "bare c matches exactly", profile: "c", wantFamily: "c-family"},
		{name: "javascript beats the java alias", profile: "javascript", wantFamily: "script"},
		{name: "typescript", profile: "TypeScript", wantFamily: "script"},
		{name: "node", profile: "nodejs", wantFamily: "script"},
		{name: "python", profile: "python3", wantFamily: "python"},
		{name: "postgres", profile: "postgresql-14", wantFamily: "sql"},
		{name: "tsql goes to sql not script", profile: "tsql", wantFamily: "sql"},
		{name: "unknown falls back to generic", profile: "brainfuck", wantFamily: "brainfuck"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ruleset.DefaultForProfile(tt.profile)
			require.NotNil(t, rs)
			assert.Equal(t, tt.wantFamily, rs.Name)
			assert.NotEmpty(t, rs.Patterns, "every built-in family ships patterns")
		})
	}
}

func TestGenericRuleSet(t *testing.T) {
	rs := ruleset.Generic()

	assert.True(t, rs.IsKeyword("let"))
	assert.True(t, rs.IsKeyword("return"))
	assert.False(t, rs.IsKeyword("SELECT"))

	var names []string
	for _, p := range rs.Patterns {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "line-comment")
	assert.Contains(t, names, "block-comment")
	assert.Contains(t, names, "double-string")
	assert.Contains(t, names, "single-string")
	assert.Contains(t, names, "number")

	assert.NotEmpty(t, rs.Validation, "generic rules carry the common lint set")
}

func TestGenericPatternsMatchExpectedText(t *testing.T) {
	rs := ruleset.Generic()

	byName := map[string]ruleset.TokenPattern{}
	for _, p := range rs.Patterns {
		byName[p.Name] = p
	}

	tests := []struct {
		pattern string
		content string
		want    int
	}{
		{pattern: "line-comment", content: "// hello\nrest", want: 8},
		{pattern: "block-comment", content: "/* a\nb */x", want: 9},
		{pattern: "block-comment", content: "/* never closed", want: 15},
		{pattern: "double-string", content: `"he said \"hi\"" tail`, want: 16},
		{pattern: "single-string", content: `'x' tail`, want: 3},
		{pattern: "number", content: "3.14 etc", want: 4},
		{pattern: "number", content: "42", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.content, func(t *testing.T) {
			p, ok := byName[tt.pattern]
			require.True(t, ok)
			length, ok := p.Matcher.MatchAt(tt.content, 0)
			require.True(t, ok, "pattern should match at offset 0")
			assert.Equal(t, tt.want, length)
		})
	}
}

func TestSQLFamilyKeywordsBothCases(t *testing.T) {
	rs := ruleset.DefaultForProfile("sqlite")
	assert.True(t, rs.IsKeyword("select"))
	assert.True(t, rs.IsKeyword("SELECT"))
	assert.False(t, rs.IsKeyword("Select"), "only the two canonical spellings are in the set")
}

func TestFamilyNames(t *testing.T) {
	names := ruleset.FamilyNames()
	assert.Contains(t, names, "sql")
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "script")
	assert.Contains(t, names, "c")
	assert.Contains(t, names, "generic")
}
