package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/ruleset"
)

func singleRule(rule ruleset.ValidationRule) *ruleset.RuleSet {
	return &ruleset.RuleSet{Validation: []ruleset.ValidationRule{rule}}
}

func TestValidateSingleLinePosition(t *testing.T) {
	rs := singleRule(ruleset.ValidationRule{
		Name:     "double-x",
		Matcher:  ruleset.Literal("XX"),
		Message:  "no double x",
		Severity: ruleset.SeverityWarning,
	})

	// Match at character index 2 of a single line reports line 1, column 3.
	diags := Validate("abXXcd", rs)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, 1, d.Line)
	assert.Equal(t, 3, d.Column)
	assert.Equal(t, 2, d.StartOffset)
	assert.Equal(t, 4, d.EndOffset)
	assert.Equal(t, "no double x", d.Message)
	assert.Equal(t, ruleset.SeverityWarning, d.Severity)
}

func TestValidateMultilinePositions(t *testing.T) {
	content := "ok\nTODO: fix parsing\nmore\nTODO again"

	var todos []Diagnostic
	for _, d := range Validate(content, ruleset.Generic()) {
		if d.Rule == "todo-comment" {
			todos = append(todos, d)
		}
	}

	require.Len(t, todos, 2)
	assert.Equal(t, 2, todos[0].Line)
	assert.Equal(t, 1, todos[0].Column)
	assert.Equal(t, 4, todos[1].Line)
	assert.Equal(t, 1, todos[1].Column)
	for _, d := range todos {
		assert.Equal(t, ruleset.SeverityInfo, d.Severity)
	}
}

func TestValidateBuiltinLintRules(t *testing.T) {
	rs := ruleset.Generic()

	diags := Validate("<<<<<<< HEAD\n", rs)
	require.NotEmpty(t, diags)
	assert.Equal(t, "merge-conflict", diags[0].Rule)
	assert.Equal(t, ruleset.SeverityError, diags[0].Severity)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 1, diags[0].Column)

	diags = Validate("x = 1 \nnext", rs)
	require.Len(t, diags, 1)
	assert.Equal(t, "trailing-whitespace", diags[0].Rule)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 6, diags[0].Column)
	assert.Equal(t, ruleset.SeverityHint, diags[0].Severity)
}

func TestValidateRulesAreIndependent(t *testing.T) {
	rs := &ruleset.RuleSet{Validation: []ruleset.ValidationRule{
		{Name: "whole", Matcher: ruleset.Literal("abc"), Message: "whole", Severity: ruleset.SeverityWarning},
		{Name: "inner", Matcher: ruleset.Literal("b"), Message: "inner", Severity: ruleset.SeverityInfo},
	}}

	diags := Validate("abc", rs)
	require.Len(t, diags, 2, "overlapping findings from different rules are all kept")
	assert.Equal(t, "whole", diags[0].Rule)
	assert.Equal(t, "inner", diags[1].Rule)
	assert.Equal(t, 1, diags[1].StartOffset)
}

func TestValidateNoOverlapWithinOneRule(t *testing.T) {
	rs := singleRule(ruleset.ValidationRule{
		Name:    "aa",
		Matcher: ruleset.Literal("aa"),
		Message: "aa",
	})

	diags := Validate("aaaa", rs)
	require.Len(t, diags, 2)
	assert.Equal(t, 0, diags[0].StartOffset)
	assert.Equal(t, 2, diags[1].StartOffset)
}

func TestValidatePanickyMatcherIsContained(t *testing.T) {
	boom := ruleset.Predicate("boom", func(content string, offset int) int {
		panic("matcher bug")
	})
	rs := &ruleset.RuleSet{Validation: []ruleset.ValidationRule{
		{Name: "boom", Matcher: boom, Message: "never", Severity: ruleset.SeverityError},
		{Name: "todo", Matcher: ruleset.Literal("TODO"), Message: "todo", Severity: ruleset.SeverityInfo},
	}}

	var diags []Diagnostic
	assert.NotPanics(t, func() {
		diags = Validate("x TODO y", rs)
	})
	require.Len(t, diags, 1)
	assert.Equal(t, "todo", diags[0].Rule)
}

func TestValidateEmpty(t *testing.T) {
	assert.Nil(t, Validate("", ruleset.Generic()))
	assert.Nil(t, Validate("content", &ruleset.RuleSet{}))
}
