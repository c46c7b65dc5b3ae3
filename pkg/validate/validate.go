// Package validate runs a profile's validation rules over source text and
// reports positioned diagnostics. Rules are independent: diagnostics from
// different rules may overlap and are never deduplicated.
package validate

import (
	"github.com/intellexhq/intellex/pkg/position"
	"github.com/intellexhq/intellex/pkg/ruleset"
)

// Diagnostic is one finding. Line and Column are 1-based; EndOffset is the
// offset just past the matched text.
type Diagnostic struct {
	Rule        string
	Message     string
	Line        int
	Column      int
	StartOffset int
	EndOffset   int
	Severity    ruleset.Severity
}

// Validate applies every validation rule of the profile to the full
// content. Output is grouped by rule in declaration order, matches in
// document order within each rule.
func Validate(content string, rs *ruleset.RuleSet) []Diagnostic {
	if content == "" || rs == nil {
		return nil
	}

	var out []Diagnostic
	for _, rule := range rs.Validation {
		out = append(out, runRule(content, rule)...)
	}
	return out
}

// runRule walks the content with the rule's anchored matcher. Matches do
// not overlap within a single rule. A rule whose matcher misbehaves is cut
// short; whatever it already found stands.
func runRule(content string, rule ruleset.ValidationRule) (diags []Diagnostic) {
	defer func() {
		_ = recover()
	}()

	for off := 0; off < len(content); {
		n, ok := rule.Matcher.MatchAt(content, off)
		if !ok || n <= 0 {
			off++
			continue
		}

		line, col := position.LineAndColumn(content, off)
		diags = append(diags, Diagnostic{
			Rule:        rule.Name,
			Message:     rule.Message,
			Line:        line,
			Column:      col,
			StartOffset: off,
			EndOffset:   off + n,
			Severity:    rule.Severity,
		})
		off += n
	}
	return diags
}
