// Package ruleset defines the per-profile rule bundles that drive
// tokenization, completion, and validation. A RuleSet is resolved once per
// (profile, version) pair, is immutable after construction, and is shared
// freely across concurrent requests.
package ruleset

import (
	"sort"
)

// TokenKind classifies what a token pattern produces. The set is open:
// bundles may declare kinds beyond the ones named here.
type TokenKind string

const (
	KindComment     TokenKind = "comment"
	KindString      TokenKind = "string"
	KindNumber      TokenKind = "number"
	KindKeyword     TokenKind = "keyword"
	KindIdentifier  TokenKind = "identifier"
	KindOperator    TokenKind = "operator"
	KindPunctuation TokenKind = "punctuation"
	KindWhitespace  TokenKind = "whitespace"
	KindDirective   TokenKind = "directive"
	KindUnknown     TokenKind = "unknown"
)

// TokenPattern is one ordered tokenization rule. Higher priority wins; ties
// resolve by declaration order within the bundle.
type TokenPattern struct {
	Name     string
	Matcher  Matcher
	Kind     TokenKind
	Class    string
	Priority int

	order int
}

// StaticMember is one entry of the profile's static-member completion list,
// offered on scope-resolution triggers without consulting the symbol table.
type StaticMember struct {
	Label         string
	InsertText    string
	Kind          string
	Detail        string
	Documentation string
	Priority      int
}

// Snippet is a completion template gated by statement classification.
// An empty Statements list means the snippet applies everywhere.
type Snippet struct {
	Label         string
	InsertText    string
	Detail        string
	Documentation string
	Priority      int
	Statements    []string
}

// AppliesIn reports whether the snippet is offered under the given
// statement classification.
func (s Snippet) AppliesIn(statement string) bool {
	if len(s.Statements) == 0 {
		return true
	}
	for _, st := range s.Statements {
		if st == statement {
			return true
		}
	}
	return false
}

// CompletionRules carries the completion-specific parts of a profile.
type CompletionRules struct {
	// KeywordPriority ranks keyword suggestions against symbols/snippets.
	KeywordPriority int
	StaticMembers   []StaticMember
	Snippets        []Snippet
}

// Severity levels follow the usual editor diagnostic scale.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// ValidationRule flags every occurrence of its matcher with a fixed message
// and severity. Rules are independent of each other.
type ValidationRule struct {
	Name     string
	Matcher  Matcher
	Message  string
	Severity Severity
}

// RuleSet is the compiled, immutable rule bundle for one profile version.
type RuleSet struct {
	Name    string
	Version string

	// Patterns are kept pre-sorted by descending priority (declaration
	// order breaks ties) so the tokenizer's per-offset walk is a flat scan.
	Patterns []TokenPattern

	Keywords   []string
	Completion CompletionRules
	Validation []ValidationRule

	keywordSet map[string]bool
}

// ID identifies the rule set in caches and logs.
func (rs *RuleSet) ID() string {
	return rs.Name + "@" + rs.Version
}

// IsKeyword reports whether word is in the profile's keyword set.
// Matching is exact, including case.
func (rs *RuleSet) IsKeyword(word string) bool {
	return rs.keywordSet[word]
}

// normalize freezes the rule set: patterns sorted for the tokenizer walk,
// keyword lookup indexed. Every constructor must call it exactly once.
func (rs *RuleSet) normalize() {
	for i := range rs.Patterns {
		rs.Patterns[i].order = i
	}
	sort.SliceStable(rs.Patterns, func(i, j int) bool {
		return rs.Patterns[i].Priority > rs.Patterns[j].Priority
	})

	rs.keywordSet = make(map[string]bool, len(rs.Keywords))
	for _, kw := range rs.Keywords {
		rs.keywordSet[kw] = true
	}
}

func normalizeVersion(version string) string {
	if version == "" {
		return "default"
	}
	return version
}
