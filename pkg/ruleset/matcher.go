package ruleset

import (
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// MatcherKind tags the matcher variant.
type MatcherKind uint8

const (
	MatcherLiteral MatcherKind = iota
	MatcherRegexp
	MatcherPredicate
)

func (k MatcherKind) String() string {
	switch k {
	case MatcherLiteral:
		return "literal"
	case MatcherRegexp:
		return "regexp"
	case MatcherPredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// PredicateFunc reports how many bytes match at offset. Zero or negative
// means no match. Predicates must not retain content.
type PredicateFunc func(content string, offset int) int

// Matcher is a tagged variant over literal text, an anchored regular
// expression, or a custom predicate. All three share one contract: report
// the length of a match that starts exactly at the given offset.
type Matcher struct {
	kind      MatcherKind
	literal   string
	re        *regexp.Regexp
	predicate PredicateFunc
	expr      string
}

// Literal matches the exact text at the offset.
func Literal(text string) Matcher {
	return Matcher{kind: MatcherLiteral, literal: text, expr: text}
}

// Regexp compiles expr anchored to the match offset. Expressions that do
// not already start with `^` are wrapped so they cannot match later in the
// input; this keeps the tokenizer's per-offset evaluation cheap.
func Regexp(expr string) (Matcher, error) {
	anchored := expr
	if !strings.HasPrefix(anchored, "^") {
		anchored = "^(?:" + expr + ")"
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return Matcher{}, errors.Errorf("compiling pattern %q: %w", expr, err)
	}
	return Matcher{kind: MatcherRegexp, re: re, expr: expr}, nil
}

// MustRegexp is Regexp for built-in rule sets; it panics on a bad
// expression the way regexp.MustCompile does.
func MustRegexp(expr string) Matcher {
	m, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return m
}

// Predicate wraps a hand-written matcher. The name shows up in logs when
// the predicate misbehaves.
func Predicate(name string, fn PredicateFunc) Matcher {
	return Matcher{kind: MatcherPredicate, predicate: fn, expr: name}
}

func (m Matcher) Kind() MatcherKind {
	return m.kind
}

func (m Matcher) String() string {
	return m.kind.String() + "(" + m.expr + ")"
}

// MatchAt reports the length of a match starting exactly at offset. A
// misbehaving predicate (panic, negative length, overrun) is treated as no
// match so a single bad rule cannot take down tokenization of a document.
func (m Matcher) MatchAt(content string, offset int) (length int, ok bool) {
	if offset < 0 || offset >= len(content) {
		return 0, false
	}

	switch m.kind {
	case MatcherLiteral:
		if m.literal == "" {
			return 0, false
		}
		if strings.HasPrefix(content[offset:], m.literal) {
			return len(m.literal), true
		}
		return 0, false

	case MatcherRegexp:
		if m.re == nil {
			return 0, false
		}
		loc := m.re.FindStringIndex(content[offset:])
		if loc == nil || loc[0] != 0 || loc[1] == 0 {
			return 0, false
		}
		return loc[1], true

	case MatcherPredicate:
		if m.predicate == nil {
			return 0, false
		}
		n := m.safePredicate(content, offset)
		if n <= 0 {
			return 0, false
		}
		if offset+n > len(content) {
			n = len(content) - offset
		}
		return n, true

	default:
		return 0, false
	}
}

func (m Matcher) safePredicate(content string, offset int) (n int) {
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()
	return m.predicate(content, offset)
}
