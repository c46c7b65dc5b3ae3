// Package cursor derives the editing situation around a cursor offset:
// the current line and word, the enclosing token, scope depth, string and
// comment membership, statement classification, and the trigger kind.
//
// Membership and statement classification are deliberately line-local
// heuristics. They are approximate by design and live behind Analyze so a
// token-accurate implementation can replace them without touching callers.
package cursor

import (
	"strings"
	"unicode/utf8"

	"github.com/intellexhq/intellex/pkg/position"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/token"
)

// windowSize bounds the preceding and following text windows so analysis
// stays cheap on large documents.
const windowSize = 160

// Context describes everything the completion generator needs to know
// about the cursor position.
type Context struct {
	// Offset is the cursor offset after clamping into [0, len(content)].
	Offset int

	// Line is the full text of the line containing the cursor, without
	// the trailing newline. LineStart is its offset in the document and
	// Column is the cursor's byte offset within it.
	Line      string
	LineStart int
	Column    int

	// Word is the full word the cursor touches, Prefix is the part of it
	// strictly before the cursor. Both are empty when the cursor is not
	// on a word. WordStart and WordEnd are document offsets.
	Word      string
	Prefix    string
	WordStart int
	WordEnd   int

	// Preceding and Following are bounded windows of text around the
	// cursor, snapped to rune boundaries.
	Preceding string
	Following string

	// EnclosingToken is the token whose span contains the cursor, or nil
	// when no token stream was supplied or the cursor sits past the end.
	EnclosingToken *token.Token

	// ScopeDepth is the brace balance before the cursor. Braces inside
	// string and comment tokens are ignored when a token stream is
	// available.
	ScopeDepth int

	InString  bool
	InComment bool

	Statement Statement

	// IndentDepth counts leading indentation levels on the current line.
	// A tab or a run of four spaces is one level.
	IndentDepth int

	Trigger TriggerKind

	// TriggerChar is the rune that produced the trigger, 0 for invoked.
	TriggerChar rune
}

// Analyze inspects content around offset. Out-of-range offsets are clamped
// rather than rejected. The token stream is optional; when present it
// sharpens scope depth and membership, when nil the line heuristics stand
// alone.
func Analyze(content string, offset int, tokens []token.Token) Context {
	offset = position.ClampOffset(content, offset)

	ctx := Context{Offset: offset}

	lineStart, lineEnd := position.LineBounds(content, offset)
	ctx.Line = content[lineStart:lineEnd]
	ctx.LineStart = lineStart
	ctx.Column = offset - lineStart

	ctx.Word, ctx.WordStart, ctx.WordEnd = wordAt(content, offset)
	if ctx.WordStart < offset {
		ctx.Prefix = content[ctx.WordStart:offset]
	}

	ctx.Preceding = precedingWindow(content, offset)
	ctx.Following = followingWindow(content, offset)

	ctx.EnclosingToken = token.At(tokens, offset)

	ctx.ScopeDepth = scopeDepth(content, offset, tokens)

	ctx.InString = inString(ctx.Line, ctx.Column)
	ctx.InComment = inLineComment(ctx.Line, ctx.Column)
	if tok := ctx.EnclosingToken; tok != nil {
		switch tok.Kind {
		case ruleset.KindString:
			ctx.InString = true
		case ruleset.KindComment:
			ctx.InComment = true
		}
	}

	ctx.Statement = classifyStatement(ctx.Preceding)
	ctx.IndentDepth = indentDepth(ctx.Line)
	ctx.Trigger, ctx.TriggerChar = classifyTrigger(content, offset)

	return ctx
}

// wordAt expands from offset over word runes in both directions.
func wordAt(content string, offset int) (word string, start, end int) {
	start = offset
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(content[:start])
		if !token.IsWordRune(r) {
			break
		}
		start -= size
	}

	end = offset
	for end < len(content) {
		r, size := utf8.DecodeRuneInString(content[end:])
		if !token.IsWordRune(r) {
			break
		}
		end += size
	}

	return content[start:end], start, end
}

func precedingWindow(content string, offset int) string {
	start := offset - windowSize
	if start < 0 {
		start = 0
	}
	for start < offset && !utf8.RuneStart(content[start]) {
		start++
	}
	return content[start:offset]
}

func followingWindow(content string, offset int) string {
	end := offset + windowSize
	if end > len(content) {
		end = len(content)
	}
	for end > offset && end < len(content) && !utf8.RuneStart(content[end]) {
		end--
	}
	return content[offset:end]
}

// scopeDepth is the running balance of '{' against '}' before the cursor.
// With a token stream, braces inside string and comment tokens do not
// count. The balance may go negative on unbalanced input.
func scopeDepth(content string, offset int, tokens []token.Token) int {
	if len(tokens) == 0 {
		return braceBalance(content[:offset])
	}

	depth := 0
	for i := range tokens {
		tok := &tokens[i]
		if tok.Start >= offset {
			break
		}
		if tok.Kind == ruleset.KindString || tok.Kind == ruleset.KindComment {
			continue
		}
		end := tok.End
		if end > offset {
			end = offset
		}
		depth += braceBalance(content[tok.Start:end])
	}
	return depth
}

func braceBalance(text string) int {
	depth := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth
}

// inString tracks unescaped quote state across the line up to the cursor.
// A quote of one flavor does not toggle while the other flavor is open.
func inString(line string, column int) bool {
	if column > len(line) {
		column = len(line)
	}

	var inDouble, inSingle bool
	for i := 0; i < column; i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		}
	}
	return inDouble || inSingle
}

// inLineComment reports whether a line-comment marker sits fully before
// the cursor on the current line. Markers inside string literals are not
// distinguished; that is the accepted imprecision of the heuristic.
func inLineComment(line string, column int) bool {
	if column > len(line) {
		column = len(line)
	}
	head := line[:column]

	for _, marker := range []string{"//", "#"} {
		if strings.Contains(head, marker) {
			return true
		}
	}
	return false
}

func indentDepth(line string) int {
	depth := 0
	spaces := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\t':
			depth++
			spaces = 0
		case ' ':
			spaces++
			if spaces == 4 {
				depth++
				spaces = 0
			}
		default:
			return depth
		}
	}
	return depth
}
