package token

import (
	"unicode"
	"unicode/utf8"

	"github.com/intellexhq/intellex/pkg/ruleset"
)

// Tokenize scans content left to right. At each offset the profile's
// patterns are evaluated in descending priority (declaration order breaks
// ties) and the first anchored match wins. When no pattern matches, a
// maximal word run is tried against the keyword set: a hit is a keyword
// token, a miss an identifier token. Anything else becomes a one-rune
// unknown token, so the scan always advances and always terminates.
func Tokenize(content string, rs *ruleset.RuleSet) []Token {
	if len(content) == 0 {
		return nil
	}

	tokens := make([]Token, 0, len(content)/4+1)
	offset := 0
	for offset < len(content) {
		if tok, ok := matchPatternAt(content, offset, rs); ok {
			tokens = append(tokens, tok)
			offset = tok.End
			continue
		}

		if end := wordRunEnd(content, offset); end > offset {
			word := content[offset:end]
			tok := Token{Kind: ruleset.KindIdentifier, Text: word, Start: offset, End: end}
			if rs.IsKeyword(word) {
				tok.Kind = ruleset.KindKeyword
				tok.Class = "keyword"
			}
			tokens = append(tokens, tok)
			offset = end
			continue
		}

		_, size := utf8.DecodeRuneInString(content[offset:])
		if size < 1 {
			size = 1
		}
		tokens = append(tokens, Token{
			Kind:  ruleset.KindUnknown,
			Text:  content[offset : offset+size],
			Start: offset,
			End:   offset + size,
		})
		offset += size
	}

	return tokens
}

func matchPatternAt(content string, offset int, rs *ruleset.RuleSet) (Token, bool) {
	for _, p := range rs.Patterns {
		n, ok := p.Matcher.MatchAt(content, offset)
		if !ok || n <= 0 {
			continue
		}
		if offset+n > len(content) {
			n = len(content) - offset
		}
		return Token{
			Kind:  p.Kind,
			Text:  content[offset : offset+n],
			Start: offset,
			End:   offset + n,
			Class: p.Class,
		}, true
	}
	return Token{}, false
}

func wordRunEnd(content string, offset int) int {
	end := offset
	for end < len(content) {
		r, size := utf8.DecodeRuneInString(content[end:])
		if !IsWordRune(r) {
			break
		}
		end += size
	}
	return end
}

// IsWordRune reports whether r belongs to a word: letters, digits, or
// underscore. The context analyzer uses the same definition for its
// current-word scan so word boundaries agree across components.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// At returns the first token whose span contains offset, or nil. Tokens
// are ordered, so the first hit is the enclosing one.
func At(tokens []Token, offset int) *Token {
	for i := range tokens {
		if tokens[i].Contains(offset) {
			return &tokens[i]
		}
	}
	return nil
}
