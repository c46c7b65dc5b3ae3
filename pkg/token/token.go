// Package token turns source text into a classified token stream by
// applying a profile's ordered patterns. The stream is lossless: tokens are
// contiguous, cover the whole input, and concatenating their text
// reconstructs the original content byte for byte.
package token

import (
	"fmt"

	"github.com/intellexhq/intellex/pkg/ruleset"
)

// Token is a classified, positioned substring of source content.
// End is exclusive: Text == content[Start:End].
type Token struct {
	Kind  ruleset.TokenKind
	Text  string
	Start int
	End   int
	Class string
}

func (t Token) Length() int {
	return t.End - t.Start
}

// Contains reports whether the cursor offset falls inside the token's
// [Start, End] span. The end boundary is included so a cursor sitting just
// past the last character still resolves to the token it touches.
func (t Token) Contains(offset int) bool {
	return offset >= t.Start && offset <= t.End
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Text, t.Start)
}
