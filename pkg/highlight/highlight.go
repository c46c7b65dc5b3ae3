// Package highlight renders a token stream as HTML-flavored markup.
// Classed tokens become span elements; classless tokens contribute their
// escaped text only, so the visible characters always survive rendering.
package highlight

import (
	"html"
	"strings"

	"github.com/intellexhq/intellex/pkg/token"
)

// Render produces markup for the token stream in order. Token text and
// display classes are both escaped.
func Render(tokens []token.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Class == "" {
			b.WriteString(html.EscapeString(tok.Text))
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(tok.Class))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(tok.Text))
		b.WriteString(`</span>`)
	}
	return b.String()
}
