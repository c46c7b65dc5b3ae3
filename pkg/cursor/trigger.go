package cursor

import (
	"unicode"
	"unicode/utf8"

	"github.com/intellexhq/intellex/pkg/token"
)

// TriggerKind classifies what kind of completion request the text before
// the cursor implies.
type TriggerKind uint8

const (
	// TriggerInvoked is the default: no specific trigger character.
	TriggerInvoked TriggerKind = iota
	// TriggerTyping means the cursor follows a letter mid-word.
	TriggerTyping
	// TriggerMemberAccess means the cursor follows a '.'.
	TriggerMemberAccess
	// TriggerScopeResolution means the cursor follows the second ':' of '::'.
	TriggerScopeResolution
	// TriggerSignatureHelp means the cursor follows a '('.
	TriggerSignatureHelp
	// TriggerGenericOpen means the cursor follows a '<'.
	TriggerGenericOpen
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerInvoked:
		return "invoked"
	case TriggerTyping:
		return "typing"
	case TriggerMemberAccess:
		return "member-access"
	case TriggerScopeResolution:
		return "scope-resolution"
	case TriggerSignatureHelp:
		return "signature-help"
	case TriggerGenericOpen:
		return "generic-open"
	default:
		return "unknown"
	}
}

// Statement is the coarse classification of the statement the cursor sits
// in. The values double as the applicability vocabulary for snippet rules.
type Statement string

const (
	StatementGeneral     Statement = "general"
	StatementConditional Statement = "conditional"
	StatementLoop        Statement = "loop"
	StatementDeclaration Statement = "declaration"
)

func classifyTrigger(content string, offset int) (TriggerKind, rune) {
	if offset <= 0 {
		return TriggerInvoked, 0
	}

	r, size := utf8.DecodeLastRuneInString(content[:offset])
	if r == utf8.RuneError && size <= 1 {
		return TriggerInvoked, 0
	}

	switch r {
	case '.':
		return TriggerMemberAccess, r
	case ':':
		if offset >= 2 && content[offset-2] == ':' {
			return TriggerScopeResolution, r
		}
		return TriggerInvoked, 0
	case '(':
		return TriggerSignatureHelp, r
	case '<':
		return TriggerGenericOpen, r
	}

	if unicode.IsLetter(r) {
		return TriggerTyping, r
	}
	return TriggerInvoked, 0
}

// Marker keyword sets for the nearest-keyword statement heuristic. The
// nearest marker before the cursor wins.
var statementMarkers = map[string]Statement{
	"if":     StatementConditional,
	"elif":   StatementConditional,
	"else":   StatementConditional,
	"switch": StatementConditional,
	"case":   StatementConditional,
	"when":   StatementConditional,

	"for":     StatementLoop,
	"foreach": StatementLoop,
	"while":   StatementLoop,
	"do":      StatementLoop,
	"until":   StatementLoop,

	"func":      StatementDeclaration,
	"function":  StatementDeclaration,
	"def":       StatementDeclaration,
	"fn":        StatementDeclaration,
	"class":     StatementDeclaration,
	"struct":    StatementDeclaration,
	"interface": StatementDeclaration,
	"enum":      StatementDeclaration,
	"var":       StatementDeclaration,
	"let":       StatementDeclaration,
	"const":     StatementDeclaration,
}

// classifyStatement walks the words of the bounded preceding window and
// returns the classification of the marker closest to the cursor.
func classifyStatement(preceding string) Statement {
	result := StatementGeneral

	start := -1
	for i, r := range preceding {
		if token.IsWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			if st, ok := statementMarkers[preceding[start:i]]; ok {
				result = st
			}
			start = -1
		}
	}
	if start >= 0 {
		if st, ok := statementMarkers[preceding[start:]]; ok {
			result = st
		}
	}

	return result
}
