package symbol

import (
	"regexp"
	"sort"
	"strings"

	"github.com/intellexhq/intellex/pkg/position"
	"github.com/intellexhq/intellex/pkg/ruleset"
)

// The declaration battery. Each matcher is applied independently over the
// whole content; none of them understand nesting.
var (
	containerRe = regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|abstract|final|export|static)\s+)*(class|struct|interface|enum|namespace|module)\s+([A-Za-z_][A-Za-z0-9_]*)`)

	funcRe = regexp.MustCompile(`\b(?:func|function|def|fn)\s+([A-Za-z_][A-Za-z0-9_]*)`)

	typedFuncRe = regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|virtual|override|async|final)\s+)*([A-Za-z_][A-Za-z0-9_<>\[\]]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

	markedVarRe = regexp.MustCompile(`\b(?:var|let|const|auto)\s+([A-Za-z_][A-Za-z0-9_]*)(?:\s*:\s*([A-Za-z_][A-Za-z0-9_<>\[\].]*))?`)

	typedVarRe = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_][A-Za-z0-9_<>\[\]]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)

	bareAssignRe = regexp.MustCompile(`(?m)^([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)

	propertyRe = regexp.MustCompile(`\b(?:this|self)\s*\.\s*([A-Za-z_][A-Za-z0-9_]*)\s*=[^=]`)

	memberFieldRe = regexp.MustCompile(`(?m)^[ \t]*(?:(?:public|private|protected|static|readonly|final|const)\s+)*([A-Za-z_][A-Za-z0-9_<>\[\]]*)\s+([A-Za-z_][A-Za-z0-9_]*)\s*[;=]`)

	enumMemberRe = regexp.MustCompile(`(?m)^[ \t]*([A-Za-z_][A-Za-z0-9_]*)[ \t]*(?:=[^,\n]*)?,?[ \t]*$`)
)

// declStopWords rejects control-flow and declaration markers captured by
// the type group of the C-style matchers, which cannot tell a return type
// from a leading keyword.
var declStopWords = map[string]bool{
	"return": true, "if": true, "else": true, "elif": true, "elsif": true,
	"while": true, "for": true, "foreach": true, "do": true, "switch": true,
	"case": true, "new": true, "throw": true, "throws": true, "await": true,
	"yield": true, "import": true, "from": true, "goto": true, "delete": true,
	"in": true, "not": true, "and": true, "or": true, "typedef": true,
	"using": true, "package": true,
	"var": true, "let": true, "const": true, "auto": true,
	"func": true, "function": true, "def": true, "fn": true,
	"class": true, "struct": true, "interface": true, "enum": true,
	"namespace": true, "module": true,
}

// Extract scans content with the declaration battery and returns a flat
// symbol table ordered by source offset. Captured names that collide with
// the rule set's keywords are dropped.
func Extract(content string, rs *ruleset.RuleSet) []Symbol {
	if content == "" {
		return nil
	}

	var out []Symbol

	for _, m := range containerRe.FindAllStringSubmatchIndex(content, -1) {
		marker := content[m[2]:m[3]]
		name := content[m[4]:m[5]]
		if skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: containerKind(marker), SourceOffset: m[0]})
	}

	for _, m := range funcRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: KindMethod, SourceOffset: m[0]})
	}

	for _, m := range typedFuncRe.FindAllStringSubmatchIndex(content, -1) {
		typ := content[m[2]:m[3]]
		name := content[m[4]:m[5]]
		if declStopWords[typ] || skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: KindMethod, DeclaredType: typ, SourceOffset: m[0]})
	}

	for _, m := range markedVarRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		sym := Symbol{Name: name, Kind: KindVariable, SourceOffset: m[0]}
		if m[4] >= 0 {
			sym.DeclaredType = content[m[4]:m[5]]
		}
		out = append(out, sym)
	}

	for _, m := range typedVarRe.FindAllStringSubmatchIndex(content, -1) {
		typ := content[m[2]:m[3]]
		name := content[m[4]:m[5]]
		if declStopWords[typ] || skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: KindVariable, DeclaredType: typ, SourceOffset: m[0]})
	}

	for _, m := range bareAssignRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if declStopWords[name] || skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: KindVariable, SourceOffset: m[0]})
	}

	for _, m := range propertyRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		out = append(out, Symbol{Name: name, Kind: KindProperty, SourceOffset: m[0]})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].SourceOffset < out[j].SourceOffset })
	return out
}

// LookupMembers resolves the named symbol and materializes its member
// list, rescanning the container's body unless the symbol already carries
// members. A variable with a declared type resolves through to that
// type's members. Returns nil when the symbol is unknown or has no
// discoverable body.
func LookupMembers(content string, symbols []Symbol, name string, rs *ruleset.RuleSet) []Symbol {
	sym := Find(symbols, name)
	if sym == nil {
		return nil
	}

	target := sym
	if sym.Kind == KindVariable || sym.Kind == KindField || sym.Kind == KindProperty {
		if sym.DeclaredType == "" {
			return nil
		}
		target = Find(symbols, sym.DeclaredType)
		if target == nil {
			return nil
		}
	}

	switch target.Kind {
	case KindClass, KindEnum, KindNamespace:
	default:
		return nil
	}

	if len(target.Members) > 0 {
		return target.Members
	}
	return scanMembers(content, target, rs)
}

func scanMembers(content string, container *Symbol, rs *ruleset.RuleSet) []Symbol {
	body, base, ok := bodyOf(content, container.SourceOffset)
	if !ok {
		return nil
	}

	var members []Symbol

	if container.Kind == KindEnum {
		for _, m := range enumMemberRe.FindAllStringSubmatchIndex(body, -1) {
			name := body[m[2]:m[3]]
			if skipName(rs, name) {
				continue
			}
			members = append(members, Symbol{Name: name, Kind: KindField, SourceOffset: base + m[0]})
		}
		return dedupMembers(members)
	}

	for _, m := range funcRe.FindAllStringSubmatchIndex(body, -1) {
		name := body[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		members = append(members, Symbol{Name: name, Kind: KindMethod, SourceOffset: base + m[0]})
	}

	for _, m := range typedFuncRe.FindAllStringSubmatchIndex(body, -1) {
		typ := body[m[2]:m[3]]
		name := body[m[4]:m[5]]
		if declStopWords[typ] || skipName(rs, name) {
			continue
		}
		members = append(members, Symbol{Name: name, Kind: KindMethod, DeclaredType: typ, SourceOffset: base + m[0]})
	}

	for _, m := range memberFieldRe.FindAllStringSubmatchIndex(body, -1) {
		typ := body[m[2]:m[3]]
		name := body[m[4]:m[5]]
		if declStopWords[typ] || skipName(rs, name) {
			continue
		}
		members = append(members, Symbol{Name: name, Kind: KindField, DeclaredType: typ, SourceOffset: base + m[0]})
	}

	for _, m := range markedVarRe.FindAllStringSubmatchIndex(body, -1) {
		name := body[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		member := Symbol{Name: name, Kind: KindField, SourceOffset: base + m[0]}
		if m[4] >= 0 {
			member.DeclaredType = body[m[4]:m[5]]
		}
		members = append(members, member)
	}

	for _, m := range propertyRe.FindAllStringSubmatchIndex(body, -1) {
		name := body[m[2]:m[3]]
		if skipName(rs, name) {
			continue
		}
		members = append(members, Symbol{Name: name, Kind: KindProperty, SourceOffset: base + m[0]})
	}

	return dedupMembers(members)
}

// dedupMembers keeps the earliest occurrence of each member name.
func dedupMembers(members []Symbol) []Symbol {
	sort.SliceStable(members, func(i, j int) bool { return members[i].SourceOffset < members[j].SourceOffset })

	seen := make(map[string]bool, len(members))
	out := members[:0]
	for _, m := range members {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// bodyOf locates the body owned by the declaration at declOffset: either a
// brace-delimited block opening on the declaration line or the next, or
// the run of deeper-indented lines after a colon-terminated declaration.
// Brace balancing does not understand strings; that imprecision is shared
// with the rest of the battery.
func bodyOf(content string, declOffset int) (body string, base int, ok bool) {
	lineEnd := strings.IndexByte(content[declOffset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(content)
	} else {
		lineEnd += declOffset
	}

	searchEnd := lineEnd
	if searchEnd < len(content) {
		if next := strings.IndexByte(content[searchEnd+1:], '\n'); next >= 0 {
			searchEnd += 1 + next
		} else {
			searchEnd = len(content)
		}
	}

	if i := strings.IndexByte(content[declOffset:searchEnd], '{'); i >= 0 {
		open := declOffset + i
		depth := 1
		for j := open + 1; j < len(content); j++ {
			switch content[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				return content[open+1 : j], open + 1, true
			}
		}
		return content[open+1:], open + 1, true
	}

	if !strings.HasSuffix(strings.TrimRight(content[declOffset:lineEnd], " \t\r"), ":") {
		return "", 0, false
	}
	if lineEnd >= len(content) {
		return "", 0, false
	}

	lineStart, _ := position.LineBounds(content, declOffset)
	declIndent := indentWidth(content[lineStart:])

	bodyStart := lineEnd + 1
	end := bodyStart
	for end < len(content) {
		nextLineEnd := strings.IndexByte(content[end:], '\n')
		if nextLineEnd < 0 {
			nextLineEnd = len(content)
		} else {
			nextLineEnd += end
		}
		line := content[end:nextLineEnd]
		if strings.TrimSpace(line) != "" && indentWidth(line) <= declIndent {
			break
		}
		if nextLineEnd >= len(content) {
			end = len(content)
			break
		}
		end = nextLineEnd + 1
	}

	if end <= bodyStart {
		return "", 0, false
	}
	return content[bodyStart:end], bodyStart, true
}

func indentWidth(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

func containerKind(marker string) Kind {
	switch marker {
	case "enum":
		return KindEnum
	case "namespace", "module":
		return KindNamespace
	default:
		return KindClass
	}
}

func skipName(rs *ruleset.RuleSet, name string) bool {
	return rs != nil && rs.IsKeyword(name)
}
