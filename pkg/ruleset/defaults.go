package ruleset

import (
	"strings"
)

// Built-in families, checked in order. Family aliases match the profile
// name by case-insensitive substring; single-letter aliases match exactly
// so "c" does not swallow every profile containing the letter.
//
// Order matters: "tsql" has to reach the sql family before the script
// family's "ts" alias sees it, and "javascript" has to reach the script
// family before the c family's "java" alias sees it.
var families = []struct {
	name    string
	aliases []string
	build   func() *RuleSet
}{
	{name: "sql", aliases: []string{"sql", "mysql", "postgres", "postgresql", "sqlite", "mariadb"}, build: sqlFamily},
	{name: "python", aliases: []string{"python", "py"}, build: pythonFamily},
	{name: "script", aliases: []string{"javascript", "typescript", "ecmascript", "node", "js", "ts"}, build: scriptFamily},
	{name: "c", aliases: []string{"csharp", "c#", "cpp", "c++", "java", "kotlin", "c"}, build: cFamily},
}

// DefaultForProfile picks the built-in rule set for a profile name: the
// first family with a matching alias, else the generic fallback. It never
// returns nil.
func DefaultForProfile(name string) *RuleSet {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, fam := range families {
		for _, alias := range fam.aliases {
			if len(alias) == 1 {
				if lower == alias {
					return fam.build()
				}
				continue
			}
			if strings.Contains(lower, alias) {
				return fam.build()
			}
		}
	}
	rs := Generic()
	rs.Name = name
	return rs
}

// FamilyNames lists the built-in families, for diagnostics and CLI output.
func FamilyNames() []string {
	names := make([]string, 0, len(families)+1)
	for _, fam := range families {
		names = append(names, fam.name)
	}
	return append(names, "generic")
}

// Generic is the rule set of last resort: C-style comments, double and
// single quoted strings, integer/decimal numerics, and a minimal keyword
// list. Everything else falls through to the tokenizer's word and
// single-character paths.
func Generic() *RuleSet {
	rs := &RuleSet{
		Name:    "generic",
		Version: "default",
		Patterns: []TokenPattern{
			{Name: "line-comment", Matcher: MustRegexp(`//[^\n]*`), Kind: KindComment, Class: "comment", Priority: 100},
			{Name: "block-comment", Matcher: MustRegexp(`/\*[\s\S]*?(?:\*/|\z)`), Kind: KindComment, Class: "comment", Priority: 98},
			{Name: "double-string", Matcher: MustRegexp(`"(?:[^"\\\n]|\\.)*"`), Kind: KindString, Class: "string", Priority: 90},
			{Name: "single-string", Matcher: MustRegexp(`'(?:[^'\\\n]|\\.)*'`), Kind: KindString, Class: "string", Priority: 88},
			{Name: "number", Matcher: MustRegexp(`\d+(?:\.\d+)?`), Kind: KindNumber, Class: "number", Priority: 80},
		},
		Keywords: []string{
			"if", "else", "for", "while", "do", "switch", "case", "break",
			"continue", "return", "function", "class", "struct", "enum",
			"interface", "import", "new", "this", "true", "false", "null",
			"var", "let", "const", "void", "static", "public", "private",
		},
		Completion: CompletionRules{
			KeywordPriority: 10,
			Snippets: []Snippet{
				{Label: "if", InsertText: "if (${1:condition}) {\n\t$0\n}", Detail: "if statement", Priority: 5},
				{Label: "for", InsertText: "for (${1:init}; ${2:condition}; ${3:step}) {\n\t$0\n}", Detail: "for loop", Priority: 5},
			},
		},
		Validation: commonLint(),
	}
	rs.normalize()
	return rs
}

func commonLint() []ValidationRule {
	return []ValidationRule{
		{Name: "todo-comment", Matcher: Literal("TODO"), Message: "TODO marker", Severity: SeverityInfo},
		{Name: "fixme-comment", Matcher: Literal("FIXME"), Message: "FIXME marker", Severity: SeverityWarning},
		{Name: "merge-conflict", Matcher: MustRegexp(`<{7}\s`), Message: "merge conflict marker", Severity: SeverityError},
		{Name: "trailing-whitespace", Matcher: MustRegexp(`[ \t]+\r?\n`), Message: "trailing whitespace", Severity: SeverityHint},
	}
}

func cFamily() *RuleSet {
	rs := &RuleSet{
		Name:    "c-family",
		Version: "default",
		Patterns: []TokenPattern{
			{Name: "line-comment", Matcher: MustRegexp(`//[^\n]*`), Kind: KindComment, Class: "comment", Priority: 100},
			{Name: "block-comment", Matcher: MustRegexp(`/\*[\s\S]*?(?:\*/|\z)`), Kind: KindComment, Class: "comment", Priority: 98},
			{Name: "preprocessor", Matcher: MustRegexp(`#\s*[A-Za-z]+[^\n]*`), Kind: KindDirective, Class: "directive", Priority: 96},
			{Name: "verbatim-string", Matcher: MustRegexp(`@"(?:[^"]|"")*"`), Kind: KindString, Class: "string", Priority: 92},
			{Name: "double-string", Matcher: MustRegexp(`"(?:[^"\\\n]|\\.)*"`), Kind: KindString, Class: "string", Priority: 90},
			{Name: "char-literal", Matcher: MustRegexp(`'(?:[^'\\\n]|\\.)'`), Kind: KindString, Class: "string", Priority: 88},
			{Name: "hex-number", Matcher: MustRegexp(`0[xX][0-9a-fA-F]+`), Kind: KindNumber, Class: "number", Priority: 82},
			{Name: "number", Matcher: MustRegexp(`\d+(?:\.\d+)?[fFdDmLuU]?`), Kind: KindNumber, Class: "number", Priority: 80},
			{Name: "operator", Matcher: MustRegexp(`::|->|\+\+|--|&&|\|\||[=!<>]=|[+\-*/%=<>!&|^~?]`), Kind: KindOperator, Class: "operator", Priority: 40},
			{Name: "punctuation", Matcher: MustRegexp(`[{}()\[\];,.:]`), Kind: KindPunctuation, Class: "", Priority: 30},
			{Name: "whitespace", Matcher: MustRegexp(`[ \t\r\n]+`), Kind: KindWhitespace, Class: "", Priority: 5},
		},
		Keywords: []string{
			"using", "namespace", "class", "struct", "interface", "enum",
			"public", "private", "protected", "internal", "static", "void",
			"int", "long", "double", "float", "char", "byte", "bool",
			"string", "var", "new", "return", "if", "else", "for", "foreach",
			"while", "do", "switch", "case", "default", "break", "continue",
			"try", "catch", "finally", "throw", "this", "base", "null",
			"true", "false", "abstract", "virtual", "override", "readonly",
			"const", "template", "typename", "include",
		},
		Completion: CompletionRules{
			KeywordPriority: 10,
			StaticMembers: []StaticMember{
				{Label: "cout", Kind: "variable", Detail: "std::cout", Documentation: "standard output stream", Priority: 20},
				{Label: "cin", Kind: "variable", Detail: "std::cin", Documentation: "standard input stream", Priority: 20},
				{Label: "endl", Kind: "variable", Detail: "std::endl", Documentation: "newline and flush", Priority: 18},
				{Label: "string", Kind: "class", Detail: "std::string", Priority: 16},
				{Label: "vector", Kind: "class", Detail: "std::vector<T>", Priority: 16},
				{Label: "map", Kind: "class", Detail: "std::map<K, V>", Priority: 14},
				{Label: "make_shared", Kind: "method", Detail: "std::make_shared<T>(args...)", Priority: 12},
			},
			Snippets: []Snippet{
				{Label: "for", InsertText: "for (int ${1:i} = 0; $1 < ${2:count}; $1++) {\n\t$0\n}", Detail: "indexed for loop", Priority: 8},
				{Label: "foreach", InsertText: "foreach (var ${1:item} in ${2:items}) {\n\t$0\n}", Detail: "foreach loop", Priority: 8},
				{Label: "if", InsertText: "if (${1:condition}) {\n\t$0\n}", Detail: "if statement", Priority: 6},
				{Label: "else", InsertText: "else {\n\t$0\n}", Detail: "else branch", Priority: 6, Statements: []string{"conditional"}},
				{Label: "switch", InsertText: "switch (${1:value}) {\ncase ${2:match}:\n\t$0\n\tbreak;\n}", Detail: "switch statement", Priority: 4},
			},
		},
		Validation: commonLint(),
	}
	rs.normalize()
	return rs
}

func scriptFamily() *RuleSet {
	rs := &RuleSet{
		Name:    "script",
		Version: "default",
		Patterns: []TokenPattern{
			{Name: "line-comment", Matcher: MustRegexp(`//[^\n]*`), Kind: KindComment, Class: "comment", Priority: 100},
			{Name: "block-comment", Matcher: MustRegexp(`/\*[\s\S]*?(?:\*/|\z)`), Kind: KindComment, Class: "comment", Priority: 98},
			{Name: "template-string", Matcher: MustRegexp("`(?:[^`\\\\]|\\\\[\\s\\S])*`"), Kind: KindString, Class: "string", Priority: 92},
			{Name: "double-string", Matcher: MustRegexp(`"(?:[^"\\\n]|\\.)*"`), Kind: KindString, Class: "string", Priority: 90},
			{Name: "single-string", Matcher: MustRegexp(`'(?:[^'\\\n]|\\.)*'`), Kind: KindString, Class: "string", Priority: 88},
			{Name: "hex-number", Matcher: MustRegexp(`0[xX][0-9a-fA-F]+`), Kind: KindNumber, Class: "number", Priority: 82},
			{Name: "number", Matcher: MustRegexp(`\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`), Kind: KindNumber, Class: "number", Priority: 80},
			{Name: "arrow", Matcher: Literal("=>"), Kind: KindOperator, Class: "operator", Priority: 42},
			{Name: "operator", Matcher: MustRegexp(`===|!==|\+\+|--|&&|\|\||\?\?|\.\.\.|[=!<>]=|[+\-*/%=<>!&|^~?]`), Kind: KindOperator, Class: "operator", Priority: 40},
			{Name: "punctuation", Matcher: MustRegexp(`[{}()\[\];,.:]`), Kind: KindPunctuation, Class: "", Priority: 30},
			{Name: "whitespace", Matcher: MustRegexp(`[ \t\r\n]+`), Kind: KindWhitespace, Class: "", Priority: 5},
		},
		Keywords: []string{
			"let", "const", "var", "function", "return", "if", "else", "for",
			"while", "do", "switch", "case", "default", "break", "continue",
			"new", "class", "extends", "constructor", "import", "export",
			"from", "try", "catch", "finally", "throw", "async", "await",
			"this", "super", "typeof", "instanceof", "in", "of", "null",
			"undefined", "true", "false", "yield", "delete", "interface",
			"type", "enum", "implements", "readonly",
		},
		Completion: CompletionRules{
			KeywordPriority: 10,
			StaticMembers: []StaticMember{
				{Label: "log", InsertText: "log($0)", Kind: "method", Detail: "console.log(...)", Priority: 20},
				{Label: "warn", InsertText: "warn($0)", Kind: "method", Detail: "console.warn(...)", Priority: 18},
				{Label: "error", InsertText: "error($0)", Kind: "method", Detail: "console.error(...)", Priority: 18},
				{Label: "floor", InsertText: "floor($0)", Kind: "method", Detail: "Math.floor(x)", Priority: 14},
				{Label: "random", InsertText: "random()", Kind: "method", Detail: "Math.random()", Priority: 14},
				{Label: "stringify", InsertText: "stringify($0)", Kind: "method", Detail: "JSON.stringify(value)", Priority: 12},
				{Label: "parse", InsertText: "parse($0)", Kind: "method", Detail: "JSON.parse(text)", Priority: 12},
			},
			Snippets: []Snippet{
				{Label: "for", InsertText: "for (let ${1:i} = 0; $1 < ${2:count}; $1++) {\n\t$0\n}", Detail: "indexed for loop", Priority: 8},
				{Label: "forof", InsertText: "for (const ${1:item} of ${2:items}) {\n\t$0\n}", Detail: "for...of loop", Priority: 8},
				{Label: "func", InsertText: "function ${1:name}(${2:args}) {\n\t$0\n}", Detail: "function declaration", Priority: 6},
				{Label: "arrow", InsertText: "(${1:args}) => {\n\t$0\n}", Detail: "arrow function", Priority: 6},
				{Label: "else", InsertText: "else {\n\t$0\n}", Detail: "else branch", Priority: 6, Statements: []string{"conditional"}},
				{Label: "trycatch", InsertText: "try {\n\t$0\n} catch (err) {\n}", Detail: "try/catch block", Priority: 4},
			},
		},
		Validation: append(commonLint(),
			ValidationRule{Name: "debugger-statement", Matcher: Literal("debugger"), Message: "debugger statement left in code", Severity: SeverityWarning},
		),
	}
	rs.normalize()
	return rs
}

func pythonFamily() *RuleSet {
	rs := &RuleSet{
		Name:    "python",
		Version: "default",
		Patterns: []TokenPattern{
			{Name: "line-comment", Matcher: MustRegexp(`#[^\n]*`), Kind: KindComment, Class: "comment", Priority: 100},
			{Name: "triple-double-string", Matcher: MustRegexp(`"""[\s\S]*?(?:"""|\z)`), Kind: KindString, Class: "string", Priority: 96},
			{Name: "triple-single-string", Matcher: MustRegexp(`'''[\s\S]*?(?:'''|\z)`), Kind: KindString, Class: "string", Priority: 95},
			{Name: "double-string", Matcher: MustRegexp(`"(?:[^"\\\n]|\\.)*"`), Kind: KindString, Class: "string", Priority: 90},
			{Name: "single-string", Matcher: MustRegexp(`'(?:[^'\\\n]|\\.)*'`), Kind: KindString, Class: "string", Priority: 88},
			{Name: "decorator", Matcher: MustRegexp(`@[A-Za-z_][A-Za-z0-9_.]*`), Kind: KindDirective, Class: "directive", Priority: 84},
			{Name: "number", Matcher: MustRegexp(`\d+(?:\.\d+)?(?:[eE][+-]?\d+)?[jJ]?`), Kind: KindNumber, Class: "number", Priority: 80},
			{Name: "operator", Matcher: MustRegexp(`\*\*|//|<<|>>|[=!<>]=|->|[+\-*/%=<>&|^~@]`), Kind: KindOperator, Class: "operator", Priority: 40},
			{Name: "punctuation", Matcher: MustRegexp(`[{}()\[\];,.:]`), Kind: KindPunctuation, Class: "", Priority: 30},
			{Name: "whitespace", Matcher: MustRegexp(`[ \t\r\n]+`), Kind: KindWhitespace, Class: "", Priority: 5},
		},
		Keywords: []string{
			"def", "class", "if", "elif", "else", "for", "while", "return",
			"import", "from", "as", "with", "try", "except", "finally",
			"raise", "pass", "break", "continue", "lambda", "yield",
			"global", "nonlocal", "del", "not", "and", "or", "in", "is",
			"None", "True", "False", "async", "await", "assert", "match",
		},
		Completion: CompletionRules{
			KeywordPriority: 10,
			StaticMembers: []StaticMember{
				{Label: "print", InsertText: "print($0)", Kind: "method", Detail: "print(*values)", Priority: 20},
				{Label: "len", InsertText: "len($0)", Kind: "method", Detail: "len(obj)", Priority: 18},
				{Label: "range", InsertText: "range($0)", Kind: "method", Detail: "range(stop)", Priority: 18},
				{Label: "enumerate", InsertText: "enumerate($0)", Kind: "method", Detail: "enumerate(iterable)", Priority: 14},
				{Label: "isinstance", InsertText: "isinstance($0)", Kind: "method", Detail: "isinstance(obj, cls)", Priority: 12},
			},
			Snippets: []Snippet{
				{Label: "def", InsertText: "def ${1:name}(${2:args}):\n\t$0", Detail: "function definition", Priority: 8},
				{Label: "class", InsertText: "class ${1:Name}:\n\tdef __init__(self):\n\t\t$0", Detail: "class definition", Priority: 6},
				{Label: "for", InsertText: "for ${1:item} in ${2:items}:\n\t$0", Detail: "for loop", Priority: 8},
				{Label: "elif", InsertText: "elif ${1:condition}:\n\t$0", Detail: "elif branch", Priority: 6, Statements: []string{"conditional"}},
				{Label: "ifmain", InsertText: "if __name__ == \"__main__\":\n\t$0", Detail: "main guard", Priority: 4},
			},
		},
		Validation: commonLint(),
	}
	rs.normalize()
	return rs
}

func sqlFamily() *RuleSet {
	keywords := []string{
		"select", "from", "where", "insert", "into", "values", "update",
		"set", "delete", "join", "left", "right", "inner", "outer", "on",
		"group", "by", "order", "having", "limit", "offset", "create",
		"table", "index", "view", "drop", "alter", "and", "or", "not",
		"null", "in", "exists", "between", "like", "as", "distinct",
		"union", "all", "primary", "key", "foreign", "references",
	}

	rs := &RuleSet{
		Name:    "sql",
		Version: "default",
		Patterns: []TokenPattern{
			{Name: "line-comment", Matcher: MustRegexp(`--[^\n]*`), Kind: KindComment, Class: "comment", Priority: 100},
			{Name: "block-comment", Matcher: MustRegexp(`/\*[\s\S]*?(?:\*/|\z)`), Kind: KindComment, Class: "comment", Priority: 98},
			{Name: "single-string", Matcher: MustRegexp(`'(?:[^']|'')*'`), Kind: KindString, Class: "string", Priority: 90},
			{Name: "quoted-identifier", Matcher: MustRegexp(`"[^"\n]*"`), Kind: KindIdentifier, Class: "", Priority: 88},
			{Name: "number", Matcher: MustRegexp(`\d+(?:\.\d+)?`), Kind: KindNumber, Class: "number", Priority: 80},
			{Name: "operator", Matcher: MustRegexp(`<>|[=!<>]=|\|\||[+\-*/%=<>]`), Kind: KindOperator, Class: "operator", Priority: 40},
			{Name: "punctuation", Matcher: MustRegexp(`[();,.]`), Kind: KindPunctuation, Class: "", Priority: 30},
			{Name: "whitespace", Matcher: MustRegexp(`[ \t\r\n]+`), Kind: KindWhitespace, Class: "", Priority: 5},
		},
		// Exact-match keyword lookup needs both spellings.
		Keywords: withUppercase(keywords),
		Completion: CompletionRules{
			KeywordPriority: 10,
			StaticMembers: []StaticMember{
				{Label: "COUNT", InsertText: "COUNT($0)", Kind: "method", Detail: "COUNT(expr)", Priority: 20},
				{Label: "SUM", InsertText: "SUM($0)", Kind: "method", Detail: "SUM(expr)", Priority: 18},
				{Label: "AVG", InsertText: "AVG($0)", Kind: "method", Detail: "AVG(expr)", Priority: 18},
				{Label: "MIN", InsertText: "MIN($0)", Kind: "method", Detail: "MIN(expr)", Priority: 16},
				{Label: "MAX", InsertText: "MAX($0)", Kind: "method", Detail: "MAX(expr)", Priority: 16},
				{Label: "COALESCE", InsertText: "COALESCE($0)", Kind: "method", Detail: "COALESCE(a, b, ...)", Priority: 12},
			},
			Snippets: []Snippet{
				{Label: "select", InsertText: "SELECT ${1:columns}\nFROM ${2:table}\nWHERE ${3:condition};", Detail: "select statement", Priority: 8},
				{Label: "insert", InsertText: "INSERT INTO ${1:table} (${2:columns})\nVALUES (${3:values});", Detail: "insert statement", Priority: 6},
				{Label: "update", InsertText: "UPDATE ${1:table}\nSET ${2:assignments}\nWHERE ${3:condition};", Detail: "update statement", Priority: 6},
				{Label: "createtable", InsertText: "CREATE TABLE ${1:name} (\n\t${2:columns}\n);", Detail: "create table", Priority: 4},
			},
		},
		Validation: append(commonLint(),
			ValidationRule{Name: "select-star", Matcher: MustRegexp(`(?i:SELECT)\s+\*`), Message: "SELECT * hides schema changes", Severity: SeverityHint},
		),
	}
	rs.normalize()
	return rs
}

func withUppercase(words []string) []string {
	out := make([]string, 0, len(words)*2)
	for _, w := range words {
		out = append(out, w, strings.ToUpper(w))
	}
	return out
}
