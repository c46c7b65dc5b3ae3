package service

import (
	"github.com/intellexhq/intellex/pkg/cache"
	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/suggest"
	"github.com/intellexhq/intellex/pkg/symbol"
	"github.com/intellexhq/intellex/pkg/token"
	"github.com/intellexhq/intellex/pkg/validate"
)

// Source selects the text a request operates on: either a document id
// returned by document/open, or inline content carried on the request.
// Profile and Version override the document's stored profile when set.
type Source struct {
	Document string `json:"document,omitempty"`
	Content  string `json:"content,omitempty"`
	Profile  string `json:"profile,omitempty"`
	Version  string `json:"version,omitempty"`
}

type TokenizeParams struct {
	Source Source `json:"source"`
}

type TokenizeResult struct {
	Tokens []Token `json:"tokens"`
}

// Token is the wire form of a classified span. End is exclusive.
type Token struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Class string `json:"class,omitempty"`
}

type HighlightParams struct {
	Source Source `json:"source"`
}

type HighlightResult struct {
	Markup string `json:"markup"`
}

type CompleteParams struct {
	Source           Source `json:"source"`
	Offset           int    `json:"offset"`
	MaxResults       int    `json:"maxResults,omitempty"`
	IncludeInStrings bool   `json:"includeInStrings,omitempty"`
}

type CompleteResult struct {
	Items []CompletionItem `json:"items"`
}

type CompletionItem struct {
	Label         string `json:"label"`
	InsertText    string `json:"insertText"`
	Kind          string `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Priority      int    `json:"priority"`
}

type ValidateParams struct {
	Source Source `json:"source"`
}

type ValidateResult struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic is the wire form of a validation finding. Line and Column are
// 1-based; offsets are byte positions with EndOffset exclusive.
type Diagnostic struct {
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Severity    string `json:"severity"`
}

type DescribeParams struct {
	Source Source `json:"source"`
	Offset int    `json:"offset"`
}

type DescribeResult struct {
	Profile string       `json:"profile"`
	Offset  int          `json:"offset"`
	Line    int          `json:"line"`
	Column  int          `json:"column"`
	Word    string       `json:"word,omitempty"`
	Token   *Token       `json:"token,omitempty"`
	Symbol  *SymbolInfo  `json:"symbol,omitempty"`
	Members []SymbolInfo `json:"members,omitempty"`
}

type SymbolInfo struct {
	Name         string       `json:"name"`
	Kind         string       `json:"kind"`
	DeclaredType string       `json:"declaredType,omitempty"`
	SourceOffset int          `json:"sourceOffset"`
	Members      []SymbolInfo `json:"members,omitempty"`
}

type OpenDocumentParams struct {
	Content string `json:"content"`
	Profile string `json:"profile,omitempty"`
	Version string `json:"version,omitempty"`
}

type OpenDocumentResult struct {
	Document string `json:"document"`
	Revision int    `json:"revision"`
}

type UpdateDocumentParams struct {
	Document string `json:"document"`
	Content  string `json:"content"`
}

type UpdateDocumentResult struct {
	Revision int `json:"revision"`
}

type CloseDocumentParams struct {
	Document string `json:"document"`
}

type StatsResult struct {
	ServerID  string     `json:"serverId"`
	EngineID  string     `json:"engineId"`
	Documents int        `json:"documents"`
	Profiles  []string   `json:"profiles"`
	Tokens    CacheStats `json:"tokens"`
	Symbols   CacheStats `json:"symbols"`
}

type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
	Capacity  int    `json:"capacity"`
}

func cacheStats(st cache.Stats) CacheStats {
	return CacheStats{
		Hits:      st.Hits,
		Misses:    st.Misses,
		Evictions: st.Evictions,
		Size:      st.Size,
		Capacity:  st.Capacity,
	}
}

func tokenInfo(t token.Token) Token {
	return Token{
		Kind:  string(t.Kind),
		Text:  t.Text,
		Start: t.Start,
		End:   t.End,
		Class: t.Class,
	}
}

func tokenInfos(toks []token.Token) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		out[i] = tokenInfo(t)
	}
	return out
}

func completionItems(items []suggest.Item) []CompletionItem {
	out := make([]CompletionItem, len(items))
	for i, it := range items {
		out[i] = CompletionItem{
			Label:         it.Label,
			InsertText:    it.InsertText,
			Kind:          string(it.Kind),
			Detail:        it.Detail,
			Documentation: it.Documentation,
			Priority:      it.Priority,
		}
	}
	return out
}

func diagnosticInfos(diags []validate.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = Diagnostic{
			Rule:        d.Rule,
			Message:     d.Message,
			Line:        d.Line,
			Column:      d.Column,
			StartOffset: d.StartOffset,
			EndOffset:   d.EndOffset,
			Severity:    string(d.Severity),
		}
	}
	return out
}

func symbolInfo(s symbol.Symbol) SymbolInfo {
	return SymbolInfo{
		Name:         s.Name,
		Kind:         string(s.Kind),
		DeclaredType: s.DeclaredType,
		SourceOffset: s.SourceOffset,
		Members:      symbolInfos(s.Members),
	}
}

func symbolInfos(syms []symbol.Symbol) []SymbolInfo {
	if len(syms) == 0 {
		return nil
	}
	out := make([]SymbolInfo, len(syms))
	for i, s := range syms {
		out[i] = symbolInfo(s)
	}
	return out
}

func describeResult(desc engine.Description) *DescribeResult {
	res := &DescribeResult{
		Profile: desc.Profile,
		Offset:  desc.Offset,
		Line:    desc.Line,
		Column:  desc.Column,
		Word:    desc.Word,
		Members: symbolInfos(desc.Members),
	}
	if desc.Token != nil {
		tok := tokenInfo(*desc.Token)
		res.Token = &tok
	}
	if desc.Symbol != nil {
		sym := symbolInfo(*desc.Symbol)
		res.Symbol = &sym
	}
	return res
}
