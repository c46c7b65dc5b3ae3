// Package suggest assembles ranked completion lists from a cursor context,
// a symbol table, and a rule set. Ranking is priority descending with an
// alphabetical tie-break; anything smarter is out of scope.
package suggest

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/intellexhq/intellex/pkg/cursor"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/symbol"
	"github.com/intellexhq/intellex/pkg/token"
)

// DefaultMaxResults caps the completion list when the caller does not.
const DefaultMaxResults = 50

// Symbols rank above profile keywords under the default trigger; members
// rank above both on their dedicated trigger.
const (
	symbolPriority = 20
	memberPriority = 30
)

// ItemKind is the UI-agnostic classification of a completion item.
type ItemKind string

const (
	ItemKindKeyword   ItemKind = "keyword"
	ItemKindSnippet   ItemKind = "snippet"
	ItemKindMember    ItemKind = "member"
	ItemKindClass     ItemKind = "class"
	ItemKindMethod    ItemKind = "method"
	ItemKindField     ItemKind = "field"
	ItemKindProperty  ItemKind = "property"
	ItemKindVariable  ItemKind = "variable"
	ItemKindNamespace ItemKind = "namespace"
	ItemKindEnum      ItemKind = "enum"
)

// Item is one ranked suggestion.
type Item struct {
	Label         string
	InsertText    string
	Kind          ItemKind
	Detail        string
	Documentation string
	Priority      int
}

// Options tune a single completion request.
type Options struct {
	// IncludeInStrings disables the string/comment suppression.
	IncludeInStrings bool

	// MaxResults caps the returned list; DefaultMaxResults when zero.
	MaxResults int
}

// Complete generates completion items for the analyzed cursor situation.
// The branch taken depends on the trigger: member access consults the
// symbol table, scope resolution offers the profile's static members, and
// everything else gets the keyword/symbol/snippet union. All branches
// share the prefix filter, the ranking, and the result cap.
func Complete(content string, ctx cursor.Context, symbols []symbol.Symbol, rs *ruleset.RuleSet, opts Options) []Item {
	if (ctx.InString || ctx.InComment) && !opts.IncludeInStrings {
		return nil
	}

	var items []Item
	switch ctx.Trigger {
	case cursor.TriggerMemberAccess:
		items = memberItems(content, ctx, symbols, rs)
	case cursor.TriggerScopeResolution:
		items = staticItems(rs)
	default:
		items = unionItems(ctx, symbols, rs)
	}

	items = filterPrefix(items, ctx.Prefix)
	rank(items)

	max := opts.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	if len(items) > max {
		items = items[:max]
	}
	return items
}

// memberItems resolves the identifier left of the '.' and emits its
// members. An unknown receiver yields nothing; this branch never falls
// back to the keyword/symbol union.
func memberItems(content string, ctx cursor.Context, symbols []symbol.Symbol, rs *ruleset.RuleSet) []Item {
	receiver := receiverBefore(ctx.Preceding, 1)
	if receiver == "" {
		return nil
	}

	members := symbol.LookupMembers(content, symbols, receiver, rs)
	if len(members) == 0 {
		return nil
	}

	items := make([]Item, 0, len(members))
	for _, m := range members {
		items = append(items, Item{
			Label:      m.Name,
			InsertText: m.Name,
			Kind:       kindFor(m.Kind),
			Detail:     m.DeclaredType,
			Priority:   memberPriority,
		})
	}
	return items
}

func staticItems(rs *ruleset.RuleSet) []Item {
	statics := rs.Completion.StaticMembers
	items := make([]Item, 0, len(statics))
	for _, m := range statics {
		kind := ItemKind(m.Kind)
		if kind == "" {
			kind = ItemKindMember
		}
		insert := m.InsertText
		if insert == "" {
			insert = m.Label
		}
		items = append(items, Item{
			Label:         m.Label,
			InsertText:    insert,
			Kind:          kind,
			Detail:        m.Detail,
			Documentation: m.Documentation,
			Priority:      m.Priority,
		})
	}
	return items
}

func unionItems(ctx cursor.Context, symbols []symbol.Symbol, rs *ruleset.RuleSet) []Item {
	items := make([]Item, 0, len(rs.Keywords)+len(symbols))

	for _, kw := range rs.Keywords {
		items = append(items, Item{
			Label:      kw,
			InsertText: kw,
			Kind:       ItemKindKeyword,
			Priority:   rs.Completion.KeywordPriority,
		})
	}

	for _, s := range symbols {
		items = append(items, Item{
			Label:      s.Name,
			InsertText: s.Name,
			Kind:       kindFor(s.Kind),
			Detail:     s.DeclaredType,
			Priority:   symbolPriority,
		})
	}

	for _, snip := range rs.Completion.Snippets {
		if !snip.AppliesIn(string(ctx.Statement)) {
			continue
		}
		insert := snip.InsertText
		if insert == "" {
			insert = snip.Label
		}
		items = append(items, Item{
			Label:         snip.Label,
			InsertText:    insert,
			Kind:          ItemKindSnippet,
			Detail:        snip.Detail,
			Documentation: snip.Documentation,
			Priority:      snip.Priority,
		})
	}

	return items
}

// receiverBefore extracts the identifier that ends right before the
// trigger characters at the tail of the preceding window.
func receiverBefore(preceding string, triggerLen int) string {
	if len(preceding) < triggerLen {
		return ""
	}
	end := len(preceding) - triggerLen

	start := end
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(preceding[:start])
		if !token.IsWordRune(r) {
			break
		}
		start -= size
	}
	return preceding[start:end]
}

func filterPrefix(items []Item, prefix string) []Item {
	if prefix == "" {
		return items
	}
	lower := strings.ToLower(prefix)

	out := items[:0]
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Label), lower) {
			out = append(out, it)
		}
	}
	return out
}

func rank(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority > items[j].Priority
		}
		li, lj := strings.ToLower(items[i].Label), strings.ToLower(items[j].Label)
		if li != lj {
			return li < lj
		}
		return items[i].Label < items[j].Label
	})
}

func kindFor(k symbol.Kind) ItemKind {
	switch k {
	case symbol.KindClass:
		return ItemKindClass
	case symbol.KindMethod:
		return ItemKindMethod
	case symbol.KindField:
		return ItemKindField
	case symbol.KindProperty:
		return ItemKindProperty
	case symbol.KindVariable:
		return ItemKindVariable
	case symbol.KindNamespace:
		return ItemKindNamespace
	case symbol.KindEnum:
		return ItemKindEnum
	default:
		return ItemKindMember
	}
}
