// Package symbol extracts declaration-shaped symbols from source text.
//
// Extraction is pattern-based, not structural. It runs a small fixed
// battery of declaration matchers over the whole content and yields a flat
// table. It both misses valid declarations and over-matches lexically
// similar text; that is the accepted contract. Member trees are only
// materialized when a symbol is looked up by name.
package symbol

// Kind classifies an extracted symbol.
type Kind string

const (
	KindClass     Kind = "class"
	KindMethod    Kind = "method"
	KindField     Kind = "field"
	KindProperty  Kind = "property"
	KindVariable  Kind = "variable"
	KindNamespace Kind = "namespace"
	KindEnum      Kind = "enum"
)

// Symbol is one approximate declaration record. Members is populated only
// by LookupMembers, never during extraction.
type Symbol struct {
	Name         string
	Kind         Kind
	DeclaredType string
	SourceOffset int
	Members      []Symbol
}

// Find returns the first symbol with the given name, or nil. Lookup is
// exact and case-sensitive.
func Find(symbols []Symbol, name string) *Symbol {
	for i := range symbols {
		if symbols[i].Name == name {
			return &symbols[i]
		}
	}
	return nil
}
