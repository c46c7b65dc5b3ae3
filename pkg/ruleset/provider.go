package ruleset

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned by providers that were reachable but hold no
// definition for the requested profile and version.
var ErrNotFound = errors.New("ruleset: profile not found")

// Provider supplies rule-set definitions from an external source. Fetch
// errors are never fatal to resolution; the resolver logs them and moves on
// to the next provider or the built-in defaults.
type Provider interface {
	Fetch(ctx context.Context, name, version string) (*Definition, error)
}

// StaticProvider serves definitions from memory. Useful for tests and for
// hosts that assemble profiles programmatically.
type StaticProvider struct {
	defs map[string]*Definition
}

func NewStaticProvider(defs ...*Definition) *StaticProvider {
	p := &StaticProvider{defs: make(map[string]*Definition, len(defs))}
	for _, def := range defs {
		if def == nil {
			continue
		}
		p.defs[def.Name+"@"+normalizeVersion(def.Version)] = def
	}
	return p
}

func (p *StaticProvider) Fetch(ctx context.Context, name, version string) (*Definition, error) {
	def, ok := p.defs[name+"@"+normalizeVersion(version)]
	if !ok {
		return nil, ErrNotFound
	}
	return def, nil
}
