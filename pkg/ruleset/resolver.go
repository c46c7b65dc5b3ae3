package ruleset

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Resolver loads rule sets through a provider chain and caches the result
// per (profile, version) for the life of the process. Resolution never
// fails: when no provider can serve a profile, the built-in family defaults
// take over, and failing that the generic fallback.
type Resolver struct {
	providers []Provider

	mu    sync.RWMutex
	cache map[string]*RuleSet
	group singleflight.Group
}

// NewResolver builds a resolver over the given providers, consulted in
// order. A resolver with no providers serves built-in defaults only.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		cache:     make(map[string]*RuleSet),
	}
}

// Resolve returns the rule set for a profile. Concurrent first resolutions
// of the same key are collapsed into a single provider round-trip.
func (r *Resolver) Resolve(ctx context.Context, name, version string) *RuleSet {
	version = normalizeVersion(version)
	key := name + "@" + version

	r.mu.RLock()
	rs, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return rs
	}

	v, _, _ := r.group.Do(key, func() (interface{}, error) {
		r.mu.RLock()
		rs, ok := r.cache[key]
		r.mu.RUnlock()
		if ok {
			return rs, nil
		}

		rs = r.resolveUncached(ctx, name, version)

		r.mu.Lock()
		r.cache[key] = rs
		r.mu.Unlock()

		return rs, nil
	})

	return v.(*RuleSet)
}

func (r *Resolver) resolveUncached(ctx context.Context, name, version string) *RuleSet {
	logger := zerolog.Ctx(ctx)

	for _, provider := range r.providers {
		def, err := provider.Fetch(ctx, name, version)
		if err != nil {
			logger.Debug().
				Err(err).
				Str("profile", name).
				Str("version", version).
				Msg("provider could not serve profile")
			continue
		}

		rs, err := def.Compile()
		if err != nil {
			logger.Warn().
				Err(err).
				Str("profile", name).
				Str("version", version).
				Msg("fetched profile failed to compile, trying next source")
			continue
		}

		logger.Debug().
			Str("ruleset", rs.ID()).
			Int("patterns", len(rs.Patterns)).
			Msg("resolved profile from provider")
		return rs
	}

	rs := DefaultForProfile(name)
	rs.Version = version
	logger.Debug().
		Str("profile", name).
		Str("version", version).
		Str("family", rs.Name).
		Msg("falling back to built-in rules")
	return rs
}

// Invalidate drops one cached entry so the next Resolve re-fetches it.
func (r *Resolver) Invalidate(name, version string) {
	key := name + "@" + normalizeVersion(version)
	r.mu.Lock()
	delete(r.cache, key)
	r.mu.Unlock()
}

// Clear drops every cached entry. Wired to the bundle watcher, where any
// file change may affect any profile.
func (r *Resolver) Clear() {
	r.mu.Lock()
	r.cache = make(map[string]*RuleSet)
	r.mu.Unlock()
}

// CachedProfiles reports the identifiers currently held in the cache.
func (r *Resolver) CachedProfiles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.cache))
	for key := range r.cache {
		ids = append(ids, key)
	}
	return ids
}
