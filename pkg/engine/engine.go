// Package engine ties the pipeline together behind one facade: rule
// resolution, cached tokenization and symbol extraction, completion,
// validation, highlighting, and cursor description.
//
// Operations never return errors. Rule resolution always degrades to the
// built-in defaults, malformed offsets are clamped, and misbehaving rules
// are contained per request, so callers always get a usable result.
package engine

import (
	"context"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/intellexhq/intellex/pkg/cache"
	"github.com/intellexhq/intellex/pkg/cursor"
	"github.com/intellexhq/intellex/pkg/highlight"
	"github.com/intellexhq/intellex/pkg/position"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/suggest"
	"github.com/intellexhq/intellex/pkg/symbol"
	"github.com/intellexhq/intellex/pkg/token"
	"github.com/intellexhq/intellex/pkg/validate"
)

const (
	// DefaultCacheSize bounds the token and symbol caches when the caller
	// does not inject their own.
	DefaultCacheSize = 128

	// DefaultResolveTimeout caps external rule fetches. On expiry the
	// resolver falls back to the built-in defaults.
	DefaultResolveTimeout = 2 * time.Second
)

// TokenCache stores derived token streams. *cache.LRU[[]token.Token]
// satisfies it; tests may inject something else.
type TokenCache interface {
	Get(cache.Key) ([]token.Token, bool)
	Set(cache.Key, []token.Token)
	InvalidateProfile(profile string)
	Stats() cache.Stats
}

// SymbolCache stores derived symbol tables.
type SymbolCache interface {
	Get(cache.Key) ([]symbol.Symbol, bool)
	Set(cache.Key, []symbol.Symbol)
	InvalidateProfile(profile string)
	Stats() cache.Stats
}

// Config assembles an Engine. Every field is optional; zero values get
// working defaults.
type Config struct {
	Resolver       *ruleset.Resolver
	TokenCache     TokenCache
	SymbolCache    SymbolCache
	ResolveTimeout time.Duration
}

// Engine is the caller-facing boundary of the pipeline. It is safe for
// concurrent use: rule sets are immutable, caches lock internally, and
// requests share no other state.
type Engine struct {
	id       string
	resolver *ruleset.Resolver
	tokens   TokenCache
	symbols  SymbolCache
	timeout  time.Duration
}

// New builds an Engine from cfg, filling in defaults for anything unset.
func New(cfg Config) *Engine {
	if cfg.Resolver == nil {
		cfg.Resolver = ruleset.NewResolver()
	}
	if cfg.TokenCache == nil {
		cfg.TokenCache = cache.NewLRU[[]token.Token](DefaultCacheSize)
	}
	if cfg.SymbolCache == nil {
		cfg.SymbolCache = cache.NewLRU[[]symbol.Symbol](DefaultCacheSize)
	}
	if cfg.ResolveTimeout <= 0 {
		cfg.ResolveTimeout = DefaultResolveTimeout
	}

	return &Engine{
		id:       xid.New().String(),
		resolver: cfg.Resolver,
		tokens:   cfg.TokenCache,
		symbols:  cfg.SymbolCache,
		timeout:  cfg.ResolveTimeout,
	}
}

// ID distinguishes engine instances in logs.
func (e *Engine) ID() string {
	return e.id
}

// Tokenize returns the classified token stream for content under the
// profile, serving repeats from the content-hash cache.
func (e *Engine) Tokenize(ctx context.Context, content, profile, version string) []token.Token {
	rs := e.rules(ctx, profile, version)
	return e.tokensFor(ctx, rs, profile, version, content)
}

// Highlight renders the token stream as escaped markup.
func (e *Engine) Highlight(ctx context.Context, content, profile, version string) string {
	return highlight.Render(e.Tokenize(ctx, content, profile, version))
}

// Complete analyzes the cursor situation and generates ranked completion
// items. Out-of-range offsets are clamped, never rejected.
func (e *Engine) Complete(ctx context.Context, content string, offset int, profile, version string, opts suggest.Options) []suggest.Item {
	rs := e.rules(ctx, profile, version)
	offset = position.ClampOffset(content, offset)

	toks := e.tokensFor(ctx, rs, profile, version, content)
	cur := cursor.Analyze(content, offset, toks)
	syms := e.symbolsFor(ctx, rs, profile, version, content)

	items := suggest.Complete(content, cur, syms, rs, opts)

	zerolog.Ctx(ctx).Debug().
		Str("engine_id", e.id).
		Str("profile", rs.ID()).
		Str("trigger", cur.Trigger.String()).
		Int("items", len(items)).
		Msg("completion generated")
	return items
}

// Validate runs the profile's validation rules over content.
func (e *Engine) Validate(ctx context.Context, content, profile, version string) []validate.Diagnostic {
	rs := e.rules(ctx, profile, version)
	diags := validate.Validate(content, rs)

	zerolog.Ctx(ctx).Debug().
		Str("engine_id", e.id).
		Str("profile", rs.ID()).
		Int("diagnostics", len(diags)).
		Msg("validation finished")
	return diags
}

// Description is the hover-style summary of whatever sits at an offset.
type Description struct {
	Profile string
	Offset  int
	Line    int
	Column  int
	Word    string
	Token   *token.Token
	Symbol  *symbol.Symbol
	Members []symbol.Symbol
}

// DescribeAt reports the token, word, and any known symbol at offset.
func (e *Engine) DescribeAt(ctx context.Context, content string, offset int, profile, version string) Description {
	rs := e.rules(ctx, profile, version)
	offset = position.ClampOffset(content, offset)

	toks := e.tokensFor(ctx, rs, profile, version, content)
	cur := cursor.Analyze(content, offset, toks)
	line, col := position.LineAndColumn(content, offset)

	desc := Description{
		Profile: rs.ID(),
		Offset:  offset,
		Line:    line,
		Column:  col,
		Word:    cur.Word,
		Token:   cur.EnclosingToken,
	}

	if cur.Word != "" {
		syms := e.symbolsFor(ctx, rs, profile, version, content)
		if sym := symbol.Find(syms, cur.Word); sym != nil {
			desc.Symbol = sym
			desc.Members = symbol.LookupMembers(content, syms, cur.Word, rs)
		}
	}
	return desc
}

// InvalidateProfile drops the resolved rule set and every cached artifact
// derived under the profile name, across all versions.
func (e *Engine) InvalidateProfile(name, version string) {
	e.resolver.Invalidate(name, version)
	e.tokens.InvalidateProfile(name)
	e.symbols.InvalidateProfile(name)
}

// Stats reports cache effectiveness and the profiles resolved so far.
type Stats struct {
	EngineID string
	Tokens   cache.Stats
	Symbols  cache.Stats
	Profiles []string
}

func (e *Engine) Stats() Stats {
	return Stats{
		EngineID: e.id,
		Tokens:   e.tokens.Stats(),
		Symbols:  e.symbols.Stats(),
		Profiles: e.resolver.CachedProfiles(),
	}
}

func (e *Engine) rules(ctx context.Context, profile, version string) *ruleset.RuleSet {
	rctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.resolver.Resolve(rctx, profile, version)
}

// Artifact caches are keyed by the requested profile name, not the
// resolved family, so InvalidateProfile speaks the caller's vocabulary.
func (e *Engine) tokensFor(ctx context.Context, rs *ruleset.RuleSet, profile, version, content string) []token.Token {
	key := cache.ContentKey(profile, versionOrDefault(version), content)
	if toks, ok := e.tokens.Get(key); ok {
		return toks
	}

	toks := token.Tokenize(content, rs)
	e.tokens.Set(key, toks)

	zerolog.Ctx(ctx).Debug().
		Str("engine_id", e.id).
		Str("profile", rs.ID()).
		Str("key", key.String()).
		Int("tokens", len(toks)).
		Msg("tokenized content")
	return toks
}

func (e *Engine) symbolsFor(ctx context.Context, rs *ruleset.RuleSet, profile, version, content string) []symbol.Symbol {
	key := cache.ContentKey(profile, versionOrDefault(version), content)
	if syms, ok := e.symbols.Get(key); ok {
		return syms
	}

	syms := symbol.Extract(content, rs)
	e.symbols.Set(key, syms)

	zerolog.Ctx(ctx).Debug().
		Str("engine_id", e.id).
		Str("profile", rs.ID()).
		Str("key", key.String()).
		Int("symbols", len(syms)).
		Msg("extracted symbols")
	return syms
}

func versionOrDefault(version string) string {
	if version == "" {
		return "default"
	}
	return version
}
