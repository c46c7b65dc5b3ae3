// Package service exposes the engine over JSON-RPC with LSP-style
// Content-Length framing, so editors and sidecar processes can drive it
// across stdio or any other byte stream. Requests address text either
// inline or through documents opened with document/open.
package service

import (
	"context"
	"io"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"
	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/suggest"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Server dispatches JSON-RPC methods onto an engine instance.
type Server struct {
	id        string
	engine    *engine.Engine
	documents *DocumentManager
}

func NewServer(eng *engine.Engine) *Server {
	return &Server{
		id:        xid.New().String(),
		engine:    eng,
		documents: NewDocumentManager(),
	}
}

func (s *Server) ID() string {
	return s.id
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

// Methods returns the JSON-RPC dispatch table.
func (s *Server) Methods() handler.Map {
	return handler.Map{
		"intellex/tokenize":  createHandler(s.Tokenize),
		"intellex/highlight": createHandler(s.Highlight),
		"intellex/complete":  createHandler(s.Complete),
		"intellex/validate":  createHandler(s.Validate),
		"intellex/describe":  createHandler(s.Describe),
		"intellex/stats":     createEmptyParamsHandler(s.Stats),
		"document/open":      createHandler(s.OpenDocument),
		"document/update":    createHandler(s.UpdateDocument),
		"document/close":     createEmptyResultHandler(s.CloseDocument),
	}
}

// Options tune the underlying jrpc2 server.
type Options struct {
	Concurrency int
	RPCLog      jrpc2.RPCLogger
}

// Start begins serving on ch and returns the running jrpc2 server. The
// given context carries the logger every handler sees.
func (s *Server) Start(ctx context.Context, ch channel.Channel, opts *Options) *jrpc2.Server {
	if opts == nil {
		opts = &Options{}
	}
	sopts := &jrpc2.ServerOptions{
		Concurrency: opts.Concurrency,
		RPCLog:      opts.RPCLog,
		NewContext:  func() context.Context { return ctx },
	}
	return jrpc2.NewServer(s.Methods(), sopts).Start(ch)
}

// Serve runs the server over reader/writer until the peer disconnects.
func (s *Server) Serve(ctx context.Context, reader io.Reader, writer io.Writer, opts *Options) error {
	zerolog.Ctx(ctx).Info().
		Str("server_id", s.id).
		Str("engine_id", s.engine.ID()).
		Msg("language service listening")

	srv := s.Start(ctx, channel.LSP(reader, writer), opts)
	if err := srv.Wait(); err != nil {
		return errors.Errorf("serving json-rpc: %w", err)
	}
	return nil
}

func (s *Server) Tokenize(ctx context.Context, params *TokenizeParams) (*TokenizeResult, error) {
	content, profile, version, err := s.resolveSource(params.Source)
	if err != nil {
		return nil, err
	}
	toks := s.engine.Tokenize(ctx, content, profile, version)
	return &TokenizeResult{Tokens: tokenInfos(toks)}, nil
}

func (s *Server) Highlight(ctx context.Context, params *HighlightParams) (*HighlightResult, error) {
	content, profile, version, err := s.resolveSource(params.Source)
	if err != nil {
		return nil, err
	}
	markup := s.engine.Highlight(ctx, content, profile, version)
	return &HighlightResult{Markup: markup}, nil
}

func (s *Server) Complete(ctx context.Context, params *CompleteParams) (*CompleteResult, error) {
	content, profile, version, err := s.resolveSource(params.Source)
	if err != nil {
		return nil, err
	}
	items := s.engine.Complete(ctx, content, params.Offset, profile, version, suggest.Options{
		IncludeInStrings: params.IncludeInStrings,
		MaxResults:       params.MaxResults,
	})
	return &CompleteResult{Items: completionItems(items)}, nil
}

func (s *Server) Validate(ctx context.Context, params *ValidateParams) (*ValidateResult, error) {
	content, profile, version, err := s.resolveSource(params.Source)
	if err != nil {
		return nil, err
	}
	diags := s.engine.Validate(ctx, content, profile, version)
	return &ValidateResult{Diagnostics: diagnosticInfos(diags)}, nil
}

func (s *Server) Describe(ctx context.Context, params *DescribeParams) (*DescribeResult, error) {
	content, profile, version, err := s.resolveSource(params.Source)
	if err != nil {
		return nil, err
	}
	desc := s.engine.DescribeAt(ctx, content, params.Offset, profile, version)
	return describeResult(desc), nil
}

func (s *Server) Stats(ctx context.Context) (*StatsResult, error) {
	st := s.engine.Stats()
	return &StatsResult{
		ServerID:  s.id,
		EngineID:  st.EngineID,
		Documents: s.documents.Len(),
		Profiles:  st.Profiles,
		Tokens:    cacheStats(st.Tokens),
		Symbols:   cacheStats(st.Symbols),
	}, nil
}

func (s *Server) OpenDocument(ctx context.Context, params *OpenDocumentParams) (*OpenDocumentResult, error) {
	doc := s.documents.Open(params.Profile, params.Version, params.Content)

	zerolog.Ctx(ctx).Debug().
		Str("document", doc.ID).
		Str("profile", doc.Profile).
		Int("content_bytes", len(doc.Content)).
		Msg("document opened")

	return &OpenDocumentResult{Document: doc.ID, Revision: doc.Revision}, nil
}

func (s *Server) UpdateDocument(ctx context.Context, params *UpdateDocumentParams) (*UpdateDocumentResult, error) {
	doc, ok := s.documents.Update(params.Document, params.Content)
	if !ok {
		return nil, errors.Errorf("document not found: %s", params.Document)
	}

	zerolog.Ctx(ctx).Debug().
		Str("document", doc.ID).
		Int("revision", doc.Revision).
		Msg("document updated")

	return &UpdateDocumentResult{Revision: doc.Revision}, nil
}

func (s *Server) CloseDocument(ctx context.Context, params *CloseDocumentParams) error {
	s.documents.Delete(params.Document)

	zerolog.Ctx(ctx).Debug().
		Str("document", params.Document).
		Msg("document closed")

	return nil
}

// resolveSource returns the text a request addresses, reading through the
// document table when an id is supplied.
func (s *Server) resolveSource(src Source) (content, profile, version string, err error) {
	if src.Document == "" {
		return src.Content, src.Profile, src.Version, nil
	}
	doc, ok := s.documents.Get(src.Document)
	if !ok {
		return "", "", "", errors.Errorf("document not found: %s", src.Document)
	}
	profile = doc.Profile
	version = doc.Version
	if src.Profile != "" {
		profile = src.Profile
	}
	if src.Version != "" {
		version = src.Version
	}
	return doc.Content, profile, version, nil
}

func newParseError(err error) *jrpc2.Error {
	return &jrpc2.Error{
		Code:    -32700, // Parse error
		Message: err.Error(),
	}
}

func createHandler[T any, O any](method func(ctx context.Context, params *T) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = applyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		result, err := method(ctx, &params)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

func createEmptyResultHandler[T any](method func(ctx context.Context, params *T) error) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = applyRequestToZerolog(ctx, r)
		var params T
		if err := r.UnmarshalParams(&params); err != nil {
			return nil, newParseError(err)
		}
		return nil, method(ctx, &params)
	})
}

func createEmptyParamsHandler[O any](method func(ctx context.Context) (O, error)) handler.Func {
	return handler.New(func(ctx context.Context, r *jrpc2.Request) (interface{}, error) {
		ctx = applyRequestToZerolog(ctx, r)
		result, err := method(ctx)
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}
