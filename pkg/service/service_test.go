package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/service"
)

// startService runs a real server over in-memory pipes and returns a
// connected client. Everything is torn down through t.Cleanup.
func startService(t *testing.T) *jrpc2.Client {
	t.Helper()

	eng := engine.New(engine.Config{})
	srv := service.NewServer(eng)

	serverReader, clientWriter := io.Pipe()
	clientReader, serverWriter := io.Pipe()

	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	running := srv.Start(ctx, channel.LSP(serverReader, serverWriter), &service.Options{
		RPCLog: service.NewRPCLogger(zerolog.New(zerolog.NewTestWriter(t))),
	})

	client := jrpc2.NewClient(channel.LSP(clientReader, clientWriter), nil)

	t.Cleanup(func() {
		_ = client.Close()
		running.Stop()
		_ = running.Wait()
	})
	return client
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func itemLabels(items []service.CompletionItem) []string {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.Label
	}
	return labels
}

func TestTokenizeInline(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	var res service.TokenizeResult
	err := client.CallResult(ctx, "intellex/tokenize", &service.TokenizeParams{
		Source: service.Source{Content: "let x = 5;\n", Profile: "plain"},
	}, &res)
	require.NoError(t, err)
	require.NotEmpty(t, res.Tokens)

	var rebuilt strings.Builder
	for _, tok := range res.Tokens {
		rebuilt.WriteString(tok.Text)
	}
	assert.Equal(t, "let x = 5;\n", rebuilt.String(), "token stream must be lossless")

	assert.Equal(t, "keyword", res.Tokens[0].Kind)
	assert.Equal(t, "let", res.Tokens[0].Text)
	assert.Equal(t, 0, res.Tokens[0].Start)
	assert.Equal(t, 3, res.Tokens[0].End)

	found := false
	for _, tok := range res.Tokens {
		if tok.Text == "5" {
			found = true
			assert.Equal(t, "number", tok.Kind)
		}
	}
	assert.True(t, found, "number token missing from stream")
}

func TestHighlightInline(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	var res service.HighlightResult
	err := client.CallResult(ctx, "intellex/highlight", &service.HighlightParams{
		Source: service.Source{Content: "let x = 5;\n", Profile: "plain"},
	}, &res)
	require.NoError(t, err)
	assert.Contains(t, res.Markup, `<span class="keyword">let</span>`)
	assert.Contains(t, res.Markup, `<span class="number">5</span>`)
}

func TestValidateInline(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	var res service.ValidateResult
	err := client.CallResult(ctx, "intellex/validate", &service.ValidateParams{
		Source: service.Source{Content: "x = 1 \n// TODO later\n", Profile: "plain"},
	}, &res)
	require.NoError(t, err)
	require.NotEmpty(t, res.Diagnostics)

	byRule := map[string]service.Diagnostic{}
	for _, d := range res.Diagnostics {
		byRule[d.Rule] = d
	}

	todo, ok := byRule["todo-comment"]
	require.True(t, ok, "todo-comment diagnostic missing: %+v", res.Diagnostics)
	assert.Equal(t, 2, todo.Line)
	assert.Equal(t, "info", todo.Severity)

	trailing, ok := byRule["trailing-whitespace"]
	require.True(t, ok, "trailing-whitespace diagnostic missing")
	assert.Equal(t, 1, trailing.Line)
	assert.Equal(t, 6, trailing.Column)
	assert.Equal(t, "hint", trailing.Severity)
}

func TestDocumentLifecycle(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	var opened service.OpenDocumentResult
	err := client.CallResult(ctx, "document/open", &service.OpenDocumentParams{
		Content: "let counter = 0\nco",
		Profile: "plain",
	}, &opened)
	require.NoError(t, err)
	require.NotEmpty(t, opened.Document)
	assert.Equal(t, 1, opened.Revision)

	// Complete against the stored document: the local symbol outranks
	// the keywords that share its prefix.
	var completed service.CompleteResult
	err = client.CallResult(ctx, "intellex/complete", &service.CompleteParams{
		Source: service.Source{Document: opened.Document},
		Offset: 18,
	}, &completed)
	require.NoError(t, err)
	require.Equal(t, []string{"counter", "const", "continue"}, itemLabels(completed.Items))
	assert.Equal(t, "variable", completed.Items[0].Kind)
	assert.Equal(t, "keyword", completed.Items[1].Kind)

	var updated service.UpdateDocumentResult
	err = client.CallResult(ctx, "document/update", &service.UpdateDocumentParams{
		Document: opened.Document,
		Content:  "ret",
	}, &updated)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Revision)

	err = client.CallResult(ctx, "intellex/complete", &service.CompleteParams{
		Source: service.Source{Document: opened.Document},
		Offset: 3,
	}, &completed)
	require.NoError(t, err)
	assert.Equal(t, []string{"return"}, itemLabels(completed.Items))

	_, err = client.Call(ctx, "document/close", &service.CloseDocumentParams{
		Document: opened.Document,
	})
	require.NoError(t, err)

	err = client.CallResult(ctx, "intellex/complete", &service.CompleteParams{
		Source: service.Source{Document: opened.Document},
		Offset: 3,
	}, &completed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}

func TestUpdateUnknownDocument(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	_, err := client.Call(ctx, "document/update", &service.UpdateDocumentParams{
		Document: "nope",
		Content:  "x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found")
}

func TestDescribeThroughDocument(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	var opened service.OpenDocumentResult
	err := client.CallResult(ctx, "document/open", &service.OpenDocumentParams{
		Content: "let counter = 5\ncounter",
		Profile: "plain",
	}, &opened)
	require.NoError(t, err)

	var desc service.DescribeResult
	err = client.CallResult(ctx, "intellex/describe", &service.DescribeParams{
		Source: service.Source{Document: opened.Document},
		Offset: 22,
	}, &desc)
	require.NoError(t, err)

	assert.Equal(t, "plain@default", desc.Profile)
	assert.Equal(t, 2, desc.Line)
	assert.Equal(t, "counter", desc.Word)
	require.NotNil(t, desc.Token)
	assert.Equal(t, "identifier", desc.Token.Kind)
	require.NotNil(t, desc.Symbol)
	assert.Equal(t, "variable", desc.Symbol.Kind)
	assert.Equal(t, 0, desc.Symbol.SourceOffset, "declaration match starts at the marker keyword")
}

func TestStatsAfterRequests(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	_, err := client.Call(ctx, "intellex/tokenize", &service.TokenizeParams{
		Source: service.Source{Content: "x", Profile: "plain"},
	})
	require.NoError(t, err)

	var opened service.OpenDocumentResult
	err = client.CallResult(ctx, "document/open", &service.OpenDocumentParams{Content: "y"}, &opened)
	require.NoError(t, err)

	var stats service.StatsResult
	err = client.CallResult(ctx, "intellex/stats", nil, &stats)
	require.NoError(t, err)

	assert.NotEmpty(t, stats.ServerID)
	assert.NotEmpty(t, stats.EngineID)
	assert.Equal(t, 1, stats.Documents)
	assert.Contains(t, stats.Profiles, "plain@default")
	assert.Equal(t, 1, stats.Tokens.Size)
}

func TestUnknownMethodRejected(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	_, err := client.Call(ctx, "intellex/bogus", nil)
	require.Error(t, err)
}

func TestMalformedParamsRejected(t *testing.T) {
	client := startService(t)
	ctx := testContext(t)

	_, err := client.Call(ctx, "intellex/tokenize", []int{1, 2, 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot unmarshal")
}
