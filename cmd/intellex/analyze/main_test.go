package analyze

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/token"
)

func TestReadSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippet.txt")
	require.NoError(t, os.WriteFile(path, []byte("let x = 5;"), 0o644))

	content, err := readSource([]string{path})
	require.NoError(t, err)
	assert.Equal(t, "let x = 5;", content)
}

func TestReadSourceMissingFile(t *testing.T) {
	_, err := readSource([]string{filepath.Join(t.TempDir(), "absent.txt")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.txt")
}

func TestTokenRowsOmitEmptyClass(t *testing.T) {
	rows := tokenRows([]token.Token{
		{Kind: ruleset.KindKeyword, Text: "let", Start: 0, End: 3, Class: "keyword"},
		{Kind: ruleset.KindWhitespace, Text: " ", Start: 3, End: 4},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "keyword", rows[0].Kind)

	data, err := json.Marshal(rows[1])
	require.NoError(t, err)
	assert.NotContains(t, string(data), "class")
}

func TestNewDescriptionRowCarriesSymbol(t *testing.T) {
	desc := engine.Description{
		Profile: "plain@default",
		Offset:  4,
		Line:    1,
		Column:  5,
		Word:    "x",
	}
	desc.Token = &token.Token{Kind: ruleset.KindIdentifier, Text: "x", Start: 4, End: 5}

	row := newDescriptionRow(desc)
	assert.Equal(t, "plain@default", row.Profile)
	require.NotNil(t, row.Token)
	assert.Equal(t, "identifier", row.Token.Kind)
	assert.Nil(t, row.Symbol)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "symbol")
	assert.NotContains(t, string(data), "members")
}

func TestCompleteCommandRejectsBadOffset(t *testing.T) {
	cmd := NewCompleteCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"snippet.txt", "not-a-number"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid offset")
}
