// Package analyze implements the one-shot CLI commands. Each command
// reads a snippet from a file argument (or stdin when the argument is
// "-" or missing) and prints its analysis to stdout.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/intellexhq/intellex/pkg/debug"
	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/suggest"
	"github.com/intellexhq/intellex/pkg/symbol"
	"github.com/intellexhq/intellex/pkg/token"
	"github.com/intellexhq/intellex/pkg/validate"
)

type Handler struct {
	profile  string
	version  string
	rulesDir string
	rulesURL string
	debug    bool

	offset     int
	maxResults int
	inStrings  bool
}

func (me *Handler) bindSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&me.profile, "profile", "plain", "language profile to analyze with")
	cmd.Flags().StringVar(&me.version, "profile-version", "", "profile version, empty means default")
	cmd.Flags().StringVar(&me.rulesDir, "rules-dir", "", "directory of rule bundle files")
	cmd.Flags().StringVar(&me.rulesURL, "rules-url", "", "base url of a remote rules service")
	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
}

func (me *Handler) logContext(ctx context.Context) context.Context {
	level := zerolog.WarnLevel
	if me.debug {
		level = zerolog.DebugLevel
	}

	return debug.NewConsoleLogger(os.Stderr, level, true).WithContext(ctx)
}

func (me *Handler) newEngine() *engine.Engine {
	var providers []ruleset.Provider
	if me.rulesDir != "" {
		providers = append(providers, ruleset.NewFileProvider(afero.NewOsFs(), me.rulesDir))
	}
	if me.rulesURL != "" {
		providers = append(providers, ruleset.NewHTTPProvider(me.rulesURL))
	}

	return engine.New(engine.Config{Resolver: ruleset.NewResolver(providers...)})
}

func readSource(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Errorf("reading stdin: %w", err)
		}
		return string(content), nil
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Errorf("reading %s: %w", args[0], err)
	}
	return string(content), nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Errorf("encoding result: %w", err)
	}
	return nil
}

func NewTokenizeCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "print the classified token stream for a snippet",
	}

	me.bindSourceFlags(cmd)
	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.RunTokenize(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) RunTokenize(ctx context.Context, args []string) error {
	ctx = me.logContext(ctx)

	content, err := readSource(args)
	if err != nil {
		return err
	}

	toks := me.newEngine().Tokenize(ctx, content, me.profile, me.version)
	return printJSON(tokenRows(toks))
}

func NewHighlightCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "highlight [file]",
		Short: "print a snippet as escaped span markup",
	}

	me.bindSourceFlags(cmd)
	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.RunHighlight(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) RunHighlight(ctx context.Context, args []string) error {
	ctx = me.logContext(ctx)

	content, err := readSource(args)
	if err != nil {
		return err
	}

	markup := me.newEngine().Highlight(ctx, content, me.profile, me.version)
	fmt.Fprintln(os.Stdout, markup)
	return nil
}

func NewCompleteCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "complete [file] [offset]",
		Short: "print ranked completion items for a cursor offset",
	}

	me.bindSourceFlags(cmd)
	cmd.Flags().IntVar(&me.maxResults, "max-results", 0, "cap the item list, 0 uses the engine default")
	cmd.Flags().BoolVar(&me.inStrings, "in-strings", false, "suggest inside strings and comments")
	cmd.Args = cobra.ExactArgs(2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		me.offset, err = strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid offset: %w", err)
		}
		return me.RunComplete(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) RunComplete(ctx context.Context, args []string) error {
	ctx = me.logContext(ctx)

	content, err := readSource(args)
	if err != nil {
		return err
	}

	opts := suggest.Options{
		MaxResults:       me.maxResults,
		IncludeInStrings: me.inStrings,
	}

	items := me.newEngine().Complete(ctx, content, me.offset, me.profile, me.version, opts)
	return printJSON(completionRows(items))
}

func NewValidateCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "print diagnostics for a snippet",
	}

	me.bindSourceFlags(cmd)
	cmd.Args = cobra.MaximumNArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.RunValidate(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) RunValidate(ctx context.Context, args []string) error {
	ctx = me.logContext(ctx)

	content, err := readSource(args)
	if err != nil {
		return err
	}

	diags := me.newEngine().Validate(ctx, content, me.profile, me.version)
	if err := printJSON(diagnosticRows(diags)); err != nil {
		return err
	}

	errorCount := 0
	for _, d := range diags {
		if d.Severity == ruleset.SeverityError {
			errorCount++
		}
	}
	if errorCount > 0 {
		return errors.Errorf("%d error diagnostics", errorCount)
	}

	return nil
}

func NewDescribeCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "describe [file] [offset]",
		Short: "describe the token, word, and symbol at a cursor offset",
	}

	me.bindSourceFlags(cmd)
	cmd.Args = cobra.ExactArgs(2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		me.offset, err = strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid offset: %w", err)
		}
		return me.RunDescribe(cmd.Context(), args)
	}

	return cmd
}

func (me *Handler) RunDescribe(ctx context.Context, args []string) error {
	ctx = me.logContext(ctx)

	content, err := readSource(args)
	if err != nil {
		return err
	}

	desc := me.newEngine().DescribeAt(ctx, content, me.offset, me.profile, me.version)
	return printJSON(newDescriptionRow(desc))
}

// Output rows mirror the service wire shapes so scripted callers see the
// same JSON either way.

type tokenRow struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Class string `json:"class,omitempty"`
}

type completionRow struct {
	Label         string `json:"label"`
	InsertText    string `json:"insertText"`
	Kind          string `json:"kind"`
	Detail        string `json:"detail,omitempty"`
	Documentation string `json:"documentation,omitempty"`
	Priority      int    `json:"priority"`
}

type diagnosticRow struct {
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	Severity    string `json:"severity"`
}

type symbolRow struct {
	Name         string      `json:"name"`
	Kind         string      `json:"kind"`
	DeclaredType string      `json:"declaredType,omitempty"`
	SourceOffset int         `json:"sourceOffset"`
	Members      []symbolRow `json:"members,omitempty"`
}

type descriptionRow struct {
	Profile string      `json:"profile"`
	Offset  int         `json:"offset"`
	Line    int         `json:"line"`
	Column  int         `json:"column"`
	Word    string      `json:"word,omitempty"`
	Token   *tokenRow   `json:"token,omitempty"`
	Symbol  *symbolRow  `json:"symbol,omitempty"`
	Members []symbolRow `json:"members,omitempty"`
}

func newDescriptionRow(desc engine.Description) descriptionRow {
	row := descriptionRow{
		Profile: desc.Profile,
		Offset:  desc.Offset,
		Line:    desc.Line,
		Column:  desc.Column,
		Word:    desc.Word,
		Members: symbolRows(desc.Members),
	}

	if desc.Token != nil {
		t := tokenRows([]token.Token{*desc.Token})[0]
		row.Token = &t
	}
	if desc.Symbol != nil {
		s := symbolRows([]symbol.Symbol{*desc.Symbol})[0]
		row.Symbol = &s
	}
	return row
}

func tokenRows(toks []token.Token) []tokenRow {
	rows := make([]tokenRow, 0, len(toks))
	for _, t := range toks {
		rows = append(rows, tokenRow{
			Kind:  string(t.Kind),
			Text:  t.Text,
			Start: t.Start,
			End:   t.End,
			Class: t.Class,
		})
	}
	return rows
}

func completionRows(items []suggest.Item) []completionRow {
	rows := make([]completionRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, completionRow{
			Label:         item.Label,
			InsertText:    item.InsertText,
			Kind:          string(item.Kind),
			Detail:        item.Detail,
			Documentation: item.Documentation,
			Priority:      item.Priority,
		})
	}
	return rows
}

func diagnosticRows(diags []validate.Diagnostic) []diagnosticRow {
	rows := make([]diagnosticRow, 0, len(diags))
	for _, d := range diags {
		rows = append(rows, diagnosticRow{
			Rule:        d.Rule,
			Message:     d.Message,
			Line:        d.Line,
			Column:      d.Column,
			StartOffset: d.StartOffset,
			EndOffset:   d.EndOffset,
			Severity:    string(d.Severity),
		})
	}
	return rows
}

func symbolRows(syms []symbol.Symbol) []symbolRow {
	if len(syms) == 0 {
		return nil
	}
	rows := make([]symbolRow, 0, len(syms))
	for _, s := range syms {
		rows = append(rows, symbolRow{
			Name:         s.Name,
			Kind:         string(s.Kind),
			DeclaredType: s.DeclaredType,
			SourceOffset: s.SourceOffset,
			Members:      symbolRows(s.Members),
		})
	}
	return rows
}
