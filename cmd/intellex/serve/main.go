package serve

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/intellexhq/intellex/pkg/debug"
	"github.com/intellexhq/intellex/pkg/engine"
	"github.com/intellexhq/intellex/pkg/ruleset"
	"github.com/intellexhq/intellex/pkg/service"
)

type Handler struct {
	debug       bool
	rulesDir    string
	rulesURL    string
	concurrency int
	watch       bool
}

func NewServeCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the language service over stdio",
	}

	cmd.Flags().BoolVar(&me.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&me.rulesDir, "rules-dir", "", "directory of rule bundle files")
	cmd.Flags().StringVar(&me.rulesURL, "rules-url", "", "base url of a remote rules service")
	cmd.Flags().IntVar(&me.concurrency, "concurrency", 0, "max concurrent requests, 0 uses the library default")
	cmd.Flags().BoolVar(&me.watch, "watch", false, "reload rule bundles when files under --rules-dir change")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	level := zerolog.InfoLevel
	if me.debug {
		level = zerolog.DebugLevel
	}

	// stdout carries the protocol, so logs go to stderr
	logger := debug.NewConsoleLogger(os.Stderr, level, false)
	ctx = logger.WithContext(ctx)

	var providers []ruleset.Provider
	if me.rulesDir != "" {
		providers = append(providers, ruleset.NewFileProvider(afero.NewOsFs(), me.rulesDir))
	}
	if me.rulesURL != "" {
		providers = append(providers, ruleset.NewHTTPProvider(me.rulesURL))
	}

	resolver := ruleset.NewResolver(providers...)
	eng := engine.New(engine.Config{Resolver: resolver})

	if me.watch {
		if me.rulesDir == "" {
			return errors.New("--watch requires --rules-dir")
		}

		watcher, err := ruleset.WatchBundles(ctx, me.rulesDir, func(path string) {
			// any bundle change may redefine any cached profile
			for _, key := range resolver.CachedProfiles() {
				name, version, _ := strings.Cut(key, "@")
				eng.InvalidateProfile(name, version)
			}
			logger.Info().Str("path", path).Msg("rule bundles reloaded")
		})
		if err != nil {
			return errors.Errorf("starting bundle watcher: %w", err)
		}
		defer watcher.Close()
	}

	server := service.NewServer(eng)

	opts := &service.Options{
		Concurrency: me.concurrency,
		RPCLog:      service.NewRPCLogger(logger),
	}

	if err := server.Serve(ctx, os.Stdin, os.Stdout, opts); err != nil {
		return errors.Errorf("error running language service: %w", err)
	}

	return nil
}
