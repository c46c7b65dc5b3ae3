package main

import (
	"context"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/intellexhq/intellex/cmd/intellex/analyze"
	"github.com/intellexhq/intellex/cmd/intellex/serve"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := run(); err != nil {
		println(err.Error())
		os.Exit(1)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "intellex",
		Short: "language intelligence for embedded code snippets",
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		rootCmd.Version = "unknown"
	} else {
		rootCmd.Version = info.Main.Version
	}

	cmdVersion := &cobra.Command{
		Use: "raw-version",
		Run: func(cmdz *cobra.Command, args []string) {
			cmdz.Println(rootCmd.Version)
		},
		Hidden: true,
	}

	rootCmd.AddCommand(cmdVersion)

	rootCmd.AddCommand(serve.NewServeCommand())
	rootCmd.AddCommand(analyze.NewTokenizeCommand())
	rootCmd.AddCommand(analyze.NewHighlightCommand())
	rootCmd.AddCommand(analyze.NewCompleteCommand())
	rootCmd.AddCommand(analyze.NewValidateCommand())
	rootCmd.AddCommand(analyze.NewDescribeCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return errors.Errorf("failed to execute command: %w", err)
	}

	return nil
}
