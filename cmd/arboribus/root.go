package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/commands"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/log"
)

// newRootCmd builds the arboribus command tree
func newRootCmd(console *log.Logger) *cobra.Command {
	rootOpts := &opts.RootOpts{Console: console}

	cmd := &cobra.Command{
		Use:           "arboribus",
		Short:         "Sync folders from a monorepo to external targets",
		Long:          "Arboribus selectively mirrors a subset of a monorepo's tree into named external target directories, driven by glob-pattern rules and optional git-tracked-file filtering.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(rootOpts.Debug)
			ctx := zerolog.DefaultContextLogger.WithContext(cmd.Context())
			cmd.SetContext(log.NewContext(ctx, console))
		},
	}

	cmd.PersistentFlags().StringVarP(&rootOpts.Source, "source", "s", "", "source root directory (default: discovered from the working directory)")
	cmd.PersistentFlags().BoolVarP(&rootOpts.Debug, "debug", "d", false, "enable debug logging")

	cmd.AddCommand(
		commands.NewInitCmd(rootOpts),
		commands.NewAddRuleCmd(rootOpts),
		commands.NewRemoveRuleCmd(rootOpts),
		commands.NewListCmd(rootOpts),
		commands.NewApplyCmd(rootOpts),
		commands.NewPrintConfigCmd(rootOpts),
	)

	return cmd
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
}
