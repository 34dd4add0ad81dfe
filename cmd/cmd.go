package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rymut/recipetool/cmd/describe"
	"github.com/rymut/recipetool/cmd/generate"
	"github.com/rymut/recipetool/cmd/version"
	"github.com/rymut/recipetool/internal/log"
)

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := New().Execute(); err != nil {
		os.Exit(1)
	}
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipetool [sub-command]",
		Short: "Package recipe helper for the ImGui Direct2D backend",
		Long: `recipetool implements the logic of the ImGui Direct2D backend package
recipe: it resolves the package version from the state of the working copy,
describes the recipe manifest, and stages the backend sources of the pinned
dependency for a build.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := log.GetBaseLogger(cmd)
			if err != nil {
				return fmt.Errorf("could not retrieve logger: %w", err)
			}
			slog.SetDefault(logger)
			return nil
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	log.RegisterLoggingFlags(cmd)

	cmd.AddCommand(version.New())
	cmd.AddCommand(describe.New())
	cmd.AddCommand(generate.New())

	return cmd
}
