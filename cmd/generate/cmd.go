package generate

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rymut/recipetool/internal/recipe"
	"github.com/rymut/recipetool/internal/staging"
)

const (
	FlagBuildFolder  = "build-folder"
	FlagSourceFolder = "source-folder"
	FlagOS           = "os"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Stage backend sources and write the toolchain configuration",
		Long: `Perform the recipe's generate step for the working copy at path
(default "."): copy the backend source files shipped with the pinned imgui
dependency into the build folder and write the toolchain configuration
derived from the recipe options.`,
		Example: `  # Stage into ./build from an imgui checkout
  recipetool generate --source-folder ../imgui/backends

  # Cross-configure for Windows (drops the fPIC option)
  recipetool generate --source-folder ../imgui/backends --os windows`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              Run,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	cmd.Flags().String(FlagBuildFolder, "build", "build folder to stage into")
	cmd.Flags().String(FlagSourceFolder, "", "source folder of the imgui dependency holding the backend sources")
	cmd.Flags().String(FlagOS, runtime.GOOS, "target operating system the options are configured for")
	_ = cmd.MarkFlagRequired(FlagSourceFolder)

	return cmd
}

func Run(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	buildFolder, err := cmd.Flags().GetString(FlagBuildFolder)
	if err != nil {
		return fmt.Errorf("failed to get build folder flag: %w", err)
	}
	sourceFolder, err := cmd.Flags().GetString(FlagSourceFolder)
	if err != nil {
		return fmt.Errorf("failed to get source folder flag: %w", err)
	}
	targetOS, err := cmd.Flags().GetString(FlagOS)
	if err != nil {
		return fmt.Errorf("failed to get os flag: %w", err)
	}

	rec, err := recipe.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("loading recipe manifest failed: %w", err)
	}

	opts := rec.Options
	opts.ConfigureFor(targetOS)

	staged, err := staging.Stage(sourceFolder, buildFolder)
	if err != nil {
		return fmt.Errorf("staging backend sources failed: %w", err)
	}
	slog.Info("staged backend sources", "count", len(staged), "folder", buildFolder)

	toolchain, err := staging.WriteToolchain(buildFolder, opts)
	if err != nil {
		return fmt.Errorf("generating toolchain configuration failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), toolchain)
	return nil
}
