package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rymut/recipetool/internal/flags/enum"
	"github.com/rymut/recipetool/internal/version"
)

const (
	FlagOutput = "output"

	OutputText = "text"
	OutputJSON = "json"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version [path]",
		Short: "Resolve the package version of a recipe working copy",
		Long: `Resolve the package version of the working copy at path (default ".").

Sources are queried in order until one yields a usable value: a tag
describing the current commit that parses as a strict semantic version (a
leading "v" is stripped), the ` + version.VersionFileName + ` file next to the
recipe, and the current commit hash rendered as "rev_<hash>". A dirty working
tree contributes a "cci_<timestamp>" fallback that is used only when all
other sources fail. Resolution never fails; a working copy without any
usable source is simply unversioned.`,
		Example: `  # Print the resolved version of the current directory
  recipetool version

  # Resolve a checkout elsewhere and show which source won
  recipetool version ../imgui-backend -o json`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              Run,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagOutput, "o", []string{OutputText, OutputJSON}, "output format of the resolved version")

	return cmd
}

func Run(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	output, err := enum.Get(cmd.Flags(), FlagOutput)
	if err != nil {
		return fmt.Errorf("getting output flag failed: %w", err)
	}

	resolved, ok := version.ResolveDir(dir)

	switch output {
	case OutputJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(resolved)
	default:
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "(unversioned)")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), resolved.Value)
	}
	return nil
}
