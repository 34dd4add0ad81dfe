package describe

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/rymut/recipetool/internal/flags/enum"
	"github.com/rymut/recipetool/internal/recipe"
	"github.com/rymut/recipetool/internal/version"
)

const (
	FlagOutput = "output"

	OutputTable = "table"
	OutputYAML  = "yaml"
	OutputJSON  = "json"
)

// description is the recipe manifest enriched with the resolved version.
type description struct {
	recipe.Recipe
	Version       string         `json:"version,omitempty"`
	VersionSource version.Source `json:"versionSource"`
}

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe [path]",
		Short: "Describe the recipe and its resolved version",
		Long: `Load the recipe manifest from path (default ".") and render its metadata,
requirements and options together with the version resolved from the working
copy.`,
		Example: `  # Summarize the recipe in the current directory
  recipetool describe

  # Machine-readable description of another checkout
  recipetool describe ../imgui-backend -o json`,
		Args:              cobra.MaximumNArgs(1),
		RunE:              Run,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
	}

	enum.VarP(cmd.Flags(), FlagOutput, "o", []string{OutputTable, OutputYAML, OutputJSON}, "output format of the recipe description")

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

	rec, err := recipe.LoadDir(dir)
	if err != nil {
		return fmt.Errorf("loading recipe manifest failed: %w", err)
	}

	resolved, _ := version.ResolveDir(dir)
	desc := description{
		Recipe:        *rec,
		Version:       resolved.Value,
		VersionSource: resolved.Source,
	}

	switch output {
	case OutputJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(desc)
	case OutputYAML:
		data, err := yaml.Marshal(desc)
		if err != nil {
			return fmt.Errorf("encoding recipe description failed: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		renderTable(cmd, desc)
	}
	return nil
}

func renderTable(cmd *cobra.Command, desc description) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())

	ver := desc.Version
	if ver == "" {
		ver = "(unversioned)"
	}
	requires := make([]string, 0, len(desc.Requires))
	for _, req := range desc.Requires {
		requires = append(requires, req.String())
	}

	t.AppendRows([]table.Row{
		{"Name", desc.Name},
		{"Description", desc.Description},
		{"License", desc.License},
		{"Version", ver},
		{"Version source", string(desc.VersionSource)},
		{"Topics", strings.Join(desc.Topics, ", ")},
		{"Requires", strings.Join(requires, ", ")},
		{"Options", renderOptions(desc.Options)},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func renderOptions(opts recipe.Options) string {
	rendered := fmt.Sprintf("shared=%t", opts.Shared)
	if opts.FPIC != nil {
		rendered += fmt.Sprintf(", fPIC=%t", *opts.FPIC)
	}
	return rendered
}
