package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/slicegen/internal/config"
	"github.com/example/slicegen/internal/scaffold"
	"github.com/example/slicegen/internal/templates/backend"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List template sets and report missing template files",
	Long: `List every template set and the files it is expected to supply.
A missing file only degrades that one output at generation time, but it
is worth knowing about before a run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectRoot, _ := cmd.Flags().GetString("project")

		cfg, err := config.Load(projectRoot)
		if err != nil {
			return err
		}
		var src scaffold.TemplateSource = backend.EmbeddedSource{}
		origin := "embedded"
		if cfg.TemplateRoot != "" {
			src = backend.DirSource{Root: cfg.TemplateRoot}
			origin = cfg.TemplateRoot
		}

		fmt.Printf("Template source: %s\n", origin)
		for _, set := range backend.Sets() {
			fmt.Printf("\n%s:\n", set)
			for _, name := range backend.Names() {
				if _, err := src.Read(set, name); err != nil {
					fmt.Printf("  %s %s (missing)\n", color.New(color.FgYellow).Sprint("!"), name)
					continue
				}
				fmt.Printf("  %s %s\n", color.New(color.FgGreen).Sprint("✓"), name)
			}
		}
		return nil
	},
}

func init() {
	templatesCmd.Flags().String("project", ".", "Target project root")
}

// TemplatesCmd returns the templates command.
func TemplatesCmd() *cobra.Command {
	return templatesCmd
}
