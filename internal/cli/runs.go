package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/slicegen/internal/ledger"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded generation runs",
	Long: `List generation runs recorded in the project's ledger, newest first.

Examples:
  slicegen runs
  slicegen runs --entity customer
  slicegen runs --module catalog`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entityName, _ := cmd.Flags().GetString("entity")
		moduleName, _ := cmd.Flags().GetString("module")
		projectRoot, _ := cmd.Flags().GetString("project")

		l, err := ledger.Open(projectRoot)
		if err != nil {
			return err
		}
		defer l.Close()

		runs, err := l.ListRuns(context.Background(), ledger.Filter{
			EntityName: entityName,
			ModuleName: moduleName,
		})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, run := range runs {
			marker := ""
			if run.DryRun {
				marker = color.New(color.FgYellow).Sprint(" [dry-run]")
			}
			fmt.Printf("%s  %s/%s  %s %s  %d files%s\n",
				run.CreatedAt.Format("2006-01-02 15:04"),
				run.ModuleName, run.EntityName,
				run.CrudType, run.Variant,
				run.FilesCount, marker)
			if run.Fields != "" {
				fmt.Printf("    fields: %s\n", run.Fields)
			}
			if run.MergedFiles != "" {
				fmt.Printf("    merged: %s\n", run.MergedFiles)
			}
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().String("entity", "", "Filter by entity name")
	runsCmd.Flags().String("module", "", "Filter by module name")
	runsCmd.Flags().String("project", ".", "Target project root")
}

// RunsCmd returns the runs command.
func RunsCmd() *cobra.Command {
	return runsCmd
}
