package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/slicegen/internal/cli"
	"github.com/example/slicegen/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "slicegen",
		Short:   "slicegen - backend slice generator",
		Version: version.String(),
		Long: `slicegen generates complete backend vertical slices (domain, application,
API and infrastructure layers) for admin entities from a short field
specification, and wires them into the target project's shared files
with idempotent structural merges.`,
	}

	rootCmd.AddCommand(cli.GenerateCmd())
	rootCmd.AddCommand(cli.RunsCmd())
	rootCmd.AddCommand(cli.TemplatesCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
