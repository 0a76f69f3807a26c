package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/slicegen/internal/config"
	"github.com/example/slicegen/internal/ledger"
	"github.com/example/slicegen/internal/scaffold"
	"github.com/example/slicegen/internal/templates/backend"
)

var generateCmd = &cobra.Command{
	Use:   "generate [entity]",
	Short: "Generate a backend vertical slice for an entity",
	Long: `Generate all layers of a backend slice for a new entity and wire it
into the target project's shared files:
  - Domain entity + repository protocol
  - Commands, queries and handlers
  - API schemas, routes and mapper
  - Infrastructure mapper, repository and database model
  - Container registration file

Shared-file edits (router aggregator, model registry, import block) are
idempotent: rerunning for the same entity never duplicates content.

Field types: string, number, boolean, date (append ? for optional,
a third segment is a format hint, e.g. price:number:currency)

Examples:
  slicegen generate customer --module sales --fields "email:string,credit_limit:number:currency"
  slicegen generate category --module catalog --crud basic --hierarchical
  slicegen generate item --module catalog --crud full --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityName := args[0]
		moduleName, _ := cmd.Flags().GetString("module")
		fieldsStr, _ := cmd.Flags().GetString("fields")
		crudStr, _ := cmd.Flags().GetString("crud")
		hierarchical, _ := cmd.Flags().GetBool("hierarchical")
		projectRoot, _ := cmd.Flags().GetString("project")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if moduleName == "" {
			return fmt.Errorf("--module is required")
		}

		crudType := scaffold.CrudType(crudStr)
		if crudType != scaffold.CrudBasic && crudType != scaffold.CrudFull {
			return fmt.Errorf("invalid --crud %q (valid: basic, full)", crudStr)
		}
		variant := scaffold.VariantPlain
		if hierarchical {
			variant = scaffold.VariantHierarchical
		}

		cfg, err := config.Load(projectRoot)
		if err != nil {
			return err
		}
		strictTypes := cfg.StrictTypes
		if cmd.Flags().Changed("strict-types") {
			strictTypes, _ = cmd.Flags().GetBool("strict-types")
		}

		fields, diags, err := scaffold.ParseFields(fieldsStr, strictTypes)
		if err != nil {
			return err
		}
		for _, d := range diags {
			printWarning(d.Message)
		}

		req := scaffold.Request{
			EntityName: entityName,
			ModuleName: moduleName,
			Fields:     fields,
			CrudType:   crudType,
			Variant:    variant,
		}

		var src scaffold.TemplateSource = backend.EmbeddedSource{}
		if cfg.TemplateRoot != "" {
			src = backend.DirSource{Root: cfg.TemplateRoot}
		}
		gen := scaffold.NewGenerator(src, cfg.ToLayout())

		result, err := gen.Generate(projectRoot, req, dryRun)
		if err != nil {
			return reportGenerateError(err)
		}
		registration, regWarnings, err := gen.EmitRegistration(projectRoot, req, dryRun)
		if err != nil {
			return reportGenerateError(err)
		}
		result.Files = append(result.Files, registration)
		result.Warnings = append(result.Warnings, regWarnings...)

		tokens := scaffold.DeriveTokens(entityName, moduleName)
		fmt.Printf("Generating entity '%s' in module '%s' (%s/%s set)\n",
			tokens.EntityPascal, tokens.ModuleSnake, crudType, scaffold.SelectTemplateSet(crudType, variant))
		fmt.Println()

		for _, f := range result.Files {
			if f.Skipped {
				printWarning(fmt.Sprintf("skipped %s: %s", f.Path, f.Reason))
				continue
			}
			if dryRun {
				fmt.Printf("  would write %s\n", f.Path)
			} else {
				fmt.Printf("%s %s\n", color.New(color.FgGreen).Sprint("✓"), f.Path)
			}
		}
		for _, w := range result.Warnings {
			printWarning(w)
		}

		var merged []string
		if dryRun {
			fmt.Println()
			fmt.Println("(dry-run mode - no files written, shared files untouched)")
		} else {
			replacements := scaffold.BuildReplacementMap(tokens, scaffold.DescribeFields(fields))
			merger := scaffold.NewMerger(cfg.ToLayout())
			outcomes, err := merger.MergeAll(projectRoot, tokens, replacements, result.RoutePath)
			if err != nil {
				return err
			}
			fmt.Println()
			for _, out := range outcomes {
				switch {
				case out.Changed:
					fmt.Printf("%s merged %s\n", color.New(color.FgGreen).Sprint("✓"), out.File)
					merged = append(merged, out.File)
				case out.Notice != "":
					fmt.Printf("  %s: %s\n", out.File, out.Notice)
				}
			}
		}

		recordRun(projectRoot, req, fieldsStr, len(result.Files), merged, dryRun)

		fmt.Println()
		fmt.Println("Next steps:")
		fmt.Printf("  1. Register the slice: call register_%s from the container setup\n", tokens.EntitySnake)
		fmt.Printf("  2. Add %s and %s to the permission registry\n", tokens.ManagePermission, tokens.ViewPermission)
		return nil
	},
}

// reportGenerateError prints the structured leak diagnostic before the
// run terminates with a non-zero status. Other errors pass through.
func reportGenerateError(err error) error {
	var leak *scaffold.LeakError
	if !errors.As(err, &leak) {
		return err
	}

	red := color.New(color.FgRed)
	red.Printf("unresolved placeholders in %s:\n", leak.File)
	for _, span := range leak.Spans {
		fmt.Printf("  %s\n", span)
	}
	fmt.Println("Remediation:")
	for _, hint := range leak.Remediation() {
		fmt.Printf("  - %s\n", hint)
	}
	return err
}

// recordRun writes the run to the ledger. Ledger trouble never fails a
// generation that already succeeded.
func recordRun(projectRoot string, req scaffold.Request, fieldsStr string, filesCount int, merged []string, dryRun bool) {
	l, err := ledger.Open(projectRoot)
	if err != nil {
		printWarning(fmt.Sprintf("ledger unavailable: %v", err))
		return
	}
	defer l.Close()

	run := ledger.Run{
		EntityName:  req.EntityName,
		ModuleName:  req.ModuleName,
		CrudType:    string(req.CrudType),
		Variant:     string(req.Variant),
		Fields:      fieldsStr,
		FilesCount:  filesCount,
		MergedFiles: strings.Join(merged, ","),
		DryRun:      dryRun,
	}
	if err := l.RecordRun(context.Background(), run); err != nil {
		printWarning(fmt.Sprintf("failed to record run: %v", err))
	}
}

func printWarning(msg string) {
	fmt.Printf("%s %s\n", color.New(color.FgYellow).Sprint("!"), msg)
}

func init() {
	generateCmd.Flags().String("module", "", "Module the entity belongs to (e.g. sales, catalog)")
	generateCmd.Flags().String("fields", "", "Field specifications (e.g. 'sku:string,price:number:currency,active?:boolean')")
	generateCmd.Flags().String("crud", "basic", "CRUD richness: basic or full")
	generateCmd.Flags().Bool("hierarchical", false, "Generate the tree-structured variant")
	generateCmd.Flags().String("project", ".", "Target project root")
	generateCmd.Flags().Bool("dry-run", false, "Preview without writing files")
	generateCmd.Flags().Bool("strict-types", false, "Reject unknown field types instead of defaulting to string")
}

// GenerateCmd returns the generate command.
func GenerateCmd() *cobra.Command {
	return generateCmd
}
