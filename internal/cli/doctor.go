package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/slicegen/internal/config"
	"github.com/example/slicegen/internal/ledger"
	"github.com/example/slicegen/internal/scaffold"
	"github.com/example/slicegen/internal/templates/backend"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for target-project validation
func DoctorCmd() *cobra.Command {
	var quiet bool
	var projectRoot string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the target project layout before generating",
		Long: `Health check for the target project a generation run will write into.

Validates:
- Config file (.slicegen.yaml) syntax
- Modules directory
- Shared models file and its module banners
- Shared import block (opening pattern, balanced parentheses)
- Template sets (embedded or templateRoot override)
- Run ledger

Examples:
  slicegen doctor                 # Check the current directory
  slicegen doctor --project ../api
  slicegen doctor --quiet         # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{}
			hasErrors := false

			cfg, cfgResult := checkConfig(projectRoot)
			results = append(results, cfgResult)

			layout := scaffold.DefaultLayout()
			if cfg != nil {
				layout = cfg.ToLayout()
			}

			results = append(results, checkModulesDir(projectRoot, layout))
			results = append(results, checkModelsFile(projectRoot, layout))
			results = append(results, checkImportBlock(projectRoot, layout))
			results = append(results, checkTemplates(cfg))
			results = append(results, checkLedger(projectRoot))

			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Fix them before running 'slicegen generate'.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("project validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")
	cmd.Flags().StringVar(&projectRoot, "project", ".", "Target project root")

	return cmd
}

// checkConfig loads the project config. A missing file is fine (defaults
// apply); a malformed one is fatal for every later run.
func checkConfig(projectRoot string) (*config.Config, CheckResult) {
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: fmt.Sprintf("  %s is malformed: %v", config.FileName, err),
		}
	}
	if _, statErr := os.Stat(filepath.Join(projectRoot, config.FileName)); os.IsNotExist(statErr) {
		return cfg, CheckResult{Name: "Config", Status: "✓", Details: "  using defaults"}
	}
	return cfg, CheckResult{Name: "Config", Status: "✓"}
}

func checkModulesDir(projectRoot string, layout scaffold.Layout) CheckResult {
	dir := filepath.Join(projectRoot, filepath.FromSlash(layout.ModulesDir))
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Modules Dir",
			Status:  "⚠",
			Details: fmt.Sprintf("  %s not found (created on first generate)", layout.ModulesDir),
		}
	}
	return CheckResult{Name: "Modules Dir", Status: "✓"}
}

var bannerScanRe = regexp.MustCompile(`(?m)^#\s*=+\s*([A-Z0-9_]+)\s*=+\s*$`)

// checkModelsFile verifies the shared models file and reports which
// module banners the registry merge will be able to anchor on.
func checkModelsFile(projectRoot string, layout scaffold.Layout) CheckResult {
	abs := filepath.Join(projectRoot, filepath.FromSlash(layout.SharedModelsFile))
	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    "Models File",
			Status:  "⚠",
			Details: fmt.Sprintf("  %s not found; registry merges will be skipped", layout.SharedModelsFile),
		}
	}
	if err != nil {
		return CheckResult{Name: "Models File", Status: "✗", Details: "  " + err.Error()}
	}

	var banners []string
	for _, m := range bannerScanRe.FindAllStringSubmatch(string(data), -1) {
		banners = append(banners, m[1])
	}
	if len(banners) == 0 {
		return CheckResult{
			Name:    "Models File",
			Status:  "⚠",
			Details: "  no module banners found; new sections will be appended at end of file",
		}
	}
	return CheckResult{Name: "Models File", Status: "✓", Details: "  banners: " + strings.Join(banners, ", ")}
}

// checkImportBlock verifies the shared import statement is present and
// its parentheses balance, the same invariant the merge relies on.
func checkImportBlock(projectRoot string, layout scaffold.Layout) CheckResult {
	abs := filepath.Join(projectRoot, filepath.FromSlash(layout.SharedImportFile))
	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return CheckResult{
			Name:    "Import Block",
			Status:  "⚠",
			Details: fmt.Sprintf("  %s not found; import merges will be skipped", layout.SharedImportFile),
		}
	}
	if err != nil {
		return CheckResult{Name: "Import Block", Status: "✗", Details: "  " + err.Error()}
	}

	content := string(data)
	open := strings.Index(content, layout.ImportOpening)
	if open < 0 {
		return CheckResult{
			Name:    "Import Block",
			Status:  "✗",
			Details: fmt.Sprintf("  opening pattern %q not found in %s", layout.ImportOpening, layout.SharedImportFile),
		}
	}

	depth := 1
	for i := open + len(layout.ImportOpening); i < len(content); i++ {
		switch content[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 {
			return CheckResult{Name: "Import Block", Status: "✓"}
		}
	}
	return CheckResult{
		Name:    "Import Block",
		Status:  "✗",
		Details: "  import block parentheses never close",
	}
}

// checkTemplates verifies every set carries the full manifest, from the
// embedded sets or the configured templateRoot override.
func checkTemplates(cfg *config.Config) CheckResult {
	var src scaffold.TemplateSource = backend.EmbeddedSource{}
	name := "embedded"
	if cfg != nil && cfg.TemplateRoot != "" {
		src = backend.DirSource{Root: cfg.TemplateRoot}
		name = cfg.TemplateRoot
	}

	var missing []string
	for _, set := range backend.Sets() {
		for _, tmpl := range backend.Names() {
			if _, err := src.Read(set, tmpl); err != nil {
				missing = append(missing, set+"/"+tmpl)
			}
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Templates",
			Status:  "✗",
			Details: fmt.Sprintf("  source %s missing: %s", name, strings.Join(missing, ", ")),
		}
	}
	return CheckResult{Name: "Templates", Status: "✓"}
}

// checkLedger opens (and thereby migrates) the run ledger. The ledger is
// optional at generate time, so trouble here is a warning.
func checkLedger(projectRoot string) CheckResult {
	l, err := ledger.Open(projectRoot)
	if err != nil {
		return CheckResult{
			Name:    "Ledger",
			Status:  "⚠",
			Details: fmt.Sprintf("  cannot open run ledger: %v", err),
		}
	}
	defer l.Close()
	return CheckResult{Name: "Ledger", Status: "✓"}
}
