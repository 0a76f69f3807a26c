package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Generator renders one entity's manifest and writes the results.
type Generator struct {
	src    TemplateSource
	layout Layout
}

// NewGenerator creates a Generator over a template source and layout.
func NewGenerator(src TemplateSource, layout Layout) *Generator {
	return &Generator{src: src, layout: layout}
}

// Generate runs the full per-entity pipeline: derive tokens, build the
// replacement map, then render, validate and write every manifest entry.
//
// A missing template degrades that one output (warn and skip); an
// unresolved-placeholder leak aborts the whole run. With dryRun set,
// nothing touches the filesystem.
func (g *Generator) Generate(projectRoot string, req Request, dryRun bool) (*Result, error) {
	tokens := DeriveTokens(req.EntityName, req.ModuleName)
	fields := DescribeFields(req.Fields)
	replacements := BuildReplacementMap(tokens, fields)

	set := SelectTemplateSet(req.CrudType, req.Variant)
	result := &Result{}

	for _, entry := range Manifest(g.layout, tokens) {
		body, err := g.src.Read(set, entry.Template)
		if err != nil {
			result.Files = append(result.Files, WrittenFile{
				Path:    entry.OutputRel,
				Skipped: true,
				Reason:  fmt.Sprintf("template %s/%s not found", set, entry.Template),
			})
			continue
		}

		for _, span := range ScanMalformed(body) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("template %s/%s: malformed placeholder %q", set, entry.Template, span))
		}

		rendered := Render(body, replacements)
		if err := ValidateRendered(rendered, entry.OutputRel, replacements); err != nil {
			return nil, err
		}

		outRel := entry.OutputRel
		if entry.Kind == KindDBModel {
			outRel = redirectIfForeign(projectRoot, outRel, tokens, result)
		}
		if entry.Kind == KindRoutes {
			result.RoutePath = outRel
		}

		if !dryRun {
			if err := writeFile(filepath.Join(projectRoot, filepath.FromSlash(outRel)), rendered); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", outRel, err)
			}
		}
		result.Files = append(result.Files, WrittenFile{Path: outRel})
	}

	return result, nil
}

// redirectIfForeign diverts an append-expected output to an
// entity-suffixed sibling when the canonical destination already exists
// with content that is not this entity's own prior output, so
// hand-written or sibling-entity content is never silently overwritten.
// A rerun for the same entity finds its own model class in the file and
// overwrites in place. The operator reconciles a redirected file
// manually.
func redirectIfForeign(projectRoot, outRel string, tokens Tokens, result *Result) string {
	abs := filepath.Join(projectRoot, filepath.FromSlash(outRel))
	existing, err := os.ReadFile(abs)
	if err != nil {
		return outRel
	}
	if strings.Contains(string(existing), "class "+tokens.EntityPascal+"Model(") {
		return outRel
	}

	ext := filepath.Ext(outRel)
	sibling := strings.TrimSuffix(outRel, ext) + "_" + tokens.EntitySnake + ext
	result.Warnings = append(result.Warnings,
		fmt.Sprintf("%s exists; writing %s instead (reconcile manually)", outRel, sibling))
	return sibling
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
