package scaffold

import (
	"fmt"
	"path"
	"path/filepath"
)

// EmitRegistration renders the dependency-registration template through
// the normal scan/render/validate pipeline and writes it to the
// entity-named path in the shared registrations directory. One file per
// entity, never merged into shared state, so rerunning simply rewrites
// the same file. Malformed-placeholder warnings are returned alongside
// the file record, matching Generate.
func (g *Generator) EmitRegistration(projectRoot string, req Request, dryRun bool) (WrittenFile, []string, error) {
	tokens := DeriveTokens(req.EntityName, req.ModuleName)
	replacements := BuildReplacementMap(tokens, DescribeFields(req.Fields))
	set := SelectTemplateSet(req.CrudType, req.Variant)

	outRel := path.Join(g.layout.RegistrationsDir, tokens.EntitySnake+"_registration.py")

	body, err := g.src.Read(set, registrationTemplate)
	if err != nil {
		return WrittenFile{
			Path:    outRel,
			Skipped: true,
			Reason:  fmt.Sprintf("template %s/%s not found", set, registrationTemplate),
		}, nil, nil
	}

	var warnings []string
	for _, span := range ScanMalformed(body) {
		warnings = append(warnings,
			fmt.Sprintf("template %s/%s: malformed placeholder %q", set, registrationTemplate, span))
	}

	rendered := Render(body, replacements)
	if err := ValidateRendered(rendered, outRel, replacements); err != nil {
		return WrittenFile{}, warnings, err
	}

	if !dryRun {
		if err := writeFile(filepath.Join(projectRoot, filepath.FromSlash(outRel)), rendered); err != nil {
			return WrittenFile{}, warnings, fmt.Errorf("failed to write %s: %w", outRel, err)
		}
	}
	return WrittenFile{Path: outRel}, warnings, nil
}
