package scaffold

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// MergeOutcome reports what one merge procedure did. Merge procedures
// never abort the run: a missing anchor in a hand-authored shared file
// is a warning, not an error, in contrast to the hard-abort policy for
// generated-file content.
type MergeOutcome struct {
	File    string
	Changed bool
	Notice  string
}

// Merger applies the three idempotent shared-file edits for one entity.
type Merger struct {
	layout Layout
}

// NewMerger creates a Merger over a layout descriptor.
func NewMerger(layout Layout) *Merger {
	return &Merger{layout: layout}
}

// MergeAll runs the three procedures in order: router aggregation, model
// registry insertion, import-block insertion. routePath is the generated
// routes file path, threaded in from the generator (empty means derive
// the conventional path).
func (m *Merger) MergeAll(projectRoot string, tokens Tokens, replacements ReplacementMap, routePath string) ([]MergeOutcome, error) {
	var outcomes []MergeOutcome

	out, err := m.MergeRouter(projectRoot, tokens, routePath)
	if err != nil {
		return nil, err
	}
	outcomes = append(outcomes, out)

	out, err = m.MergeModelRegistry(projectRoot, tokens, replacements)
	if err != nil {
		return nil, err
	}
	outcomes = append(outcomes, out)

	out, err = m.MergeImportBlock(projectRoot, tokens)
	if err != nil {
		return nil, err
	}
	outcomes = append(outcomes, out)

	return outcomes, nil
}

// frameworkRouterImportRe anchors the import insertion point.
var frameworkRouterImportRe = regexp.MustCompile(`(?m)^from fastapi import APIRouter$`)

// localRouterImportRe matches an existing entity-router import line.
var localRouterImportRe = regexp.MustCompile(`(?m)^from \S+ import router as \w+_router$`)

// routerBlockRe detects an existing router-combination block.
var routerBlockRe = regexp.MustCompile(`(?m)^router = APIRouter\(`)

// includeCallRe matches one include call in the combination block.
var includeCallRe = regexp.MustCompile(`(?m)^router\.include_router\(\w+_router\)$`)

// MergeRouter wires the entity's router into the per-module aggregator.
// Idempotent: the import and the include call are each guarded by a
// presence check, so a second run for the same entity is a no-op. A
// missing aggregator file is synthesized from scratch.
func (m *Merger) MergeRouter(projectRoot string, tokens Tokens, routePath string) (MergeOutcome, error) {
	rel := path.Join(m.layout.ModulesDir, tokens.ModuleSnake, "router.py")
	abs := filepath.Join(projectRoot, filepath.FromSlash(rel))

	if routePath == "" {
		routePath = path.Join(m.layout.ModulesDir, tokens.ModuleSnake, "api", "routes", tokens.EntitySnake+"_routes.py")
	}
	importLine := fmt.Sprintf("from %s import router as %s_router", pythonModulePath(routePath), tokens.EntitySnake)
	includeLine := fmt.Sprintf("router.include_router(%s_router)", tokens.EntitySnake)

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		content := synthesizeAggregator(tokens.ModuleSnake, importLine, includeLine)
		if err := writeFile(abs, content); err != nil {
			return MergeOutcome{}, err
		}
		return MergeOutcome{File: rel, Changed: true, Notice: "aggregator created"}, nil
	}
	if err != nil {
		return MergeOutcome{}, err
	}

	content := string(data)
	changed := false

	if !strings.Contains(content, importLine) {
		content = insertRouterImport(content, importLine)
		changed = true
	}

	if !routerBlockRe.MatchString(content) {
		block := "\nrouter = APIRouter()\n" + includeLine + "\n"
		content = strings.TrimRight(content, "\n") + "\n" + block
		content = ensureExportList(content)
		changed = true
	} else if !strings.Contains(content, includeLine) {
		content = appendIncludeCall(content, includeLine)
		content = ensureExportList(content)
		changed = true
	}

	if !changed {
		return MergeOutcome{File: rel, Notice: "router already wired"}, nil
	}
	if err := writeFile(abs, content); err != nil {
		return MergeOutcome{}, err
	}
	return MergeOutcome{File: rel, Changed: true}, nil
}

// insertRouterImport places the import after the framework router import,
// else after the last local router import, else at the start of the file.
func insertRouterImport(content, importLine string) string {
	if loc := frameworkRouterImportRe.FindStringIndex(content); loc != nil {
		return content[:loc[1]] + "\n" + importLine + content[loc[1]:]
	}
	if locs := localRouterImportRe.FindAllStringIndex(content, -1); len(locs) > 0 {
		end := locs[len(locs)-1][1]
		return content[:end] + "\n" + importLine + content[end:]
	}
	return importLine + "\n" + content
}

// appendIncludeCall adds an include after the last existing one, or
// after the end of the APIRouter(...) statement when none exist yet.
// The constructor call may span multiple lines, so its end is found by
// matching the opening parenthesis, not by the end of the first line.
func appendIncludeCall(content, includeLine string) string {
	locs := includeCallRe.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		loc := routerBlockRe.FindStringIndex(content)
		depth := 1
		end := len(content)
		for i := loc[1]; i < len(content); i++ {
			switch content[i] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = i + 1
				break
			}
		}
		if lineEnd := strings.Index(content[end:], "\n"); lineEnd >= 0 {
			end += lineEnd + 1
		} else {
			content += "\n"
			end = len(content)
		}
		return content[:end] + includeLine + "\n" + content[end:]
	}
	end := locs[len(locs)-1][1]
	return content[:end] + "\n" + includeLine + content[end:]
}

var exportListRe = regexp.MustCompile(`(?m)^__all__\s*=\s*\[([^\]]*)\]`)

// ensureExportList updates or creates the module export list.
func ensureExportList(content string) string {
	if match := exportListRe.FindStringSubmatch(content); match != nil {
		if strings.Contains(match[1], `"router"`) || strings.Contains(match[1], `'router'`) {
			return content
		}
		inner := strings.TrimSpace(match[1])
		replacement := `__all__ = ["router"]`
		if inner != "" {
			replacement = fmt.Sprintf("__all__ = [%s, \"router\"]", inner)
		}
		return exportListRe.ReplaceAllString(content, replacement)
	}
	return strings.TrimRight(content, "\n") + "\n\n__all__ = [\"router\"]\n"
}

func synthesizeAggregator(moduleSnake, importLine, includeLine string) string {
	return fmt.Sprintf(`"""Aggregated router for the %s module."""
from fastapi import APIRouter
%s

router = APIRouter()
%s

__all__ = ["router"]
`, moduleSnake, importLine, includeLine)
}

// pythonModulePath converts a file path to a Python dotted module path.
func pythonModulePath(p string) string {
	p = strings.TrimSuffix(p, ".py")
	return strings.ReplaceAll(p, "/", ".")
}

// registryModelTemplate is the model definition inserted into the shared
// models file. Rendered through the normal substitution pipeline.
const registryModelTemplate = `class {{EntityName}}Model(Base):
    __tablename__ = "{{TableName}}"

    id = Column(String, primary_key=True)
    tenant_id = Column(String, nullable=False)
    code = Column(String, nullable=False)
    name = Column(String, nullable=False)
{{ModelColumns}}    is_active = Column(Boolean, nullable=False, default=True)
    version = Column(Integer, nullable=False, default=1)
    created_at = Column(DateTime, nullable=False)
    updated_at = Column(DateTime, nullable=True)
    deactivated_at = Column(DateTime, nullable=True)
`

// MergeModelRegistry inserts the entity's model class into the shared
// models file under the module's banner section. Exactly one of three
// placements applies: after the module banner, before the fallback
// sibling banner, or as a new bannered section at end of file. A class
// of the same name anywhere in the file makes the whole procedure a
// no-op.
func (m *Merger) MergeModelRegistry(projectRoot string, tokens Tokens, replacements ReplacementMap) (MergeOutcome, error) {
	rel := m.layout.SharedModelsFile
	abs := filepath.Join(projectRoot, filepath.FromSlash(rel))

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return MergeOutcome{File: rel, Notice: "shared models file not found; skipped"}, nil
	}
	if err != nil {
		return MergeOutcome{}, err
	}
	content := string(data)

	className := tokens.EntityPascal + "Model"
	if strings.Contains(content, "class "+className+"(") {
		return MergeOutcome{File: rel, Notice: fmt.Sprintf("class %s already registered", className)}, nil
	}

	definition := Render(registryModelTemplate, replacements)
	banner := m.layout.BannerToken(tokens.ModuleSnake)

	if loc := bannerLoc(content, banner); loc != nil {
		// Insert directly after the module's banner line.
		end := loc[1]
		if end < len(content) && content[end] == '\n' {
			end++
		}
		content = content[:end] + "\n" + definition + content[end:]
	} else if loc := bannerLoc(content, m.layout.FallbackBanner); loc != nil {
		section := bannerLine(banner) + "\n\n" + definition + "\n"
		content = content[:loc[0]] + section + content[loc[0]:]
	} else {
		content = strings.TrimRight(content, "\n") + "\n\n" + bannerLine(banner) + "\n\n" + definition
	}

	if err := writeFile(abs, content); err != nil {
		return MergeOutcome{}, err
	}
	return MergeOutcome{File: rel, Changed: true}, nil
}

// bannerLoc finds a comment-banner line carrying the given token.
func bannerLoc(content, token string) []int {
	re := regexp.MustCompile(`(?m)^#\s*=+\s*` + regexp.QuoteMeta(token) + `\s*=+\s*$`)
	return re.FindStringIndex(content)
}

func bannerLine(token string) string {
	return "# ======================== " + token + " ========================"
}

// MergeImportBlock adds the entity's model symbol to the shared
// multi-line import statement. The closing parenthesis is located by a
// character scan tracking parenthesis depth; a single-line pattern
// cannot work because the block spans many lines. No-op when the symbol
// already appears anywhere in the file, or when the opening pattern is
// absent.
func (m *Merger) MergeImportBlock(projectRoot string, tokens Tokens) (MergeOutcome, error) {
	rel := m.layout.SharedImportFile
	abs := filepath.Join(projectRoot, filepath.FromSlash(rel))

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return MergeOutcome{File: rel, Notice: "shared import file not found; skipped"}, nil
	}
	if err != nil {
		return MergeOutcome{}, err
	}
	content := string(data)

	symbol := tokens.EntityPascal + "Model"
	// Boundary match: the symbol as a whole identifier, not as a suffix
	// of a longer one (ItemModel inside LineItemModel).
	symbolRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)
	if symbolRe.MatchString(content) {
		return MergeOutcome{File: rel, Notice: fmt.Sprintf("%s already imported", symbol)}, nil
	}

	open := strings.Index(content, m.layout.ImportOpening)
	if open < 0 {
		return MergeOutcome{File: rel, Notice: "import opening pattern not found; skipped"}, nil
	}

	// Depth starts at 1 for the opening pattern's own parenthesis.
	depth := 1
	closeIdx := -1
	for i := open + len(m.layout.ImportOpening); i < len(content); i++ {
		switch content[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeIdx = i
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 {
		return MergeOutcome{File: rel, Notice: "unbalanced import block; skipped"}, nil
	}

	// The trailing-comma convention: the previous entry must end with a
	// comma before the new one goes in.
	head := content[:closeIdx]
	trimmed := strings.TrimRight(head, " \t\n")
	if !strings.HasSuffix(trimmed, ",") && !strings.HasSuffix(trimmed, "(") {
		head = trimmed + ","
	} else {
		head = trimmed
	}

	insertion := fmt.Sprintf("\n    # %s\n    %s,\n", tokens.ModuleSnake, symbol)
	content = head + insertion + content[closeIdx:]

	if err := writeFile(abs, content); err != nil {
		return MergeOutcome{}, err
	}
	return MergeOutcome{File: rel, Changed: true}, nil
}
