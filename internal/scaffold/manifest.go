package scaffold

import (
	"path"
	"strings"
)

// Layout describes where the target project keeps generated slices and
// the shared files the merge engine edits. It is data, not code: new
// modules are wired by extending the descriptor, never by touching the
// merge engine.
type Layout struct {
	ModulesDir       string // "app/modules"
	SharedModelsFile string // "app/db/models.py"
	SharedImportFile string // "app/db/registry.py"
	ImportOpening    string // "from app.db.models import ("
	RegistrationsDir string // "app/container/registrations"

	// ModuleAnchors maps a module name (snake_case) to the banner token
	// expected in the shared models file. Unlisted modules default to
	// the upper-snake module name.
	ModuleAnchors map[string]string

	// FallbackBanner is the sibling section a new module banner is
	// created before when the module has no section of its own.
	FallbackBanner string
}

// DefaultLayout matches the admin backend's conventional tree.
func DefaultLayout() Layout {
	return Layout{
		ModulesDir:       "app/modules",
		SharedModelsFile: "app/db/models.py",
		SharedImportFile: "app/db/registry.py",
		ImportOpening:    "from app.db.models import (",
		RegistrationsDir: "app/container/registrations",
		ModuleAnchors:    map[string]string{},
		FallbackBanner:   "CATALOG",
	}
}

// BannerToken returns the models-file banner token for a module. Banners
// carry the upper-snake module name unless the layout says otherwise.
func (l Layout) BannerToken(moduleSnake string) string {
	if tok, ok := l.ModuleAnchors[moduleSnake]; ok {
		return tok
	}
	return strings.ToUpper(ToSnakeCase(moduleSnake))
}

// TemplateSource reads template bodies from a named set. The embedded
// sets satisfy this; a config override can point it at a directory on
// disk instead.
type TemplateSource interface {
	Read(set, name string) (string, error)
}

// SelectTemplateSet chooses the template subdirectory. The enumeration
// is closed: full always gets the advanced set, basic gets the tree set
// only for hierarchical entities.
func SelectTemplateSet(crudType CrudType, variant Variant) string {
	if crudType == CrudFull {
		return "advanced"
	}
	if variant == VariantHierarchical {
		return "tree"
	}
	return "basic"
}

// Manifest returns the fixed file list for one entity, one output per
// architectural layer. The registration template is deliberately absent:
// it goes through the registration emitter, not the main loop.
func Manifest(layout Layout, tokens Tokens) []TemplateFile {
	base := path.Join(layout.ModulesDir, tokens.ModuleSnake)
	e := tokens.EntitySnake

	return []TemplateFile{
		{Template: "entity.py.tmpl", OutputRel: path.Join(base, "domain", "entities", e+".py"), Kind: KindPlain},
		{Template: "repository_interface.py.tmpl", OutputRel: path.Join(base, "domain", "repositories", e+"_repository.py"), Kind: KindPlain},
		{Template: "commands.py.tmpl", OutputRel: path.Join(base, "application", "commands", e+"_commands.py"), Kind: KindPlain},
		{Template: "queries.py.tmpl", OutputRel: path.Join(base, "application", "queries", e+"_queries.py"), Kind: KindPlain},
		{Template: "handlers.py.tmpl", OutputRel: path.Join(base, "application", "handlers", e+"_handlers.py"), Kind: KindPlain},
		{Template: "schemas.py.tmpl", OutputRel: path.Join(base, "api", "schemas", e+"_schemas.py"), Kind: KindPlain},
		{Template: "routes.py.tmpl", OutputRel: path.Join(base, "api", "routes", e+"_routes.py"), Kind: KindRoutes},
		{Template: "api_mapper.py.tmpl", OutputRel: path.Join(base, "api", "mappers", e+"_api_mapper.py"), Kind: KindPlain},
		{Template: "mapper.py.tmpl", OutputRel: path.Join(base, "infrastructure", "mappers", e+"_mapper.py"), Kind: KindPlain},
		{Template: "repository.py.tmpl", OutputRel: path.Join(base, "infrastructure", "repositories", e+"_repository.py"), Kind: KindPlain},
		{Template: "db_model.py.tmpl", OutputRel: path.Join(base, "infrastructure", "models.py"), Kind: KindDBModel},
	}
}

// registrationTemplate is the extra template the registration emitter
// renders outside the main manifest.
const registrationTemplate = "registration.py.tmpl"
