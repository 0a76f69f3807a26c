// Package scaffold generates backend vertical slices from a field DSL
// and wires them into the target project's shared files.
package scaffold

// FieldSpec is one requested entity attribute as written in the DSL.
type FieldSpec struct {
	Name     string // snake_case as given: "unit_price"
	Type     string // string, number, boolean, date
	Format   string // optional hint: "currency", "percentage", ...
	Required bool
}

// FieldDescriptor is the derived view of a FieldSpec with every naming
// variant and type form the templates need. Computed once, never mutated.
type FieldDescriptor struct {
	Name       string // as given: "unit_price"
	NamePascal string // "UnitPrice"
	NameCamel  string // "unitPrice"
	NameSnake  string // "unit_price"
	Type       string // DSL type after defaulting
	Format     string
	Required   bool
	PyType     string // "str", "float", "Decimal", "bool", "datetime"
	PyOptional string // "Optional[str]", ...
	ColumnType string // SQLAlchemy: "String", "Numeric", "Boolean", "DateTime"
	IsString   bool
	IsNumber   bool
	IsBoolean  bool
	IsDate     bool
}

// ReplacementMap maps placeholder keys to rendered text for one
// (entity, module, fields) triple.
type ReplacementMap map[string]string

// CrudType selects how rich the generated slice is.
type CrudType string

const (
	CrudBasic CrudType = "basic"
	CrudFull  CrudType = "full"
)

// Variant selects the structural flavor of the slice.
type Variant string

const (
	VariantPlain        Variant = "plain"
	VariantHierarchical Variant = "hierarchical"
)

// Request describes one generation run.
type Request struct {
	EntityName string
	ModuleName string
	Fields     []FieldSpec
	CrudType   CrudType
	Variant    Variant
}

// FileKind distinguishes manifest entries that need special handling.
type FileKind string

const (
	KindPlain        FileKind = "plain"
	KindRoutes       FileKind = "routes"   // output path is threaded into the merge engine
	KindDBModel      FileKind = "db_model" // append-expected: existing destination redirects to a sibling
	KindRegistration FileKind = "registration"
)

// TemplateFile is one entry of a template set's fixed manifest.
type TemplateFile struct {
	Template  string // file name inside the set, e.g. "entity.py.tmpl"
	OutputRel string // path relative to the project root
	Kind      FileKind
}

// WrittenFile records one file the generator produced.
type WrittenFile struct {
	Path    string
	Skipped bool   // template missing, output degraded
	Reason  string // why it was skipped
}

// Result aggregates one generation run.
type Result struct {
	Files     []WrittenFile
	RoutePath string // output path of the routes file, for the router merge
	Merged    []string
	Warnings  []string
}
