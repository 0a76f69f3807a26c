package scaffold

import (
	"fmt"
	"strings"
)

// System-managed fields the base entity already carries. A requested
// field with one of these names is dropped, never kept.
var auditFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"deactivated_at": true,
}

var standardFields = map[string]bool{
	"id":        true,
	"tenant_id": true,
	"version":   true,
	"is_active": true,
	"code":      true,
	"name":      true,
}

// Diagnostic is a non-fatal message produced while parsing or merging.
type Diagnostic struct {
	Message string
}

// ParseFields parses the field DSL into an ordered list of FieldSpec.
// Format: "name[?]:type[:format]" comma separated; a trailing "?" on the
// name marks the field optional. Insertion order is preserved because it
// controls the emitted field order in generated code.
//
// Fields named after system-managed columns are excluded and reported
// via a diagnostic. Empty input yields an empty list, not an error.
// Unknown types fall back to the string family unless strictTypes is
// set, in which case parsing fails.
func ParseFields(fieldsStr string, strictTypes bool) ([]FieldSpec, []Diagnostic, error) {
	var fields []FieldSpec
	var diags []Diagnostic

	for _, part := range strings.Split(fieldsStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		spec, err := parseField(part, strictTypes)
		if err != nil {
			return nil, nil, err
		}

		if auditFields[spec.Name] {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("field %q is a system-managed audit field and was skipped", spec.Name),
			})
			continue
		}
		if standardFields[spec.Name] {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("field %q is a standard entity field and was skipped", spec.Name),
			})
			continue
		}

		fields = append(fields, spec)
	}

	return fields, diags, nil
}

// parseField parses a single "name[?]:type[:format]" item.
func parseField(item string, strictTypes bool) (FieldSpec, error) {
	parts := strings.SplitN(item, ":", 3)

	name := strings.TrimSpace(parts[0])
	optional := strings.HasSuffix(name, "?")
	if optional {
		name = strings.TrimSuffix(name, "?")
	}
	if name == "" {
		return FieldSpec{}, fmt.Errorf("invalid field spec %q: empty field name", item)
	}

	typ := "string"
	if len(parts) > 1 {
		typ = strings.TrimSpace(parts[1])
		// The marker is also tolerated on the type; it adds nothing
		// beyond what the name-level marker already set.
		if strings.HasSuffix(typ, "?") {
			typ = strings.TrimSuffix(typ, "?")
			optional = true
		}
	}

	switch typ {
	case "string", "number", "boolean", "date":
	default:
		if strictTypes {
			return FieldSpec{}, fmt.Errorf("invalid field spec %q: unknown type %q (valid: string, number, boolean, date)", item, typ)
		}
		typ = "string"
	}

	format := ""
	if len(parts) > 2 {
		format = strings.TrimSpace(parts[2])
	}

	return FieldSpec{
		Name:     name,
		Type:     typ,
		Format:   format,
		Required: !optional,
	}, nil
}

// SerializeFields renders a FieldSpec list back into its DSL form.
func SerializeFields(fields []FieldSpec) string {
	items := make([]string, len(fields))
	for i, f := range fields {
		item := f.Name
		if !f.Required {
			item += "?"
		}
		item += ":" + f.Type
		if f.Format != "" {
			item += ":" + f.Format
		}
		items[i] = item
	}
	return strings.Join(items, ",")
}

// DescribeFields derives the template-facing view of each field.
func DescribeFields(fields []FieldSpec) []FieldDescriptor {
	descs := make([]FieldDescriptor, len(fields))
	for i, f := range fields {
		descs[i] = describeField(f)
	}
	return descs
}

func describeField(f FieldSpec) FieldDescriptor {
	d := FieldDescriptor{
		Name:       f.Name,
		NamePascal: ToPascalCase(f.Name),
		NameCamel:  ToCamelCase(f.Name),
		NameSnake:  ToSnakeCase(f.Name),
		Type:       f.Type,
		Format:     f.Format,
		Required:   f.Required,
	}

	switch f.Type {
	case "number":
		d.IsNumber = true
		d.PyType = "float"
		if f.Format == "currency" {
			d.PyType = "Decimal"
		}
		d.ColumnType = "Numeric"
	case "boolean":
		d.IsBoolean = true
		d.PyType = "bool"
		d.ColumnType = "Boolean"
	case "date":
		d.IsDate = true
		d.PyType = "datetime"
		d.ColumnType = "DateTime"
	default:
		d.IsString = true
		d.PyType = "str"
		d.ColumnType = "String"
	}

	d.PyOptional = "Optional[" + d.PyType + "]"
	return d
}
