package scaffold

import (
	"fmt"
	"strings"
)

// BuildReplacementMap combines derived tokens and field descriptors into
// the full placeholder map for one entity. It is pure and cannot fail on
// well-formed descriptors: an empty field list means "zero fields beyond
// the base entity" and yields empty-string fragments, never missing keys.
func BuildReplacementMap(tokens Tokens, fields []FieldDescriptor) ReplacementMap {
	m := ReplacementMap{
		"EntityName":            tokens.EntityPascal,
		"EntityNameCamel":       tokens.EntityCamel,
		"EntityNameSnake":       tokens.EntitySnake,
		"EntityNameKebab":       tokens.EntityKebab,
		"EntityNamePlural":      tokens.EntityPascalPlural,
		"EntityNamePluralSnake": tokens.EntityPluralSnake,
		"EntityNameUpperSnake":  tokens.EntityUpperSnake,

		"ModuleName":           tokens.ModulePascal,
		"ModuleNameSnake":      tokens.ModuleSnake,
		"ModuleNameKebab":      tokens.ModuleKebab,
		"ModuleNameUpperSnake": tokens.ModuleUpperSnake,

		"ManagePermission":        tokens.ManagePermission,
		"ViewPermission":          tokens.ViewPermission,
		"ManagePermissionRuntime": tokens.ManagePermissionRuntime,
		"ViewPermissionRuntime":   tokens.ViewPermissionRuntime,

		"TableName": tokens.EntityPluralSnake,
	}

	m["InitParams"] = joinParams(fields, initParam)
	m["InitAssignments"] = joinStatements(fields, initAssignment)
	m["UpdateParams"] = joinParams(fields, updateParam)
	m["UpdateAssignments"] = joinStatements(fields, updateAssignment)
	m["CreateInputFields"] = joinStatements(fields, createInputField)
	m["UpdateInputFields"] = joinStatements(fields, updateInputField)
	m["ResponseFields"] = joinStatements(fields, responseField)
	m["MapperAssignments"] = joinStatements(fields, mapperAssignment)
	m["ModelColumns"] = joinStatements(fields, modelColumn)
	m["ValidationMethods"] = validationMethods(fields)

	return m
}

// joinParams joins parameter-list fragments with comma-newline, adding a
// trailing comma only when the family is non-empty.
func joinParams(fields []FieldDescriptor, render func(FieldDescriptor) string) string {
	lines := renderAll(fields, render)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, ",\n") + ","
}

// joinStatements joins statement-body fragments with bare newlines, with
// a trailing newline only when the family is non-empty.
func joinStatements(fields []FieldDescriptor, render func(FieldDescriptor) string) string {
	lines := renderAll(fields, render)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderAll(fields []FieldDescriptor, render func(FieldDescriptor) string) []string {
	var lines []string
	for _, f := range fields {
		if line := render(f); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func initParam(f FieldDescriptor) string {
	if f.Required {
		return fmt.Sprintf("        %s: %s", f.NameSnake, f.PyType)
	}
	return fmt.Sprintf("        %s: %s = None", f.NameSnake, f.PyOptional)
}

func initAssignment(f FieldDescriptor) string {
	return fmt.Sprintf("        self.%s = %s", f.NameSnake, f.NameSnake)
}

func updateParam(f FieldDescriptor) string {
	return fmt.Sprintf("        %s: %s = None", f.NameSnake, f.PyOptional)
}

func updateAssignment(f FieldDescriptor) string {
	return fmt.Sprintf("        if %s is not None:\n            self.%s = %s",
		f.NameSnake, f.NameSnake, f.NameSnake)
}

func createInputField(f FieldDescriptor) string {
	if f.Required {
		return fmt.Sprintf("    %s: %s", f.NameSnake, f.PyType)
	}
	return fmt.Sprintf("    %s: %s = None", f.NameSnake, f.PyOptional)
}

func updateInputField(f FieldDescriptor) string {
	return fmt.Sprintf("    %s: %s = None", f.NameSnake, f.PyOptional)
}

func responseField(f FieldDescriptor) string {
	if f.Required {
		return fmt.Sprintf("    %s: %s", f.NameSnake, f.PyType)
	}
	return fmt.Sprintf("    %s: %s = None", f.NameSnake, f.PyOptional)
}

func mapperAssignment(f FieldDescriptor) string {
	return fmt.Sprintf("            %s=record.%s,", f.NameSnake, f.NameSnake)
}

func modelColumn(f FieldDescriptor) string {
	nullable := "True"
	if f.Required {
		nullable = "False"
	}
	return fmt.Sprintf("    %s = Column(%s, nullable=%s)", f.NameSnake, f.ColumnType, nullable)
}

// validationMethods emits a check per required field: string fields get a
// blank/whitespace check, numeric fields a null check only. Optional
// fields and other types produce nothing.
func validationMethods(fields []FieldDescriptor) string {
	var methods []string
	for _, f := range fields {
		if !f.Required {
			continue
		}
		switch {
		case f.IsString:
			methods = append(methods, fmt.Sprintf(
				"    def _validate_%s(self) -> None:\n"+
					"        if not self.%s or not self.%s.strip():\n"+
					"            raise ValueError(\"%s must not be blank\")",
				f.NameSnake, f.NameSnake, f.NameSnake, f.NameSnake))
		case f.IsNumber:
			methods = append(methods, fmt.Sprintf(
				"    def _validate_%s(self) -> None:\n"+
					"        if self.%s is None:\n"+
					"            raise ValueError(\"%s is required\")",
				f.NameSnake, f.NameSnake, f.NameSnake))
		}
	}
	if len(methods) == 0 {
		return ""
	}
	return strings.Join(methods, "\n\n") + "\n"
}
