package scaffold

import (
	"strings"
	"unicode"
)

// Tokens holds every casing variant of the entity and module names plus
// the derived permission identifiers.
type Tokens struct {
	EntityPascal       string // "SalesOrder"
	EntityCamel        string // "salesOrder"
	EntitySnake        string // "sales_order"
	EntityKebab        string // "sales-order"
	EntityPluralSnake  string // "sales_orders"
	EntityPascalPlural string // "SalesOrders"
	EntityUpperSnake   string // "SALES_ORDER"

	ModulePascal     string
	ModuleSnake      string
	ModuleKebab      string
	ModuleUpperSnake string

	// Permission contract: MANAGE_<MODULE>_<ENTITY> / VIEW_<MODULE>_<ENTITY>
	// and the runtime forms <module>_<entity>:manage / :view. Both are
	// derived here so they cannot drift apart.
	ManagePermission        string
	ViewPermission          string
	ManagePermissionRuntime string
	ViewPermissionRuntime   string
}

// DeriveTokens computes all naming variants for an (entity, module) pair.
func DeriveTokens(entityName, moduleName string) Tokens {
	entitySnake := ToSnakeCase(entityName)
	moduleSnake := ToSnakeCase(moduleName)
	entityUpper := strings.ToUpper(entitySnake)
	moduleUpper := strings.ToUpper(moduleSnake)

	return Tokens{
		EntityPascal:       ToPascalCase(entityName),
		EntityCamel:        ToCamelCase(entityName),
		EntitySnake:        entitySnake,
		EntityKebab:        ToKebabCase(entityName),
		EntityPluralSnake:  Pluralize(entitySnake),
		EntityPascalPlural: Pluralize(ToPascalCase(entityName)),
		EntityUpperSnake:   entityUpper,

		ModulePascal:     ToPascalCase(moduleName),
		ModuleSnake:      moduleSnake,
		ModuleKebab:      ToKebabCase(moduleName),
		ModuleUpperSnake: moduleUpper,

		ManagePermission:        "MANAGE_" + moduleUpper + "_" + entityUpper,
		ViewPermission:          "VIEW_" + moduleUpper + "_" + entityUpper,
		ManagePermissionRuntime: moduleSnake + "_" + entitySnake + ":manage",
		ViewPermissionRuntime:   moduleSnake + "_" + entitySnake + ":view",
	}
}

// Name transformation helpers

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, "")
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// ToSnakeCase converts a string to snake_case.
func ToSnakeCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "_")
}

// ToKebabCase converts a string to kebab-case.
func ToKebabCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = strings.ToLower(word)
	}
	return strings.Join(words, "-")
}

// splitWords splits a string into words (handles camelCase, PascalCase, snake_case, kebab-case).
func splitWords(s string) []string {
	// Replace common separators with space
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	// Insert space before uppercase letters in camelCase/PascalCase
	var result strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			prev := rune(s[i-1])
			if !unicode.IsSpace(prev) && !unicode.IsUpper(prev) {
				result.WriteRune(' ')
			}
		}
		result.WriteRune(r)
	}

	return strings.Fields(result.String())
}

// Pluralize returns a simple pluralized form of a word.
func Pluralize(s string) string {
	if s == "" {
		return s
	}

	if strings.HasSuffix(s, "s") || strings.HasSuffix(s, "x") ||
		strings.HasSuffix(s, "ch") || strings.HasSuffix(s, "sh") {
		return s + "es"
	}
	if strings.HasSuffix(s, "y") && len(s) > 1 {
		lastChar := s[len(s)-2]
		if lastChar != 'a' && lastChar != 'e' && lastChar != 'i' && lastChar != 'o' && lastChar != 'u' {
			return s[:len(s)-1] + "ies"
		}
	}
	return s + "s"
}
