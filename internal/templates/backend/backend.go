// Package backend holds the embedded template sets for backend slice
// generation.
package backend

import (
	"embed"
	"os"
	"path/filepath"
)

//go:embed basic/*.tmpl advanced/*.tmpl tree/*.tmpl
var templateSets embed.FS

// Sets lists the available template sets.
func Sets() []string {
	return []string{"basic", "advanced", "tree"}
}

// Names lists the files every set is expected to supply.
func Names() []string {
	return []string{
		"entity.py.tmpl",
		"repository_interface.py.tmpl",
		"commands.py.tmpl",
		"queries.py.tmpl",
		"handlers.py.tmpl",
		"schemas.py.tmpl",
		"routes.py.tmpl",
		"api_mapper.py.tmpl",
		"mapper.py.tmpl",
		"repository.py.tmpl",
		"db_model.py.tmpl",
		"registration.py.tmpl",
	}
}

// EmbeddedSource reads templates from the compiled-in sets.
type EmbeddedSource struct{}

// Read returns the named template from a set.
func (EmbeddedSource) Read(set, name string) (string, error) {
	content, err := templateSets.ReadFile(set + "/" + name)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// DirSource reads templates from a directory on disk, for projects that
// override the embedded sets.
type DirSource struct {
	Root string
}

// Read returns the named template from a set directory under Root.
func (d DirSource) Read(set, name string) (string, error) {
	content, err := os.ReadFile(filepath.Join(d.Root, set, name))
	if err != nil {
		return "", err
	}
	return string(content), nil
}
