// Package config loads the generator configuration for a target project.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/example/slicegen/internal/scaffold"
)

// FileName is the optional per-project configuration file.
const FileName = ".slicegen.yaml"

// Config is the generator configuration. Everything has a default, so a
// project without a config file gets the conventional layout.
type Config struct {
	// StrictTypes rejects unknown field DSL types instead of defaulting
	// them to the string family.
	StrictTypes bool `mapstructure:"strictTypes"`

	// TemplateRoot points at an on-disk template directory that
	// overrides the embedded sets. Empty means embedded.
	TemplateRoot string `mapstructure:"templateRoot"`

	Layout LayoutConfig `mapstructure:"layout"`
}

// LayoutConfig is the declarative layout descriptor: where slices go and
// which anchors the merge engine expects per module.
type LayoutConfig struct {
	ModulesDir       string            `mapstructure:"modulesDir"`
	SharedModelsFile string            `mapstructure:"sharedModelsFile"`
	SharedImportFile string            `mapstructure:"sharedImportFile"`
	ImportOpening    string            `mapstructure:"importOpening"`
	RegistrationsDir string            `mapstructure:"registrationsDir"`
	ModuleAnchors    map[string]string `mapstructure:"moduleAnchors"`
	FallbackBanner   string            `mapstructure:"fallbackBanner"`
}

// Load reads .slicegen.yaml from the project root. A missing file is not
// an error: the built-in defaults apply.
func Load(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path := filepath.Join(projectRoot, FileName)
	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := scaffold.DefaultLayout()
	v.SetDefault("strictTypes", false)
	v.SetDefault("templateRoot", "")
	v.SetDefault("layout.modulesDir", def.ModulesDir)
	v.SetDefault("layout.sharedModelsFile", def.SharedModelsFile)
	v.SetDefault("layout.sharedImportFile", def.SharedImportFile)
	v.SetDefault("layout.importOpening", def.ImportOpening)
	v.SetDefault("layout.registrationsDir", def.RegistrationsDir)
	v.SetDefault("layout.fallbackBanner", def.FallbackBanner)
}

// ToLayout converts the descriptor into the merge engine's layout.
func (c *Config) ToLayout() scaffold.Layout {
	anchors := c.Layout.ModuleAnchors
	if anchors == nil {
		anchors = map[string]string{}
	}
	return scaffold.Layout{
		ModulesDir:       c.Layout.ModulesDir,
		SharedModelsFile: c.Layout.SharedModelsFile,
		SharedImportFile: c.Layout.SharedImportFile,
		ImportOpening:    c.Layout.ImportOpening,
		RegistrationsDir: c.Layout.RegistrationsDir,
		ModuleAnchors:    anchors,
		FallbackBanner:   c.Layout.FallbackBanner,
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
