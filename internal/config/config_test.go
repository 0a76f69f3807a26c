package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StrictTypes {
		t.Error("StrictTypes = true, want false by default")
	}
	layout := cfg.ToLayout()
	if layout.ModulesDir != "app/modules" {
		t.Errorf("ModulesDir = %q, want %q", layout.ModulesDir, "app/modules")
	}
	if layout.SharedModelsFile != "app/db/models.py" {
		t.Errorf("SharedModelsFile = %q, want %q", layout.SharedModelsFile, "app/db/models.py")
	}
	if layout.FallbackBanner != "CATALOG" {
		t.Errorf("FallbackBanner = %q, want %q", layout.FallbackBanner, "CATALOG")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `strictTypes: true
layout:
  modulesDir: src/modules
  fallbackBanner: INVENTORY
  moduleAnchors:
    sales: SALES_AND_BILLING
`
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.StrictTypes {
		t.Error("StrictTypes = false, want true")
	}
	layout := cfg.ToLayout()
	if layout.ModulesDir != "src/modules" {
		t.Errorf("ModulesDir = %q, want %q", layout.ModulesDir, "src/modules")
	}
	// Unset keys keep their defaults.
	if layout.SharedImportFile != "app/db/registry.py" {
		t.Errorf("SharedImportFile = %q, want default", layout.SharedImportFile)
	}
	if layout.FallbackBanner != "INVENTORY" {
		t.Errorf("FallbackBanner = %q, want %q", layout.FallbackBanner, "INVENTORY")
	}
	if layout.BannerToken("sales") != "SALES_AND_BILLING" {
		t.Errorf("BannerToken(sales) = %q, want configured anchor", layout.BannerToken("sales"))
	}
	if layout.BannerToken("purchasing") != "PURCHASING" {
		t.Errorf("BannerToken(purchasing) = %q, want derived anchor", layout.BannerToken("purchasing"))
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("layout: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load succeeded on malformed YAML, want error")
	}
}
