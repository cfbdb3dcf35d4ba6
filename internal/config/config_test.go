package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lumen-dev/lumen/internal/errors"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadJSON(t *testing.T) {
	dir := writeConfig(t, "lumen.json", `{
		"name": "demo",
		"port": 8080,
		"dev": {"liveReload": true, "watch": ["pages"]},
		"preload": ["/", "/about"]
	}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want inherited 8080", cfg.Dev.Port)
	}
	if len(cfg.Preload) != 2 || cfg.Preload[1] != "/about" {
		t.Errorf("Preload = %v", cfg.Preload)
	}
}

func TestLoadDevPortInheritance(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		port    int
		devPort int
	}{
		{"inherits top-level port", `{"port": 8080}`, 8080, 8080},
		{"explicit dev port wins", `{"port": 8080, "dev": {"port": 4000}}`, 8080, 4000},
		{"defaults when both unset", `{"name": "x"}`, DefaultPort, DefaultPort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, "lumen.json", tt.json)
			cfg, err := Load(dir)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.Port != tt.port {
				t.Errorf("Port = %d, want %d", cfg.Port, tt.port)
			}
			if cfg.Dev.Port != tt.devPort {
				t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, tt.devPort)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	dir := writeConfig(t, "lumen.yaml", `
name: demo-yaml
port: 4000
store:
  backend: sqlite
  path: state.db
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "demo-yaml" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "state.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoadPrefersJSONOverYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "lumen.json"), []byte(`{"name": "json"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lumen.yaml"), []byte("name: yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "json" {
		t.Errorf("Name = %q, lumen.json must win", cfg.Name)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := writeConfig(t, "lumen.json", `{not json`)
	if _, err := Load(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LUMEN_PORT", "9999")
	t.Setenv("LUMEN_STORE_BACKEND", "sqlite")
	t.Setenv("LUMEN_STORE_PATH", "/tmp/state.db")

	dir := writeConfig(t, "lumen.json", `{"port": 3000}`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9999 {
		t.Errorf("Port = %d, env must override file", cfg.Port)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
}

func TestValidateStoreBackend(t *testing.T) {
	dir := writeConfig(t, "lumen.json", `{"store": {"backend": "redis"}}`)
	_, err := Load(dir)
	if !errors.Is(err, errors.CodeConfigInvalid) {
		t.Errorf("err = %v, want config-invalid error", err)
	}
}

func TestValidateSQLiteRequiresPath(t *testing.T) {
	dir := writeConfig(t, "lumen.json", `{"store": {"backend": "sqlite"}}`)
	if _, err := Load(dir); err == nil {
		t.Error("expected error for sqlite backend without path")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := writeConfig(t, "lumen.json", `{"name": "x"}`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if found != root {
		t.Errorf("root = %q, want %q", found, root)
	}
}

func TestFindProjectRootMissing(t *testing.T) {
	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("expected error when no config exists")
	}
}

func TestPathsResolveAgainstConfigDir(t *testing.T) {
	dir := writeConfig(t, "lumen.json", `{"pages": "site/pages"}`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "site", "pages")
	if cfg.PagesPath() != want {
		t.Errorf("PagesPath = %q, want %q", cfg.PagesPath(), want)
	}
}

func TestDevAddress(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "0.0.0.0"
	cfg.Dev.Port = 8080
	if cfg.DevAddress() != "0.0.0.0:8080" {
		t.Errorf("DevAddress = %q", cfg.DevAddress())
	}
	if cfg.DevURL() != "http://0.0.0.0:8080" {
		t.Errorf("DevURL = %q", cfg.DevURL())
	}
}
