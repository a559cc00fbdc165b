package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testConfig struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "conf.yaml", "name: ansuz\nport: 9090\n")

	var cfg testConfig
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "ansuz" || cfg.Port != 9090 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_MissingFileErrors(t *testing.T) {
	var cfg testConfig
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_CONF_NAME", "expanded")
	dir := t.TempDir()
	p := writeConfig(t, dir, "conf.yaml", "name: ${TEST_CONF_NAME}\nport: 1\n")

	var cfg testConfig
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "expanded" {
		t.Errorf("name = %q, want expanded", cfg.Name)
	}
}

func TestLoadLayers_LaterLayerOverrides(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.yaml", "name: global\nport: 8080\ndebug: true\n")
	project := writeConfig(t, dir, "project.yaml", "port: 9999\n")

	cfg := testConfig{Name: "default", Port: 1, Debug: false}
	if err := LoadLayers(&cfg, global, project); err != nil {
		t.Fatalf("LoadLayers: %v", err)
	}

	// Project layer overrides port; keys it omits keep the global values.
	if cfg.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Port)
	}
	if cfg.Name != "global" {
		t.Errorf("name = %q, want global", cfg.Name)
	}
	if !cfg.Debug {
		t.Error("debug should survive from the global layer")
	}
}

func TestLoadLayers_MissingLayersSkipped(t *testing.T) {
	dir := t.TempDir()
	project := writeConfig(t, dir, "project.yaml", "name: project\n")

	cfg := testConfig{Name: "default", Port: 42}
	err := LoadLayers(&cfg, "", filepath.Join(dir, "absent.yaml"), project)
	if err != nil {
		t.Fatalf("LoadLayers: %v", err)
	}
	if cfg.Name != "project" {
		t.Errorf("name = %q, want project", cfg.Name)
	}
	if cfg.Port != 42 {
		t.Errorf("port = %d, want default 42", cfg.Port)
	}
}

func TestLoadLayers_BadYAMLErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeConfig(t, dir, "bad.yaml", "name: [unclosed\n")

	var cfg testConfig
	if err := LoadLayers(&cfg, bad); err == nil {
		t.Fatal("bad yaml should error")
	}
}

func TestGlobalPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")
	got := GlobalPath("ansuz")
	want := filepath.Join("/custom/xdg", "ansuz", "config.yaml")
	if got != want {
		t.Errorf("GlobalPath = %q, want %q", got, want)
	}
}

func TestGlobalPath_HomeFallback(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath("ansuz")
	if got == "" {
		t.Skip("no home directory available")
	}
	if !strings.HasSuffix(got, filepath.Join("ansuz", "config.yaml")) {
		t.Errorf("GlobalPath = %q", got)
	}
}
