package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vcommit/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Inspect.Port != DefaultPort {
		t.Errorf("Inspect.Port = %d, want %d", cfg.Inspect.Port, DefaultPort)
	}
	if cfg.Inspect.Host != DefaultHost {
		t.Errorf("Inspect.Host = %q, want %q", cfg.Inspect.Host, DefaultHost)
	}
	if cfg.Archive.Location != DefaultArchive {
		t.Errorf("Archive.Location = %q, want %q", cfg.Archive.Location, DefaultArchive)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(tmpDir)
	if errors.Code(err) != "E182" {
		t.Errorf("Load() on empty dir error = %v, want E182", err)
	}

	configJSON := `{
  "name": "demo",
  "log": {"level": "debug", "format": "json"},
  "scenario": {"document": "shell.html", "container": "app"},
  "inspect": {"port": 8080, "host": "0.0.0.0"},
  "archive": {"location": "s3://journals/demo", "region": "eu-west-1"}
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "demo" {
		t.Errorf("Name = %q, want %q", cfg.Name, "demo")
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %v, want %v", cfg.LogLevel(), slog.LevelDebug)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
	if cfg.InspectAddress() != "0.0.0.0:8080" {
		t.Errorf("InspectAddress() = %q, want %q", cfg.InspectAddress(), "0.0.0.0:8080")
	}
	if cfg.Scenario.Container != "app" {
		t.Errorf("Scenario.Container = %q, want %q", cfg.Scenario.Container, "app")
	}
	if got, want := cfg.DocumentPath(), filepath.Join(tmpDir, "shell.html"); got != want {
		t.Errorf("DocumentPath() = %q, want %q", got, want)
	}
	if got := cfg.ArchiveLocation(); got != "s3://journals/demo" {
		t.Errorf("ArchiveLocation() = %q, want %q", got, "s3://journals/demo")
	}
	if cfg.Archive.Region != "eu-west-1" {
		t.Errorf("Archive.Region = %q, want %q", cfg.Archive.Region, "eu-west-1")
	}

	// Defaults fill what the file leaves out.
	if cfg.Scenario.Dir != DefaultScenarios {
		t.Errorf("Scenario.Dir = %q, want %q", cfg.Scenario.Dir, DefaultScenarios)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultNamespace)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(configPath, []byte("not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFile(configPath)
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E180") {
		t.Errorf("Expected E180 error, got: %v", err)
	}
}

func TestSave(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ConfigFileName)

	cfg := New()
	cfg.Inspect.Port = 9000
	cfg.Name = "saved"

	if err := cfg.Save(); err == nil {
		t.Error("Expected error when saving without path")
	}
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Inspect.Port != 9000 {
		t.Errorf("Inspect.Port = %d, want %d", loaded.Inspect.Port, 9000)
	}
	if loaded.Name != "saved" {
		t.Errorf("Name = %q, want %q", loaded.Name, "saved")
	}

	loaded.Inspect.Port = 9001
	if err := loaded.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	reloaded, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if reloaded.Inspect.Port != 9001 {
		t.Errorf("Inspect.Port = %d, want %d", reloaded.Inspect.Port, 9001)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		code   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative_port", func(c *Config) { c.Inspect.Port = -1 }, "E181"},
		{"port_too_large", func(c *Config) { c.Inspect.Port = 70000 }, "E181"},
		{"bad_level", func(c *Config) { c.Log.Level = "loud" }, "E181"},
		{"warning_alias", func(c *Config) { c.Log.Level = "WARNING" }, ""},
		{"bad_format", func(c *Config) { c.Log.Format = "xml" }, "E181"},
		{"s3_without_bucket", func(c *Config) { c.Archive.Location = "s3:///prefix" }, "E191"},
		{"s3_bucket_only", func(c *Config) { c.Archive.Location = "s3://bucket" }, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.modify(cfg)
			if got := errors.Code(cfg.Validate()); got != tc.code {
				t.Errorf("Validate() code = %q, want %q", got, tc.code)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	if err := cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	if got := cfg.ArchiveLocation(); got != filepath.Join(tmpDir, DefaultArchive) {
		t.Errorf("ArchiveLocation = %q, want %q", got, filepath.Join(tmpDir, DefaultArchive))
	}
	if got := cfg.ScenarioPath("list.yaml"); got != filepath.Join(tmpDir, DefaultScenarios, "list.yaml") {
		t.Errorf("ScenarioPath = %q, want %q", got, filepath.Join(tmpDir, DefaultScenarios, "list.yaml"))
	}
	if got := cfg.ScenarioPath("/abs/list.yaml"); got != "/abs/list.yaml" {
		t.Errorf("ScenarioPath absolute = %q, want %q", got, "/abs/list.yaml")
	}
	if got := cfg.DocumentPath(); got != "" {
		t.Errorf("DocumentPath = %q, want empty", got)
	}

	cfg.Archive.Location = "/absolute/path"
	if got := cfg.ArchiveLocation(); got != "/absolute/path" {
		t.Errorf("ArchiveLocation absolute = %q, want %q", got, "/absolute/path")
	}
}

func TestMatchScenarios(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := New()
	if err := cfg.SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(tmpDir, DefaultScenarios)
	for _, name := range []string{"b.yaml", "a.yaml", "nested/c.yaml", "nested/d.json"} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("passes: []"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		pattern string
		want    []string
		code    string
	}{
		{"*.yaml", []string{"a.yaml", "b.yaml"}, ""},
		{"**/*.yaml", []string{"a.yaml", "b.yaml", "nested/c.yaml"}, ""},
		{"nested/*.{json,yaml}", []string{"nested/c.yaml", "nested/d.json"}, ""},
		{"*.toml", nil, "E201"},
		{"[", nil, "E201"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := cfg.MatchScenarios(tt.pattern)
			if tt.code != "" {
				if code := errors.Code(err); code != tt.code {
					t.Errorf("MatchScenarios(%q) code = %q, want %q", tt.pattern, code, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("MatchScenarios(%q) error = %v", tt.pattern, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("MatchScenarios(%q) = %v, want %v", tt.pattern, got, tt.want)
			}
			for i, w := range tt.want {
				if want := filepath.Join(dir, filepath.FromSlash(w)); got[i] != want {
					t.Errorf("match[%d] = %q, want %q", i, got[i], want)
				}
			}
		})
	}
}

func TestIsPattern(t *testing.T) {
	for name, want := range map[string]bool{
		"list.yaml":    false,
		"*.yaml":       true,
		"a/{b,c}.yaml": true,
		"x?.json":      true,
	} {
		if got := IsPattern(name); got != want {
			t.Errorf("IsPattern(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := New().SaveTo(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(tmpDir)
	if root != want {
		t.Errorf("FindProjectRoot = %q, want %q", root, want)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should be true")
	}
	if Exists(nested) {
		t.Error("Exists should be false for nested dir")
	}
}
