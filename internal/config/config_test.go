package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/reactive"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Runtime.MaxEffectIterations != reactive.DefaultMaxEffectIterations {
		t.Errorf("Runtime.MaxEffectIterations = %d", cfg.Runtime.MaxEffectIterations)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	ae, ok := err.(*errors.AnchorError)
	if !ok || ae.Code != "E121" {
		t.Fatalf("expected E121 for missing config, got %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "todo",
  "runtime": {"maxEffectIterations": 10},
  "log": {"level": "debug", "format": "json"},
  "server": {"port": 8080},
  "demo": {"items": ["a", "b"]}
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	want := &Config{
		Name:    "todo",
		Runtime: RuntimeConfig{MaxEffectIterations: 10},
		Log:     LogConfig{Level: "debug", Format: "json"},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        8080,
			MetricsPath: DefaultMetricsPath,
			LivePath:    DefaultLivePath,
		},
		Demo: DemoConfig{Title: DefaultTitle, Items: []string{"a", "b"}},
	}
	if diff := cmp.Diff(want, cfg, cmpopts.IgnoreUnexported(Config{})); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Path() != configPath || cfg.Dir() != tmpDir {
		t.Errorf("Path() = %q, Dir() = %q", cfg.Path(), cfg.Dir())
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if cfg.Address() != "localhost:3000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	ae, ok := err.(*errors.AnchorError)
	if !ok || ae.Code != "E120" {
		t.Errorf("expected E120, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, false},
		{"zero iterations", func(c *Config) { c.Runtime.MaxEffectIterations = 0 }, false},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"relative live path", func(c *Config) { c.Server.LivePath = "live" }, false},
		{"metrics disabled", func(c *Config) { c.Server.MetricsPath = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid {
				ae, ok := err.(*errors.AnchorError)
				if !ok || ae.Code != "E122" {
					t.Errorf("expected E122, got %v", err)
				}
			}
		})
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Name = "saved"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if loaded.Name != "saved" {
		t.Errorf("Name = %q, want saved", loaded.Name)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log = LogConfig{Level: "warn", Format: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "code", "E006")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"code":"E006"`) {
		t.Errorf("expected JSON output, got %s", out)
	}
}

func TestRuntimeOptions(t *testing.T) {
	cfg := New()
	cfg.Runtime.MaxEffectIterations = 7

	rt := reactive.NewRuntime(cfg.RuntimeOptions(cfg.NewLogger(&bytes.Buffer{}))...)
	if rt.MaxEffectIterations() != 7 {
		t.Errorf("MaxEffectIterations() = %d, want 7", rt.MaxEffectIterations())
	}
}
