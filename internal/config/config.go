package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/anchor/internal/errors"
	"github.com/vango-dev/anchor/pkg/reactive"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "anchor.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultLivePath is where the live WebSocket endpoint is served.
	DefaultLivePath = "/live"

	// DefaultTitle is the default demo page title.
	DefaultTitle = "Todos"
)

// Config represents the complete anchor.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Runtime contains reactive runtime settings.
	Runtime RuntimeConfig `json:"runtime,omitempty"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty"`

	// Server contains HTTP server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Demo contains the initial state of the demo application.
	Demo DemoConfig `json:"demo,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RuntimeConfig contains reactive runtime settings.
type RuntimeConfig struct {
	// MaxEffectIterations caps the re-runs of one effect in one cascade.
	MaxEffectIterations int `json:"maxEffectIterations,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// MetricsPath is the Prometheus endpoint path. Empty disables it.
	MetricsPath string `json:"metricsPath,omitempty"`

	// LivePath is the live WebSocket endpoint path.
	LivePath string `json:"livePath,omitempty"`
}

// DemoConfig contains the initial state of the demo application.
type DemoConfig struct {
	// Title is the page heading.
	Title string `json:"title,omitempty"`

	// Items are the initial todo titles.
	Items []string `json:"items,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			MaxEffectIterations: reactive.DefaultMaxEffectIterations,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			MetricsPath: DefaultMetricsPath,
			LivePath:    DefaultLivePath,
		},
		Demo: DemoConfig{
			Title: DefaultTitle,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for anchor.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadOrDefault is Load, returning defaults when no file exists.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		if ae, ok := err.(*errors.AnchorError); ok && ae.Code == "E121" {
			return New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E121").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or run without one to use defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	if c.Runtime.MaxEffectIterations == 0 {
		c.Runtime.MaxEffectIterations = reactive.DefaultMaxEffectIterations
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LivePath == "" {
		c.Server.LivePath = DefaultLivePath
	}
	if c.Demo.Title == "" {
		c.Demo.Title = DefaultTitle
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Runtime.MaxEffectIterations < 1 {
		return errors.New("E122").
			WithDetail("runtime.maxEffectIterations must be at least 1")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E122").
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}
	for _, p := range []string{c.Server.LivePath, c.Server.MetricsPath} {
		if p != "" && !strings.HasPrefix(p, "/") {
			return errors.New("E122").
				WithDetailf("path %q must start with /", p)
		}
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// RuntimeOptions returns the reactive runtime options this config implies.
func (c *Config) RuntimeOptions(logger *slog.Logger) []reactive.Option {
	return []reactive.Option{
		reactive.WithLogger(logger),
		reactive.WithMaxEffectIterations(c.Runtime.MaxEffectIterations),
	}
}

// NewLogger builds the structured logger described by Log, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, errors.New("E122").
			WithDetailf("log.level %q is not one of debug, info, warn, error", s)
	}
	return level, nil
}
