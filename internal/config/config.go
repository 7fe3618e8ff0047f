package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vango-dev/vcommit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vcommit.json"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"

	// DefaultScenarios is the default scenario directory.
	DefaultScenarios = "scenarios"

	// DefaultArchive is the default journal archive location.
	DefaultArchive = "journals"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "vcommit"
)

// Config represents the complete vcommit.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Scenario contains scenario replay configuration.
	Scenario ScenarioConfig `json:"scenario,omitempty"`

	// Inspect contains inspector server configuration.
	Inspect InspectConfig `json:"inspect,omitempty"`

	// Archive contains journal archive configuration.
	Archive ArchiveConfig `json:"archive,omitempty"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// ScenarioConfig contains scenario replay settings.
type ScenarioConfig struct {
	// Dir is the directory scenario files are resolved against.
	Dir string `json:"dir,omitempty"`

	// Document is an optional HTML file used as the base document.
	Document string `json:"document,omitempty"`

	// Container is the id of the element trees mount into.
	// Empty means the document body.
	Container string `json:"container,omitempty"`
}

// InspectConfig contains inspector server settings.
type InspectConfig struct {
	// Port is the port to serve on.
	Port int `json:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty"`
}

// ArchiveConfig contains journal archive settings.
type ArchiveConfig struct {
	// Location is a directory or an s3://bucket/prefix URL.
	Location string `json:"location,omitempty"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Disabled turns off the /metrics endpoint and pass metrics.
	Disabled bool `json:"disabled,omitempty"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Scenario: ScenarioConfig{
			Dir: DefaultScenarios,
		},
		Inspect: InspectConfig{
			Port: DefaultPort,
			Host: DefaultHost,
		},
		Archive: ArchiveConfig{
			Location: DefaultArchive,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vcommit.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E182").
				WithDetail("No vcommit.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vcommit.json or pass --config")
		}
		return nil, errors.New("E180").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E180").
			WithDetail("Failed to parse vcommit.json: " + err.Error()).
			WithSuggestion("Check that vcommit.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E180").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E180").Wrap(err)
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Scenario.Dir == "" {
		c.Scenario.Dir = DefaultScenarios
	}
	if c.Inspect.Port == 0 {
		c.Inspect.Port = DefaultPort
	}
	if c.Inspect.Host == "" {
		c.Inspect.Host = DefaultHost
	}
	if c.Archive.Location == "" {
		c.Archive.Location = DefaultArchive
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspect.Port < 0 || c.Inspect.Port > 65535 {
		return errors.New("E181").
			WithDetail("inspect.port must be between 0 and 65535")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E181").
			WithDetail("log.level must be one of debug, info, warn, error; got " + strconv.Quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.New("E181").
			WithDetail("log.format must be text or json; got " + strconv.Quote(c.Log.Format))
	}
	if loc := c.Archive.Location; strings.HasPrefix(loc, "s3://") {
		if bucket, _, _ := strings.Cut(strings.TrimPrefix(loc, "s3://"), "/"); bucket == "" {
			return errors.New("E191").
				WithDetail("archive.location " + strconv.Quote(loc) + " names no bucket")
		}
	}
	return nil
}

// LogLevel returns the configured slog level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// InspectAddress returns the address string for the inspector server.
func (c *Config) InspectAddress() string {
	return c.Inspect.Host + ":" + strconv.Itoa(c.Inspect.Port)
}

// ScenarioPath resolves a scenario file name against the scenario
// directory. Absolute paths and paths that exist as given are returned as is.
func (c *Config) ScenarioPath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return c.resolve(filepath.Join(c.Scenario.Dir, name))
}

// IsPattern reports whether name is a scenario glob rather than a file name.
func IsPattern(name string) bool {
	return strings.ContainsAny(name, "*?[{")
}

// MatchScenarios expands a glob such as "**/*.yaml" against the scenario
// directory. Matches are sorted; doublestar syntax is supported.
func (c *Config) MatchScenarios(pattern string) ([]string, error) {
	dir := c.resolve(c.Scenario.Dir)
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.New("E201").WithNode(pattern).WithDetail("The pattern is malformed.")
	}
	matches, err := doublestar.Glob(os.DirFS(dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.New("E201").WithNode(pattern).Wrap(err)
	}
	if len(matches) == 0 {
		return nil, errors.New("E201").WithNode(pattern)
	}
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(m))
	}
	sort.Strings(paths)
	return paths, nil
}

// DocumentPath returns the absolute path to the base document, or "" if
// none is configured.
func (c *Config) DocumentPath() string {
	if c.Scenario.Document == "" {
		return ""
	}
	return c.resolve(c.Scenario.Document)
}

// ArchiveLocation returns the archive location. Directory locations are
// resolved against the config directory.
func (c *Config) ArchiveLocation() string {
	if strings.HasPrefix(c.Archive.Location, "s3://") {
		return c.Archive.Location
	}
	return c.resolve(c.Archive.Location)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vcommit.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E182").
				WithDetail("No vcommit.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory,
// falling back to defaults when no vcommit.json is found.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		if errors.Code(err) == "E182" {
			cfg := New()
			cfg.configPath = filepath.Join(wd, ConfigFileName)
			return cfg, nil
		}
		return nil, err
	}
	return Load(root)
}
