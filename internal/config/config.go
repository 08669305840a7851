package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the project file names looked up in a directory, in order.
// JSON is parsed by the YAML decoder.
var ConfigFileNames = []string{"filematch.yaml", "filematch.yml", "filematch.json"}

// ValidLogLevels lists the accepted log_level values
var ValidLogLevels = []string{"trace", "debug", "info", "warn", "error"}

// ValidFormats lists the accepted report formats
var ValidFormats = []string{"text", "json", "yaml", "markdown", "html"}

var (
	ErrInvalidLogLevel = errors.New("invalid log_level")
	ErrInvalidFormat   = errors.New("invalid format")
)

// Config represents filematch configuration options
type Config struct {
	// Include lists glob specs selecting files; empty selects every file not excluded
	Include []string `yaml:"include"`

	// Exclude lists glob specs removing paths and their subtrees
	Exclude []string `yaml:"exclude"`

	// Extensions restricts matches to these suffixes, e.g. ".ts"
	Extensions []string `yaml:"extensions"`

	// CaseSensitive overrides the host default when set
	CaseSensitive *bool `yaml:"case_sensitive"`

	// Root is the directory to match under
	Root string `yaml:"root"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir enables per-run log files in this directory when non-empty
	LogDir string `yaml:"log_dir"`

	// Format selects the report renderer
	Format string `yaml:"format"`

	// Output writes the report to a file instead of stdout when non-empty
	Output string `yaml:"output"`

	// SnapshotDB is the snapshot database path; empty uses the filematch home
	SnapshotDB string `yaml:"snapshot_db"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Include:    []string{},
		Exclude:    []string{},
		Extensions: []string{},
		Root:       ".",
		LogLevel:   "info",
		Format:     "text",
	}
}

// HostCaseSensitive reports whether file names on this platform are case sensitive by default
func HostCaseSensitive() bool {
	return runtime.GOOS != "windows" && runtime.GOOS != "darwin"
}

// IsCaseSensitive resolves CaseSensitive against the host default
func (c *Config) IsCaseSensitive() bool {
	if c.CaseSensitive != nil {
		return *c.CaseSensitive
	}
	return HostCaseSensitive()
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// Keys present in the file override the defaults; absent keys keep them.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// A relative root, the default "." included, is relative to the file's directory
	if cfg.Root != "" && !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(filepath.Dir(path), cfg.Root)
	}

	return cfg, nil
}

// LoadConfigFromDir loads the first of ConfigFileNames present in dir.
// If none exists, returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadConfig(path)
		}
	}
	return DefaultConfig(), nil
}

// FindConfigFile walks up from start looking for one of ConfigFileNames.
// It returns "" when the filesystem root is reached without a match.
func FindConfigFile(start string) (string, error) {
	current, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", start, err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(current, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// FlagOverrides carries command line values. A nil field was not given on the
// command line and leaves the configured value alone.
type FlagOverrides struct {
	Include       *[]string
	Exclude       *[]string
	Extensions    *[]string
	CaseSensitive *bool
	Root          *string
	LogLevel      *string
	LogDir        *string
	Format        *string
	Output        *string
	SnapshotDB    *string
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(flags FlagOverrides) {
	if flags.Include != nil {
		c.Include = *flags.Include
	}
	if flags.Exclude != nil {
		c.Exclude = *flags.Exclude
	}
	if flags.Extensions != nil {
		c.Extensions = *flags.Extensions
	}
	if flags.CaseSensitive != nil {
		value := *flags.CaseSensitive
		c.CaseSensitive = &value
	}
	if flags.Root != nil {
		c.Root = *flags.Root
	}
	if flags.LogLevel != nil {
		c.LogLevel = *flags.LogLevel
	}
	if flags.LogDir != nil {
		c.LogDir = *flags.LogDir
	}
	if flags.Format != nil {
		c.Format = *flags.Format
	}
	if flags.Output != nil {
		c.Output = *flags.Output
	}
	if flags.SnapshotDB != nil {
		c.SnapshotDB = *flags.SnapshotDB
	}
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if !slices.Contains(ValidLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("%w %q, must be one of: %s", ErrInvalidLogLevel, c.LogLevel, strings.Join(ValidLogLevels, ", "))
	}

	if !slices.Contains(ValidFormats, strings.ToLower(c.Format)) {
		return fmt.Errorf("%w %q, must be one of: %s", ErrInvalidFormat, c.Format, strings.Join(ValidFormats, ", "))
	}

	if c.Root == "" {
		return fmt.Errorf("root cannot be empty")
	}

	return nil
}
