package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/filematch/internal/config"
	"github.com/harrison/filematch/internal/logger"
	"github.com/harrison/filematch/internal/snapshot"
)

// addSpecFlags registers the flags shared by every command that compiles specs
func addSpecFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("include", "i", nil, "Glob spec selecting files (repeatable)")
	cmd.Flags().StringArrayP("exclude", "x", nil, "Glob spec removing paths and their subtrees (repeatable)")
	cmd.Flags().StringArray("ext", nil, "Only keep files with this extension, e.g. .ts (repeatable)")
	cmd.Flags().Bool("case-sensitive", false, "Match case-sensitively (default depends on the host)")
	cmd.Flags().String("config", "", "Path to config file (default: nearest filematch.yaml)")
}

// loadConfig loads the config file named by --config, or the nearest one above
// the working directory, and applies every flag given on the command line.
// A positional root argument overrides the configured root.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := config.FindConfigFile(".")
		if err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		configPath = found
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		cfg = loaded
	}

	overrides := flagOverrides(cmd)
	if len(args) > 0 {
		overrides.Root = &args[0]
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// flagOverrides collects the flags that were set explicitly. Flags a command
// does not define are never reported as changed.
func flagOverrides(cmd *cobra.Command) config.FlagOverrides {
	return config.FlagOverrides{
		Include:       stringArrayFlag(cmd, "include"),
		Exclude:       stringArrayFlag(cmd, "exclude"),
		Extensions:    stringArrayFlag(cmd, "ext"),
		CaseSensitive: boolFlag(cmd, "case-sensitive"),
		LogLevel:      stringFlag(cmd, "log-level"),
		LogDir:        stringFlag(cmd, "log-dir"),
		Format:        stringFlag(cmd, "format"),
		Output:        stringFlag(cmd, "output"),
		SnapshotDB:    stringFlag(cmd, "db"),
	}
}

func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetString(name)
	return &value
}

func stringArrayFlag(cmd *cobra.Command, name string) *[]string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetStringArray(name)
	return &value
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	value, _ := cmd.Flags().GetBool(name)
	return &value
}

// newLogger builds the console logger on stderr plus a file logger when a log
// directory is configured. The returned func closes the file logger.
func newLogger(cmd *cobra.Command, cfg *config.Config) (logger.Logger, func(), error) {
	consoleLog := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if cfg.LogDir == "" {
		return consoleLog, func() {}, nil
	}

	fileLog, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	return logger.NewMultiLogger(consoleLog, fileLog), func() { fileLog.Close() }, nil
}

// openStore opens the snapshot database configured by --db, the config file or
// the filematch home, in that order.
func openStore(cfg *config.Config) (*snapshot.Store, error) {
	dbPath, err := cfg.ResolveSnapshotDB()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve snapshot database: %w", err)
	}

	store, err := snapshot.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return store, nil
}

// slashPath converts a command line path to the slash-separated form the
// matcher works with.
func slashPath(path string) string {
	return filepath.ToSlash(path)
}

// absolutePath resolves path against the working directory
func absolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return slashPath(abs), nil
}

func workingDirectory() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return slashPath(cwd), nil
}
