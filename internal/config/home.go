package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the filematch home directory
const HomeEnvVar = "FILEMATCH_HOME"

// GetFilematchHome returns the filematch home directory.
// Priority order:
//  1. FILEMATCH_HOME environment variable (if set)
//  2. .filematch under the user's home directory
//  3. .filematch under the current working directory (fallback)
//
// The directory is created if it doesn't exist
func GetFilematchHome() (string, error) {
	if home := os.Getenv(HomeEnvVar); home != "" {
		if err := os.MkdirAll(home, 0755); err != nil {
			return "", fmt.Errorf("create filematch home directory: %w", err)
		}
		return home, nil
	}

	base, err := os.UserHomeDir()
	if err != nil || base == "" {
		base, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	home := filepath.Join(base, ".filematch")
	if err := os.MkdirAll(home, 0755); err != nil {
		return "", fmt.Errorf("create filematch home directory: %w", err)
	}
	return home, nil
}

// GetSnapshotDBPath returns the default snapshot database path: $FILEMATCH_HOME/snapshots.db
func GetSnapshotDBPath() (string, error) {
	home, err := GetFilematchHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "snapshots.db"), nil
}

// ResolveSnapshotDB returns the configured snapshot database, or the default one
func (c *Config) ResolveSnapshotDB() (string, error) {
	if c.SnapshotDB != "" {
		return c.SnapshotDB, nil
	}
	return GetSnapshotDBPath()
}
