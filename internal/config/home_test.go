package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestGetFilematchHomeWithEnvVar tests FILEMATCH_HOME takes precedence
func TestGetFilematchHomeWithEnvVar(t *testing.T) {
	customHome := filepath.Join(t.TempDir(), "custom")
	t.Setenv(HomeEnvVar, customHome)

	home, err := GetFilematchHome()
	if err != nil {
		t.Fatalf("GetFilematchHome() error = %v", err)
	}
	if home != customHome {
		t.Errorf("GetFilematchHome() = %q, want %q", home, customHome)
	}
	if _, err := os.Stat(home); err != nil {
		t.Errorf("home directory not created: %v", err)
	}
}

// TestGetFilematchHomeDefault tests the user home fallback
func TestGetFilematchHomeDefault(t *testing.T) {
	userHome := t.TempDir()
	t.Setenv(HomeEnvVar, "")
	t.Setenv("HOME", userHome)
	t.Setenv("USERPROFILE", userHome)

	home, err := GetFilematchHome()
	if err != nil {
		t.Fatalf("GetFilematchHome() error = %v", err)
	}
	if want := filepath.Join(userHome, ".filematch"); home != want {
		t.Errorf("GetFilematchHome() = %q, want %q", home, want)
	}
}

func TestResolveSnapshotDB(t *testing.T) {
	envHome := t.TempDir()
	t.Setenv(HomeEnvVar, envHome)

	cfg := DefaultConfig()
	path, err := cfg.ResolveSnapshotDB()
	if err != nil {
		t.Fatalf("ResolveSnapshotDB() error = %v", err)
	}
	if want := filepath.Join(envHome, "snapshots.db"); path != want {
		t.Errorf("ResolveSnapshotDB() = %q, want %q", path, want)
	}

	cfg.SnapshotDB = "/explicit/snapshots.db"
	path, err = cfg.ResolveSnapshotDB()
	if err != nil {
		t.Fatalf("ResolveSnapshotDB() error = %v", err)
	}
	if path != "/explicit/snapshots.db" {
		t.Errorf("ResolveSnapshotDB() = %q, want explicit path", path)
	}
}
