package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harrison/filematch/internal/snapshot"
)

func TestSnapshotLifecycle(t *testing.T) {
	root := sampleTree(t)
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	base := append([]string{"--db", dbPath}, noConfig(t)...)

	// create
	stdout, _, err := executeCommand(t, append([]string{"snapshot", "create", root, "--label", "before cleanup"}, base...)...)
	if err != nil {
		t.Fatalf("snapshot create returned error: %v", err)
	}
	if !strings.Contains(stdout, "Created snapshot") || !strings.Contains(stdout, "Files: 5 in 4 directories") {
		t.Errorf("unexpected create output:\n%s", stdout)
	}

	store, err := snapshot.NewStore(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	snapshots, err := store.List(context.Background())
	store.Close()
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("expected 1 snapshot, got %d", len(snapshots))
	}
	id := snapshots[0].ID
	if snapshots[0].Root != filepath.ToSlash(root) {
		t.Errorf("Root = %q, want %q", snapshots[0].Root, filepath.ToSlash(root))
	}

	// list
	stdout, _, err = executeCommand(t, append([]string{"snapshot", "list"}, base...)...)
	if err != nil {
		t.Fatalf("snapshot list returned error: %v", err)
	}
	if !strings.Contains(stdout, id) || !strings.Contains(stdout, "(before cleanup)") {
		t.Errorf("unexpected list output:\n%s", stdout)
	}

	// show
	stdout, _, err = executeCommand(t, append([]string{"snapshot", "show", id}, base...)...)
	if err != nil {
		t.Fatalf("snapshot show returned error: %v", err)
	}
	for _, want := range []string{"=== Snapshot " + id, "Label:       before cleanup", "Directories: 4", filepath.ToSlash(root) + "/src/lib"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in show output:\n%s", want, stdout)
		}
	}

	// match against the snapshot after the tree changed on disk
	if err := os.RemoveAll(filepath.Join(root, "src")); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, err := executeCommand(t, append([]string{"match", "--snapshot", id, "--include", "src/**/*.ts", "--case-sensitive"}, base...)...)
	if err != nil {
		t.Fatalf("match --snapshot returned error: %v", err)
	}
	if stdout != joinLines(root, "src/a.ts", "src/types.d.ts", "src/lib/b.ts") {
		t.Errorf("unexpected match output:\n%s", stdout)
	}
	if !strings.Contains(stderr, "snapshot "+id) {
		t.Errorf("log should name the snapshot source:\n%s", stderr)
	}

	// delete
	stdout, _, err = executeCommand(t, append([]string{"snapshot", "delete", id}, base...)...)
	if err != nil {
		t.Fatalf("snapshot delete returned error: %v", err)
	}
	if !strings.Contains(stdout, "Deleted snapshot "+id) {
		t.Errorf("unexpected delete output:\n%s", stdout)
	}

	_, _, err = executeCommand(t, append([]string{"snapshot", "show", id}, base...)...)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a not found error after delete, got %v", err)
	}
}

func TestSnapshotListEmpty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	args := append([]string{"snapshot", "list", "--db", dbPath}, noConfig(t)...)

	stdout, _, err := executeCommand(t, args...)
	if err != nil {
		t.Fatalf("snapshot list returned error: %v", err)
	}
	if !strings.Contains(stdout, "No snapshots found") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestMatchUnknownSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "snapshots.db")
	args := append([]string{"match", "--snapshot", "nope", "--db", dbPath}, noConfig(t)...)

	_, _, err := executeCommand(t, args...)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected a not found error, got %v", err)
	}
}
