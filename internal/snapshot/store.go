// Package snapshot records directory trees in SQLite so a walk can be replayed
// later against a frozen view of the filesystem.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/filematch/internal/filelock"
	"github.com/harrison/filematch/internal/fileutil"
	"github.com/harrison/filematch/internal/pathutil"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// ErrNotFound is returned for unknown snapshot IDs and for directories a snapshot never listed
var ErrNotFound = errors.New("not found")

// Snapshot describes one recorded tree
type Snapshot struct {
	ID             string    `json:"id" yaml:"id"`
	Root           string    `json:"root" yaml:"root"`
	Label          string    `json:"label,omitempty" yaml:"label,omitempty"`
	FileCount      int       `json:"file_count" yaml:"file_count"`
	DirectoryCount int       `json:"directory_count" yaml:"directory_count"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// Store manages the snapshot database
type Store struct {
	db     *sql.DB
	dbPath string
	lock   *filelock.FileLock
}

// NewStore opens (creating if needed) the database at dbPath and applies migrations
func NewStore(dbPath string) (*Store, error) {
	if dbPath == MemoryPath {
		return openAndInitStore(dbPath)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}

	if dbPath == MemoryPath {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		store.lock = filelock.NewFileLock(filelock.LockPath(dbPath))
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
		}
		for _, pragma := range pragmas {
			if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
				db.Close()
				return nil, fmt.Errorf("set %s: %w", pragma, err)
			}
		}
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database path the store was opened with
func (s *Store) Path() string {
	return s.dbPath
}

// withWriteLock runs fn while holding the cross-process lock of a file-backed store
func (s *Store) withWriteLock(fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	if err := s.lock.Lock(); err != nil {
		return err
	}
	defer s.lock.Unlock()
	return fn()
}

type listedDirectory struct {
	path    string
	entries fileutil.Entries
}

// Create lists root and every directory below it with lister and stores the
// result as a new snapshot. A listing error aborts the snapshot and nothing is stored.
func (s *Store) Create(ctx context.Context, root, label string, lister fileutil.Lister) (*Snapshot, error) {
	root = directoryKey(root)

	var listed []listedDirectory
	fileCount := 0
	queue := []string{root}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		entries, err := lister.ListDirectory(current)
		if err != nil {
			return nil, fmt.Errorf("list directory %s: %w", current, err)
		}
		listed = append(listed, listedDirectory{path: current, entries: entries})
		fileCount += len(entries.Files)

		for _, name := range entries.Directories {
			queue = append(queue, pathutil.CombinePaths(current, name))
		}
	}

	snap := &Snapshot{
		ID:             uuid.NewString(),
		Root:           root,
		Label:          label,
		FileCount:      fileCount,
		DirectoryCount: len(listed),
		CreatedAt:      time.Now().UTC(),
	}

	err := s.withWriteLock(func() error {
		return s.insertSnapshot(ctx, snap, listed)
	})
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Store) insertSnapshot(ctx context.Context, snap *Snapshot, listed []listedDirectory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, root, label, file_count, directory_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.Root, snap.Label, snap.FileCount, snap.DirectoryCount, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	dirStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO snapshot_directories (snapshot_id, path) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare directory insert: %w", err)
	}
	defer dirStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO snapshot_entries (snapshot_id, directory, name, is_dir) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer entryStmt.Close()

	for _, dir := range listed {
		if _, err := dirStmt.ExecContext(ctx, snap.ID, dir.path); err != nil {
			return fmt.Errorf("insert directory %s: %w", dir.path, err)
		}
		for _, name := range dir.entries.Files {
			if _, err := entryStmt.ExecContext(ctx, snap.ID, dir.path, name, false); err != nil {
				return fmt.Errorf("insert entry %s: %w", name, err)
			}
		}
		for _, name := range dir.entries.Directories {
			if _, err := entryStmt.ExecContext(ctx, snap.ID, dir.path, name, true); err != nil {
				return fmt.Errorf("insert entry %s: %w", name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

const snapshotColumns = `id, root, label, file_count, directory_count, created_at`

func scanSnapshot(row interface{ Scan(...any) error }) (*Snapshot, error) {
	snap := &Snapshot{}
	err := row.Scan(&snap.ID, &snap.Root, &snap.Label, &snap.FileCount, &snap.DirectoryCount, &snap.CreatedAt)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// List returns every snapshot, most recent first
func (s *Store) List(ctx context.Context) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Get returns the snapshot with the given ID
func (s *Store) Get(ctx context.Context, id string) (*Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)
	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Directories returns every directory recorded in a snapshot, sorted by path
func (s *Store) Directories(ctx context.Context, id string) ([]string, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT path FROM snapshot_directories WHERE snapshot_id = ? ORDER BY path`, id)
	if err != nil {
		return nil, fmt.Errorf("query directories: %w", err)
	}
	defer rows.Close()

	directories := make([]string, 0)
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan directory: %w", err)
		}
		directories = append(directories, path)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directories: %w", err)
	}
	return directories, nil
}

// Delete removes a snapshot and everything recorded for it
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.withWriteLock(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_entries WHERE snapshot_id = ?`, id); err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_directories WHERE snapshot_id = ?`, id); err != nil {
			return fmt.Errorf("delete directories: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit delete: %w", err)
		}
		return nil
	})
}

// directoryKey normalizes a directory path the same way for recording and lookup
func directoryKey(path string) string {
	path = pathutil.NormalizePath(path)
	if len(path) > pathutil.RootLength(path) {
		path = pathutil.RemoveTrailingSeparator(path)
	}
	return path
}
