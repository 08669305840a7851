package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harrison/filematch/internal/fileutil"
)

// Lister answers directory listings from a stored snapshot instead of the filesystem
type Lister struct {
	db *sql.DB
	id string
}

// Lister returns a fileutil.Lister backed by snapshot id
func (s *Store) Lister(ctx context.Context, id string) (*Lister, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return &Lister{db: s.db, id: id}, nil
}

var _ fileutil.Lister = (*Lister)(nil)

// ListDirectory returns the entries recorded for path. A directory the
// snapshot never listed yields an error wrapping ErrNotFound.
func (l *Lister) ListDirectory(path string) (fileutil.Entries, error) {
	key := directoryKey(path)

	var count int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM snapshot_directories WHERE snapshot_id = ? AND path = ?`, l.id, key).Scan(&count)
	if err != nil {
		return fileutil.Entries{}, fmt.Errorf("check directory %s: %w", key, err)
	}
	if count == 0 {
		return fileutil.Entries{}, fmt.Errorf("directory %s in snapshot %s: %w", key, l.id, ErrNotFound)
	}

	rows, err := l.db.Query(`SELECT name, is_dir FROM snapshot_entries WHERE snapshot_id = ? AND directory = ?`, l.id, key)
	if err != nil {
		return fileutil.Entries{}, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := fileutil.Entries{Files: make([]string, 0), Directories: make([]string, 0)}
	for rows.Next() {
		var name string
		var isDir bool
		if err := rows.Scan(&name, &isDir); err != nil {
			return fileutil.Entries{}, fmt.Errorf("scan entry: %w", err)
		}
		if isDir {
			entries.Directories = append(entries.Directories, name)
		} else {
			entries.Files = append(entries.Files, name)
		}
	}
	if err := rows.Err(); err != nil {
		return fileutil.Entries{}, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
