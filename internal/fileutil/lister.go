package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Entries holds the immediate children of one directory, by name
type Entries struct {
	Files       []string `json:"files" yaml:"files"`
	Directories []string `json:"directories" yaml:"directories"`
}

// Lister lists the immediate files and directories of a path.
// Order of the returned names is not significant.
type Lister interface {
	ListDirectory(path string) (Entries, error)
}

// ListerFunc adapts a plain function to the Lister interface
type ListerFunc func(path string) (Entries, error)

// ListDirectory calls f(path)
func (f ListerFunc) ListDirectory(path string) (Entries, error) {
	return f(path)
}

// FSLister lists directories of an afero filesystem
type FSLister struct {
	fs afero.Fs
}

// NewFSLister creates a Lister backed by fs
func NewFSLister(fs afero.Fs) *FSLister {
	return &FSLister{fs: fs}
}

// NewOSLister creates a Lister backed by the host filesystem
func NewOSLister() *FSLister {
	return NewFSLister(afero.NewOsFs())
}

// ListDirectory returns the names of regular files and directories directly
// inside path. Symbolic links are classified by their target; dangling links
// are left out. An empty path is the current directory, which is what a
// relative root such as "." normalizes to.
func (l *FSLister) ListDirectory(path string) (Entries, error) {
	if path == "" {
		path = "."
	}
	dir := filepath.FromSlash(path)
	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return Entries{}, err
	}

	entries := Entries{
		Files:       make([]string, 0, len(infos)),
		Directories: make([]string, 0),
	}
	for _, info := range infos {
		mode := info.Mode()
		if mode&os.ModeSymlink != 0 {
			target, err := l.fs.Stat(filepath.Join(dir, info.Name()))
			if err != nil {
				continue
			}
			mode = target.Mode()
		}

		switch {
		case mode.IsDir():
			entries.Directories = append(entries.Directories, info.Name())
		case mode.IsRegular():
			entries.Files = append(entries.Files, info.Name())
		}
	}

	return entries, nil
}

// IsDirectory reports whether path exists on fs and is a directory
func IsDirectory(fs afero.Fs, path string) (bool, error) {
	ok, err := afero.IsDir(fs, filepath.FromSlash(path))
	if err != nil {
		return false, fmt.Errorf("failed to access directory: %w", err)
	}
	return ok, nil
}
