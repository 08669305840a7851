package fileutil

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/harrison/filematch/internal/pathutil"
	"github.com/harrison/filematch/internal/pattern"
)

// MatchOptions configures a single MatchFiles call
type MatchOptions struct {
	// Path is the root directory; results keep its rooted-ness
	Path string
	// Extensions restricts matches to these suffixes (e.g. ".ts"). A nil or
	// empty slice means no filter, not "match nothing". A missing leading dot
	// is added, and when CaseSensitive is false extensions compare
	// case-insensitively.
	Extensions []string
	// Excludes are glob specs removing paths and their subtrees
	Excludes []string
	// Includes are glob specs selecting files; empty selects everything not excluded
	Includes []string
	// CaseSensitive selects ordinal comparison and case-sensitive patterns
	CaseSensitive bool
	// CurrentDirectory resolves a relative Path for pattern matching
	CurrentDirectory string
}

// Result contains the files selected by a MatchFiles call
type Result struct {
	// Buckets has one list per include spec in declaration order, or a single
	// list when no include specs were given
	Buckets [][]string
	// Invalid lists specs that compiled to no pattern
	Invalid []pattern.InvalidSpec
	// BasePaths lists the directories that were walked
	BasePaths []string
}

// Files flattens the buckets in include declaration order
func (r *Result) Files() []string {
	return lo.Flatten(r.Buckets)
}

// MatchFiles compiles the specs in opts and walks the base paths with lister.
// Any listing error aborts the walk and is returned.
func MatchFiles(opts MatchOptions, lister Lister) (*Result, error) {
	path := pathutil.NormalizePath(opts.Path)
	currentDirectory := pathutil.NormalizePath(opts.CurrentDirectory)

	set := pattern.Build(path, opts.Excludes, opts.Includes, opts.CaseSensitive, currentDirectory)

	buckets, err := Walk(set, opts.Extensions, currentDirectory, lister)
	if err != nil {
		return nil, err
	}

	return &Result{
		Buckets:   buckets,
		Invalid:   set.Invalid,
		BasePaths: set.BasePaths,
	}, nil
}

// Walk visits every base path of set and returns the matched files bucketed
// by the first include pattern they match.
func Walk(set *pattern.Set, extensions []string, currentDirectory string, lister Lister) ([][]string, error) {
	w := &walker{
		set:        set,
		extensions: normalizeExtensions(extensions, !set.Comparer.CaseSensitive()),
		lister:     lister,
	}
	if set.HasIncludes() {
		w.buckets = make([][]string, len(set.IncludeFiles))
	} else {
		w.buckets = make([][]string, 1)
	}
	for i := range w.buckets {
		w.buckets[i] = make([]string, 0)
	}

	for _, basePath := range set.BasePaths {
		if err := w.visit(basePath, pathutil.CombinePaths(currentDirectory, basePath)); err != nil {
			return nil, err
		}
	}

	return w.buckets, nil
}

type walker struct {
	set        *pattern.Set
	extensions []string
	lister     Lister
	buckets    [][]string
}

// visit lists path, files first, then recurses into directories the include
// and exclude patterns allow. absolutePath is what patterns are tested against;
// path is what gets reported.
func (w *walker) visit(path, absolutePath string) error {
	entries, err := w.lister.ListDirectory(path)
	if err != nil {
		return fmt.Errorf("list directory %s: %w", path, err)
	}

	// Listing order from the filesystem is not trusted
	files := slices.Clone(entries.Files)
	directories := slices.Clone(entries.Directories)
	pathutil.Sort(files, w.set.Comparer)
	pathutil.Sort(directories, w.set.Comparer)

	for _, current := range files {
		name := pathutil.CombinePaths(path, current)
		absoluteName := pathutil.CombinePaths(absolutePath, current)

		if !w.matchesExtension(name) {
			continue
		}
		if w.set.Exclude != nil && w.set.Exclude.MatchString(absoluteName) {
			continue
		}

		if !w.set.HasIncludes() {
			w.buckets[0] = append(w.buckets[0], name)
			continue
		}

		// First matching include wins, in declaration order
		_, index, found := lo.FindIndexOf(w.set.IncludeFiles, func(p *pattern.Pattern) bool {
			return p != nil && p.MatchString(absoluteName)
		})
		if found {
			w.buckets[index] = append(w.buckets[index], name)
		}
	}

	for _, current := range directories {
		name := pathutil.CombinePaths(path, current)
		absoluteName := pathutil.CombinePaths(absolutePath, current)

		if w.set.IncludeDirectory != nil && !w.set.IncludeDirectory.MatchString(absoluteName) {
			continue
		}
		if w.set.Exclude != nil && w.set.Exclude.MatchString(absoluteName) {
			continue
		}
		if err := w.visit(name, absoluteName); err != nil {
			return err
		}
	}

	return nil
}

// matchesExtension applies the extension filter, case-insensitively when the
// comparer is case-insensitive
func (w *walker) matchesExtension(name string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	if !w.set.Comparer.CaseSensitive() {
		name = strings.ToLower(name)
	}
	return pathutil.FileExtensionIsAny(name, w.extensions)
}

// normalizeExtensions ensures every extension starts with a dot, lowering
// them for case-insensitive matching
func normalizeExtensions(extensions []string, lower bool) []string {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if lower {
			ext = strings.ToLower(ext)
		}
		normalized = append(normalized, ext)
	}
	return normalized
}
