// Package fileutil walks directory trees and selects files with glob include
// and exclude specs.
//
// # Purpose
//
// The fileutil package answers "which files belong to this project" for a root
// directory, a list of include specs, a list of exclude specs, an optional
// extension filter and a case-sensitivity policy. Results are bucketed by the
// include spec that selected them, in the order the includes were declared.
//
// # Main Components
//
// MatchOptions - Configuration for one call:
//   - Path: root directory, reported paths keep its rooted-ness
//   - Includes / Excludes: glob specs (see package pattern for syntax)
//   - Extensions: suffix filter such as ".ts" (a missing dot is added)
//   - CaseSensitive: ordinal sorting and case-sensitive patterns when true
//   - CurrentDirectory: resolves a relative Path for pattern matching
//
// Lister - The filesystem capability, ListDirectory(path) returning the
// immediate files and directories of path. FSLister serves any afero.Fs;
// NewOSLister uses the host filesystem. ListerFunc adapts a plain function.
//
// Result - Buckets (one per include, or one when there are no includes),
// the invalid specs that were ignored, and the base paths that were walked.
//
// # Usage Examples
//
// Select TypeScript sources while skipping declaration files:
//
//	result, err := fileutil.MatchFiles(fileutil.MatchOptions{
//	    Path:             "/work/project",
//	    Includes:         []string{"src", "test"},
//	    Excludes:         []string{"**/*.d.ts"},
//	    Extensions:       []string{".ts"},
//	    CaseSensitive:    true,
//	    CurrentDirectory: "/work",
//	}, fileutil.NewOSLister())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, file := range result.Files() {
//	    fmt.Println(file)
//	}
//
// Walk an in-memory tree in tests:
//
//	fs := afero.NewMemMapFs()
//	afero.WriteFile(fs, "/p/src/a.ts", nil, 0644)
//	result, err := fileutil.MatchFiles(fileutil.MatchOptions{Path: "/p"}, fileutil.NewFSLister(fs))
//
// # Traversal Rules
//
// Deterministic Order:
// Files and directories of every listed directory are sorted with the
// comparer of the call before use. The order a Lister returns names in has
// no effect on the result.
//
// First Include Wins:
// A file goes into the bucket of the first include pattern (in declaration
// order) that matches its absolute path. A file matching none is dropped.
//
// Pruning:
// A directory is entered only if the combined include-directory pattern
// matches it (or there are no includes) and the exclude pattern does not.
// Hidden directories are never entered through "*" or "**".
//
// Errors:
// A listing failure is not retried or skipped; it aborts the walk and is
// returned wrapped with the directory path.
package fileutil
