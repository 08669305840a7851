package pattern

import (
	"fmt"

	"github.com/harrison/filematch/internal/pathutil"
)

// SpecKind tells whether an invalid spec came from the include or exclude list
type SpecKind string

const (
	KindInclude SpecKind = "include"
	KindExclude SpecKind = "exclude"
)

// InvalidSpec records a spec that degraded to "no pattern"
type InvalidSpec struct {
	Kind  SpecKind `json:"kind" yaml:"kind"`
	Index int      `json:"index" yaml:"index"`
	Spec  string   `json:"spec" yaml:"spec"`
	Err   error    `json:"-" yaml:"-"`
}

// Reason returns the compile failure as text
func (s InvalidSpec) Reason() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// Set holds everything compiled for one matching call. It is immutable once built.
type Set struct {
	// IncludeFiles has one pattern per include spec, index-aligned with the
	// input. An include that failed to compile keeps a nil slot.
	IncludeFiles []*Pattern
	// IncludeFile matches a file selected by any include spec
	IncludeFile *Pattern
	// IncludeDirectory matches directories that may contain included files
	IncludeDirectory *Pattern
	// Exclude matches excluded paths and everything beneath them
	Exclude *Pattern
	// BasePaths lists the literal directories to walk; BasePaths[0] is the root path
	BasePaths []string
	// Invalid lists specs that compiled to no pattern, in input order
	Invalid []InvalidSpec
	// Comparer is the ordering selected for this call's case-sensitivity policy
	Comparer pathutil.Comparer
}

// HasIncludes reports whether include specs were supplied. Without them every
// file that is not excluded is selected.
func (s *Set) HasIncludes() bool {
	return len(s.IncludeFiles) > 0
}

// Regex is the source of one compiled pattern, labelled for display
type Regex struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
}

// Regexes lists the source of every pattern in s: the combined include file,
// include directory and exclude patterns followed by one entry per include
// spec. An absent pattern has an empty Source.
func (s *Set) Regexes() []Regex {
	regexes := []Regex{
		{Name: "include files", Source: s.IncludeFile.String()},
		{Name: "include directories", Source: s.IncludeDirectory.String()},
		{Name: "exclude", Source: s.Exclude.String()},
	}
	for i, p := range s.IncludeFiles {
		regexes = append(regexes, Regex{Name: fmt.Sprintf("include[%d]", i), Source: p.String()})
	}
	return regexes
}

// Build compiles the include and exclude specs relative to path (itself
// resolved against currentDirectory) and resolves the base paths to walk.
func Build(path string, excludes, includes []string, caseSensitive bool, currentDirectory string) *Set {
	path = pathutil.NormalizePath(path)
	currentDirectory = pathutil.NormalizePath(currentDirectory)
	absolutePath := pathutil.CombinePaths(currentDirectory, path)
	cmp := pathutil.NewComparer(caseSensitive)

	set := &Set{
		IncludeFile:      Compile(includes, absolutePath, UsageFiles, caseSensitive),
		IncludeDirectory: Compile(includes, absolutePath, UsageDirectories, caseSensitive),
		Exclude:          Compile(excludes, absolutePath, UsageExclude, caseSensitive),
		BasePaths:        BasePaths(path, includes, cmp),
		Comparer:         cmp,
	}

	if len(includes) > 0 {
		set.IncludeFiles = make([]*Pattern, len(includes))
	}
	for i, include := range includes {
		subpattern, err := CompileSpec(include, absolutePath, UsageFiles)
		if err == nil {
			set.IncludeFiles[i], err = NewPattern(anchorSingle(subpattern), caseSensitive)
		}
		if err != nil {
			set.Invalid = append(set.Invalid, InvalidSpec{Kind: KindInclude, Index: i, Spec: include, Err: err})
		}
	}

	for i, exclude := range excludes {
		if _, err := CompileSpec(exclude, absolutePath, UsageExclude); err != nil {
			set.Invalid = append(set.Invalid, InvalidSpec{Kind: KindExclude, Index: i, Spec: exclude, Err: err})
		}
	}

	return set
}
