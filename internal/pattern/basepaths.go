package pattern

import (
	"strings"

	"github.com/samber/lo"

	"github.com/harrison/filematch/internal/pathutil"
)

// BasePaths computes the minimal set of literal directories covering every
// include spec. path is always the first entry; an include's literal prefix
// is only added when no accepted base path already contains it, so no
// directory is walked twice.
func BasePaths(path string, includes []string, cmp pathutil.Comparer) []string {
	basePaths := []string{path}
	if len(includes) == 0 {
		return basePaths
	}

	includeBasePaths := make([]string, 0, len(includes))
	for _, include := range includes {
		// Relative includes may escape path (e.g. "../other"), so resolve them first
		absolute := include
		if !pathutil.IsRootedDiskPath(include) {
			absolute = pathutil.NormalizePath(pathutil.CombinePaths(path, include))
		}
		includeBasePaths = append(includeBasePaths, IncludeBasePath(absolute))
	}

	pathutil.Sort(includeBasePaths, cmp)

	for _, candidate := range includeBasePaths {
		covered := lo.SomeBy(basePaths, func(basePath string) bool {
			return pathutil.ContainsPath(basePath, candidate, path, cmp)
		})
		if !covered {
			basePaths = append(basePaths, candidate)
		}
	}

	return basePaths
}

// IncludeBasePath returns the literal directory prefix of an absolute include:
// everything before the segment holding the first wildcard, the containing
// directory of a wildcard-free file spec, or the spec itself for a bare directory.
func IncludeBasePath(absolute string) string {
	wildcardOffset := strings.IndexAny(absolute, "*?")
	if wildcardOffset < 0 {
		if !pathutil.HasExtension(absolute) {
			return absolute
		}
		return pathutil.RemoveTrailingSeparator(pathutil.DirectoryPath(absolute))
	}

	separator := strings.LastIndex(absolute[:wildcardOffset], pathutil.DirectorySeparator)
	if separator < 0 {
		return ""
	}
	return absolute[:separator]
}
