// Package pathutil normalizes slash-separated paths and URLs into components.
//
// All paths handled here use "/" as the directory separator regardless of the
// host platform. Backslashes are converted on entry by NormalizeSlashes.
package pathutil

import (
	"strings"
)

// DirectorySeparator is the separator used for every path in this package
const DirectorySeparator = "/"

// Components is a normalized path split into segments.
// Element 0 is the root prefix (e.g. "/", "c:/", "http://host/", or "" for a
// relative path); later elements never contain "." or empty segments.
type Components []string

// Join reassembles the components into a path string
func (c Components) Join() string {
	if len(c) == 0 {
		return ""
	}
	return c[0] + strings.Join(c[1:], DirectorySeparator)
}

// Last returns the final component, or "" for an empty value
func (c Components) Last() string {
	if len(c) == 0 {
		return ""
	}
	return c[len(c)-1]
}

// NormalizeSlashes converts every backslash to a forward slash
func NormalizeSlashes(path string) string {
	return strings.ReplaceAll(path, "\\", DirectorySeparator)
}

// RootLength returns the length of the root prefix of path.
//
//	"/a/b"             -> 1
//	"//server/share/x" -> len("//server/share/")
//	"c:/a"             -> 3
//	"c:a"              -> 2
//	"file:///a"        -> len("file:///")
//	"http://host/a"    -> len("http://")
//	"relative/path"    -> 0
func RootLength(path string) int {
	if strings.HasPrefix(path, DirectorySeparator) {
		if len(path) < 2 || path[1] != '/' {
			return 1
		}
		p1 := strings.Index(path[2:], DirectorySeparator)
		if p1 < 0 {
			return 2
		}
		p1 += 2
		p2 := strings.Index(path[p1+1:], DirectorySeparator)
		if p2 < 0 {
			return p1 + 1
		}
		return p1 + 1 + p2 + 1
	}
	if len(path) > 1 && path[1] == ':' {
		if len(path) > 2 && path[2] == '/' {
			return 3
		}
		return 2
	}
	// file://<host>/<path> with the host omitted keeps the third slash as part of the root
	if strings.HasPrefix(path, "file:///") {
		return len("file:///")
	}
	if idx := strings.Index(path, "://"); idx >= 0 {
		return idx + len("://")
	}
	return 0
}

// diskRootLength applies only the disk rules of RootLength (leading slash and drive letter)
func diskRootLength(path string) int {
	if strings.HasPrefix(path, DirectorySeparator) || (len(path) > 1 && path[1] == ':') {
		return RootLength(path)
	}
	return 0
}

// normalizedParts splits path after its root and resolves "." and ".." segments.
// A ".." that cannot pop a real segment is kept literally.
func normalizedParts(path string, rootLength int) []string {
	var parts []string
	for _, part := range strings.Split(path[rootLength:], DirectorySeparator) {
		switch {
		case part == "" || part == ".":
			continue
		case part == ".." && len(parts) > 0 && parts[len(parts)-1] != "..":
			parts = parts[:len(parts)-1]
		default:
			parts = append(parts, part)
		}
	}
	return parts
}

func componentsAt(path string, rootLength int) Components {
	return append(Components{path[:rootLength]}, normalizedParts(path, rootLength)...)
}

// NormalizePath normalizes slashes and resolves "." and ".." segments.
// A trailing separator on the input is preserved.
func NormalizePath(path string) string {
	path = NormalizeSlashes(path)
	rootLength := RootLength(path)
	root := path[:rootLength]
	parts := normalizedParts(path, rootLength)
	if len(parts) == 0 {
		return root
	}
	joined := root + strings.Join(parts, DirectorySeparator)
	if PathEndsWithSeparator(path) {
		return joined + DirectorySeparator
	}
	return joined
}

// NormalizedComponents returns the components of path, resolving it against
// currentDirectory first when it has no root.
func NormalizedComponents(path, currentDirectory string) Components {
	path = NormalizeSlashes(path)
	rootLength := RootLength(path)
	if rootLength == 0 {
		path = CombinePaths(NormalizeSlashes(currentDirectory), path)
		rootLength = RootLength(path)
	}
	return componentsAt(path, rootLength)
}

// NormalizedAbsolutePath returns path resolved against currentDirectory and normalized
func NormalizedAbsolutePath(path, currentDirectory string) string {
	return NormalizedComponents(path, currentDirectory).Join()
}

// URLComponents returns the components of a URL. The root is the scheme and
// host up to and including the first slash after the host, e.g.
// "http://www.website.com/folder1/folder2" becomes
// ["http://www.website.com/", "folder1", "folder2"].
func URLComponents(url string) Components {
	rootLength := strings.Index(url, "://") + len("://")
	// file:/// carries an extra slash in front of the path
	for rootLength < len(url) && url[rootLength] == '/' {
		rootLength++
	}
	if rootLength >= len(url) {
		return Components{url}
	}

	next := strings.Index(url[rootLength:], DirectorySeparator)
	if next < 0 {
		// Host only: the root must still end in a separator so relative paths can be joined to it
		return Components{url + DirectorySeparator}
	}
	return componentsAt(url, rootLength+next+1)
}

// PathOrURLComponents dispatches to URLComponents or NormalizedComponents
func PathOrURLComponents(pathOrURL, currentDirectory string) Components {
	if IsURL(pathOrURL) {
		return URLComponents(pathOrURL)
	}
	return NormalizedComponents(pathOrURL, currentDirectory)
}

// IsURL reports whether path contains a scheme separator and is not a rooted disk path
func IsURL(path string) bool {
	return path != "" && diskRootLength(NormalizeSlashes(path)) == 0 && strings.Contains(path, "://")
}

// IsRootedDiskPath reports whether path has any root prefix
func IsRootedDiskPath(path string) bool {
	return RootLength(path) != 0
}

// CombinePaths joins path2 onto path1 unless path2 is itself rooted
func CombinePaths(path1, path2 string) string {
	if path1 == "" {
		return path2
	}
	if path2 == "" {
		return path1
	}
	if RootLength(path2) != 0 {
		return path2
	}
	if PathEndsWithSeparator(path1) {
		return path1 + path2
	}
	return path1 + DirectorySeparator + path2
}

// PathEndsWithSeparator reports whether path ends with "/"
func PathEndsWithSeparator(path string) bool {
	return strings.HasSuffix(path, DirectorySeparator)
}

// RemoveTrailingSeparator strips one trailing "/"
func RemoveTrailingSeparator(path string) string {
	return strings.TrimSuffix(path, DirectorySeparator)
}

// EnsureTrailingSeparator appends "/" when path does not already end with one
func EnsureTrailingSeparator(path string) string {
	if PathEndsWithSeparator(path) {
		return path
	}
	return path + DirectorySeparator
}

// DirectoryPath returns path without its final segment, never shorter than its root.
//
//	/path/to/file.ext -> /path/to
func DirectoryPath(path string) string {
	return path[:max(RootLength(path), strings.LastIndex(path, DirectorySeparator))]
}

// BaseFileName returns the final segment of path
func BaseFileName(path string) string {
	return path[strings.LastIndex(path, DirectorySeparator)+1:]
}

// HasExtension reports whether the final segment of path contains a "."
func HasExtension(path string) bool {
	return strings.Contains(BaseFileName(path), ".")
}

// FileExtensionIs reports whether path ends with extension and is longer than it
func FileExtensionIs(path, extension string) bool {
	return len(path) > len(extension) && strings.HasSuffix(path, extension)
}

// FileExtensionIsAny reports whether path ends with any of extensions
func FileExtensionIsAny(path string, extensions []string) bool {
	for _, extension := range extensions {
		if FileExtensionIs(path, extension) {
			return true
		}
	}
	return false
}

// ContainsPath reports whether child is parent or a descendant of it.
// Both paths are resolved against currentDirectory (so "" means the current
// directory itself) and compared component by component with cmp.
func ContainsPath(parent, child, currentDirectory string, cmp Comparer) bool {
	if parent == child {
		return true
	}
	parent = RemoveTrailingSeparator(parent)
	child = RemoveTrailingSeparator(child)
	if parent == child {
		return true
	}

	parentComponents := NormalizedComponents(parent, currentDirectory)
	childComponents := NormalizedComponents(child, currentDirectory)
	if len(childComponents) < len(parentComponents) {
		return false
	}
	for i := range parentComponents {
		if !cmp.Equal(parentComponents[i], childComponents[i]) {
			return false
		}
	}
	return true
}

// ComparePaths orders two paths component by component; shorter paths sort
// first when one is a prefix of the other.
func ComparePaths(a, b, currentDirectory string, cmp Comparer) int {
	if a == b {
		return 0
	}
	aComponents := NormalizedComponents(RemoveTrailingSeparator(a), currentDirectory)
	bComponents := NormalizedComponents(RemoveTrailingSeparator(b), currentDirectory)
	shared := min(len(aComponents), len(bComponents))
	for i := 0; i < shared; i++ {
		if result := cmp.Compare(aComponents[i], bComponents[i]); result != 0 {
			return result
		}
	}
	switch {
	case len(aComponents) < len(bComponents):
		return -1
	case len(aComponents) > len(bComponents):
		return 1
	}
	return 0
}
