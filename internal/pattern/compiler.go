// Package pattern compiles include and exclude glob specs into anchored
// regular expressions and computes the literal base directories a walk must
// visit.
//
// Supported glob syntax:
//   - "*" matches any run of characters inside one path segment
//   - "?" matches exactly one character inside one path segment
//   - "**" as a whole segment matches any number of directories (at most once per spec)
//   - a last segment without ".", "*" or "?" is a directory and implicitly means "dir/**/*"
//
// For include specs a leading "*" or "?" never matches a name starting with
// ".", and "**" never descends into such directories. In file mode "*" also
// refuses to match across the ".min.js" suffix.
package pattern

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/harrison/filematch/internal/pathutil"
)

// Usage selects how a spec is compiled
type Usage int

const (
	// UsageFiles compiles specs that select files; the match must cover the whole path
	UsageFiles Usage = iota
	// UsageDirectories compiles specs into a pattern matching every directory
	// that could contain a match, i.e. any ancestor prefix of the glob
	UsageDirectories
	// UsageExclude compiles specs that remove a path and everything beneath it
	UsageExclude
)

// String returns the usage name used in logs and reports
func (u Usage) String() string {
	switch u {
	case UsageFiles:
		return "files"
	case UsageDirectories:
		return "directories"
	case UsageExclude:
		return "exclude"
	default:
		return "unknown"
	}
}

// Errors returned by CompileSpec. Callers treat every one of them as "no pattern".
var (
	ErrEmptySpec                  = errors.New("empty spec")
	ErrTrailingRecursiveWildcard  = errors.New("spec ends in a recursive directory wildcard")
	ErrMultipleRecursiveWildcards = errors.New("spec contains more than one recursive directory wildcard")
)

const (
	// [^./]                  anything up to the first "." of a segment
	// (\.(?!min\.js$))?      a "." unless it starts a trailing ".min.js"
	singleAsteriskFiles = `([^./]|(\.(?!min\.js$))?)*`
	singleAsteriskOther = `[^/]*`
	singleQuestion      = `[^/]`

	doubleAsteriskExclude = `(/.+?)?`
	// include mode never descends into directories starting with "."
	doubleAsteriskInclude = `(/[^/.][^/]*)*?`

	recursiveWildcard = "**"
)

func singleAsterisk(usage Usage) string {
	if usage == UsageFiles {
		return singleAsteriskFiles
	}
	return singleAsteriskOther
}

func doubleAsterisk(usage Usage) string {
	if usage == UsageExclude {
		return doubleAsteriskExclude
	}
	return doubleAsteriskInclude
}

// IsImplicitGlob reports whether the last component of a spec names a bare
// directory that should be read as "component/**/*".
func IsImplicitGlob(lastComponent string) bool {
	return !strings.ContainsAny(lastComponent, ".*?")
}

// CompileSpec compiles one spec into an unanchored regular expression source.
// Relative specs are resolved against basePath, which should be absolute.
func CompileSpec(spec, basePath string, usage Usage) (string, error) {
	if spec == "" {
		return "", ErrEmptySpec
	}

	components := pathutil.NormalizedComponents(spec, basePath)
	lastComponent := components.Last()
	if usage != UsageExclude && lastComponent == recursiveWildcard {
		return "", ErrTrailingRecursiveWildcard
	}

	// The root component carries its own trailing separator; separators are written between components below.
	components[0] = pathutil.RemoveTrailingSeparator(components[0])

	if IsImplicitGlob(lastComponent) {
		components = append(components, recursiveWildcard, "*")
	}

	var subpattern strings.Builder
	hasRecursiveWildcard := false
	hasWrittenComponent := false
	optionalCount := 0

	for _, component := range components {
		if component == recursiveWildcard {
			if hasRecursiveWildcard {
				return "", ErrMultipleRecursiveWildcards
			}
			subpattern.WriteString(doubleAsterisk(usage))
			hasRecursiveWildcard = true
		} else {
			if usage == UsageDirectories {
				subpattern.WriteString("(")
				optionalCount++
			}

			if hasWrittenComponent {
				subpattern.WriteString(pathutil.DirectorySeparator)
			}

			if usage != UsageExclude {
				// Dotted names can still be included explicitly, e.g. "**/.*/.*"
				switch {
				case strings.HasPrefix(component, "*"):
					subpattern.WriteString("([^./]" + singleAsterisk(usage) + ")?")
					component = component[1:]
				case strings.HasPrefix(component, "?"):
					subpattern.WriteString("[^./]")
					component = component[1:]
				}
			}

			writeComponent(&subpattern, component, usage)
		}

		hasWrittenComponent = true
	}

	subpattern.WriteString(strings.Repeat(")?", optionalCount))

	return subpattern.String(), nil
}

// writeComponent escapes a literal segment, expanding "*" and "?"
func writeComponent(b *strings.Builder, component string, usage Usage) {
	for _, r := range component {
		switch {
		case r == '*':
			b.WriteString(singleAsterisk(usage))
		case r == '?':
			b.WriteString(singleQuestion)
		case isReserved(r):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
}

// isReserved reports ASCII characters other than word characters, whitespace and "/"
func isReserved(r rune) bool {
	if r >= utf8.RuneSelf {
		return false
	}
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return false
	case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
		return false
	case r == '/':
		return false
	}
	return true
}
