package pattern

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/samber/lo"
)

// DefaultMatchTimeout bounds a single match so one pathological spec cannot stall a walk
const DefaultMatchTimeout = 2 * time.Second

// Pattern is a compiled, anchored matcher for absolute slash-separated paths.
// A nil *Pattern means "no pattern"; callers decide what that means for them
// (match nothing for includes, exclude nothing for excludes).
type Pattern struct {
	source string
	re     *regexp2.Regexp
}

// NewPattern compiles an anchored regular expression source
func NewPattern(source string, caseSensitive bool) (*Pattern, error) {
	options := regexp2.None
	if !caseSensitive {
		options = regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(source, options)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", source, err)
	}
	re.MatchTimeout = DefaultMatchTimeout

	return &Pattern{source: source, re: re}, nil
}

// Valid reports whether p holds a compiled pattern
func (p *Pattern) Valid() bool {
	return p != nil
}

// String returns the regular expression source, or "" for a nil pattern
func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// MatchString reports whether path matches. A nil pattern matches nothing and
// a match that fails (timeout) counts as no match.
func (p *Pattern) MatchString(path string) bool {
	if p == nil {
		return false
	}
	ok, err := p.re.MatchString(path)
	return err == nil && ok
}

// Compile compiles every spec for usage and joins them into one anchored
// alternation. Specs that fail to compile are skipped; nil is returned when
// none compiled.
func Compile(specs []string, basePath string, usage Usage, caseSensitive bool) *Pattern {
	subpatterns := lo.FilterMap(specs, func(spec string, _ int) (string, bool) {
		subpattern, err := CompileSpec(spec, basePath, usage)
		return subpattern, err == nil
	})

	if len(subpatterns) == 0 {
		return nil
	}

	pattern, err := NewPattern(anchorAlternation(subpatterns, usage), caseSensitive)
	if err != nil {
		return nil
	}
	return pattern
}

// anchorAlternation wraps each subpattern in its own group. Files and
// directories must match the whole path; exclusions also match everything
// below the excluded path.
func anchorAlternation(subpatterns []string, usage Usage) string {
	alternatives := lo.Map(subpatterns, func(subpattern string, _ int) string {
		return "(" + subpattern + ")"
	})

	terminator := "$"
	if usage == UsageExclude {
		terminator = "($|/)"
	}
	return "^(" + strings.Join(alternatives, "|") + ")" + terminator
}

// anchorSingle anchors one include subpattern for per-include matching
func anchorSingle(subpattern string) string {
	return "^" + subpattern + "$"
}
