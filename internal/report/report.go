// Package report renders match results as plain file lists or as structured
// documents (JSON, YAML, Markdown, HTML).
package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/harrison/filematch/internal/filelock"
	"github.com/harrison/filematch/internal/fileutil"
	"github.com/harrison/filematch/internal/pattern"
)

// Format selects a renderer
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned by ParseFormat and Render for unsupported formats
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat accepts a format name case-insensitively, plus "md" and "yml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Bucket is the list of files selected by one include spec
type Bucket struct {
	Include string   `json:"include,omitempty" yaml:"include,omitempty"`
	Invalid bool     `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Files   []string `json:"files" yaml:"files"`
}

// InvalidSpec is a spec that was ignored, with the reason as text
type InvalidSpec struct {
	Kind   string `json:"kind" yaml:"kind"`
	Index  int    `json:"index" yaml:"index"`
	Spec   string `json:"spec" yaml:"spec"`
	Reason string `json:"reason" yaml:"reason"`
}

// Report is the renderable outcome of one MatchFiles call
type Report struct {
	Root          string        `json:"root" yaml:"root"`
	Source        string        `json:"source,omitempty" yaml:"source,omitempty"`
	CaseSensitive bool          `json:"case_sensitive" yaml:"case_sensitive"`
	Includes      []string      `json:"includes" yaml:"includes"`
	Excludes      []string      `json:"excludes" yaml:"excludes"`
	Extensions    []string      `json:"extensions" yaml:"extensions"`
	BasePaths     []string      `json:"base_paths" yaml:"base_paths"`
	Buckets       []Bucket      `json:"buckets" yaml:"buckets"`
	Invalid       []InvalidSpec `json:"invalid,omitempty" yaml:"invalid,omitempty"`
	Total         int           `json:"total" yaml:"total"`
	GeneratedAt   time.Time     `json:"generated_at" yaml:"generated_at"`
}

// New builds a Report from the options and result of a MatchFiles call
func New(opts fileutil.MatchOptions, result *fileutil.Result) *Report {
	invalidIncludes := make(map[int]bool)
	for _, spec := range result.Invalid {
		if spec.Kind == pattern.KindInclude {
			invalidIncludes[spec.Index] = true
		}
	}

	buckets := make([]Bucket, len(result.Buckets))
	for i, files := range result.Buckets {
		buckets[i] = Bucket{Files: nonNil(files)}
		if i < len(opts.Includes) {
			buckets[i].Include = opts.Includes[i]
			buckets[i].Invalid = invalidIncludes[i]
		}
	}

	return &Report{
		Root:          opts.Path,
		CaseSensitive: opts.CaseSensitive,
		Includes:      nonNil(opts.Includes),
		Excludes:      nonNil(opts.Excludes),
		Extensions:    nonNil(opts.Extensions),
		BasePaths:     nonNil(result.BasePaths),
		Buckets:       buckets,
		Invalid: lo.Map(result.Invalid, func(spec pattern.InvalidSpec, _ int) InvalidSpec {
			return InvalidSpec{Kind: string(spec.Kind), Index: spec.Index, Spec: spec.Spec, Reason: spec.Reason()}
		}),
		Total:       len(result.Files()),
		GeneratedAt: time.Now().UTC(),
	}
}

// Files returns every file in bucket order
func (r *Report) Files() []string {
	return lo.FlatMap(r.Buckets, func(b Bucket, _ int) []string {
		return b.Files
	})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Render writes r to w in the given format
func Render(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return renderText(w, r)
	case FormatJSON:
		return renderJSON(w, r)
	case FormatYAML:
		return renderYAML(w, r)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatHTML:
		return renderHTML(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// WriteFile renders r and replaces path with the result while holding the
// file's lock, so concurrent runs never interleave output.
func WriteFile(path string, r *Report, format Format) error {
	var buf bytes.Buffer
	if err := Render(&buf, r, format); err != nil {
		return err
	}
	if err := filelock.LockAndWrite(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
