package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/harrison/filematch/internal/fileutil"
	"github.com/harrison/filematch/internal/pattern"
)

func sampleReport() *Report {
	opts := fileutil.MatchOptions{
		Path:          "/p",
		Includes:      []string{"src/**/*.ts", "lib/**", "test"},
		Excludes:      []string{"**/*.d.ts"},
		Extensions:    []string{".ts"},
		CaseSensitive: true,
	}
	result := &fileutil.Result{
		Buckets: [][]string{
			{"/p/src/a.ts", "/p/src/util/b.ts"},
			{},
			{"/p/test/c.ts"},
		},
		Invalid: []pattern.InvalidSpec{
			{Kind: pattern.KindInclude, Index: 1, Spec: "lib/**", Err: pattern.ErrTrailingRecursiveWildcard},
		},
		BasePaths: []string{"/p"},
	}
	return New(opts, result)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"TXT", FormatText},
		{"json", FormatJSON},
		{" yml ", FormatYAML},
		{"yaml", FormatYAML},
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{"html", FormatHTML},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNew(t *testing.T) {
	r := sampleReport()

	assert.Equal(t, "/p", r.Root)
	assert.True(t, r.CaseSensitive)
	assert.Equal(t, 3, r.Total)
	require.Len(t, r.Buckets, 3)
	assert.Equal(t, "src/**/*.ts", r.Buckets[0].Include)
	assert.False(t, r.Buckets[0].Invalid)
	assert.True(t, r.Buckets[1].Invalid)
	assert.Equal(t, []InvalidSpec{{
		Kind:   "include",
		Index:  1,
		Spec:   "lib/**",
		Reason: pattern.ErrTrailingRecursiveWildcard.Error(),
	}}, r.Invalid)
	assert.Equal(t, []string{"/p/src/a.ts", "/p/src/util/b.ts", "/p/test/c.ts"}, r.Files())
	assert.False(t, r.GeneratedAt.IsZero())
}

func TestNewWithoutIncludes(t *testing.T) {
	r := New(fileutil.MatchOptions{Path: "/p"}, &fileutil.Result{
		Buckets:   [][]string{{"/p/a", "/p/b"}},
		BasePaths: []string{"/p"},
	})

	require.Len(t, r.Buckets, 1)
	assert.Empty(t, r.Buckets[0].Include)
	assert.NotNil(t, r.Includes)
	assert.NotNil(t, r.Excludes)
	assert.NotNil(t, r.Extensions)
	assert.Empty(t, r.Invalid)
	assert.Equal(t, 2, r.Total)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatText))

	assert.Equal(t, "/p/src/a.ts\n/p/src/util/b.ts\n/p/test/c.ts\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatJSON))

	var decoded Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.Total)
	assert.Equal(t, []string{"/p"}, decoded.BasePaths)
	require.Len(t, decoded.Buckets, 3)
	assert.Equal(t, []string{}, decoded.Buckets[1].Files)
	assert.Contains(t, buf.String(), `"case_sensitive": true`)
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatYAML))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "/p", decoded["root"])
	assert.Equal(t, 3, decoded["total"])
	assert.Len(t, decoded["buckets"], 3)
}

func TestRenderMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleReport(), FormatMarkdown))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# filematch report\n"))
	assert.Contains(t, out, "- **Files:** 3")
	assert.Contains(t, out, "| include | 1 | `lib/**` | invalid: spec ends in a recursive directory wildcard |")
	assert.Contains(t, out, "| exclude | 0 | `**/*.d.ts` | ok |")
	assert.Contains(t, out, "- `/p/src/util/b.ts`")
	assert.Contains(t, out, "_no files_")

	// One level-3 heading per bucket
	doc := goldmark.New().Parser().Parse(text.NewReader(buf.Bytes()))
	var buckets int
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 3 {
			buckets++
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, buckets)
}

func TestRenderHTML(t *testing.T) {
	r := sampleReport()
	r.Buckets[0].Files = append(r.Buckets[0].Files, "/p/src/<script>.ts")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, FormatHTML))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>filematch report</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<code>/p/test/c.ts</code>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<script>")
}

func TestRenderUnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleReport(), Format("pdf"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestCode(t *testing.T) {
	assert.Equal(t, "`a`", code("a"))
	assert.Equal(t, "`` a`b ``", code("a`b"))
	assert.Equal(t, "(empty)", code(""))
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))
	require.NoError(t, WriteFile(path, sampleReport(), FormatJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded.Total)

	_, err = os.Stat(path + ".lock")
	assert.NoError(t, err)

	err = WriteFile(filepath.Join(dir, "bad.txt"), sampleReport(), Format("pdf"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = os.Stat(filepath.Join(dir, "bad.txt"))
	assert.True(t, os.IsNotExist(err))
}
