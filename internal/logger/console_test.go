package logger

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harrison/filematch/internal/pattern"
)

// TestNewConsoleLogger verifies the constructor normalizes the level and never colors buffers.
func TestNewConsoleLogger(t *testing.T) {
	t.Run("with valid writer", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewConsoleLogger(buf, " DEBUG ")

		if logger.writer != buf {
			t.Error("writer not set correctly")
		}
		if logger.logLevel != "debug" {
			t.Errorf("expected log level %q, got %q", "debug", logger.logLevel)
		}
		if logger.colorOutput {
			t.Error("buffers are never colored")
		}
	})

	t.Run("with nil writer", func(t *testing.T) {
		logger := NewConsoleLogger(nil, "info")
		logger.LogInfo("discarded")
		logger.LogMatchSummary(MatchSummary{Files: 1})
	})

	t.Run("invalid level defaults to info", func(t *testing.T) {
		logger := NewConsoleLogger(&bytes.Buffer{}, "loud")
		if logger.logLevel != "info" {
			t.Errorf("expected info, got %q", logger.logLevel)
		}
	})
}

func TestConsoleLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
	}{
		{level: "trace", expected: []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "debug", expected: []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{level: "info", expected: []string{"INFO", "WARN", "ERROR"}},
		{level: "warn", expected: []string{"WARN", "ERROR"}},
		{level: "error", expected: []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogTrace("t")
			logger.LogDebug("d")
			logger.LogInfo("i")
			logger.LogWarn("w")
			logger.LogError("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.expected) {
				t.Fatalf("expected %d lines, got %d: %q", len(tt.expected), len(lines), buf.String())
			}
			for i, level := range tt.expected {
				if !strings.Contains(lines[i], "["+level+"]") {
					t.Errorf("line %d = %q, want level %s", i, lines[i], level)
				}
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogInfo("hello")

	if !regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[INFO\] hello\n$`).MatchString(buf.String()) {
		t.Errorf("unexpected format %q", buf.String())
	}
}

func TestConsoleLogMatchStart(t *testing.T) {
	start := MatchStart{
		Root:          "/work/project",
		Includes:      []string{"src", "test/**/*.ts"},
		Excludes:      []string{"**/*.d.ts"},
		Extensions:    []string{".ts"},
		CaseSensitive: true,
	}

	t.Run("info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		NewConsoleLogger(buf, "info").LogMatchStart(start)

		out := buf.String()
		want := "Matching under /work/project (2 includes, 1 exclude, case-sensitive, filesystem)"
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
		if strings.Contains(out, "include[0]") {
			t.Error("spec details are debug-level")
		}
	})

	t.Run("debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		start := start
		start.Source = "snapshot abc"
		start.CaseSensitive = false
		NewConsoleLogger(buf, "debug").LogMatchStart(start)

		out := buf.String()
		for _, want := range []string{
			"case-insensitive, snapshot abc)",
			`include[0] "src"`,
			`include[1] "test/**/*.ts"`,
			`exclude[0] "**/*.d.ts"`,
			"extensions .ts",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in %q", want, out)
			}
		}
	})
}

func TestConsoleLogInvalidSpecs(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "warn").LogInvalidSpecs([]pattern.InvalidSpec{
		{Kind: pattern.KindInclude, Index: 1, Spec: "src/**", Err: pattern.ErrTrailingRecursiveWildcard},
		{Kind: pattern.KindExclude, Index: 0, Spec: "", Err: pattern.ErrEmptySpec},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.Contains(lines[0], `[WARN] Ignoring include[1] "src/**": spec ends in a recursive directory wildcard`) {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], `Ignoring exclude[0] "": empty spec`) {
		t.Errorf("unexpected line %q", lines[1])
	}
}

func TestConsoleLogMatchSummary(t *testing.T) {
	tests := []struct {
		name     string
		summary  MatchSummary
		level    string
		contains []string
		absent   []string
	}{
		{
			name: "single file",
			summary: MatchSummary{
				Files:       1,
				BucketSizes: []int{1},
				BasePaths:   []string{"/p"},
				Duration:    1500 * time.Millisecond,
			},
			level:    "info",
			contains: []string{"Matched 1 file from 1 base path (1s)"},
			absent:   []string{"invalid", "bucket[0]"},
		},
		{
			name: "with invalid specs and buckets",
			summary: MatchSummary{
				Files:       7,
				BucketSizes: []int{3, 4},
				BasePaths:   []string{"/p", "/shared"},
				Invalid:     2,
				Duration:    40 * time.Millisecond,
			},
			level: "debug",
			contains: []string{
				"Matched 7 files from 2 base paths (40ms), 2 invalid specs ignored",
				"bucket[0]: 3 files",
				"bucket[1]: 4 files",
			},
			absent: []string{"walked"},
		},
		{
			name:     "trace lists base paths",
			summary:  MatchSummary{BasePaths: []string{""}, Duration: 2 * time.Minute},
			level:    "trace",
			contains: []string{"Matched 0 files from 1 base path (2m)", "walked ."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			NewConsoleLogger(buf, tt.level).LogMatchSummary(tt.summary)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}
			for _, unwanted := range tt.absent {
				if strings.Contains(out, unwanted) {
					t.Errorf("did not expect %q in %q", unwanted, out)
				}
			}
		})
	}
}

func TestConsoleLoggerConcurrentWrites(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("message")
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "[INFO] message\n"); got != 20 {
		t.Errorf("expected 20 intact lines, got %d", got)
	}
}

func TestNoOpAndMultiLogger(t *testing.T) {
	first := &bytes.Buffer{}
	second := &bytes.Buffer{}
	multi := NewMultiLogger(NewConsoleLogger(first, "info"), nil, NewNoOpLogger(), NewConsoleLogger(second, "warn"))

	multi.LogInfo("info line")
	multi.LogWarn("warn line")
	multi.LogInvalidSpecs([]pattern.InvalidSpec{{Kind: pattern.KindInclude, Spec: "**", Err: errors.New("bad")}})

	if !strings.Contains(first.String(), "info line") || !strings.Contains(first.String(), "warn line") {
		t.Errorf("first logger missing lines: %q", first.String())
	}
	if strings.Contains(second.String(), "info line") {
		t.Errorf("second logger should filter info: %q", second.String())
	}
	if !strings.Contains(second.String(), `Ignoring include[0] "**": bad`) {
		t.Errorf("second logger missing invalid spec: %q", second.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "0ms"},
		{d: 850 * time.Millisecond, want: "850ms"},
		{d: 12 * time.Second, want: "12s"},
		{d: 2 * time.Minute, want: "2m"},
		{d: 2*time.Minute + 5*time.Second, want: "2m5s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
