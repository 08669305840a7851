// Package logger provides logging implementations for filematch runs.
//
// The logger package reports a matching run as it happens: the root and specs
// being matched, specs that were ignored because they could not compile, and a
// summary of what was selected. Implementations are thread-safe and write to
// the console, to per-run log files, or to both through MultiLogger.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/filematch/internal/pattern"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// MatchStart describes a matching run before the walk begins
type MatchStart struct {
	Root          string
	Includes      []string
	Excludes      []string
	Extensions    []string
	CaseSensitive bool
	// Source names where listings come from, e.g. "filesystem" or "snapshot <id>"
	Source string
}

// MatchSummary describes the outcome of a matching run
type MatchSummary struct {
	Root        string
	Files       int
	BucketSizes []int
	BasePaths   []string
	Invalid     int
	Duration    time.Duration
}

// Logger is what the command layer logs through
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)

	LogMatchStart(start MatchStart)
	LogInvalidSpecs(invalid []pattern.InvalidSpec)
	LogMatchSummary(summary MatchSummary)
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func shouldLog(configured, message string) bool {
	return logLevelToInt(message) >= logLevelToInt(configured)
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration renders short durations in milliseconds and longer ones in
// the largest whole units, e.g. "850ms", "12s", "2m5s".
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		seconds := (d % time.Minute) / time.Second
		if seconds == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}

func caseLabel(caseSensitive bool) string {
	if caseSensitive {
		return "case-sensitive"
	}
	return "case-insensitive"
}

// startLines renders a MatchStart the same way for every logger
func startLines(start MatchStart) (headline string, details []string) {
	source := start.Source
	if source == "" {
		source = "filesystem"
	}
	headline = fmt.Sprintf("Matching under %s (%s, %s, %s, %s)",
		displayRoot(start.Root),
		plural(len(start.Includes), "include", "includes"),
		plural(len(start.Excludes), "exclude", "excludes"),
		caseLabel(start.CaseSensitive),
		source,
	)
	for i, include := range start.Includes {
		details = append(details, fmt.Sprintf("include[%d] %q", i, include))
	}
	for i, exclude := range start.Excludes {
		details = append(details, fmt.Sprintf("exclude[%d] %q", i, exclude))
	}
	if len(start.Extensions) > 0 {
		details = append(details, "extensions "+strings.Join(start.Extensions, ", "))
	}
	return headline, details
}

func invalidLine(spec pattern.InvalidSpec) string {
	return fmt.Sprintf("Ignoring %s[%d] %q: %s", spec.Kind, spec.Index, spec.Spec, spec.Reason())
}

func displayRoot(root string) string {
	if root == "" {
		return "."
	}
	return root
}

// NoOpLogger discards everything
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that discards all messages
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                       {}
func (n *NoOpLogger) LogDebug(message string)                       {}
func (n *NoOpLogger) LogInfo(message string)                        {}
func (n *NoOpLogger) LogWarn(message string)                        {}
func (n *NoOpLogger) LogError(message string)                       {}
func (n *NoOpLogger) LogMatchStart(start MatchStart)                {}
func (n *NoOpLogger) LogInvalidSpecs(invalid []pattern.InvalidSpec) {}
func (n *NoOpLogger) LogMatchSummary(summary MatchSummary)          {}

// MultiLogger fans every call out to several loggers
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers; nil entries are skipped
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

func (m *MultiLogger) LogTrace(message string) {
	for _, l := range m.loggers {
		l.LogTrace(message)
	}
}

func (m *MultiLogger) LogDebug(message string) {
	for _, l := range m.loggers {
		l.LogDebug(message)
	}
}

func (m *MultiLogger) LogInfo(message string) {
	for _, l := range m.loggers {
		l.LogInfo(message)
	}
}

func (m *MultiLogger) LogWarn(message string) {
	for _, l := range m.loggers {
		l.LogWarn(message)
	}
}

func (m *MultiLogger) LogError(message string) {
	for _, l := range m.loggers {
		l.LogError(message)
	}
}

func (m *MultiLogger) LogMatchStart(start MatchStart) {
	for _, l := range m.loggers {
		l.LogMatchStart(start)
	}
}

func (m *MultiLogger) LogInvalidSpecs(invalid []pattern.InvalidSpec) {
	for _, l := range m.loggers {
		l.LogInvalidSpecs(invalid)
	}
}

func (m *MultiLogger) LogMatchSummary(summary MatchSummary) {
	for _, l := range m.loggers {
		l.LogMatchSummary(summary)
	}
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*FileLogger)(nil)
	_ Logger = (*NoOpLogger)(nil)
	_ Logger = (*MultiLogger)(nil)
)
