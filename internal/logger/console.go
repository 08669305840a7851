package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/filematch/internal/pattern"
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is os.Stdout or os.Stderr attached to a TTY.
// NO_COLOR disables color through color.NoColor.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || (f != os.Stdout && f != os.Stderr) {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !shouldLog(cl.logLevel, strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogMatchStart logs the root and spec counts at INFO level and every spec at DEBUG level.
// Format: "[HH:MM:SS] [INFO] Matching under <root> (<n> includes, <n> excludes, <case>, <source>)"
func (cl *ConsoleLogger) LogMatchStart(start MatchStart) {
	headline, details := startLines(start)
	if cl.colorOutput {
		headline = strings.Replace(headline, displayRoot(start.Root), color.New(color.Bold).Sprint(displayRoot(start.Root)), 1)
	}
	cl.LogInfo(headline)
	for _, detail := range details {
		cl.LogDebug(detail)
	}
}

// LogInvalidSpecs logs one WARN line per spec that compiled to no pattern
func (cl *ConsoleLogger) LogInvalidSpecs(invalid []pattern.InvalidSpec) {
	for _, spec := range invalid {
		cl.LogWarn(invalidLine(spec))
	}
}

// LogMatchSummary logs the outcome at INFO level and per-bucket counts at DEBUG level.
// Format: "[HH:MM:SS] [INFO] Matched <n> files from <n> base paths (<duration>)"
func (cl *ConsoleLogger) LogMatchSummary(summary MatchSummary) {
	files := plural(summary.Files, "file", "files")
	if cl.colorOutput {
		files = color.New(color.FgGreen).Sprint(files)
	}
	message := fmt.Sprintf("Matched %s from %s (%s)",
		files,
		plural(len(summary.BasePaths), "base path", "base paths"),
		formatDuration(summary.Duration),
	)
	if summary.Invalid > 0 {
		ignored := plural(summary.Invalid, "invalid spec", "invalid specs") + " ignored"
		if cl.colorOutput {
			ignored = color.New(color.FgYellow).Sprint(ignored)
		}
		message += ", " + ignored
	}
	cl.LogInfo(message)

	for i, size := range summary.BucketSizes {
		cl.LogDebug(fmt.Sprintf("bucket[%d]: %s", i, plural(size, "file", "files")))
	}
	for _, basePath := range summary.BasePaths {
		cl.LogTrace("walked " + displayRoot(basePath))
	}
}
