package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/filematch/internal/pattern"
)

// FileLogger writes one timestamped log file per run into a log directory and
// keeps a latest.log symlink pointing at the most recent one.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing run-YYYYMMDD-HHMMSS.log into logDir.
// The directory is created if it doesn't exist.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))
	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== filematch run log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of this run's log file
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }
func (fl *FileLogger) LogInfo(message string)  { fl.logWithLevel("INFO", message) }
func (fl *FileLogger) LogWarn(message string)  { fl.logWithLevel("WARN", message) }
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !shouldLog(fl.logLevel, strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogMatchStart records the root and every spec. The file log always carries
// the full spec list at INFO level.
func (fl *FileLogger) LogMatchStart(start MatchStart) {
	headline, details := startLines(start)
	fl.LogInfo(headline)
	for _, detail := range details {
		fl.LogInfo("  " + detail)
	}
}

// LogInvalidSpecs records every ignored spec at WARN level
func (fl *FileLogger) LogInvalidSpecs(invalid []pattern.InvalidSpec) {
	for _, spec := range invalid {
		fl.LogWarn(invalidLine(spec))
	}
}

// LogMatchSummary writes a summary block at INFO level
func (fl *FileLogger) LogMatchSummary(summary MatchSummary) {
	if !shouldLog(fl.logLevel, "info") {
		return
	}

	ts := timestamp()
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] === MATCH SUMMARY ===\n", ts)
	fmt.Fprintf(&b, "[%s] Root:        %s\n", ts, displayRoot(summary.Root))
	fmt.Fprintf(&b, "[%s] Files:       %d\n", ts, summary.Files)
	for i, size := range summary.BucketSizes {
		fmt.Fprintf(&b, "[%s] Bucket %-4d  %d\n", ts, i, size)
	}
	fmt.Fprintf(&b, "[%s] Base paths:  %s\n", ts, strings.Join(summary.BasePaths, ", "))
	fmt.Fprintf(&b, "[%s] Invalid:     %d\n", ts, summary.Invalid)
	fmt.Fprintf(&b, "[%s] Total time:  %s\n", ts, formatDuration(summary.Duration))

	fl.writeRunLog(b.String())
}

// Close syncs and closes the run log
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
