// Package logging provides file-based logging for the yard engine.
// It outputs logs to both a yard-wide log file (.yard/logs/yard.log)
// and per-task log files (.yard/logs/task-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled log lines to files under the yard directory.
// Fields are ordered to minimize memory padding.
type Logger struct {
	now        func() time.Time
	globalFile *os.File
	taskFiles  map[string]*os.File
	yardDir    string
	mu         sync.Mutex
	level      slog.Level
}

// New creates a new Logger that writes to the yard log directory.
// If yardDir is empty, logging is disabled.
func New(yardDir string, level slog.Level) *Logger {
	return &Logger{
		now:       time.Now,
		yardDir:   yardDir,
		level:     level,
		taskFiles: make(map[string]*os.File),
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// open opens a log file for appending, creating the logs directory first.
// Caller must hold l.mu.
func (l *Logger) open(path string) (*os.File, error) {
	if err := os.MkdirAll(domain.LogsDir(l.yardDir), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	// Log files are append-only and readable by the yard operators' group
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// writeEntry appends an entry to the global log and, if taskID is set, to the task log.
func (l *Logger) writeEntry(taskID, entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile == nil {
		f, err := l.open(domain.GlobalLogPath(l.yardDir))
		if err != nil {
			return
		}
		l.globalFile = f
	}
	_, _ = io.WriteString(l.globalFile, entry)

	if taskID == "" {
		return
	}
	tf, ok := l.taskFiles[taskID]
	if !ok {
		f, err := l.open(domain.TaskLogPath(l.yardDir, taskID))
		if err != nil {
			return
		}
		tf = f
		l.taskFiles[taskID] = f
	}
	_, _ = io.WriteString(tf, entry)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.taskFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.taskFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [ship_task_SP001] [engine] message
func formatLog(t time.Time, level slog.Level, taskID, category, msg string) string {
	taskStr := taskID
	if taskStr == "" {
		taskStr = "yard"
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		taskStr,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level slog.Level, taskID, category, msg string) {
	if l.yardDir == "" {
		return // Logging disabled
	}
	if level < l.level {
		return
	}
	l.writeEntry(taskID, formatLog(l.now(), level, taskID, category, msg))
}

// Info logs an info message.
func (l *Logger) Info(taskID, category, msg string) {
	l.log(slog.LevelInfo, taskID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(taskID, category, msg string) {
	l.log(slog.LevelDebug, taskID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(taskID, category, msg string) {
	l.log(slog.LevelWarn, taskID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(taskID, category, msg string) {
	l.log(slog.LevelError, taskID, category, msg)
}
