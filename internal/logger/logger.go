package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level controls which messages are written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	level    = LevelInfo
	std      = log.New(io.Discard, "", log.LstdFlags)
	rotating *lumberjack.Logger
)

// ParseLevel converts a config string to a Level. Unknown values map to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Init routes log output to a rotating file. The TUI owns the terminal, so
// nothing is ever written to stdout or stderr. An empty path disables logging.
func Init(path string, lvl Level) {
	mu.Lock()
	defer mu.Unlock()

	level = lvl
	if path == "" {
		std.SetOutput(io.Discard)
		return
	}

	rotating = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	std.SetOutput(rotating)
}

// Close flushes and closes the underlying log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if rotating == nil {
		return nil
	}
	err := rotating.Close()
	rotating = nil
	std.SetOutput(io.Discard)
	return err
}

func logf(lvl Level, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if lvl < level {
		return
	}
	std.Printf("%s %s", tag, fmt.Sprintf(format, args...))
}

// Debug logs a debug-level message.
func Debug(format string, args ...any) { logf(LevelDebug, "DEBUG", format, args...) }

// Info logs an info-level message.
func Info(format string, args ...any) { logf(LevelInfo, "INFO ", format, args...) }

// Warn logs a warning-level message.
func Warn(format string, args ...any) { logf(LevelWarn, "WARN ", format, args...) }

// Error logs an error-level message.
func Error(format string, args ...any) { logf(LevelError, "ERROR", format, args...) }
