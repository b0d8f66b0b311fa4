package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a LOG_LEVEL value to a Level. Unknown values fall back to info.
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

// Logger provides leveled logging throughout the application.
// Diagnostics go to stderr so stdout stays reserved for narration.
type Logger struct {
	level Level
	out   *log.Logger
	err   *log.Logger
}

// NewLogger creates a Logger at info level writing to stderr.
func NewLogger() *Logger {
	return NewLoggerWithWriters(LevelInfo, os.Stderr, os.Stderr)
}

// NewLoggerWithWriters creates a Logger with an explicit threshold and sinks.
func NewLoggerWithWriters(level Level, out, errOut io.Writer) *Logger {
	return &Logger{
		level: level,
		out:   log.New(out, "", 0),
		err:   log.New(errOut, "", 0),
	}
}

// SetLevel changes the threshold.
func (l *Logger) SetLevel(level Level) { l.level = level }

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(l.out, LevelInfo, "\033[32mINFO\033[0m ", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.emit(l.out, LevelWarn, "\033[33mWARN\033[0m ", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(l.err, LevelError, "\033[31mERROR\033[0m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.emit(l.out, LevelDebug, "\033[36mDEBUG\033[0m", format, args...)
}

func (l *Logger) emit(dst *log.Logger, level Level, tag, format string, args ...any) {
	if level < l.level {
		return
	}
	dst.Printf("[%s] %s %s", l.timestamp(), tag, fmt.Sprintf(format, args...))
}
