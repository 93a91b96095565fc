// Package logging wraps log/slog text handlers behind the printf-style calls
// the rest of the tree uses.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger writes leveled diagnostics. Debug output is dropped unless enabled;
// row-level validation messages go there so they never reach end users.
type Logger struct {
	level *slog.LevelVar
	out   *slog.Logger
	err   *slog.Logger
}

// New creates a logger writing info/warn/debug to out and errors to errOut.
func New(out, errOut io.Writer) *Logger {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	opts := &slog.HandlerOptions{Level: level}
	return &Logger{
		level: level,
		out:   slog.New(slog.NewTextHandler(out, opts)),
		err:   slog.New(slog.NewTextHandler(errOut, opts)),
	}
}

// Default logs to stderr so stdout stays clean for command output.
func Default() *Logger {
	return New(os.Stderr, os.Stderr)
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *Logger {
	return New(io.Discard, io.Discard)
}

func (l *Logger) SetDebug(on bool) {
	if on {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

func (l *Logger) DebugEnabled() bool { return l.level.Level() <= slog.LevelDebug }

// Slog exposes the structured logger behind the info writer.
func (l *Logger) Slog() *slog.Logger { return l.out }

func (l *Logger) Info(msg string, args ...interface{}) {
	l.log(l.out, slog.LevelInfo, msg, args)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.log(l.out, slog.LevelWarn, msg, args)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.log(l.err, slog.LevelError, msg, args)
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	l.log(l.out, slog.LevelDebug, msg, args)
}

func (l *Logger) log(to *slog.Logger, level slog.Level, msg string, args []interface{}) {
	ctx := context.Background()
	if !to.Enabled(ctx, level) {
		return
	}
	to.Log(ctx, level, fmt.Sprintf(msg, args...))
}
