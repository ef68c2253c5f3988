// Package logging provides the leveled logger shared by the loaders and front-ends.
package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Logger is injected wherever a component reports progress or problems.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a case-insensitive name to a Level, defaulting to info.
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
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

// StdLogger writes leveled lines through a standard library logger.
type StdLogger struct {
	level Level
	out   *log.Logger
}

// New returns a logger writing to w at the named level.
func New(w io.Writer, level string) *StdLogger {
	return &StdLogger{level: ParseLevel(level), out: log.New(w, "", log.LstdFlags)}
}

func (l *StdLogger) logf(level Level, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Printf("["+strings.ToUpper(level.String())+"] "+format, v...)
}

func (l *StdLogger) Debugf(format string, v ...any) { l.logf(LevelDebug, format, v...) }
func (l *StdLogger) Infof(format string, v ...any)  { l.logf(LevelInfo, format, v...) }
func (l *StdLogger) Warnf(format string, v ...any)  { l.logf(LevelWarn, format, v...) }
func (l *StdLogger) Errorf(format string, v ...any) { l.logf(LevelError, format, v...) }

// Fatalf logs and exits.
func (l *StdLogger) Fatalf(format string, v ...any) {
	l.out.Fatalf("[FATAL] "+format, v...)
}

// NoOp discards everything; useful in tests.
type NoOp struct{}

func (NoOp) Debugf(string, ...any) {}
func (NoOp) Infof(string, ...any)  {}
func (NoOp) Warnf(string, ...any)  {}
func (NoOp) Errorf(string, ...any) {}

// OpenFile opens path for appending log output, creating it if needed.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return f, nil
}
