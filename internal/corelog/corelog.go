// Copyright 2025 LNP/BP RGB Contributors
//
// corelog is a thin wrapper over the standard log package, giving the
// service entrypoint and HTTP layer leveled, prefixed loggers without
// pulling a structured logging library into the validation core. The
// validator and its supporting packages (schema, contract, anchor,
// consignment, validation) never import this: they are pure, and
// report findings through Status, not log lines.
package corelog

import (
	"io"
	"log"
	"os"
)

// Level selects which calls a Logger actually writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string ("debug", "info", "warn", "error") to
// a Level, defaulting to LevelInfo for anything unrecognized.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger wraps *log.Logger with a minimum Level below which calls are
// dropped.
type Logger struct {
	min Level
	std *log.Logger
}

// New builds a Logger writing to w (os.Stdout when w is nil) with the
// given prefix, e.g. "[validate] ".
func New(w io.Writer, prefix string, min Level) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{min: min, std: log.New(w, prefix, log.LstdFlags)}
}

func (l *Logger) log(level Level, format string, args []interface{}) {
	if level < l.min {
		return
	}
	l.std.Printf(format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.log(LevelDebug, format, args) }
func (l *Logger) Infof(format string, args ...interface{})  { l.log(LevelInfo, format, args) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.log(LevelWarn, format, args) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.log(LevelError, format, args) }

// Std returns the underlying *log.Logger, for code (like pkg/server)
// that was written against that interface directly.
func (l *Logger) Std() *log.Logger { return l.std }
