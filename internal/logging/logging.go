// Package logging wraps zerolog behind a small field API so the rest of the
// program never imports zerolog directly.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config selects the sinks for the root logger. With neither sink enabled
// the logger is a no-op.
type Config struct {
	Level   string // trace, debug, info, warn or error; empty means info
	Console bool   // human-readable output on stderr
	File    FileConfig
}

// FileConfig enables the JSON file sink.
type FileConfig struct {
	Enabled bool
	Path    string
}

// Field attaches one key/value pair to a log event.
type Field func(e *zerolog.Event)

func String(key, val string) Field {
	return func(e *zerolog.Event) { e.Str(key, val) }
}

func Int(key string, val int) Field {
	return func(e *zerolog.Event) { e.Int(key, val) }
}

func Bool(key string, val bool) Field {
	return func(e *zerolog.Event) { e.Bool(key, val) }
}

func Duration(key string, val time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(key, val) }
}

func Err(err error) Field {
	return func(e *zerolog.Event) { e.Err(err) }
}

func Any(key string, val any) Field {
	return func(e *zerolog.Event) { e.Interface(key, val) }
}

// Logger is a leveled logger with pre-bound fields. The zero value drops
// everything.
type Logger struct {
	base    zerolog.Logger
	hasBase bool
	fields  []Field
}

// Nop returns a logger that discards all events.
func Nop() Logger {
	return Logger{}
}

// Setup builds the root logger from config. Console events go to stderr so
// command output on stdout stays clean. The returned close function flushes
// the file sink and is safe to call when no file was opened.
func Setup(cfg Config) (Logger, func()) {
	zerolog.TimeFieldFormat = timeFormat
	zerolog.ErrorFieldName = "err"

	closeFn := func() {}
	writers := make([]io.Writer, 0, 2)
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	if cfg.File.Enabled && strings.TrimSpace(cfg.File.Path) != "" {
		path := cfg.File.Path
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err == nil {
				writers = append(writers, f)
				closeFn = func() { f.Close() }
			} else {
				fmt.Fprintf(os.Stderr, "logging: cannot open %s: %v\n", path, err)
			}
		}
	}
	if len(writers) == 0 {
		return Nop(), closeFn
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(parseLevel(cfg.Level)).
		With().Timestamp().Logger()
	return Logger{base: zl, hasBase: true}, closeFn
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// With returns a copy of the logger carrying extra fields.
func (l Logger) With(fields ...Field) Logger {
	out := l
	out.fields = append(append([]Field(nil), l.fields...), fields...)
	return out
}

func (l Logger) emit(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range l.fields {
		f(e)
	}
	for _, f := range fields {
		f(e)
	}
	e.Str("caller", shortCaller(3))
	e.Msg(msg)
}

func (l Logger) Trace(msg string, fields ...Field) {
	if !l.hasBase {
		return
	}
	l.emit(l.base.Trace(), msg, fields)
}

func (l Logger) Debug(msg string, fields ...Field) {
	if !l.hasBase {
		return
	}
	l.emit(l.base.Debug(), msg, fields)
}

func (l Logger) Info(msg string, fields ...Field) {
	if !l.hasBase {
		return
	}
	l.emit(l.base.Info(), msg, fields)
}

func (l Logger) Warn(msg string, fields ...Field) {
	if !l.hasBase {
		return
	}
	l.emit(l.base.Warn(), msg, fields)
}

func (l Logger) Error(msg string, fields ...Field) {
	if !l.hasBase {
		return
	}
	l.emit(l.base.Error(), msg, fields)
}

// shortCaller reports file:line of the call site, trimmed to the last two
// path elements.
func shortCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	parts := strings.Split(filepath.ToSlash(file), "/")
	if len(parts) > 2 {
		file = strings.Join(parts[len(parts)-2:], "/")
	}
	return fmt.Sprintf("%s:%d", file, line)
}
