// Package logger provides the structured operational log used by the
// portfolio server: access logs, contact records and lifecycle events.
//
// Records logged with a request context carry that request's ID.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Frames between the caller and slog.NewRecord: runtime.Callers, log, the
// level method.
const callerSkipFrames = 3

// RequestIDKey is the attribute holding the request ID.
const RequestIDKey = "request_id"

// Logger defines the logging interface.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value slog.Value
}

// Field constructors.
func String(key, val string) Field               { return Field{key, slog.StringValue(val)} }
func Int(key string, val int) Field              { return Field{key, slog.IntValue(val)} }
func Float64(key string, val float64) Field      { return Field{key, slog.Float64Value(val)} }
func Bool(key string, val bool) Field            { return Field{key, slog.BoolValue(val)} }
func Duration(key string, v time.Duration) Field { return Field{key, slog.DurationValue(v)} }
func Error(err error) Field {
	if err == nil {
		return Field{"error", slog.StringValue("<nil>")}
	}
	return Field{"error", slog.StringValue(err.Error())}
}

type slogLogger struct {
	handler slog.Handler
}

func (l *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelInfo, msg, fields)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelWarn, msg, fields)
}

func (l *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelError, msg, fields)
}

func (l *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.log(ctx, slog.LevelDebug, msg, fields)
}

func (l *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(callerSkipFrames, pcs[:])
	rec := slog.NewRecord(time.Now(), level, msg, pcs[0])

	if id := chiMiddleware.GetReqID(ctx); id != "" {
		rec.AddAttrs(slog.String(RequestIDKey, id))
	}
	for _, f := range fields {
		rec.AddAttrs(slog.Attr{Key: f.Key, Value: f.Value})
	}
	_ = l.handler.Handle(ctx, rec)
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Init initializes the global logger writing to stdout.
func Init() error {
	return InitWithWriter(os.Stdout)
}

// InitWithWriter initializes the global logger writing to w at info level.
func InitWithWriter(w io.Writer) error {
	if w == nil {
		return ErrNilWriter
	}
	levelVar.Set(slog.LevelInfo)
	global = &slogLogger{handler: slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       &levelVar,
		AddSource:   true,
		ReplaceAttr: shortSource,
	})}
	return nil
}

// shortSource renders source as dir/file.go:line.
func shortSource(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}
	src, ok := a.Value.Any().(*slog.Source)
	if !ok || src == nil {
		return a
	}
	file := filepath.Join(filepath.Base(filepath.Dir(src.File)), filepath.Base(src.File))
	return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", file, src.Line))
}

// Get returns the global logger. It panics before Init.
func Get() Logger {
	if global == nil {
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// SetLevel updates the level of the global logger.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
