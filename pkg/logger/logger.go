package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelCritical sits above slog.LevelError and is rendered as CRITICAL.
const LevelCritical = slog.Level(12)

const (
	FormatJSON = "json"
	FormatText = "text"
	FormatTint = "tint"
)

var levelNames = map[string]slog.Level{
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": LevelCritical,
	"fatal":    LevelCritical,
}

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	// BusinessError records an expected rule violation (bad input, conflicts) at warn level.
	BusinessError(message string, err error, args ...any)
	// InternalError records a failure the caller could not have prevented at error level.
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

type logger struct {
	*slog.Logger
}

// NewFromEnv reads LOG_LEVEL and LOG_FORMAT. In ENV=development it defaults to debug level with colored output.
func NewFromEnv() Logger {
	level, format := settings(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	return New(os.Stdout, level, format)
}

func settings(env, levelName, formatName string) (slog.Level, string) {
	dev := clean(env) == "development"

	level, format := slog.LevelInfo, FormatJSON
	if dev {
		level, format = slog.LevelDebug, FormatTint
	}
	if parsed, ok := levelNames[clean(levelName)]; ok {
		level = parsed
	}
	switch value := clean(formatName); value {
	case FormatJSON, FormatText, FormatTint:
		format = value
	}
	return level, format
}

func New(output io.Writer, level slog.Level, format string) Logger {
	return &logger{Logger: slog.New(newHandler(output, level, clean(format)))}
}

// Discard drops every record.
func Discard() Logger {
	return &logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newHandler(output io.Writer, level slog.Level, format string) slog.Handler {
	if format == FormatTint {
		return tint.NewHandler(output, &tint.Options{
			Level:       level,
			TimeFormat:  time.Kitchen,
			ReplaceAttr: renameCritical,
		})
	}

	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: renameCritical}
	if format == FormatText {
		return slog.NewTextHandler(output, opts)
	}
	return slog.NewJSONHandler(output, opts)
}

func (l *logger) Critical(message string, args ...any) {
	l.Log(context.Background(), LevelCritical, message, args...)
}

func (l *logger) BusinessError(message string, err error, args ...any) {
	l.logErr(slog.LevelWarn, message, err, args)
}

func (l *logger) InternalError(message string, err error, args ...any) {
	l.logErr(slog.LevelError, message, err, args)
}

func (l *logger) logErr(level slog.Level, message string, err error, args []any) {
	if err == nil {
		return
	}
	l.Log(context.Background(), level, message, append([]any{"err", err}, args...)...)
}

func (l *logger) With(args ...any) Logger {
	return &logger{Logger: l.Logger.With(args...)}
}

func (l *logger) Slog() *slog.Logger {
	return l.Logger
}

func clean(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func renameCritical(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
			attr.Value = slog.StringValue("CRITICAL")
		}
	}
	return attr
}
