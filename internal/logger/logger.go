package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var log = slog.New(slog.NewJSONHandler(os.Stdout, nil))

func Init() {
	InitWithLevel(os.Getenv("LOG_LEVEL"))
}

// InitWithLevel installs a JSON logger on stdout at the given level name.
func InitWithLevel(level string) {
	log = New(NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(log)
}

func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// L returns the current logger for callers that want to attach their own attributes.
func L() *slog.Logger {
	return log
}

func WithError(err error) *slog.Logger {
	return log.With("error", err)
}

func WithFields(fields map[string]interface{}) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return log.With(args...)
}

func Info(msg string, args ...any) {
	log.Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	log.Info(fmt.Sprintf(format, v...))
}

func Warn(msg string, args ...any) {
	log.Warn(msg, args...)
}

func Warnf(format string, v ...interface{}) {
	log.Warn(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...any) {
	log.Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	log.Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...any) {
	log.Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	log.Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string, args ...any) {
	log.Error(msg, args...)
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	log.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
