package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// Logger - общий интерфейс логгера для репозиториев, сервисов и хендлеров
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	With(args ...any) Logger
}

type slogLogger struct {
	l *slog.Logger
}

// New создает JSON логгер в stdout
func New(level string) Logger {
	return NewWithWriters(ParseLevel(level), os.Stdout)
}

// NewWithFile пишет одновременно в stdout и в файл. Если файл не открылся - только stdout.
func NewWithFile(level, path string) (Logger, func() error) {
	lvl := ParseLevel(level)
	if path == "" {
		return NewWithWriters(lvl, os.Stdout), func() error { return nil }
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log := NewWithWriters(lvl, os.Stdout)
		log.Error("Failed to open log file, using stdout only", "error", err, "file", path)
		return log, func() error { return nil }
	}

	return NewWithWriters(lvl, os.Stdout, file), file.Close
}

// NewWithWriters - fanout во все переданные writer'ы (удобно для тестов)
func NewWithWriters(level slog.Level, writers ...io.Writer) Logger {
	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	}

	var h slog.Handler
	switch len(handlers) {
	case 0:
		h = slog.NewJSONHandler(io.Discard, nil)
	case 1:
		h = handlers[0]
	default:
		h = slogmulti.Fanout(handlers...)
	}

	return &slogLogger{l: slog.New(h)}
}

// Nop - логгер для тестов
func Nop() Logger {
	return NewWithWriters(slog.LevelError)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

func (s *slogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s *slogLogger) Fatal(msg string, args ...any) {
	s.l.Error(msg, args...)
	os.Exit(1)
}

func (s *slogLogger) With(args ...any) Logger {
	return &slogLogger{l: s.l.With(args...)}
}
