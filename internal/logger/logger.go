// Package logger собирает *slog.Logger из секции logger конфигурации.
package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"todo-service/internal/config"
)

// New создает логгер, пишущий в stdout
func New(cfg *config.ConfigLogger) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter создает логгер с указанным приемником
func NewWithWriter(cfg *config.ConfigLogger, w io.Writer) *slog.Logger {
	level, format := "info", "json"
	if cfg != nil {
		level, format = cfg.Level, cfg.Format
	}

	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// NewStdLogger оборачивает slog в *log.Logger для http.Server.ErrorLog
func NewStdLogger(l *slog.Logger, level slog.Level) *log.Logger {
	return slog.NewLogLogger(l.Handler(), level)
}

// ParseLevel разбирает уровень логирования; неизвестное значение дает INFO
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
