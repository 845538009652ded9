// Package logger builds the process-wide slog.Logger and small attribute helpers.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
)

// New returns a text logger for local and dev environments and a JSON logger otherwise.
func New(env, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var h slog.Handler
	switch env {
	case envLocal, envDev:
		h = slog.NewTextHandler(w, opts)
	default:
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(h).With(slog.String("env", env))
}

// Err returns an attribute with key "error" holding err's message.
//
//	log.Error("failed to list users", logger.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) slog.Level {
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
