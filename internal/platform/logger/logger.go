// Package logger provides structured logging functionality for the
// application using Go's standard library log/slog package.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes and configures the application's logging system based
// on the configured log level. It creates a structured JSON logger and
// sets it as the default logger for the application.
func Setup(logLevel string) (*slog.Logger, error) {
	return setupWithWriter(logLevel, os.Stdout)
}

// setupWithWriter is the testable core of Setup.
func setupWithWriter(logLevel string, w io.Writer) (*slog.Logger, error) {
	level := parseLevel(logLevel)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)

	// Set as default so package-level slog functions use the same handler.
	slog.SetDefault(logger)

	return logger, nil
}

// parseLevel maps a configured level string onto a slog level,
// defaulting to info for anything unrecognized.
func parseLevel(logLevel string) slog.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("invalid log level configured, using default level",
			"configured_level", logLevel,
			"default_level", "info")
		return slog.LevelInfo
	}
}
