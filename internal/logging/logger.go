package logging

import (
	"io"
	"log/slog"
	"os"
)

// Setup initializes the global slog logger with JSON output to stdout and
// returns the handler so it can be combined with other sinks later.
func Setup(appEnv string) slog.Handler {
	handler := NewJSONHandler(os.Stdout, appEnv)
	slog.SetDefault(slog.New(handler))
	return handler
}

// NewJSONHandler logs at debug level in development and info elsewhere.
func NewJSONHandler(w io.Writer, appEnv string) slog.Handler {
	level := slog.LevelInfo
	if appEnv == "development" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
