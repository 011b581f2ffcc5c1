package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger tagged with the service name. Every binary
// calls this once in main and passes the logger down explicitly.
func New(service string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With("service", service)
}
