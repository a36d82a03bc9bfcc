package logger

import (
	"log/slog"
	"os"
)

// New returns a JSON slog logger writing to stdout. Level defaults to Info;
// set REDINK_DEBUG=true for debug output.
func New() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("REDINK_DEBUG") == "true" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
