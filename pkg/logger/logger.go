package logger

import (
	"log/slog"
	"os"
)

// Log is the shared application logger. It defaults to a text handler so
// packages that log before Init (tests, one-shot binaries) never hit nil.
var Log = slog.New(slog.NewTextHandler(os.Stderr, nil))

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
