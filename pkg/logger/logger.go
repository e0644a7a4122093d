package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log discards everything until Init runs, which keeps tests quiet.
var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init installs the process logger: JSON at info level in production,
// human-readable text with debug output otherwise.
func Init(production bool) {
	if production {
		Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	} else {
		Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	slog.SetDefault(Log)
}
