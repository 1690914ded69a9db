package logger

import (
	"log/slog"
	"os"
)

// SetupGlobal installs the default slog logger. Logs go to stderr so
// that stdout stays clean for anything ffmpeg itself prints when its
// streams are inherited.
func SetupGlobal(debug bool, showSource bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: showSource,
	})

	slog.SetDefault(slog.New(handler))
}
