package config

import (
	"io"
	"log/slog"
)

// LoggerFor builds the diagnostic logger for a verbosity level. Output
// goes to w, stderr in practice: stdout is reserved for reports and the
// fork wire.
func LoggerFor(v Verbosity, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch v {
	case VerbositySilent:
		level = slog.LevelError
	case VerbosityExtra:
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
