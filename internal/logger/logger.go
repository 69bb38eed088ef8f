package logger

import (
	"io"
	"log/slog"
	"os"

	"go.uber.org/fx/fxevent"
)

// New creates a JSON slog.Logger writing to stdout.
func New(level slog.Leveler) *slog.Logger {
	return newWithWriter(os.Stdout, level)
}

func newWithWriter(w io.Writer, level slog.Leveler) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", "naracki")
}

// FxLogger routes fx lifecycle events through the application logger.
func FxLogger(l *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: l.With("component", "fx")}
}
