package test

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger discarding every record.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
