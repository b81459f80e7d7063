package strtables

import (
	"io"
	"log/slog"
)

var nopLogger = NewNopLogger()

// NewNopLogger creates a logger that discards all output. It is the default
// when no logger is configured.
func NewNopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
