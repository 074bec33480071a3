//go:build unit || e2e

package testutil

import (
	"io"
	"log/slog"
)

// a logger that drops everything
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
