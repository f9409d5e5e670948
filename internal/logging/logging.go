// Package logging sets up the diagnostics log. The terminal belongs to the
// console, so log output only ever goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger appending to path when enabled, and a no-op logger
// otherwise. The returned closer is never nil.
func New(enabled bool, path string) (zerolog.Logger, io.Closer, error) {
	if !enabled {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), io.NopCloser(nil), fmt.Errorf("open log file: %w", err)
	}
	return NewWriter(f), f, nil
}

// NewWriter logs to w at debug level with timestamps.
func NewWriter(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(zerolog.DebugLevel).
		With().
		Timestamp().
		Logger()
}
