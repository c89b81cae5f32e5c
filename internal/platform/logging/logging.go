// Package logging installs the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// New returns a JSON logger writing to w at the named level
// ("debug", "info", "warn", "error", case-insensitive).
func New(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// Setup installs a logger built by New as the default.
func Setup(w io.Writer, level string) error {
	logger, err := New(w, level)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
