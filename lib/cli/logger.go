// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger on stderr. When stderr
// is a terminal, uses slog.TextHandler for human-readable output. When
// stderr is piped or redirected, uses slog.JSONHandler for
// machine-parseable output. Verbose lowers the level to debug.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(verbose).With("command", "oak", "mode", mode)
func NewCommandLogger(verbose bool) *slog.Logger {
	return NewLogger(os.Stderr, IsTerminal(os.Stderr), verbose)
}

// NewLogger is [NewCommandLogger] for an arbitrary writer.
func NewLogger(output io.Writer, terminal, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if terminal {
		handler = slog.NewTextHandler(output, options)
	} else {
		handler = slog.NewJSONHandler(output, options)
	}
	return slog.New(handler)
}

// IsTerminal reports whether file is attached to a terminal.
func IsTerminal(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}
