// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ExitError signals a specific non-zero exit code. With a nil Err the
// command has already written its own output and main exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}

// Silent reports whether main should exit without printing err.
func (e *ExitError) Silent() bool {
	return e.Err == nil
}

// Usage reports a command-line usage error, exit code 2.
func Usage(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Err: fmt.Errorf(format, args...)}
}

// ExitCode returns the exit code for an error returned by a run
// function: 0 for nil, the code of an [ExitError] anywhere in the
// chain, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// Message returns the text main prints for err, or "" when err is a
// silent [ExitError].
func Message(err error) string {
	if err == nil {
		return ""
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Silent() {
		return ""
	}
	return "error: " + err.Error()
}
