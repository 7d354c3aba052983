// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the pieces shared by the oak and enigma commands:
// the command logger, exit codes, and line-oriented input.
//
// [NewCommandLogger] writes human-readable text to a terminal and JSON
// records everywhere else. [ExitError] carries a process exit code
// through a command's run function back to main, which reads it with
// [ExitCode]. [ScanLines] feeds trimmed input lines to a callback.
package cli
