// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 3}, 3},
		{"usage", Usage("bad flag %s", "--x"), 2},
		{"wrapped", fmt.Errorf("context: %w", &ExitError{Code: 4}), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{errors.New("boom"), "error: boom"},
		{&ExitError{Code: 1}, ""},
		{Usage("unknown mode %q", "x"), `error: unknown mode "x"`},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := &ExitError{Code: 2, Err: fmt.Errorf("wrapped: %w", sentinel)}
	if !errors.Is(err, sentinel) {
		t.Errorf("errors.Is(%v, sentinel) = false", err)
	}
}

func TestScanLines(t *testing.T) {
	input := "  hello \nworld\r\n\n\tlast"
	var got []string
	var numbers []int
	err := ScanLines(strings.NewReader(input), func(number int, line string) error {
		numbers = append(numbers, number)
		got = append(got, line)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanLines: %v", err)
	}
	if want := []string{"hello", "world", "", "last"}; !reflect.DeepEqual(got, want) {
		t.Errorf("lines = %q, want %q", got, want)
	}
	if want := []int{1, 2, 3, 4}; !reflect.DeepEqual(numbers, want) {
		t.Errorf("numbers = %v, want %v", numbers, want)
	}
}

func TestScanLinesStopsAtError(t *testing.T) {
	sentinel := errors.New("bad line")
	calls := 0
	err := ScanLines(strings.NewReader("a\nb\nc\n"), func(number int, line string) error {
		calls++
		if line == "b" {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("ScanLines error = %v, want sentinel", err)
	}
	if !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Errorf("ScanLines error = %q, want line number prefix", err)
	}
	if calls != 2 {
		t.Errorf("handle called %d times, want 2", calls)
	}
}

func TestNewLogger(t *testing.T) {
	var output bytes.Buffer
	logger := NewLogger(&output, false, false)
	logger.Debug("hidden")
	logger.Info("shown", "mode", "encode-lines")

	var record map[string]any
	if err := json.Unmarshal(output.Bytes(), &record); err != nil {
		t.Fatalf("non-terminal output is not one JSON record: %v: %q", err, output.String())
	}
	if record["msg"] != "shown" || record["mode"] != "encode-lines" {
		t.Errorf("record = %v", record)
	}

	output.Reset()
	logger = NewLogger(&output, true, true)
	logger.Debug("visible")
	if !strings.Contains(output.String(), "msg=visible") {
		t.Errorf("terminal verbose output = %q, want text record", output.String())
	}
}
