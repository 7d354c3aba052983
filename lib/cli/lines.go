// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// MaxLineSize bounds a single input line. Encoded files are read
// whole, so this only limits the line modes.
const MaxLineSize = 64 << 20

// ScanLines calls handle with each line of input, surrounding
// whitespace removed, and its one-based line number. It stops at the
// first error from handle, wrapping it with the line number.
func ScanLines(input io.Reader, handle func(number int, line string) error) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	number := 0
	for scanner.Scan() {
		number++
		if err := handle(number, strings.TrimSpace(scanner.Text())); err != nil {
			return fmt.Errorf("line %d: %w", number, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input after line %d: %w", number, err)
	}
	return nil
}
