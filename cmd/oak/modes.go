// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/bureau-foundation/oak/lib/cli"
	"github.com/bureau-foundation/oak/lib/oak"
)

// runMode processes stdin according to mode and returns the number of
// records written.
func runMode(mode string, input io.Reader, output io.Writer, options oak.Options) (int, error) {
	switch mode {
	case modeCat:
		return eachLine(input, func(line string) error {
			_, err := fmt.Fprintln(output, line)
			return err
		})
	case modeEncodeLines:
		return eachLine(input, func(line string) error {
			return encodeTo(output, oak.Str(line), options)
		})
	case modeDecodeLines:
		return eachLine(input, func(line string) error {
			value, err := oak.Decode(line, options)
			if err != nil {
				return err
			}
			return writeValue(output, value, true)
		})
	case modeEncodeFile:
		data, err := io.ReadAll(input)
		if err != nil {
			return 0, fmt.Errorf("reading stdin: %w", err)
		}
		return 1, encodeTo(output, oak.Str(string(data)), options)
	case modeDecodeFile:
		value, err := decodeAll(input, options)
		if err != nil {
			return 0, err
		}
		return 1, writeValue(output, value, false)
	case modeRecodeFile:
		value, err := decodeAll(input, options)
		if err != nil {
			return 0, err
		}
		return 1, encodeTo(output, value, options)
	}
	return 0, cli.Usage("unknown --mode %q", mode)
}

func eachLine(input io.Reader, handle func(line string) error) (int, error) {
	count := 0
	err := cli.ScanLines(input, func(_ int, line string) error {
		count++
		return handle(line)
	})
	return count, err
}

func encodeTo(output io.Writer, value oak.Value, options oak.Options) error {
	encoded, err := oak.Encode(value, options)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, encoded)
	return err
}

// decodeAll decodes all of input as one OAK string, ignoring
// surrounding whitespace.
func decodeAll(input io.Reader, options oak.Options) (oak.Value, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return oak.Decode(strings.TrimSpace(string(data)), options)
}

// writeValue writes strings and symbols as their raw bytes and every
// other value in its inspected form. Inspected values always end the
// line; raw text does so only when newline is set.
func writeValue(output io.Writer, value oak.Value, newline bool) error {
	var text string
	raw := true
	switch value := value.(type) {
	case oak.String:
		text = value.Text
	case oak.Symbol:
		text = value.Name
	default:
		text = oak.Inspect(value)
		raw = false
	}
	if newline || !raw {
		text += "\n"
	}
	_, err := io.WriteString(output, text)
	return err
}

// eigen encodes input, then encodes the result, count times, printing
// the growth ratio of each pass.
func eigen(input io.Reader, output io.Writer, count int, options oak.Options) error {
	data, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	previous := string(data)
	fmt.Fprintf(output, "input: %d\n", len(previous))
	for iteration := 0; iteration < count; iteration++ {
		encoded, err := oak.Encode(oak.Str(previous), options)
		if err != nil {
			return err
		}
		ratio := float64(len(encoded)) / float64(len(previous))
		fmt.Fprintf(output, "  iter %3d: %4d => %4d ratio %.2f\n", iteration, len(previous), len(encoded), ratio)
		previous = encoded
	}
	return nil
}

// crazySamples returns values that exercise the awkward corners of the
// format: repeated strings and symbols, container keys, cycles, shared
// children and special floats.
func crazySamples() []oak.Value {
	hello := []oak.Value{oak.Str("hello")}
	for i := 0; i < 2; i++ {
		hello = append(hello, oak.Str("hello"), oak.Sym("hello"))
	}
	repeated := make([]oak.Value, 13)
	for index := range repeated {
		repeated[index] = oak.Str("x")
	}

	cycleA := oak.NewList(oak.Str("cycle_a"))
	cycleB := oak.NewList(oak.Str("cycle_b"), cycleA)
	cycleA.Append(cycleB)

	dagC := oak.NewList(oak.Str("dag_c"))
	dagB := oak.NewList(oak.Str("dag_b"), dagC)
	dagA := oak.NewList(oak.Str("dag_a"), dagB, dagC)

	return []oak.Value{
		oak.Str("hello"),
		oak.NewList(hello...),
		oak.NewMap(
			oak.Entry{Key: oak.NewInt(1), Value: oak.Str("a")},
			oak.Entry{Key: oak.Str("b"), Value: oak.NewInt(2)},
			oak.Entry{Key: oak.NewList(), Value: oak.NewInt(3)},
			oak.Entry{Key: oak.Str(""), Value: oak.NewInt(4)},
			oak.Entry{Key: oak.NewMap(), Value: oak.NewInt(5)},
			oak.Entry{Key: oak.Null{}, Value: oak.NewInt(6)},
		),
		oak.NewList(repeated...),
		cycleA,
		dagA,
		oak.NewList(oak.NewInt(1), oak.NewInt(-123), oak.Float(0.12), oak.Float(-0.123),
			oak.Float(math.NaN()), oak.Float(math.Inf(-1)), oak.Float(3.14159265358979)),
	}
}

// crazy prints each sample beside its raw OAK string and checks that
// the string decodes back to the sample with options.
func crazy(output io.Writer, options oak.Options) error {
	raw := oak.Options{Redundancy: oak.RedundancyCRC32, Format: oak.FormatNone}
	unhappy := 0
	for _, sample := range crazySamples() {
		encoded, err := oak.Encode(sample, raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(output, "\nobj:   %s\n  oak: %s\n", oak.Inspect(sample), encoded)
		decoded, err := oak.Decode(encoded, options)
		switch {
		case err != nil:
			fmt.Fprintf(output, "  BAD: %v\n", err)
			unhappy++
		case !oak.Equal(decoded, sample):
			fmt.Fprintf(output, "  BAD: %s\n", oak.Inspect(decoded))
			unhappy++
		}
	}
	if unhappy > 0 {
		return fmt.Errorf("%d samples did not decode to themselves", unhappy)
	}
	return nil
}
