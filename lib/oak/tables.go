// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import "fmt"

// Redundancy selects the check computed over the original bytes.
type Redundancy uint8

const (
	// RedundancyCRC32 is the IEEE CRC-32, written in decimal.
	RedundancyCRC32 Redundancy = iota
	// RedundancyNone writes the constant check "0".
	RedundancyNone
	// RedundancySHA1 is the SHA-1 digest, written in lowercase hex.
	RedundancySHA1
)

// Compression selects the algorithm applied to the original bytes.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionLZ4
	CompressionZlib
	CompressionBzip2
	CompressionLZMA
)

// Format selects how the payload is rendered as text.
type Format uint8

const (
	// FormatBase64 is URL-safe base64 without padding.
	FormatBase64 Format = iota
	// FormatNone writes the payload bytes unchanged.
	FormatNone
)

// codecEntry describes one member of an option enum: the name used in
// configuration and on the command line, and the single character that
// represents it on the wire.
type codecEntry[T ~uint8] struct {
	value T
	name  string
	code  byte
}

// codecTable is a read-only bidirectional index over an enum. Tables
// are built during package initialisation and never written afterwards.
type codecTable[T ~uint8] struct {
	kind    string
	entries []codecEntry[T]
	byName  map[string]T
	byCode  map[byte]T
	byValue map[T]codecEntry[T]
}

func newCodecTable[T ~uint8](kind string, entries ...codecEntry[T]) *codecTable[T] {
	table := &codecTable[T]{
		kind:    kind,
		entries: entries,
		byName:  make(map[string]T, len(entries)),
		byCode:  make(map[byte]T, len(entries)),
		byValue: make(map[T]codecEntry[T], len(entries)),
	}
	for _, entry := range entries {
		if _, exists := table.byCode[entry.code]; exists {
			panic(fmt.Sprintf("oak: duplicate %s code %q", kind, entry.code))
		}
		table.byName[entry.name] = entry.value
		table.byCode[entry.code] = entry.value
		table.byValue[entry.value] = entry
	}
	return table
}

func (table *codecTable[T]) name(value T) string {
	if entry, ok := table.byValue[value]; ok {
		return entry.name
	}
	return fmt.Sprintf("%s(%d)", table.kind, uint8(value))
}

func (table *codecTable[T]) code(value T) (byte, bool) {
	entry, ok := table.byValue[value]
	return entry.code, ok
}

func (table *codecTable[T]) decode(code byte) (T, bool) {
	value, ok := table.byCode[code]
	return value, ok
}

func (table *codecTable[T]) parse(name string) (T, error) {
	if value, ok := table.byName[name]; ok {
		return value, nil
	}
	return 0, invalidOption("unknown %s %q", table.kind, name)
}

func (table *codecTable[T]) names() []string {
	names := make([]string, len(table.entries))
	for index, entry := range table.entries {
		names[index] = entry.name
	}
	return names
}

var (
	redundancyTable = newCodecTable("redundancy",
		codecEntry[Redundancy]{RedundancyNone, "none", 'N'},
		codecEntry[Redundancy]{RedundancyCRC32, "crc32", 'C'},
		codecEntry[Redundancy]{RedundancySHA1, "sha1", 'S'},
	)

	compressionTable = newCodecTable("compression",
		codecEntry[Compression]{CompressionNone, "none", 'N'},
		codecEntry[Compression]{CompressionLZ4, "lz4", '4'},
		codecEntry[Compression]{CompressionZlib, "zlib", 'Z'},
		codecEntry[Compression]{CompressionBzip2, "bzip2", 'B'},
		codecEntry[Compression]{CompressionLZMA, "lzma", 'M'},
	)

	formatTable = newCodecTable("format",
		codecEntry[Format]{FormatNone, "none", 'N'},
		codecEntry[Format]{FormatBase64, "base64", 'B'},
	)
)

func (redundancy Redundancy) String() string { return redundancyTable.name(redundancy) }

func (compression Compression) String() string { return compressionTable.name(compression) }

func (format Format) String() string { return formatTable.name(format) }

// ParseRedundancy returns the redundancy named name ("none", "crc32",
// "sha1").
func ParseRedundancy(name string) (Redundancy, error) { return redundancyTable.parse(name) }

// ParseCompression returns the compression named name ("none", "lz4",
// "zlib", "bzip2", "lzma").
func ParseCompression(name string) (Compression, error) { return compressionTable.parse(name) }

// ParseFormat returns the format named name ("none", "base64").
func ParseFormat(name string) (Format, error) { return formatTable.parse(name) }

// RedundancyNames lists the accepted redundancy names.
func RedundancyNames() []string { return redundancyTable.names() }

// CompressionNames lists the accepted compression names.
func CompressionNames() []string { return compressionTable.names() }

// FormatNames lists the accepted format names.
func FormatNames() []string { return formatTable.names() }
