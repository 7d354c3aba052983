// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const (
	versionPrefix3 = "oak_3"
	versionPrefix4 = "oak_4"
	terminator     = "_ok"
)

// Options controls how [Wrap] and [Encode] frame their output and which
// keys [Unwrap] and [Decode] can use. The zero Options selects CRC-32
// redundancy, no compression and base64 formatting without encryption.
type Options struct {
	// Redundancy is the check computed over the original bytes.
	Redundancy Redundancy

	// Compression is the requested compression. Unless Force is set,
	// it is dropped when it would not make the payload smaller.
	Compression Compression

	// Force keeps the requested compression even when it grows the
	// payload.
	Force bool

	// Format is the textual rendering of the payload.
	Format Format

	// KeyChain supplies keys: the key named by Key when wrapping, and
	// whatever key an envelope names when unwrapping.
	KeyChain *KeyChain

	// Key names the key in KeyChain to encrypt with. Empty means no
	// encryption.
	Key string

	// DebugNonce fixes the encryption nonce. It exists so tests can
	// produce deterministic output; production callers leave it nil.
	// Reusing a nonce with the same key destroys confidentiality.
	DebugNonce []byte

	// ForceV4 writes a version 4 envelope even without encryption.
	ForceV4 bool
}

// envelopeCodes holds the wire characters for validated options.
type envelopeCodes struct {
	redundancy byte
	format     byte
}

func (options Options) validate() (envelopeCodes, error) {
	var codes envelopeCodes
	var ok bool
	if codes.redundancy, ok = redundancyTable.code(options.Redundancy); !ok {
		return codes, invalidOption("unknown redundancy %d", options.Redundancy)
	}
	if _, ok = compressionTable.code(options.Compression); !ok {
		return codes, invalidOption("unknown compression %d", options.Compression)
	}
	if codes.format, ok = formatTable.code(options.Format); !ok {
		return codes, invalidOption("unknown format %d", options.Format)
	}
	if options.DebugNonce != nil && len(options.DebugNonce) != NonceSize {
		return codes, invalidOption("debug nonce must be %d bytes, got %d", NonceSize, len(options.DebugNonce))
	}
	if options.Key != "" {
		if options.KeyChain == nil {
			return codes, invalidOption("key %q without a key chain", options.Key)
		}
		if _, ok := options.KeyChain.Lookup(options.Key); !ok {
			return codes, invalidOption("key %q not in key chain %v", options.Key, options.KeyChain.Names())
		}
	}
	return codes, nil
}

// Wrap frames data as an OAK string. A selected key, or ForceV4,
// produces a version 4 envelope; otherwise the output is version 3.
//
// Returns an error wrapping [ErrInvalidOption] if options are
// inconsistent.
func Wrap(data []byte, options Options) (string, error) {
	codes, err := options.validate()
	if err != nil {
		return "", err
	}
	if options.Key != "" || options.ForceV4 {
		return wrap4(data, options, codes)
	}
	return wrap3(data, options, codes)
}

// wrap3 writes
//
//	oak_3 R C F _ check _ size _ payload _ok
func wrap3(data []byte, options Options, codes envelopeCodes) (string, error) {
	sourceCheck, err := computeCheck(options.Redundancy, data)
	if err != nil {
		return "", err
	}
	compressed, compression, err := compress(options.Compression, options.Force, data)
	if err != nil {
		return "", err
	}
	compressionCode, _ := compressionTable.code(compression)
	formatted, err := formatPayload(options.Format, compressed)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	output.Grow(len(versionPrefix3) + len(sourceCheck) + len(formatted) + 32)
	output.WriteString(versionPrefix3)
	output.WriteByte(codes.redundancy)
	output.WriteByte(compressionCode)
	output.WriteByte(codes.format)
	output.WriteByte(separator)
	output.WriteString(sourceCheck)
	output.WriteByte(separator)
	output.WriteString(strconv.Itoa(len(formatted)))
	output.WriteByte(separator)
	output.WriteString(formatted)
	output.WriteString(terminator)
	return output.String(), nil
}

// wrap4 writes
//
//	oak_4 [key] _ F size _ payload _ok
//
// where payload is the formatted, possibly sealed, plaintext
//
//	R C check _ compressed
//
// The header up to and including F is authenticated with the
// ciphertext, so none of it can be altered without detection.
func wrap4(data []byte, options Options, codes envelopeCodes) (string, error) {
	header := versionPrefix4 + options.Key + string([]byte{separator, codes.format})

	sourceCheck, err := computeCheck(options.Redundancy, data)
	if err != nil {
		return "", err
	}
	compressed, compression, err := compress(options.Compression, options.Force, data)
	if err != nil {
		return "", err
	}
	compressionCode, _ := compressionTable.code(compression)

	plaintext := make([]byte, 0, 3+len(sourceCheck)+len(compressed))
	plaintext = append(plaintext, codes.redundancy, compressionCode)
	plaintext = append(plaintext, sourceCheck...)
	plaintext = append(plaintext, separator)
	plaintext = append(plaintext, compressed...)

	payload := plaintext
	if options.Key != "" {
		key, _ := options.KeyChain.Lookup(options.Key)
		if payload, err = seal(key, plaintext, []byte(header), options.DebugNonce); err != nil {
			return "", err
		}
	}
	formatted, err := formatPayload(options.Format, payload)
	if err != nil {
		return "", err
	}

	var output bytes.Buffer
	output.Grow(len(header) + len(formatted) + 16)
	output.WriteString(header)
	output.WriteString(strconv.Itoa(len(formatted)))
	output.WriteByte(separator)
	output.WriteString(formatted)
	output.WriteString(terminator)
	return output.String(), nil
}

// Unwrap inverts [Wrap]: it parses an OAK string of either version,
// verifies it and returns the original bytes. Only options.KeyChain is
// consulted; everything else is read from the envelope.
//
// Returns an error wrapping [ErrMalformed] if text is not a valid OAK
// string, fails authentication or fails its redundancy check, and
// [ErrMissingKey] if it names a key the chain does not hold.
func Unwrap(text string, options Options) ([]byte, error) {
	switch {
	case strings.HasPrefix(text, versionPrefix3):
		return unwrap3(text)
	case strings.HasPrefix(text, versionPrefix4):
		return unwrap4(text, options.KeyChain)
	default:
		return nil, malformed("missing oak_3 or oak_4 prefix")
	}
}

func unwrap3(text string) ([]byte, error) {
	scanner := &textScanner{data: []byte(text), position: len(versionPrefix3)}
	redundancy, compression, err := scanner.codecs()
	if err != nil {
		return nil, err
	}
	formatCode, _ := scanner.next()
	format, ok := formatTable.decode(formatCode)
	if !ok {
		return nil, malformed("bad format code %q", formatCode)
	}
	if !scanner.consume(separator) {
		return nil, malformed("missing separator after codecs")
	}
	sourceCheck, ok := scanner.check()
	if !ok || !scanner.consume(separator) {
		return nil, malformed("bad source check")
	}
	formatted, err := scanner.payload()
	if err != nil {
		return nil, err
	}

	compressed, err := parsePayload(format, formatted)
	if err != nil {
		return nil, err
	}
	return verify(redundancy, compression, sourceCheck, compressed)
}

func unwrap4(text string, keyChain *KeyChain) ([]byte, error) {
	scanner := &textScanner{data: []byte(text), position: len(versionPrefix4)}
	nameEnd := bytes.IndexByte(scanner.rest(), separator)
	if nameEnd < 0 {
		return nil, malformed("missing separator after version")
	}
	keyName := string(scanner.rest()[:nameEnd])
	scanner.position += nameEnd + 1

	var key Key
	if keyName != "" {
		if keyChain == nil {
			return nil, fmt.Errorf("%w %q: no key chain", ErrMissingKey, keyName)
		}
		var ok bool
		if key, ok = keyChain.Lookup(keyName); !ok {
			return nil, fmt.Errorf("%w %q: not in key chain %v", ErrMissingKey, keyName, keyChain.Names())
		}
	}

	formatCode, _ := scanner.next()
	format, ok := formatTable.decode(formatCode)
	if !ok {
		return nil, malformed("bad format code %q", formatCode)
	}
	header := text[:scanner.position]
	formatted, err := scanner.payload()
	if err != nil {
		return nil, err
	}

	plaintext, err := parsePayload(format, formatted)
	if err != nil {
		return nil, err
	}
	if keyName != "" {
		if plaintext, err = open(key, plaintext, []byte(header)); err != nil {
			return nil, err
		}
	}

	inner := &textScanner{data: plaintext}
	redundancy, compression, err := inner.codecs()
	if err != nil {
		return nil, err
	}
	sourceCheck, ok := inner.check()
	if !ok || !inner.consume(separator) {
		return nil, malformed("bad source check")
	}
	return verify(redundancy, compression, sourceCheck, inner.rest())
}

// verify decompresses the payload and compares its redundancy check.
func verify(redundancy Redundancy, compression Compression, sourceCheck string, compressed []byte) ([]byte, error) {
	original, err := decompress(compression, compressed)
	if err != nil {
		return nil, err
	}
	recomputed, err := computeCheck(redundancy, original)
	if err != nil {
		return nil, malformed("%v", err)
	}
	if recomputed != sourceCheck {
		return nil, malformed("check mismatch")
	}
	return original, nil
}

// codecs reads the redundancy and compression codes.
func (scanner *textScanner) codecs() (Redundancy, Compression, error) {
	redundancyCode, _ := scanner.next()
	redundancy, ok := redundancyTable.decode(redundancyCode)
	if !ok {
		return 0, 0, malformed("bad redundancy code %q", redundancyCode)
	}
	compressionCode, _ := scanner.next()
	compression, ok := compressionTable.decode(compressionCode)
	if !ok {
		return 0, 0, malformed("bad compression code %q", compressionCode)
	}
	return redundancy, compression, nil
}

// check consumes [a-f0-9]+.
func (scanner *textScanner) check() (string, bool) {
	start := scanner.position
	for scanner.position < len(scanner.data) {
		c := scanner.data[scanner.position]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			break
		}
		scanner.position++
	}
	return string(scanner.data[start:scanner.position]), scanner.position > start
}

// payload consumes "size _ payload _ok", which must end the input
// exactly, and returns the payload.
func (scanner *textScanner) payload() (string, error) {
	size, ok := scanner.count()
	if !ok || !scanner.consume(separator) {
		return "", malformed("bad payload size")
	}
	if size > scanner.remaining() {
		return "", malformed("payload of %d bytes truncated to %d", size, scanner.remaining())
	}
	payload := string(scanner.data[scanner.position : scanner.position+size])
	scanner.position += size
	if string(scanner.rest()) != terminator {
		return "", malformed("missing %s terminator", terminator)
	}
	return payload, nil
}
