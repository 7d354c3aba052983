// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"hash/crc32"
	"strconv"
)

// computeCheck computes the redundancy check text of data.
func computeCheck(redundancy Redundancy, data []byte) (string, error) {
	switch redundancy {
	case RedundancyNone:
		return "0", nil
	case RedundancyCRC32:
		return strconv.FormatUint(uint64(crc32.ChecksumIEEE(data)), 10), nil
	case RedundancySHA1:
		digest := sha1.Sum(data)
		return hex.EncodeToString(digest[:]), nil
	default:
		return "", invalidOption("unknown redundancy %d", redundancy)
	}
}

// base64Encoding is the URL-safe alphabet without padding. Strict mode
// rejects encodings whose unused trailing bits are not zero, so every
// payload has exactly one accepted spelling.
var base64Encoding = base64.RawURLEncoding.Strict()

// formatPayload renders payload bytes as envelope text.
func formatPayload(format Format, data []byte) (string, error) {
	switch format {
	case FormatNone:
		return string(data), nil
	case FormatBase64:
		return base64Encoding.EncodeToString(data), nil
	default:
		return "", invalidOption("unknown format %d", format)
	}
}

// parsePayload inverts formatPayload.
func parsePayload(format Format, text string) ([]byte, error) {
	switch format {
	case FormatNone:
		return []byte(text), nil
	case FormatBase64:
		// The decoder skips CR and LF; a payload must not contain them.
		for index := 0; index < len(text); index++ {
			if !isBase64URL(text[index]) {
				return nil, malformed("byte %q in base64 payload", text[index])
			}
		}
		data, err := base64Encoding.DecodeString(text)
		if err != nil {
			return nil, malformed("base64 payload: %v", err)
		}
		return data, nil
	default:
		return nil, malformed("unknown format %d", format)
	}
}

func isBase64URL(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}
