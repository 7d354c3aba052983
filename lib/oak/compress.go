// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
)

// lz4MaxRatio bounds the size an LZ4 block can claim to expand to. A
// single LZ4 sequence cannot expand by more than about 255 times, so a
// header claiming more than this is corrupt and is rejected before
// allocating.
const lz4MaxRatio = 255

// lzmaMaxDictCap caps the LZMA dictionary. Smaller inputs get a
// dictionary no larger than themselves. Streams whose header asks for
// more are rejected before the decoder allocates.
const lzmaMaxDictCap = 8 << 20

// lzmaMaxRatio bounds the expansion of an LZMA stream. Long runs of
// one byte compress by less than 8000 to 1.
const lzmaMaxRatio = 1 << 14

// lzmaUnknownSize is the header size field of a stream that ends with
// an end marker instead of declaring its length.
const lzmaUnknownSize = 1<<64 - 1

// compress applies compression to data. Unless force is set, output
// that is not strictly smaller than the input is discarded and the
// data is returned unchanged with CompressionNone.
func compress(compression Compression, force bool, data []byte) ([]byte, Compression, error) {
	var compressed []byte
	var err error
	switch compression {
	case CompressionNone:
		return data, CompressionNone, nil
	case CompressionLZ4:
		compressed, err = compressLZ4(data)
	case CompressionZlib:
		compressed, err = compressZlib(data)
	case CompressionBzip2:
		compressed, err = compressBzip2(data)
	case CompressionLZMA:
		compressed, err = compressLZMA(data)
	default:
		return nil, 0, invalidOption("unknown compression %d", compression)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s compress: %w", compression, err)
	}
	if !force && len(compressed) >= len(data) {
		return data, CompressionNone, nil
	}
	return compressed, compression, nil
}

// decompress inverts compress. Every failure is reported as
// ErrMalformed: the input came from an untrusted string.
func decompress(compression Compression, data []byte) ([]byte, error) {
	var decompressed []byte
	var err error
	switch compression {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		decompressed, err = decompressLZ4(data)
	case CompressionZlib:
		decompressed, err = readAllFrom(zlib.NewReader(bytes.NewReader(data)))
	case CompressionBzip2:
		decompressed, err = readAllFrom(bzip2.NewReader(bytes.NewReader(data), nil))
	case CompressionLZMA:
		decompressed, err = decompressLZMA(data)
	default:
		return nil, malformed("unknown compression %d", compression)
	}
	if err != nil {
		return nil, malformed("%s decompress: %v", compression, err)
	}
	return decompressed, nil
}

// readAllFrom drains a decompressing reader returned alongside its
// construction error.
func readAllFrom(reader io.Reader, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if closer, ok := reader.(io.Closer); ok {
		if closeErr := closer.Close(); err == nil {
			err = closeErr
		}
	}
	return data, err
}

// LZ4 payloads are the uvarint length of the original data followed by
// one raw LZ4 block.

func compressLZ4(data []byte) ([]byte, error) {
	output := binary.AppendUvarint(nil, uint64(len(data)))
	header := len(output)
	output = append(output, make([]byte, lz4.CompressBlockBound(len(data)))...)

	written, err := lz4.CompressBlock(data, output[header:], nil)
	if err != nil {
		return nil, err
	}
	// CompressBlock returns 0 for data it cannot shrink. Those inputs
	// are written as a block holding one literal run.
	if written == 0 {
		return appendLiteralBlock(output[:header], data), nil
	}
	return output[:header+written], nil
}

// appendLiteralBlock appends an LZ4 block whose only sequence is the
// literal run data.
func appendLiteralBlock(output, data []byte) []byte {
	length := len(data)
	if length < 15 {
		output = append(output, byte(length<<4))
	} else {
		output = append(output, 0xF0)
		for length -= 15; length >= 255; length -= 255 {
			output = append(output, 255)
		}
		output = append(output, byte(length))
	}
	return append(output, data...)
}

func decompressLZ4(data []byte) ([]byte, error) {
	size, headerLength := binary.Uvarint(data)
	if headerLength <= 0 {
		return nil, fmt.Errorf("bad length header")
	}
	block := data[headerLength:]
	if size > uint64(lz4MaxRatio*len(block)+16) {
		return nil, fmt.Errorf("length %d implausible for %d byte block", size, len(block))
	}
	if size == 0 {
		if len(block) > 1 || (len(block) == 1 && block[0] != 0) {
			return nil, fmt.Errorf("non-empty block for empty data")
		}
		return []byte{}, nil
	}
	destination := make([]byte, size)
	read, err := lz4.UncompressBlock(block, destination)
	if err != nil {
		return nil, err
	}
	if uint64(read) != size {
		return nil, fmt.Errorf("got %d bytes, expected %d", read, size)
	}
	return destination, nil
}

func compressZlib(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := zlib.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func compressBzip2(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer, err := bzip2.NewWriter(&buffer, &bzip2.WriterConfig{Level: bzip2.BestCompression})
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// decompressLZMA checks the 13 byte header against the limits the
// writer honours before building a decoder, so a corrupt dictionary or
// size field cannot force a large allocation.
func decompressLZMA(data []byte) ([]byte, error) {
	if len(data) < lzma.HeaderLen {
		return nil, fmt.Errorf("%d byte stream is shorter than the %d byte header", len(data), lzma.HeaderLen)
	}
	if _, err := lzma.PropertiesForCode(data[0]); err != nil {
		return nil, err
	}
	dictCap := binary.LittleEndian.Uint32(data[1:5])
	if dictCap > lzmaMaxDictCap {
		return nil, fmt.Errorf("dictionary of %d bytes exceeds %d", dictCap, lzmaMaxDictCap)
	}
	limit := uint64(lzmaMaxRatio) * uint64(len(data)-lzma.HeaderLen)
	size := binary.LittleEndian.Uint64(data[5:lzma.HeaderLen])
	if size != lzmaUnknownSize && size > limit {
		return nil, fmt.Errorf("length %d implausible for %d byte stream", size, len(data))
	}

	config := lzma.ReaderConfig{DictCap: lzma.MinDictCap}
	reader, err := config.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	decompressed, err := io.ReadAll(io.LimitReader(reader, int64(limit)+1))
	if err != nil {
		return nil, err
	}
	if uint64(len(decompressed)) > limit {
		return nil, fmt.Errorf("stream expands past %d bytes", limit)
	}
	return decompressed, nil
}

// LZMA payloads use the classic .lzma container with the uncompressed
// size recorded in the header.
func compressLZMA(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	config := lzma.WriterConfig{
		DictCap:      min(max(len(data), lzma.MinDictCap), lzmaMaxDictCap),
		SizeInHeader: true,
		Size:         int64(len(data)),
	}
	writer, err := config.NewWriter(&buffer)
	if err != nil {
		return nil, err
	}
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
