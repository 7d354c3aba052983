// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// NonceSize is the AES-GCM nonce length in bytes.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag length in bytes.
	TagSize = 16

	// SealedOverhead is the number of bytes sealing adds to a
	// plaintext: the nonce and the tag.
	SealedOverhead = NonceSize + TagSize
)

// RandomNonce returns a fresh nonce from the operating system's random
// source.
func RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generating random nonce: %w", err)
	}
	return nonce, nil
}

func newGCM(key Key) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.material[:])
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}

// seal encrypts plaintext with AES-256-GCM, authenticating
// associatedData alongside it, and returns
//
//	[nonce: 12 bytes] [tag: 16 bytes] [ciphertext]
//
// A nil nonce draws a random one.
func seal(key Key, plaintext, associatedData, nonce []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if nonce == nil {
		if nonce, err = RandomNonce(); err != nil {
			return nil, err
		}
	}
	if len(nonce) != NonceSize {
		return nil, invalidOption("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}

	// Seal produces ciphertext followed by the tag. The envelope puts
	// the tag first so both fixed-width fields lead the buffer.
	sealed := aead.Seal(nil, nonce, plaintext, associatedData)
	ciphertext, tag := sealed[:len(plaintext)], sealed[len(plaintext):]

	output := make([]byte, 0, SealedOverhead+len(plaintext))
	output = append(output, nonce...)
	output = append(output, tag...)
	return append(output, ciphertext...), nil
}

// open inverts seal. Any failure, including a buffer too short to hold
// the nonce and tag, is reported as ErrMalformed.
func open(key Key, sealed, associatedData []byte) ([]byte, error) {
	if len(sealed) < SealedOverhead {
		return nil, malformed("encrypted payload is %d bytes, minimum is %d", len(sealed), SealedOverhead)
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := sealed[:NonceSize]
	tag := sealed[NonceSize:SealedOverhead]
	ciphertext := sealed[SealedOverhead:]

	joined := make([]byte, 0, len(ciphertext)+TagSize)
	joined = append(joined, ciphertext...)
	joined = append(joined, tag...)
	plaintext, err := aead.Open(nil, nonce, joined, associatedData)
	if err != nil {
		return nil, malformed("authentication failed")
	}
	return plaintext, nil
}
