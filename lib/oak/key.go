// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/zeebo/blake3"
)

// KeySize is the length in bytes of an AES-256 key.
const KeySize = 32

// keyNamePattern restricts key names to identifier-like tokens so that
// a name can sit in an envelope header without any escaping.
var keyNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

// fingerprintDomain separates key fingerprints from any other BLAKE3
// hash of the same bytes.
var fingerprintDomain = []byte("oak.key.fingerprint.v1")

// Key is a 256-bit encryption key. The zero Key is not a valid key;
// obtain one from [NewKey] or [RandomKey].
//
// Formatting a Key with fmt never prints the key material, only a
// short fingerprint that tells keys apart.
type Key struct {
	material [KeySize]byte
	valid    bool
}

// NewKey returns a Key holding a copy of material, which must be
// exactly [KeySize] bytes.
func NewKey(material []byte) (Key, error) {
	if len(material) != KeySize {
		return Key{}, invalidKey("key must be %d bytes, got %d", KeySize, len(material))
	}
	key := Key{valid: true}
	copy(key.material[:], material)
	return key, nil
}

// RandomKey returns a fresh key from the operating system's random
// source.
func RandomKey() (Key, error) {
	var material [KeySize]byte
	if _, err := io.ReadFull(rand.Reader, material[:]); err != nil {
		return Key{}, fmt.Errorf("generating random key: %w", err)
	}
	return Key{material: material, valid: true}, nil
}

// Bytes returns a copy of the key material.
func (key Key) Bytes() []byte {
	material := key.material
	return material[:]
}

// Fingerprint returns the first eight bytes of a domain-separated
// BLAKE3 hash of the key, in hex. It is safe to log.
func (key Key) Fingerprint() string {
	hasher := blake3.New()
	hasher.Write(fingerprintDomain)
	hasher.Write(key.material[:])
	return hex.EncodeToString(hasher.Sum(nil)[:8])
}

func (key Key) String() string {
	if !key.valid {
		return "oak.Key(invalid)"
	}
	return "oak.Key(" + key.Fingerprint() + ")"
}

func (key Key) GoString() string { return key.String() }

// KeyChain is an immutable set of named keys. Envelopes name the key
// that sealed them, so a chain holding both old and new keys can read
// strings written before and after a key rotation.
type KeyChain struct {
	keys  map[string]Key
	names []string
}

// NewKeyChain builds a chain from keys. Names must match
// [A-Za-z][A-Za-z0-9]* and every key must be valid. Names() reports
// the names in sorted order.
func NewKeyChain(keys map[string]Key) (*KeyChain, error) {
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return NewKeyChainOrdered(names, keys)
}

// NewKeyChainOrdered builds a chain whose Names() follows names, which
// must list every key in keys exactly once.
func NewKeyChainOrdered(names []string, keys map[string]Key) (*KeyChain, error) {
	if len(names) != len(keys) {
		return nil, invalidKey("%d names for %d keys", len(names), len(keys))
	}
	chain := &KeyChain{
		keys:  make(map[string]Key, len(keys)),
		names: append([]string(nil), names...),
	}
	for _, name := range names {
		if !keyNamePattern.MatchString(name) {
			return nil, invalidKey("bad key name %q", name)
		}
		key, ok := keys[name]
		if !ok {
			return nil, invalidKey("no key for name %q", name)
		}
		if !key.valid {
			return nil, invalidKey("key %q is not initialized", name)
		}
		if _, duplicate := chain.keys[name]; duplicate {
			return nil, invalidKey("key name %q listed twice", name)
		}
		chain.keys[name] = key
	}
	return chain, nil
}

// Lookup returns the key called name. A nil chain holds no keys.
func (chain *KeyChain) Lookup(name string) (Key, bool) {
	if chain == nil {
		return Key{}, false
	}
	key, ok := chain.keys[name]
	return key, ok
}

// Names returns the key names.
func (chain *KeyChain) Names() []string {
	if chain == nil {
		return nil
	}
	return append([]string(nil), chain.names...)
}

// Len returns the number of keys.
func (chain *KeyChain) Len() int {
	if chain == nil {
		return 0
	}
	return len(chain.keys)
}

func (chain *KeyChain) String() string {
	return fmt.Sprintf("oak.KeyChain%v", chain.Names())
}
