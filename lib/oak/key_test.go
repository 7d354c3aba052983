// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestNewKey(t *testing.T) {
	for _, size := range []int{0, 16, 31, 33, 64} {
		if _, err := NewKey(make([]byte, size)); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("NewKey(%d bytes) error = %v, want ErrInvalidKey", size, err)
		}
	}

	material := []byte(strings.Repeat("a", KeySize))
	key, err := NewKey(material)
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	material[0] = 'b'
	if key.Bytes()[0] != 'a' {
		t.Error("Key shares memory with the slice it was built from")
	}
	key.Bytes()[1] = 'c'
	if key.Bytes()[1] != 'a' {
		t.Error("Bytes exposes the key's own memory")
	}
}

func TestKeyFormattingHidesMaterial(t *testing.T) {
	secret := strings.Repeat("s", KeySize)
	key := mustKey(t, secret)
	for _, verb := range []string{"%v", "%+v", "%#v", "%s"} {
		text := fmt.Sprintf(verb, key)
		if strings.Contains(text, secret) || strings.Contains(text, "sss") {
			t.Errorf("Sprintf(%q, key) = %q exposes key material", verb, text)
		}
		if !strings.Contains(text, key.Fingerprint()) {
			t.Errorf("Sprintf(%q, key) = %q, want fingerprint %s", verb, text, key.Fingerprint())
		}
	}
	if fmt.Sprint(Key{}) != "oak.Key(invalid)" {
		t.Errorf("zero Key prints as %q", fmt.Sprint(Key{}))
	}
}

func TestKeyFingerprint(t *testing.T) {
	first := mustKey(t, strings.Repeat("a", KeySize))
	second := mustKey(t, strings.Repeat("b", KeySize))
	if first.Fingerprint() == second.Fingerprint() {
		t.Error("different keys share a fingerprint")
	}
	if first.Fingerprint() != mustKey(t, strings.Repeat("a", KeySize)).Fingerprint() {
		t.Error("fingerprint is not deterministic")
	}
	if len(first.Fingerprint()) != 16 {
		t.Errorf("fingerprint %q is not 16 hex digits", first.Fingerprint())
	}
}

func TestRandomKey(t *testing.T) {
	first, err := RandomKey()
	if err != nil {
		t.Fatalf("RandomKey: %v", err)
	}
	second, err := RandomKey()
	if err != nil {
		t.Fatalf("RandomKey: %v", err)
	}
	if bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("RandomKey returned the same key twice")
	}
}

func TestNewKeyChain(t *testing.T) {
	key := mustKey(t, strings.Repeat("k", KeySize))

	chain, err := NewKeyChain(map[string]Key{"b": key, "a": key, "Z9": key})
	if err != nil {
		t.Fatalf("NewKeyChain: %v", err)
	}
	if got, want := chain.Names(), []string{"Z9", "a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
	if _, ok := chain.Lookup("a"); !ok {
		t.Error("Lookup(a) missing")
	}
	if _, ok := chain.Lookup("c"); ok {
		t.Error("Lookup(c) found a key")
	}

	for _, name := range []string{"", "1a", "a_b", "a-b", "a b", "ключ"} {
		if _, err := NewKeyChain(map[string]Key{name: key}); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("NewKeyChain(%q) error = %v, want ErrInvalidKey", name, err)
		}
	}
	if _, err := NewKeyChain(map[string]Key{"a": {}}); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("NewKeyChain with zero Key: error = %v, want ErrInvalidKey", err)
	}
}

func TestNewKeyChainOrdered(t *testing.T) {
	key := mustKey(t, strings.Repeat("k", KeySize))
	keys := map[string]Key{"new": key, "old": key}

	chain, err := NewKeyChainOrdered([]string{"old", "new"}, keys)
	if err != nil {
		t.Fatalf("NewKeyChainOrdered: %v", err)
	}
	if got := chain.Names(); !reflect.DeepEqual(got, []string{"old", "new"}) {
		t.Errorf("Names = %v", got)
	}

	for _, names := range [][]string{{"old"}, {"old", "old"}, {"old", "other"}} {
		if _, err := NewKeyChainOrdered(names, keys); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("NewKeyChainOrdered(%v) error = %v, want ErrInvalidKey", names, err)
		}
	}
}

func TestNilKeyChain(t *testing.T) {
	var chain *KeyChain
	if _, ok := chain.Lookup("a"); ok {
		t.Error("nil chain found a key")
	}
	if chain.Len() != 0 || chain.Names() != nil {
		t.Error("nil chain is not empty")
	}
}
