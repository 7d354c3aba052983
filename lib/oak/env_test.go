// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func encodeKey(t *testing.T, material string) string {
	t.Helper()
	encoded, err := Encode(Binary([]byte(material)), Options{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return encoded
}

func TestParseEnvChain(t *testing.T) {
	first := strings.Repeat("1", KeySize)
	second := strings.Repeat("2", KeySize)
	env := EnvMap(map[string]string{
		"FOO_KEYS":  ", a  ,,, b    ",
		"FOO_KEY_a": encodeKey(t, first),
		"FOO_KEY_b": encodeKey(t, second),
		"BAR_KEY_a": encodeKey(t, second),
	})

	chain, err := ParseEnvChain(env, "FOO")
	if err != nil {
		t.Fatalf("ParseEnvChain: %v", err)
	}
	if got := chain.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("Names = %v, want [a b]", got)
	}
	key, _ := chain.Lookup("a")
	if !bytes.Equal(key.Bytes(), []byte(first)) {
		t.Error("key a does not hold the encoded material")
	}
	key, _ = chain.Lookup("b")
	if !bytes.Equal(key.Bytes(), []byte(second)) {
		t.Error("key b does not hold the encoded material")
	}

	// A chain read from the environment encrypts and decrypts.
	encoded, err := Encode(Str("secret"), Options{KeyChain: chain, Key: "b"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded, Options{KeyChain: chain})
	if err != nil || !Equal(decoded, Str("secret")) {
		t.Errorf("Decode = %v, %v", decoded, err)
	}
}

func TestParseEnvChainEmpty(t *testing.T) {
	for _, list := range []string{"", " , ,"} {
		chain, err := ParseEnvChain(EnvMap(map[string]string{"FOO_KEYS": list}), "FOO")
		if err != nil {
			t.Fatalf("ParseEnvChain(%q): %v", list, err)
		}
		if chain.Len() != 0 {
			t.Errorf("ParseEnvChain(%q) has %d keys", list, chain.Len())
		}
	}
	chain, err := ParseEnvChain(EnvMap(nil), "FOO")
	if err != nil || chain.Len() != 0 {
		t.Errorf("ParseEnvChain without FOO_KEYS = %v, %v", chain, err)
	}
}

func TestParseEnvChainErrors(t *testing.T) {
	good := encodeKey(t, strings.Repeat("1", KeySize))
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing key", map[string]string{"FOO_KEYS": "a"}},
		{"empty key", map[string]string{"FOO_KEYS": "a", "FOO_KEY_a": ""}},
		{"not oak", map[string]string{"FOO_KEYS": "a", "FOO_KEY_a": strings.Repeat("1", KeySize)}},
		{"short key", map[string]string{"FOO_KEYS": "a", "FOO_KEY_a": encodeKey(t, "short")}},
		{"long key", map[string]string{"FOO_KEYS": "a", "FOO_KEY_a": encodeKey(t, strings.Repeat("1", KeySize+1))}},
		{"not a string", map[string]string{"FOO_KEYS": "a", "FOO_KEY_a": "oak_3NNN_0_4_F1I1_ok"}},
		{"bad name", map[string]string{"FOO_KEYS": "1a", "FOO_KEY_1a": good}},
		{"duplicate name", map[string]string{"FOO_KEYS": "a,a", "FOO_KEY_a": good}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEnvChain(EnvMap(tt.env), "FOO"); !errors.Is(err, ErrInvalidKey) {
				t.Errorf("ParseEnvChain error = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestParseEnvChainProcessEnvironment(t *testing.T) {
	t.Setenv("OAKTEST_KEYS", "k")
	t.Setenv("OAKTEST_KEY_k", encodeKey(t, strings.Repeat("p", KeySize)))

	chain, err := ParseEnvChain(nil, "OAKTEST")
	if err != nil {
		t.Fatalf("ParseEnvChain: %v", err)
	}
	if _, ok := chain.Lookup("k"); !ok {
		t.Error("key k missing from chain read from the process environment")
	}
}
