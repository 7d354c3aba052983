// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

import (
	"os"
	"strings"
)

// LookupFunc reads one variable from an environment. os.LookupEnv is
// the usual implementation.
type LookupFunc func(name string) (string, bool)

// EnvMap adapts a map to a [LookupFunc].
func EnvMap(environment map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		value, ok := environment[name]
		return value, ok
	}
}

// ParseEnvChain builds a key chain from environment variables. With
// root "FOO" it reads
//
//	FOO_KEYS=a,b
//	FOO_KEY_a=<OAK string of the 32 key bytes>
//	FOO_KEY_b=<OAK string of the 32 key bytes>
//
// FOO_KEYS lists key names separated by commas or spaces. Each key is
// itself an unencrypted OAK string holding a binary [String], which
// keeps raw key bytes out of the environment. A missing or empty
// FOO_KEYS yields an empty chain. A nil env reads the process
// environment.
//
// Returns an error wrapping [ErrInvalidKey] if a listed key is
// missing, does not decode, or is not [KeySize] bytes.
func ParseEnvChain(env LookupFunc, root string) (*KeyChain, error) {
	if env == nil {
		env = os.LookupEnv
	}
	list, _ := env(root + "_KEYS")
	names := strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ' ' })

	keys := make(map[string]Key, len(names))
	for _, name := range names {
		variable := root + "_KEY_" + name
		encoded, ok := env(variable)
		if !ok {
			return nil, invalidKey("%s is not set", variable)
		}
		value, err := Decode(encoded, Options{})
		if err != nil {
			return nil, invalidKey("%s: %v", variable, err)
		}
		material, ok := value.(String)
		if !ok {
			return nil, invalidKey("%s holds a %s, not a string", variable, value.Kind())
		}
		key, err := NewKey([]byte(material.Text))
		if err != nil {
			return nil, invalidKey("%s: %d bytes, want %d", variable, len(material.Text), KeySize)
		}
		if _, duplicate := keys[name]; duplicate {
			return nil, invalidKey("key %q listed twice in %s_KEYS", name, root)
		}
		keys[name] = key
	}
	return NewKeyChainOrdered(names, keys)
}
