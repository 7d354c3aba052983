// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package oak

// Encode serializes the graph under root and wraps it as an OAK
// string.
//
// Returns an error wrapping [ErrUnsupported] if the graph holds an
// unsupported node and [ErrInvalidOption] if options are inconsistent.
func Encode(root Value, options Options) (string, error) {
	if _, err := options.validate(); err != nil {
		return "", err
	}
	serialized, err := Serialize(root)
	if err != nil {
		return "", err
	}
	return Wrap(serialized, options)
}

// Decode unwraps an OAK string and deserializes the graph it carries.
// Only options.KeyChain is consulted.
//
// Returns an error wrapping [ErrMalformed] for any string that is not
// a valid, intact OAK string readable with the supplied keys.
func Decode(text string, options Options) (Value, error) {
	serialized, err := Unwrap(text, options)
	if err != nil {
		return nil, err
	}
	return Deserialize(serialized)
}
