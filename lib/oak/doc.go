// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oak implements OAK, a self-describing codec that turns value
// graphs into compact, corruption-detecting, optionally encrypted text
// strings and back.
//
// OAK has two layers:
//
//   - The structure layer ([Serialize], [Deserialize]) flattens a value
//     graph into the FRIZZY intermediate encoding. Containers are
//     identified by pointer, so shared substructure and cycles survive
//     a round trip: every distinct node is written once into an ordered
//     seen list and containers refer to their children by index.
//   - The byte layer ([Wrap], [Unwrap]) frames arbitrary bytes with a
//     redundancy check, optional compression, optional AES-256-GCM
//     encryption and a text format. Version 3 envelopes carry all
//     metadata in cleartext. Version 4 envelopes expose only what is
//     needed to decrypt and authenticate everything.
//
// [Encode] and [Decode] compose the two layers and are the entry points
// for most callers:
//
//	text, err := oak.Encode(oak.NewList(oak.NewInt(1), oak.Str("two")), oak.Options{})
//	value, err := oak.Decode(text, oak.Options{})
//
// The supported value kinds are [Null], [Bool], [Int], [Float],
// [String], [Symbol], [*List] and [*Map]. Anything else reachable from
// the root fails with [ErrUnsupported].
//
// Encryption keys are [Key] values collected in an immutable
// [KeyChain]. Selecting a key name in [Options] encrypts; the key name
// travels in the envelope so that [Decode] can find the matching key in
// its own chain, which is what makes key rotation possible.
// [ParseEnvChain] builds a chain from environment variables.
//
// Errors fall into three classes, tested with errors.Is:
// [ErrUnsupported], [ErrMalformed] (including [ErrMissingKey]) and
// [ErrInvalidOption] (including [ErrInvalidKey]). Decoding never
// reports why a string is bad beyond the message text: corruption in
// transit, a string that was never valid and a wrong key all surface
// as [ErrMalformed].
//
// Every function in this package is safe for concurrent use. The codec
// tables are built once at package initialisation and never mutated.
package oak
