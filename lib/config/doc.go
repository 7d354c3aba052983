// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the oak and
// enigma commands.
//
// Configuration is loaded from a single file specified by either the
// OAK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks and no automatic file
// search. Command-line flags override the file; environment variables
// never do, except for the key material itself, which is read from the
// environment under the configured chain root.
//
// The configuration file supports environment-specific sections
// (development, staging, production) that override base values when
// [Config].Environment matches. Production defaults to sha1 redundancy.
//
// Key exports:
//
//   - [Config] -- master struct with Codec and Keys
//   - [Default] -- returns a Config matching the zero [oak.Options]
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Options] -- converts a validated Config into [oak.Options]
package config
