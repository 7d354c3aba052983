// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the OAK tools.
//
// Configuration is loaded from a single file specified by:
//   - OAK_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections (development,
// staging, production) that override base values when the environment matches.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/oak/lib/oak"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the configuration shared by the oak and enigma commands.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Codec selects how strings are encoded.
	Codec CodecConfig `yaml:"codec"`

	// Keys selects where encryption keys come from and which one
	// encrypts.
	Keys KeysConfig `yaml:"keys"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Codec *CodecOverrides `yaml:"codec,omitempty"`
	Keys  *KeysConfig     `yaml:"keys,omitempty"`
}

// CodecOverrides is [CodecConfig] with every field optional. Empty
// strings and nil flags leave the base value in place.
type CodecOverrides struct {
	Redundancy  string `yaml:"redundancy"`
	Compression string `yaml:"compression"`
	Force       *bool  `yaml:"force"`
	Format      string `yaml:"format"`
	ForceV4     *bool  `yaml:"force_v4"`
}

// CodecConfig mirrors the encode options of [oak.Options] by name.
type CodecConfig struct {
	// Redundancy is one of none, crc32, sha1.
	// Default: crc32
	Redundancy string `yaml:"redundancy"`

	// Compression is one of none, lz4, zlib, bzip2, lzma.
	// Default: none
	Compression string `yaml:"compression"`

	// Force keeps the compression even when it grows the output.
	Force bool `yaml:"force"`

	// Format is one of none, base64.
	// Default: base64
	Format string `yaml:"format"`

	// ForceV4 writes version 4 envelopes without encryption.
	ForceV4 bool `yaml:"force_v4"`
}

// KeysConfig configures the key chain.
type KeysConfig struct {
	// Chain is the environment variable root of the key chain: with
	// chain FOO the names are read from FOO_KEYS and each key from
	// FOO_KEY_<name>. Empty means no key chain.
	Chain string `yaml:"chain"`

	// Key is the name of the key that encrypts. It must be in the
	// chain. Empty means no encryption.
	Key string `yaml:"key"`
}

// Default returns the default configuration, which matches the zero
// [oak.Options].
func Default() *Config {
	return &Config{
		Environment: Development,
		Codec: CodecConfig{
			Redundancy:  oak.RedundancyCRC32.String(),
			Compression: oak.CompressionNone.String(),
			Format:      oak.FormatBase64.String(),
		},
	}
}

// Load loads configuration from the OAK_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if OAK_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("OAK_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("OAK_CONFIG environment variable not set; " +
			"set it to the path of your oak.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables
// do not override config values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: strong redundancy unless the file says otherwise.
		if overrides == nil {
			overrides = &ConfigOverrides{
				Codec: &CodecOverrides{
					Redundancy: oak.RedundancySHA1.String(),
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Codec != nil {
		if overrides.Codec.Redundancy != "" {
			c.Codec.Redundancy = overrides.Codec.Redundancy
		}
		if overrides.Codec.Compression != "" {
			c.Codec.Compression = overrides.Codec.Compression
		}
		if overrides.Codec.Format != "" {
			c.Codec.Format = overrides.Codec.Format
		}
		if overrides.Codec.Force != nil {
			c.Codec.Force = *overrides.Codec.Force
		}
		if overrides.Codec.ForceV4 != nil {
			c.Codec.ForceV4 = *overrides.Codec.ForceV4
		}
	}

	if overrides.Keys != nil {
		if overrides.Keys.Chain != "" {
			c.Keys.Chain = overrides.Keys.Chain
		}
		if overrides.Keys.Key != "" {
			c.Keys.Key = overrides.Keys.Key
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if _, err := oak.ParseRedundancy(c.Codec.Redundancy); err != nil {
		errs = append(errs, fmt.Errorf("codec.redundancy must be one of %v: %w", oak.RedundancyNames(), err))
	}
	if _, err := oak.ParseCompression(c.Codec.Compression); err != nil {
		errs = append(errs, fmt.Errorf("codec.compression must be one of %v: %w", oak.CompressionNames(), err))
	}
	if _, err := oak.ParseFormat(c.Codec.Format); err != nil {
		errs = append(errs, fmt.Errorf("codec.format must be one of %v: %w", oak.FormatNames(), err))
	}

	if c.Keys.Key != "" && c.Keys.Chain == "" {
		errs = append(errs, fmt.Errorf("keys.key %q requires keys.chain", c.Keys.Key))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// KeyChain reads the configured key chain through lookup. It returns
// nil when no chain is configured.
func (c *Config) KeyChain(lookup oak.LookupFunc) (*oak.KeyChain, error) {
	if c.Keys.Chain == "" {
		return nil, nil
	}
	chain, err := oak.ParseEnvChain(lookup, c.Keys.Chain)
	if err != nil {
		return nil, fmt.Errorf("reading key chain %s: %w", c.Keys.Chain, err)
	}
	return chain, nil
}

// Options builds encode options from the configuration and keyChain.
func (c *Config) Options(keyChain *oak.KeyChain) (oak.Options, error) {
	if err := c.Validate(); err != nil {
		return oak.Options{}, err
	}
	redundancy, _ := oak.ParseRedundancy(c.Codec.Redundancy)
	compression, _ := oak.ParseCompression(c.Codec.Compression)
	format, _ := oak.ParseFormat(c.Codec.Format)

	options := oak.Options{
		Redundancy:  redundancy,
		Compression: compression,
		Force:       c.Codec.Force,
		Format:      format,
		KeyChain:    keyChain,
		Key:         c.Keys.Key,
		ForceV4:     c.Codec.ForceV4,
	}
	if options.Key != "" {
		if _, ok := keyChain.Lookup(options.Key); !ok {
			return oak.Options{}, fmt.Errorf("%w: key %q not in key chain %v", oak.ErrInvalidKey, options.Key, keyChain.Names())
		}
	}
	return options, nil
}
