// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// enigma wraps secrets in encrypted OAK strings using the key chain
// rooted at ENIGMA: key names come from ENIGMA_KEYS and each key from
// ENIGMA_KEY_<name>. The first listed key encrypts. It offers no
// options beyond the operation, so there is no way to emit an
// unencrypted secret.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/oak/lib/cli"
	"github.com/bureau-foundation/oak/lib/oak"
	"github.com/bureau-foundation/oak/lib/version"
)

// chainRoot is the environment root of the enigma key chain.
const chainRoot = "ENIGMA"

func main() {
	err := run(os.Args[1:], environment{
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		lookup:         os.LookupEnv,
		stderrTerminal: cli.IsTerminal(os.Stderr),
	})
	if message := cli.Message(err); message != "" {
		fmt.Fprintln(os.Stderr, message)
	}
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

type environment struct {
	stdin          io.Reader
	stdout         io.Writer
	stderr         io.Writer
	lookup         oak.LookupFunc
	stderrTerminal bool
}

func run(args []string, env environment) error {
	var decrypt, encrypt, recrypt, keygen, keyshow, verbose, showVersion, help bool

	flagSet := pflag.NewFlagSet("enigma", pflag.ContinueOnError)
	flagSet.SetOutput(env.stderr)
	flagSet.BoolVar(&decrypt, "decrypt", false, "decrypt OAK from stdin using ENIGMA_KEYS")
	flagSet.BoolVar(&encrypt, "encrypt", false, "encrypt stdin using the first key in ENIGMA_KEYS")
	flagSet.BoolVar(&recrypt, "recrypt", false, "decrypt, then encrypt using the first key in ENIGMA_KEYS")
	flagSet.BoolVar(&keygen, "keygen", false, "generate a random key, emitted as *un*encrypted OAK")
	flagSet.BoolVar(&keyshow, "keyshow", false, "show the available keys in the ENIGMA key chain")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug records to stderr")
	flagSet.BoolVar(&showVersion, "version", false, "print version information")
	flagSet.BoolVarP(&help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(env.stderr, flagSet)
			return nil
		}
		return cli.Usage("%v", err)
	}
	if help {
		printHelp(env.stderr, flagSet)
		return nil
	}
	if showVersion {
		fmt.Fprintf(env.stdout, "enigma %s\n", version.Info())
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return cli.Usage("unexpected argument: %s", rest[0])
	}

	logger := cli.NewLogger(env.stderr, env.stderrTerminal, verbose).With("command", "enigma")

	if keygen {
		key, err := oak.RandomKey()
		if err != nil {
			return err
		}
		// Not encrypted: the output is material for a key chain.
		encoded, err := oak.Encode(oak.Binary(key.Bytes()), oak.Options{})
		if err != nil {
			return err
		}
		logger.Debug("generated key", "fingerprint", key.Fingerprint())
		_, err = fmt.Fprintln(env.stdout, encoded)
		return err
	}

	keyChain, err := oak.ParseEnvChain(env.lookup, chainRoot)
	if err != nil {
		return fmt.Errorf("failed to parse %s key chain: %w", chainRoot, err)
	}

	if decrypt {
		value, err := decodeInput(env.stdin, keyChain)
		if err != nil {
			return err
		}
		return writeLine(env.stdout, value)
	}

	if keyshow {
		_, err := fmt.Fprintln(env.stdout, strings.Join(keyChain.Names(), " "))
		return err
	}

	if !encrypt && !recrypt {
		printHelp(env.stderr, flagSet)
		return &cli.ExitError{Code: 2}
	}

	names := keyChain.Names()
	if len(names) == 0 {
		keys, _ := env.lookup(chainRoot + "_KEYS")
		return cli.Usage("no default key found in %s_KEYS: %q", chainRoot, keys)
	}
	defaultKey := names[0]

	var value oak.Value
	if recrypt {
		if value, err = decodeInput(env.stdin, keyChain); err != nil {
			return err
		}
	} else {
		data, err := io.ReadAll(env.stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		value = oak.Str(string(data))
	}

	encoded, err := oak.Encode(value, oak.Options{
		KeyChain: keyChain,
		Key:      defaultKey,
		// AES-256-GCM already authenticates the payload.
		Redundancy: oak.RedundancyNone,
		// Secrets are encrypted once and decrypted many times.
		Compression: oak.CompressionBzip2,
	})
	if err != nil {
		return err
	}
	if !strings.HasPrefix(encoded, "oak_4") {
		return fmt.Errorf("output is not oak_4")
	}
	if strings.HasPrefix(encoded, "oak_4_") {
		return fmt.Errorf("output is not encrypted")
	}
	key, _ := keyChain.Lookup(defaultKey)
	logger.Debug("encrypted", "key", defaultKey, "fingerprint", key.Fingerprint(), "size", len(encoded))
	_, err = fmt.Fprintln(env.stdout, encoded)
	return err
}

func decodeInput(input io.Reader, keyChain *oak.KeyChain) (oak.Value, error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return oak.Decode(strings.TrimSpace(string(data)), oak.Options{KeyChain: keyChain})
}

// writeLine writes a decrypted value followed by a newline unless its
// text already ends with one.
func writeLine(output io.Writer, value oak.Value) error {
	var text string
	switch value := value.(type) {
	case oak.String:
		text = value.Text
	case oak.Symbol:
		text = value.Name
	default:
		text = oak.Inspect(value)
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(output, text)
	return err
}

func printHelp(output io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(output, `enigma wraps secrets with OAK encryption.

Keys are read from the key chain in ENIGMA_KEYS; the first key listed
encrypts, and any key in the chain decrypts.

Usage:
  enigma [--encrypt | --decrypt | --recrypt | --keygen | --keyshow]

Examples:
  $ export ENIGMA_KEYS=foo,bar ENIGMA_KEY_foo=$(enigma --keygen) ENIGMA_KEY_bar=$(enigma --keygen)
  $ enigma --keyshow
  foo bar
  $ echo Hello | enigma --encrypt | enigma --decrypt
  Hello
  $ echo Hello | enigma --encrypt | ENIGMA_KEYS=bar,foo enigma --recrypt

Flags:
`)
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
}
