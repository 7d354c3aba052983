// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// oak is the command-line driver for OAK strings. It encodes and
// decodes lines or whole files from stdin, generates and checks keys,
// and measures how encoding grows its input.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/oak/lib/cli"
	"github.com/bureau-foundation/oak/lib/config"
	"github.com/bureau-foundation/oak/lib/oak"
	"github.com/bureau-foundation/oak/lib/version"
)

func main() {
	err := run(os.Args[1:], processEnvironment())
	if message := cli.Message(err); message != "" {
		fmt.Fprintln(os.Stderr, message)
	}
	if err != nil {
		os.Exit(cli.ExitCode(err))
	}
}

// environment is everything run touches outside its arguments.
type environment struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// lookup reads environment variables: OAK_CONFIG and the key chain.
	lookup oak.LookupFunc

	// interactive is true when stdin is a terminal, in which case
	// there is no input to process.
	interactive bool

	// stderrTerminal selects text rather than JSON log records.
	stderrTerminal bool
}

func processEnvironment() environment {
	return environment{
		stdin:          os.Stdin,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		lookup:         os.LookupEnv,
		interactive:    cli.IsTerminal(os.Stdin),
		stderrTerminal: cli.IsTerminal(os.Stderr),
	}
}

// Modes accepted by --mode.
const (
	modeEncodeLines = "encode-lines"
	modeDecodeLines = "decode-lines"
	modeEncodeFile  = "encode-file"
	modeDecodeFile  = "decode-file"
	modeRecodeFile  = "recode-file"
	modeCat         = "cat"
	modeCrazy       = "crazy"
)

var modes = []string{modeEncodeLines, modeDecodeLines, modeEncodeFile, modeDecodeFile, modeRecodeFile, modeCat, modeCrazy}

type flags struct {
	configPath  string
	redundancy  string
	compression string
	force       bool
	format      string
	forceV4     bool
	keyChain    string
	key         string
	mode        string
	keyCheck    bool
	keyGenerate bool
	eigen       int
	verbose     bool
	version     bool
	help        bool
}

func newFlagSet(f *flags, output io.Writer) *pflag.FlagSet {
	defaults := config.Default()
	flagSet := pflag.NewFlagSet("oak", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&f.configPath, "config", "", "path to oak.yaml (default: $OAK_CONFIG, if set)")
	flagSet.StringVar(&f.redundancy, "redundancy", defaults.Codec.Redundancy, "redundancy check: "+strings.Join(oak.RedundancyNames(), ", "))
	flagSet.StringVar(&f.compression, "compression", defaults.Codec.Compression, "compression: "+strings.Join(oak.CompressionNames(), ", "))
	flagSet.BoolVar(&f.force, "force", false, "compress even if bigger")
	flagSet.StringVar(&f.format, "format", defaults.Codec.Format, "payload format: "+strings.Join(oak.FormatNames(), ", "))
	flagSet.BoolVar(&f.forceV4, "force-v4", false, "write oak_4 even when not encrypting")
	flagSet.StringVar(&f.keyChain, "key-chain", "", "key chain environment root (reads <ROOT>_KEYS and <ROOT>_KEY_<name>)")
	flagSet.StringVar(&f.key, "key", "", "name of the key to encrypt with")
	flagSet.StringVar(&f.mode, "mode", modeEncodeLines, "mode: "+strings.Join(modes, ", "))
	flagSet.BoolVar(&f.keyCheck, "key-check", false, "report the keys available in --key-chain")
	flagSet.BoolVar(&f.keyGenerate, "key-generate", false, "print a new random key as an unencrypted OAK string")
	flagSet.IntVar(&f.eigen, "eigen", 0, "re-encode stdin N times and report the size ratio of each pass")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log debug records to stderr")
	flagSet.BoolVar(&f.version, "version", false, "print version information")
	flagSet.BoolVarP(&f.help, "help", "h", false, "show help")
	return flagSet
}

func run(args []string, env environment) error {
	var f flags
	flagSet := newFlagSet(&f, env.stderr)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(env.stderr, flagSet)
			return nil
		}
		return cli.Usage("%v", err)
	}
	if f.help {
		printHelp(env.stderr, flagSet)
		return nil
	}
	if f.version {
		fmt.Fprintf(env.stdout, "oak %s\n", version.Full())
		return nil
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return cli.Usage("unexpected argument: %s", rest[0])
	}
	if f.eigen < 0 {
		return cli.Usage("--eigen must be non-negative, got %d", f.eigen)
	}
	if !contains(modes, f.mode) {
		return cli.Usage("unknown --mode %q; want one of %s", f.mode, strings.Join(modes, ", "))
	}

	logger := cli.NewLogger(env.stderr, env.stderrTerminal, f.verbose).With("command", "oak")

	cfg, err := loadConfig(f, flagSet, env.lookup)
	if err != nil {
		return err
	}
	keyChain, err := cfg.KeyChain(env.lookup)
	if err != nil {
		return err
	}
	logKeyChain(logger, cfg.Keys.Chain, keyChain)
	options, err := cfg.Options(keyChain)
	if err != nil {
		return cli.Usage("%v", err)
	}

	if f.keyCheck {
		checkKeys(env.stdout, cfg.Keys.Chain, keyChain)
	}
	if f.keyGenerate {
		return generateKey(env.stdout)
	}
	if f.mode == modeCrazy {
		return crazy(env.stdout, options)
	}
	if env.interactive {
		return nil
	}

	if flagSet.Changed("eigen") {
		return eigen(env.stdin, env.stdout, f.eigen, options)
	}

	logger = logger.With("mode", f.mode)
	count, err := runMode(f.mode, env.stdin, env.stdout, options)
	if err != nil {
		return err
	}
	logger.Debug("done", "records", count)
	return nil
}

// loadConfig reads the configuration file named by --config or
// OAK_CONFIG, if any, then applies the flags that were set.
func loadConfig(f flags, flagSet *pflag.FlagSet, lookup oak.LookupFunc) (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path, _ = lookup("OAK_CONFIG")
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	if flagSet.Changed("redundancy") {
		cfg.Codec.Redundancy = f.redundancy
	}
	if flagSet.Changed("compression") {
		cfg.Codec.Compression = f.compression
	}
	if flagSet.Changed("force") {
		cfg.Codec.Force = f.force
	}
	if flagSet.Changed("format") {
		cfg.Codec.Format = f.format
	}
	if flagSet.Changed("force-v4") {
		cfg.Codec.ForceV4 = f.forceV4
	}
	if flagSet.Changed("key-chain") {
		cfg.Keys.Chain = f.keyChain
	}
	if flagSet.Changed("key") {
		cfg.Keys.Key = f.key
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Usage("%v", err)
	}
	return cfg, nil
}

func logKeyChain(logger *slog.Logger, root string, keyChain *oak.KeyChain) {
	if keyChain == nil {
		return
	}
	for _, name := range keyChain.Names() {
		key, _ := keyChain.Lookup(name)
		logger.Debug("key loaded", "chain", root, "name", name, "fingerprint", key.Fingerprint())
	}
}

func checkKeys(output io.Writer, root string, keyChain *oak.KeyChain) {
	switch {
	case root == "":
		fmt.Fprintln(output, "no --key-chain specified")
	case keyChain.Len() == 0:
		fmt.Fprintf(output, "%s: no keys found\n", root)
	default:
		fmt.Fprintf(output, "%s: found keys: %s\n", root, strings.Join(keyChain.Names(), " "))
	}
}

func generateKey(output io.Writer) error {
	key, err := oak.RandomKey()
	if err != nil {
		return err
	}
	encoded, err := oak.Encode(oak.Binary(key.Bytes()), oak.Options{})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, encoded)
	return err
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}

func printHelp(output io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(output, `oak encodes and decodes OAK strings.

Input is read from stdin and ignored when stdin is a terminal. Line
modes trim each line. Decoded strings and symbols are written as-is;
other values are written in a readable form. The crazy mode reads
nothing and prints sample values beside their OAK strings.

Usage:
  oak [flags]

Examples:
  $ echo hello | oak
  oak_3CNB_1944283675_15_RjFTVTVfaGVsbG8_ok
  $ echo hello | oak --format none
  oak_3CNN_1944283675_11_F1SU5_hello_ok
  $ (echo hello; echo world) | oak | oak --mode decode-lines
  hello
  world
  $ export OAK_KEYS=main OAK_KEY_main=$(oak --key-generate)
  $ echo secret | oak --key-chain OAK --key main

Flags:
`)
	flagSet.SetOutput(output)
	flagSet.PrintDefaults()
}
