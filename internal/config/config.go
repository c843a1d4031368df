// Package config centralizes CLI flag and environment-variable parsing
// shared by the touchdown subcommands, grounded on the teacher's
// flag.FlagSet usage in cmd/chessplay-uci/main.go.
package config

import (
	"flag"
	"os"
)

// DefaultKnownPath is the reference implementation's pinned location for
// the "known" scratch bitmap (spec.md SS6). TOUCHDOWN_KNOWN_PATH
// overrides it, per the spec's call for a portable, parameterized path.
const DefaultKnownPath = "/tmp/touchdown.known"

// KnownPathEnv is the environment variable that overrides DefaultKnownPath.
const KnownPathEnv = "TOUCHDOWN_KNOWN_PATH"

// Generate holds the parsed options for the `generate` subcommand.
type Generate struct {
	ValuePath string
	KnownPath string
	Fresh     bool
}

// ParseGenerate parses args (excluding the subcommand name itself) into a
// Generate config. valuePath is required as a positional argument.
func ParseGenerate(args []string) (Generate, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	knownPath := fs.String("known", knownPathDefault(), "path to the known-bitmap scratch file")
	fresh := fs.Bool("fresh", true, "truncate any pre-existing tablebase files before generating")

	if err := fs.Parse(args); err != nil {
		return Generate{}, err
	}

	if fs.NArg() < 1 {
		return Generate{}, flag.ErrHelp
	}

	return Generate{
		ValuePath: fs.Arg(0),
		KnownPath: *knownPath,
		Fresh:     *fresh,
	}, nil
}

// knownPathDefault resolves DefaultKnownPath, honoring KnownPathEnv.
func knownPathDefault() string {
	if v := os.Getenv(KnownPathEnv); v != "" {
		return v
	}
	return DefaultKnownPath
}
