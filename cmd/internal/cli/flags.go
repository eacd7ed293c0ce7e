// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/fiatbridge/dealer/lib/config"
	"github.com/fiatbridge/dealer/lib/process"
	"github.com/fiatbridge/dealer/lib/version"
)

// ErrExit is returned by Common.Parse when the binary should exit
// successfully without running (after --help or --version).
var ErrExit = errors.New("exit requested")

// Common holds the flags every dealer binary accepts.
type Common struct {
	ConfigPath  string
	LogLevel    string
	ShowVersion bool
}

// AddFlags registers the common flags on flagSet.
func (c *Common) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.ConfigPath, "config", "", "path to dealer.yaml (default: $DEALER_CONFIG)")
	flagSet.StringVar(&c.LogLevel, "log-level", "info", "log level: debug, info, warn, or error")
	flagSet.BoolVar(&c.ShowVersion, "version", false, "print version information and exit")
}

// Parse parses args into flagSet and handles --help and --version.
// Usage errors are returned as a *process.ExitError with code 2.
func (c *Common) Parse(flagSet *pflag.FlagSet, binary string, args []string) error {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ErrExit
		}
		return &process.ExitError{Code: 2, Err: err}
	}
	if c.ShowVersion {
		version.Print(binary)
		return ErrExit
	}
	return nil
}

// Logger builds the binary's logger at the parsed --log-level.
func (c *Common) Logger(binary string) (*slog.Logger, error) {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return nil, &process.ExitError{Code: 2, Err: err}
	}
	return NewLogger(level).With("binary", binary), nil
}

// LoadConfig loads --config, or DEALER_CONFIG when the flag is unset,
// and validates it.
func (c *Common) LoadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if c.ConfigPath != "" {
		cfg, err = config.LoadFile(c.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Usage prints a usage header followed by the flag defaults to stderr.
func Usage(flagSet *pflag.FlagSet, synopsis string) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "%s\n\nFlags:\n%s", synopsis, flagSet.FlagUsages())
	}
}
