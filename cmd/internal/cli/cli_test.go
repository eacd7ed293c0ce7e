// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/fiatbridge/dealer/lib/process"
)

func TestNewLoggerPicksHandler(t *testing.T) {
	var piped bytes.Buffer
	newLogger(&piped, false, slog.LevelInfo).Info("socket ready", "role", "publisher")
	var record map[string]any
	if err := json.Unmarshal(piped.Bytes(), &record); err != nil {
		t.Fatalf("piped output is not JSON: %q", piped.String())
	}
	if record["role"] != "publisher" {
		t.Errorf("record = %v", record)
	}

	var terminal bytes.Buffer
	newLogger(&terminal, true, slog.LevelInfo).Info("socket ready", "role", "publisher")
	if !strings.Contains(terminal.String(), "role=publisher") {
		t.Errorf("terminal output = %q", terminal.String())
	}

	var quiet bytes.Buffer
	newLogger(&quiet, false, slog.LevelWarn).Info("dropped")
	if quiet.Len() != 0 {
		t.Errorf("info logged at warn level: %q", quiet.String())
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "info": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestCommonParse(t *testing.T) {
	var common Common
	flagSet := pflag.NewFlagSet("dealer-test", pflag.ContinueOnError)
	flagSet.SetOutput(&bytes.Buffer{})
	common.AddFlags(flagSet)

	if err := common.Parse(flagSet, "dealer-test", []string{"--log-level", "debug", "--config", "/etc/dealer.yaml"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if common.LogLevel != "debug" || common.ConfigPath != "/etc/dealer.yaml" {
		t.Errorf("common = %+v", common)
	}

	err := common.Parse(flagSet, "dealer-test", []string{"--no-such-flag"})
	if process.ExitCode(err) != 2 {
		t.Errorf("unknown flag: error %v, exit code %d", err, process.ExitCode(err))
	}

	helpSet := pflag.NewFlagSet("dealer-test", pflag.ContinueOnError)
	helpSet.SetOutput(&bytes.Buffer{})
	var helped Common
	helped.AddFlags(helpSet)
	if err := helped.Parse(helpSet, "dealer-test", []string{"--help"}); !errors.Is(err, ErrExit) {
		t.Errorf("--help: %v, want ErrExit", err)
	}
}

func TestCommonLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dealer.yaml")
	content := "endpoints:\n  health:\n    address: inproc://health\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	common := Common{ConfigPath: path}
	cfg, err := common.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Endpoints["health"].Address != "inproc://health" {
		t.Errorf("endpoints = %v", cfg.Endpoints)
	}

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(broken, []byte("environment: qa\n"), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	common.ConfigPath = broken
	if _, err := common.LoadConfig(); err == nil || !strings.Contains(err.Error(), "invalid environment") {
		t.Errorf("LoadConfig(broken) = %v", err)
	}
}
