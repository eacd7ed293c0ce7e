// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Dealer-heartbeat binds the dealer's health endpoint and publishes a
// Health envelope every health.interval until SIGINT or SIGTERM, at
// which point it publishes a final Down report and exits.
//
// Usage:
//
//	dealer-heartbeat --config /etc/dealer/dealer.yaml
//
// The endpoint is endpoints.health in the config file; its encoding
// selects the wire format and health.currencies the advertised
// currencies.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/fiatbridge/dealer/cmd/internal/cli"
	"github.com/fiatbridge/dealer/lib/clock"
	"github.com/fiatbridge/dealer/lib/config"
	"github.com/fiatbridge/dealer/lib/process"
	"github.com/fiatbridge/dealer/lib/service"
	"github.com/fiatbridge/dealer/lib/socket"
	"github.com/fiatbridge/dealer/lib/version"
)

const binary = "dealer-heartbeat"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrExit) {
			return
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	var common cli.Common
	flagSet := pflag.NewFlagSet(binary, pflag.ContinueOnError)
	common.AddFlags(flagSet)
	flagSet.Usage = cli.Usage(flagSet, "Usage: dealer-heartbeat [--config FILE] [--log-level LEVEL]")

	if err := common.Parse(flagSet, binary, args); err != nil {
		return err
	}
	logger, err := common.Logger(binary)
	if err != nil {
		return err
	}
	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	endpoint, err := cfg.Endpoint(config.EndpointHealth)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := socket.NewContext(logger)
	defer transport.Close()

	publisher, err := transport.Publisher(endpoint.Address)
	if err != nil {
		return err
	}
	defer publisher.Close()

	reporter, err := service.NewHealthReporter(service.HealthConfig{
		Sender:     publisher,
		Encoding:   endpoint.Encoding,
		Interval:   cfg.Health.Interval,
		Currencies: cfg.Health.Currencies,
		Clock:      clock.Real(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	logger.Info("publishing health",
		append(version.LogAttrs(),
			"environment", string(cfg.Environment),
			"address", endpoint.Address,
			"encoding", endpoint.Encoding.String(),
			"interval", cfg.Health.Interval,
		)...,
	)

	go reporter.Run(ctx)
	<-reporter.Done()

	logger.Info("shutting down")
	return nil
}
