// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Dealer-tap subscribes to a dealer publisher and prints every message
// it receives as indented JSON, preceded by a short blake3 digest of
// the raw payload so that identical publications are easy to spot.
// Output is syntax-highlighted when stdout is a terminal. A one-line
// summary of each Dealer message is logged as well.
//
// Usage:
//
//	dealer-tap --address tcp://127.0.0.1:5560 [--topic PREFIX] [--encoding compact]
//	dealer-tap --config dealer.yaml --endpoint health
//	dealer-tap --address tcp://watcher:5570 --payload transaction
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/fiatbridge/dealer/cmd/internal/cli"
	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/process"
	"github.com/fiatbridge/dealer/lib/socket"
)

const binary = "dealer-tap"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrExit) {
			return
		}
		process.Fatal(err)
	}
}

func run(args []string) error {
	var (
		common       cli.Common
		address      string
		endpointName string
		topic        string
		encodingName string
		payloadName  string
	)
	flagSet := pflag.NewFlagSet(binary, pflag.ContinueOnError)
	common.AddFlags(flagSet)
	flagSet.StringVar(&address, "address", "", "publisher address to subscribe to")
	flagSet.StringVar(&endpointName, "endpoint", "", "take address, encoding and topic from this config endpoint")
	flagSet.StringVar(&topic, "topic", "", "subscription prefix (default: everything)")
	flagSet.StringVar(&encodingName, "encoding", "text", "wire encoding: text, compact, compact+zstd, or compact+lz4")
	flagSet.StringVar(&payloadName, "payload", "envelope", "payload schema: envelope or transaction")
	flagSet.Usage = cli.Usage(flagSet, "Usage: dealer-tap (--address ADDR | --endpoint NAME) [flags]")

	if err := common.Parse(flagSet, binary, args); err != nil {
		return err
	}
	logger, err := common.Logger(binary)
	if err != nil {
		return err
	}

	encoding, err := codec.ParseEncoding(encodingName)
	if err != nil {
		return &process.ExitError{Code: 2, Err: err}
	}
	if endpointName != "" {
		cfg, err := common.LoadConfig()
		if err != nil {
			return err
		}
		endpoint, err := cfg.Endpoint(endpointName)
		if err != nil {
			return err
		}
		address = endpoint.Address
		if !flagSet.Changed("encoding") {
			encoding = endpoint.Encoding
		}
		if !flagSet.Changed("topic") {
			topic = endpoint.Topic
		}
	}
	if address == "" {
		return &process.ExitError{Code: 2, Err: errors.New("one of --address or --endpoint is required")}
	}

	kind, err := parsePayloadKind(payloadName)
	if err != nil {
		return &process.ExitError{Code: 2, Err: err}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	transport := socket.NewContext(logger)
	defer transport.Close()

	subscriber, err := transport.Subscriber(address, []byte(topic))
	if err != nil {
		return err
	}
	// Closing the socket unblocks the pending receive.
	defer context.AfterFunc(ctx, func() { subscriber.Close() })()

	printer := &printer{
		output:    os.Stdout,
		highlight: cli.IsTerminal(os.Stdout),
		encoding:  encoding,
		kind:      kind,
		logger:    logger,
	}

	logger.Info("tapping", "address", address, "topic", topic, "encoding", encoding.String(), "payload", payloadName)
	for {
		frames, err := subscriber.Recv()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("receiving: %w", err)
		}
		for _, frame := range frames {
			if err := printer.print(frame); err != nil {
				logger.Warn("undecodable payload", printer.failureAttrs(frame, err)...)
			}
		}
	}
}
