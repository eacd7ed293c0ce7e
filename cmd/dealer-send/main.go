// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Dealer-send reads one Dealer envelope from a JSONC file (JSON with
// comments and trailing commas) and transmits it. The file holds the
// text form of the envelope:
//
//	// Ask the ledger for a balance snapshot.
//	{"BankStateRequest": {"req_id": 7}}
//
// --mode selects the socket: push (default) connects a push socket,
// framed sends the same with the two empty routing frames, publish
// binds a publisher (only subscribers already connected receive it),
// and request sends on a request socket and prints the correlated
// reply.
//
// Usage:
//
//	dealer-send --address tcp://ledger:5561 --mode request message.jsonc
//	dealer-send --config dealer.yaml --endpoint invoices --mode framed - < invoice.jsonc
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/fiatbridge/dealer/cmd/internal/cli"
	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/process"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/socket"
)

const binary = "dealer-send"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, cli.ErrExit) {
			return
		}
		process.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		common       cli.Common
		address      string
		endpointName string
		encodingName string
		modeName     string
	)
	flagSet := pflag.NewFlagSet(binary, pflag.ContinueOnError)
	common.AddFlags(flagSet)
	flagSet.StringVar(&address, "address", "", "address to send to")
	flagSet.StringVar(&endpointName, "endpoint", "", "take address and encoding from this config endpoint")
	flagSet.StringVar(&encodingName, "encoding", "text", "wire encoding: text, compact, compact+zstd, or compact+lz4")
	flagSet.StringVar(&modeName, "mode", "push", "push, framed, publish, or request")
	flagSet.Usage = cli.Usage(flagSet, "Usage: dealer-send (--address ADDR | --endpoint NAME) [flags] FILE|-")

	if err := common.Parse(flagSet, binary, args); err != nil {
		return err
	}
	logger, err := common.Logger(binary)
	if err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return &process.ExitError{Code: 2, Err: errors.New("exactly one message file (or - for stdin) is required")}
	}

	mode, err := parseMode(modeName)
	if err != nil {
		return &process.ExitError{Code: 2, Err: err}
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
	}
	if address == "" {
		return &process.ExitError{Code: 2, Err: errors.New("one of --address or --endpoint is required")}
	}
	if mode == modeFramed && encoding != codec.Compact {
		return &process.ExitError{Code: 2, Err: fmt.Errorf("--mode framed always sends compact, not %s", encoding)}
	}

	data, err := readSource(flagSet.Arg(0), stdin)
	if err != nil {
		return err
	}
	envelope, err := parseEnvelope(data)
	if err != nil {
		return fmt.Errorf("%s: %w", flagSet.Arg(0), err)
	}

	transport := socket.NewContext(logger)
	defer transport.Close()

	logger.Info("sending",
		"kind", envelope.Message.Kind().String(),
		"mode", modeName,
		"address", address,
		"encoding", encoding.String(),
	)
	reply, err := send(ctx, transport, mode, address, encoding, envelope)
	if err != nil {
		return err
	}
	if reply == nil {
		return nil
	}

	text, err := codec.EncodeText(dealer.Wrap(reply))
	if err != nil {
		return fmt.Errorf("formatting reply: %w", err)
	}
	_, err = fmt.Fprintf(stdout, "%s\n", text)
	return err
}

func readSource(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
