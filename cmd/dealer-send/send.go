// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/service"
	"github.com/fiatbridge/dealer/lib/socket"
)

type mode int

const (
	modePush mode = iota
	modeFramed
	modePublish
	modeRequest
)

func parseMode(name string) (mode, error) {
	switch name {
	case "push":
		return modePush, nil
	case "framed":
		return modeFramed, nil
	case "publish":
		return modePublish, nil
	case "request":
		return modeRequest, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want push, framed, publish, or request)", name)
	}
}

// parseEnvelope strips JSONC comments and decodes the text envelope.
// Messages with structural invariants are checked before anything is
// sent.
func parseEnvelope(data []byte) (dealer.Envelope, error) {
	var envelope dealer.Envelope
	if err := codec.DecodeText(jsonc.ToJSON(data), &envelope); err != nil {
		return dealer.Envelope{}, err
	}
	switch message := envelope.Message.(type) {
	case dealer.BankState:
		if err := message.Validate(); err != nil {
			return dealer.Envelope{}, err
		}
	case dealer.FiatDepositResponse:
		if err := message.Validate(); err != nil {
			return dealer.Envelope{}, err
		}
	}
	return envelope, nil
}

// send opens the socket for mode and transmits envelope. Only request
// mode returns a reply.
func send(ctx context.Context, transport socket.Context, mode mode, address string, encoding codec.Encoding, envelope dealer.Envelope) (dealer.Message, error) {
	var (
		opened *socket.Socket
		err    error
	)
	switch mode {
	case modePublish:
		opened, err = transport.Publisher(address)
	case modeRequest:
		opened, err = transport.Request(address)
	default:
		opened, err = transport.Push(address)
	}
	if err != nil {
		return nil, err
	}
	defer opened.Close()
	defer context.AfterFunc(ctx, func() { opened.Close() })()

	switch mode {
	case modeRequest:
		return service.NewClient(opened, encoding).Call(envelope.Message)
	case modeFramed:
		return nil, socket.SendFramedCompact(opened, envelope)
	default:
		return nil, socket.SendEncoded(opened, encoding, envelope)
	}
}
