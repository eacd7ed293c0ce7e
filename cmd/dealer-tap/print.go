// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/zeebo/blake3"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/blockchain"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
)

// payloadKind is the schema received payloads are decoded with.
type payloadKind int

const (
	payloadEnvelope payloadKind = iota
	payloadTransaction
)

func parsePayloadKind(name string) (payloadKind, error) {
	switch name {
	case "envelope":
		return payloadEnvelope, nil
	case "transaction":
		return payloadTransaction, nil
	default:
		return 0, fmt.Errorf("unknown payload %q (want envelope or transaction)", name)
	}
}

// printer decodes payloads and writes them as indented JSON.
type printer struct {
	output    io.Writer
	highlight bool
	encoding  codec.Encoding
	kind      payloadKind
	logger    *slog.Logger
}

func (p *printer) print(payload []byte) error {
	var decoded any
	switch p.kind {
	case payloadTransaction:
		var state blockchain.TransactionState
		if err := codec.Decode(p.encoding, payload, &state); err != nil {
			return err
		}
		p.logger.Info("transaction state",
			"txid", state.TxID,
			"network", string(state.Network),
			"tx_type", string(state.TxType),
			"value", state.Value,
		)
		decoded = state
	default:
		var envelope dealer.Envelope
		if err := codec.Decode(p.encoding, payload, &envelope); err != nil {
			return err
		}
		if err := dealer.Dispatch(envelope.Message, summary{logger: p.logger}); err != nil {
			return err
		}
		decoded = envelope
	}

	text, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting %T: %w", decoded, err)
	}

	fmt.Fprintf(p.output, "# %s (%d bytes)\n", digest(payload), len(payload))
	if p.highlight {
		if err := quick.Highlight(p.output, string(text)+"\n", "json", "terminal256", "monokai"); err == nil {
			return nil
		}
	}
	_, err = fmt.Fprintf(p.output, "%s\n", text)
	return err
}

// failureAttrs describes a payload print rejected. Plain compact
// payloads carry their CBOR diagnostic notation.
func (p *printer) failureAttrs(payload []byte, err error) []any {
	attrs := []any{"bytes", len(payload), "digest", digest(payload), "error", err}
	if p.encoding == codec.Compact {
		if diagnostic, diagnoseErr := codec.Diagnose(payload); diagnoseErr == nil {
			attrs = append(attrs, "diagnostic", diagnostic)
		}
	}
	return attrs
}

// digest returns the first 8 bytes of the payload's blake3 hash in hex.
func digest(payload []byte) string {
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}
