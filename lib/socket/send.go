// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package socket

import (
	"fmt"

	"github.com/fiatbridge/dealer/lib/codec"
)

// Sender is the sending half of a Socket.
type Sender interface {
	Send(frames ...[]byte) error
}

// Receiver is the receiving half of a Socket.
type Receiver interface {
	Recv() ([][]byte, error)
}

// SendText encodes v as JSON and sends it as a single frame.
func SendText(s Sender, v any) error {
	return SendEncoded(s, codec.Text, v)
}

// SendCompact encodes v as CBOR and sends it as a single frame.
func SendCompact(s Sender, v any) error {
	return SendEncoded(s, codec.Compact, v)
}

// SendEncoded encodes v with encoding and sends it as a single frame.
// It panics if v cannot be encoded.
func SendEncoded(s Sender, encoding codec.Encoding, v any) error {
	return s.Send(mustEncode(encoding, v))
}

// SendFramedCompact sends v as CBOR preceded by two empty frames, the
// layout broker-routed peers expect.
func SendFramedCompact(s Sender, v any) error {
	return s.Send([]byte{}, []byte{}, mustEncode(codec.Compact, v))
}

// RecvEncoded receives one single-frame message and decodes it into v.
// Bytes that do not match v's schema yield an error wrapping
// codec.ErrMalformed.
func RecvEncoded(s Receiver, encoding codec.Encoding, v any) error {
	frames, err := s.Recv()
	if err != nil {
		return err
	}
	if len(frames) != 1 {
		return fmt.Errorf("%w: want 1 frame, got %d", codec.ErrMalformed, len(frames))
	}
	return codec.Decode(encoding, frames[0], v)
}

// RecvFramedCompact receives a message sent with SendFramedCompact
// and decodes its payload into v.
func RecvFramedCompact(s Receiver, v any) error {
	frames, err := s.Recv()
	if err != nil {
		return err
	}
	if len(frames) != 3 || len(frames[0]) != 0 || len(frames[1]) != 0 {
		return fmt.Errorf("%w: want two empty frames and a payload, got %d frames", codec.ErrMalformed, len(frames))
	}
	return codec.Decode(codec.Compact, frames[2], v)
}

func mustEncode(encoding codec.Encoding, v any) []byte {
	payload, err := codec.Encode(encoding, v)
	if err != nil {
		panic(fmt.Sprintf("socket: encoding %T as %s: %v", v, encoding, err))
	}
	return payload
}
