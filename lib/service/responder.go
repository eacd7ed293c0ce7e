// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/socket"
)

// ReplyFunc answers one request. The reply must be built from the
// request (Respond, Accept or Reject) so that it correlates.
type ReplyFunc func(ctx context.Context, request dealer.Message) (dealer.Message, error)

// ClosingConn is a Conn that can be closed to unblock a pending
// receive. *socket.Socket implements it.
type ClosingConn interface {
	Conn
	Close() error
}

// Responder serves requests arriving on a response socket.
type Responder struct {
	conn     ClosingConn
	encoding codec.Encoding
	logger   *slog.Logger
}

// NewResponder wraps conn, which should be a bound response socket.
func NewResponder(conn ClosingConn, encoding codec.Encoding, logger *slog.Logger) *Responder {
	return &Responder{conn: conn, encoding: encoding, logger: logger}
}

// Serve receives requests and answers each with reply until ctx is
// cancelled, at which point the socket is closed and Serve returns
// nil. A request that cannot be decoded, or that reply refuses, is
// logged and answered with an empty frame so the requester does not
// wait forever. A reply that does not correlate with its request is a
// bug in reply: Serve stops and returns the error. Transport failures
// are returned as they are.
func (r *Responder) Serve(ctx context.Context, reply ReplyFunc) error {
	stop := context.AfterFunc(ctx, func() { r.conn.Close() })
	defer stop()

	for {
		var envelope dealer.Envelope
		err := socket.RecvEncoded(r.conn, r.encoding, &envelope)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, codec.ErrMalformed) {
			r.logger.Warn("discarding malformed request", "error", err)
			if err := r.conn.Send([]byte{}); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		request := envelope.Message
		response, err := reply(ctx, request)
		if err != nil {
			r.logger.Warn("request refused", "kind", request.Kind().String(), "error", err)
			if err := r.conn.Send([]byte{}); err != nil {
				return err
			}
			continue
		}
		if err := dealer.CheckCorrelation(request, response); err != nil {
			return fmt.Errorf("answering %s: %w", request.Kind(), err)
		}

		if err := socket.SendEncoded(r.conn, r.encoding, dealer.Wrap(response)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
