// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"sync"

	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/socket"
)

// Conn is a socket that both sends and receives. *socket.Socket
// implements it.
type Conn interface {
	socket.Sender
	socket.Receiver
}

// Client issues requests over a request socket. It is safe for
// concurrent use: calls are serialized.
type Client struct {
	mu       sync.Mutex
	conn     Conn
	encoding codec.Encoding
}

// NewClient wraps conn, which should be a request socket connected to
// a Responder using the same encoding.
func NewClient(conn Conn, encoding codec.Encoding) *Client {
	return &Client{conn: conn, encoding: encoding}
}

// Call sends request and waits for its reply. The reply must be the
// response kind of request and carry the same request id, otherwise
// Call returns an error wrapping dealer.ErrUnexpectedResponse or
// dealer.ErrRequestIDMismatch. Requests that are never answered are
// rejected without being sent.
//
// Call blocks without a timeout. A transport failure leaves the
// request socket in an undefined state; callers should close it.
func (c *Client) Call(request dealer.Message) (dealer.Message, error) {
	if _, answered := dealer.ResponseKind(request.Kind()); !answered {
		return nil, fmt.Errorf("calling %s: %w: kind has no response", request.Kind(), dealer.ErrUnexpectedResponse)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := socket.SendEncoded(c.conn, c.encoding, dealer.Wrap(request)); err != nil {
		return nil, fmt.Errorf("calling %s: %w", request.Kind(), err)
	}

	var reply dealer.Envelope
	if err := socket.RecvEncoded(c.conn, c.encoding, &reply); err != nil {
		return nil, fmt.Errorf("calling %s: %w", request.Kind(), err)
	}
	if err := dealer.CheckCorrelation(request, reply.Message); err != nil {
		return nil, fmt.Errorf("calling %s: %w", request.Kind(), err)
	}
	return reply.Message, nil
}
