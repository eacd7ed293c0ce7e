// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package socket

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-zeromq/zmq4"
)

// ErrContextClosed is the cause of a SetupError for sockets requested
// from a closed or zero Context.
var ErrContextClosed = errors.New("transport context is closed")

// sendTimeout bounds a single blocked send. Push and request sends
// wait for a peer indefinitely; closing the socket or the Context is
// the only way to abort them. The transport has no "never" setting,
// so the bound is set beyond any process lifetime.
const sendTimeout = 100 * 365 * 24 * time.Hour

// Context is the process-wide transport context. It is a small handle:
// copies share the same underlying state, and Close on any copy closes
// them all. The zero Context is closed.
type Context struct {
	shared *contextState
}

type contextState struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewContext creates the transport context. Transport-internal log
// lines are routed to logger at debug level.
func NewContext(logger *slog.Logger) Context {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Context{shared: &contextState{
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}}
}

// Close shuts the context down. Sockets opened from it stop
// transmitting, and further setup requests fail.
func (c Context) Close() {
	if c.shared != nil {
		c.shared.cancel()
	}
}

// Publisher binds a publish socket at address.
func (c Context) Publisher(address string) (*Socket, error) {
	return c.open(Publisher, address, nil)
}

// Subscriber connects a subscribe socket to address, receiving only
// messages whose first bytes equal topic. An empty topic receives
// everything.
func (c Context) Subscriber(address string, topic []byte) (*Socket, error) {
	return c.open(Subscriber, address, topic)
}

// Push connects a push socket to address.
func (c Context) Push(address string) (*Socket, error) {
	return c.open(Push, address, nil)
}

// Pull binds a pull socket at address.
func (c Context) Pull(address string) (*Socket, error) {
	return c.open(Pull, address, nil)
}

// Request connects a request socket to address.
func (c Context) Request(address string) (*Socket, error) {
	return c.open(Request, address, nil)
}

// Response binds a response socket at address.
func (c Context) Response(address string) (*Socket, error) {
	return c.open(Response, address, nil)
}

func (c Context) open(role Role, address string, topic []byte) (*Socket, error) {
	if c.shared == nil || c.shared.ctx.Err() != nil {
		return nil, &SetupError{Role: role, Address: address, Step: "open", Err: ErrContextClosed}
	}

	logger := c.shared.logger.With("role", role.String(), "address", address)
	options := []zmq4.Option{
		zmq4.WithLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug)),
		zmq4.WithTimeout(sendTimeout),
	}

	var transport zmq4.Socket
	switch role {
	case Publisher:
		transport = zmq4.NewPub(c.shared.ctx, options...)
	case Subscriber:
		transport = zmq4.NewSub(c.shared.ctx, options...)
	case Push:
		transport = zmq4.NewPush(c.shared.ctx, options...)
	case Pull:
		transport = zmq4.NewPull(c.shared.ctx, options...)
	case Request:
		transport = zmq4.NewReq(c.shared.ctx, options...)
	case Response:
		transport = zmq4.NewRep(c.shared.ctx, options...)
	default:
		return nil, &SetupError{Role: role, Address: address, Step: "open", Err: errors.New("unknown role")}
	}

	fail := func(step string, err error) (*Socket, error) {
		transport.Close()
		return nil, &SetupError{Role: role, Address: address, Step: step, Err: err}
	}

	if role == Subscriber {
		if err := transport.SetOption(zmq4.OptionSubscribe, string(topic)); err != nil {
			return fail("subscribe", err)
		}
	}

	if role.Listens() {
		if err := transport.Listen(address); err != nil {
			return fail("bind", err)
		}
	} else {
		if err := transport.Dial(address); err != nil {
			return fail("connect", err)
		}
	}

	logger.Debug("socket ready")
	return &Socket{
		role:      role,
		address:   address,
		transport: transport,
	}, nil
}
