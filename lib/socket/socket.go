// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package socket

import (
	"fmt"

	"github.com/go-zeromq/zmq4"
)

// Role is the messaging pattern a socket takes part in.
type Role uint8

const (
	Publisher Role = iota
	Subscriber
	Push
	Pull
	Request
	Response
)

func (r Role) String() string {
	switch r {
	case Publisher:
		return "publisher"
	case Subscriber:
		return "subscriber"
	case Push:
		return "push"
	case Pull:
		return "pull"
	case Request:
		return "request"
	case Response:
		return "response"
	default:
		return fmt.Sprintf("Role(%d)", uint8(r))
	}
}

// Listens reports whether sockets of this role bind their address
// rather than connect to it.
func (r Role) Listens() bool {
	return r == Publisher || r == Pull || r == Response
}

// Socket is an established endpoint of one role. It is not safe for
// concurrent use.
type Socket struct {
	role      Role
	address   string
	transport zmq4.Socket
}

// Role returns the socket's role.
func (s *Socket) Role() Role { return s.role }

// Address returns the address the socket was bound or connected to.
func (s *Socket) Address() string { return s.address }

// Send transmits one message made of frames. Request sockets must
// not send twice without a Recv in between; response sockets must not
// send before receiving.
func (s *Socket) Send(frames ...[]byte) error {
	message := zmq4.NewMsgFrom(frames...)
	var err error
	if len(frames) > 1 {
		err = s.transport.SendMulti(message)
	} else {
		err = s.transport.Send(message)
	}
	if err != nil {
		return &TransmitError{Role: s.role, Address: s.address, Op: "send", Err: err}
	}
	return nil
}

// Recv blocks until one message arrives and returns its frames.
func (s *Socket) Recv() ([][]byte, error) {
	message, err := s.transport.Recv()
	if err != nil {
		return nil, &TransmitError{Role: s.role, Address: s.address, Op: "receive", Err: err}
	}
	return message.Frames, nil
}

// Close releases the socket. A Recv blocked on it returns an error.
func (s *Socket) Close() error {
	return s.transport.Close()
}

// Must returns s, panicking if err is a setup failure. It suits
// components whose topology is fixed at startup.
//
//	health := socket.Must(ctx.Publisher(address))
func Must(s *Socket, err error) *Socket {
	if err != nil {
		panic(err)
	}
	return s
}
