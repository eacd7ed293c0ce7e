// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"errors"
	"sync"
)

var errPipeClosed = errors.New("pipe closed")

// pipeConn is one end of an in-memory, message-preserving connection.
type pipeConn struct {
	in     <-chan [][]byte
	out    chan<- [][]byte
	closed chan struct{}
	once   *sync.Once
}

// pipe returns two connected ends. Closing either closes both.
func pipe() (*pipeConn, *pipeConn) {
	forward := make(chan [][]byte, 8)
	backward := make(chan [][]byte, 8)
	closed := make(chan struct{})
	once := &sync.Once{}
	return &pipeConn{in: backward, out: forward, closed: closed, once: once},
		&pipeConn{in: forward, out: backward, closed: closed, once: once}
}

func (p *pipeConn) Send(frames ...[]byte) error {
	select {
	case <-p.closed:
		return errPipeClosed
	default:
	}
	select {
	case p.out <- frames:
		return nil
	case <-p.closed:
		return errPipeClosed
	}
}

func (p *pipeConn) Recv() ([][]byte, error) {
	select {
	case frames := <-p.in:
		return frames, nil
	case <-p.closed:
		return nil, errPipeClosed
	}
}

func (p *pipeConn) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}
