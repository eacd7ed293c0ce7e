// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package socket

import "fmt"

// SetupError reports a failure to create, configure, bind or connect
// a socket. The process cannot continue with the topology it was
// asked to build.
type SetupError struct {
	Role    Role
	Address string

	// Step is the setup step that failed: "open", "subscribe",
	// "bind" or "connect".
	Step string

	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s socket %s: %s failed: %v", e.Role, e.Address, e.Step, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// TransmitError reports a send or receive failure on an established
// socket.
type TransmitError struct {
	Role    Role
	Address string

	// Op is "send" or "receive".
	Op string

	Err error
}

func (e *TransmitError) Error() string {
	return fmt.Sprintf("%s socket %s: %s: %v", e.Role, e.Address, e.Op, e.Err)
}

func (e *TransmitError) Unwrap() error { return e.Err }
