// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package socket is the typed socket factory every dealer component
// talks through. A process creates one [Context] at startup and opens
// sockets from it by role:
//
//   - [Context.Publisher] binds and broadcasts. Sends never block and
//     are dropped when nobody subscribes.
//   - [Context.Subscriber] sets a topic prefix filter, then connects.
//     An empty topic receives everything.
//   - [Context.Push] connects and distributes messages round-robin
//     over the connected pull sockets.
//   - [Context.Pull] binds and receives from every pusher.
//   - [Context.Request] connects and must alternate send and receive.
//   - [Context.Response] binds and must alternate receive and send.
//
// Listening roles bind and connecting roles connect, so a topology is
// wired by starting the binding side first. Addresses ("tcp://...",
// "ipc://...", "inproc://...") are handed to the transport untouched.
//
// Setup failures return a [*SetupError]; binaries treat them as fatal.
// Transmission failures on an established socket return a
// [*TransmitError] and are left to the caller. A value that cannot be
// encoded is a programming error and the send helpers panic.
//
// Push and request sends block until a peer takes the message, with
// no timeout. Close the socket (or the Context) from another goroutine
// to abort a blocked send or receive.
//
// A [Socket] belongs to one goroutine at a time. The package keeps no
// shared state between sockets beyond the Context.
package socket
