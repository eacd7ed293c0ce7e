// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package service provides the request/response and heartbeat
// scaffolding dealer components build on top of [socket.Socket]:
//
//   - [Client] sends one request envelope on a request socket and
//     returns the correlated reply. It serializes callers so that the
//     socket's send/receive alternation is never broken.
//   - [Responder] answers requests on a response socket with a
//     caller-provided [ReplyFunc] until its context is cancelled.
//   - [HealthReporter] publishes a Health envelope on every tick of a
//     [clock.Clock] and a final Down report on shutdown.
//
// Components compose these in their own main() rather than
// subclassing a framework.
package service
