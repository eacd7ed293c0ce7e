// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for dealer binaries.
// Fatal is the one place a binary writes to stderr without the
// structured logger, for errors raised before the logger exists or
// after run() gives up.
package process
