// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli holds the pieces every dealer binary shares: the
// structured logger, the common flag set (--config, --log-level,
// --version) and terminal detection for human-oriented output.
package cli
