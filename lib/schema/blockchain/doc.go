// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package blockchain defines the records a chain watcher keeps for
// addresses and transactions under observation, and the transaction
// state message published to the rest of the exchange.
//
// [TrackedTransaction.State] projects an internal record into a
// [TransactionState]. The projection is pure: it copies identity,
// amounts and height, converts the timestamp to unix seconds, tags the
// network, and always reports zero confirmations and not confirmed.
// Confirmation progress is published by the watcher separately.
package blockchain
