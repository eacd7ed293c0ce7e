// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package core defines the value types shared by every dealer message:
// request and user identifiers, currencies, decimal money and rates,
// account identifiers, blockchain networks and transaction types.
//
// Money and Rate are shopspring decimals and AccountID is a UUID, so
// both serialize as strings in the text encoding. Enumerations
// (Currency, Network, TxType) are string-backed and serialize by name.
package core
