// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package blockchain

import (
	"fmt"
	"slices"
	"time"

	"github.com/fiatbridge/dealer/lib/clock"
	"github.com/fiatbridge/dealer/lib/schema/core"
)

// Input is a transaction input as reported by the electrum server.
type Input struct {
	Address string `json:"address"`
}

// Output is a transaction output paying Value satoshis to Address.
type Output struct {
	Address string `json:"address"`
	Value   int64  `json:"value"`
}

// Transaction is a raw observation from the electrum server. It is
// what the watcher sees before it decides to track anything.
type Transaction struct {
	TxID          string    `json:"txid"`
	Incoming      bool      `json:"incoming"`
	Outputs       []Output  `json:"outputs"`
	BcValue       float64   `json:"bc_value"`
	Timestamp     time.Time `json:"timestamp"`
	Height        int64     `json:"height"`
	Confirmations int64     `json:"confirmations"`
}

// ReceivedBy returns the satoshis the transaction pays to address,
// whichever direction it moves for the wallet.
func (t Transaction) ReceivedBy(address string) int64 {
	var total int64
	for _, output := range t.Outputs {
		if output.Address == address {
			total += output.Value
		}
	}
	return total
}

// SentExcept returns the satoshis paid to addresses outside own. For
// an outgoing spend whose change returns to own, it is the amount
// that left the wallet, fee excluded.
func (t Transaction) SentExcept(own ...string) int64 {
	var total int64
	for _, output := range t.Outputs {
		if !slices.Contains(own, output.Address) {
			total += output.Value
		}
	}
	return total
}

// TrackedAddr is an address under watch.
type TrackedAddr struct {
	UID       uint64    `json:"uid"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackAddress starts watching an address on behalf of user uid.
func TrackAddress(c clock.Clock, uid uint64) TrackedAddr {
	return TrackedAddr{UID: uid, Timestamp: c.Now()}
}

// TrackedTransaction is a transaction the watcher follows until it is
// sufficiently confirmed. Value is signed: positive is incoming.
type TrackedTransaction struct {
	UID         uint64      `json:"uid"`
	TxID        string      `json:"txid"`
	Timestamp   time.Time   `json:"timestamp"`
	Address     string      `json:"address"`
	BlockNumber int64       `json:"block_number"`
	Fee         int64       `json:"fee"`
	TxType      core.TxType `json:"tx_type"`
	Value       int64       `json:"value"`
}

// TrackTransaction builds the record for an observation that touches
// a watched address. Value is the signed amount the caller attributes
// to the address: positive for money in, negative for money out. An
// observation alone cannot tell change from payment on an outgoing
// spend, so the value is never derived here.
//
//	deposit := TrackTransaction(uid, tx, addr, fee, core.Deposit, tx.ReceivedBy(addr))
//	spend := TrackTransaction(uid, tx, addr, fee, core.Withdrawal, -tx.SentExcept(addr))
func TrackTransaction(uid uint64, observed Transaction, address string, fee int64, txType core.TxType, value int64) TrackedTransaction {
	return TrackedTransaction{
		UID:         uid,
		TxID:        observed.TxID,
		Timestamp:   observed.Timestamp,
		Address:     address,
		BlockNumber: observed.Height,
		Fee:         fee,
		TxType:      txType,
		Value:       value,
	}
}

// Confirmations returns how many blocks, including its own, sit on
// top of the transaction at chain tip height tip. Unconfirmed
// transactions (height <= 0) have none.
func (t TrackedTransaction) Confirmations(tip int64) int64 {
	if t.BlockNumber <= 0 || tip < t.BlockNumber {
		return 0
	}
	return tip - t.BlockNumber + 1
}

// TransactionState is the published snapshot of a tracked
// transaction.
type TransactionState struct {
	_             struct{}     `cbor:",toarray"`
	UID           uint64       `json:"uid"`
	TxID          string       `json:"txid"`
	Timestamp     uint64       `json:"timestamp"`
	Address       string       `json:"address"`
	BlockNumber   int64        `json:"block_number"`
	Confirmations int64        `json:"confirmations"`
	Fee           int64        `json:"fee"`
	TxType        core.TxType  `json:"tx_type"`
	IsConfirmed   bool         `json:"is_confirmed"`
	Network       core.Network `json:"network"`
	Value         int64        `json:"value"`
}

// State projects the record into a fresh TransactionState for
// network. Confirmations is always 0 and IsConfirmed always false,
// whatever the record's real confirmation count. A timestamp before
// the unix epoch is a broken record and yields core.ErrBeforeEpoch.
func (t TrackedTransaction) State(network core.Network) (TransactionState, error) {
	timestamp, err := core.UnixSeconds(t.Timestamp)
	if err != nil {
		return TransactionState{}, fmt.Errorf("projecting transaction %s: %w", t.TxID, err)
	}
	return TransactionState{
		UID:           t.UID,
		TxID:          t.TxID,
		Timestamp:     timestamp,
		Address:       t.Address,
		BlockNumber:   t.BlockNumber,
		Confirmations: 0,
		Fee:           t.Fee,
		TxType:        t.TxType,
		IsConfirmed:   false,
		Network:       network,
		Value:         t.Value,
	}, nil
}
