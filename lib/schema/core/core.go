// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestID correlates a request with its response. Responders copy
// it from the request; they never mint one.
type RequestID uint64

// UserID identifies an end user of the exchange.
type UserID uint64

// Money is an exact decimal amount in some currency's unit.
type Money = decimal.Decimal

// Rate is an exact decimal conversion rate.
type Rate = decimal.Decimal

// AccountID identifies a bank account known to the ledger.
type AccountID = uuid.UUID

// NewAccountID returns a fresh random account id.
func NewAccountID() AccountID { return uuid.New() }

// Account is a ledger account with its current balance.
type Account struct {
	_        struct{}  `cbor:",toarray"`
	ID       AccountID `json:"account_id"`
	Currency Currency  `json:"currency"`
	Balance  Money     `json:"balance"`
}

// Currency is an ISO-4217 style code, or BTC for bitcoin.
type Currency string

const (
	BTC Currency = "BTC"
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	CHF Currency = "CHF"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
)

var currencies = map[Currency]bool{
	BTC: false,
	USD: true,
	EUR: true,
	GBP: true,
	CHF: true,
	JPY: true,
	CAD: true,
	AUD: true,
}

// Valid reports whether c is a known currency.
func (c Currency) Valid() bool {
	_, ok := currencies[c]
	return ok
}

// IsFiat reports whether c is a known fiat currency.
func (c Currency) IsFiat() bool { return currencies[c] }

// ParseCurrency validates a currency code.
func ParseCurrency(code string) (Currency, error) {
	currency := Currency(code)
	if !currency.Valid() {
		return "", fmt.Errorf("unknown currency %q", code)
	}
	return currency, nil
}

// Network names the chain a watcher observes.
type Network string

const (
	Bitcoin   Network = "Bitcoin"
	Lightning Network = "Lightning"
)

// Valid reports whether n is a known network.
func (n Network) Valid() bool { return n == Bitcoin || n == Lightning }

// TxType classifies a blockchain transaction from the watched
// address's point of view.
type TxType string

const (
	Deposit    TxType = "Deposit"
	Withdrawal TxType = "Withdrawal"
)

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool { return t == Deposit || t == Withdrawal }

// ErrBeforeEpoch reports a timestamp earlier than 1970-01-01T00:00:00Z.
// No real message carries one, so seeing it means the clock or the
// record producing it is broken.
var ErrBeforeEpoch = errors.New("timestamp predates the unix epoch")

// UnixSeconds converts t to whole seconds since the unix epoch,
// truncating sub-second precision.
func UnixSeconds(t time.Time) (uint64, error) {
	if t.Before(time.Unix(0, 0)) {
		return 0, fmt.Errorf("%w: %s", ErrBeforeEpoch, t.UTC().Format(time.RFC3339))
	}
	return uint64(t.Unix()), nil
}
