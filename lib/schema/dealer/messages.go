// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package dealer

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/fiatbridge/dealer/lib/clock"
	"github.com/fiatbridge/dealer/lib/schema/core"
)

// BankStateRequest asks the ledger for a balance snapshot.
type BankStateRequest struct {
	_     struct{}       `cbor:",toarray"`
	ReqID core.RequestID `json:"req_id"`
}

// BankStateResponse reports one user's balance in one currency.
type BankStateResponse struct {
	_     struct{}       `cbor:",toarray"`
	ReqID core.RequestID `json:"req_id"`
	UID   core.UserID    `json:"uid"`

	// Amount is nil when the ledger has no balance for the user yet.
	// Nil and zero mean different things.
	Amount *uint64 `json:"amount"`

	Meta      string          `json:"meta"`
	Currency  core.Currency   `json:"currency"`
	AccountID *core.AccountID `json:"account_id"`
}

// BankState is the aggregated exposure of the dealer: total exposure
// per currency, fiat exposure per account, and the insurance fund.
type BankState struct {
	_                    struct{}                        `cbor:",toarray"`
	TotalExposures       map[core.Currency]core.Money    `json:"total_exposures"`
	FiatExposures        map[core.AccountID]core.Account `json:"fiat_exposures"`
	InsuranceFundAccount core.Account                    `json:"insurance_fund_account"`
}

// HealthStatus is the coarse liveness signal of the dealer.
type HealthStatus string

const (
	Running HealthStatus = "Running"
	Down    HealthStatus = "Down"
)

// DealerHealth is published periodically by the dealer. Status and
// AvailableCurrencies are independent: an empty currency list with
// status Running means the dealer is up but currently quotes nothing.
type DealerHealth struct {
	_                   struct{}        `cbor:",toarray"`
	Status              HealthStatus    `json:"status"`
	AvailableCurrencies []core.Currency `json:"available_currencies"`

	// Timestamp is in seconds since the unix epoch.
	Timestamp uint64 `json:"timestamp"`
}

// PayInvoice asks the invoice backend to pay a lightning payment
// request on behalf of the dealer.
type PayInvoice struct {
	_              struct{}       `cbor:",toarray"`
	ReqID          core.RequestID `json:"req_id"`
	PaymentRequest string         `json:"payment_request"`
}

// PayInsuranceInvoice is PayInvoice funded from the insurance fund.
type PayInsuranceInvoice PayInvoice

// CreateInvoiceRequest asks the invoice backend for a payment request
// of Amount satoshis.
type CreateInvoiceRequest struct {
	_      struct{}       `cbor:",toarray"`
	ReqID  core.RequestID `json:"req_id"`
	Amount uint64         `json:"amount"`
	Memo   string         `json:"memo"`
}

// CreateInsuranceInvoiceRequest is CreateInvoiceRequest crediting the
// insurance fund.
type CreateInsuranceInvoiceRequest CreateInvoiceRequest

// CreateInvoiceResponse answers both invoice request purposes.
type CreateInvoiceResponse struct {
	_              struct{}       `cbor:",toarray"`
	ReqID          core.RequestID `json:"req_id"`
	Amount         uint64         `json:"amount"`
	PaymentRequest string         `json:"payment_request"`
}

// FiatDepositRequest asks the dealer to quote a fiat deposit paid
// through a lightning payment request.
type FiatDepositRequest struct {
	_              struct{}       `cbor:",toarray"`
	ReqID          core.RequestID `json:"req_id"`
	Amount         core.Money     `json:"amount"`
	Currency       core.Currency  `json:"currency"`
	PaymentRequest string         `json:"payment_request"`
	UID            core.UserID    `json:"uid"`
}

// FiatDepositError is the reason a deposit was refused.
type FiatDepositError string

const (
	CurrencyNotAvailable FiatDepositError = "CurrencyNotAvailable"
)

// FiatDepositResponse carries either a quote (Rate, optional Fees) or
// an Error, never both. Build it with FiatDepositRequest.Accept or
// FiatDepositRequest.Reject.
type FiatDepositResponse struct {
	_              struct{}          `cbor:",toarray"`
	ReqID          core.RequestID    `json:"req_id"`
	Amount         core.Money        `json:"amount"`
	Rate           *core.Rate        `json:"rate"`
	PaymentRequest string            `json:"payment_request"`
	Currency       core.Currency     `json:"currency"`
	UID            core.UserID       `json:"uid"`
	Error          *FiatDepositError `json:"error"`
	Fees           *core.Money       `json:"fees"`
}

// KarmaBalance notifies a user's loyalty balance.
type KarmaBalance struct {
	_     struct{}   `cbor:",toarray"`
	Karma core.Money `json:"karma"`
}

// Correlated is implemented by every request and response variant.
type Correlated interface {
	Message
	RequestID() core.RequestID
}

func (m BankStateRequest) RequestID() core.RequestID              { return m.ReqID }
func (m BankStateResponse) RequestID() core.RequestID             { return m.ReqID }
func (m PayInvoice) RequestID() core.RequestID                    { return m.ReqID }
func (m PayInsuranceInvoice) RequestID() core.RequestID           { return m.ReqID }
func (m CreateInvoiceRequest) RequestID() core.RequestID          { return m.ReqID }
func (m CreateInsuranceInvoiceRequest) RequestID() core.RequestID { return m.ReqID }
func (m CreateInvoiceResponse) RequestID() core.RequestID         { return m.ReqID }
func (m FiatDepositRequest) RequestID() core.RequestID            { return m.ReqID }
func (m FiatDepositResponse) RequestID() core.RequestID           { return m.ReqID }

// Respond stamps the request's id onto body and returns it.
func (m BankStateRequest) Respond(body BankStateResponse) BankStateResponse {
	body.ReqID = m.ReqID
	return body
}

// Respond answers the request with the backend's payment request.
func (m CreateInvoiceRequest) Respond(paymentRequest string) CreateInvoiceResponse {
	return CreateInvoiceResponse{ReqID: m.ReqID, Amount: m.Amount, PaymentRequest: paymentRequest}
}

// Respond answers the request with the backend's payment request.
func (m CreateInsuranceInvoiceRequest) Respond(paymentRequest string) CreateInvoiceResponse {
	return CreateInvoiceRequest(m).Respond(paymentRequest)
}

// Accept quotes the deposit at rate, charging fees.
func (m FiatDepositRequest) Accept(rate core.Rate, fees core.Money) FiatDepositResponse {
	response := m.response()
	response.Rate = &rate
	response.Fees = &fees
	return response
}

// Reject refuses the deposit. Rate and Fees stay nil.
func (m FiatDepositRequest) Reject(reason FiatDepositError) FiatDepositResponse {
	response := m.response()
	response.Error = &reason
	return response
}

func (m FiatDepositRequest) response() FiatDepositResponse {
	return FiatDepositResponse{
		ReqID:          m.ReqID,
		Amount:         m.Amount,
		PaymentRequest: m.PaymentRequest,
		Currency:       m.Currency,
		UID:            m.UID,
	}
}

// ErrInvalidMessage is wrapped by every message validation failure.
var ErrInvalidMessage = errors.New("invalid message")

// Validate checks that the response is either a quote or a refusal.
func (m FiatDepositResponse) Validate() error {
	switch {
	case m.Error != nil && (m.Rate != nil || m.Fees != nil):
		return fmt.Errorf("%w: fiat deposit response %d carries error %s together with a quote", ErrInvalidMessage, m.ReqID, *m.Error)
	case m.Error == nil && m.Rate == nil:
		return fmt.Errorf("%w: fiat deposit response %d has neither a rate nor an error", ErrInvalidMessage, m.ReqID)
	}
	return nil
}

// Succeeded reports whether the deposit was quoted.
func (m FiatDepositResponse) Succeeded() bool { return m.Error == nil && m.Rate != nil }

// NewBankState returns an empty bank state holding the insurance fund
// account. The fund is present even when its balance is zero.
func NewBankState(insuranceFund core.Account) BankState {
	return BankState{
		TotalExposures:       make(map[core.Currency]core.Money),
		FiatExposures:        make(map[core.AccountID]core.Account),
		InsuranceFundAccount: insuranceFund,
	}
}

// SetTotalExposure records the exposure in currency, replacing any
// previous value.
func (s *BankState) SetTotalExposure(currency core.Currency, amount core.Money) {
	if s.TotalExposures == nil {
		s.TotalExposures = make(map[core.Currency]core.Money)
	}
	s.TotalExposures[currency] = amount
}

// SetFiatExposure records account under its own id, replacing any
// previous entry for the same account.
func (s *BankState) SetFiatExposure(account core.Account) {
	if s.FiatExposures == nil {
		s.FiatExposures = make(map[core.AccountID]core.Account)
	}
	s.FiatExposures[account.ID] = account
}

// Validate checks that every fiat exposure is keyed by its account's
// id and that the insurance fund account is set.
func (s BankState) Validate() error {
	var errs []error
	if s.InsuranceFundAccount.ID == uuid.Nil {
		errs = append(errs, fmt.Errorf("%w: bank state has no insurance fund account", ErrInvalidMessage))
	}
	for key, account := range s.FiatExposures {
		if account.ID != key {
			errs = append(errs, fmt.Errorf("%w: fiat exposure %s holds account %s", ErrInvalidMessage, key, account.ID))
		}
	}
	for currency := range s.TotalExposures {
		if !currency.Valid() {
			errs = append(errs, fmt.Errorf("%w: total exposure in unknown currency %q", ErrInvalidMessage, currency))
		}
	}
	return errors.Join(errs...)
}

// MarshalJSON writes nil exposure maps as empty objects so consumers
// never see null in place of a map.
func (s BankState) MarshalJSON() ([]byte, error) {
	type bankStateJSON BankState
	out := bankStateJSON(s)
	if out.TotalExposures == nil {
		out.TotalExposures = map[core.Currency]core.Money{}
	}
	if out.FiatExposures == nil {
		out.FiatExposures = map[core.AccountID]core.Account{}
	}
	return json.Marshal(out)
}

// NewDealerHealth stamps a health report with the clock's current
// time. currencies is copied; nil becomes an empty list.
func NewDealerHealth(c clock.Clock, status HealthStatus, currencies []core.Currency) (DealerHealth, error) {
	timestamp, err := core.UnixSeconds(c.Now())
	if err != nil {
		return DealerHealth{}, fmt.Errorf("stamping dealer health: %w", err)
	}
	return DealerHealth{
		Status:              status,
		AvailableCurrencies: append([]core.Currency{}, currencies...),
		Timestamp:           timestamp,
	}, nil
}

// MarshalJSON writes a nil currency list as an empty array.
func (h DealerHealth) MarshalJSON() ([]byte, error) {
	type dealerHealthJSON DealerHealth
	out := dealerHealthJSON(h)
	if out.AvailableCurrencies == nil {
		out.AvailableCurrencies = []core.Currency{}
	}
	return json.Marshal(out)
}

// Supports reports whether currency is currently available.
func (h DealerHealth) Supports(currency core.Currency) bool {
	return slices.Contains(h.AvailableCurrencies, currency)
}
