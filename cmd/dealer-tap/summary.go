// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log/slog"

	"github.com/fiatbridge/dealer/lib/schema/dealer"
)

// summary logs one line per Dealer message.
type summary struct {
	logger *slog.Logger
}

func (s summary) log(kind dealer.Kind, attrs ...any) error {
	s.logger.Info(kind.String(), attrs...)
	return nil
}

func (s summary) BankStateRequest(m dealer.BankStateRequest) error {
	return s.log(m.Kind(), "req_id", m.ReqID)
}

func (s summary) BankStateResponse(m dealer.BankStateResponse) error {
	amount := "unknown"
	if m.Amount != nil {
		amount = slog.Uint64Value(*m.Amount).String()
	}
	return s.log(m.Kind(), "req_id", m.ReqID, "uid", m.UID, "currency", string(m.Currency), "amount", amount)
}

func (s summary) BankState(m dealer.BankState) error {
	return s.log(m.Kind(),
		"currencies", len(m.TotalExposures),
		"fiat_accounts", len(m.FiatExposures),
		"insurance_fund", m.InsuranceFundAccount.Balance.String(),
	)
}

func (s summary) Health(m dealer.DealerHealth) error {
	return s.log(m.Kind(), "status", string(m.Status), "currencies", len(m.AvailableCurrencies), "timestamp", m.Timestamp)
}

func (s summary) PayInvoice(m dealer.PayInvoice) error {
	return s.log(m.Kind(), "req_id", m.ReqID)
}

func (s summary) PayInsuranceInvoice(m dealer.PayInsuranceInvoice) error {
	return s.log(m.Kind(), "req_id", m.ReqID)
}

func (s summary) CreateInvoiceRequest(m dealer.CreateInvoiceRequest) error {
	return s.log(m.Kind(), "req_id", m.ReqID, "amount", m.Amount)
}

func (s summary) CreateInsuranceInvoiceRequest(m dealer.CreateInsuranceInvoiceRequest) error {
	return s.log(m.Kind(), "req_id", m.ReqID, "amount", m.Amount)
}

func (s summary) CreateInvoiceResponse(m dealer.CreateInvoiceResponse) error {
	return s.log(m.Kind(), "req_id", m.ReqID, "amount", m.Amount)
}

func (s summary) FiatDepositRequest(m dealer.FiatDepositRequest) error {
	return s.log(m.Kind(), "req_id", m.ReqID, "uid", m.UID, "amount", m.Amount.String(), "currency", string(m.Currency))
}

func (s summary) FiatDepositResponse(m dealer.FiatDepositResponse) error {
	if m.Error != nil {
		return s.log(m.Kind(), "req_id", m.ReqID, "error", string(*m.Error))
	}
	rate := ""
	if m.Rate != nil {
		rate = m.Rate.String()
	}
	return s.log(m.Kind(), "req_id", m.ReqID, "rate", rate)
}

func (s summary) KarmaBalance(m dealer.KarmaBalance) error {
	return s.log(m.Kind(), "karma", m.Karma.String())
}
