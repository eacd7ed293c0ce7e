// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package dealer

import (
	"errors"
	"fmt"
)

var (
	// ErrUnhandledVariant reports a message kind this build does not
	// know: an unknown wire tag, an unknown text tag, or a Message
	// value Dispatch cannot match.
	ErrUnhandledVariant = errors.New("unhandled dealer message variant")

	// ErrRequestIDMismatch reports a response whose request id differs
	// from the request it answers.
	ErrRequestIDMismatch = errors.New("response request id does not match request")

	// ErrUnexpectedResponse reports a response of the wrong kind for
	// the request, or a request kind that has no response.
	ErrUnexpectedResponse = errors.New("unexpected response kind")
)

// Handler receives one call per dispatched message. Implementations
// must handle every variant.
type Handler interface {
	BankStateRequest(BankStateRequest) error
	BankStateResponse(BankStateResponse) error
	BankState(BankState) error
	Health(DealerHealth) error
	PayInvoice(PayInvoice) error
	PayInsuranceInvoice(PayInsuranceInvoice) error
	CreateInvoiceRequest(CreateInvoiceRequest) error
	CreateInsuranceInvoiceRequest(CreateInsuranceInvoiceRequest) error
	CreateInvoiceResponse(CreateInvoiceResponse) error
	FiatDepositRequest(FiatDepositRequest) error
	FiatDepositResponse(FiatDepositResponse) error
	KarmaBalance(KarmaBalance) error
}

// Dispatch calls the Handler method matching m's variant. Pointer
// messages and nil are not variants and yield ErrUnhandledVariant.
func Dispatch(m Message, h Handler) error {
	switch message := m.(type) {
	case BankStateRequest:
		return h.BankStateRequest(message)
	case BankStateResponse:
		return h.BankStateResponse(message)
	case BankState:
		return h.BankState(message)
	case DealerHealth:
		return h.Health(message)
	case PayInvoice:
		return h.PayInvoice(message)
	case PayInsuranceInvoice:
		return h.PayInsuranceInvoice(message)
	case CreateInvoiceRequest:
		return h.CreateInvoiceRequest(message)
	case CreateInsuranceInvoiceRequest:
		return h.CreateInsuranceInvoiceRequest(message)
	case CreateInvoiceResponse:
		return h.CreateInvoiceResponse(message)
	case FiatDepositRequest:
		return h.FiatDepositRequest(message)
	case FiatDepositResponse:
		return h.FiatDepositResponse(message)
	case KarmaBalance:
		return h.KarmaBalance(message)
	default:
		return fmt.Errorf("%w: %T", ErrUnhandledVariant, m)
	}
}

// ResponseKind returns the variant that answers requests of kind k.
// The second result is false for kinds that are not answered.
func ResponseKind(k Kind) (Kind, bool) {
	switch k {
	case KindBankStateRequest:
		return KindBankStateResponse, true
	case KindCreateInvoiceRequest, KindCreateInsuranceInvoiceRequest:
		return KindCreateInvoiceResponse, true
	case KindFiatDepositRequest:
		return KindFiatDepositResponse, true
	default:
		return 0, false
	}
}

// CheckCorrelation verifies that response answers request: the kinds
// pair up and the request id was copied unchanged.
func CheckCorrelation(request, response Message) error {
	want, ok := ResponseKind(request.Kind())
	if !ok {
		return fmt.Errorf("%w: %s is not answered", ErrUnexpectedResponse, request.Kind())
	}
	if response.Kind() != want {
		return fmt.Errorf("%w: %s answered by %s, want %s", ErrUnexpectedResponse, request.Kind(), response.Kind(), want)
	}
	// Every answered request kind and its response kind implement
	// Correlated.
	requestID := request.(Correlated).RequestID()
	responseID := response.(Correlated).RequestID()
	if requestID != responseID {
		return fmt.Errorf("%w: request %d, response %d", ErrRequestIDMismatch, requestID, responseID)
	}
	return nil
}
