// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package dealer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fiatbridge/dealer/lib/codec"
)

// Kind identifies a Message variant. The numeric values are the
// compact wire tags: reordering them breaks every peer.
type Kind uint8

const (
	KindBankStateRequest Kind = iota
	KindBankStateResponse
	KindBankState
	KindHealth
	KindPayInvoice
	KindPayInsuranceInvoice
	KindCreateInvoiceRequest
	KindCreateInsuranceInvoiceRequest
	KindCreateInvoiceResponse
	KindFiatDepositRequest
	KindFiatDepositResponse
	KindKarmaBalance

	kindCount
)

var kindNames = [kindCount]string{
	KindBankStateRequest:              "BankStateRequest",
	KindBankStateResponse:             "BankStateResponse",
	KindBankState:                     "BankState",
	KindHealth:                        "Health",
	KindPayInvoice:                    "PayInvoice",
	KindPayInsuranceInvoice:           "PayInsuranceInvoice",
	KindCreateInvoiceRequest:          "CreateInvoiceRequest",
	KindCreateInsuranceInvoiceRequest: "CreateInsuranceInvoiceRequest",
	KindCreateInvoiceResponse:         "CreateInvoiceResponse",
	KindFiatDepositRequest:            "FiatDepositRequest",
	KindFiatDepositResponse:           "FiatDepositResponse",
	KindKarmaBalance:                  "KarmaBalance",
}

// Kinds returns every variant in wire-tag order.
func Kinds() []Kind {
	kinds := make([]Kind, kindCount)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the variant name used as the text-encoding tag.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a variant name.
func ParseKind(name string) (Kind, error) {
	for kind, candidate := range kindNames {
		if candidate == name {
			return Kind(kind), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown message kind %q", ErrUnhandledVariant, name)
}

// Message is one dealer message variant. Implemented only by the
// payload types in this package.
type Message interface {
	Kind() Kind
	isDealerMessage()
}

func (BankStateRequest) Kind() Kind              { return KindBankStateRequest }
func (BankStateResponse) Kind() Kind             { return KindBankStateResponse }
func (BankState) Kind() Kind                     { return KindBankState }
func (DealerHealth) Kind() Kind                  { return KindHealth }
func (PayInvoice) Kind() Kind                    { return KindPayInvoice }
func (PayInsuranceInvoice) Kind() Kind           { return KindPayInsuranceInvoice }
func (CreateInvoiceRequest) Kind() Kind          { return KindCreateInvoiceRequest }
func (CreateInsuranceInvoiceRequest) Kind() Kind { return KindCreateInsuranceInvoiceRequest }
func (CreateInvoiceResponse) Kind() Kind         { return KindCreateInvoiceResponse }
func (FiatDepositRequest) Kind() Kind            { return KindFiatDepositRequest }
func (FiatDepositResponse) Kind() Kind           { return KindFiatDepositResponse }
func (KarmaBalance) Kind() Kind                  { return KindKarmaBalance }

func (BankStateRequest) isDealerMessage()              {}
func (BankStateResponse) isDealerMessage()             {}
func (BankState) isDealerMessage()                     {}
func (DealerHealth) isDealerMessage()                  {}
func (PayInvoice) isDealerMessage()                    {}
func (PayInsuranceInvoice) isDealerMessage()           {}
func (CreateInvoiceRequest) isDealerMessage()          {}
func (CreateInsuranceInvoiceRequest) isDealerMessage() {}
func (CreateInvoiceResponse) isDealerMessage()         {}
func (FiatDepositRequest) isDealerMessage()            {}
func (FiatDepositResponse) isDealerMessage()           {}
func (KarmaBalance) isDealerMessage()                  {}

// payloadDecoder parses one variant's payload with the given
// unmarshal function (json.Unmarshal or codec.Unmarshal).
type payloadDecoder func(data []byte, unmarshal func([]byte, any) error) (Message, error)

func decodeAs[T Message](data []byte, unmarshal func([]byte, any) error) (Message, error) {
	var payload T
	if err := unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

var payloadDecoders = [kindCount]payloadDecoder{
	KindBankStateRequest:              decodeAs[BankStateRequest],
	KindBankStateResponse:             decodeAs[BankStateResponse],
	KindBankState:                     decodeAs[BankState],
	KindHealth:                        decodeAs[DealerHealth],
	KindPayInvoice:                    decodeAs[PayInvoice],
	KindPayInsuranceInvoice:           decodeAs[PayInsuranceInvoice],
	KindCreateInvoiceRequest:          decodeAs[CreateInvoiceRequest],
	KindCreateInsuranceInvoiceRequest: decodeAs[CreateInsuranceInvoiceRequest],
	KindCreateInvoiceResponse:         decodeAs[CreateInvoiceResponse],
	KindFiatDepositRequest:            decodeAs[FiatDepositRequest],
	KindFiatDepositResponse:           decodeAs[FiatDepositResponse],
	KindKarmaBalance:                  decodeAs[KarmaBalance],
}

// ErrEmptyEnvelope is returned when encoding an Envelope with no
// Message.
var ErrEmptyEnvelope = errors.New("envelope carries no message")

// Envelope carries one Message on the wire.
type Envelope struct {
	Message Message
}

// Wrap returns an Envelope carrying m.
func Wrap(m Message) Envelope { return Envelope{Message: m} }

// MarshalJSON encodes the envelope as {"<Kind>": payload}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Message == nil {
		return nil, ErrEmptyEnvelope
	}
	return json.Marshal(map[string]Message{e.Message.Kind().String(): e.Message})
}

// UnmarshalJSON decodes an externally tagged envelope. Exactly one tag
// must be present.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("dealer envelope: %w", err)
	}
	if len(tagged) != 1 {
		return fmt.Errorf("dealer envelope: want exactly one variant tag, got %d", len(tagged))
	}
	for name, payload := range tagged {
		kind, err := ParseKind(name)
		if err != nil {
			return fmt.Errorf("dealer envelope: %w", err)
		}
		message, err := payloadDecoders[kind](payload, json.Unmarshal)
		if err != nil {
			return fmt.Errorf("dealer envelope %s: %w", kind, err)
		}
		e.Message = message
	}
	return nil
}

// compactEnvelope is the CBOR layout: [kind, payload].
type compactEnvelope struct {
	_       struct{} `cbor:",toarray"`
	Kind    Kind
	Payload codec.RawMessage
}

// MarshalCBOR encodes the envelope as [kind, payload].
func (e Envelope) MarshalCBOR() ([]byte, error) {
	if e.Message == nil {
		return nil, ErrEmptyEnvelope
	}
	payload, err := codec.Marshal(e.Message)
	if err != nil {
		return nil, fmt.Errorf("dealer envelope %s: %w", e.Message.Kind(), err)
	}
	return codec.Marshal(compactEnvelope{Kind: e.Message.Kind(), Payload: payload})
}

// UnmarshalCBOR decodes a [kind, payload] envelope.
func (e *Envelope) UnmarshalCBOR(data []byte) error {
	var compact compactEnvelope
	if err := codec.Unmarshal(data, &compact); err != nil {
		return fmt.Errorf("dealer envelope: %w", err)
	}
	if compact.Kind >= kindCount {
		return fmt.Errorf("dealer envelope: %w: wire tag %d", ErrUnhandledVariant, uint8(compact.Kind))
	}
	message, err := payloadDecoders[compact.Kind](compact.Payload, codec.Unmarshal)
	if err != nil {
		return fmt.Errorf("dealer envelope %s: %w", compact.Kind, err)
	}
	e.Message = message
	return nil
}
