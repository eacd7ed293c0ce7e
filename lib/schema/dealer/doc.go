// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package dealer defines the closed set of messages exchanged between
// the dealer service and its peers (ledger engine, invoice backend,
// health consumers).
//
// Every message is one Go type implementing [Message]. The set is
// sealed: Message has an unexported method, so only this package adds
// variants. [Envelope] carries any Message over the wire. The text
// encoding is externally tagged,
//
//	{"BankStateRequest": {"req_id": 7}}
//
// and the compact encoding is a two-element array of the variant's
// [Kind] and its positional payload.
//
// Consumers dispatch with [Dispatch] and a [Handler]. Handler has one
// method per variant, so adding a variant breaks every consumer at
// compile time until it handles the new case.
//
// Requests carry a [core.RequestID]. Responses are built from their
// request ([BankStateRequest.Respond], [CreateInvoiceRequest.Respond],
// [FiatDepositRequest.Accept], [FiatDepositRequest.Reject]) so the id
// is always copied, never invented. The transport does not pair
// requests with responses; [CheckCorrelation] is the only guarantee.
package dealer
