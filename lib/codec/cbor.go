// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2). Same logical message always produces
// identical bytes.
var encMode cbor.EncMode

// decMode is the CBOR decoder. Unknown map fields are ignored; arrays
// written by ",toarray" structs must match the field count exactly.
var decMode cbor.DecMode

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	// Types that only offer encoding.TextMarshaler serialize as CBOR
	// text strings. The decoder mirrors this with TextUnmarshaler.
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	// Nil slices and maps encode as empty containers, never null.
	encOptions.NilContainers = cbor.NilContainerAsEmpty
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// Dealer payloads never use non-string map keys for
		// interface-typed targets.
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v to CBOR using Core Deterministic Encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// RawMessage is a raw encoded CBOR value. Used to delay decoding of a
// payload until its variant is known.
type RawMessage = cbor.RawMessage

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) for
// data. dealer-tap uses it to show compact payloads that fail to
// decode.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
