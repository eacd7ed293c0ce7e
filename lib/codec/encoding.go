// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Encoding selects the wire format of a socket payload. The zero
// value is Text.
type Encoding uint8

const (
	// Text is UTF-8 JSON, one message per transmission unit.
	Text Encoding = iota

	// Compact is CBOR with Core Deterministic Encoding.
	Compact

	// CompactZstd is Compact followed by zstd compression.
	CompactZstd

	// CompactLZ4 is Compact followed by LZ4 block compression.
	CompactLZ4
)

// ErrMalformed is wrapped by every Decode failure: the payload does
// not parse into the declared schema.
var ErrMalformed = errors.New("malformed payload")

// String returns the configuration name of the encoding.
func (e Encoding) String() string {
	switch e {
	case Text:
		return "text"
	case Compact:
		return "compact"
	case CompactZstd:
		return "compact+zstd"
	case CompactLZ4:
		return "compact+lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// ParseEncoding parses the configuration name of an encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch name {
	case "text", "json":
		return Text, nil
	case "compact", "cbor":
		return Compact, nil
	case "compact+zstd":
		return CompactZstd, nil
	case "compact+lz4":
		return CompactLZ4, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q (want text, compact, compact+zstd, or compact+lz4)", name)
	}
}

// MarshalText implements encoding.TextMarshaler so encodings appear
// by name in config files and logs.
func (e Encoding) MarshalText() ([]byte, error) {
	switch e {
	case Text, Compact, CompactZstd, CompactLZ4:
		return []byte(e.String()), nil
	default:
		return nil, fmt.Errorf("unknown encoding %d", uint8(e))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Encoding) UnmarshalText(text []byte) error {
	parsed, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Compressed reports whether the encoding wraps its compact payload
// in a compression frame.
func (e Encoding) Compressed() bool {
	return e == CompactZstd || e == CompactLZ4
}

// Encode serializes v in the given encoding.
func Encode(encoding Encoding, v any) ([]byte, error) {
	switch encoding {
	case Text:
		return EncodeText(v)
	case Compact:
		return Marshal(v)
	case CompactZstd, CompactLZ4:
		payload, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		return compress(payload, compressionFor(encoding))
	default:
		return nil, fmt.Errorf("encode: unknown encoding %d", uint8(encoding))
	}
}

// Decode parses data in the given encoding into v. Every failure to
// parse wraps ErrMalformed.
func Decode(encoding Encoding, data []byte, v any) error {
	switch encoding {
	case Text:
		return DecodeText(data, v)
	case Compact:
		if err := Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: compact: %w", ErrMalformed, err)
		}
		return nil
	case CompactZstd, CompactLZ4:
		payload, err := decompress(data)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformed, encoding, err)
		}
		if err := Unmarshal(payload, v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrMalformed, encoding, err)
		}
		return nil
	default:
		return fmt.Errorf("decode: unknown encoding %d", uint8(encoding))
	}
}

// EncodeText serializes v as compact (unindented) JSON.
func EncodeText(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeText parses JSON data into v.
func DecodeText(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: text: %w", ErrMalformed, err)
	}
	return nil
}
