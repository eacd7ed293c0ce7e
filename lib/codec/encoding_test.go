// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// sampleMessage mirrors how dealer payloads are declared: positional
// CBOR and snake_case JSON.
type sampleMessage struct {
	_       struct{} `cbor:",toarray"`
	ReqID   uint64   `json:"req_id"`
	Memo    string   `json:"memo"`
	Amount  *uint64  `json:"amount"`
	Symbols []string `json:"symbols"`
}

func sample() sampleMessage {
	amount := uint64(42)
	return sampleMessage{
		ReqID:   7,
		Memo:    "top up",
		Amount:  &amount,
		Symbols: []string{"BTC", "USD"},
	}
}

func equalSample(a, b sampleMessage) bool {
	if a.ReqID != b.ReqID || a.Memo != b.Memo || len(a.Symbols) != len(b.Symbols) {
		return false
	}
	if (a.Amount == nil) != (b.Amount == nil) {
		return false
	}
	if a.Amount != nil && *a.Amount != *b.Amount {
		return false
	}
	for i := range a.Symbols {
		if a.Symbols[i] != b.Symbols[i] {
			return false
		}
	}
	return true
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	for _, encoding := range []Encoding{Text, Compact, CompactZstd, CompactLZ4} {
		t.Run(encoding.String(), func(t *testing.T) {
			original := sample()
			data, err := Encode(encoding, original)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if len(data) == 0 {
				t.Fatal("Encode produced empty output")
			}

			var decoded sampleMessage
			if err := Decode(encoding, data, &decoded); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !equalSample(decoded, original) {
				t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
			}
		})
	}
}

func TestAbsentAmountSurvivesRoundtrip(t *testing.T) {
	for _, encoding := range []Encoding{Text, Compact} {
		original := sample()
		original.Amount = nil

		data, err := Encode(encoding, original)
		if err != nil {
			t.Fatalf("%s Encode: %v", encoding, err)
		}
		var decoded sampleMessage
		if err := Decode(encoding, data, &decoded); err != nil {
			t.Fatalf("%s Decode: %v", encoding, err)
		}
		if decoded.Amount != nil {
			t.Errorf("%s: absent amount decoded as %d", encoding, *decoded.Amount)
		}
	}
}

func TestTextIsReadableJSON(t *testing.T) {
	data, err := Encode(Text, sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), `"req_id":7`) {
		t.Errorf("text payload %s does not name req_id", data)
	}
}

func TestCompactIsPositional(t *testing.T) {
	data, err := Encode(Compact, sample())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if bytes.Contains(data, []byte("req_id")) {
		t.Errorf("compact payload carries field names: %x", data)
	}
	// Major type 4 (array) with four elements.
	if data[0] != 0x84 {
		t.Errorf("compact payload starts with %#x, want array header 0x84", data[0])
	}
}

func TestCompactDeterministic(t *testing.T) {
	first, err := Marshal(map[string]int{"b": 2, "a": 1, "c": 3})
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	second, err := Marshal(map[string]int{"c": 3, "a": 1, "b": 2})
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding violated: %x != %x", first, second)
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name     string
		encoding Encoding
		data     []byte
	}{
		{"text", Text, []byte(`{"req_id":`)},
		{"compact", Compact, []byte{0xFF, 0xFE, 0xFD}},
		{"compact wrong arity", Compact, []byte{0x82, 0x01, 0x02}},
		{"zstd empty", CompactZstd, nil},
		{"zstd bad tag", CompactZstd, []byte{9, 1, 0}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var decoded sampleMessage
			err := Decode(test.encoding, test.data, &decoded)
			if err == nil {
				t.Fatal("Decode should reject malformed payload")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		name string
		want Encoding
	}{
		{"text", Text},
		{"json", Text},
		{"compact", Compact},
		{"cbor", Compact},
		{"compact+zstd", CompactZstd},
		{"compact+lz4", CompactLZ4},
	}
	for _, test := range tests {
		got, err := ParseEncoding(test.name)
		if err != nil {
			t.Errorf("ParseEncoding(%q): %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseEncoding(%q) = %s, want %s", test.name, got, test.want)
		}
	}

	if _, err := ParseEncoding("bincode"); err == nil {
		t.Error("ParseEncoding should reject unknown names")
	}
}

func TestEncodingTextRoundtrip(t *testing.T) {
	for _, encoding := range []Encoding{Text, Compact, CompactZstd, CompactLZ4} {
		text, err := encoding.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", encoding, err)
		}
		var parsed Encoding
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if parsed != encoding {
			t.Errorf("text roundtrip: got %s, want %s", parsed, encoding)
		}
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"kind": "Health"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"Health"`) {
		t.Errorf("notation %q does not contain \"Health\"", notation)
	}
}

func BenchmarkEncodeCompact(b *testing.B) {
	message := sample()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Encode(Compact, message)
	}
}
