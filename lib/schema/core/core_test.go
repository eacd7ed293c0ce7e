// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseCurrency(t *testing.T) {
	for _, code := range []string{"BTC", "USD", "EUR", "GBP"} {
		if _, err := ParseCurrency(code); err != nil {
			t.Errorf("ParseCurrency(%q): %v", code, err)
		}
	}
	if _, err := ParseCurrency("usd"); err == nil {
		t.Error("ParseCurrency should be case sensitive")
	}
	if _, err := ParseCurrency("DOGE"); err == nil {
		t.Error("ParseCurrency should reject unknown codes")
	}
}

func TestCurrencyIsFiat(t *testing.T) {
	if BTC.IsFiat() {
		t.Error("BTC reported as fiat")
	}
	if !USD.IsFiat() {
		t.Error("USD not reported as fiat")
	}
	if Currency("XYZ").IsFiat() {
		t.Error("unknown currency reported as fiat")
	}
}

func TestUnixSeconds(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want uint64
	}{
		{"epoch", time.Unix(0, 0), 0},
		{"truncates", time.Unix(1700000000, 999_999_999), 1700000000},
		{"non-utc zone", time.Date(2026, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600)), 1767225600},
	}
	for _, test := range tests {
		got, err := UnixSeconds(test.at)
		if err != nil {
			t.Errorf("%s: UnixSeconds: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: UnixSeconds = %d, want %d", test.name, got, test.want)
		}
	}
}

func TestUnixSecondsBeforeEpoch(t *testing.T) {
	_, err := UnixSeconds(time.Unix(-1, 0))
	if !errors.Is(err, ErrBeforeEpoch) {
		t.Fatalf("UnixSeconds(-1s) error = %v, want ErrBeforeEpoch", err)
	}
	_, err = UnixSeconds(time.Unix(0, -1))
	if !errors.Is(err, ErrBeforeEpoch) {
		t.Fatalf("UnixSeconds(-1ns) error = %v, want ErrBeforeEpoch", err)
	}
}
