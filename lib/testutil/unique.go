// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
)

var uniqueCounter atomic.Uint64

// UniqueID returns a string of the form "prefix-N" where N is a
// monotonically increasing integer.
//
//	topic := testutil.UniqueID("health") // "health-1", "health-2", ...
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

// InprocAddress returns an in-process endpoint no other test in the
// binary uses.
//
//	address := testutil.InprocAddress("bank-state") // "inproc://bank-state-4"
func InprocAddress(prefix string) string {
	return "inproc://" + UniqueID(prefix)
}
