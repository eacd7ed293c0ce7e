// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for dealer packages.
//
// [RequireReceive] and [RequireClosed] wrap the select
// with a time.After fallback so that tests never hang on a socket that
// is not wired the way the test expects. They are the only place in
// the test suite where real wall-clock timeouts are used.
//
// [UniqueID] generates monotonically increasing identifiers, and
// [InprocAddress] turns one into an in-process transport endpoint so
// that tests running in parallel never bind the same address.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
