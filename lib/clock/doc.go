// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// Components that stamp messages (dealer health, tracked addresses) or
// publish on an interval accept a Clock instead of calling time.Now or
// time.NewTicker directly. Production wiring passes Real(); tests pass
// Fake() and move time forward with Advance.
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go reporter.Run(ctx)
//	c.WaitForTickers(1)         // reporter registered its ticker
//	c.Advance(5 * time.Second)  // deliver exactly one tick
package clock
