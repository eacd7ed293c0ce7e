// Copyright 2026 The Dealer Authors
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fiatbridge/dealer/lib/clock"
	"github.com/fiatbridge/dealer/lib/codec"
	"github.com/fiatbridge/dealer/lib/schema/core"
	"github.com/fiatbridge/dealer/lib/schema/dealer"
	"github.com/fiatbridge/dealer/lib/socket"
)

// StatusFunc reports the dealer's current status and the currencies
// it quotes. It is called once per published report.
type StatusFunc func() (dealer.HealthStatus, []core.Currency)

// HealthConfig configures a HealthReporter.
type HealthConfig struct {
	// Sender is normally a publisher socket.
	Sender socket.Sender

	// Encoding of the published envelopes.
	Encoding codec.Encoding

	// Interval between two reports.
	Interval time.Duration

	// Status is consulted before every report. Nil reports Running
	// with Currencies.
	Status StatusFunc

	// Currencies advertised when Status is nil.
	Currencies []core.Currency

	// Clock drives the ticker and stamps reports. Production callers
	// pass clock.Real(); tests pass clock.Fake().
	Clock clock.Clock

	// Logger receives send failures.
	Logger *slog.Logger
}

// HealthReporter publishes DealerHealth envelopes periodically.
//
// Lifecycle: call [HealthReporter.Run] in a goroutine, then cancel the
// context to stop it. Run publishes a final Down report before closing
// the Done channel.
type HealthReporter struct {
	sender   socket.Sender
	encoding codec.Encoding
	interval time.Duration
	status   StatusFunc
	clock    clock.Clock
	logger   *slog.Logger

	done chan struct{}
}

// NewHealthReporter validates config and returns a reporter.
func NewHealthReporter(config HealthConfig) (*HealthReporter, error) {
	if config.Sender == nil {
		return nil, fmt.Errorf("health reporter: Sender is required")
	}
	if config.Interval <= 0 {
		return nil, fmt.Errorf("health reporter: Interval must be positive, got %s", config.Interval)
	}
	if config.Clock == nil {
		return nil, fmt.Errorf("health reporter: Clock is required")
	}
	if config.Logger == nil {
		return nil, fmt.Errorf("health reporter: Logger is required")
	}

	status := config.Status
	if status == nil {
		currencies := append([]core.Currency{}, config.Currencies...)
		status = func() (dealer.HealthStatus, []core.Currency) {
			return dealer.Running, currencies
		}
	}

	return &HealthReporter{
		sender:   config.Sender,
		encoding: config.Encoding,
		interval: config.Interval,
		status:   status,
		clock:    config.Clock,
		logger:   config.Logger,
		done:     make(chan struct{}),
	}, nil
}

// Run publishes one report immediately and one per interval until ctx
// is cancelled. Send failures are logged and the loop carries on.
//
// Must be called exactly once per reporter.
func (h *HealthReporter) Run(ctx context.Context) {
	defer close(h.done)

	ticker := h.clock.NewTicker(h.interval)
	defer ticker.Stop()

	h.report(h.status())
	for {
		select {
		case <-ticker.C:
			h.report(h.status())
		case <-ctx.Done():
			_, currencies := h.status()
			h.report(dealer.Down, currencies)
			return
		}
	}
}

// Done returns a channel that is closed after Run has returned.
func (h *HealthReporter) Done() <-chan struct{} {
	return h.done
}

func (h *HealthReporter) report(status dealer.HealthStatus, currencies []core.Currency) {
	health, err := dealer.NewDealerHealth(h.clock, status, currencies)
	if err != nil {
		h.logger.Error("health report not stamped", "error", err)
		return
	}
	if err := socket.SendEncoded(h.sender, h.encoding, dealer.Wrap(health)); err != nil {
		h.logger.Warn("health report not sent", "status", string(status), "error", err)
	}
}
