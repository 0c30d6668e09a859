// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pinger checks upstream reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProbeStatus is the outcome of the latest upstream check.
type ProbeStatus struct {
	Checked   bool
	Healthy   bool
	CheckedAt time.Time
	Latency   time.Duration
	Error     string
}

// Probe records whether the remote API answered its last ping.
type Probe struct {
	pinger  Pinger
	timeout time.Duration
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	status ProbeStatus
}

// NewProbe creates a probe. Each check is bounded by timeout.
func NewProbe(pinger Pinger, timeout time.Duration, logger *slog.Logger) *Probe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Probe{pinger: pinger, timeout: timeout, logger: logger, now: time.Now}
}

// Check pings the upstream once and stores the result. Transitions between
// healthy and unhealthy are logged.
func (p *Probe) Check(ctx context.Context) ProbeStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := p.now()
	err := p.pinger.Ping(ctx)
	st := ProbeStatus{
		Checked:   true,
		Healthy:   err == nil,
		CheckedAt: start,
		Latency:   p.now().Sub(start),
	}
	if err != nil {
		st.Error = err.Error()
	}

	p.mu.Lock()
	prev := p.status
	p.status = st
	p.mu.Unlock()

	switch {
	case !st.Healthy && (prev.Healthy || !prev.Checked):
		p.logger.Warn("upstream API unreachable", "error", err)
	case st.Healthy && !prev.Healthy && prev.Checked:
		p.logger.Info("upstream API reachable again", "latency", st.Latency)
	}
	return st
}

// Status returns the latest result. Before the first check it is zero.
func (p *Probe) Status() ProbeStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
