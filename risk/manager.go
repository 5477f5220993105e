/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package risk holds the order lifecycle state machine and the gating
// logic that decides whether, and at what size and levels, a predicted
// edge is allowed to become a live order.
package risk

import (
	"log"
	"math"
	"time"

	"github.com/gurre/prime-quote-engine/mathutil"
)

// Status is the order lifecycle state. Exactly one logical position may be
// non-Idle at a time.
type Status int

const (
	Idle Status = iota
	PendingNew
	StatusNew
	PartiallyFilled
	Filled
	Rejected
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case PendingNew:
		return "PendingNew"
	case StatusNew:
		return "New"
	case PartiallyFilled:
		return "PartiallyFilled"
	case Filled:
		return "Filled"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Position is an immutable record of one order's entry thesis: the levels
// and model state at the moment the order was sent, used later to decide
// when to exit and to couple execution reports back to the order that
// caused them.
type Position struct {
	ClOrdID         string
	EntryMid        float64
	Side            string // "1"=buy/long, "2"=sell/short
	Quantity        float64
	TPPrice         float64
	SLPrice         float64
	EntryMu         float64
	EntrySigmaTotal float64
	EntrySNR        float64
}

// Manager tracks the single logical position's lifecycle and gates new
// order submission.
//
// Manager is mutated only from the control loop goroutine.
type Manager struct {
	status        Status
	lastOrderTime time.Time
	cooldown      time.Duration
	maxUnits      float64

	LambdaEpistemic float64
	SNRThreshold    float64
	TPPercentile    float64
	SLPercentile    float64
	Quantity        float64
}

// Config bundles the tunable gating parameters. Zero values fall back to
// the documented defaults.
type Config struct {
	Cooldown        time.Duration
	MaxUnits        float64
	LambdaEpistemic float64
	SNRThreshold    float64
	TPPercentile    float64
	SLPercentile    float64
	Quantity        float64
}

// New returns a Manager in the Idle state, with its cooldown already
// elapsed so the very first evaluate call is not gated by startup timing.
func New(cfg Config) *Manager {
	if cfg.Cooldown == 0 {
		cfg.Cooldown = 5 * time.Second
	}
	if cfg.LambdaEpistemic == 0 {
		cfg.LambdaEpistemic = 1.5
	}
	if cfg.SNRThreshold == 0 {
		cfg.SNRThreshold = 0.4
	}
	if cfg.TPPercentile == 0 {
		cfg.TPPercentile = 0.75
	}
	if cfg.SLPercentile == 0 {
		cfg.SLPercentile = 0.25
	}
	if cfg.Quantity == 0 {
		cfg.Quantity = 1000
	}
	return &Manager{
		status:          Idle,
		lastOrderTime:   time.Now().Add(-cfg.Cooldown),
		cooldown:        cfg.Cooldown,
		maxUnits:        cfg.MaxUnits,
		LambdaEpistemic: cfg.LambdaEpistemic,
		SNRThreshold:    cfg.SNRThreshold,
		TPPercentile:    cfg.TPPercentile,
		SLPercentile:    cfg.SLPercentile,
		Quantity:        cfg.Quantity,
	}
}

// Status returns the manager's current lifecycle state.
func (m *Manager) Status() Status {
	return m.status
}

// SetStatus transitions to newStatus, logging the prior state. Transitioning
// to PendingNew stamps the cooldown clock; transitioning to Rejected clears
// back to Idle in the same call, so callers never need a second "force idle"
// step.
func (m *Manager) SetStatus(newStatus Status) {
	log.Printf("[RISK] status %s -> %s", m.status, newStatus)
	if newStatus == PendingNew {
		m.lastOrderTime = time.Now()
	}
	if newStatus == Rejected {
		m.status = Idle
		return
	}
	m.status = newStatus
}

// Evaluation is the outcome of a successful Evaluate call.
type Evaluation struct {
	Quantity float64
	TPPrice  float64
	SLPrice  float64
}

// Evaluate runs the full decision chain: idle + cooldown + SNR gates, then
// computes size and Bayesian TP/SL levels. ok is false if any gate fails.
func (m *Manager) Evaluate(mid, mu, sigmaAleatoric, sigmaEpistemic float64, side string) (Evaluation, bool) {
	if m.status != Idle {
		return Evaluation{}, false
	}
	if time.Since(m.lastOrderTime) < m.cooldown {
		return Evaluation{}, false
	}

	sigmaTotal := math.Sqrt(sigmaAleatoric*sigmaAleatoric + (m.LambdaEpistemic*sigmaEpistemic)*(m.LambdaEpistemic*sigmaEpistemic))
	snr := math.Abs(mu-0.5) / math.Max(sigmaTotal, 1e-6)
	if snr < m.SNRThreshold {
		return Evaluation{}, false
	}

	qty := m.Quantity
	if m.maxUnits > 0 && qty > m.maxUnits {
		qty = m.maxUnits
	}

	directionalMu := mu - 0.5
	tp, sl := mathutil.BayesianLevels(mid, directionalMu, sigmaTotal, side, m.TPPercentile, m.SLPercentile)
	tp = round5(tp)
	sl = round5(sl)

	if tp <= 0 || sl <= 0 || math.Abs(tp-mid) < 1e-7 {
		return Evaluation{}, false
	}

	return Evaluation{Quantity: qty, TPPrice: tp, SLPrice: sl}, true
}

func round5(x float64) float64 {
	const scale = 1e5
	return math.Round(x*scale) / scale
}
