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

// Package executor demultiplexes inbound execution reports onto the risk
// manager's state machine and the pending/active position slots, and
// monitors an active position for its exit conditions.
package executor

import (
	"log"

	"github.com/gurre/prime-quote-engine/codec"
	"github.com/gurre/prime-quote-engine/risk"
)

// Executor owns the single logical active position, if any, and couples
// execution reports back to the pending thesis by ClOrdID.
//
// Executor is mutated only from the control loop goroutine.
type Executor struct {
	activePosition *risk.Position
}

// New returns an Executor with no active position.
func New() *Executor {
	return &Executor{}
}

// ActivePosition returns the current active position, or nil if flat.
func (e *Executor) ActivePosition() *risk.Position {
	return e.activePosition
}

// HandleExecReport applies one parsed execution/cancel-reject message to
// the risk manager's status and to pendingThesis/activePosition, following
// the demultiplex rules: session rejects and cancel rejects are logged
// without mutating state; business/execution rejects that match the
// pending thesis clear it back to Idle; a confirmed fill promotes the
// pending thesis to the active position; cancel/expire clears the active
// position.
func (e *Executor) HandleExecReport(report codec.ExecReport, riskMgr *risk.Manager, pendingThesis **risk.Position) {
	switch {
	case report.MsgType == "3":
		log.Printf("[EXECUTOR] session reject, protocol error: %s", report.Text)
		return

	case report.MsgType == "j" || report.OrdStatus == "8":
		log.Printf("[EXECUTOR] order rejected: %s (id=%s)", report.Text, report.ClOrdID)
		if *pendingThesis != nil && (*pendingThesis).ClOrdID == report.ClOrdID {
			riskMgr.SetStatus(risk.Rejected)
			*pendingThesis = nil
		}
		return

	case report.MsgType == "9":
		log.Printf("[EXECUTOR] cancel reject (id=%s): reason=%s, awaiting final report", report.ClOrdID, report.RejReason)
		return
	}

	if report.MsgType != "8" {
		return
	}

	switch report.OrdStatus {
	case "0":
		log.Printf("[EXECUTOR] order accepted: %s", report.ClOrdID)
		riskMgr.SetStatus(risk.StatusNew)

	case "2":
		if *pendingThesis != nil && (*pendingThesis).ClOrdID == report.ClOrdID {
			log.Printf("[EXECUTOR] fill confirmed: %s, activating tracking", report.ClOrdID)
			riskMgr.SetStatus(risk.Filled)
			e.activePosition = *pendingThesis
			*pendingThesis = nil
		} else {
			log.Printf("[EXECUTOR] fill for unrelated ClOrdID %s, ignoring", report.ClOrdID)
		}

	case "4", "C":
		log.Printf("[EXECUTOR] order closed/cancelled: %s", report.ClOrdID)
		riskMgr.SetStatus(risk.Idle)
		e.activePosition = nil
	}
}

// MonitorPosition reports whether the active position should be closed:
// either its TP/SL level has been crossed, or the current uncertainty has
// spiked past the entry uncertainty scaled by lambdaEpistemic, invalidating
// the original thesis. Returns false if there is no active position.
func (e *Executor) MonitorPosition(currentMid, currentSigma, lambdaEpistemic float64) bool {
	pos := e.activePosition
	if pos == nil {
		return false
	}

	var crossedLevel bool
	if pos.Side == "1" {
		crossedLevel = currentMid >= pos.TPPrice || currentMid <= pos.SLPrice
	} else {
		crossedLevel = currentMid <= pos.TPPrice || currentMid >= pos.SLPrice
	}
	if crossedLevel {
		log.Printf("[EXECUTOR] exit by TP/SL level for %s", pos.ClOrdID)
		return true
	}

	if currentSigma > pos.EntrySigmaTotal*lambdaEpistemic {
		log.Printf("[EXECUTOR] thesis invalidated by sigma spike for %s", pos.ClOrdID)
		return true
	}

	return false
}

// ClosePosition clears the active position, e.g. once an exit order has
// been sent.
func (e *Executor) ClosePosition() {
	e.activePosition = nil
}
