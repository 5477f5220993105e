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

package executor

import (
	"testing"

	"github.com/gurre/prime-quote-engine/codec"
	"github.com/gurre/prime-quote-engine/risk"
)

func TestExecutor_RejectClearsThesisAndStatus(t *testing.T) {
	e := New()
	mgr := risk.New(risk.Config{MaxUnits: 5000})
	mgr.SetStatus(risk.PendingNew)
	pending := &risk.Position{ClOrdID: "ID-20260731-000000-0001", Side: "1"}

	report := codec.ExecReport{MsgType: "8", OrdStatus: "8", ClOrdID: pending.ClOrdID, Text: "insufficient margin"}
	e.HandleExecReport(report, mgr, &pending)

	if mgr.Status() != risk.Idle {
		t.Errorf("status = %v, want Idle", mgr.Status())
	}
	if pending != nil {
		t.Error("expected pending thesis to be cleared on reject")
	}
	if e.ActivePosition() != nil {
		t.Error("expected no active position after a reject")
	}
}

func TestExecutor_AcceptThenFillPromotesPendingToActive(t *testing.T) {
	e := New()
	mgr := risk.New(risk.Config{MaxUnits: 5000})
	mgr.SetStatus(risk.PendingNew)
	pending := &risk.Position{ClOrdID: "ID-20260731-000000-0002", Side: "1", TPPrice: 1.2, SLPrice: 1.0}

	e.HandleExecReport(codec.ExecReport{MsgType: "8", OrdStatus: "0", ClOrdID: pending.ClOrdID}, mgr, &pending)
	if mgr.Status() != risk.StatusNew {
		t.Fatalf("status after accept = %v, want New", mgr.Status())
	}

	e.HandleExecReport(codec.ExecReport{MsgType: "8", OrdStatus: "2", ClOrdID: pending.ClOrdID}, mgr, &pending)
	if mgr.Status() != risk.Filled {
		t.Errorf("status after fill = %v, want Filled", mgr.Status())
	}
	if pending != nil {
		t.Error("expected pending thesis to be cleared once promoted")
	}
	if e.ActivePosition() == nil || e.ActivePosition().ClOrdID != "ID-20260731-000000-0002" {
		t.Error("expected fill to promote pending thesis to active position")
	}
}

func TestExecutor_FillForUnrelatedClOrdIDIgnored(t *testing.T) {
	e := New()
	mgr := risk.New(risk.Config{MaxUnits: 5000})
	pending := &risk.Position{ClOrdID: "ID-A"}

	e.HandleExecReport(codec.ExecReport{MsgType: "8", OrdStatus: "2", ClOrdID: "ID-B"}, mgr, &pending)

	if e.ActivePosition() != nil {
		t.Error("fill for an unrelated ClOrdID must not activate a position")
	}
	if pending == nil {
		t.Error("pending thesis for the real order must survive an unrelated fill")
	}
}

func TestExecutor_CancelClearsActivePosition(t *testing.T) {
	e := New()
	e.activePosition = &risk.Position{ClOrdID: "ID-20260731-000000-0003"}
	mgr := risk.New(risk.Config{MaxUnits: 5000})
	mgr.SetStatus(risk.Filled)
	var pending *risk.Position

	e.HandleExecReport(codec.ExecReport{MsgType: "8", OrdStatus: "4", ClOrdID: "ID-20260731-000000-0003"}, mgr, &pending)

	if mgr.Status() != risk.Idle {
		t.Errorf("status after cancel = %v, want Idle", mgr.Status())
	}
	if e.ActivePosition() != nil {
		t.Error("expected active position cleared after cancel report")
	}
}

func TestExecutor_SessionAndCancelRejectsDoNotMutateState(t *testing.T) {
	e := New()
	mgr := risk.New(risk.Config{MaxUnits: 5000})
	mgr.SetStatus(risk.StatusNew)
	e.activePosition = &risk.Position{ClOrdID: "ID-X"}
	var pending *risk.Position

	e.HandleExecReport(codec.ExecReport{MsgType: "3", Text: "garbled message"}, mgr, &pending)
	e.HandleExecReport(codec.ExecReport{MsgType: "9", ClOrdID: "ID-X", RejReason: "unknown order"}, mgr, &pending)

	if mgr.Status() != risk.StatusNew {
		t.Errorf("status = %v, want unchanged New", mgr.Status())
	}
	if e.ActivePosition() == nil {
		t.Error("session/cancel rejects must not clear an active position")
	}
}

func TestExecutor_MonitorPosition_LongExitsOnTakeProfit(t *testing.T) {
	e := New()
	e.activePosition = &risk.Position{
		Side: "1", TPPrice: 1.20, SLPrice: 1.00, EntrySigmaTotal: 0.05,
	}

	if !e.MonitorPosition(1.20, 0.01, 1.5) {
		t.Error("expected long position to exit once mid reaches TP")
	}
}

func TestExecutor_MonitorPosition_ShortExitsOnStopLoss(t *testing.T) {
	e := New()
	e.activePosition = &risk.Position{
		Side: "2", TPPrice: 1.00, SLPrice: 1.20, EntrySigmaTotal: 0.05,
	}

	if !e.MonitorPosition(1.20, 0.01, 1.5) {
		t.Error("expected short position to exit once mid reaches its SL")
	}
}

func TestExecutor_MonitorPosition_SigmaSpikeInvalidatesThesis(t *testing.T) {
	e := New()
	e.activePosition = &risk.Position{
		Side: "1", TPPrice: 1.50, SLPrice: 0.90, EntrySigmaTotal: 0.02,
	}

	if !e.MonitorPosition(1.10, 0.05, 1.5) {
		t.Error("expected sigma spike past lambda*entry_sigma to trigger exit")
	}
}

func TestExecutor_MonitorPosition_HoldsWhenNothingTriggers(t *testing.T) {
	e := New()
	e.activePosition = &risk.Position{
		Side: "1", TPPrice: 1.50, SLPrice: 0.90, EntrySigmaTotal: 0.05,
	}

	if e.MonitorPosition(1.10, 0.06, 1.5) {
		t.Error("expected position to be held when neither TP/SL nor sigma spike trigger")
	}
}

func TestExecutor_MonitorPosition_FlatReturnsFalse(t *testing.T) {
	e := New()
	if e.MonitorPosition(1.10, 0.5, 1.5) {
		t.Error("expected no-op when there is no active position")
	}
}
