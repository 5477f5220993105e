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

package engine

import (
	"testing"

	"github.com/gurre/prime-quote-engine/codec"
	"github.com/gurre/prime-quote-engine/config"
)

func TestMsgType(t *testing.T) {
	b := codec.NewBuilder()
	heartbeat := b.Heartbeat(codec.Session{SenderCompID: "S", TargetCompID: "T"}, 1)

	if got := msgType(heartbeat); got != "0" {
		t.Errorf("msgType(heartbeat) = %q, want \"0\"", got)
	}
	if got := msgType("garbage"); got != "" {
		t.Errorf("msgType(garbage) = %q, want empty", got)
	}
}

func newTestEngine() *Engine {
	cfg := &config.Config{SenderCompID: "BROKER.555", TargetCompID: "CSERVER", Symbol: "1"}
	return New(cfg, nil, nil, nil)
}

func TestEngine_ApplyMDEntrySnapshotThenIncremental(t *testing.T) {
	e := newTestEngine()

	e.applyMDEntry(codec.MDEntry{EntryType: "0", Price: 1.10000, Size: 500})
	e.applyMDEntry(codec.MDEntry{EntryType: "1", Price: 1.10005, Size: 400})

	mid, ok := e.book.Mid()
	if !ok {
		t.Fatal("expected a defined mid after both sides are populated")
	}
	if want := 1.100025; abs(mid-want) > 1e-9 {
		t.Errorf("mid = %v, want %v", mid, want)
	}

	e.applyMDEntry(codec.MDEntry{EntryType: "0", Price: 1.10000, Action: "2"})
	if _, _, ok := e.book.BestBid(); ok {
		t.Error("expected best bid to be removed by the delete action")
	}
	if _, ok := e.book.Mid(); ok {
		t.Error("expected mid to be undefined once the bid side is empty")
	}
}

func TestEngine_ApplyMDEntrySkipsUnknownEntryType(t *testing.T) {
	e := newTestEngine()

	e.applyMDEntry(codec.MDEntry{EntryType: "", Price: 1.10000, Size: 500})
	if _, _, ok := e.book.BestBid(); ok {
		t.Error("expected entry with missing MDEntryType to be skipped, not treated as a bid")
	}

	e.applyMDEntry(codec.MDEntry{EntryType: "2", Price: 1.10000, Size: 500})
	if _, _, ok := e.book.BestBid(); ok {
		t.Error("expected entry with unrecognized MDEntryType to be skipped")
	}
}

func TestEngine_AccountFromSenderID(t *testing.T) {
	if got := accountFromSenderID("BROKER.555"); got != "555" {
		t.Errorf("accountFromSenderID = %q, want \"555\"", got)
	}
	if got := accountFromSenderID("NODOTS"); got != "NODOTS" {
		t.Errorf("accountFromSenderID with no dot = %q, want unchanged", got)
	}
}

func TestEngine_RecordTickCountsTowardVelocity(t *testing.T) {
	e := newTestEngine()
	e.recordTick()
	if got := e.velocity(); got != 1 {
		t.Errorf("velocity after one tick = %v, want 1", got)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
