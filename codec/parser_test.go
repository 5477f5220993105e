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

package codec

import "testing"

func TestParseMDEntries_Snapshot(t *testing.T) {
	raw := "8=FIX.4.4\x019=000\x0135=W\x01" +
		"269=0\x01270=1.10000\x01271=500\x01" +
		"269=1\x01270=1.10005\x01271=400\x01" +
		"10=000\x01"

	entries := ParseMDEntries(raw, false)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].EntryType != "0" || entries[0].Price != 1.10000 || entries[0].Size != 500 {
		t.Errorf("bid entry mismatch: %+v", entries[0])
	}
	if entries[1].EntryType != "1" || entries[1].Price != 1.10005 || entries[1].Size != 400 {
		t.Errorf("ask entry mismatch: %+v", entries[1])
	}
}

func TestParseMDEntries_Incremental(t *testing.T) {
	raw := "8=FIX.4.4\x019=000\x0135=X\x01" +
		"279=2\x01269=0\x01270=1.10000\x01271=0\x01" +
		"10=000\x01"

	entries := ParseMDEntries(raw, true)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Action != "2" || e.EntryType != "0" || e.Price != 1.10000 {
		t.Errorf("delete entry mismatch: %+v", e)
	}
}

func TestParseMDEntries_Empty(t *testing.T) {
	if got := ParseMDEntries("8=FIX.4.4\x0135=W\x01", false); got != nil {
		t.Errorf("expected nil for message with no entries, got %v", got)
	}
}

func TestParseExecReport(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ExecReport
	}{
		{
			name: "new",
			raw:  "35=8\x0111=X1\x0139=0\x01150=0\x01",
			want: ExecReport{MsgType: "8", ClOrdID: "X1", OrdStatus: "0", ExecType: "0"},
		},
		{
			name: "filled",
			raw:  "35=8\x0111=X1\x0139=2\x01150=2\x0131=1.1000\x0132=1000\x0114=1000\x01151=0\x01",
			want: ExecReport{MsgType: "8", ClOrdID: "X1", OrdStatus: "2", ExecType: "2", LastPx: 1.1, LastQty: 1000, CumQty: 1000, LeavesQty: 0},
		},
		{
			name: "business reject",
			raw:  "35=j\x0111=X1\x01380=1\x01",
			want: ExecReport{MsgType: "j", ClOrdID: "X1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseExecReport(tt.raw)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
