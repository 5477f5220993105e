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

import (
	"strconv"
	"strings"
)

// HOT PATH: inbound market-data and execution-report parsing. Messages are
// scanned once as raw strings rather than decoded into a structured field
// map: we know the exact tags we need (269/270/271/279 for book entries,
// 35/39/11 for execution reports) so a single linear pass is both simpler
// and faster than building a generic tag index first.

// MDEntry is one repeating-group entry from a market-data message.
type MDEntry struct {
	EntryType string // 269: "0"=bid, "1"=ask
	Price     float64
	Size      float64
	Action    string // 279: "0"=new, "1"=change, "2"=delete (absent on snapshot entries)
}

// ParseMDEntries splits a raw 35=W or 35=X message on its repeating-group
// delimiter and extracts price/size/side/action from each segment.
//
// Snapshot messages (35=W) repeat on "269=" since they carry no 279 action
// tag; incremental messages (35=X) repeat on "279=" since the action tag
// precedes the entry type in Coinbase's wire ordering. isIncremental tells
// the parser which delimiter to split on.
func ParseMDEntries(raw string, isIncremental bool) []MDEntry {
	delim := "269="
	if isIncremental {
		delim = "279="
	}

	starts := findAll(raw, delim)
	if len(starts) == 0 {
		return nil
	}

	entries := make([]MDEntry, 0, len(starts))
	msgLen := len(raw)
	for i, start := range starts {
		end := msgLen
		if i < len(starts)-1 {
			end = starts[i+1]
		}
		entries = append(entries, parseEntry(raw[start:end]))
	}
	return entries
}

// findAll returns every occurrence of sub within s, in a single pre-sized
// allocation (count once, then scan).
func findAll(s, sub string) []int {
	count := strings.Count(s, sub)
	if count == 0 {
		return nil
	}
	out := make([]int, 0, count)
	from := 0
	for {
		i := strings.Index(s[from:], sub)
		if i == -1 {
			break
		}
		out = append(out, from+i)
		from += i + len(sub)
	}
	return out
}

// parseEntry extracts fields from a single tag=value|tag=value segment in
// one pass, matching on tag prefix as it goes.
func parseEntry(segment string) MDEntry {
	var e MDEntry
	pos := 0
	n := len(segment)
	for pos < n {
		eq := strings.IndexByte(segment[pos:], '=')
		if eq == -1 {
			break
		}
		eq += pos
		tag := segment[pos:eq]

		valStart := eq + 1
		soh := strings.IndexByte(segment[valStart:], 0x01)
		var value string
		var next int
		if soh == -1 {
			value = segment[valStart:]
			next = n
		} else {
			value = segment[valStart : valStart+soh]
			next = valStart + soh + 1
		}

		switch tag {
		case "269":
			e.EntryType = value
		case "270":
			e.Price, _ = strconv.ParseFloat(value, 64)
		case "271":
			e.Size, _ = strconv.ParseFloat(value, 64)
		case "279":
			e.Action = value
		}
		pos = next
	}
	return e
}

// ExecReport holds the fields the executor cares about from a 35=8 or 35=9
// execution/cancel-reject message.
type ExecReport struct {
	MsgType   string // tag 35
	ClOrdID   string // tag 11
	OrdStatus string // tag 39
	ExecType  string // tag 150
	LastPx    float64
	LastQty   float64
	CumQty    float64
	LeavesQty float64
	Text      string // tag 58
	RejReason string // tag 103 or 102 depending on MsgType
}

// ParseExecReport extracts the fields the executor needs from a single raw
// FIX message (no repeating groups expected).
func ParseExecReport(raw string) ExecReport {
	var r ExecReport
	pos := 0
	n := len(raw)
	for pos < n {
		eq := strings.IndexByte(raw[pos:], '=')
		if eq == -1 {
			break
		}
		eq += pos
		tag := raw[pos:eq]

		valStart := eq + 1
		soh := strings.IndexByte(raw[valStart:], 0x01)
		var value string
		var next int
		if soh == -1 {
			value = raw[valStart:]
			next = n
		} else {
			value = raw[valStart : valStart+soh]
			next = valStart + soh + 1
		}

		switch tag {
		case "35":
			r.MsgType = value
		case "11":
			r.ClOrdID = value
		case "39":
			r.OrdStatus = value
		case "150":
			r.ExecType = value
		case "31":
			r.LastPx, _ = strconv.ParseFloat(value, 64)
		case "32":
			r.LastQty, _ = strconv.ParseFloat(value, 64)
		case "14":
			r.CumQty, _ = strconv.ParseFloat(value, 64)
		case "151":
			r.LeavesQty, _ = strconv.ParseFloat(value, 64)
		case "58":
			r.Text = value
		case "103", "102":
			r.RejReason = value
		}
		pos = next
	}
	return r
}
