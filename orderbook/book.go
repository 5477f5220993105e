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

// Package orderbook maintains the depth-resolved limit order book built
// from FIX market-data snapshot and incremental messages, and derives the
// real-time metrics (mid, spread, L1 imbalance, intensity, depth vector)
// the feature pipeline consumes every tick.
package orderbook

import (
	"github.com/emirpasic/gods/maps/treemap"
)

// priceScale converts a float price into the integer key used by the book.
// Scaling by 1e5 gives exact equality for FIX prices (5 decimal digits is
// more precision than any FX or crypto pair in scope needs) and lets the
// two ladders use a plain int64 comparator instead of a decimal library.
const priceScale = 100000

func scalePrice(p float64) int64 {
	return int64(p*priceScale + 0.5)
}

func unscalePrice(k int64) float64 {
	return float64(k) / priceScale
}

func int64Comparator(a, b interface{}) int {
	x, y := a.(int64), b.(int64)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// Side identifies which ladder an update targets.
type Side int

const (
	Bid Side = iota
	Ask
)

// Book is a single-symbol, depth-resolved limit order book. Both ladders are
// ordered maps keyed by ascending scaled price, so best_bid/best_ask are
// O(log n) Max()/Min() lookups and depth iteration is already sorted (bids
// are walked from the high end, asks from the low end).
//
// Book is mutated only from the control loop goroutine; it carries no
// internal locking.
type Book struct {
	bids *treemap.Map
	asks *treemap.Map
}

// New returns an empty Book.
func New() *Book {
	return &Book{
		bids: treemap.NewWith(int64Comparator),
		asks: treemap.NewWith(int64Comparator),
	}
}

// Update applies one market-data entry. An action of delete, or a volume of
// zero, removes the level; otherwise the level is inserted or overwritten.
//
// An upsert that reaches the opposite side's best level (a bid at or above
// best_ask, or an ask at or below best_bid) removes that one opposing level:
// a real incoming order at a crossing price necessarily consumed it. Only
// the best opposing level is removed; deeper crossed levels are left as
// they are.
func (b *Book) Update(side Side, price, volume float64, isDelete bool) {
	key := scalePrice(price)
	target, other := b.bids, b.asks
	if side == Ask {
		target, other = b.asks, b.bids
	}

	if isDelete || volume == 0 {
		target.Remove(key)
		return
	}
	target.Put(key, volume)

	b.healCross(target, other, side, key)
}

func (b *Book) healCross(target, other *treemap.Map, side Side, key int64) {
	if other.Empty() {
		return
	}
	if side == Bid {
		if otherMinKey, _ := other.Min(); otherMinKey != nil && key >= otherMinKey.(int64) {
			other.Remove(otherMinKey)
		}
	} else {
		if otherMaxKey, _ := other.Max(); otherMaxKey != nil && key <= otherMaxKey.(int64) {
			other.Remove(otherMaxKey)
		}
	}
}

// BestBid returns the highest bid price and its volume, or ok=false if the
// bid side is empty.
func (b *Book) BestBid() (price, volume float64, ok bool) {
	k, v := b.bids.Max()
	if k == nil {
		return 0, 0, false
	}
	return unscalePrice(k.(int64)), v.(float64), true
}

// BestAsk returns the lowest ask price and its volume, or ok=false if the
// ask side is empty.
func (b *Book) BestAsk() (price, volume float64, ok bool) {
	k, v := b.asks.Min()
	if k == nil {
		return 0, 0, false
	}
	return unscalePrice(k.(int64)), v.(float64), true
}

// Mid returns the midpoint of best bid and best ask. ok is false if either
// side is empty.
func (b *Book) Mid() (mid float64, ok bool) {
	bp, _, bok := b.BestBid()
	ap, _, aok := b.BestAsk()
	if !bok || !aok {
		return 0, false
	}
	return (bp + ap) / 2, true
}

// Spread returns best_ask - best_bid. ok is false if either side is empty.
func (b *Book) Spread() (spread float64, ok bool) {
	bp, _, bok := b.BestBid()
	ap, _, aok := b.BestAsk()
	if !bok || !aok {
		return 0, false
	}
	return ap - bp, true
}

// L1Imbalance returns (bidVol - askVol) / (bidVol + askVol) at the best
// level on each side, in [-1, 1]. A missing side counts as zero volume, so
// a one-sided book gives 1 (bids only) or -1 (asks only); returns 0 if both
// sides are empty.
func (b *Book) L1Imbalance() float64 {
	_, bv, bok := b.BestBid()
	_, av, aok := b.BestAsk()
	if !bok {
		bv = 0
	}
	if !aok {
		av = 0
	}
	total := bv + av
	if total == 0 {
		return 0
	}
	return (bv - av) / total
}

// Intensity returns the sum of all visible volume across both sides.
func (b *Book) Intensity() float64 {
	var total float64
	b.bids.Each(func(_ interface{}, v interface{}) { total += v.(float64) })
	b.asks.Each(func(_ interface{}, v interface{}) { total += v.(float64) })
	return total
}

// DepthVector returns, for levels 1..L on each side, the per-level imbalance
// (bid_i - ask_i)/(bid_i + ask_i). A side lacking that many levels
// contributes 0 volume at that depth, matching the missing-level convention
// used in L1Imbalance.
func (b *Book) DepthVector(levels int) []float64 {
	bidVols := topVolumes(b.bids, levels, false)
	askVols := topVolumes(b.asks, levels, true)

	out := make([]float64, levels)
	for i := 0; i < levels; i++ {
		total := bidVols[i] + askVols[i]
		if total == 0 {
			out[i] = 0
			continue
		}
		out[i] = (bidVols[i] - askVols[i]) / total
	}
	return out
}

// topVolumes walks the map from its best side inward and returns up to n
// volumes, zero-padded if the side has fewer levels. ascending=true walks
// low-to-high (asks); ascending=false walks high-to-low (bids).
func topVolumes(m *treemap.Map, n int, ascending bool) []float64 {
	out := make([]float64, n)
	it := m.Iterator()
	i := 0
	if ascending {
		for it.Next() && i < n {
			out[i] = it.Value().(float64)
			i++
		}
	} else {
		for it.End(); it.Prev() && i < n; {
			out[i] = it.Value().(float64)
			i++
		}
	}
	return out
}

// Size returns the number of distinct price levels on each side, useful for
// invariant tests.
func (b *Book) Size() (bidLevels, askLevels int) {
	return b.bids.Size(), b.asks.Size()
}
