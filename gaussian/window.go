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

// Package gaussian estimates market-noise uncertainty from a bounded window
// of recent mid prices. A full Gaussian-process posterior variance would
// require inverting an N×N covariance matrix on every tick; instead this
// tracks deviation of the latest price from the window mean as a cheap proxy
// for that variance, which is the only thing the risk gate needs.
package gaussian

// Window is a fixed-capacity ring buffer of recent mid prices.
// HOT PATH: Push is called on every processed tick, so it must stay O(1)
// with zero allocations after the initial capacity is reserved.
type Window struct {
	prices  []float64
	head    int
	count   int
	maxSize int
}

// NewWindow returns a Window holding up to maxSize mid prices.
func NewWindow(maxSize int) *Window {
	return &Window{
		prices:  make([]float64, maxSize),
		maxSize: maxSize,
	}
}

// Push appends a mid price, evicting the oldest once the window is full.
func (w *Window) Push(price float64) {
	writeIdx := (w.head + w.count) % w.maxSize
	w.prices[writeIdx] = price
	if w.count < w.maxSize {
		w.count++
	} else {
		w.head = (w.head + 1) % w.maxSize
	}
}

// Uncertainty returns 1.0 (maximum uncertainty) until at least 5 samples
// have been pushed; after that it returns the last price's deviation from
// the window mean, scaled by 1e3 and clamped to [0, 1].
func (w *Window) Uncertainty() float64 {
	if w.count < 5 {
		return 1.0
	}

	var sum float64
	for i := 0; i < w.count; i++ {
		sum += w.prices[(w.head+i)%w.maxSize]
	}
	mean := sum / float64(w.count)
	if mean == 0 {
		return 1.0
	}

	lastIdx := (w.head + w.count - 1) % w.maxSize
	last := w.prices[lastIdx]

	deviation := abs(last-mean) / mean
	uncertainty := deviation * 1000.0
	if uncertainty > 1.0 {
		uncertainty = 1.0
	}
	return uncertainty
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Len reports how many prices are currently buffered.
func (w *Window) Len() int {
	return w.count
}
