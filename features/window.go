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

// Package features collects the per-tick signal vector (imbalance, spread,
// velocity, noise, context, depth geometry) into a fixed circular window and
// exposes a Z-score standardized view of the latest row for the brain to
// consume.
package features

import "math"

// Dim is the feature vector width: imbalance, spread (scaled by 1e5),
// velocity, noise, context, plus a 3-level depth vector.
const Dim = 5 + 3

// Window is a ring buffer of Dim-wide rows with a "full" flag set once one
// full lap has been recorded, matching the ring-buffer idiom used
// throughout this codebase (gaussian.Window).
type Window struct {
	rows    [][Dim]float64
	head    int
	count   int
	maxSize int

	means [Dim]float64
	stds  [Dim]float64
}

// NewWindow returns an empty Window holding up to maxSize rows.
func NewWindow(maxSize int) *Window {
	w := &Window{
		rows:    make([][Dim]float64, maxSize),
		maxSize: maxSize,
	}
	for i := range w.stds {
		w.stds[i] = 1.0
	}
	return w
}

// Push packs the current tick's signals into one row and inserts it,
// evicting the oldest row once the window is full. spread is expected
// already scaled by 1e5 (pips), matching the context score's units. depth
// must have exactly 3 entries (book.DepthVector(3)); shorter slices are
// zero-padded.
func (w *Window) Push(imbalance, spread, velocity, noise, context float64, depth []float64) {
	var row [Dim]float64
	row[0], row[1], row[2], row[3], row[4] = imbalance, spread, velocity, noise, context
	for i := 0; i < 3 && i < len(depth); i++ {
		row[5+i] = depth[i]
	}

	writeIdx := (w.head + w.count) % w.maxSize
	w.rows[writeIdx] = row
	if w.count < w.maxSize {
		w.count++
	} else {
		w.head = (w.head + 1) % w.maxSize
	}

	if w.count >= 10 {
		w.updateStats()
	}
}

// Full reports whether the window has completed one full lap.
func (w *Window) Full() bool {
	return w.count == w.maxSize
}

// Len reports how many rows are currently buffered.
func (w *Window) Len() int {
	return w.count
}

func (w *Window) updateStats() {
	var sum [Dim]float64
	for i := 0; i < w.count; i++ {
		row := w.rows[(w.head+i)%w.maxSize]
		for d := 0; d < Dim; d++ {
			sum[d] += row[d]
		}
	}
	n := float64(w.count)
	for d := 0; d < Dim; d++ {
		w.means[d] = sum[d] / n
	}

	var sumSq [Dim]float64
	for i := 0; i < w.count; i++ {
		row := w.rows[(w.head+i)%w.maxSize]
		for d := 0; d < Dim; d++ {
			diff := row[d] - w.means[d]
			sumSq[d] += diff * diff
		}
	}
	for d := 0; d < Dim; d++ {
		std := math.Sqrt(sumSq[d] / n)
		if std == 0 {
			std = 1.0
		}
		w.stds[d] = std
	}
}

// Standardized returns the Z-score standardized version of the last pushed
// row: (last - mean)/(std + eps). It returns nil until the window has at
// least 10 samples, since statistics before that point are too noisy to be
// useful to the brain.
func (w *Window) Standardized() []float64 {
	if w.count < 10 {
		return nil
	}
	lastIdx := (w.head + w.count - 1) % w.maxSize
	last := w.rows[lastIdx]

	out := make([]float64, Dim)
	for d := 0; d < Dim; d++ {
		out[d] = (last[d] - w.means[d]) / (w.stds[d] + 1e-6)
	}
	return out
}
