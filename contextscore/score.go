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

// Package contextscore is a small rule-based naive-Bayes-style classifier
// that judges whether the current market context is safe to trade in,
// independent of the brain's directional prediction. Each input is
// discretized into Low/Normal/High and contributes an additive rule score;
// a combined causal rule then penalizes an imbalance reading that looks
// like spoofing on a thin book.
package contextscore

// marketState is the discretized level of one input feature.
type marketState int

const (
	low marketState = iota
	normal
	high
)

func discretizeSpread(spread float64) marketState {
	switch {
	case spread < 1.5:
		return low
	case spread < 4.0:
		return normal
	default:
		return high
	}
}

func discretizeVelocity(velocity float64) marketState {
	switch {
	case velocity < 5.0:
		return low
	case velocity < 25.0:
		return normal
	default:
		return high
	}
}

func discretizeIntensity(intensity float64) marketState {
	switch {
	case intensity < 100000.0:
		return low
	case intensity < 1000000.0:
		return normal
	default:
		return high
	}
}

// Network holds the single tunable parameter: the favorability threshold.
type Network struct {
	Threshold float64
}

// New returns a Network gating on the given score threshold.
func New(threshold float64) *Network {
	return &Network{Threshold: threshold}
}

// Score combines spread, velocity, imbalance, and intensity into a single
// [0,1] favorability score via additive rule contributions starting from a
// neutral 0.5, then a causal penalty when a strong imbalance reading
// appears on a thin book (likely spoofing rather than genuine pressure).
func Score(spread, velocity, imbalance, intensity float64) float64 {
	score := 0.5

	switch discretizeSpread(spread) {
	case low:
		score += 0.15
	case normal:
		score += 0.05
	case high:
		score -= 0.25
	}

	switch discretizeVelocity(velocity) {
	case low:
		score -= 0.15
	case normal:
		score += 0.10
	case high:
		score -= 0.10
	}

	switch discretizeIntensity(intensity) {
	case low:
		score -= 0.20
	case normal:
		score += 0.05
	case high:
		score += 0.15
	}

	if abs(imbalance) > 0.7 && intensity < 200000.0 {
		score -= 0.20
	}

	return clamp01(score)
}

// IsFavorable reports whether score clears the network's threshold.
func (n *Network) IsFavorable(score float64) bool {
	return score >= n.Threshold
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
