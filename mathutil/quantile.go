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

// Package mathutil holds the scalar math the risk manager needs: the
// inverse error function (for normal quantiles), signal-to-noise ratio, and
// the Bayesian take-profit/stop-loss level computation.
package mathutil

import "math"

// ErfInv approximates the inverse error function using Winitzki's
// closed-form approximation, accurate to within ~1.3e-4 absolute error
// across (-1, 1), more than sufficient for a quantile used as a price
// offset multiplier.
func ErfInv(x float64) float64 {
	const a = 0.147
	l := math.Log(1 - x*x)
	term1 := 2/(math.Pi*a) + l/2
	term2 := l / a

	res := math.Sqrt(math.Sqrt(term1*term1-term2) - term1)
	if x < 0 {
		return -res
	}
	return res
}

// NormalPPF returns the z-score (quantile) of the standard normal
// distribution at probability p. NormalPPF(0.95) ≈ 1.645.
func NormalPPF(p float64) float64 {
	return math.Sqrt2 * ErfInv(2*p-1)
}

// SNR returns the signal-to-noise ratio |mu|/sigma, or 0 if sigma is 0.
func SNR(mu, sigma float64) float64 {
	if sigma == 0 {
		return 0
	}
	return math.Abs(mu) / sigma
}

// BayesianLevels computes the take-profit and stop-loss prices implied by a
// directional return mu and volatility sigma, at the given tp/sl
// percentiles (e.g. 0.75/0.25). side is "1" (long/buy) or "2" (short/sell).
func BayesianLevels(mid, mu, sigma float64, side string, tpPercentile, slPercentile float64) (tp, sl float64) {
	zTP := NormalPPF(tpPercentile)
	zSL := NormalPPF(slPercentile)

	if side == "1" {
		tp = mid * (1 + mu + zTP*sigma)
		sl = mid * (1 + mu + zSL*sigma)
		return
	}
	tp = mid * (1 - (mu + zTP*sigma))
	sl = mid * (1 - (mu + zSL*sigma))
	return
}
