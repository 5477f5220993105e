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

// Package brain implements the two-layer Bayesian neural net that turns a
// standardized feature vector into a directional prediction: a mean
// (probability the next move is up), an epistemic uncertainty, and a
// signal-to-noise ratio. Each output-layer weight carries its own variance;
// prediction draws Monte Carlo samples from that per-weight distribution
// instead of a single forward pass, so the spread across samples becomes
// the network's own measure of how confident it is.
package brain

import (
	"math"
	"math/rand"
)

const varianceFloor = 1e-4

// Brain is a feed-forward net: input -> sigmoid(hidden) -> sigmoid(scalar).
// Not safe for concurrent use; owned exclusively by the control loop.
type Brain struct {
	inputDim  int
	hiddenDim int

	weights1  [][]float64 // inputDim x hiddenDim
	weights2  []float64   // hiddenDim
	variance1 [][]float64 // inputDim x hiddenDim
	variance2 []float64   // hiddenDim

	learningRate float64
	samples      int
	rng          *rand.Rand
}

// New returns a Brain with small random weights and a fixed initial
// variance on every weight, seeded so results are reproducible across runs
// with the same seed.
func New(inputDim, hiddenDim int, learningRate float64, samples int, seed int64) *Brain {
	rng := rand.New(rand.NewSource(seed))

	w1 := make([][]float64, inputDim)
	v1 := make([][]float64, inputDim)
	for i := range w1 {
		w1[i] = make([]float64, hiddenDim)
		v1[i] = make([]float64, hiddenDim)
		for j := range w1[i] {
			w1[i][j] = rng.NormFloat64() * 0.1
			v1[i][j] = 0.02
		}
	}

	w2 := make([]float64, hiddenDim)
	v2 := make([]float64, hiddenDim)
	for i := range w2 {
		w2[i] = rng.NormFloat64() * 0.1
		v2[i] = 0.02
	}

	return &Brain{
		inputDim:     inputDim,
		hiddenDim:    hiddenDim,
		weights1:     w1,
		weights2:     w2,
		variance1:    v1,
		variance2:    v2,
		learningRate: learningRate,
		samples:      samples,
		rng:          rng,
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func sigmoidDerivative(x float64) float64 {
	s := sigmoid(x)
	return s * (1 - s)
}

// hidden runs the input-to-hidden layer forward, returning both the
// pre-activation z1 and the activated a1 (train needs both for backprop).
func (b *Brain) hidden(x []float64) (z1, a1 []float64) {
	z1 = make([]float64, b.hiddenDim)
	a1 = make([]float64, b.hiddenDim)
	for j := 0; j < b.hiddenDim; j++ {
		var sum float64
		for i := 0; i < b.inputDim && i < len(x); i++ {
			sum += x[i] * b.weights1[i][j]
		}
		z1[j] = sum
		a1[j] = sigmoid(sum)
	}
	return
}

// Prediction is the result of a Monte Carlo forward pass.
type Prediction struct {
	Mu             float64 // mean output across samples
	SigmaEpistemic float64 // std dev across samples
	SNR            float64 // |mu-0.5| / max(sigma, eps)
}

// Predict draws b.samples independent forward passes, each with the
// hidden-to-output weights perturbed by their own per-weight variance, and
// summarizes the resulting distribution of outputs.
//
// An empty input returns the neutral prediction (mu=0.5, sigma=1.0, snr=0)
// and performs no further computation.
func (b *Brain) Predict(x []float64) Prediction {
	if len(x) == 0 {
		return Prediction{Mu: 0.5, SigmaEpistemic: 1.0, SNR: 0}
	}

	_, a1 := b.hidden(x)

	outputs := make([]float64, b.samples)
	for s := 0; s < b.samples; s++ {
		var z2 float64
		for j := 0; j < b.hiddenDim; j++ {
			w := b.weights2[j] + b.rng.NormFloat64()*math.Sqrt(b.variance2[j])
			z2 += a1[j] * w
		}
		outputs[s] = sigmoid(z2)
	}

	mu := mean(outputs)
	sigma := stddev(outputs, mu)
	snr := math.Abs(mu-0.5) / math.Max(sigma, 1e-6)

	return Prediction{Mu: mu, SigmaEpistemic: sigma, SNR: snr}
}

// Train performs one online SGD step toward target (0 or 1) using the
// network's deterministic (non-sampled) weights, then scales every
// weight's variance by 0.99 + 0.01*|error|: variance shrinks by 1% when the
// prediction was exact and by less as the error grows, staying unchanged at
// |error| = 1. It never grows, and never drops below varianceFloor.
func (b *Brain) Train(x []float64, target float64) {
	if len(x) == 0 {
		return
	}

	z1, a1 := b.hidden(x)

	var z2 float64
	for j := 0; j < b.hiddenDim; j++ {
		z2 += a1[j] * b.weights2[j]
	}
	prediction := sigmoid(z2)
	errVal := prediction - target
	varianceScale := 0.99 + 0.01*math.Abs(errVal)

	dW2 := errVal * sigmoidDerivative(z2)
	dz1 := make([]float64, b.hiddenDim)
	for j := 0; j < b.hiddenDim; j++ {
		grad := dW2 * a1[j]
		b.weights2[j] -= b.learningRate * grad
		b.variance2[j] = math.Max(b.variance2[j]*varianceScale, varianceFloor)
		dz1[j] = dW2 * b.weights2[j]
	}

	for i := 0; i < b.inputDim && i < len(x); i++ {
		for j := 0; j < b.hiddenDim; j++ {
			grad := dz1[j] * sigmoidDerivative(z1[j]) * x[i]
			b.weights1[i][j] -= b.learningRate * grad
			b.variance1[i][j] = math.Max(b.variance1[i][j]*varianceScale, varianceFloor)
		}
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, mean float64) float64 {
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}
