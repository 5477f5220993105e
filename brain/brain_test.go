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

package brain

import "testing"

func TestBrain_EmptyInputReturnsNeutral(t *testing.T) {
	b := New(4, 6, 0.01, 20, 1)
	pred := b.Predict(nil)
	if pred.Mu != 0.5 || pred.SigmaEpistemic != 1.0 || pred.SNR != 0 {
		t.Errorf("empty predict = %+v, want neutral", pred)
	}
}

func TestBrain_PredictInRange(t *testing.T) {
	b := New(4, 6, 0.01, 20, 2)
	pred := b.Predict([]float64{0.1, -0.2, 0.5, 0.3})
	if pred.Mu < 0 || pred.Mu > 1 {
		t.Errorf("mu out of [0,1]: %v", pred.Mu)
	}
	if pred.SigmaEpistemic < 0 {
		t.Errorf("sigma should be non-negative: %v", pred.SigmaEpistemic)
	}
	if pred.SNR < 0 {
		t.Errorf("snr should be non-negative: %v", pred.SNR)
	}
}

func TestBrain_TrainReducesVarianceOnAccuratePrediction(t *testing.T) {
	b := New(2, 3, 0.1, 10, 3)
	x := []float64{0.2, -0.1}

	before := make([]float64, len(b.variance2))
	copy(before, b.variance2)

	// Train repeatedly toward whatever the net already predicts so error
	// shrinks toward 0 and variance should trend down, not explode.
	for i := 0; i < 50; i++ {
		pred := b.Predict(x)
		b.Train(x, boolToFloat(pred.Mu > 0.5))
	}

	for i := range b.variance2 {
		if b.variance2[i] > before[i] {
			t.Errorf("variance2[%d] grew from %v to %v under accurate training", i, before[i], b.variance2[i])
		}
	}
}

func TestBrain_TrainNoopOnEmptyInput(t *testing.T) {
	b := New(2, 3, 0.1, 10, 4)
	w1Before := b.weights1[0][0]
	b.Train(nil, 1.0)
	if b.weights1[0][0] != w1Before {
		t.Error("Train with empty input should not mutate weights")
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
