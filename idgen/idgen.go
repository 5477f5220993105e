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

// Package idgen generates globally unique FIX ClOrdID values.
package idgen

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Generator produces monotonically counted client order ids of the form
// ID-YYYYMMDD-HHMMSS-NNNN.
type Generator struct {
	counter uint64
}

// New returns a Generator whose first id carries counter value 1.
func New() *Generator {
	return &Generator{}
}

// NextID returns the next unique ClOrdID.
func (g *Generator) NextID() string {
	now := time.Now().UTC()
	count := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("ID-%s-%04d", now.Format("20060102-150405"), count)
}
