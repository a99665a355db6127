/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package topk is the uniform entry point to the heavy hitter sketches of this
// module. Every sketch answers "which items are most frequent in an unbounded
// stream" in memory fixed at construction:
//
//   - frequencies.StreamSummary (Space-Saving): deterministic, overestimates by
//     at most the error recorded when an item was admitted.
//   - frequencies.Frequent (Misra-Gries): deterministic, underestimates by at
//     most the stream weight divided by its capacity.
//   - sampling.StochasticTopper: a frequency-biased reservoir with no
//     deterministic bound.
//
// The boolean returned by Offer keeps the meaning of each sketch: admission
// into a counter for StreamSummary, acceptance without a decrement round for
// Frequent, and entry into the sample for StochasticTopper.
package topk

import (
	"sync"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/frequencies"
	"github.com/mayconbordin/streaminer-sub001/sampling"
)

// TopK is implemented by every heavy hitter sketch.
type TopK[C comparable] interface {
	// Offer is OfferWeighted(item, 1).
	Offer(item C) (bool, error)
	// OfferWeighted adds weight occurrences of item.
	OfferWeighted(item C, weight int64) (bool, error)
	// Peek returns at most k items ordered by descending frequency. The order
	// of items with equal frequency is unspecified.
	Peek(k int) []common.RankedEntry[C]
	// Size returns the number of tracked items.
	Size() int
}

var (
	_ TopK[string] = (*frequencies.StreamSummary[string])(nil)
	_ TopK[string] = (*frequencies.Frequent[string])(nil)
	_ TopK[string] = (*sampling.StochasticTopper[string])(nil)
	_ TopK[string] = (*Synchronized[string])(nil)
)

// Synchronized serializes every call to the wrapped sketch with one mutex, so
// writers and readers may share it across goroutines.
type Synchronized[C comparable] struct {
	mu     sync.Mutex
	sketch TopK[C]
}

func NewSynchronized[C comparable](sketch TopK[C]) *Synchronized[C] {
	return &Synchronized[C]{sketch: sketch}
}

func (s *Synchronized[C]) Offer(item C) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.Offer(item)
}

func (s *Synchronized[C]) OfferWeighted(item C, weight int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.OfferWeighted(item, weight)
}

// Peek returns a snapshot taken under the lock.
func (s *Synchronized[C]) Peek(k int) []common.RankedEntry[C] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.Peek(k)
}

func (s *Synchronized[C]) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sketch.Size()
}

// Unwrap returns the wrapped sketch. Calls on it bypass the lock.
func (s *Synchronized[C]) Unwrap() TopK[C] {
	return s.sketch
}
