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

package sampling

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

const minSampleSize = 1

// StochasticTopper keeps a frequency-biased reservoir of at most sampleSize
// items. A sampled item accumulates weight in place; an unsampled item arriving
// at a full reservoir gets in with probability sampleSize/n, where n is the
// total weight seen, and only if the weighted-random victim drops out.
//
// It is a heuristic: estimates carry no deterministic error bound.
// StochasticTopper is not safe for concurrent use.
type StochasticTopper[C comparable] struct {
	sampleSize int
	n          int64
	sample     *SampleSet[C]
	rng        *rand.Rand
}

// NewStochasticTopper returns a StochasticTopper seeded from the clock.
func NewStochasticTopper[C comparable](sampleSize int) (*StochasticTopper[C], error) {
	return NewStochasticTopperWithSeed[C](sampleSize, time.Now().UnixNano())
}

// NewStochasticTopperWithSeed returns a StochasticTopper whose replacement
// decisions are reproducible for a given seed.
func NewStochasticTopperWithSeed[C comparable](sampleSize int, seed int64) (*StochasticTopper[C], error) {
	if sampleSize < minSampleSize {
		return nil, fmt.Errorf("%w: sample size must be at least %d: %d", common.ErrInvalidConfiguration, minSampleSize, sampleSize)
	}
	return &StochasticTopper[C]{
		sampleSize: sampleSize,
		sample:     NewSampleSet[C](sampleSize),
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// Offer is OfferWeighted(item, 1).
func (s *StochasticTopper[C]) Offer(item C) (bool, error) {
	return s.OfferWeighted(item, 1)
}

// OfferWeighted adds weight to the running total and returns true when item
// entered the sample, either into free room or in place of a victim.
// Increments of an already sampled item and rejected items return false.
func (s *StochasticTopper[C]) OfferWeighted(item C, weight int64) (bool, error) {
	if internal.IsNil(item) {
		return false, common.ErrNilItem
	}
	if weight < 0 {
		return false, fmt.Errorf("%w: %d", common.ErrInvalidWeight, weight)
	}
	if weight == 0 {
		return false, nil
	}
	n, ok := internal.AddChecked(s.n, weight)
	if !ok {
		return false, fmt.Errorf("%w: running weight %d + %d", common.ErrOverflow, s.n, weight)
	}
	if _, ok := internal.AddChecked(s.sample.TotalWeight(), weight); !ok {
		return false, fmt.Errorf("%w: sampled weight %d + %d", common.ErrOverflow, s.sample.TotalWeight(), weight)
	}
	s.n = n

	if s.sample.Contains(item) {
		_, err := s.sample.Put(item, weight)
		return false, err
	}
	if s.sample.Size() < s.sampleSize {
		_, err := s.sample.Put(item, weight)
		return err == nil, err
	}
	if s.rng.Float64() >= float64(s.sampleSize)/float64(s.n) {
		return false, nil
	}
	if _, removed := s.sample.RemoveRandom(s.rng); !removed {
		return false, nil
	}
	_, err := s.sample.Put(item, weight)
	return err == nil, err
}

// Peek returns at most k sampled items ordered by descending weight.
func (s *StochasticTopper[C]) Peek(k int) []common.RankedEntry[C] {
	return s.sample.Peek(k)
}

// Size returns the number of sampled items.
func (s *StochasticTopper[C]) Size() int {
	return s.sample.Size()
}

func (s *StochasticTopper[C]) SampleSize() int {
	return s.sampleSize
}

// N returns the total weight offered so far.
func (s *StochasticTopper[C]) N() int64 {
	return s.n
}

// Reset empties the sample while keeping the random source.
func (s *StochasticTopper[C]) Reset() {
	s.n = 0
	s.sample = NewSampleSet[C](s.sampleSize)
}
