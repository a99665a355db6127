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

package frequencies

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

// StreamSummary is the Space-Saving algorithm over a Stream-Summary: at most
// capacity counters grouped into buckets of equal count. An untracked item
// arriving at capacity takes over a counter of the lowest bucket and inherits
// its count as overestimation error.
//
// For the item held by any counter, counted since it was last admitted:
//
//	count - error <= trueCount <= count
//
// Offers cost amortized O(1). StreamSummary is not safe for concurrent use.
type StreamSummary[C comparable] struct {
	capacity     int
	streamWeight int64
	index        map[C]int32
	arena        *summaryArena[C]
}

// Counter is a snapshot of one Space-Saving counter. Error is the count the
// item inherited when it was admitted by eviction.
type Counter[C comparable] struct {
	Item  C
	Count int64
	Error int64
}

// OfferResult reports how an offer changed the tracked set. IsNew is true when
// the item now occupies a counter it did not hold before; Evicted is true when
// that counter was taken from EvictedItem.
type OfferResult[C comparable] struct {
	IsNew       bool
	Evicted     bool
	EvictedItem C
}

// NewStreamSummary returns a StreamSummary tracking at most capacity items.
func NewStreamSummary[C comparable](capacity int) (*StreamSummary[C], error) {
	if capacity < 1 || capacity > maxCapacity {
		return nil, fmt.Errorf("%w: capacity must be in [1, %d]: %d", common.ErrInvalidConfiguration, maxCapacity, capacity)
	}
	return &StreamSummary[C]{
		capacity: capacity,
		index:    make(map[C]int32, capacity),
		arena:    newSummaryArena[C](capacity),
	}, nil
}

// Offer is OfferWeighted(item, 1).
func (s *StreamSummary[C]) Offer(item C) (bool, error) {
	return s.OfferWeighted(item, 1)
}

// OfferWeighted adds weight to item and returns true if item now occupies a
// counter it did not hold before, whether a free one or one taken by
// eviction. Use OfferFull to tell the two apart.
func (s *StreamSummary[C]) OfferWeighted(item C, weight int64) (bool, error) {
	result, err := s.OfferFull(item, weight)
	return result.IsNew, err
}

// OfferFull adds weight to item and reports admission and eviction. On error
// the summary is left unchanged.
func (s *StreamSummary[C]) OfferFull(item C, weight int64) (OfferResult[C], error) {
	var result OfferResult[C]
	ok, err := checkOffer(item, weight)
	if !ok {
		return result, err
	}
	streamWeight, ok := internal.AddChecked(s.streamWeight, weight)
	if !ok {
		return result, fmt.Errorf("%w: stream weight %d + %d", common.ErrOverflow, s.streamWeight, weight)
	}

	if c, tracked := s.index[item]; tracked {
		count, ok := internal.AddChecked(s.arena.counters[c].count, weight)
		if !ok {
			return result, fmt.Errorf("%w: count %d + %d", common.ErrOverflow, s.arena.counters[c].count, weight)
		}
		s.arena.increment(c, count)
		s.streamWeight = streamWeight
		return result, nil
	}

	if len(s.index) < s.capacity {
		c := s.arena.newCounter(item)
		s.arena.place(c, nilHandle, weight)
		s.index[item] = c
		s.streamWeight = streamWeight
		result.IsNew = true
		return result, nil
	}

	victim := s.arena.evictionCandidate()
	minCount := s.arena.minCount()
	count, ok := internal.AddChecked(minCount, weight)
	if !ok {
		return result, fmt.Errorf("%w: count %d + %d", common.ErrOverflow, minCount, weight)
	}
	evicted := s.arena.counters[victim].item
	delete(s.index, evicted)
	s.arena.recycle(victim, item, minCount)
	s.arena.increment(victim, count)
	s.index[item] = victim
	s.streamWeight = streamWeight

	result.IsNew = true
	result.Evicted = true
	result.EvictedItem = evicted
	return result, nil
}

// Peek returns at most k tracked items ordered by descending count.
func (s *StreamSummary[C]) Peek(k int) []common.RankedEntry[C] {
	limit := peekLimit(k, len(s.index))
	entries := make([]common.RankedEntry[C], 0, limit)
	if limit == 0 {
		return entries
	}
	s.arena.descending(func(counter *counterSlot[C]) bool {
		entries = append(entries, common.RankedEntry[C]{Item: counter.item, Frequency: counter.count})
		return len(entries) < limit
	})
	common.SortRankedEntries(entries)
	return entries
}

// TopRows returns at most k tracked items with their bounds, ordered by
// descending count.
func (s *StreamSummary[C]) TopRows(k int) []*Row[C] {
	limit := peekLimit(k, len(s.index))
	rows := make([]*Row[C], 0, limit)
	if limit == 0 {
		return rows
	}
	s.arena.descending(func(counter *counterSlot[C]) bool {
		rows = append(rows, newRow(counter.item, counter.count, counter.count, counter.count-counter.err))
		return len(rows) < limit
	})
	sortRows(rows)
	return rows
}

// Counters returns a snapshot of every counter ordered by descending count.
func (s *StreamSummary[C]) Counters() []Counter[C] {
	counters := make([]Counter[C], 0, len(s.index))
	s.arena.descending(func(counter *counterSlot[C]) bool {
		counters = append(counters, Counter[C]{Item: counter.item, Count: counter.count, Error: counter.err})
		return true
	})
	return counters
}

// GetEstimate returns the count of item, or 0 if it is not tracked.
func (s *StreamSummary[C]) GetEstimate(item C) int64 {
	if c, ok := s.index[item]; ok {
		return s.arena.counters[c].count
	}
	return 0
}

// GetLowerBound returns count - error for a tracked item, or 0.
func (s *StreamSummary[C]) GetLowerBound(item C) int64 {
	if c, ok := s.index[item]; ok {
		return s.arena.counters[c].count - s.arena.counters[c].err
	}
	return 0
}

// GetUpperBound returns the count of a tracked item. An untracked item can
// have occurred at most as often as the lowest count while the summary is
// full, and never otherwise.
func (s *StreamSummary[C]) GetUpperBound(item C) int64 {
	if c, ok := s.index[item]; ok {
		return s.arena.counters[c].count
	}
	if len(s.index) < s.capacity {
		return 0
	}
	return s.arena.minCount()
}

// Size returns the number of tracked items.
func (s *StreamSummary[C]) Size() int {
	return len(s.index)
}

func (s *StreamSummary[C]) Capacity() int {
	return s.capacity
}

// GetStreamLength returns the sum of all weights offered so far.
func (s *StreamSummary[C]) GetStreamLength() int64 {
	return s.streamWeight
}

// Reset returns the summary to its freshly constructed state.
func (s *StreamSummary[C]) Reset() {
	s.index = make(map[C]int32, s.capacity)
	s.arena = newSummaryArena[C](s.capacity)
	s.streamWeight = 0
}

func (s *StreamSummary[C]) String() string {
	var sb strings.Builder
	sb.WriteString("StreamSummary:")
	sb.WriteString("\n")
	sb.WriteString("  Capacity      : " + strconv.Itoa(s.capacity))
	sb.WriteString("\n")
	sb.WriteString("  Stream Length : " + strconv.FormatInt(s.streamWeight, 10))
	sb.WriteString("\n")
	for b := s.arena.maxBucket; b != nilHandle; b = s.arena.buckets[b].prev {
		bucket := &s.arena.buckets[b]
		sb.WriteString(fmt.Sprintf("  %20d:", bucket.value))
		for c := bucket.head; c != nilHandle; c = s.arena.counters[c].next {
			sb.WriteString(fmt.Sprintf(" %v(err %d)", s.arena.counters[c].item, s.arena.counters[c].err))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
