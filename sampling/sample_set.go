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

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

const nilNode = int32(-1)

type weightedNode[C comparable] struct {
	item  C
	count int64
	prev  int32
	next  int32
}

// SampleSet is a weighted set of items kept as a doubly linked list ordered by
// descending count. Nodes live in one slice addressed by int32 handles;
// removed nodes are recycled through a free list.
//
// Every count change moves the node by adjacent swaps until its neighbours
// are ordered again, so single increments cost O(1).
type SampleSet[C comparable] struct {
	nodes       []weightedNode[C]
	freeNodes   []int32
	index       map[C]int32
	head        int32
	tail        int32
	totalWeight int64
}

// NewSampleSet returns an empty SampleSet with room for capacity items before
// its node slice grows.
func NewSampleSet[C comparable](capacity int) *SampleSet[C] {
	return &SampleSet[C]{
		nodes: make([]weightedNode[C], 0, capacity),
		index: make(map[C]int32, capacity),
		head:  nilNode,
		tail:  nilNode,
	}
}

// Put adds weight to item, inserting it if absent, and returns its new count.
// The set is unchanged when weight is not positive or the total would overflow.
func (s *SampleSet[C]) Put(item C, weight int64) (int64, error) {
	if weight <= 0 {
		return 0, fmt.Errorf("%w: weight must be positive: %d", common.ErrInvalidWeight, weight)
	}
	totalWeight, ok := internal.AddChecked(s.totalWeight, weight)
	if !ok {
		return 0, fmt.Errorf("%w: sampled weight %d + %d", common.ErrOverflow, s.totalWeight, weight)
	}
	s.totalWeight = totalWeight
	if n, ok := s.index[item]; ok {
		s.nodes[n].count += weight
		s.promote(n)
		return s.nodes[n].count, nil
	}
	n := s.newNode(item, weight)
	s.index[item] = n
	s.linkAfter(n, s.tail)
	s.promote(n)
	return weight, nil
}

// RemoveRandom picks a member with probability proportional to its count,
// decrements it by one and unlinks it when the count reaches zero. It returns
// the picked item and whether it was removed from the set.
func (s *SampleSet[C]) RemoveRandom(rng *rand.Rand) (C, bool) {
	var zero C
	if s.totalWeight <= 0 {
		return zero, false
	}
	target := rng.Int63n(s.totalWeight)
	n := s.head
	for n != nilNode {
		target -= s.nodes[n].count
		if target < 0 {
			break
		}
		n = s.nodes[n].next
	}
	if n == nilNode {
		n = s.tail
	}

	item := s.nodes[n].item
	s.nodes[n].count--
	s.totalWeight--
	if s.nodes[n].count > 0 {
		s.demote(n)
		return item, false
	}
	s.unlink(n)
	delete(s.index, item)
	s.freeNode(n)
	return item, true
}

// Contains reports whether item is in the set.
func (s *SampleSet[C]) Contains(item C) bool {
	_, ok := s.index[item]
	return ok
}

// Count returns the count of item, or 0 if it is not in the set.
func (s *SampleSet[C]) Count(item C) int64 {
	if n, ok := s.index[item]; ok {
		return s.nodes[n].count
	}
	return 0
}

// Peek returns at most k members from the head of the list.
func (s *SampleSet[C]) Peek(k int) []common.RankedEntry[C] {
	limit := min(max(k, 0), len(s.index))
	entries := make([]common.RankedEntry[C], 0, limit)
	for n := s.head; n != nilNode && len(entries) < limit; n = s.nodes[n].next {
		entries = append(entries, common.RankedEntry[C]{Item: s.nodes[n].item, Frequency: s.nodes[n].count})
	}
	common.SortRankedEntries(entries)
	return entries
}

func (s *SampleSet[C]) Size() int {
	return len(s.index)
}

// TotalWeight returns the sum of all member counts.
func (s *SampleSet[C]) TotalWeight() int64 {
	return s.totalWeight
}

func (s *SampleSet[C]) newNode(item C, count int64) int32 {
	node := weightedNode[C]{item: item, count: count, prev: nilNode, next: nilNode}
	if n := len(s.freeNodes); n > 0 {
		h := s.freeNodes[n-1]
		s.freeNodes = s.freeNodes[:n-1]
		s.nodes[h] = node
		return h
	}
	s.nodes = append(s.nodes, node)
	return int32(len(s.nodes) - 1)
}

func (s *SampleSet[C]) freeNode(n int32) {
	s.nodes[n] = weightedNode[C]{prev: nilNode, next: nilNode}
	s.freeNodes = append(s.freeNodes, n)
}

// linkAfter splices n after node after, or at the head when after is nilNode.
func (s *SampleSet[C]) linkAfter(n, after int32) {
	s.nodes[n].prev = after
	if after == nilNode {
		s.nodes[n].next = s.head
		s.head = n
	} else {
		s.nodes[n].next = s.nodes[after].next
		s.nodes[after].next = n
	}
	if next := s.nodes[n].next; next != nilNode {
		s.nodes[next].prev = n
	} else {
		s.tail = n
	}
}

func (s *SampleSet[C]) unlink(n int32) {
	prev, next := s.nodes[n].prev, s.nodes[n].next
	if prev != nilNode {
		s.nodes[prev].next = next
	} else {
		s.head = next
	}
	if next != nilNode {
		s.nodes[next].prev = prev
	} else {
		s.tail = prev
	}
	s.nodes[n].prev = nilNode
	s.nodes[n].next = nilNode
}

// promote swaps n towards the head while its predecessor has a lower count.
func (s *SampleSet[C]) promote(n int32) {
	for prev := s.nodes[n].prev; prev != nilNode && s.nodes[prev].count < s.nodes[n].count; prev = s.nodes[n].prev {
		s.unlink(n)
		s.linkAfter(n, s.nodes[prev].prev)
	}
}

// demote swaps n towards the tail while its successor has a higher count.
func (s *SampleSet[C]) demote(n int32) {
	for next := s.nodes[n].next; next != nilNode && s.nodes[next].count > s.nodes[n].count; next = s.nodes[n].next {
		s.unlink(n)
		s.linkAfter(n, next)
	}
}
