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
	"math"
	"strconv"
	"strings"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

// Frequent is the Misra-Gries "Frequent" algorithm. It keeps at most
// k = ceil(1/epsilon) counters; an untracked item arriving while all k are in
// use triggers a decrement round over every counter. A round subtracts the
// smaller of the incoming weight and the lowest count from every counter and
// from the incoming weight; whatever weight is left is admitted, since the
// round freed at least one counter.
//
// For every tracked item:
//
//	trueCount - GetMaximumError() <= count <= trueCount
//
// and GetMaximumError() never exceeds GetStreamLength() / k.
//
// Frequent is not safe for concurrent use.
type Frequent[C comparable] struct {
	epsilon float64
	k       int
	// Sum of all decrement rounds.
	offset int64
	// Sum of all weights offered.
	streamWeight int64
	hashMap      *reversePurgeItemHashMap[C]
}

// NewFrequent returns a Frequent sketch with error bound epsilon in (0, 1].
func NewFrequent[C comparable](epsilon float64, hasher common.ItemSketchHasher[C]) (*Frequent[C], error) {
	if !(epsilon > 0 && epsilon <= 1) {
		return nil, fmt.Errorf("%w: epsilon must be in (0, 1]: %v", common.ErrInvalidConfiguration, epsilon)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: no hasher provided", common.ErrInvalidConfiguration)
	}
	capacity := math.Ceil(1 / epsilon)
	if capacity > maxCapacity {
		return nil, fmt.Errorf("%w: epsilon too small: %v", common.ErrInvalidConfiguration, epsilon)
	}
	k := int(capacity)
	hashMap, err := newReversePurgeItemHashMap[C](internal.TableSizeFor(k, reversePurgeItemHashMapLoadFactor), hasher)
	if err != nil {
		return nil, err
	}
	return &Frequent[C]{
		epsilon: epsilon,
		k:       k,
		hashMap: hashMap,
	}, nil
}

// Offer is OfferWeighted(item, 1).
func (f *Frequent[C]) Offer(item C) (bool, error) {
	return f.OfferWeighted(item, 1)
}

// OfferWeighted adds weight to item. It returns true when item holds a counter
// afterwards, and false when a decrement round consumed all of its weight.
// Unless a decrement round already ran, the sketch is unchanged on error.
func (f *Frequent[C]) OfferWeighted(item C, weight int64) (bool, error) {
	ok, err := checkOffer(item, weight)
	if !ok {
		return false, err
	}
	streamWeight, ok := internal.AddChecked(f.streamWeight, weight)
	if !ok {
		return false, fmt.Errorf("%w: stream weight %d + %d", common.ErrOverflow, f.streamWeight, weight)
	}

	if count := f.hashMap.get(item); count > 0 {
		if _, ok := internal.AddChecked(count, weight); !ok {
			return false, fmt.Errorf("%w: count %d + %d", common.ErrOverflow, count, weight)
		}
		if err := f.hashMap.adjustOrPutValue(item, weight); err != nil {
			return false, err
		}
		f.streamWeight = streamWeight
		return true, nil
	}

	if f.hashMap.numActive < f.k {
		if err := f.hashMap.adjustOrPutValue(item, weight); err != nil {
			return false, err
		}
		f.streamWeight = streamWeight
		return true, nil
	}

	// The round removes d from all k counters and from the incoming weight,
	// so the offset grows by d for every (k+1)*d of stream weight.
	d := min(weight, f.hashMap.minValue())
	f.hashMap.adjustAllValuesBy(-d)
	f.hashMap.keepOnlyPositiveCounts()
	f.offset += d
	f.streamWeight = streamWeight
	if rest := weight - d; rest > 0 {
		return true, f.hashMap.adjustOrPutValue(item, rest)
	}
	return false, nil
}

// Peek returns at most k tracked items ordered by descending count.
func (f *Frequent[C]) Peek(k int) []common.RankedEntry[C] {
	limit := peekLimit(k, f.hashMap.numActive)
	if limit == 0 {
		return []common.RankedEntry[C]{}
	}
	entries := make([]common.RankedEntry[C], 0, f.hashMap.numActive)
	iter := f.hashMap.iterator()
	for iter.next() {
		entries = append(entries, common.RankedEntry[C]{Item: iter.getKey(), Frequency: iter.getValue()})
	}
	common.SortRankedEntries(entries)
	return entries[:limit]
}

// Size returns the number of tracked items.
func (f *Frequent[C]) Size() int {
	return f.hashMap.numActive
}

// Capacity returns k = ceil(1/epsilon).
func (f *Frequent[C]) Capacity() int {
	return f.k
}

func (f *Frequent[C]) Epsilon() float64 {
	return f.epsilon
}

// GetStreamLength returns the sum of all weights offered so far.
func (f *Frequent[C]) GetStreamLength() int64 {
	return f.streamWeight
}

// GetMaximumError returns the total weight removed by decrement rounds, an
// upper bound on the undercount of any item.
func (f *Frequent[C]) GetMaximumError() int64 {
	return f.offset
}

// GetEstimate returns the tracked count of item, or 0 if it is not tracked.
func (f *Frequent[C]) GetEstimate(item C) int64 {
	return f.hashMap.get(item)
}

// GetLowerBound returns a guaranteed lower bound on the frequency of item.
func (f *Frequent[C]) GetLowerBound(item C) int64 {
	return f.hashMap.get(item)
}

// GetUpperBound returns a guaranteed upper bound on the frequency of item.
func (f *Frequent[C]) GetUpperBound(item C) int64 {
	return f.hashMap.get(item) + f.offset
}

// GetFrequentItems returns the tracked items whose bound selected by errorType
// is at least threshold, ordered by descending estimate.
//
// With NoFalseNegatives an item is kept if its upper bound reaches threshold:
// every item whose true frequency reaches threshold and is tracked is returned.
// With NoFalsePositives an item is kept only if its lower bound reaches
// threshold: every returned item truly reaches it.
func (f *Frequent[C]) GetFrequentItems(threshold int64, errorType ErrorType) []*Row[C] {
	rows := make([]*Row[C], 0)
	iter := f.hashMap.iterator()
	for iter.next() {
		lb := iter.getValue()
		ub := lb + f.offset
		bound := lb
		if errorType == ErrorTypeEnum.NoFalseNegatives {
			bound = ub
		}
		if bound >= threshold {
			rows = append(rows, newRow(iter.getKey(), lb, ub, lb))
		}
	}
	sortRows(rows)
	return rows
}

// Reset returns the sketch to its freshly constructed state.
func (f *Frequent[C]) Reset() {
	f.hashMap.clear()
	f.offset = 0
	f.streamWeight = 0
}

func (f *Frequent[C]) String() string {
	var sb strings.Builder
	sb.WriteString("Frequent:")
	sb.WriteString("\n")
	sb.WriteString("  Epsilon          : " + strconv.FormatFloat(f.epsilon, 'g', -1, 64))
	sb.WriteString("\n")
	sb.WriteString("  Capacity         : " + strconv.Itoa(f.k))
	sb.WriteString("\n")
	sb.WriteString("  Stream Length    : " + strconv.FormatInt(f.streamWeight, 10))
	sb.WriteString("\n")
	sb.WriteString("  Max Error Offset : " + strconv.FormatInt(f.offset, 10))
	sb.WriteString("\n")
	sb.WriteString(f.hashMap.String())
	return sb.String()
}
