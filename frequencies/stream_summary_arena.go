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
	"errors"
	"fmt"
)

const nilHandle = int32(-1)

// counterSlot is a Space-Saving counter. Members of one bucket form an
// intrusive doubly linked list through prev and next.
type counterSlot[C comparable] struct {
	item   C
	count  int64
	err    int64
	bucket int32
	prev   int32
	next   int32
}

// bucketSlot groups the counters sharing value. Buckets form a doubly linked
// list strictly ascending by value: prev is the next lower bucket.
type bucketSlot struct {
	value int64
	head  int32
	tail  int32
	size  int
	prev  int32
	next  int32
}

// summaryArena owns every counter and bucket of a StreamSummary. Counters are
// allocated once and recycled in place on eviction; emptied buckets return to
// freeBuckets.
type summaryArena[C comparable] struct {
	counters    []counterSlot[C]
	buckets     []bucketSlot
	freeBuckets []int32
	minBucket   int32
	maxBucket   int32
}

func newSummaryArena[C comparable](capacity int) *summaryArena[C] {
	return &summaryArena[C]{
		counters:  make([]counterSlot[C], 0, capacity),
		buckets:   make([]bucketSlot, 0, capacity+1),
		minBucket: nilHandle,
		maxBucket: nilHandle,
	}
}

func (a *summaryArena[C]) newCounter(item C) int32 {
	a.counters = append(a.counters, counterSlot[C]{
		item:   item,
		bucket: nilHandle,
		prev:   nilHandle,
		next:   nilHandle,
	})
	return int32(len(a.counters) - 1)
}

// recycle hands counter c over to item, recording err as its overestimation.
// The count is left untouched; the caller increments it afterwards.
func (a *summaryArena[C]) recycle(c int32, item C, err int64) {
	a.counters[c].item = item
	a.counters[c].err = err
}

func (a *summaryArena[C]) newBucket(value int64) int32 {
	slot := bucketSlot{
		value: value,
		head:  nilHandle,
		tail:  nilHandle,
		prev:  nilHandle,
		next:  nilHandle,
	}
	if n := len(a.freeBuckets); n > 0 {
		b := a.freeBuckets[n-1]
		a.freeBuckets = a.freeBuckets[:n-1]
		a.buckets[b] = slot
		return b
	}
	a.buckets = append(a.buckets, slot)
	return int32(len(a.buckets) - 1)
}

func (a *summaryArena[C]) freeBucket(b int32) {
	a.buckets[b] = bucketSlot{head: nilHandle, tail: nilHandle, prev: nilHandle, next: nilHandle}
	a.freeBuckets = append(a.freeBuckets, b)
}

// attach appends counter c to the member list of bucket b.
func (a *summaryArena[C]) attach(c, b int32) {
	counter := &a.counters[c]
	bucket := &a.buckets[b]
	counter.bucket = b
	counter.count = bucket.value
	counter.next = nilHandle
	counter.prev = bucket.tail
	if bucket.tail != nilHandle {
		a.counters[bucket.tail].next = c
	} else {
		bucket.head = c
	}
	bucket.tail = c
	bucket.size++
}

func (a *summaryArena[C]) detach(c int32) {
	counter := &a.counters[c]
	bucket := &a.buckets[counter.bucket]
	if counter.prev != nilHandle {
		a.counters[counter.prev].next = counter.next
	} else {
		bucket.head = counter.next
	}
	if counter.next != nilHandle {
		a.counters[counter.next].prev = counter.prev
	} else {
		bucket.tail = counter.prev
	}
	bucket.size--
	counter.bucket = nilHandle
	counter.prev = nilHandle
	counter.next = nilHandle
}

// linkBucketAfter splices bucket b into the list right after bucket after, or
// at the low end when after is nilHandle.
func (a *summaryArena[C]) linkBucketAfter(b, after int32) {
	bucket := &a.buckets[b]
	bucket.prev = after
	if after == nilHandle {
		bucket.next = a.minBucket
		a.minBucket = b
	} else {
		bucket.next = a.buckets[after].next
		a.buckets[after].next = b
	}
	if bucket.next != nilHandle {
		a.buckets[bucket.next].prev = b
	} else {
		a.maxBucket = b
	}
}

func (a *summaryArena[C]) unlinkBucket(b int32) {
	bucket := &a.buckets[b]
	if bucket.prev != nilHandle {
		a.buckets[bucket.prev].next = bucket.next
	} else {
		a.minBucket = bucket.next
	}
	if bucket.next != nilHandle {
		a.buckets[bucket.next].prev = bucket.prev
	} else {
		a.maxBucket = bucket.prev
	}
}

// place attaches the detached counter c to the bucket holding count, walking
// upwards from the bucket after `after` (from the lowest bucket when after is
// nilHandle). after must hold a value below count. A bucket is created when
// none holds count, so the walk only steps over buckets with values between
// the old and the new count.
func (a *summaryArena[C]) place(c int32, after int32, count int64) {
	next := a.minBucket
	if after != nilHandle {
		next = a.buckets[after].next
	}
	for next != nilHandle && a.buckets[next].value < count {
		after = next
		next = a.buckets[next].next
	}
	if next != nilHandle && a.buckets[next].value == count {
		a.attach(c, next)
		return
	}
	b := a.newBucket(count)
	a.linkBucketAfter(b, after)
	a.attach(c, b)
}

// increment moves counter c from its bucket to the bucket holding count, which
// must be greater than its current count, and drops the old bucket if it
// became empty.
func (a *summaryArena[C]) increment(c int32, count int64) {
	old := a.counters[c].bucket
	a.detach(c)
	a.place(c, old, count)
	if a.buckets[old].size == 0 {
		a.unlinkBucket(old)
		a.freeBucket(old)
	}
}

// evictionCandidate returns the last member of the lowest bucket. The choice
// among equal counts is arbitrary but deterministic.
func (a *summaryArena[C]) evictionCandidate() int32 {
	if a.minBucket == nilHandle {
		return nilHandle
	}
	return a.buckets[a.minBucket].tail
}

func (a *summaryArena[C]) minCount() int64 {
	if a.minBucket == nilHandle {
		return 0
	}
	return a.buckets[a.minBucket].value
}

// descending calls fn for every counter from the highest bucket down until fn returns false.
func (a *summaryArena[C]) descending(fn func(counter *counterSlot[C]) bool) {
	for b := a.maxBucket; b != nilHandle; b = a.buckets[b].prev {
		for c := a.buckets[b].head; c != nilHandle; c = a.counters[c].next {
			if !fn(&a.counters[c]) {
				return
			}
		}
	}
}

// validate checks every structural invariant of the arena against index.
func (a *summaryArena[C]) validate(index map[C]int32) error {
	seen := 0
	prev := nilHandle
	for b := a.minBucket; b != nilHandle; b = a.buckets[b].next {
		bucket := &a.buckets[b]
		if bucket.prev != prev {
			return fmt.Errorf("bucket %d: broken prev link", b)
		}
		if prev != nilHandle && a.buckets[prev].value >= bucket.value {
			return fmt.Errorf("bucket %d: value %d not above %d", b, bucket.value, a.buckets[prev].value)
		}
		if bucket.size == 0 || bucket.head == nilHandle {
			return fmt.Errorf("bucket %d: empty bucket in list", b)
		}
		members := 0
		prevCounter := nilHandle
		for c := bucket.head; c != nilHandle; c = a.counters[c].next {
			counter := &a.counters[c]
			if counter.prev != prevCounter {
				return fmt.Errorf("counter %d: broken prev link", c)
			}
			if counter.bucket != b {
				return fmt.Errorf("counter %d: bucket handle %d, listed in %d", c, counter.bucket, b)
			}
			if counter.count != bucket.value {
				return fmt.Errorf("counter %d: count %d in bucket of %d", c, counter.count, bucket.value)
			}
			if counter.err < 0 || counter.err > counter.count {
				return fmt.Errorf("counter %d: error %d out of [0, %d]", c, counter.err, counter.count)
			}
			if h, ok := index[counter.item]; !ok || h != c {
				return fmt.Errorf("counter %d: item %v not indexed", c, counter.item)
			}
			prevCounter = c
			members++
		}
		if members != bucket.size || bucket.tail != prevCounter {
			return fmt.Errorf("bucket %d: size %d, %d members", b, bucket.size, members)
		}
		seen += members
		prev = b
	}
	if prev != a.maxBucket {
		return errors.New("max bucket is not the last bucket")
	}
	if seen != len(index) || seen != len(a.counters) {
		return fmt.Errorf("%d counters listed, %d indexed, %d allocated", seen, len(index), len(a.counters))
	}
	return nil
}
