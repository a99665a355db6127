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
	"strings"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

// reversePurgeItemHashMap is a fixed-length open addressing hash map with
// linear probing. states[i] holds the probe drift of the key stored at i plus
// one, zero marks an empty cell. Purging walks clusters backwards so deleted
// cells can be back-filled without rehashing.
type reversePurgeItemHashMap[C comparable] struct {
	lgLength      int
	loadThreshold int
	keys          []C
	values        []int64
	states        []int16
	numActive     int
	hasher        common.ItemSketchHasher[C]
}

type iteratorItemHashMap[C comparable] struct {
	keys      []C
	values    []int64
	states    []int16
	numActive int
	stride    int
	mask      int
	i         int
	count     int
}

const (
	reversePurgeItemHashMapLoadFactor = float64(0.75)
	reversePurgeItemHashMapDriftLimit = 1024
)

// newReversePurgeItemHashMap creates arrays of length mapSize, which must be a power of two.
// loadThreshold is the largest number of keys that will not overload the table.
func newReversePurgeItemHashMap[C comparable](mapSize int, hasher common.ItemSketchHasher[C]) (*reversePurgeItemHashMap[C], error) {
	lgLength, err := internal.ExactLog2(mapSize)
	if err != nil {
		return nil, fmt.Errorf("mapSize: %w", err)
	}
	return &reversePurgeItemHashMap[C]{
		lgLength:      lgLength,
		loadThreshold: int(float64(mapSize) * reversePurgeItemHashMapLoadFactor),
		keys:          make([]C, mapSize),
		values:        make([]int64, mapSize),
		states:        make([]int16, mapSize),
		hasher:        hasher,
	}, nil
}

func (r *reversePurgeItemHashMap[C]) getCapacity() int {
	return r.loadThreshold
}

// get returns the value mapped to key, or 0 if key is absent.
func (r *reversePurgeItemHashMap[C]) get(key C) int64 {
	probe := r.hashProbe(key)
	if r.states[probe] > 0 {
		return r.values[probe]
	}
	return 0
}

func (r *reversePurgeItemHashMap[C]) contains(key C) bool {
	return r.states[r.hashProbe(key)] > 0
}

// adjustOrPutValue increments the value mapped to key if present, otherwise
// inserts key with adjustAmount.
func (r *reversePurgeItemHashMap[C]) adjustOrPutValue(key C, adjustAmount int64) error {
	arrayMask := len(r.keys) - 1
	probe := int(r.hasher.Hash(key)) & arrayMask
	drift := 1
	for r.states[probe] != 0 && r.keys[probe] != key {
		probe = (probe + 1) & arrayMask
		drift++
		if drift >= reversePurgeItemHashMapDriftLimit {
			return errors.New("drift >= driftLimit")
		}
	}
	if r.states[probe] == 0 {
		if r.numActive >= r.loadThreshold {
			return errors.New("numActive >= loadThreshold")
		}
		r.keys[probe] = key
		r.values[probe] = adjustAmount
		r.states[probe] = int16(drift)
		r.numActive++
		return nil
	}
	r.values[probe] += adjustAmount
	return nil
}

// adjustAllValuesBy shifts every value by adjustAmount, including empty cells
// which are ignored afterwards.
func (r *reversePurgeItemHashMap[C]) adjustAllValuesBy(adjustAmount int64) {
	for i := len(r.values); i > 0; {
		i--
		r.values[i] += adjustAmount
	}
}

// minValue returns the smallest value held by an active cell, or 0 when the
// map is empty.
func (r *reversePurgeItemHashMap[C]) minValue() int64 {
	var m int64
	found := false
	for i, state := range r.states {
		if state > 0 && (!found || r.values[i] < m) {
			m = r.values[i]
			found = true
		}
	}
	return m
}

// keepOnlyPositiveCounts deletes every key whose value is zero or negative.
func (r *reversePurgeItemHashMap[C]) keepOnlyPositiveCounts() {
	// Starting from the back, find the first empty cell, which marks a boundary between clusters.
	firstProbe := len(r.keys) - 1
	for r.states[firstProbe] > 0 {
		firstProbe--
	}
	// Work towards the front; delete any non-positive entries.
	for probe := firstProbe; probe > 0; {
		probe--
		if r.states[probe] > 0 && r.values[probe] <= 0 {
			r.hashDelete(probe)
			r.numActive--
		}
	}
	// Now the cluster that wraps around the end of the table.
	for probe := len(r.keys); probe-1 > firstProbe; {
		probe--
		if r.states[probe] > 0 && r.values[probe] <= 0 {
			r.hashDelete(probe)
			r.numActive--
		}
	}
}

// hashDelete empties deleteProbe and pulls later members of the cluster back
// into the hole when their drift allows it.
func (r *reversePurgeItemHashMap[C]) hashDelete(deleteProbe int) {
	var zero C
	r.states[deleteProbe] = 0
	r.keys[deleteProbe] = zero
	drift := 1
	arrayMask := len(r.keys) - 1
	probe := (deleteProbe + drift) & arrayMask
	for r.states[probe] != 0 {
		if r.states[probe] > int16(drift) {
			r.keys[deleteProbe] = r.keys[probe]
			r.values[deleteProbe] = r.values[probe]
			r.states[deleteProbe] = r.states[probe] - int16(drift)
			r.states[probe] = 0
			r.keys[probe] = zero
			drift = 0
			deleteProbe = probe
		}
		probe = (probe + 1) & arrayMask
		drift++
	}
}

func (r *reversePurgeItemHashMap[C]) hashProbe(key C) int {
	arrayMask := len(r.keys) - 1
	probe := int(r.hasher.Hash(key)) & arrayMask
	for r.states[probe] > 0 && r.keys[probe] != key {
		probe = (probe + 1) & arrayMask
	}
	return probe
}

func (r *reversePurgeItemHashMap[C]) clear() {
	clear(r.keys)
	clear(r.values)
	clear(r.states)
	r.numActive = 0
}

func (r *reversePurgeItemHashMap[C]) iterator() *iteratorItemHashMap[C] {
	stride := int(uint64(float64(len(r.keys))*internal.InverseGolden) | 1)
	return &iteratorItemHashMap[C]{
		keys:      r.keys,
		values:    r.values,
		states:    r.states,
		numActive: r.numActive,
		stride:    stride,
		mask:      len(r.keys) - 1,
		i:         -stride,
	}
}

func (r *reversePurgeItemHashMap[C]) String() string {
	var sb strings.Builder
	sb.WriteString("ReversePurgeItemHashMap:\n")
	sb.WriteString(fmt.Sprintf("  %12s:%11s%20s %s\n", "Index", "States", "Values", "Keys"))
	for i := 0; i < len(r.keys); i++ {
		if r.states[i] <= 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %12d:%11d%20d %v\n", i, r.states[i], r.values[i], r.keys[i]))
	}
	return sb.String()
}

func (i *iteratorItemHashMap[C]) next() bool {
	i.i = (i.i + i.stride) & i.mask
	for i.count < i.numActive {
		if i.states[i.i] > 0 {
			i.count++
			return true
		}
		i.i = (i.i + i.stride) & i.mask
	}
	return false
}

func (i *iteratorItemHashMap[C]) getKey() C {
	return i.keys[i.i]
}

func (i *iteratorItemHashMap[C]) getValue() int64 {
	return i.values[i.i]
}
