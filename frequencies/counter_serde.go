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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mayconbordin/streaminer-sub001/common"
)

// A serialized Counter is the item as written by its serde, followed by
//
//	count : int64 little endian
//	error : int64 little endian
const counterTailBytes = 16

// SerializeCounter writes counter as (item, count, error).
func SerializeCounter[C comparable](serde common.ItemSketchSerde[C], counter Counter[C]) ([]byte, error) {
	if serde == nil {
		return nil, errors.New("no SerDe provided")
	}
	itemBytes := serde.SerializeOneToSlice(counter.Item)
	out := make([]byte, len(itemBytes)+counterTailBytes)
	copy(out, itemBytes)
	binary.LittleEndian.PutUint64(out[len(itemBytes):], uint64(counter.Count))
	binary.LittleEndian.PutUint64(out[len(itemBytes)+8:], uint64(counter.Error))
	return out, nil
}

// DeserializeCounter reads a Counter written by SerializeCounter.
func DeserializeCounter[C comparable](serde common.ItemSketchSerde[C], slc []byte) (Counter[C], error) {
	var counter Counter[C]
	if serde == nil {
		return counter, errors.New("no SerDe provided")
	}
	itemBytes, err := serde.SizeOfMany(slc, 0, 1)
	if err != nil {
		return counter, err
	}
	if len(slc) < itemBytes+counterTailBytes {
		return counter, fmt.Errorf("possible corruption: insufficient bytes in array: %d, %d", len(slc), itemBytes+counterTailBytes)
	}
	items, err := serde.DeserializeManyFromSlice(slc, 0, 1)
	if err != nil {
		return counter, err
	}
	counter.Item = items[0]
	counter.Count = int64(binary.LittleEndian.Uint64(slc[itemBytes:]))
	counter.Error = int64(binary.LittleEndian.Uint64(slc[itemBytes+8:]))
	if counter.Count < 0 || counter.Error < 0 || counter.Error > counter.Count {
		return Counter[C]{}, fmt.Errorf("possible corruption: count %d, error %d", counter.Count, counter.Error)
	}
	return counter, nil
}
