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

package common

import (
	"encoding/binary"
	"errors"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
)

// ItemSketchStringHasher hashes string items with seeded murmur3.
type ItemSketchStringHasher struct{}

// ItemSketchStringXXHasher hashes string items with xxhash.
type ItemSketchStringXXHasher struct{}

// ItemSketchStringSerDe writes each string as a 4-byte little-endian length
// followed by its UTF-8 bytes.
type ItemSketchStringSerDe struct{}

func (f ItemSketchStringHasher) Hash(item string) uint64 {
	datum := unsafe.Slice(unsafe.StringData(item), len(item))
	return murmur3.SeedSum64(defaultSerdeHashSeed, datum)
}

func (f ItemSketchStringXXHasher) Hash(item string) uint64 {
	return xxhash.Sum64String(item)
}

func (f ItemSketchStringSerDe) SizeOf(item string) int {
	return len(item) + 4
}

func (f ItemSketchStringSerDe) SizeOfMany(mem []byte, offsetBytes int, numItems int) (int, error) {
	if numItems <= 0 {
		return 0, nil
	}
	offset := offsetBytes
	memCap := len(mem)
	for i := 0; i < numItems; i++ {
		if !checkBounds(offset, 4, memCap) {
			return 0, errors.New("offset out of bounds")
		}
		itemLenBytes := int(binary.LittleEndian.Uint32(mem[offset:]))
		offset += 4
		if !checkBounds(offset, itemLenBytes, memCap) {
			return 0, errors.New("offset out of bounds")
		}
		offset += itemLenBytes
	}
	return offset - offsetBytes, nil
}

// SerializeOneToSlice always emits the length prefix, so the empty string
// round-trips as four zero bytes.
func (f ItemSketchStringSerDe) SerializeOneToSlice(item string) []byte {
	bytesOut := make([]byte, len(item)+4)
	binary.LittleEndian.PutUint32(bytesOut, uint32(len(item)))
	copy(bytesOut[4:], item)
	return bytesOut
}

func (f ItemSketchStringSerDe) SerializeManyToSlice(items []string) []byte {
	if len(items) == 0 {
		return []byte{}
	}
	totalBytes := 0
	for _, item := range items {
		totalBytes += len(item) + 4
	}
	bytesOut := make([]byte, totalBytes)
	offset := 0
	for _, item := range items {
		binary.LittleEndian.PutUint32(bytesOut[offset:], uint32(len(item)))
		offset += 4
		copy(bytesOut[offset:], item)
		offset += len(item)
	}
	return bytesOut
}

func (f ItemSketchStringSerDe) DeserializeManyFromSlice(mem []byte, offsetBytes int, numItems int) ([]string, error) {
	if numItems <= 0 {
		return []string{}, nil
	}
	array := make([]string, numItems)
	offset := offsetBytes
	memCap := len(mem)
	for i := 0; i < numItems; i++ {
		if !checkBounds(offset, 4, memCap) {
			return nil, errors.New("offset out of bounds")
		}
		strLength := int(binary.LittleEndian.Uint32(mem[offset:]))
		offset += 4
		if !checkBounds(offset, strLength, memCap) {
			return nil, errors.New("offset out of bounds")
		}
		array[i] = string(mem[offset : offset+strLength])
		offset += strLength
	}
	return array, nil
}
