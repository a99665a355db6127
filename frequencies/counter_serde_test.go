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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayconbordin/streaminer-sub001/common"
)

func TestCounterSerDeString(t *testing.T) {
	counter := Counter[string]{Item: "heavy hitter", Count: 42, Error: 7}
	bytes, err := SerializeCounter[string](common.ItemSketchStringSerDe{}, counter)
	require.NoError(t, err)
	assert.Len(t, bytes, 4+len("heavy hitter")+16)

	// fixed field order: item, count, error
	assert.Equal(t, uint32(len("heavy hitter")), binary.LittleEndian.Uint32(bytes))
	assert.Equal(t, uint64(42), binary.LittleEndian.Uint64(bytes[16:]))
	assert.Equal(t, uint64(7), binary.LittleEndian.Uint64(bytes[24:]))

	decoded, err := DeserializeCounter[string](common.ItemSketchStringSerDe{}, bytes)
	require.NoError(t, err)
	assert.Equal(t, counter, decoded)
}

func TestCounterSerDeFromSummary(t *testing.T) {
	summary, err := NewStreamSummary[int64](2)
	require.NoError(t, err)
	for _, item := range []int64{5, 5, 6, 7, 7, 7} {
		_, err := summary.Offer(item)
		require.NoError(t, err)
	}
	for _, counter := range summary.Counters() {
		bytes, err := SerializeCounter[int64](common.ItemSketchLongSerDe{}, counter)
		require.NoError(t, err)
		assert.Len(t, bytes, 24)
		decoded, err := DeserializeCounter[int64](common.ItemSketchLongSerDe{}, bytes)
		require.NoError(t, err)
		assert.Equal(t, counter, decoded)
	}
}

func TestCounterSerDeCorruption(t *testing.T) {
	_, err := SerializeCounter[string](nil, Counter[string]{})
	assert.Error(t, err)
	_, err = DeserializeCounter[string](nil, []byte{})
	assert.Error(t, err)

	bytes, err := SerializeCounter[int64](common.ItemSketchLongSerDe{}, Counter[int64]{Item: 1, Count: 3, Error: 1})
	require.NoError(t, err)
	_, err = DeserializeCounter[int64](common.ItemSketchLongSerDe{}, bytes[:20])
	assert.Error(t, err)

	binary.LittleEndian.PutUint64(bytes[16:], 9)
	_, err = DeserializeCounter[int64](common.ItemSketchLongSerDe{}, bytes)
	assert.ErrorContains(t, err, "possible corruption")

	_, err = DeserializeCounter[string](common.ItemSketchStringSerDe{}, []byte{10, 0, 0, 0, 'a'})
	assert.Error(t, err)
}
