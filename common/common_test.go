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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRankedEntries(t *testing.T) {
	entries := []RankedEntry[string]{
		{Item: "a", Frequency: 1},
		{Item: "b", Frequency: 5},
		{Item: "c", Frequency: 3},
		{Item: "d", Frequency: 5},
	}
	SortRankedEntries(entries)
	assert.Equal(t, []RankedEntry[string]{
		{Item: "b", Frequency: 5},
		{Item: "d", Frequency: 5},
		{Item: "c", Frequency: 3},
		{Item: "a", Frequency: 1},
	}, entries)
	assert.Equal(t, "b:5", entries[0].String())
}

func TestHashers(t *testing.T) {
	t.Run("murmur3 string", func(t *testing.T) {
		h := ItemSketchStringHasher{}
		assert.Equal(t, h.Hash("abc"), h.Hash("abc"))
		assert.NotEqual(t, h.Hash("abc"), h.Hash("abd"))
	})
	t.Run("xxhash string", func(t *testing.T) {
		h := ItemSketchStringXXHasher{}
		assert.Equal(t, h.Hash("abc"), h.Hash("abc"))
		assert.NotEqual(t, h.Hash("abc"), h.Hash("abd"))
	})
	t.Run("murmur3 long", func(t *testing.T) {
		h := ItemSketchLongHasher{}
		assert.Equal(t, h.Hash(42), h.Hash(42))
		assert.NotEqual(t, h.Hash(42), h.Hash(43))
	})
	t.Run("xxhash long", func(t *testing.T) {
		h := ItemSketchLongXXHasher{}
		assert.Equal(t, h.Hash(-7), h.Hash(-7))
		assert.NotEqual(t, h.Hash(-7), h.Hash(7))
	})
}

func TestStringSerDe(t *testing.T) {
	serde := ItemSketchStringSerDe{}
	items := []string{"", "a", "héllo"}

	bytes := serde.SerializeManyToSlice(items)
	size, err := serde.SizeOfMany(bytes, 0, len(items))
	require.NoError(t, err)
	assert.Equal(t, len(bytes), size)

	out, err := serde.DeserializeManyFromSlice(bytes, 0, len(items))
	require.NoError(t, err)
	assert.Equal(t, items, out)

	assert.Equal(t, 4, len(serde.SerializeOneToSlice("")))
	_, err = serde.DeserializeManyFromSlice(bytes[:len(bytes)-1], 0, len(items))
	assert.Error(t, err)
}

func TestLongSerDe(t *testing.T) {
	serde := ItemSketchLongSerDe{}
	items := []int64{0, -1, 1 << 40}

	bytes := serde.SerializeManyToSlice(items)
	assert.Len(t, bytes, 24)
	out, err := serde.DeserializeManyFromSlice(bytes, 0, len(items))
	require.NoError(t, err)
	assert.Equal(t, items, out)

	_, err = serde.SizeOfMany(bytes, 8, 3)
	assert.Error(t, err)
}
