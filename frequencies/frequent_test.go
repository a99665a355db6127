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
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayconbordin/streaminer-sub001/common"
)

func TestFrequentInvalidEpsilon(t *testing.T) {
	for _, epsilon := range []float64{0, -0.1, 1.5, math.NaN(), math.Inf(1), 1e-12} {
		_, err := NewFrequent[string](epsilon, common.ItemSketchStringHasher{})
		assert.ErrorIs(t, err, common.ErrInvalidConfiguration, "epsilon %v", epsilon)
	}
	_, err := NewFrequent[string](0.1, nil)
	assert.ErrorIs(t, err, common.ErrInvalidConfiguration)

	sketch, err := NewFrequent[string](1, common.ItemSketchStringHasher{})
	assert.NoError(t, err)
	assert.Equal(t, 1, sketch.Capacity())

	sketch, err = NewFrequent[string](0.3, common.ItemSketchStringHasher{})
	assert.NoError(t, err)
	assert.Equal(t, 4, sketch.Capacity())
	assert.Equal(t, 0.3, sketch.Epsilon())
}

func TestFrequentTrace(t *testing.T) {
	sketch, err := NewFrequent[string](0.5, common.ItemSketchStringHasher{})
	require.NoError(t, err)
	assert.Equal(t, 2, sketch.Capacity())

	for i := 0; i < 3; i++ {
		accepted, err := sketch.Offer("A")
		assert.NoError(t, err)
		assert.True(t, accepted)
	}
	assert.Equal(t, []common.RankedEntry[string]{{Item: "A", Frequency: 3}}, sketch.Peek(2))

	accepted, err := sketch.Offer("B")
	assert.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 2, sketch.Size())
	assert.Equal(t, int64(1), sketch.GetEstimate("B"))

	accepted, err = sketch.Offer("C")
	assert.NoError(t, err)
	assert.False(t, accepted)

	assert.Equal(t, []common.RankedEntry[string]{{Item: "A", Frequency: 2}}, sketch.Peek(2))
	assert.Equal(t, 1, sketch.Size())
	assert.Equal(t, int64(0), sketch.GetEstimate("B"))
	assert.Equal(t, int64(0), sketch.GetEstimate("C"))
	assert.Equal(t, int64(5), sketch.GetStreamLength())
	assert.Equal(t, int64(1), sketch.GetMaximumError())
	assert.Equal(t, int64(2), sketch.GetLowerBound("A"))
	assert.Equal(t, int64(3), sketch.GetUpperBound("A"))
}

func TestFrequentWeightedDecrement(t *testing.T) {
	sketch, err := NewFrequent[int64](0.5, common.ItemSketchLongHasher{})
	require.NoError(t, err)

	_, err = sketch.OfferWeighted(1, 10)
	require.NoError(t, err)
	_, err = sketch.OfferWeighted(2, 2)
	require.NoError(t, err)

	// The round takes min(4, 2) off every counter and off the incoming
	// weight, freeing the slot of 2 for the remaining weight of 3.
	accepted, err := sketch.OfferWeighted(3, 4)
	assert.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, []common.RankedEntry[int64]{{Item: 1, Frequency: 8}, {Item: 3, Frequency: 2}}, sketch.Peek(5))
	assert.Equal(t, int64(2), sketch.GetMaximumError())
	assert.Equal(t, int64(16), sketch.GetStreamLength())

	// A weight no larger than the lowest count is consumed by the round.
	accepted, err = sketch.OfferWeighted(4, 1)
	assert.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, []common.RankedEntry[int64]{{Item: 1, Frequency: 7}, {Item: 3, Frequency: 1}}, sketch.Peek(5))
	assert.Equal(t, int64(3), sketch.GetMaximumError())
}

func TestFrequentWeightedBounds(t *testing.T) {
	t.Run("heavy item offered after the sketch fills", func(t *testing.T) {
		sketch, err := NewFrequent[string](0.34, common.ItemSketchStringHasher{})
		require.NoError(t, err)
		require.Equal(t, 3, sketch.Capacity())

		exact := map[string]int64{"A": 10, "B": 1, "C": 1, "D": 9}
		for _, item := range []string{"A", "B", "C", "D"} {
			_, err := sketch.OfferWeighted(item, exact[item])
			require.NoError(t, err)
		}

		assert.Equal(t, int64(1), sketch.GetMaximumError())
		assert.Equal(t, int64(9), sketch.GetEstimate("A"))
		assert.Equal(t, int64(8), sketch.GetEstimate("D"))
		for item, count := range exact {
			assert.GreaterOrEqual(t, sketch.GetEstimate(item), count-sketch.GetMaximumError(), item)
			assert.GreaterOrEqual(t, sketch.GetUpperBound(item), count, item)
		}
	})

	t.Run("random weighted stream", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		zipf := rand.NewZipf(rng, 1.2, 1, 300)
		sketch, err := NewFrequent[int64](0.1, common.ItemSketchLongHasher{})
		require.NoError(t, err)

		exact := make(map[int64]int64)
		for i := 0; i < 20000; i++ {
			item := int64(zipf.Uint64())
			weight := rng.Int63n(50) + 1
			_, err := sketch.OfferWeighted(item, weight)
			require.NoError(t, err)
			exact[item] += weight
			require.LessOrEqual(t, sketch.Size(), sketch.Capacity())
		}

		maxError := sketch.GetMaximumError()
		assert.LessOrEqual(t, maxError, sketch.GetStreamLength()/int64(sketch.Capacity()))
		for item, count := range exact {
			est := sketch.GetEstimate(item)
			assert.LessOrEqual(t, est, count)
			assert.GreaterOrEqual(t, est, count-maxError)
			assert.GreaterOrEqual(t, sketch.GetUpperBound(item), count)
		}
	})
}

func TestFrequentUnchangedOnMapError(t *testing.T) {
	sketch, err := NewFrequent[int64](1.0/2000, collidingHasher{})
	require.NoError(t, err)

	var failed error
	var accepted int64
	for item := int64(0); item < 2000 && failed == nil; item++ {
		_, failed = sketch.OfferWeighted(item, 2)
		if failed == nil {
			accepted++
		}
	}
	require.Error(t, failed)
	assert.Equal(t, int(accepted), sketch.Size())
	assert.Equal(t, 2*accepted, sketch.GetStreamLength())
	assert.Equal(t, int64(0), sketch.GetEstimate(accepted))
}

func TestFrequentInvalidOffers(t *testing.T) {
	sketch, err := NewFrequent[*int64](0.5, pointerHasher{})
	require.NoError(t, err)

	_, err = sketch.Offer(nil)
	assert.ErrorIs(t, err, common.ErrNilItem)

	x := int64(1)
	_, err = sketch.OfferWeighted(&x, -2)
	assert.ErrorIs(t, err, common.ErrInvalidWeight)

	accepted, err := sketch.OfferWeighted(&x, 0)
	assert.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, int64(0), sketch.GetStreamLength())
}

func TestFrequentOverflow(t *testing.T) {
	sketch, err := NewFrequent[string](0.5, common.ItemSketchStringXXHasher{})
	require.NoError(t, err)

	_, err = sketch.OfferWeighted("a", math.MaxInt64-1)
	require.NoError(t, err)
	_, err = sketch.OfferWeighted("b", 2)
	assert.ErrorIs(t, err, common.ErrOverflow)

	assert.Equal(t, int64(math.MaxInt64-1), sketch.GetStreamLength())
	assert.Equal(t, 1, sketch.Size())
	assert.Equal(t, int64(0), sketch.GetEstimate("b"))
}

func TestFrequentBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	zipf := rand.NewZipf(rng, 1.1, 1, 500)
	sketch, err := NewFrequent[int64](0.05, common.ItemSketchLongHasher{})
	require.NoError(t, err)

	exact := make(map[int64]int64)
	for i := 0; i < 50000; i++ {
		item := int64(zipf.Uint64())
		_, err := sketch.Offer(item)
		require.NoError(t, err)
		exact[item]++
		require.LessOrEqual(t, sketch.Size(), sketch.Capacity())
	}

	maxError := sketch.GetMaximumError()
	assert.LessOrEqual(t, maxError, sketch.GetStreamLength()/int64(sketch.Capacity()))
	for item, count := range exact {
		est := sketch.GetEstimate(item)
		assert.LessOrEqual(t, est, count)
		assert.GreaterOrEqual(t, est, count-maxError)
		assert.GreaterOrEqual(t, sketch.GetUpperBound(item), count)
	}

	top := sketch.Peek(3)
	require.Len(t, top, 3)
	assert.Equal(t, int64(0), top[0].Item)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Frequency, top[i].Frequency)
	}
}

func TestFrequentGetFrequentItems(t *testing.T) {
	sketch, err := NewFrequent[int64](0.25, common.ItemSketchLongHasher{})
	require.NoError(t, err)
	for _, update := range []struct{ item, weight int64 }{
		{1, 10}, {2, 1}, {3, 1}, {4, 1}, {5, 1}, {7, 15}, {8, 1},
	} {
		_, err := sketch.OfferWeighted(update.item, update.weight)
		require.NoError(t, err)
	}

	noFalsePositives := sketch.GetFrequentItems(5, ErrorTypeEnum.NoFalsePositives)
	require.Len(t, noFalsePositives, 2)
	assert.Equal(t, int64(7), noFalsePositives[0].GetItem())
	assert.Equal(t, int64(1), noFalsePositives[1].GetItem())

	noFalseNegatives := sketch.GetFrequentItems(2, ErrorTypeEnum.NoFalseNegatives)
	assert.GreaterOrEqual(t, len(noFalseNegatives), 2)
	for _, row := range noFalseNegatives {
		assert.GreaterOrEqual(t, row.GetUpperBound(), int64(2))
		assert.Equal(t, row.GetLowerBound()+sketch.GetMaximumError(), row.GetUpperBound())
	}
}

func TestFrequentPeekAndReset(t *testing.T) {
	sketch, err := NewFrequent[string](0.1, common.ItemSketchStringHasher{})
	require.NoError(t, err)
	for i, item := range []string{"a", "b", "c", "d"} {
		_, err := sketch.OfferWeighted(item, int64(i+1))
		require.NoError(t, err)
	}
	for k := -1; k <= 6; k++ {
		assert.Len(t, sketch.Peek(k), max(0, min(k, 4)))
	}
	assert.Equal(t, sketch.Peek(4), sketch.Peek(4))
	assert.Equal(t, "d", sketch.Peek(1)[0].Item)
	assert.Contains(t, sketch.String(), "Frequent")

	sketch.Reset()
	assert.Equal(t, 0, sketch.Size())
	assert.Equal(t, int64(0), sketch.GetStreamLength())
	assert.Equal(t, int64(0), sketch.GetMaximumError())
	assert.Empty(t, sketch.Peek(4))
}

type pointerHasher struct{}

func (pointerHasher) Hash(item *int64) uint64 {
	return common.ItemSketchLongHasher{}.Hash(*item)
}
