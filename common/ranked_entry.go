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
	"fmt"
	"slices"
)

// RankedEntry is an immutable snapshot of an item and its estimated frequency,
// as returned by the Peek method of every top-k sketch.
type RankedEntry[C comparable] struct {
	Item      C
	Frequency int64
}

func (e RankedEntry[C]) String() string {
	return fmt.Sprintf("%v:%d", e.Item, e.Frequency)
}

// CompareRankedEntries orders entries by descending frequency.
func CompareRankedEntries[C comparable](a, b RankedEntry[C]) int {
	if a.Frequency > b.Frequency {
		return -1
	}
	if a.Frequency < b.Frequency {
		return 1
	}
	return 0
}

// SortRankedEntries sorts entries in place by descending frequency.
// The relative order of entries with equal frequency is preserved.
func SortRankedEntries[C comparable](entries []RankedEntry[C]) {
	slices.SortStableFunc(entries, CompareRankedEntries[C])
}
