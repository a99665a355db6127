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

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/internal"
)

const (
	// maxCapacity bounds every fixed-size table so allocation stays addressable by int32 handles.
	maxCapacity = 1 << 30
)

// checkOffer validates an item and weight. A zero weight is reported as a no-op.
func checkOffer[C comparable](item C, weight int64) (bool, error) {
	if internal.IsNil(item) {
		return false, common.ErrNilItem
	}
	if weight < 0 {
		return false, fmt.Errorf("%w: %d", common.ErrInvalidWeight, weight)
	}
	return weight > 0, nil
}

func peekLimit(k, size int) int {
	if k <= 0 {
		return 0
	}
	return min(k, size)
}
