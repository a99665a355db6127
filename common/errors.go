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

import "errors"

var (
	// ErrInvalidConfiguration is returned by constructors given an out of range parameter.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrOverflow is returned when a running counter would exceed the int64 range.
	ErrOverflow = errors.New("counter overflow")
	// ErrNilItem is returned when a nil pointer, interface, map, slice, chan or func item is offered.
	ErrNilItem = errors.New("item may not be nil")
	// ErrInvalidWeight is returned for negative weights.
	ErrInvalidWeight = errors.New("weight may not be negative")
)
