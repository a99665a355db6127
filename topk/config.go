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

package topk

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mayconbordin/streaminer-sub001/common"
	"github.com/mayconbordin/streaminer-sub001/frequencies"
	"github.com/mayconbordin/streaminer-sub001/sampling"
)

type Strategy string

const (
	StrategySpaceSaving Strategy = "space_saving"
	StrategyFrequent    Strategy = "frequent"
	StrategyStochastic  Strategy = "stochastic"
)

type HashFunction string

const (
	HashMurmur3 HashFunction = "murmur3"
	HashXXHash  HashFunction = "xxhash"
)

// Config selects and sizes one sketch. Only the parameter of the chosen
// strategy is read: Capacity for space_saving, Epsilon for frequent and
// SampleSize (plus the optional Seed) for stochastic. Hash picks the item
// hasher for frequent when built through NewForStrings or NewForLongs.
type Config struct {
	Strategy     Strategy     `yaml:"strategy"`
	Capacity     int          `yaml:"capacity"`
	Epsilon      float64      `yaml:"epsilon"`
	SampleSize   int          `yaml:"sample_size"`
	Seed         *int64       `yaml:"seed"`
	Hash         HashFunction `yaml:"hash"`
	Synchronized bool         `yaml:"synchronized"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a YAML configuration.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first parameter the chosen sketch would reject.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategySpaceSaving:
		if c.Capacity < 1 {
			return fmt.Errorf("%w: capacity must be at least 1: %d", common.ErrInvalidConfiguration, c.Capacity)
		}
	case StrategyFrequent:
		if !(c.Epsilon > 0 && c.Epsilon <= 1) {
			return fmt.Errorf("%w: epsilon must be in (0, 1]: %v", common.ErrInvalidConfiguration, c.Epsilon)
		}
	case StrategyStochastic:
		if c.SampleSize < 1 {
			return fmt.Errorf("%w: sample size must be at least 1: %d", common.ErrInvalidConfiguration, c.SampleSize)
		}
	default:
		return fmt.Errorf("%w: unknown strategy %q", common.ErrInvalidConfiguration, c.Strategy)
	}
	switch c.Hash {
	case "", HashMurmur3, HashXXHash:
	default:
		return fmt.Errorf("%w: unknown hash %q", common.ErrInvalidConfiguration, c.Hash)
	}
	return nil
}

// New builds the sketch described by cfg. hasher is only used by the frequent
// strategy and may be nil otherwise.
func New[C comparable](cfg *Config, hasher common.ItemSketchHasher[C]) (TopK[C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		sketch TopK[C]
		err    error
	)
	switch cfg.Strategy {
	case StrategySpaceSaving:
		sketch, err = frequencies.NewStreamSummary[C](cfg.Capacity)
	case StrategyFrequent:
		sketch, err = frequencies.NewFrequent[C](cfg.Epsilon, hasher)
	case StrategyStochastic:
		if cfg.Seed != nil {
			sketch, err = sampling.NewStochasticTopperWithSeed[C](cfg.SampleSize, *cfg.Seed)
		} else {
			sketch, err = sampling.NewStochasticTopper[C](cfg.SampleSize)
		}
	}
	if err != nil {
		return nil, err
	}
	if cfg.Synchronized {
		return NewSynchronized(sketch), nil
	}
	return sketch, nil
}

// NewForStrings builds a sketch over string items hashed with cfg.Hash.
func NewForStrings(cfg *Config) (TopK[string], error) {
	var hasher common.ItemSketchHasher[string] = common.ItemSketchStringHasher{}
	if cfg.Hash == HashXXHash {
		hasher = common.ItemSketchStringXXHasher{}
	}
	return New(cfg, hasher)
}

// NewForLongs builds a sketch over int64 items hashed with cfg.Hash.
func NewForLongs(cfg *Config) (TopK[int64], error) {
	var hasher common.ItemSketchHasher[int64] = common.ItemSketchLongHasher{}
	if cfg.Hash == HashXXHash {
		hasher = common.ItemSketchLongXXHasher{}
	}
	return New(cfg, hasher)
}
