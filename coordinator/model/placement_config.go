// Copyright 2025 StreamNative, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	DefaultLoadFactor = 10
	DefaultMaxRounds  = 0
)

type StrategyName string

const (
	// CopySet places every new group on one of the copy sets precomputed
	// for the least loaded node.
	CopySet StrategyName = "copy-set"

	// Greedy picks the least loaded available nodes.
	Greedy StrategyName = "greedy"

	// CapacityAware picks the available nodes with the most free disk space.
	CapacityAware StrategyName = "capacity-aware"
)

var strategies = []StrategyName{CopySet, Greedy, CapacityAware}

func (s *StrategyName) String() string {
	return string(*s)
}

func (s *StrategyName) Set(str string) error {
	for _, strategy := range strategies {
		if string(strategy) == str {
			*s = strategy
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidConfig, "unknown strategy %q, must be one of %v", str, strategies)
}

func (*StrategyName) Type() string {
	return "strategy"
}

type TieBreakPolicy string

const (
	// CoinFlip overwrites the current anchor with a fresh 50/50 draw on every
	// tie, scanning node ids in increasing order. Later ids among the tied
	// nodes are favored.
	CoinFlip TieBreakPolicy = "coin-flip"

	// Reservoir picks uniformly among all the tied nodes.
	Reservoir TieBreakPolicy = "reservoir"
)

func (t *TieBreakPolicy) String() string {
	return string(*t)
}

func (t *TieBreakPolicy) Set(str string) error {
	switch TieBreakPolicy(str) {
	case CoinFlip, Reservoir:
		*t = TieBreakPolicy(str)
		return nil
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown tie-break policy %q, must be %q or %q", str, CoinFlip, Reservoir)
	}
}

func (*TieBreakPolicy) Type() string {
	return "tie-break"
}

// PlacementConfig holds the construction parameters of an allocator.
type PlacementConfig struct {
	Strategy          StrategyName `json:"strategy" yaml:"strategy"`
	NodeCount         int          `json:"nodeCount" yaml:"nodeCount"`
	ReplicationFactor int          `json:"replicationFactor" yaml:"replicationFactor"`

	// LoadFactor is the minimum number of scatter rounds run when building
	// the copy sets.
	LoadFactor int `json:"loadFactor" yaml:"loadFactor"`

	// MaxRounds bounds the rounds spent reaching full coverage. Zero leaves
	// the build unbounded.
	MaxRounds int `json:"maxRounds" yaml:"maxRounds"`

	TieBreak TieBreakPolicy `json:"tieBreak" yaml:"tieBreak"`

	// Seed makes every random draw reproducible when set.
	Seed *uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

func NewPlacementConfig() PlacementConfig {
	return PlacementConfig{
		Strategy:   CopySet,
		LoadFactor: DefaultLoadFactor,
		MaxRounds:  DefaultMaxRounds,
		TieBreak:   CoinFlip,
	}
}

// Validate reports every violated constraint at once. All the returned
// errors match ErrInvalidConfig.
func (c *PlacementConfig) Validate() error {
	var err error
	if c.NodeCount < 1 {
		err = multierr.Append(err, invalidConfig("node count must be positive, got %d", c.NodeCount))
	}
	if c.ReplicationFactor < 1 {
		err = multierr.Append(err, invalidConfig("replication factor must be positive, got %d", c.ReplicationFactor))
	} else if c.NodeCount >= 1 && c.ReplicationFactor > c.NodeCount {
		err = multierr.Append(err, invalidConfig("replication factor %d exceeds node count %d",
			c.ReplicationFactor, c.NodeCount))
	}
	if (c.Strategy == "" || c.Strategy == CopySet) && c.LoadFactor < 1 {
		err = multierr.Append(err, invalidConfig("load factor must be positive, got %d", c.LoadFactor))
	}
	if c.MaxRounds < 0 {
		err = multierr.Append(err, invalidConfig("max rounds must not be negative, got %d", c.MaxRounds))
	} else if c.MaxRounds > 0 && c.MaxRounds < c.LoadFactor {
		err = multierr.Append(err, invalidConfig("max rounds %d is lower than load factor %d", c.MaxRounds, c.LoadFactor))
	}
	if c.Strategy != "" {
		s := c.Strategy
		err = multierr.Append(err, s.Set(string(c.Strategy)))
	}
	if c.TieBreak != "" {
		t := c.TieBreak
		err = multierr.Append(err, t.Set(string(c.TieBreak)))
	}
	return err
}

func invalidConfig(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}

// PlacementConfigViperHook validates strategy and tie-break names while a
// config file is decoded.
func PlacementConfigViperHook() mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		str, ok := data.(string)
		if !ok {
			return data, nil
		}

		switch t {
		case reflect.TypeOf(StrategyName("")):
			var strategy StrategyName
			if err := strategy.Set(str); err != nil {
				return nil, err
			}
			return strategy, nil
		case reflect.TypeOf(TieBreakPolicy("")):
			var policy TieBreakPolicy
			if err := policy.Set(str); err != nil {
				return nil, err
			}
			return policy, nil
		}
		return data, nil
	}
}
