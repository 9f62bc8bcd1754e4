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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/multierr"
)

func TestPlacementConfig_Validate(t *testing.T) {
	for _, test := range []struct {
		name   string
		modify func(c *PlacementConfig)
		errors int
	}{
		{"valid", func(*PlacementConfig) {}, 0},
		{"replication factor equals node count", func(c *PlacementConfig) { c.ReplicationFactor = 5 }, 0},
		{"no nodes", func(c *PlacementConfig) { c.NodeCount = 0 }, 1},
		{"replication factor too high", func(c *PlacementConfig) { c.ReplicationFactor = 6 }, 1},
		{"zero replication factor", func(c *PlacementConfig) { c.ReplicationFactor = 0 }, 1},
		{"zero load factor", func(c *PlacementConfig) { c.LoadFactor = 0 }, 1},
		{"zero load factor for greedy", func(c *PlacementConfig) {
			c.Strategy = Greedy
			c.LoadFactor = 0
		}, 0},
		{"negative max rounds", func(c *PlacementConfig) { c.MaxRounds = -1 }, 1},
		{"max rounds below load factor", func(c *PlacementConfig) { c.MaxRounds = 3 }, 1},
		{"max rounds equal to load factor", func(c *PlacementConfig) { c.MaxRounds = DefaultLoadFactor }, 0},
		{"unknown strategy", func(c *PlacementConfig) { c.Strategy = "random" }, 1},
		{"unknown tie-break", func(c *PlacementConfig) { c.TieBreak = "first" }, 1},
		{"everything wrong", func(c *PlacementConfig) {
			c.NodeCount = 0
			c.ReplicationFactor = 0
			c.LoadFactor = 0
			c.MaxRounds = -2
			c.TieBreak = "last"
		}, 5},
	} {
		t.Run(test.name, func(t *testing.T) {
			c := NewPlacementConfig()
			c.NodeCount = 5
			c.ReplicationFactor = 3
			test.modify(&c)

			err := c.Validate()
			if test.errors == 0 {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Len(t, multierr.Errors(err), test.errors)
		})
	}
}

func TestStrategyName_Set(t *testing.T) {
	var s StrategyName
	assert.NoError(t, s.Set("capacity-aware"))
	assert.Equal(t, CapacityAware, s)
	assert.Equal(t, "capacity-aware", s.String())

	assert.ErrorIs(t, s.Set("copyset"), ErrInvalidConfig)
	assert.Equal(t, CapacityAware, s)
}

func TestTieBreakPolicy_Set(t *testing.T) {
	var p TieBreakPolicy
	assert.NoError(t, p.Set("reservoir"))
	assert.Equal(t, Reservoir, p)
	assert.ErrorIs(t, p.Set("uniform"), ErrInvalidConfig)
}

func TestPlacementConfigViperHook(t *testing.T) {
	hook := PlacementConfigViperHook()
	str := reflect.TypeOf("")

	res, err := hook(str, reflect.TypeOf(StrategyName("")), "greedy")
	assert.NoError(t, err)
	assert.Equal(t, Greedy, res)

	res, err = hook(str, reflect.TypeOf(TieBreakPolicy("")), "coin-flip")
	assert.NoError(t, err)
	assert.Equal(t, CoinFlip, res)

	_, err = hook(str, reflect.TypeOf(StrategyName("")), "best")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	res, err = hook(str, reflect.TypeOf(""), "greedy")
	assert.NoError(t, err)
	assert.Equal(t, "greedy", res)

	res, err = hook(reflect.TypeOf(0), reflect.TypeOf(0), 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, res)
}
