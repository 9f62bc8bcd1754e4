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

package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/streamnative/placement/coordinator/model"
)

func TestNewAllocator_Strategies(t *testing.T) {
	for _, strategy := range []model.StrategyName{"", model.CopySet, model.Greedy, model.CapacityAware} {
		t.Run(string(strategy), func(t *testing.T) {
			a, err := NewAllocator(newConfig(strategy, 6, 3, 2))
			require.NoError(t, err)
			defer a.Close()

			expected := strategy
			if expected == "" {
				expected = model.CopySet
			}
			assert.Equal(t, expected, a.Strategy())
			assert.IsType(t, &instrumentedAllocator{}, a)

			replicaSet, err := a.Allocate(newRequest(6, 3, 1))
			require.NoError(t, err)
			assert.Len(t, replicaSet.NodeIDs(), 3)

			if expected == model.CopySet {
				assert.NotNil(t, UniverseOf(a))
			} else {
				assert.Nil(t, UniverseOf(a))
			}
		})
	}
}

func TestNewAllocator_InvalidConfig(t *testing.T) {
	_, err := NewAllocator(newConfig("round-robin", 6, 3, 2))
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	config := newConfig(model.CopySet, 0, 0, 0)
	config.TieBreak = "first"
	_, err = NewAllocator(config)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
	assert.Len(t, multierr.Errors(err), 4)
}

func TestNewAllocator_ReservoirTieBreak(t *testing.T) {
	config := newConfig(model.CopySet, 4, 2, 2)
	config.TieBreak = model.Reservoir
	a, err := NewAllocator(config)
	require.NoError(t, err)
	defer a.Close()

	replicaSet, err := a.Allocate(newRequest(4, 2, 1, group(1, 1, 2)))
	require.NoError(t, err)
	assert.True(t, replicaSet.Contains(3) || replicaSet.Contains(4))
}
