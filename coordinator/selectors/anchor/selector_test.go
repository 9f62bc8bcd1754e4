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

package anchor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/selectors"
	"github.com/streamnative/placement/coordinator/utils"
)

func group(nodes ...model.NodeID) model.RegionReplicaSet {
	rs := model.RegionReplicaSet{}
	for _, n := range nodes {
		rs.Locations = append(rs.Locations, model.NodeLocation{NodeID: n})
	}
	return rs
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestSelect_StrictMinimumIsDeterministic(t *testing.T) {
	occupancy := utils.CountOccupancy(3, []model.RegionReplicaSet{group(1, 2)})
	for _, policy := range []model.TieBreakPolicy{model.CoinFlip, model.Reservoir} {
		selector, err := NewSelector(policy)
		require.NoError(t, err)
		for seed := uint64(0); seed < 100; seed++ {
			anchor, err := selector.Select(&Context{Occupancy: occupancy, Rand: newRand(seed)})
			assert.NoError(t, err)
			assert.EqualValues(t, 3, anchor)
		}
	}
}

func TestSelect_AlwaysMinimal(t *testing.T) {
	r := newRand(11)
	for _, policy := range []model.TieBreakPolicy{model.CoinFlip, model.Reservoir} {
		selector, err := NewSelector(policy)
		require.NoError(t, err)
		for trial := 0; trial < 200; trial++ {
			var groups []model.RegionReplicaSet
			n := r.IntN(30)
			for i := 0; i < n; i++ {
				groups = append(groups, group(model.NodeID(1+r.IntN(8)), model.NodeID(1+r.IntN(8))))
			}
			occupancy := utils.CountOccupancy(8, groups)
			lowest, _ := occupancy.Spread()

			anchor, err := selector.Select(&Context{Occupancy: occupancy, Rand: r})
			assert.NoError(t, err)
			assert.Equal(t, lowest, occupancy.Get(anchor))
		}
	}
}

func TestSelect_NoCandidates(t *testing.T) {
	for _, policy := range []model.TieBreakPolicy{model.CoinFlip, model.Reservoir} {
		selector, err := NewSelector(policy)
		require.NoError(t, err)

		_, err = selector.Select(&Context{Occupancy: utils.CountOccupancy(0, nil), Rand: newRand(0)})
		assert.ErrorIs(t, err, selectors.ErrNoCandidates)

		_, err = selector.Select(&Context{Rand: newRand(0)})
		assert.ErrorIs(t, err, selectors.ErrNoCandidates)
	}
}

func TestSelect_SameSeedSameAnchor(t *testing.T) {
	occupancy := utils.CountOccupancy(16, nil)
	for _, policy := range []model.TieBreakPolicy{model.CoinFlip, model.Reservoir} {
		selector, err := NewSelector(policy)
		require.NoError(t, err)
		for seed := uint64(0); seed < 20; seed++ {
			a1, err := selector.Select(&Context{Occupancy: occupancy, Rand: newRand(seed)})
			require.NoError(t, err)
			a2, err := selector.Select(&Context{Occupancy: occupancy, Rand: newRand(seed)})
			require.NoError(t, err)
			assert.Equal(t, a1, a2)
		}
	}
}

func distribution(t *testing.T, policy model.TieBreakPolicy, trials int) map[model.NodeID]int {
	t.Helper()
	selector, err := NewSelector(policy)
	require.NoError(t, err)

	occupancy := utils.CountOccupancy(4, nil)
	r := newRand(2024)
	res := map[model.NodeID]int{}
	for i := 0; i < trials; i++ {
		anchor, err := selector.Select(&Context{Occupancy: occupancy, Rand: r})
		require.NoError(t, err)
		res[anchor]++
	}
	return res
}

// With four tied nodes the coin flip keeps node 4 half of the time, node 3 a
// quarter of the time and nodes 1 and 2 an eighth each.
func TestCoinFlip_FavorsLaterTiedNodes(t *testing.T) {
	trials := 16_000
	res := distribution(t, model.CoinFlip, trials)

	assert.InDelta(t, trials/2, res[4], float64(trials)/20)
	assert.InDelta(t, trials/4, res[3], float64(trials)/20)
	assert.InDelta(t, trials/8, res[2], float64(trials)/20)
	assert.InDelta(t, trials/8, res[1], float64(trials)/20)
}

func TestReservoir_UniformAmongTiedNodes(t *testing.T) {
	trials := 16_000
	res := distribution(t, model.Reservoir, trials)

	for id := model.NodeID(1); id <= 4; id++ {
		assert.InDelta(t, trials/4, res[id], float64(trials)/20, "node %d", id)
	}
}

func TestNewSelector(t *testing.T) {
	s, err := NewSelector("")
	assert.NoError(t, err)
	assert.IsType(t, &coinFlipSelector{}, s)

	s, err = NewSelector(model.Reservoir)
	assert.NoError(t, err)
	assert.IsType(t, &reservoirSelector{}, s)

	_, err = NewSelector("round-robin")
	assert.ErrorIs(t, err, selectors.ErrUnsupportedTieBreak)
}
