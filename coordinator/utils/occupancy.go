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

package utils

import (
	"github.com/emirpasic/gods/maps/treemap"

	"github.com/streamnative/placement/coordinator/model"
)

// Occupancy is the number of replicas hosted by each node, iterated in
// increasing node id order.
type Occupancy struct {
	// model.NodeID -> int
	counts *treemap.Map
}

// CountOccupancy counts one replica for every member of every group. Nodes
// in [1, nodeCount] start at zero so that idle nodes are present. Members
// outside that range are counted as well.
func CountOccupancy(nodeCount int, groups []model.RegionReplicaSet) *Occupancy {
	counts := treemap.NewWith(model.NodeIDComparator)
	for id := model.NodeID(1); int(id) <= nodeCount; id++ {
		counts.Put(id, 0)
	}
	for _, group := range groups {
		for _, location := range group.Locations {
			count := 0
			if v, found := counts.Get(location.NodeID); found {
				count = v.(int) //nolint:revive
			}
			counts.Put(location.NodeID, count+1)
		}
	}
	return &Occupancy{counts: counts}
}

// CountOccupancyOf counts the replicas of the given nodes only.
func CountOccupancyOf(nodes []model.NodeID, groups []model.RegionReplicaSet) *Occupancy {
	counts := treemap.NewWith(model.NodeIDComparator)
	for _, id := range nodes {
		counts.Put(id, 0)
	}
	for _, group := range groups {
		for _, location := range group.Locations {
			if v, found := counts.Get(location.NodeID); found {
				counts.Put(location.NodeID, v.(int)+1) //nolint:revive
			}
		}
	}
	return &Occupancy{counts: counts}
}

func (o *Occupancy) Get(id model.NodeID) int {
	if v, found := o.counts.Get(id); found {
		return v.(int) //nolint:revive
	}
	return 0
}

func (o *Occupancy) Size() int {
	return o.counts.Size()
}

// Each visits the nodes in increasing id order.
func (o *Occupancy) Each(f func(id model.NodeID, count int)) {
	for iter := o.counts.Iterator(); iter.Next(); {
		f(iter.Key().(model.NodeID), iter.Value().(int)) //nolint:revive
	}
}

// Spread returns the lowest and highest counts.
func (o *Occupancy) Spread() (lowest int, highest int) {
	first := true
	o.Each(func(_ model.NodeID, count int) {
		if first {
			lowest, highest = count, count
			first = false
			return
		}
		lowest = min(lowest, count)
		highest = max(highest, count)
	})
	return lowest, highest
}
