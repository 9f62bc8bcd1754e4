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

import "github.com/pkg/errors"

// AllocationRequest carries the inputs of one placement decision. It is a
// snapshot: the engine reads it and never retains it.
type AllocationRequest struct {
	AvailableNodes map[NodeID]NodeConfiguration
	FreeDiskSpace  map[NodeID]float64

	// AllocatedGroups are all the replica groups already placed in the
	// cluster, used for occupancy accounting.
	AllocatedGroups []RegionReplicaSet

	// DatabaseAllocatedGroups are the groups already placed for the same
	// database as the new group.
	DatabaseAllocatedGroups []RegionReplicaSet

	ReplicationFactor int
	GroupID           GroupID
}

// Resolve maps node ids to their current locations, failing when any of them
// is not available.
func (r *AllocationRequest) Resolve(ids []NodeID) ([]NodeLocation, error) {
	locations := make([]NodeLocation, 0, len(ids))
	for _, id := range ids {
		node, found := r.AvailableNodes[id]
		if !found {
			return nil, errors.Wrapf(ErrInconsistentInput, "no location descriptor for node %d", id)
		}
		locations = append(locations, node.Location)
	}
	return locations, nil
}

func (r *AllocationRequest) FreeDiskSpaceOf(id NodeID) float64 {
	if r.FreeDiskSpace == nil {
		return 0
	}
	return r.FreeDiskSpace[id]
}
