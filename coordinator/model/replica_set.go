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

import "fmt"

type ConsensusGroupType string

const (
	DataRegion   ConsensusGroupType = "DataRegion"
	SchemaRegion ConsensusGroupType = "SchemaRegion"
)

// GroupID is the opaque identifier of a region replica group. The engine
// only stamps it onto decisions and uses it to salt per-call randomness.
type GroupID struct {
	Type ConsensusGroupType `json:"type" yaml:"type"`
	ID   int32              `json:"id" yaml:"id"`
}

func (g GroupID) String() string {
	return fmt.Sprintf("%s-%d", g.Type, g.ID)
}

// RegionReplicaSet is a replica group with every member resolved to its
// location. A freshly allocated one is the placement decision handed back
// to the caller.
type RegionReplicaSet struct {
	GroupID   GroupID        `json:"groupId" yaml:"groupId"`
	Locations []NodeLocation `json:"locations" yaml:"locations"`
}

func (rs *RegionReplicaSet) NodeIDs() []NodeID {
	ids := make([]NodeID, len(rs.Locations))
	for idx, location := range rs.Locations {
		ids[idx] = location.NodeID
	}
	return ids
}

func (rs *RegionReplicaSet) Contains(id NodeID) bool {
	for _, location := range rs.Locations {
		if location.NodeID == id {
			return true
		}
	}
	return false
}

func (rs *RegionReplicaSet) Clone() *RegionReplicaSet {
	r := &RegionReplicaSet{
		GroupID:   rs.GroupID,
		Locations: make([]NodeLocation, len(rs.Locations)),
	}
	copy(r.Locations, rs.Locations)
	return r
}
