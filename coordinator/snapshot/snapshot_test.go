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

package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/streamnative/placement/coordinator/model"
)

func TestLoad(t *testing.T) {
	s, err := Load("testdata/cluster.yaml")
	require.NoError(t, err)

	require.Len(t, s.Nodes, 3)
	assert.EqualValues(t, 512<<30, s.Nodes[0].FreeDiskSpace)
	assert.EqualValues(t, 1<<40, s.Nodes[1].FreeDiskSpace)
	assert.EqualValues(t, 1<<40, s.Nodes[2].FreeDiskSpace)
	assert.Equal(t, "1.0 TiB", s.Nodes[1].FreeDiskSpace.String())
	assert.Equal(t, "node-3:10760", s.Nodes[2].Location.DataConsensusEndpoint)
	assert.Equal(t, 8, s.Nodes[2].Resource.CPUCores)

	require.Len(t, s.AllocatedGroups, 1)
	assert.Equal(t, model.GroupID{Type: model.DataRegion, ID: 1}, s.AllocatedGroups[0].GroupID)
	assert.Equal(t, []model.NodeID{1, 2}, s.AllocatedGroups[0].Nodes)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)

	dir := t.TempDir()
	unknownField := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknownField, []byte("servers: []\n"), 0o600))
	_, err = Load(unknownField)
	assert.Error(t, err)

	badSize := filepath.Join(dir, "size.yaml")
	require.NoError(t, os.WriteFile(badSize, []byte("nodes:\n  - location: {nodeId: 1}\n    freeDiskSpace: lots\n"), 0o600))
	_, err = Load(badSize)
	assert.ErrorContains(t, err, "invalid disk size")
}

func TestValidate(t *testing.T) {
	s := &Snapshot{
		Nodes: []Node{
			{Location: model.NodeLocation{NodeID: 1}},
			{Location: model.NodeLocation{NodeID: 1}},
			{Location: model.NodeLocation{NodeID: 0}},
			{Location: model.NodeLocation{NodeID: 2}, FreeDiskSpace: -1},
		},
		AllocatedGroups: []Group{{Nodes: []model.NodeID{1, 1}}},
	}
	err := s.Validate()
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.Len(t, multierr.Errors(err), 4)

	assert.NoError(t, NewSnapshot(3, 100).Validate())
}

func TestRequest(t *testing.T) {
	s, err := Load("testdata/cluster.yaml")
	require.NoError(t, err)
	s.AllocatedGroups = append(s.AllocatedGroups, Group{
		GroupID: model.GroupID{Type: model.SchemaRegion, ID: 4},
		Nodes:   []model.NodeID{3, 9},
	})

	groupID := model.GroupID{Type: model.DataRegion, ID: 2}
	request := s.Request(2, groupID)

	assert.Equal(t, 2, request.ReplicationFactor)
	assert.Equal(t, groupID, request.GroupID)
	assert.Len(t, request.AvailableNodes, 3)
	assert.Equal(t, "node-2:10730", request.AvailableNodes[2].Location.InternalEndpoint)
	assert.EqualValues(t, 512<<30, request.FreeDiskSpaceOf(1))

	require.Len(t, request.AllocatedGroups, 2)
	assert.Equal(t, s.Nodes[0].Location, request.AllocatedGroups[0].Locations[0])
	assert.Equal(t, []model.NodeID{3, 9}, request.AllocatedGroups[1].NodeIDs())
	assert.Equal(t, model.NodeLocation{NodeID: 9}, request.AllocatedGroups[1].Locations[1])
	assert.Len(t, request.DatabaseAllocatedGroups, 1)
}

func TestNewSnapshotAndAdd(t *testing.T) {
	s := NewSnapshot(4, 1<<30)
	require.Len(t, s.Nodes, 4)
	assert.Equal(t, "node-4:6667", s.Nodes[3].Location.ClientRPCEndpoint)

	s.Add(&model.RegionReplicaSet{
		GroupID:   model.GroupID{Type: model.DataRegion, ID: 7},
		Locations: []model.NodeLocation{{NodeID: 2}, {NodeID: 4}},
	})
	require.Len(t, s.AllocatedGroups, 1)
	assert.Equal(t, []model.NodeID{2, 4}, s.AllocatedGroups[0].Nodes)
	assert.Equal(t, int32(7), s.AllocatedGroups[0].GroupID.ID)
}

func TestConsume(t *testing.T) {
	s := NewSnapshot(3, 100)
	s.Consume([]model.NodeID{1, 3}, 30)
	s.Consume([]model.NodeID{3}, 80)

	assert.EqualValues(t, 70, s.Nodes[0].FreeDiskSpace)
	assert.EqualValues(t, 100, s.Nodes[1].FreeDiskSpace)
	assert.EqualValues(t, 0, s.Nodes[2].FreeDiskSpace)
}

func TestNodeIDs(t *testing.T) {
	s, err := Load("testdata/cluster.yaml")
	require.NoError(t, err)
	s.Nodes[1].Location.NodeID = 8

	assert.Equal(t, []model.NodeID{1, 8, 3}, s.NodeIDs())
	assert.Equal(t, model.NodeID(8), s.MaxNodeID())
	assert.Equal(t, model.NodeID(0), (&Snapshot{}).MaxNodeID())
}
