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
	"fmt"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/streamnative/placement/coordinator/model"
)

var ErrInvalidSnapshot = errors.New("snapshot: invalid cluster snapshot")

// DiskSize is a number of bytes. In YAML it is either a plain number or a
// human readable size such as "512 GiB".
type DiskSize float64

func (d *DiskSize) UnmarshalYAML(value *yaml.Node) error {
	var number float64
	if err := value.Decode(&number); err == nil {
		*d = DiskSize(number)
		return nil
	}
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}
	bytes, err := humanize.ParseBytes(str)
	if err != nil {
		return errors.Wrapf(err, "line %d: invalid disk size %q", value.Line, str)
	}
	*d = DiskSize(bytes)
	return nil
}

func (d DiskSize) String() string {
	return humanize.IBytes(uint64(d))
}

type Node struct {
	Location      model.NodeLocation `yaml:"location"`
	Resource      model.NodeResource `yaml:"resource"`
	FreeDiskSpace DiskSize           `yaml:"freeDiskSpace"`
}

// Group is an allocated replica group, referencing its members by id.
type Group struct {
	GroupID model.GroupID  `yaml:"groupId"`
	Nodes   []model.NodeID `yaml:"nodes"`
}

// Snapshot is the view of the cluster a placement decision is taken on:
// the available nodes and the groups already allocated.
type Snapshot struct {
	Nodes                   []Node  `yaml:"nodes"`
	AllocatedGroups         []Group `yaml:"allocatedGroups"`
	DatabaseAllocatedGroups []Group `yaml:"databaseAllocatedGroups"`
}

func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open snapshot %s", path)
	}
	defer f.Close()

	s := &Snapshot{}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil {
		return nil, errors.Wrapf(err, "failed to decode snapshot %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) Validate() error {
	var err error
	seen := map[model.NodeID]bool{}
	for _, node := range s.Nodes {
		id := node.Location.NodeID
		if id < 1 {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidSnapshot, "node id must be positive, got %d", id))
		} else if seen[id] {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidSnapshot, "duplicate node %d", id))
		}
		if node.FreeDiskSpace < 0 {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidSnapshot, "node %d has negative free disk space", id))
		}
		seen[id] = true
	}
	for _, groups := range [][]Group{s.AllocatedGroups, s.DatabaseAllocatedGroups} {
		for _, group := range groups {
			members := map[model.NodeID]bool{}
			for _, id := range group.Nodes {
				if members[id] {
					err = multierr.Append(err, errors.Wrapf(ErrInvalidSnapshot, "group %s holds node %d twice", group.GroupID, id))
				}
				members[id] = true
			}
		}
	}
	return err
}

// Request builds the allocation request for a new group. Members of the
// allocated groups that are no longer available keep only their id.
func (s *Snapshot) Request(replicationFactor int, groupID model.GroupID) *model.AllocationRequest {
	request := &model.AllocationRequest{
		AvailableNodes:    make(map[model.NodeID]model.NodeConfiguration, len(s.Nodes)),
		FreeDiskSpace:     make(map[model.NodeID]float64, len(s.Nodes)),
		ReplicationFactor: replicationFactor,
		GroupID:           groupID,
	}
	for _, node := range s.Nodes {
		request.AvailableNodes[node.Location.NodeID] = model.NodeConfiguration{
			Location: node.Location,
			Resource: node.Resource,
		}
		request.FreeDiskSpace[node.Location.NodeID] = float64(node.FreeDiskSpace)
	}
	request.AllocatedGroups = s.resolve(request, s.AllocatedGroups)
	request.DatabaseAllocatedGroups = s.resolve(request, s.DatabaseAllocatedGroups)
	return request
}

func (*Snapshot) resolve(request *model.AllocationRequest, groups []Group) []model.RegionReplicaSet {
	res := make([]model.RegionReplicaSet, 0, len(groups))
	for _, group := range groups {
		rs := model.RegionReplicaSet{GroupID: group.GroupID}
		for _, id := range group.Nodes {
			location := model.NodeLocation{NodeID: id}
			if node, found := request.AvailableNodes[id]; found {
				location = node.Location
			}
			rs.Locations = append(rs.Locations, location)
		}
		res = append(res, rs)
	}
	return res
}

// NewSnapshot describes a cluster of nodeCount identical nodes without any
// allocated group.
func NewSnapshot(nodeCount int, freeDiskSpace DiskSize) *Snapshot {
	s := &Snapshot{}
	for id := 1; id <= nodeCount; id++ {
		s.Nodes = append(s.Nodes, Node{
			Location:      defaultLocation(model.NodeID(id)),
			FreeDiskSpace: freeDiskSpace,
		})
	}
	return s
}

// Add records a decision as an allocated group.
func (s *Snapshot) Add(replicaSet *model.RegionReplicaSet) {
	s.AllocatedGroups = append(s.AllocatedGroups, Group{
		GroupID: replicaSet.GroupID,
		Nodes:   replicaSet.NodeIDs(),
	})
}

// Consume charges size bytes of disk to every given node.
func (s *Snapshot) Consume(ids []model.NodeID, size DiskSize) {
	for idx := range s.Nodes {
		node := &s.Nodes[idx]
		if !slices.Contains(ids, node.Location.NodeID) {
			continue
		}
		node.FreeDiskSpace = max(node.FreeDiskSpace-size, 0)
	}
}

func (s *Snapshot) NodeIDs() []model.NodeID {
	ids := make([]model.NodeID, len(s.Nodes))
	for idx, node := range s.Nodes {
		ids[idx] = node.Location.NodeID
	}
	return ids
}

// MaxNodeID is the node count a universe covering every node of the
// snapshot must be built with.
func (s *Snapshot) MaxNodeID() model.NodeID {
	var highest model.NodeID
	for _, node := range s.Nodes {
		highest = max(highest, node.Location.NodeID)
	}
	return highest
}

func defaultLocation(id model.NodeID) model.NodeLocation {
	host := fmt.Sprintf("node-%d", id)
	return model.NodeLocation{
		NodeID:                  id,
		ClientRPCEndpoint:       host + ":6667",
		InternalEndpoint:        host + ":10730",
		DataConsensusEndpoint:   host + ":10760",
		SchemaConsensusEndpoint: host + ":10750",
	}
}
