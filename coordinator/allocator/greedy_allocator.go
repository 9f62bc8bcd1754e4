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
	"github.com/streamnative/placement/coordinator/model"
)

var _ Allocator = &greedyAllocator{}

// greedyAllocator places the group on the available nodes hosting the fewest
// replicas, preferring more free disk space and then lower ids on ties.
type greedyAllocator struct {
	config model.PlacementConfig
}

func newGreedyAllocator(config model.PlacementConfig) *greedyAllocator {
	return &greedyAllocator{config: config}
}

func (a *greedyAllocator) Allocate(request *model.AllocationRequest) (*model.RegionReplicaSet, error) {
	if err := checkReplicationFactor(a.config, request); err != nil {
		return nil, err
	}
	ids, err := rankCandidates(request, chain(fewerRegionsFirst, moreFreeDiskFirst, candidateIDComparator))
	if err != nil {
		return nil, err
	}
	locations, err := request.Resolve(ids)
	if err != nil {
		return nil, err
	}
	return &model.RegionReplicaSet{GroupID: request.GroupID, Locations: locations}, nil
}

func (*greedyAllocator) Strategy() model.StrategyName {
	return model.Greedy
}

func (*greedyAllocator) Close() error {
	return nil
}
