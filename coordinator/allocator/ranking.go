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
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"

	"github.com/streamnative/placement/coordinator/model"
	coordutils "github.com/streamnative/placement/coordinator/utils"
)

type candidate struct {
	id              model.NodeID
	regions         int
	databaseRegions int
	freeDiskSpace   float64
}

func candidateIDComparator(a, b *candidate) int {
	return model.NodeIDComparator(a.id, b.id)
}

// rankCandidates orders the available nodes with the comparator and returns
// the first replicationFactor of them.
func rankCandidates(request *model.AllocationRequest, comparator func(a, b *candidate) int) ([]model.NodeID, error) {
	if request.ReplicationFactor < 1 {
		return nil, errors.Wrapf(model.ErrInvalidConfig, "replication factor must be positive, got %d", request.ReplicationFactor)
	}
	if len(request.AvailableNodes) < request.ReplicationFactor {
		return nil, errors.Wrapf(model.ErrInconsistentInput, "%d available nodes cannot host %d replicas",
			len(request.AvailableNodes), request.ReplicationFactor)
	}

	nodes := make([]model.NodeID, 0, len(request.AvailableNodes))
	for id := range request.AvailableNodes {
		nodes = append(nodes, id)
	}
	regions := coordutils.CountOccupancyOf(nodes, request.AllocatedGroups)
	databaseRegions := coordutils.CountOccupancyOf(nodes, request.DatabaseAllocatedGroups)

	queue := priorityqueue.NewWith(func(a, b any) int {
		return comparator(a.(*candidate), b.(*candidate)) //nolint:revive
	})
	for _, id := range nodes {
		queue.Enqueue(&candidate{
			id:              id,
			regions:         regions.Get(id),
			databaseRegions: databaseRegions.Get(id),
			freeDiskSpace:   request.FreeDiskSpaceOf(id),
		})
	}

	res := make([]model.NodeID, 0, request.ReplicationFactor)
	for len(res) < request.ReplicationFactor {
		v, _ := queue.Dequeue()
		res = append(res, v.(*candidate).id) //nolint:revive
	}
	return res, nil
}

// fewerRegionsFirst orders by global then per-database replica count.
func fewerRegionsFirst(a, b *candidate) int {
	if c := utils.IntComparator(a.regions, b.regions); c != 0 {
		return c
	}
	return utils.IntComparator(a.databaseRegions, b.databaseRegions)
}

func moreFreeDiskFirst(a, b *candidate) int {
	return -utils.Float64Comparator(a.freeDiskSpace, b.freeDiskSpace)
}

func chain(comparators ...func(a, b *candidate) int) func(a, b *candidate) int {
	return func(a, b *candidate) int {
		for _, c := range comparators {
			if res := c(a, b); res != 0 {
				return res
			}
		}
		return 0
	}
}
