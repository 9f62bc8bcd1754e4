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
	"io"

	"github.com/pkg/errors"

	"github.com/streamnative/placement/common/random"
	"github.com/streamnative/placement/coordinator/model"
)

// Allocator decides which nodes host the replicas of a new region group.
//
// Every strategy consumes the same request and returns the same kind of
// decision. Allocate never mutates shared state, so it may be called
// concurrently; callers are expected to serialize against the source of the
// allocated groups so that every request holds a consistent snapshot.
type Allocator interface {
	io.Closer

	Allocate(request *model.AllocationRequest) (*model.RegionReplicaSet, error)

	Strategy() model.StrategyName
}

// NewAllocator builds the strategy named by the configuration.
func NewAllocator(config model.PlacementConfig) (Allocator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	randomFactory := random.NewFactory(config.Seed)

	var allocator Allocator
	var err error
	switch config.Strategy {
	case model.CopySet, "":
		allocator, err = newCopySetAllocator(config, randomFactory)
	case model.Greedy:
		allocator = newGreedyAllocator(config)
	case model.CapacityAware:
		allocator = newCapacityAllocator(config)
	default:
		err = errors.Wrapf(model.ErrInvalidConfig, "unknown strategy %q", config.Strategy)
	}
	if err != nil {
		return nil, err
	}
	return newInstrumentedAllocator(allocator), nil
}

func checkReplicationFactor(config model.PlacementConfig, request *model.AllocationRequest) error {
	if request.ReplicationFactor != config.ReplicationFactor {
		return errors.Wrapf(model.ErrInvalidConfig, "replication factor %d of group %s does not match the configured %d",
			request.ReplicationFactor, request.GroupID, config.ReplicationFactor)
	}
	return nil
}
