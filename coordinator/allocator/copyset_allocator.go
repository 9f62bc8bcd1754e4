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
	"log/slog"

	"github.com/pkg/errors"

	"github.com/streamnative/placement/common/metric"
	"github.com/streamnative/placement/common/random"
	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/placement"
	"github.com/streamnative/placement/coordinator/selectors"
	"github.com/streamnative/placement/coordinator/selectors/anchor"
	"github.com/streamnative/placement/coordinator/utils"
)

const universeSalt = "universe"

var _ Allocator = &copySetAllocator{}

// copySetAllocator anchors every new group on the least loaded node and
// places it on one of the copy sets precomputed for that node.
type copySetAllocator struct {
	config         model.PlacementConfig
	universe       *placement.Universe
	anchorSelector selectors.Selector[*anchor.Context, model.NodeID]
	randomFactory  random.Factory

	copySetsGauge  metric.Gauge
}

func newCopySetAllocator(config model.PlacementConfig, randomFactory random.Factory) (*copySetAllocator, error) {
	anchorSelector, err := anchor.NewSelector(config.TieBreak)
	if err != nil {
		return nil, errors.Wrap(model.ErrInvalidConfig, err.Error())
	}

	universe, err := placement.Build(placement.Params{
		NodeCount:         config.NodeCount,
		ReplicationFactor: config.ReplicationFactor,
		LoadFactor:        config.LoadFactor,
		MaxRounds:         config.MaxRounds,
	}, randomFactory.New(universeSalt))
	if err != nil {
		return nil, err
	}

	labels := metric.LabelsForStrategy(string(model.CopySet))
	metric.NewCountHistogram("placement_universe_rounds",
		"The number of scatter rounds run to build the placement universe", labels).
		Record(universe.Rounds())

	return &copySetAllocator{
		config:         config,
		universe:       universe,
		anchorSelector: anchorSelector,
		randomFactory:  randomFactory,
		copySetsGauge: metric.NewGauge("placement_universe_copy_sets",
			"The number of copy sets in the placement universe", metric.Dimensionless, labels,
			func() int64 { return int64(universe.Size()) }),
	}, nil
}

func (a *copySetAllocator) Allocate(request *model.AllocationRequest) (*model.RegionReplicaSet, error) {
	if err := checkReplicationFactor(a.config, request); err != nil {
		return nil, err
	}

	r := a.randomFactory.New(request.GroupID.String())

	occupancy := utils.CountOccupancy(a.config.NodeCount, request.AllocatedGroups)
	anchorID, err := a.anchorSelector.Select(&anchor.Context{
		Occupancy: occupancy,
		Rand:      r,
	})
	if err != nil {
		return nil, errors.Wrap(model.ErrInvariantViolation, err.Error())
	}

	copySets := a.universe.CopySetsOf(anchorID)
	if len(copySets) == 0 {
		return nil, errors.Wrapf(model.ErrInvariantViolation, "anchor node %d has no copy sets", anchorID)
	}
	chosen := copySets[r.IntN(len(copySets))]

	locations, err := request.Resolve(chosen.Members())
	if err != nil {
		return nil, err
	}

	slog.Debug(
		"Selected copy set",
		slog.String("group", request.GroupID.String()),
		slog.Int("anchor", int(anchorID)),
		slog.Int("anchor-occupancy", occupancy.Get(anchorID)),
		slog.String("copy-set", chosen.String()),
	)
	return &model.RegionReplicaSet{
		GroupID:   request.GroupID,
		Locations: locations,
	}, nil
}

func (a *copySetAllocator) Universe() *placement.Universe {
	return a.universe
}

func (*copySetAllocator) Strategy() model.StrategyName {
	return model.CopySet
}

func (a *copySetAllocator) Close() error {
	a.copySetsGauge.Unregister()
	return nil
}
