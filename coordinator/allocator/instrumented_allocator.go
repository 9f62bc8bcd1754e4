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

	"github.com/streamnative/placement/common/metric"
	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/placement"
)

var _ Allocator = &instrumentedAllocator{}

type instrumentedAllocator struct {
	Allocator

	latency   metric.LatencyHistogram
	succeeded metric.Counter
	failed    metric.Counter
}

func newInstrumentedAllocator(allocator Allocator) *instrumentedAllocator {
	strategy := string(allocator.Strategy())
	outcome := func(outcome string) map[string]any {
		labels := metric.LabelsForStrategy(strategy)
		labels["outcome"] = outcome
		return labels
	}
	return &instrumentedAllocator{
		Allocator: allocator,
		latency: metric.NewLatencyHistogram("placement_allocation_latency",
			"The time taken to decide the placement of a region group", metric.LabelsForStrategy(strategy)),
		succeeded: metric.NewCounter("placement_allocations",
			"The number of placement decisions", metric.Dimensionless, outcome("success")),
		failed: metric.NewCounter("placement_allocations",
			"The number of placement decisions", metric.Dimensionless, outcome("failure")),
	}
}

func (a *instrumentedAllocator) Allocate(request *model.AllocationRequest) (*model.RegionReplicaSet, error) {
	timer := a.latency.Timer()
	defer timer.Done()

	replicaSet, err := a.Allocator.Allocate(request)
	if err != nil {
		a.failed.Inc()
		slog.Warn(
			"Failed to allocate region group",
			slog.String("strategy", string(a.Strategy())),
			slog.String("group", request.GroupID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}

	a.succeeded.Inc()
	slog.Debug(
		"Allocated region group",
		slog.String("strategy", string(a.Strategy())),
		slog.String("group", request.GroupID.String()),
		slog.Any("nodes", replicaSet.NodeIDs()),
	)
	return replicaSet, nil
}

func (a *instrumentedAllocator) Unwrap() Allocator {
	return a.Allocator
}

// UniverseOf returns the placement universe backing a copy-set allocator,
// or nil for strategies without one.
func UniverseOf(allocator Allocator) *placement.Universe {
	for {
		switch a := allocator.(type) {
		case *copySetAllocator:
			return a.Universe()
		case interface{ Unwrap() Allocator }:
			allocator = a.Unwrap()
		default:
			return nil
		}
	}
}
