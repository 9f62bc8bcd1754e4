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

package simulate

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/streamnative/placement/cmd/flag"
	"github.com/streamnative/placement/common/metric"
	"github.com/streamnative/placement/coordinator/allocator"
	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/placement"
	"github.com/streamnative/placement/coordinator/snapshot"
	"github.com/streamnative/placement/coordinator/utils"
)

type Options struct {
	Allocations   int
	SnapshotFile  string
	FreeDiskSpace string
	RegionSize    string
	MetricsAddr   string
}

func NewOptions() Options {
	return Options{
		Allocations:   100,
		FreeDiskSpace: "1 TiB",
		RegionSize:    "16 GiB",
	}
}

var (
	conf    = model.NewPlacementConfig()
	options = NewOptions()

	Cmd = &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a series of allocations",
		Long: `Run a series of allocations, feeding every decision back into the cluster, ` +
			`and print how the region groups are spread over the nodes`,
		RunE: exec,
	}
)

func init() {
	flag.PlacementConfig(Cmd, &conf)
	flag.MetricsAddr(Cmd, &options.MetricsAddr)
	Cmd.Flags().IntVarP(&options.Allocations, "allocations", "k", options.Allocations, "Number of region groups to allocate")
	Cmd.Flags().StringVarP(&options.SnapshotFile, "snapshot", "s", "", "Start from this cluster snapshot instead of an empty cluster")
	Cmd.Flags().StringVar(&options.FreeDiskSpace, "free-disk", options.FreeDiskSpace, "Free disk space of every node of an empty cluster")
	Cmd.Flags().StringVar(&options.RegionSize, "region-size", options.RegionSize, "Disk space taken on every replica node by a region group")
	Cmd.SilenceUsage = true
}

func exec(cmd *cobra.Command, _ []string) error {
	if err := flag.LoadConfig(cmd, &conf); err != nil {
		return err
	}
	if options.Allocations < 0 {
		return errors.Errorf("allocations must not be negative, got %d", options.Allocations)
	}
	regionSize, err := humanize.ParseBytes(options.RegionSize)
	if err != nil {
		return errors.Wrapf(err, "invalid region size %q", options.RegionSize)
	}

	c := conf
	s, err := initialSnapshot(&c)
	if err != nil {
		return err
	}

	if options.MetricsAddr != "" {
		metrics, err := metric.Start(options.MetricsAddr)
		if err != nil {
			return err
		}
		defer metrics.Close()
	}

	a, err := allocator.NewAllocator(c)
	if err != nil {
		return err
	}
	defer a.Close()

	log := slog.With(
		slog.String("run-id", uuid.NewString()),
		slog.String("strategy", string(a.Strategy())),
	)
	log.Info("Starting simulation", slog.Int("allocations", options.Allocations))

	start := time.Now()
	firstID := len(s.AllocatedGroups) + 1
	for i := 0; i < options.Allocations; i++ {
		groupID := model.GroupID{Type: model.DataRegion, ID: int32(firstID + i)}
		replicaSet, err := a.Allocate(s.Request(c.ReplicationFactor, groupID))
		if err != nil {
			return errors.Wrapf(err, "failed to allocate %s", groupID)
		}
		s.Add(replicaSet)
		s.Consume(replicaSet.NodeIDs(), snapshot.DiskSize(regionSize))
	}

	log.Info(
		"Simulation completed",
		slog.Int("allocations", options.Allocations),
		slog.Duration("elapsed", time.Since(start)),
	)

	printReport(cmd.OutOrStdout(), s, c.ReplicationFactor, allocator.UniverseOf(a))
	return nil
}

func initialSnapshot(c *model.PlacementConfig) (*snapshot.Snapshot, error) {
	if options.SnapshotFile != "" {
		s, err := snapshot.Load(options.SnapshotFile)
		if err != nil {
			return nil, err
		}
		if c.NodeCount == 0 {
			c.NodeCount = int(s.MaxNodeID())
		}
		return s, nil
	}

	freeDiskSpace, err := humanize.ParseBytes(options.FreeDiskSpace)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid free disk space %q", options.FreeDiskSpace)
	}
	return snapshot.NewSnapshot(c.NodeCount, snapshot.DiskSize(freeDiskSpace)), nil
}

func printReport(out io.Writer, s *snapshot.Snapshot, replicationFactor int, u *placement.Universe) {
	request := s.Request(replicationFactor, model.GroupID{})
	occupancy := utils.CountOccupancyOf(s.NodeIDs(), request.AllocatedGroups)

	table := tablewriter.NewWriter(out)
	if u != nil {
		table.Header("Node", "Regions", "Free disk", "Scatter width")
	} else {
		table.Header("Node", "Regions", "Free disk")
	}
	occupancy.Each(func(id model.NodeID, count int) {
		row := []string{
			strconv.Itoa(int(id)),
			strconv.Itoa(count),
			humanize.IBytes(uint64(request.FreeDiskSpaceOf(id))),
		}
		if u != nil {
			row = append(row, strconv.Itoa(u.ScatterWidth(id)))
		}
		_ = table.Append(row)
	})
	_ = table.Render()

	lowest, highest := occupancy.Spread()
	_, _ = fmt.Fprintf(out, "%d region groups on %d nodes, occupancy spread %d..%d\n",
		len(s.AllocatedGroups), occupancy.Size(), lowest, highest)
}
