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

package allocate

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/streamnative/placement/cmd/flag"
	"github.com/streamnative/placement/coordinator/allocator"
	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/snapshot"
)

type Options struct {
	SnapshotFile string
	GroupType    string
	GroupID      int32
}

func NewOptions() Options {
	return Options{
		GroupType: string(model.DataRegion),
	}
}

var (
	conf    = model.NewPlacementConfig()
	options = NewOptions()

	Cmd = &cobra.Command{
		Use:   "allocate",
		Short: "Allocate a region group",
		Long:  `Decide the nodes hosting a new region group on a cluster snapshot and print the decision as YAML`,
		RunE:  exec,
	}
)

func init() {
	flag.PlacementConfig(Cmd, &conf)
	Cmd.Flags().StringVarP(&options.SnapshotFile, "snapshot", "s", "", "Cluster snapshot file")
	Cmd.Flags().StringVar(&options.GroupType, "group-type", options.GroupType, "Group type: DataRegion or SchemaRegion")
	Cmd.Flags().Int32Var(&options.GroupID, "group-id", options.GroupID, "Group id")
	_ = Cmd.MarkFlagRequired("snapshot")
	Cmd.SilenceUsage = true
}

func exec(cmd *cobra.Command, _ []string) error {
	if err := flag.LoadConfig(cmd, &conf); err != nil {
		return err
	}

	groupType := model.ConsensusGroupType(options.GroupType)
	if groupType != model.DataRegion && groupType != model.SchemaRegion {
		return errors.Errorf("unknown group type %q", options.GroupType)
	}

	s, err := snapshot.Load(options.SnapshotFile)
	if err != nil {
		return err
	}

	c := conf
	if c.NodeCount == 0 {
		c.NodeCount = int(s.MaxNodeID())
	}
	a, err := allocator.NewAllocator(c)
	if err != nil {
		return err
	}
	defer a.Close()

	replicaSet, err := a.Allocate(s.Request(c.ReplicationFactor, model.GroupID{Type: groupType, ID: options.GroupID}))
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(replicaSet); err != nil {
		return err
	}
	return encoder.Close()
}
