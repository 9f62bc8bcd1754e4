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

package flag

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/streamnative/placement/coordinator/model"
)

// ConfigFile is the optional YAML placement config, shared by all commands.
var ConfigFile string

func PlacementConfig(cmd *cobra.Command, conf *model.PlacementConfig) {
	cmd.Flags().Var(&conf.Strategy, "strategy", "Placement strategy: copy-set, greedy or capacity-aware")
	cmd.Flags().IntVarP(&conf.NodeCount, "nodes", "n", conf.NodeCount, "Number of storage nodes")
	cmd.Flags().IntVarP(&conf.ReplicationFactor, "replication-factor", "r", conf.ReplicationFactor, "Replicas per region group")
	cmd.Flags().IntVar(&conf.LoadFactor, "load-factor", conf.LoadFactor, "Minimum number of scatter rounds")
	cmd.Flags().IntVar(&conf.MaxRounds, "max-rounds", conf.MaxRounds, "Maximum number of scatter rounds, 0 for unbounded")
	cmd.Flags().Var(&conf.TieBreak, "tie-break", "Anchor tie-break policy: coin-flip or reservoir")
	cmd.Flags().Var(&seedValue{target: &conf.Seed}, "seed", "Seed for reproducible placements")
}

func MetricsAddr(cmd *cobra.Command, conf *string) {
	cmd.Flags().StringVarP(conf, "metrics-addr", "m", "", "Serve Prometheus metrics on this address")
}

type seedValue struct {
	target **uint64
}

func (s *seedValue) String() string {
	if *s.target == nil {
		return ""
	}
	return strconv.FormatUint(**s.target, 10)
}

func (s *seedValue) Set(str string) error {
	seed, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}
	*s.target = &seed
	return nil
}

func (*seedValue) Type() string {
	return "uint64"
}
