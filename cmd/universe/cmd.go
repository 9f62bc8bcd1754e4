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

package universe

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/streamnative/placement/cmd/flag"
	"github.com/streamnative/placement/coordinator/allocator"
	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/placement"
)

var (
	conf = model.NewPlacementConfig()

	Cmd = &cobra.Command{
		Use:   "universe",
		Short: "Print a copy-set placement universe",
		Long:  `Build the copy-set placement universe of a cluster and print the copy sets registered for every node`,
		RunE:  exec,
	}
)

func init() {
	flag.PlacementConfig(Cmd, &conf)
	Cmd.SilenceUsage = true
}

func exec(cmd *cobra.Command, _ []string) error {
	if err := flag.LoadConfig(cmd, &conf); err != nil {
		return err
	}

	c := conf
	c.Strategy = model.CopySet
	a, err := allocator.NewAllocator(c)
	if err != nil {
		return err
	}
	defer a.Close()

	printUniverse(cmd.OutOrStdout(), allocator.UniverseOf(a))
	return nil
}

func printUniverse(out io.Writer, u *placement.Universe) {
	table := tablewriter.NewWriter(out)
	table.Header("Node", "Scatter width", "Copy sets")
	for _, id := range u.Nodes() {
		copySets := u.CopySetsOf(id)
		members := make([]string, len(copySets))
		for idx, cs := range copySets {
			members[idx] = cs.String()
		}
		_ = table.Append([]string{
			strconv.Itoa(int(id)),
			strconv.Itoa(u.ScatterWidth(id)),
			strings.Join(members, " "),
		})
	}
	_ = table.Render()

	_, _ = fmt.Fprintf(out, "%d copy sets over %d rounds\n", u.Size(), u.Rounds())
	if u.CoverageCompleted() {
		_, _ = fmt.Fprintln(out, "coverage completed after reaching max rounds")
	}
}
