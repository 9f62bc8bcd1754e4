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

package placement

import (
	"slices"
	"strconv"
	"strings"

	"github.com/streamnative/placement/coordinator/model"
)

// CopySet is one precomputed candidate placement: R distinct nodes allowed
// to jointly host a replica group. It is immutable once built.
type CopySet struct {
	members []model.NodeID
}

func newCopySet(members []model.NodeID) CopySet {
	return CopySet{members: slices.Clone(members)}
}

// Members returns the node ids of the copy set in the order they were drawn.
func (c CopySet) Members() []model.NodeID {
	return slices.Clone(c.members)
}

func (c CopySet) Size() int {
	return len(c.members)
}

func (c CopySet) Contains(id model.NodeID) bool {
	return slices.Contains(c.members, id)
}

func (c CopySet) String() string {
	sb := strings.Builder{}
	sb.WriteByte('{')
	for idx, id := range c.members {
		if idx > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	sb.WriteByte('}')
	return sb.String()
}
