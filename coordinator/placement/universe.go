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
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/pkg/errors"

	"github.com/streamnative/placement/coordinator/model"
)

type Params struct {
	NodeCount         int
	ReplicationFactor int

	// LoadFactor is the minimum number of scatter rounds. More rounds give
	// every node more alternative copy sets, at the price of correlating
	// each node with more peers.
	LoadFactor int

	// MaxRounds caps the rounds spent reaching coverage. Zero means no cap.
	MaxRounds int
}

func (p Params) validate() error {
	if p.NodeCount < 1 {
		return errors.Wrapf(model.ErrInvalidConfig, "node count must be positive, got %d", p.NodeCount)
	}
	if p.ReplicationFactor < 1 {
		return errors.Wrapf(model.ErrInvalidConfig, "replication factor must be positive, got %d", p.ReplicationFactor)
	}
	if p.ReplicationFactor > p.NodeCount {
		return errors.Wrapf(model.ErrInvalidConfig, "replication factor %d exceeds node count %d",
			p.ReplicationFactor, p.NodeCount)
	}
	if p.LoadFactor < 1 {
		return errors.Wrapf(model.ErrInvalidConfig, "load factor must be positive, got %d", p.LoadFactor)
	}
	if p.MaxRounds < 0 || (p.MaxRounds > 0 && p.MaxRounds < p.LoadFactor) {
		return errors.Wrapf(model.ErrInvalidConfig, "max rounds %d must be zero or at least the load factor %d",
			p.MaxRounds, p.LoadFactor)
	}
	return nil
}

// Universe maps every node to the copy sets that contain it. It is built
// once and only read afterward, so it can be shared by concurrent
// allocations without locking.
type Universe struct {
	params   Params
	rounds   int
	copySets []CopySet

	// model.NodeID -> []CopySet
	byNode *treemap.Map

	completed bool
}

// Build runs scatter rounds until at least LoadFactor rounds have executed
// and every node in [1, NodeCount] belongs to some copy set. Each round
// shuffles all the node ids and cuts the permutation into chunks of
// ReplicationFactor nodes, dropping a shorter trailing chunk.
func Build(params Params, r *rand.Rand) (*Universe, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	u := &Universe{
		params: params,
		byNode: treemap.NewWith(model.NodeIDComparator),
	}

	covered := hashset.New()
	permutation := make([]model.NodeID, params.NodeCount)
	for u.rounds < params.LoadFactor || covered.Size() < params.NodeCount {
		if params.MaxRounds > 0 && u.rounds >= params.MaxRounds {
			u.completeCoverage(covered)
			break
		}

		for i := range permutation {
			permutation[i] = model.NodeID(i + 1)
		}
		r.Shuffle(len(permutation), func(i, j int) {
			permutation[i], permutation[j] = permutation[j], permutation[i]
		})

		for i := 0; i+params.ReplicationFactor <= len(permutation); i += params.ReplicationFactor {
			u.register(newCopySet(permutation[i:i+params.ReplicationFactor]), covered)
		}
		u.rounds++
	}

	if u.completed {
		slog.Warn(
			"Placement universe hit the max rounds before covering all nodes, coverage completed deterministically",
			slog.Int("max-rounds", params.MaxRounds),
			slog.Int("copy-sets", len(u.copySets)),
		)
	} else {
		slog.Info(
			"Built placement universe",
			slog.Int("node-count", params.NodeCount),
			slog.Int("replication-factor", params.ReplicationFactor),
			slog.Int("load-factor", params.LoadFactor),
			slog.Int("rounds", u.rounds),
			slog.Int("copy-sets", len(u.copySets)),
		)
	}
	return u, nil
}

func (u *Universe) register(cs CopySet, covered *hashset.Set) {
	u.copySets = append(u.copySets, cs)
	for _, id := range cs.members {
		covered.Add(id)
		var sets []CopySet
		if v, found := u.byNode.Get(id); found {
			sets = v.([]CopySet) //nolint:revive
		}
		u.byNode.Put(id, append(sets, cs))
	}
}

// completeCoverage chunks the uncovered ids in increasing order, padding a
// short last chunk with the lowest ids it does not already hold.
func (u *Universe) completeCoverage(covered *hashset.Set) {
	rf := u.params.ReplicationFactor
	var chunk []model.NodeID
	for id := model.NodeID(1); int(id) <= u.params.NodeCount; id++ {
		if covered.Contains(id) {
			continue
		}
		chunk = append(chunk, id)
		if len(chunk) == rf {
			u.register(newCopySet(chunk), covered)
			chunk = chunk[:0]
		}
	}
	for id := model.NodeID(1); len(chunk) > 0 && len(chunk) < rf; id++ {
		if !slices.Contains(chunk, id) {
			chunk = append(chunk, id)
		}
	}
	if len(chunk) > 0 {
		u.register(newCopySet(chunk), covered)
	}
	u.completed = true
}

func (u *Universe) Params() Params {
	return u.params
}

// Rounds is the number of scatter rounds the build executed.
func (u *Universe) Rounds() int {
	return u.rounds
}

// CoverageCompleted reports whether the build stopped at MaxRounds and had
// to complete coverage deterministically.
func (u *Universe) CoverageCompleted() bool {
	return u.completed
}

func (u *Universe) Size() int {
	return len(u.copySets)
}

// CopySets returns all the copy sets in creation order.
func (u *Universe) CopySets() []CopySet {
	res := make([]CopySet, len(u.copySets))
	copy(res, u.copySets)
	return res
}

// CopySetsOf returns the copy sets that contain the node, in creation order.
func (u *Universe) CopySetsOf(id model.NodeID) []CopySet {
	v, found := u.byNode.Get(id)
	if !found {
		return nil
	}
	sets := v.([]CopySet) //nolint:revive
	res := make([]CopySet, len(sets))
	copy(res, sets)
	return res
}

// Nodes returns the ids covered by at least one copy set, ascending.
func (u *Universe) Nodes() []model.NodeID {
	keys := u.byNode.Keys()
	res := make([]model.NodeID, len(keys))
	for idx, k := range keys {
		res[idx] = k.(model.NodeID) //nolint:revive
	}
	return res
}

// ScatterWidth is the number of distinct other nodes sharing at least one
// copy set with the node.
func (u *Universe) ScatterWidth(id model.NodeID) int {
	peers := hashset.New()
	for _, cs := range u.CopySetsOf(id) {
		for _, member := range cs.members {
			if member != id {
				peers.Add(member)
			}
		}
	}
	return peers.Size()
}
