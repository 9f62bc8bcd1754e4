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

package anchor

import (
	"math"

	"github.com/pkg/errors"

	"github.com/streamnative/placement/coordinator/model"
	"github.com/streamnative/placement/coordinator/selectors"
)

var (
	_ selectors.Selector[*Context, model.NodeID] = &coinFlipSelector{}
	_ selectors.Selector[*Context, model.NodeID] = &reservoirSelector{}
)

// coinFlipSelector scans the nodes in increasing id order. A strictly lower
// count always takes over the anchor, an equal count takes over on a fresh
// coin flip. Among tied nodes the last ones are the most likely to win.
type coinFlipSelector struct{}

func (*coinFlipSelector) Select(context *Context) (model.NodeID, error) {
	if context.Occupancy == nil || context.Occupancy.Size() == 0 {
		return 0, selectors.ErrNoCandidates
	}
	anchor := model.NodeID(-1)
	minCount := math.MaxInt
	context.Occupancy.Each(func(id model.NodeID, count int) {
		if count < minCount {
			minCount = count
			anchor = id
		} else if count == minCount && context.Rand.IntN(2) == 1 {
			anchor = id
		}
	})
	return anchor, nil
}

// reservoirSelector picks uniformly among the nodes with the lowest count.
type reservoirSelector struct{}

func (*reservoirSelector) Select(context *Context) (model.NodeID, error) {
	if context.Occupancy == nil || context.Occupancy.Size() == 0 {
		return 0, selectors.ErrNoCandidates
	}
	anchor := model.NodeID(-1)
	minCount := math.MaxInt
	ties := 0
	context.Occupancy.Each(func(id model.NodeID, count int) {
		switch {
		case count < minCount:
			minCount = count
			anchor = id
			ties = 1
		case count == minCount:
			ties++
			if context.Rand.IntN(ties) == 0 {
				anchor = id
			}
		}
	})
	return anchor, nil
}

func NewSelector(policy model.TieBreakPolicy) (selectors.Selector[*Context, model.NodeID], error) {
	switch policy {
	case model.CoinFlip, "":
		return &coinFlipSelector{}, nil
	case model.Reservoir:
		return &reservoirSelector{}, nil
	default:
		return nil, errors.Wrapf(selectors.ErrUnsupportedTieBreak, "%q", policy)
	}
}
