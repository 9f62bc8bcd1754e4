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

package model

import (
	"github.com/emirpasic/gods/utils"
)

// NodeID identifies a storage node. Valid ids are in the range [1, N] where
// N is the node count the placement universe was built with.
type NodeID int32

type NodeLocation struct {
	NodeID NodeID `json:"nodeId" yaml:"nodeId"`

	// ClientRPCEndpoint is the endpoint that is advertised to clients
	ClientRPCEndpoint string `json:"clientRpcEndpoint" yaml:"clientRpcEndpoint"`

	// InternalEndpoint is the endpoint for node->node RPCs
	InternalEndpoint string `json:"internalEndpoint" yaml:"internalEndpoint"`

	DataConsensusEndpoint   string `json:"dataConsensusEndpoint" yaml:"dataConsensusEndpoint"`
	SchemaConsensusEndpoint string `json:"schemaConsensusEndpoint" yaml:"schemaConsensusEndpoint"`
}

type NodeResource struct {
	CPUCores  int   `json:"cpuCores" yaml:"cpuCores"`
	MaxMemory int64 `json:"maxMemory" yaml:"maxMemory"`
}

// NodeConfiguration is the descriptor of an available node, as reported by
// the cluster membership layer.
type NodeConfiguration struct {
	Location NodeLocation `json:"location" yaml:"location"`
	Resource NodeResource `json:"resource" yaml:"resource"`
}

func NodeIDComparator(a, b any) int {
	return utils.Int32Comparator(int32(a.(NodeID)), int32(b.(NodeID))) //nolint:revive
}
