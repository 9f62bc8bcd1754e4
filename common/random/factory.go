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

package random

import (
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// Factory hands out independent generators. Each generator is owned by a
// single caller, so concurrent allocations never share a random stream.
type Factory interface {
	// New returns a fresh generator. With a seeded factory the same salt
	// always yields the same stream.
	New(salt string) *rand.Rand
}

// NewFactory returns a seeded factory when seed is set and an entropy
// backed one otherwise.
func NewFactory(seed *uint64) Factory {
	if seed != nil {
		return NewSeededFactory(*seed)
	}
	return NewEntropyFactory()
}

func NewSeededFactory(seed uint64) Factory {
	return &seededFactory{seed: seed}
}

func NewEntropyFactory() Factory {
	return &entropyFactory{}
}

type seededFactory struct {
	seed uint64
}

func (f *seededFactory) New(salt string) *rand.Rand {
	return rand.New(rand.NewPCG(f.seed, xxh3.HashStringSeed(salt, f.seed)))
}

type entropyFactory struct{}

func (*entropyFactory) New(_ string) *rand.Rand {
	// The top level functions of math/rand/v2 are safe for concurrent use
	// and seeded by the runtime.
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
