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

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig marks configuration errors. They are fatal and must
	// never be retried.
	ErrInvalidConfig = errors.New("placement: invalid configuration")

	// ErrInvariantViolation marks states that a correctly built placement
	// universe can never reach.
	ErrInvariantViolation = errors.New("placement: internal invariant violation")

	// ErrInconsistentInput marks caller inputs that contradict each other,
	// e.g. a chosen node without a location descriptor.
	ErrInconsistentInput = errors.New("placement: inconsistent input")
)
