// Copyright 2025 Google LLC
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

package lanevm

import "io"

// Config controls the behavior and safety nets of a VM instance.
type Config struct {
	// EnableInstructionBudget bounds the number of instructions a
	// single Run may dispatch. NOTE: enabling it has a non-trivial
	// performance impact, since every dispatch now checks a counter.
	// Default: false, no budget. Independently of this setting, Run
	// fails with ErrProgramCounterOutOfRange when the program counter
	// passes the end of the bytecode without reaching RETURN.
	EnableInstructionBudget bool

	// InstructionBudget is the number of instructions Run may dispatch
	// before failing with ErrInstructionBudgetExceeded. Only used if
	// EnableInstructionBudget is true.
	InstructionBudget uint64

	// Entropy, when non-nil, is read for LANES fresh 32-bit seeds on
	// every Reset (and at construction) instead of the fixed reference
	// seed. Leave nil for the deterministic default; set to
	// crypto/rand.Reader for reseeding from real entropy.
	Entropy io.Reader
}

// DefaultConfig returns a Config with sensible defaults: no
// instruction budget, deterministic fixed-seed RNG.
func DefaultConfig() Config {
	return Config{}
}
