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

package main

import (
	"crypto/rand"
	"fmt"

	"github.com/lane-vm/kernel/lanevm"
	"github.com/lane-vm/kernel/lanevmasm"
)

// This kernel estimates, per lane, whether a uniform draw falls below
// 0.5: RAND; PUSH_CONST F32 0.5; CMP_LT F32; RETURN. A single Run only
// dispatches RETURN once, so sampling more draws means Reset-ing
// between runs; Config.Entropy is set to crypto/rand.Reader so each
// Reset draws a fresh seed instead of replaying the default fixed one,
// giving `trials` independent samples rather than one draw repeated.
const kernelSource = `
RAND
PUSH_CONST F32 0.5
CMP_LT F32
RETURN
`

func main() {
	instructions, err := lanevmasm.Assemble(kernelSource)
	if err != nil {
		fmt.Println("Error assembling kernel:", err)
		return
	}

	cfg := lanevm.DefaultConfig()
	cfg.Entropy = rand.Reader

	vm := lanevm.NewVM(instructions, cfg)
	vm.SetReturnType(lanevm.KernelBool)

	const trials = 5
	below := 0
	for i := 0; i < trials; i++ {
		result := vm.Run()
		if result.Kind == lanevm.KernelError {
			fmt.Println("Error running kernel:", result.Err())
			return
		}
		for _, hit := range result.Bool() {
			if hit {
				below++
			}
		}
		vm.Reset()
		vm.SetReturnType(lanevm.KernelBool)
	}

	fmt.Printf("%d/%d lane draws landed below 0.5\n", below, trials*lanevm.Lanes)
}
