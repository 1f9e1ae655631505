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

import "fmt"

// ReturnKind discriminates a ReturnValue. KernelError overrides
// whatever kind the host requested via SetReturnType, and is the only
// kind Run ever sets on its own initiative.
type ReturnKind uint8

const (
	KernelI32 ReturnKind = iota
	KernelF32
	KernelBool
	KernelError
)

func (k ReturnKind) String() string {
	switch k {
	case KernelI32:
		return "KernelI32"
	case KernelF32:
		return "KernelF32"
	case KernelBool:
		return "KernelBool"
	case KernelError:
		return "KernelError"
	default:
		return "UnknownReturnKind"
	}
}

// ReturnValue is the discriminated result run() hands back to the
// host: LANES elements of exactly one scalar type, or an error. When
// Kind is KernelError, the data field is unspecified.
type ReturnValue struct {
	Kind ReturnKind
	data Vector
	err  error
}

func (rv *ReturnValue) reset() {
	*rv = ReturnValue{}
}

// I32 returns the LANES i32 values, valid only when Kind == KernelI32.
func (rv *ReturnValue) I32() [Lanes]int32 {
	var out [Lanes]int32
	for i := range out {
		out[i] = rv.data.LaneI32(i)
	}
	return out
}

// F32 returns the LANES f32 values, valid only when Kind == KernelF32.
func (rv *ReturnValue) F32() [Lanes]float32 {
	var out [Lanes]float32
	for i := range out {
		out[i] = rv.data.LaneF32(i)
	}
	return out
}

// Bool returns the LANES bool values, valid only when Kind == KernelBool.
func (rv *ReturnValue) Bool() [Lanes]bool {
	var out [Lanes]bool
	for i := range out {
		out[i] = rv.data.LaneBool(i)
	}
	return out
}

// Err returns the underlying fault when Kind == KernelError, else nil.
func (rv *ReturnValue) Err() error { return rv.err }

func (rv *ReturnValue) String() string {
	switch rv.Kind {
	case KernelI32:
		return fmt.Sprintf("KernelI32%v", rv.I32())
	case KernelF32:
		return fmt.Sprintf("KernelF32%v", rv.F32())
	case KernelBool:
		return fmt.Sprintf("KernelBool%v", rv.Bool())
	case KernelError:
		return fmt.Sprintf("KernelError(%v)", rv.err)
	default:
		return "ReturnValue(?)"
	}
}
