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

import (
	"fmt"
	"math"
)

// Payload is the 32-bit union an instruction's immediate is drawn from:
// an i32 literal, an f32 literal, a bool literal, or a slot index,
// depending on which field the opcode reads. The VM never inspects
// more than one field per instruction.
type Payload struct {
	I32  int32
	F32  float32
	Bool bool
	Slot int
}

// SlotPayload builds the payload LOAD_VAR/STORE_VAR read.
func SlotPayload(slot int) Payload { return Payload{Slot: slot} }

// I32Payload builds the payload an I32 PUSH_CONST reads.
func I32Payload(v int32) Payload { return Payload{I32: v} }

// F32Payload builds the payload an F32 PUSH_CONST reads.
func F32Payload(v float32) Payload { return Payload{F32: v} }

// BoolPayload builds the payload a BOOL PUSH_CONST reads.
func BoolPayload(v bool) Payload { return Payload{Bool: v} }

// Instruction is the fixed three-field record the dispatcher fetches
// one of per iteration: an opcode, a scalar type tag, and a payload.
// Opcodes that ignore the payload (RETURN, RAND, NOT, AND, OR) leave
// it zero-valued.
type Instruction struct {
	Op      Opcode
	Type    Type
	Payload Payload
}

func (ins Instruction) String() string {
	switch ins.Op {
	case PushConst:
		switch ins.Type {
		case I32:
			return fmt.Sprintf("PUSH_CONST I32 %d", ins.Payload.I32)
		case F32:
			return fmt.Sprintf("PUSH_CONST F32 %s", formatF32(ins.Payload.F32))
		case Bool:
			return fmt.Sprintf("PUSH_CONST BOOL %t", ins.Payload.Bool)
		}
	case LoadVar:
		return fmt.Sprintf("LOAD_VAR %s %d", ins.Type, ins.Payload.Slot)
	case StoreVar:
		return fmt.Sprintf("STORE_VAR %s %d", ins.Type, ins.Payload.Slot)
	case Rand, Not_, And_, Or_, Return:
		return ins.Op.String()
	}
	return fmt.Sprintf("%s %s", ins.Op, ins.Type)
}

func formatF32(v float32) string {
	if math.IsInf(float64(v), 1) {
		return "+Inf"
	}
	if math.IsInf(float64(v), -1) {
		return "-Inf"
	}
	return fmt.Sprintf("%g", v)
}
