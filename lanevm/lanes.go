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
	"encoding/binary"
	"math"
)

// Lanes is the compile-time width of every vector quantity the VM
// operates on. A Vector packs Lanes 32-bit elements into 128 bits.
const Lanes = 4

// Vector is a Lanes-wide register: four 32-bit lanes, interpreted as I32,
// F32, or a BOOL mask depending on the opcode that produced it. The VM
// itself carries no per-slot type tag; correctness of interpretation is
// the bytecode producer's responsibility.
type Vector struct {
	Low, High uint64
}

// trueLane and falseLane are the only two admissible per-lane bit
// patterns for a BOOL vector: all-ones and all-zeros.
const (
	trueLane  int32 = -1
	falseLane int32 = 0
)

func boolToLane(b bool) int32 {
	if b {
		return trueLane
	}
	return falseLane
}

// bytes returns the vector's 16 little-endian bytes.
func (v Vector) bytes() [16]byte {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], v.Low)
	binary.LittleEndian.PutUint64(buf[8:16], v.High)
	return buf
}

func vectorFromBytes(buf [16]byte) Vector {
	return Vector{
		Low:  binary.LittleEndian.Uint64(buf[0:8]),
		High: binary.LittleEndian.Uint64(buf[8:16]),
	}
}

// BroadcastI32 replicates v across all Lanes, used by PUSH_CONST I32.
func BroadcastI32(v int32) Vector {
	var buf [16]byte
	for i := 0; i < 16; i += 4 {
		binary.LittleEndian.PutUint32(buf[i:i+4], uint32(v))
	}
	return vectorFromBytes(buf)
}

// BroadcastF32 replicates v across all Lanes, used by PUSH_CONST F32.
func BroadcastF32(v float32) Vector {
	return BroadcastI32(int32(math.Float32bits(v)))
}

// BroadcastBool replicates the lane-mask pattern for b across all Lanes,
// used by PUSH_CONST BOOL.
func BroadcastBool(b bool) Vector {
	return BroadcastI32(boolToLane(b))
}

// LaneI32 extracts the signed 32-bit value of a single lane.
func (v Vector) LaneI32(i int) int32 {
	buf := v.bytes()
	return int32(binary.LittleEndian.Uint32(buf[i*4 : i*4+4]))
}

// LaneF32 extracts the float32 value of a single lane.
func (v Vector) LaneF32(i int) float32 {
	return math.Float32frombits(uint32(v.LaneI32(i)))
}

// LaneBool reports whether lane i holds the all-ones (true) pattern.
func (v Vector) LaneBool(i int) bool {
	return v.LaneI32(i) != falseLane
}

func unaryLanes32(v Vector, op func(uint32) uint32) Vector {
	buf := v.bytes()
	for i := 0; i < 16; i += 4 {
		val := binary.LittleEndian.Uint32(buf[i : i+4])
		binary.LittleEndian.PutUint32(buf[i:i+4], op(val))
	}
	return vectorFromBytes(buf)
}

func binaryLanesI32(v1, v2 Vector, op func(a, b int32) int32) Vector {
	buf1 := v1.bytes()
	buf2 := v2.bytes()
	for i := 0; i < 16; i += 4 {
		a := int32(binary.LittleEndian.Uint32(buf1[i : i+4]))
		b := int32(binary.LittleEndian.Uint32(buf2[i : i+4]))
		binary.LittleEndian.PutUint32(buf1[i:i+4], uint32(op(a, b)))
	}
	return vectorFromBytes(buf1)
}

func binaryLanesF32(v1, v2 Vector, op func(a, b float32) float32) Vector {
	buf1 := v1.bytes()
	buf2 := v2.bytes()
	for i := 0; i < 16; i += 4 {
		a := math.Float32frombits(binary.LittleEndian.Uint32(buf1[i : i+4]))
		b := math.Float32frombits(binary.LittleEndian.Uint32(buf2[i : i+4]))
		binary.LittleEndian.PutUint32(buf1[i:i+4], math.Float32bits(op(a, b)))
	}
	return vectorFromBytes(buf1)
}

func compareLanesI32(v1, v2 Vector, op func(a, b int32) bool) Vector {
	return binaryLanesI32(v1, v2, func(a, b int32) int32 { return boolToLane(op(a, b)) })
}

func compareLanesF32(v1, v2 Vector, op func(a, b float32) bool) Vector {
	buf1 := v1.bytes()
	buf2 := v2.bytes()
	for i := 0; i < 16; i += 4 {
		a := math.Float32frombits(binary.LittleEndian.Uint32(buf1[i : i+4]))
		b := math.Float32frombits(binary.LittleEndian.Uint32(buf2[i : i+4]))
		binary.LittleEndian.PutUint32(buf1[i:i+4], uint32(boolToLane(op(a, b))))
	}
	return vectorFromBytes(buf1)
}

// AddI32, SubI32, MulI32 wrap on overflow, matching Go's own int32
// two's-complement arithmetic.
func AddI32(v1, v2 Vector) Vector { return binaryLanesI32(v1, v2, func(a, b int32) int32 { return a + b }) }
func SubI32(v1, v2 Vector) Vector { return binaryLanesI32(v1, v2, func(a, b int32) int32 { return a - b }) }
func MulI32(v1, v2 Vector) Vector { return binaryLanesI32(v1, v2, func(a, b int32) int32 { return a * b }) }

// AddF32, SubF32, MulF32, DivF32 follow IEEE-754 round-to-nearest-even via
// Go's native float32 operators.
func AddF32(v1, v2 Vector) Vector {
	return binaryLanesF32(v1, v2, func(a, b float32) float32 { return a + b })
}
func SubF32(v1, v2 Vector) Vector {
	return binaryLanesF32(v1, v2, func(a, b float32) float32 { return a - b })
}
func MulF32(v1, v2 Vector) Vector {
	return binaryLanesF32(v1, v2, func(a, b float32) float32 { return a * b })
}
func DivF32(v1, v2 Vector) Vector {
	return binaryLanesF32(v1, v2, func(a, b float32) float32 { return a / b })
}

// DivI32 and ModI32 are lane-by-lane scalar loops: most hardware lacks a
// vector integer division instruction, so this path stays scalar.
// divisorZero reports whether any lane's divisor is zero without
// performing the division, so the caller can fail the whole operation
// before touching any lane.
func divisorZero(v Vector) bool {
	buf := v.bytes()
	for i := 0; i < 16; i += 4 {
		if binary.LittleEndian.Uint32(buf[i:i+4]) == 0 {
			return true
		}
	}
	return false
}

// DivI32 performs truncated-toward-zero division lane by lane. The
// caller must check divisorZero(v2) first.
func DivI32(v1, v2 Vector) Vector {
	return binaryLanesI32(v1, v2, func(a, b int32) int32 { return a / b })
}

// ModI32 performs truncated-toward-zero remainder lane by lane. The
// caller must check divisorZero(v2) first.
func ModI32(v1, v2 Vector) Vector {
	return binaryLanesI32(v1, v2, func(a, b int32) int32 { return a % b })
}

// CmpLtI32, CmpLteI32, CmpGtI32, CmpGteI32, CmpEqI32, CmpNeI32 produce a
// BOOL vector, all-ones/all-zeros per lane.
func CmpLtI32(v1, v2 Vector) Vector  { return compareLanesI32(v1, v2, func(a, b int32) bool { return a < b }) }
func CmpLteI32(v1, v2 Vector) Vector { return compareLanesI32(v1, v2, func(a, b int32) bool { return a <= b }) }
func CmpGtI32(v1, v2 Vector) Vector  { return compareLanesI32(v1, v2, func(a, b int32) bool { return a > b }) }
func CmpGteI32(v1, v2 Vector) Vector { return compareLanesI32(v1, v2, func(a, b int32) bool { return a >= b }) }
func CmpEqI32(v1, v2 Vector) Vector  { return compareLanesI32(v1, v2, func(a, b int32) bool { return a == b }) }
func CmpNeI32(v1, v2 Vector) Vector  { return compareLanesI32(v1, v2, func(a, b int32) bool { return a != b }) }

// CmpLtF32, CmpLteF32, CmpGtF32, CmpGteF32, CmpEqF32, CmpNeF32 use ordered
// predicates: Go's native float32 comparisons already treat any NaN
// operand as false for <, <=, >, >=, == and true for !=.
func CmpLtF32(v1, v2 Vector) Vector  { return compareLanesF32(v1, v2, func(a, b float32) bool { return a < b }) }
func CmpLteF32(v1, v2 Vector) Vector { return compareLanesF32(v1, v2, func(a, b float32) bool { return a <= b }) }
func CmpGtF32(v1, v2 Vector) Vector  { return compareLanesF32(v1, v2, func(a, b float32) bool { return a > b }) }
func CmpGteF32(v1, v2 Vector) Vector { return compareLanesF32(v1, v2, func(a, b float32) bool { return a >= b }) }
func CmpEqF32(v1, v2 Vector) Vector  { return compareLanesF32(v1, v2, func(a, b float32) bool { return a == b }) }
func CmpNeF32(v1, v2 Vector) Vector  { return compareLanesF32(v1, v2, func(a, b float32) bool { return a != b }) }

// And, Or, Xor, Andnot, Not are the bitwise mask operators BOOL AND/OR/NOT
// are built from, operating directly on the mask rather than any
// lane-shuffling primitive.
func And(v1, v2 Vector) Vector    { return Vector{Low: v1.Low & v2.Low, High: v1.High & v2.High} }
func Or(v1, v2 Vector) Vector     { return Vector{Low: v1.Low | v2.Low, High: v1.High | v2.High} }
func Xor(v1, v2 Vector) Vector    { return Vector{Low: v1.Low ^ v2.Low, High: v1.High ^ v2.High} }
func Andnot(v1, v2 Vector) Vector { return Vector{Low: v1.Low &^ v2.Low, High: v1.High &^ v2.High} }
func Not(v Vector) Vector         { return Vector{Low: ^v.Low, High: ^v.High} }

// Bitselect chooses, lane by lane, between then_ and else_ according to
// mask, without any lane observing another lane's value. This is the
// primitive SELECT is built on.
func Bitselect(then_, else_, mask Vector) Vector {
	return Vector{
		Low:  (then_.Low & mask.Low) | (else_.Low &^ mask.Low),
		High: (then_.High & mask.High) | (else_.High &^ mask.High),
	}
}

// ShiftLeft and ShiftRightLogical are the logical-shift lane primitives;
// shift is taken modulo 32 per lane width.
func ShiftLeft(v Vector, shift uint32) Vector {
	s := shift & 31
	return unaryLanes32(v, func(val uint32) uint32 { return val << s })
}

func ShiftRightLogical(v Vector, shift uint32) Vector {
	s := shift & 31
	return unaryLanes32(v, func(val uint32) uint32 { return val >> s })
}

// ReinterpretBitsAsF32 performs a float↔bitmask reinterpretation cast,
// lane by lane, without any numeric conversion.
func ReinterpretBitsAsF32(v Vector) Vector { return v }
