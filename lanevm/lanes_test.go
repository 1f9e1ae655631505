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

import "testing"

func TestBroadcastI32RoundTrip(t *testing.T) {
	v := BroadcastI32(-7)
	for i := 0; i < Lanes; i++ {
		if got := v.LaneI32(i); got != -7 {
			t.Fatalf("lane %d: expected -7, got %d", i, got)
		}
	}
}

func TestBroadcastBoolMaskPatterns(t *testing.T) {
	tv := BroadcastBool(true)
	fv := BroadcastBool(false)
	for i := 0; i < Lanes; i++ {
		if tv.LaneI32(i) != -1 {
			t.Fatalf("true lane %d: expected -1, got %d", i, tv.LaneI32(i))
		}
		if fv.LaneI32(i) != 0 {
			t.Fatalf("false lane %d: expected 0, got %d", i, fv.LaneI32(i))
		}
	}
}

func TestAddI32Wraps(t *testing.T) {
	v1 := BroadcastI32(2147483647)
	v2 := BroadcastI32(1)
	sum := AddI32(v1, v2)
	if got := sum.LaneI32(0); got != -2147483648 {
		t.Fatalf("expected wraparound to -2147483648, got %d", got)
	}
}

func TestCmpI32ProducesMaskPatterns(t *testing.T) {
	a := BroadcastI32(3)
	b := BroadcastI32(5)
	lt := CmpLtI32(a, b)
	gt := CmpGtI32(a, b)
	for i := 0; i < Lanes; i++ {
		if lt.LaneI32(i) != -1 {
			t.Fatalf("CmpLtI32 lane %d: expected -1, got %d", i, lt.LaneI32(i))
		}
		if gt.LaneI32(i) != 0 {
			t.Fatalf("CmpGtI32 lane %d: expected 0, got %d", i, gt.LaneI32(i))
		}
	}
}

func TestCmpF32NaNOrderedPredicates(t *testing.T) {
	nan := BroadcastF32(float32(nanValue()))
	one := BroadcastF32(1.0)

	if CmpLtF32(nan, one).LaneBool(0) {
		t.Fatalf("NaN < 1.0 should be false")
	}
	if CmpEqF32(nan, one).LaneBool(0) {
		t.Fatalf("NaN == 1.0 should be false")
	}
	if !CmpNeF32(nan, one).LaneBool(0) {
		t.Fatalf("NaN != 1.0 should be true")
	}
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestBitselect(t *testing.T) {
	then_ := BroadcastI32(6)
	else_ := BroadcastI32(-6)

	trueMask := BroadcastBool(true)
	falseMask := BroadcastBool(false)

	if got := Bitselect(then_, else_, trueMask).LaneI32(0); got != 6 {
		t.Fatalf("true mask: expected 6, got %d", got)
	}
	if got := Bitselect(then_, else_, falseMask).LaneI32(0); got != -6 {
		t.Fatalf("false mask: expected -6, got %d", got)
	}
}

func TestBitwiseXorAndnot(t *testing.T) {
	a := BroadcastI32(0x0F0F0F0F)
	b := BroadcastI32(0x00FF00FF)

	xor := Xor(a, b)
	if got := xor.LaneI32(0); got != 0x0FF00FF0 {
		t.Fatalf("Xor: expected 0x0FF00FF0, got %#x", uint32(got))
	}

	andnot := Andnot(a, b)
	if got := andnot.LaneI32(0); got != 0x0F000F00 {
		t.Fatalf("Andnot: expected 0x0F000F00, got %#x", uint32(got))
	}
}

func TestShiftLeftAndRightLogical(t *testing.T) {
	v := BroadcastI32(1)

	left := ShiftLeft(v, 4)
	for i := 0; i < Lanes; i++ {
		if got := left.LaneI32(i); got != 16 {
			t.Fatalf("ShiftLeft lane %d: expected 16, got %d", i, got)
		}
	}

	right := ShiftRightLogical(BroadcastI32(-1), 28)
	for i := 0; i < Lanes; i++ {
		if got := right.LaneI32(i); got != 0xF {
			t.Fatalf("ShiftRightLogical lane %d: expected 0xF, got %#x", i, uint32(got))
		}
	}
}

func TestReinterpretBitsAsF32IsBitPreserving(t *testing.T) {
	v := BroadcastI32(int32(0x3F800000)) // bit pattern of float32(1.0)
	r := ReinterpretBitsAsF32(v)
	if r.Low != v.Low || r.High != v.High {
		t.Fatalf("ReinterpretBitsAsF32 changed bits: got %+v, want %+v", r, v)
	}
	if got := r.LaneF32(0); got != 1.0 {
		t.Fatalf("expected reinterpreted lane to read as 1.0, got %v", got)
	}
}

func TestDivisorZeroDetection(t *testing.T) {
	allNonZero := BroadcastI32(2)
	if divisorZero(allNonZero) {
		t.Fatalf("expected no zero lane")
	}

	mixed := AddI32(BroadcastI32(0), BroadcastI32(0))
	if !divisorZero(mixed) {
		t.Fatalf("expected zero lane detected")
	}
}
