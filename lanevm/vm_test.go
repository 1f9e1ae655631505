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
	"errors"
	"testing"
)

func pushI32(v int32) Instruction   { return Instruction{Op: PushConst, Type: I32, Payload: I32Payload(v)} }
func pushF32(v float32) Instruction { return Instruction{Op: PushConst, Type: F32, Payload: F32Payload(v)} }
func pushBool(v bool) Instruction   { return Instruction{Op: PushConst, Type: Bool, Payload: BoolPayload(v)} }
func storeVar(t Type, slot int) Instruction {
	return Instruction{Op: StoreVar, Type: t, Payload: SlotPayload(slot)}
}
func loadVar(t Type, slot int) Instruction {
	return Instruction{Op: LoadVar, Type: t, Payload: SlotPayload(slot)}
}
func binOp(op Opcode, t Type) Instruction { return Instruction{Op: op, Type: t} }
func ret() Instruction                    { return Instruction{Op: Return} }

func runKernel(t *testing.T, kind ReturnKind, instructions ...Instruction) *ReturnValue {
	t.Helper()
	vm := NewVM(instructions, DefaultConfig())
	vm.SetReturnType(kind)
	return vm.Run()
}

// scenario 1
func TestPushConstReturnI32(t *testing.T) {
	rv := runKernel(t, KernelI32, pushI32(15), ret())
	if rv.Kind != KernelI32 {
		t.Fatalf("expected KernelI32, got %v (%v)", rv.Kind, rv.Err())
	}
	for i, v := range rv.I32() {
		if v != 15 {
			t.Fatalf("lane %d: expected 15, got %d", i, v)
		}
	}
}

// scenario 2: (((5*5 + 3) mod 10) − 2) / 2 = 3
func TestArithmeticChain(t *testing.T) {
	rv := runKernel(t, KernelI32,
		pushI32(5), storeVar(I32, 0),
		pushI32(5),
		loadVar(I32, 0), loadVar(I32, 0), binOp(Mul, I32),
		pushI32(3), binOp(Add, I32),
		pushI32(10), binOp(Mod, I32),
		pushI32(2), storeVar(I32, 1),
		loadVar(I32, 1), binOp(Sub, I32),
		pushI32(2), binOp(Div, I32),
		ret(),
	)
	if rv.Kind != KernelI32 {
		t.Fatalf("expected KernelI32, got %v (%v)", rv.Kind, rv.Err())
	}
	for i, v := range rv.I32() {
		if v != 3 {
			t.Fatalf("lane %d: expected 3, got %d", i, v)
		}
	}
}

// scenario 3
func TestDivByZeroFails(t *testing.T) {
	rv := runKernel(t, KernelI32, pushI32(1), pushI32(0), binOp(Div, I32), ret())
	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrDivideByZero) {
		t.Fatalf("expected ErrDivideByZero, got %v", rv.Err())
	}
}

// scenario 4
func TestStackOverflowFails(t *testing.T) {
	instructions := make([]Instruction, 0, MaxStack+2)
	for i := 0; i < MaxStack+1; i++ {
		instructions = append(instructions, pushI32(1))
	}
	instructions = append(instructions, ret())

	vm := NewVM(instructions, DefaultConfig())
	vm.SetReturnType(KernelI32)
	rv := vm.Run()

	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrStackOverflow) {
		t.Fatalf("expected ErrStackOverflow, got %v", rv.Err())
	}
}

// scenario 5
func TestSelectIdentity(t *testing.T) {
	rvTrue := runKernel(t, KernelI32, pushBool(true), pushI32(6), pushI32(-6), binOp(Select, I32), ret())
	if rvTrue.Kind != KernelI32 || rvTrue.I32()[0] != 6 {
		t.Fatalf("true mask: expected KernelI32(6), got %v", rvTrue)
	}

	rvFalse := runKernel(t, KernelI32, pushBool(false), pushI32(6), pushI32(-6), binOp(Select, I32), ret())
	if rvFalse.Kind != KernelI32 || rvFalse.I32()[0] != -6 {
		t.Fatalf("false mask: expected KernelI32(-6), got %v", rvFalse)
	}
}

// scenario 6
func TestBoolAndOr(t *testing.T) {
	rvAnd := runKernel(t, KernelBool, pushBool(true), pushBool(false), binOp(And_, Bool), ret())
	if rvAnd.Kind != KernelBool || rvAnd.Bool()[0] != false {
		t.Fatalf("AND: expected KernelBool(false), got %v", rvAnd)
	}

	rvOr := runKernel(t, KernelBool, pushBool(true), pushBool(false), binOp(Or_, Bool), ret())
	if rvOr.Kind != KernelBool || rvOr.Bool()[0] != true {
		t.Fatalf("OR: expected KernelBool(true), got %v", rvOr)
	}
}

// scenario 7
func TestRandRange(t *testing.T) {
	rv := runKernel(t, KernelF32, Instruction{Op: Rand}, ret())
	if rv.Kind != KernelF32 {
		t.Fatalf("expected KernelF32, got %v (%v)", rv.Kind, rv.Err())
	}
	for i, v := range rv.F32() {
		if v < 0.0 || v >= 1.0 {
			t.Fatalf("lane %d: expected value in [0,1), got %v", i, v)
		}
	}
}

func TestLoadVarRoundTrip(t *testing.T) {
	rv := runKernel(t, KernelI32, pushI32(42), storeVar(I32, 5), loadVar(I32, 5), ret())
	if rv.Kind != KernelI32 || rv.I32()[0] != 42 {
		t.Fatalf("expected KernelI32(42), got %v", rv)
	}
}

func TestSlotIndexOutOfRangeFails(t *testing.T) {
	rv := runKernel(t, KernelI32, pushI32(1), storeVar(I32, MaxSlots), ret())
	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrSlotOutOfRange) {
		t.Fatalf("expected ErrSlotOutOfRange, got %v", rv.Err())
	}
}

func TestReturnWithEmptyStackFails(t *testing.T) {
	rv := runKernel(t, KernelI32, ret())
	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrEmptyStackOnReturn) {
		t.Fatalf("expected ErrEmptyStackOnReturn, got %v", rv.Err())
	}
}

func TestReturnWithoutSetReturnTypeFails(t *testing.T) {
	vm := NewVM([]Instruction{pushI32(1), ret()}, DefaultConfig())
	rv := vm.Run()
	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrNoReturnType) {
		t.Fatalf("expected ErrNoReturnType, got %v", rv.Err())
	}
}

func TestTypeMismatchFails(t *testing.T) {
	rv := runKernel(t, KernelI32, pushBool(true), pushBool(false), binOp(Add, Bool), ret())
	if rv.Kind != KernelError {
		t.Fatalf("expected KernelError, got %v", rv.Kind)
	}
	if !errors.Is(Cause(rv.Err()), ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", rv.Err())
	}
}

func TestOrderingDuality(t *testing.T) {
	a, b := int32(3), int32(7)
	lt := runKernel(t, KernelBool, pushI32(a), pushI32(b), binOp(CmpLt, I32), ret())
	gt := runKernel(t, KernelBool, pushI32(b), pushI32(a), binOp(CmpGt, I32), ret())
	if lt.Bool() != gt.Bool() {
		t.Fatalf("CMP_LT(a,b) != CMP_GT(b,a): %v vs %v", lt.Bool(), gt.Bool())
	}

	lte := runKernel(t, KernelBool, pushI32(a), pushI32(b), binOp(CmpLte, I32), ret())
	gtRaw := runKernel(t, KernelBool, pushI32(a), pushI32(b), binOp(CmpGt, I32), ret())
	for i := range lte.Bool() {
		if lte.Bool()[i] == gtRaw.Bool()[i] {
			t.Fatalf("CMP_LTE(a,b) should equal NOT CMP_GT(a,b) at lane %d", i)
		}
	}
}

func TestResetIdempotence(t *testing.T) {
	instructions := []Instruction{{Op: Rand}, ret()}
	vm := NewVM(instructions, DefaultConfig())
	vm.SetReturnType(KernelF32)
	first := *vm.Run()

	vm.Reset()
	vm.SetReturnType(KernelF32)
	second := *vm.Run()

	if first.F32() != second.F32() {
		t.Fatalf("expected identical results after reset, got %v vs %v", first.F32(), second.F32())
	}
}

func TestStackPointerInvariant(t *testing.T) {
	vm := NewVM([]Instruction{pushI32(1), pushI32(2), binOp(Add, I32), ret()}, DefaultConfig())
	vm.SetReturnType(KernelI32)
	vm.Run()
	if vm.stack.sp < -1 || vm.stack.sp >= MaxStack {
		t.Fatalf("stack pointer invariant violated: sp=%d", vm.stack.sp)
	}
}
