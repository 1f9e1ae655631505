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

// VM is one interpreter instance: it owns its stack, slot file, RNG
// state, program counter, and return buffer exclusively, and shares
// none of it across instances, so a host running kernels on multiple
// goroutines gives each one its own VM. It borrows its bytecode by
// reference; the host must keep the slice alive for the VM's lifetime.
type VM struct {
	bytecode []Instruction
	config   Config

	stack operandStack
	slots slotFile
	rng   rngState

	pc         int
	instrCount uint64

	returnKind ReturnKind
	returnSet  bool
	retVal     ReturnValue
}

// NewVM constructs a VM over bytecode with the given Config. pc, sp,
// all slots, and the return buffer start zeroed/empty; the RNG is
// seeded per config.Entropy.
func NewVM(bytecode []Instruction, config Config) *VM {
	vm := &VM{
		bytecode: bytecode,
		config:   config,
		stack:    newOperandStack(),
		rng:      newRNGState(config.Entropy),
	}
	return vm
}

// SetReturnType sets the return-value discriminant. Must be called
// before Run; a kernel that RETURNs without a prior call fails with
// ErrNoReturnType.
func (vm *VM) SetReturnType(k ReturnKind) {
	vm.returnKind = k
	vm.returnSet = true
}

// Reset restores the VM to a run-ready state: pc=0, sp=-1, all slots
// zeroed, return buffer zeroed, RNG re-seeded. SetReturnType must be
// called again after Reset if the next kernel needs one; the declared
// return type does not survive a reset.
func (vm *VM) Reset() {
	vm.pc = 0
	vm.instrCount = 0
	vm.stack.reset()
	vm.slots.reset()
	vm.rng.seed(vm.config.Entropy)
	vm.returnKind = 0
	vm.returnSet = false
	vm.retVal.reset()
}

// Run executes until a handler terminates the loop, and returns a
// reference to the internal return buffer. The pc starts wherever the
// VM currently sits: 0 at construction, 0 after Reset. Calling Run
// again after a completed run without an intervening Reset
// re-dispatches from the terminal pc, which for a well-formed kernel
// is the RETURN that just fired — callers should Reset between runs
// unless they specifically want that behavior.
func (vm *VM) Run() *ReturnValue {
	for {
		if vm.config.EnableInstructionBudget && vm.instrCount >= vm.config.InstructionBudget {
			vm.fail(fault(vm.pc, 0, ErrInstructionBudgetExceeded))
			return &vm.retVal
		}
		if vm.pc < 0 || vm.pc >= len(vm.bytecode) {
			vm.fail(fault(vm.pc, 0, ErrProgramCounterOutOfRange))
			return &vm.retVal
		}
		vm.instrCount++

		ins := vm.bytecode[vm.pc]
		terminal, err := vm.executeInstruction(ins)
		if err != nil {
			vm.fail(fault(vm.pc, ins.Op, err))
			return &vm.retVal
		}
		if terminal {
			return &vm.retVal
		}
		vm.pc++
	}
}

func (vm *VM) fail(f *Fault) {
	vm.retVal.Kind = KernelError
	vm.retVal.data = Vector{}
	vm.retVal.err = f
}

// executeInstruction dispatches ins to its handler. The bool result
// reports whether the loop should terminate (true only for RETURN); a
// non-nil error always terminates the loop as a failure regardless of
// the bool.
func (vm *VM) executeInstruction(ins Instruction) (terminal bool, err error) {
	switch ins.Op {
	case PushConst:
		return false, vm.opPushConst(ins)
	case LoadVar:
		return false, vm.opLoadVar(ins)
	case StoreVar:
		return false, vm.opStoreVar(ins)
	case Add:
		return false, vm.opBinary(ins, AddI32, AddF32)
	case Sub:
		return false, vm.opBinary(ins, SubI32, SubF32)
	case Mul:
		return false, vm.opBinary(ins, MulI32, MulF32)
	case Div:
		return false, vm.opDiv(ins)
	case Mod:
		return false, vm.opMod(ins)
	case CmpLt:
		return false, vm.opBinary(ins, CmpLtI32, CmpLtF32)
	case CmpLte:
		return false, vm.opBinary(ins, CmpLteI32, CmpLteF32)
	case CmpGt:
		return false, vm.opBinary(ins, CmpGtI32, CmpGtF32)
	case CmpGte:
		return false, vm.opBinary(ins, CmpGteI32, CmpGteF32)
	case CmpEq:
		return false, vm.opBinary(ins, CmpEqI32, CmpEqF32)
	case CmpNe:
		return false, vm.opBinary(ins, CmpNeI32, CmpNeF32)
	case And_:
		return false, vm.opBoolBinary(ins, And)
	case Or_:
		return false, vm.opBoolBinary(ins, Or)
	case Not_:
		return false, vm.opNot(ins)
	case Select:
		return false, vm.opSelect(ins)
	case Rand:
		return false, vm.opRand()
	case Return:
		err := vm.opReturn(ins)
		return err == nil, err
	default:
		return false, ErrTypeMismatch
	}
}

func (vm *VM) opPushConst(ins Instruction) error {
	var v Vector
	switch ins.Type {
	case I32:
		v = BroadcastI32(ins.Payload.I32)
	case F32:
		v = BroadcastF32(ins.Payload.F32)
	case Bool:
		v = BroadcastBool(ins.Payload.Bool)
	default:
		return ErrTypeMismatch
	}
	return vm.stack.push(v)
}

func (vm *VM) opLoadVar(ins Instruction) error {
	v, err := vm.slots.load(ins.Type, ins.Payload.Slot)
	if err != nil {
		return err
	}
	return vm.stack.push(v)
}

func (vm *VM) opStoreVar(ins Instruction) error {
	v, err := vm.stack.pop()
	if err != nil {
		return err
	}
	return vm.slots.store(ins.Type, ins.Payload.Slot, v)
}

// opBinary implements the common "pop 1, result replaces Top-1" shape
// shared by ADD/SUB/MUL/CMP_*, accepting I32 and F32 only.
func (vm *VM) opBinary(ins Instruction, i32Op, f32Op func(a, b Vector) Vector) error {
	if err := vm.stack.requireDepth(2); err != nil {
		return err
	}
	a, b := vm.stack.top(1), vm.stack.top(0)
	var result Vector
	switch ins.Type {
	case I32:
		result = i32Op(a, b)
	case F32:
		result = f32Op(a, b)
	default:
		return ErrTypeMismatch
	}
	vm.stack.dropReplace(2, result)
	return nil
}

func (vm *VM) opDiv(ins Instruction) error {
	if err := vm.stack.requireDepth(2); err != nil {
		return err
	}
	a, b := vm.stack.top(1), vm.stack.top(0)
	var result Vector
	switch ins.Type {
	case I32:
		if divisorZero(b) {
			return ErrDivideByZero
		}
		result = DivI32(a, b)
	case F32:
		result = DivF32(a, b)
	default:
		return ErrTypeMismatch
	}
	vm.stack.dropReplace(2, result)
	return nil
}

func (vm *VM) opMod(ins Instruction) error {
	if ins.Type != I32 {
		return ErrTypeMismatch
	}
	if err := vm.stack.requireDepth(2); err != nil {
		return err
	}
	a, b := vm.stack.top(1), vm.stack.top(0)
	if divisorZero(b) {
		return ErrDivideByZero
	}
	vm.stack.dropReplace(2, ModI32(a, b))
	return nil
}

func (vm *VM) opBoolBinary(ins Instruction, op func(a, b Vector) Vector) error {
	if ins.Type != Bool {
		return ErrTypeMismatch
	}
	if err := vm.stack.requireDepth(2); err != nil {
		return err
	}
	a, b := vm.stack.top(1), vm.stack.top(0)
	vm.stack.dropReplace(2, op(a, b))
	return nil
}

func (vm *VM) opNot(ins Instruction) error {
	if ins.Type != Bool {
		return ErrTypeMismatch
	}
	if err := vm.stack.requireDepth(1); err != nil {
		return err
	}
	vm.stack.data[vm.stack.sp] = Not(vm.stack.top(0))
	return nil
}

func (vm *VM) opSelect(ins Instruction) error {
	switch ins.Type {
	case I32, F32, Bool:
	default:
		return ErrTypeMismatch
	}
	if err := vm.stack.requireDepth(3); err != nil {
		return err
	}
	mask, then, else_ := vm.stack.top(2), vm.stack.top(1), vm.stack.top(0)
	vm.stack.dropReplace(3, Bitselect(then, else_, mask))
	return nil
}

func (vm *VM) opRand() error {
	return vm.stack.push(vm.rng.next())
}

func (vm *VM) opReturn(ins Instruction) error {
	if !vm.returnSet || vm.returnKind == KernelError {
		return ErrNoReturnType
	}
	if vm.stack.size() < 1 {
		return ErrEmptyStackOnReturn
	}
	v, err := vm.stack.pop()
	if err != nil {
		return err
	}
	vm.retVal.Kind = vm.returnKind
	vm.retVal.data = v
	vm.retVal.err = nil
	return nil
}
