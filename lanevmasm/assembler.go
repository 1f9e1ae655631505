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

// Package lanevmasm assembles a small line-oriented mnemonic text
// format into lanevm.Instruction values. It sits entirely outside the
// interpreter core: the core only ever consumes an already-formed
// []lanevm.Instruction, never raw text.
package lanevmasm

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lane-vm/kernel/lanevm"
)

// ParseError reports the source line an assembly failure occurred on.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lanevmasm: line %d: %v (%q)", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errMissingOperand  = errors.New("missing operand")
	errUnknownMnemonic = errors.New("unknown opcode mnemonic")
	errUnknownType     = errors.New("unknown type tag")
	errBadImmediate    = errors.New("malformed immediate")
)

// Assemble parses one instruction per non-blank, non-comment line of
// src. Comments start with '#' and run to end of line. A well-formed
// line is `OPCODE [TYPE] [OPERAND]`; the operand is a slot index for
// LOAD_VAR/STORE_VAR, or a literal for PUSH_CONST. Opcodes that take
// neither TYPE nor an operand (RAND, NOT, AND, OR, RETURN) may still
// carry a TYPE where the opcode itself requires one (AND, OR, NOT are
// always BOOL and the type may be omitted).
func Assemble(src string) ([]lanevm.Instruction, error) {
	var out []lanevm.Instruction
	scanner := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := stripComment(scanner.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		ins, err := assembleLine(fields)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: strings.TrimSpace(line), Err: err}
		}
		out = append(out, ins)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func stripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		return line[:i]
	}
	return line
}

func assembleLine(fields []string) (lanevm.Instruction, error) {
	op, ok := lanevm.OpcodeFromString(fields[0])
	if !ok {
		return lanevm.Instruction{}, errUnknownMnemonic
	}
	rest := fields[1:]

	switch op {
	case lanevm.Rand, lanevm.Return:
		return lanevm.Instruction{Op: op}, nil
	case lanevm.Not_, lanevm.And_, lanevm.Or_:
		return lanevm.Instruction{Op: op, Type: lanevm.Bool}, nil
	case lanevm.Add, lanevm.Sub, lanevm.Mul, lanevm.Div,
		lanevm.CmpLt, lanevm.CmpLte, lanevm.CmpGt, lanevm.CmpGte, lanevm.CmpEq, lanevm.CmpNe,
		lanevm.Select:
		t, err := parseType(rest)
		if err != nil {
			return lanevm.Instruction{}, err
		}
		return lanevm.Instruction{Op: op, Type: t}, nil
	case lanevm.Mod:
		return lanevm.Instruction{Op: op, Type: lanevm.I32}, nil
	case lanevm.LoadVar, lanevm.StoreVar:
		t, rest, err := takeType(rest)
		if err != nil {
			return lanevm.Instruction{}, err
		}
		slot, err := takeInt(rest)
		if err != nil {
			return lanevm.Instruction{}, err
		}
		return lanevm.Instruction{Op: op, Type: t, Payload: lanevm.SlotPayload(slot)}, nil
	case lanevm.PushConst:
		t, rest, err := takeType(rest)
		if err != nil {
			return lanevm.Instruction{}, err
		}
		if len(rest) == 0 {
			return lanevm.Instruction{}, errMissingOperand
		}
		switch t {
		case lanevm.I32:
			v, err := strconv.ParseInt(rest[0], 10, 32)
			if err != nil {
				return lanevm.Instruction{}, fmt.Errorf("%w: %v", errBadImmediate, err)
			}
			return lanevm.Instruction{Op: op, Type: t, Payload: lanevm.I32Payload(int32(v))}, nil
		case lanevm.F32:
			v, err := strconv.ParseFloat(rest[0], 32)
			if err != nil {
				return lanevm.Instruction{}, fmt.Errorf("%w: %v", errBadImmediate, err)
			}
			return lanevm.Instruction{Op: op, Type: t, Payload: lanevm.F32Payload(float32(v))}, nil
		case lanevm.Bool:
			v, err := strconv.ParseBool(rest[0])
			if err != nil {
				return lanevm.Instruction{}, fmt.Errorf("%w: %v", errBadImmediate, err)
			}
			return lanevm.Instruction{Op: op, Type: t, Payload: lanevm.BoolPayload(v)}, nil
		}
		return lanevm.Instruction{}, errUnknownType
	default:
		return lanevm.Instruction{}, errUnknownMnemonic
	}
}

func parseType(fields []string) (lanevm.Type, error) {
	if len(fields) == 0 {
		return 0, errMissingOperand
	}
	t, ok := lanevm.TypeFromString(fields[0])
	if !ok {
		return 0, errUnknownType
	}
	return t, nil
}

func takeType(fields []string) (lanevm.Type, []string, error) {
	t, err := parseType(fields)
	if err != nil {
		return 0, nil, err
	}
	return t, fields[1:], nil
}

func takeInt(fields []string) (int, error) {
	if len(fields) == 0 {
		return 0, errMissingOperand
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadImmediate, err)
	}
	return v, nil
}

// Disassemble renders instructions back to the mnemonic text format,
// one instruction per line, for the REPL's LIST command and test
// failure messages.
func Disassemble(instructions []lanevm.Instruction) string {
	var b strings.Builder
	for _, ins := range instructions {
		b.WriteString(ins.String())
		b.WriteByte('\n')
	}
	return b.String()
}
