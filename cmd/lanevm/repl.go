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
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lane-vm/kernel/lanevm"
	"github.com/lane-vm/kernel/lanevmasm"
)

const (
	prompt     = "lanevm>> "
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorReset = "\033[0m"
)

var errNoKernelLoaded = errors.New("no kernel loaded; use ASM first")

type repl struct {
	cliConfig  *cliConfig
	scanner    *bufio.Scanner
	vm         *lanevm.VM
	kernel     []lanevm.Instruction
	returnType lanevm.ReturnKind
}

func (r *repl) run() {
	fmt.Print(prompt)
	for r.scanner.Scan() {
		line := r.scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			fmt.Print(prompt)
			continue
		}

		cmd := strings.ToUpper(parts[0])
		args := parts[1:]
		var err error

		switch cmd {
		case "ASM":
			err = r.handleAsm(args)
		case "SET_RETURN":
			err = r.handleSetReturn(args)
		case "RUN":
			err = r.handleRun()
		case "RESET":
			r.handleReset()
		case "LIST":
			r.handleList()
		case "HELP":
			r.handleHelp()
		case "CLEAR":
			r.reset()
		case "QUIT":
			os.Exit(0)
		default:
			fmt.Fprintln(os.Stderr, red(fmt.Sprintf("Error: unknown command: %s", parts[0])))
		}

		if err != nil {
			fmt.Fprintln(os.Stderr, red(fmt.Sprintf("Error: %s", err)))
		}
		fmt.Print(prompt)
	}
}

// handleAsm reads a kernel from a file path and assembles it,
// replacing any previously loaded kernel and constructing a fresh VM
// over it using the CLI's configured safety net.
func (r *repl) handleAsm(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ASM <path-to-kernel-file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	instructions, err := lanevmasm.Assemble(string(data))
	if err != nil {
		return err
	}

	r.kernel = instructions
	r.vm = lanevm.NewVM(r.kernel, r.vmConfig())
	Logger().Sugar().Infof("kernel loaded: %d instructions from %s", len(instructions), args[0])
	fmt.Println(green(fmt.Sprintf("assembled %d instructions", len(instructions))))
	return nil
}

func (r *repl) vmConfig() lanevm.Config {
	cfg := lanevm.DefaultConfig()
	if r.cliConfig != nil {
		cfg.EnableInstructionBudget = r.cliConfig.VM.EnableInstructionBudget
		cfg.InstructionBudget = r.cliConfig.VM.InstructionBudget
		if r.cliConfig.VM.EntropyOnReset {
			cfg.Entropy = rand.Reader
		}
	}
	return cfg
}

func (r *repl) handleSetReturn(args []string) error {
	if r.vm == nil {
		return errNoKernelLoaded
	}
	if len(args) != 1 {
		return errors.New("usage: SET_RETURN <I32|F32|BOOL>")
	}
	t, ok := lanevm.TypeFromString(strings.ToUpper(args[0]))
	if !ok {
		return fmt.Errorf("unknown type %q", args[0])
	}
	switch t {
	case lanevm.I32:
		r.returnType = lanevm.KernelI32
	case lanevm.F32:
		r.returnType = lanevm.KernelF32
	case lanevm.Bool:
		r.returnType = lanevm.KernelBool
	}
	r.vm.SetReturnType(r.returnType)
	return nil
}

func (r *repl) handleRun() error {
	if r.vm == nil {
		return errNoKernelLoaded
	}
	start := time.Now()
	result := r.vm.Run()
	elapsed := time.Since(start)
	Logger().Sugar().Infof("run completed in %s: %s", elapsed, result)

	if result.Kind == lanevm.KernelError {
		return fmt.Errorf("kernel failed: %v", result.Err())
	}
	fmt.Println(green(result.String()))
	return nil
}

func (r *repl) handleReset() {
	if r.vm == nil {
		fmt.Fprintln(os.Stderr, red("Error: "+errNoKernelLoaded.Error()))
		return
	}
	r.vm.Reset()
	r.vm.SetReturnType(r.returnType)
	Logger().Sugar().Info("vm reset")
	fmt.Println(green("reset"))
}

func (r *repl) handleList() {
	if r.kernel == nil {
		fmt.Fprintln(os.Stderr, red("Error: "+errNoKernelLoaded.Error()))
		return
	}
	fmt.Print(lanevmasm.Disassemble(r.kernel))
}

func (r *repl) handleHelp() {
	helpText := `
Commands:
  ASM <path-to-kernel-file>
  SET_RETURN <I32|F32|BOOL>
  RUN
  RESET
  LIST
  HELP
  CLEAR
  QUIT
`
	fmt.Println(strings.TrimSpace(helpText))
}

func (r *repl) reset() {
	fmt.Print("\033[H\033[2J")
	r.vm = nil
	r.kernel = nil
	r.returnType = lanevm.KernelI32
}

func red(s string) string   { return fmt.Sprintf("%s%s%s", colorRed, s, colorReset) }
func green(s string) string { return fmt.Sprintf("%s%s%s", colorGreen, s, colorReset) }
