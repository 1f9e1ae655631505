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
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// cliConfig is the optional lanevm.toml the REPL loads on startup:
// read the file, unmarshal into a struct, wrap the error with the
// path.
type cliConfig struct {
	VM struct {
		EnableInstructionBudget bool   `toml:"enable_instruction_budget"`
		InstructionBudget       uint64 `toml:"instruction_budget"`
		EntropyOnReset          bool   `toml:"entropy_on_reset"`
	} `toml:"vm"`
}

func defaultCLIConfig() *cliConfig {
	return &cliConfig{}
}

// loadConfig parses lanevm.toml from dir. A missing file is not an
// error the caller needs to log loudly about; the REPL falls back to
// defaultCLIConfig.
func loadConfig(dir string) (*cliConfig, error) {
	path := filepath.Join(dir, "lanevm.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var cfg cliConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &cfg, nil
}
