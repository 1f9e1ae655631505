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
	"os"
	"os/signal"
	"syscall"
)

func main() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		os.Exit(0)
	}()

	cfg, err := loadConfig(".")
	if err != nil {
		Logger().Sugar().Warnf("lanevm.toml: %v; continuing with defaults", err)
		cfg = defaultCLIConfig()
	}

	repl := &repl{
		cliConfig: cfg,
		scanner:   bufio.NewScanner(os.Stdin),
	}
	repl.reset()
	repl.run()
}
