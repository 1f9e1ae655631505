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
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the package-level logger, defaulting to a no-op
// logger until SetLogger installs a real one. The interpreter core
// itself never logs; only the CLI's own lifecycle events (kernel
// loaded, run duration, reset) go through this.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger installs l as the package-level logger. Every later
// Logger() call returns l, whether or not Logger was called before;
// Logger only falls back to the no-op default while none is set.
func SetLogger(l *zap.Logger) {
	logger = l
}
