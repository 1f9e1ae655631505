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
	"io"
	"math"
)

// defaultSeed is the reference fixed seed vector for LANES=4. Lanes
// are uncorrelated because these four seeds are distinct.
var defaultSeed = [Lanes]uint32{0x12345678, 0x87654321, 0xCAFEBABE, 0xDEADBEEF}

// rngState is one xorshift32 register per lane.
type rngState struct {
	x [Lanes]uint32
}

func newRNGState(entropy io.Reader) rngState {
	var s rngState
	s.seed(entropy)
	return s
}

// seed re-initializes every lane. With entropy == nil (the default) it
// reproduces the fixed reference seed, giving a deterministic reseed.
// A non-nil entropy source (e.g. crypto/rand.Reader) draws LANES fresh
// 32-bit seeds instead, for a host that wants reseeding from real
// entropy. A zero seed is folded to a nonzero value: xorshift32 is
// stuck at zero forever otherwise.
func (s *rngState) seed(entropy io.Reader) {
	if entropy == nil {
		s.x = defaultSeed
		return
	}
	var buf [4]byte
	for i := range s.x {
		if _, err := io.ReadFull(entropy, buf[:]); err != nil {
			s.x[i] = defaultSeed[i]
			continue
		}
		v := binary.LittleEndian.Uint32(buf[:])
		if v == 0 {
			v = defaultSeed[i]
		}
		s.x[i] = v
	}
}

// next advances every lane's xorshift32 register and returns a
// Lanes-wide F32 vector with each lane independently in [0.0, 1.0),
// built by splicing the generator's high bits into a float32
// mantissa and subtracting 1.0.
func (s *rngState) next() Vector {
	var buf [16]byte
	for i := range s.x {
		x := s.x[i]
		x ^= x << 13
		x ^= x >> 17
		x ^= x << 5
		s.x[i] = x
		bits := (x >> 9) | 0x3F800000
		f := math.Float32frombits(bits) - 1.0
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	return vectorFromBytes(buf)
}
