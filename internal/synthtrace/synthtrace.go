// Copyright (C) 2024 Cachetrace, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package synthtrace generates deterministic synthetic
// (address, is_write) traces for tests. It takes an explicit
// *rand.Rand rather than math/rand's global source, the same
// explicit-source discipline the teacher's ints.RandomFillSlice uses
// for crypto/rand, so a seed fully determines a trace's output.
//
// This package is only ever imported from _test.go files; it is not
// part of the measurement tool's public surface (trace ingestion is
// out of scope for this module; see SPEC_FULL.md).
package synthtrace

import "math/rand"

// Access is one simulated memory reference.
type Access struct {
	Address uint64
	IsWrite bool
}

// Sequential returns a trace of n reads at addresses
// start, start+stride, start+2*stride, ...
func Sequential(start, stride uint64, n int) []Access {
	out := make([]Access, n)
	addr := start
	for i := range out {
		out[i] = Access{Address: addr}
		addr += stride
	}
	return out
}

// Repeat concatenates times copies of seq.
func Repeat(seq []Access, times int) []Access {
	out := make([]Access, 0, len(seq)*times)
	for i := 0; i < times; i++ {
		out = append(out, seq...)
	}
	return out
}

// WithWrites returns a copy of seq where accesses at positions for
// which isWrite(index) is true are marked as writes.
func WithWrites(seq []Access, isWrite func(index int) bool) []Access {
	out := make([]Access, len(seq))
	copy(out, seq)
	for i := range out {
		out[i].IsWrite = isWrite(i)
	}
	return out
}

// Random returns n accesses with addresses uniformly distributed
// across [0, addrSpace) and a per-access write probability of
// writeProb, drawn from rng.
func Random(rng *rand.Rand, n int, addrSpace uint64, writeProb float64) []Access {
	out := make([]Access, n)
	for i := range out {
		out[i] = Access{
			Address: uint64(rng.Int63n(int64(addrSpace))),
			IsWrite: rng.Float64() < writeProb,
		}
	}
	return out
}
