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

// Package simint provides the small bit-arithmetic helpers the cache
// engine leans on for line/set/bank derivation: power-of-two tests,
// log2 of a power of two, and mask construction.
package simint

import "golang.org/x/exp/constraints"

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo[T constraints.Integer](n T) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns the base-2 logarithm of n, which must be a power of two.
// The result is undefined if n is not a power of two.
func Log2(n uint64) uint {
	var log uint
	for n > 1 {
		n >>= 1
		log++
	}
	return log
}

// Mask returns a bitmask that selects the low bits of a value modulo n,
// where n must be a power of two (n - 1 is therefore all ones below the
// highest set bit of n).
func Mask(n uint64) uint64 {
	return n - 1
}

// FastHash folds a 64-bit value to its low 16 bits by XORing its four
// 16-bit chunks, then reduces the result modulo max. This function's
// bit pattern is a wire contract for bank selection (see SPEC_FULL.md
// §4.1) and must never be altered.
func FastHash(line uint64, max uint32) uint32 {
	var h uint32
	for i := 0; i < 4; i++ {
		h ^= uint32((line >> (16 * i)) & 0xFFFF)
	}
	return h % max
}
