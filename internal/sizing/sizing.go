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

// Package sizing provides construction-time sizing advice for a cache
// configuration. It is advisory only: a caller can always pick n_lines
// directly, and NewSingle/NewTwoLevel re-validate whatever value is
// actually passed regardless of how it was chosen.
package sizing

// SuggestLineCount proposes a value for n_lines that fits within
// budgetBytes for the given line size and associativity, rounded down
// to satisfy the same constraints construction enforces: divisible by
// ways, and (n_lines/ways) a power of two (i.e. assuming a single
// bank; a caller splitting the result across banks should divide
// further and round down again).
//
// It returns 0 if the budget can't fit even one set.
func SuggestLineCount(budgetBytes int64, lineBytes, ways int) int {
	if budgetBytes <= 0 || lineBytes <= 0 || ways <= 0 {
		return 0
	}
	lines := budgetBytes / int64(lineBytes)
	sets := lines / int64(ways)
	if sets <= 0 {
		return 0
	}
	sets = prevPowerOfTwo(sets)
	return int(sets) * ways
}

// prevPowerOfTwo returns the largest power of two <= n, for n > 0.
func prevPowerOfTwo(n int64) int64 {
	p := int64(1)
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
