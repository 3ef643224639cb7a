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

package simcache

import "github.com/cachetrace/simcache/internal/sizing"

// SuggestLineCount proposes a value for n_lines that fits within
// budgetBytes for the given line size and associativity, rounded down
// to a value NewSingle/NewSingleFromConfig will accept for a
// single-bank configuration (a caller splitting the result across
// banks should divide further and round down again). It returns 0 if
// the budget can't fit even one set.
//
// This is advisory only: New* always re-validates whatever n_lines is
// actually passed, regardless of how it was chosen.
func SuggestLineCount(budgetBytes int64, lineBytes, ways int) int {
	return sizing.SuggestLineCount(budgetBytes, lineBytes, ways)
}

// AvailableBudget returns a byte budget suitable for SuggestLineCount:
// the current cgroup's memory.max if one is configured, otherwise the
// host's available memory. See internal/sizing for the platform-
// specific fallback chain; it returns (0, nil) on platforms other
// than Linux.
func AvailableBudget() (int64, error) {
	return sizing.AvailableBudget()
}
