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

//go:build !linux

package sizing

// AvailableBudget returns 0 on non-Linux hosts. Only Linux is
// supported for memory introspection; the zero result should be
// ignored by callers (the same contract the teacher's own
// /proc/meminfo reader documents for non-Linux platforms).
func AvailableBudget() (int64, error) {
	return 0, nil
}
