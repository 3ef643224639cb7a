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

// Package simcache simulates set-associative, write-allocate (or
// write-only-allocate) LRU CPU caches against a caller-supplied
// stream of (address, is_write) references. It reports hit/miss
// counters and a per-line miss histogram; it does not execute
// programs, move data, or model timing.
//
// Two composable engines are provided: SingleLevelCache, one banked
// set-associative LRU level, and TwoLevelCache, an inclusive
// L1/L2 pair built from the same recency primitives (an L2 eviction
// does not invalidate the line in L1). Both are single-threaded and
// synchronous: one instance serves one access at a time, and Access
// never blocks. The set structures are preallocated at construction;
// the one allocation Access makes is SingleLevelCache's miss-log entry
// for a line that has not missed since the last ZeroCounters.
package simcache
