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

import (
	"bufio"
	"fmt"
	"io"
)

// Stats is a point-in-time snapshot of a SingleLevelCache's counters,
// with percentages filled in by ComputeStats.
type Stats struct {
	ReadHits     int64
	ReadMisses   int64
	WriteHits    int64
	WriteMisses  int64
	Evictions    int64
	Reads        int64
	Writes       int64
	ReadHitPct   float64
	ReadMissPct  float64
	WriteHitPct  float64
	WriteMissPct float64
	EvictionPct  float64
}

func pct(num, denom int64) float64 {
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom) * 100
}

func computeStats(rh, rm, wh, wm, ne int64) Stats {
	nr := rh + rm
	nw := wh + wm
	return Stats{
		ReadHits:     rh,
		ReadMisses:   rm,
		WriteHits:    wh,
		WriteMisses:  wm,
		Evictions:    ne,
		Reads:        nr,
		Writes:       nw,
		ReadHitPct:   pct(rh, nr),
		ReadMissPct:  pct(rm, nr),
		WriteHitPct:  pct(wh, nw),
		WriteMissPct: pct(wm, nw),
		EvictionPct:  pct(ne, rm+wm),
	}
}

// WriteText renders s in the §6 tab-separated format, appending to w.
func (s Stats) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "------------ Cache Statistics ------------")
	fmt.Fprintf(bw, "READ_HITS\t%d (%.2f%%)\n", s.ReadHits, s.ReadHitPct)
	fmt.Fprintf(bw, "WRITE_HITS\t%d (%.2f%%)\n", s.WriteHits, s.WriteHitPct)
	fmt.Fprintf(bw, "READ_MISSES\t%d (%.2f%%)\n", s.ReadMisses, s.ReadMissPct)
	fmt.Fprintf(bw, "WRITE_MISSES\t%d (%.2f%%)\n", s.WriteMisses, s.WriteMissPct)
	fmt.Fprintf(bw, "EVICTIONS\t%d (%.2f%%)\n", s.Evictions, s.EvictionPct)
	return bw.Flush()
}

// TwoLevelStats is a point-in-time snapshot of a TwoLevelCache's
// counters. The six counters are mutually exclusive per access; see
// TwoLevelCache.Access.
type TwoLevelStats struct {
	L1ReadHits    int64
	L1WriteHits   int64
	L2ReadHits    int64
	L2WriteHits   int64
	L2ReadMisses  int64
	L2WriteMisses int64
	Reads         int64
	Writes        int64
	L1ReadHitPct  float64
	L1WriteHitPct float64
	L2ReadHitPct  float64
	L2WriteHitPct float64
	MemReadPct    float64
	MemWritePct   float64
}

func computeTwoLevelStats(l1rh, l1wh, l2rh, l2wh, l2rm, l2wm int64) TwoLevelStats {
	reads := l1rh + l2rh + l2rm
	writes := l1wh + l2wh + l2wm
	return TwoLevelStats{
		L1ReadHits:    l1rh,
		L1WriteHits:   l1wh,
		L2ReadHits:    l2rh,
		L2WriteHits:   l2wh,
		L2ReadMisses:  l2rm,
		L2WriteMisses: l2wm,
		Reads:         reads,
		Writes:        writes,
		L1ReadHitPct:  pct(l1rh, reads),
		L1WriteHitPct: pct(l1wh, writes),
		L2ReadHitPct:  pct(l2rh, reads),
		L2WriteHitPct: pct(l2wh, writes),
		MemReadPct:    pct(l2rm, reads),
		MemWritePct:   pct(l2wm, writes),
	}
}

// WriteText renders s as three lines, L1/L2/Mem, each with read- and
// write-hit (or miss, for Mem) counts and percentages. spec.md §6
// leaves the two-level layout to "the source layout"; this is the
// layout this module standardizes on.
func (s TwoLevelStats) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "------------ Cache Statistics ------------")
	fmt.Fprintf(bw, "L1:\tRH=%d (%.2f%%)\tWH=%d (%.2f%%)\n", s.L1ReadHits, s.L1ReadHitPct, s.L1WriteHits, s.L1WriteHitPct)
	fmt.Fprintf(bw, "L2:\tRH=%d (%.2f%%)\tWH=%d (%.2f%%)\n", s.L2ReadHits, s.L2ReadHitPct, s.L2WriteHits, s.L2WriteHitPct)
	fmt.Fprintf(bw, "Mem:\tRM=%d (%.2f%%)\tWM=%d (%.2f%%)\n", s.L2ReadMisses, s.MemReadPct, s.L2WriteMisses, s.MemWritePct)
	return bw.Flush()
}
