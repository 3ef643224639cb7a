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
	"fmt"
	"io"
	"os"

	"github.com/cachetrace/simcache/internal/lruset"
	"github.com/cachetrace/simcache/internal/simint"
)

// TwoLevelCache composes an L1 (single-bank) and an L2 (banked) into an
// inclusive pair, per SPEC_FULL.md §4.2. Both levels are
// touched unconditionally on every access and both admit
// unconditionally (allocate-on-any-access, LRU); neither maintains a
// miss log. A line evicted from L2 is not invalidated in L1, so L1 can
// keep holding a line that L2 no longer does.
//
// The zero value is not usable; construct with NewTwoLevel or
// NewTwoLevelFromConfig.
type TwoLevelCache struct {
	cfg TwoLevelConfig

	lineShift uint

	l1SetMask uint64
	l1Sets    []lruset.Set

	l2SetMask uint64
	l2Banks   int
	l2Sets    [][]lruset.Set

	l1ReadHits, l1WriteHits   int64
	l2ReadHits, l2WriteHits   int64
	l2ReadMisses, l2WriteMiss int64

	stats    TwoLevelStats
	computed bool

	// Logger is not consulted by any TwoLevelCache method: the
	// two-level engine has no binary dump, and its text dumps do not
	// log.
	Logger Logger
}

// NewTwoLevel constructs a TwoLevelCache from discrete parameters.
func NewTwoLevel(l1NLines, l1Ways, l2NLines, l2Ways, l2Banks, lineBytes int) (*TwoLevelCache, error) {
	return NewTwoLevelFromConfig(TwoLevelConfig{
		L1NLines:  l1NLines,
		L1Ways:    l1Ways,
		L2NLines:  l2NLines,
		L2Ways:    l2Ways,
		L2Banks:   l2Banks,
		LineBytes: lineBytes,
	})
}

// NewTwoLevelFromConfig constructs a TwoLevelCache from a
// TwoLevelConfig, running Validate first.
func NewTwoLevelFromConfig(cfg TwoLevelConfig) (*TwoLevelCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l1Sets := cfg.L1NLines / cfg.L1Ways
	l2SetsPerBank := cfg.L2NLines / cfg.L2Banks / cfg.L2Ways

	c := &TwoLevelCache{
		cfg:       cfg,
		lineShift: simint.Log2(uint64(cfg.LineBytes)),
		l1SetMask: simint.Mask(uint64(l1Sets)),
		l2SetMask: simint.Mask(uint64(l2SetsPerBank)),
		l2Banks:   cfg.L2Banks,
		l1Sets:    make([]lruset.Set, l1Sets),
		l2Sets:    make([][]lruset.Set, cfg.L2Banks),
	}
	for i := range c.l1Sets {
		c.l1Sets[i] = *lruset.New(cfg.L1Ways)
	}
	for b := range c.l2Sets {
		row := make([]lruset.Set, l2SetsPerBank)
		for s := range row {
			row[s] = *lruset.New(cfg.L2Ways)
		}
		c.l2Sets[b] = row
	}
	return c, nil
}

// Config returns the configuration the cache was constructed with.
func (c *TwoLevelCache) Config() TwoLevelConfig { return c.cfg }

func (c *TwoLevelCache) lineOf(address uint64) uint64 {
	return address >> c.lineShift
}

// Access processes one (address, is_write) memory reference against
// both levels unconditionally, classifying it as (L1 hit) else (L2
// hit) else (miss to memory). See SPEC_FULL.md §4.2 and the Open
// Questions note: both levels are always touched, matching the
// source's observed behavior.
func (c *TwoLevelCache) Access(address uint64, isWrite bool) {
	line := c.lineOf(address)

	l1Set := &c.l1Sets[line&c.l1SetMask]
	l1Hit := touchSimple(l1Set, line)

	l2Bank := int(simint.FastHash(line, uint32(c.l2Banks)))
	l2Set := &c.l2Sets[l2Bank][line&c.l2SetMask]
	l2Hit := touchSimple(l2Set, line)

	c.computed = false
	switch {
	case l1Hit:
		if isWrite {
			c.l1WriteHits++
		} else {
			c.l1ReadHits++
		}
	case l2Hit:
		if isWrite {
			c.l2WriteHits++
		} else {
			c.l2ReadHits++
		}
	default:
		if isWrite {
			c.l2WriteMiss++
		} else {
			c.l2ReadMisses++
		}
	}
}

// touchSimple is §4.1's touch hard-coded to should_admit = true, with
// no miss-log and no eviction counter; it returns the prior-membership
// boolean.
func touchSimple(set *lruset.Set, line uint64) bool {
	present := set.Contains(line)
	if present {
		set.Remove(line)
	} else if set.Full() {
		set.EvictLRU()
	}
	set.Insert(line)
	return present
}

// ZeroCounters resets counters, leaving set contents untouched.
func (c *TwoLevelCache) ZeroCounters() {
	c.l1ReadHits, c.l1WriteHits = 0, 0
	c.l2ReadHits, c.l2WriteHits = 0, 0
	c.l2ReadMisses, c.l2WriteMiss = 0, 0
	c.computed = false
	c.stats = TwoLevelStats{}
}

// ComputeStats fills the derived fields; idempotent.
func (c *TwoLevelCache) ComputeStats() {
	if c.computed {
		return
	}
	c.stats = computeTwoLevelStats(c.l1ReadHits, c.l1WriteHits, c.l2ReadHits, c.l2WriteHits, c.l2ReadMisses, c.l2WriteMiss)
	c.computed = true
}

// Stats returns a snapshot of the current counters, computing them
// first if needed.
func (c *TwoLevelCache) Stats() TwoLevelStats {
	c.ComputeStats()
	return c.stats
}

// DumpText writes the §6 three-line text format to w.
func (c *TwoLevelCache) DumpText(w io.Writer) error {
	return c.Stats().WriteText(w)
}

// DumpTextFile appends the §6 text format to the file at path.
func (c *TwoLevelCache) DumpTextFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("simcache: dump_text: %w", err)
	}
	defer f.Close()
	return c.Stats().WriteText(f)
}
