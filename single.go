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
	"os"

	"github.com/cachetrace/simcache/internal/lruset"
	"github.com/cachetrace/simcache/internal/misslog"
	"github.com/cachetrace/simcache/internal/simint"
	"github.com/cachetrace/simcache/internal/topk"
)

// SingleLevelCache is one set-associative LRU cache level, partitioned
// into independent banks. See SPEC_FULL.md §4.1.
//
// The zero value is not usable; construct with NewSingle or
// NewSingleFromConfig. A SingleLevelCache is not safe for concurrent
// use: callers that want to parallelize must maintain disjoint
// per-thread instances (SPEC_FULL.md §5).
type SingleLevelCache struct {
	cfg Config

	lineShift   uint
	setMask     uint64
	banks       int
	setsPerBank int

	sets [][]lruset.Set // sets[bank][set]
	log  misslog.Log

	readHits, readMisses   int64
	writeHits, writeMisses int64
	evictions              int64

	stats    Stats
	computed bool

	// Logger receives diagnostics from DumpBinary: a failed record
	// write and a notice after each successful dump. Never consulted
	// on the hot path.
	Logger Logger
}

// NewSingle constructs a SingleLevelCache from discrete parameters,
// validating the same constraints Config.Validate checks.
func NewSingle(nLines, ways, banks, lineBytes int, allocateOnWriteOnly bool) (*SingleLevelCache, error) {
	return NewSingleFromConfig(Config{
		NLines:            nLines,
		Ways:              ways,
		Banks:             banks,
		LineBytes:         lineBytes,
		WriteOnlyAllocate: allocateOnWriteOnly,
	})
}

// NewSingleFromConfig constructs a SingleLevelCache from a Config,
// running Validate first.
func NewSingleFromConfig(cfg Config) (*SingleLevelCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setsPerBank := cfg.NLines / cfg.Banks / cfg.Ways
	c := &SingleLevelCache{
		cfg:         cfg,
		lineShift:   simint.Log2(uint64(cfg.LineBytes)),
		setMask:     simint.Mask(uint64(setsPerBank)),
		banks:       cfg.Banks,
		setsPerBank: setsPerBank,
		sets:        make([][]lruset.Set, cfg.Banks),
	}
	for b := range c.sets {
		row := make([]lruset.Set, setsPerBank)
		for s := range row {
			row[s] = *lruset.New(cfg.Ways)
		}
		c.sets[b] = row
	}
	return c, nil
}

// Config returns the configuration the cache was constructed with.
func (c *SingleLevelCache) Config() Config { return c.cfg }

func (c *SingleLevelCache) lineOf(address uint64) uint64 {
	return address >> c.lineShift
}

func (c *SingleLevelCache) setOf(line uint64) uint64 {
	return line & c.setMask
}

func (c *SingleLevelCache) bankOf(line uint64) int {
	return int(simint.FastHash(line, uint32(c.banks)))
}

// Access processes one (address, is_write) memory reference. It is
// infallible and never blocks (SPEC_FULL.md §5, §7): any inconsistency
// would be an implementation bug, not a data-driven failure.
func (c *SingleLevelCache) Access(address uint64, isWrite bool) {
	line := c.lineOf(address)
	bankIdx := c.bankOf(line)
	setIdx := c.setOf(line)
	set := &c.sets[bankIdx][setIdx]

	hit := c.touch(set, line, isWrite)
	c.computed = false

	switch {
	case isWrite && hit:
		c.writeHits++
	case isWrite && !hit:
		c.writeMisses++
	case !isWrite && hit:
		c.readHits++
	default:
		c.readMisses++
	}
}

// touch implements the §4.1 touch(S, line, is_write) contract. It
// returns the prior-membership boolean (the hit indicator).
func (c *SingleLevelCache) touch(set *lruset.Set, line uint64, isWrite bool) bool {
	present := set.Contains(line)
	shouldAdmit := !c.cfg.WriteOnlyAllocate || isWrite
	shouldUpdate := shouldAdmit || present

	if present {
		set.Remove(line)
	} else if set.Full() && shouldAdmit {
		victim := set.EvictLRU()
		c.evictions++
		c.log.Write(victim)
	}

	if shouldUpdate {
		set.Insert(line)
	}

	if !present && !isWrite {
		c.log.Read(line)
	}

	return present
}

// ZeroCounters resets counters and clears the miss log, leaving set
// contents untouched. It is the warm-up terminator of SPEC_FULL.md §4.3.
func (c *SingleLevelCache) ZeroCounters() {
	c.readHits, c.readMisses = 0, 0
	c.writeHits, c.writeMisses = 0, 0
	c.evictions = 0
	c.log.Reset()
	c.computed = false
	c.stats = Stats{}
}

// ComputeStats fills the derived fields. It is idempotent: a second
// call with no intervening Access leaves the result unchanged.
func (c *SingleLevelCache) ComputeStats() {
	if c.computed {
		return
	}
	c.stats = computeStats(c.readHits, c.readMisses, c.writeHits, c.writeMisses, c.evictions)
	c.computed = true
}

// Stats returns a snapshot of the current counters, computing them
// first if needed.
func (c *SingleLevelCache) Stats() Stats {
	c.ComputeStats()
	return c.stats
}

// DumpText writes the §6 text format to w, computing stats first if
// they are not already computed.
func (c *SingleLevelCache) DumpText(w io.Writer) error {
	return c.Stats().WriteText(w)
}

// DumpTextFile appends the §6 text format to the file at path,
// creating it if necessary.
func (c *SingleLevelCache) DumpTextFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("simcache: dump_text: %w", err)
	}
	defer f.Close()
	return c.Stats().WriteText(f)
}

// DumpBinary writes the binary miss-log format of §6 to the file at
// path, overwriting any existing contents.
func (c *SingleLevelCache) DumpBinary(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("simcache: dump_binary: %w", err)
	}
	bw := bufio.NewWriter(f)
	werr := c.log.WriteBinary(bw)
	ferr := bw.Flush()
	cerr := f.Close()
	if werr != nil {
		errorf(c.Logger, "simcache: dump_binary %s: %v", path, werr)
		return fmt.Errorf("simcache: dump_binary: %w", werr)
	}
	if ferr != nil {
		return fmt.Errorf("simcache: dump_binary: %w", ferr)
	}
	if cerr != nil {
		return fmt.Errorf("simcache: dump_binary: %w", cerr)
	}
	errorf(c.Logger, "simcache: wrote miss log to %s", path)
	return nil
}

// LineStat is one entry of a HottestLines report.
type LineStat struct {
	Line        uint64
	ReadMisses  int64
	WriteMisses int64
}

func (s LineStat) total() int64 { return s.ReadMisses + s.WriteMisses }

// HottestLines returns up to n lines ordered by ReadMisses+WriteMisses
// descending, ties broken by Line ascending for determinism. It is a
// pure read of the miss log at the time of the call and does not
// require ComputeStats.
func (c *SingleLevelCache) HottestLines(n int) []LineStat {
	if n <= 0 {
		return nil
	}
	sel := topk.New(n, func(a, b LineStat) bool {
		if a.total() != b.total() {
			return a.total() < b.total()
		}
		return a.Line > b.Line
	})
	for _, e := range c.log.Entries() {
		sel.Add(LineStat{Line: e.Line, ReadMisses: e.Reads, WriteMisses: e.Writes})
	}
	return sel.Sorted()
}
