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

// Package misslog implements the per-line miss histogram: a mapping
// from line address to (read-miss count, write-miss count). A new
// read miss and an eviction both produce an entry here; see Log.Read
// and Log.Write.
//
// The binary encoding is a flat sequence of fixed-width records with
// no header and no record count:
//
//	record := line_address (uint64) ++ n_reads (int64) ++ n_writes (int64)
//
// in host byte order, written in the map's native (unordered)
// iteration order. Readers consume records until EOF.
package misslog

import (
	"encoding/binary"
	"io"

	"golang.org/x/exp/maps"
)

const recordSize = 8 + 8 + 8

type counts struct {
	reads  int64
	writes int64
}

// Entry is one exported miss-log record.
type Entry struct {
	Line   uint64
	Reads  int64
	Writes int64
}

// Log is a per-line read/write miss histogram. The zero value is
// ready to use.
type Log struct {
	byLine map[uint64]*counts
}

// Read records a read miss against line, creating the entry if it
// does not already exist.
func (l *Log) Read(line uint64) {
	l.entry(line).reads++
}

// Write records a write-channel event against line, creating the entry
// if it does not already exist. SingleLevelCache calls it only for an
// evicted victim (write-back accounting); write misses themselves are
// not recorded in the log.
func (l *Log) Write(line uint64) {
	l.entry(line).writes++
}

func (l *Log) entry(line uint64) *counts {
	if l.byLine == nil {
		l.byLine = make(map[uint64]*counts)
	}
	c, ok := l.byLine[line]
	if !ok {
		c = &counts{}
		l.byLine[line] = c
	}
	return c
}

// Len returns the number of distinct lines with at least one entry.
func (l *Log) Len() int { return len(l.byLine) }

// Reset clears every entry, used by zero_counters to terminate a
// warm-up phase without disturbing cache contents.
func (l *Log) Reset() {
	maps.Clear(l.byLine)
}

// Entries returns the current entries in the map's native (unordered)
// iteration order. It allocates and is not on any hot path.
func (l *Log) Entries() []Entry {
	out := make([]Entry, 0, len(l.byLine))
	for line, c := range l.byLine {
		out = append(out, Entry{Line: line, Reads: c.reads, Writes: c.writes})
	}
	return out
}

// WriteBinary encodes the log's current entries to w in the format
// documented on the package, iterating in the map's native order.
func (l *Log) WriteBinary(w io.Writer) error {
	return WriteEntriesBinary(w, l.Entries())
}

// WriteEntriesBinary encodes entries to w in the format documented on
// the package, in the order given. It is the slice-based counterpart
// to (*Log).WriteBinary, for callers that hold a previously-exported
// []Entry rather than a live Log (e.g. an archival API that can't
// expose the internal Log type across a module boundary).
func WriteEntriesBinary(w io.Writer, entries []Entry) error {
	var buf [recordSize]byte
	for _, e := range entries {
		binary.NativeEndian.PutUint64(buf[0:8], e.Line)
		binary.NativeEndian.PutUint64(buf[8:16], uint64(e.Reads))
		binary.NativeEndian.PutUint64(buf[16:24], uint64(e.Writes))
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadBinary decodes a stream previously produced by WriteBinary,
// consuming records until EOF. It exists for tests and tooling that
// need to round-trip the format; the cache engine itself never reads
// its own miss log back.
func ReadBinary(r io.Reader) ([]Entry, error) {
	var out []Entry
	var buf [recordSize]byte
	for {
		_, err := io.ReadFull(r, buf[:])
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, Entry{
			Line:   binary.NativeEndian.Uint64(buf[0:8]),
			Reads:  int64(binary.NativeEndian.Uint64(buf[8:16])),
			Writes: int64(binary.NativeEndian.Uint64(buf[16:24])),
		})
	}
}
