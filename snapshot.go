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
	"encoding/json"
	"fmt"
	"io"

	"github.com/cachetrace/simcache/internal/archive"
	"github.com/cachetrace/simcache/internal/misslog"
)

// Snapshot is an immutable copy of a cache's Stats plus the
// configuration it was built from. It is constructed on demand and is
// not part of the hot path.
type Snapshot struct {
	Config Config
	Stats  Stats
}

// Snapshot computes stats if needed and returns an immutable combined
// view of them and this cache's Config.
func (c *SingleLevelCache) Snapshot() Snapshot {
	return Snapshot{Config: c.cfg, Stats: c.Stats()}
}

// TwoLevelSnapshot is the TwoLevelCache analogue of Snapshot. It
// carries no miss-log component, mirroring §4.2's "the miss-log
// mechanism is not maintained at this level".
type TwoLevelSnapshot struct {
	Config TwoLevelConfig
	Stats  TwoLevelStats
}

// Snapshot computes stats if needed and returns an immutable combined
// view of them and this cache's TwoLevelConfig.
func (c *TwoLevelCache) Snapshot() TwoLevelSnapshot {
	return TwoLevelSnapshot{Config: c.cfg, Stats: c.Stats()}
}

// MissLogEntry is one exported miss-log record: a line address and
// its accumulated read-miss/write-miss (eviction) counts. It is the
// caller-facing counterpart of internal/misslog.Entry, usable from
// outside this module as the argument to WriteArchive.
type MissLogEntry = misslog.Entry

// missLogEntries adapts a []MissLogEntry to internal/archive's
// MissLogWriter, so WriteArchive's public signature never has to name
// the internal misslog package.
type missLogEntries []MissLogEntry

func (e missLogEntries) WriteBinary(w io.Writer) error {
	return misslog.WriteEntriesBinary(w, e)
}

// WriteArchive bundles snap and missLog into a single
// zstd-compressed artifact at path, via internal/archive. This is
// archival convenience around dump_text/dump_binary; it does not
// change either format's bytes.
func WriteArchive(path string, snap Snapshot, missLog []MissLogEntry) error {
	cfgJSON, err := json.Marshal(snap.Config)
	if err != nil {
		return fmt.Errorf("simcache: archiving config: %w", err)
	}
	statsJSON, err := json.Marshal(snap.Stats)
	if err != nil {
		return fmt.Errorf("simcache: archiving stats: %w", err)
	}
	hdr := archive.Header{Config: cfgJSON, Stats: statsJSON}
	return archive.Write(path, hdr, missLogEntries(missLog))
}

// MissLog returns a snapshot of the cache's current miss-log entries,
// suitable for passing to WriteArchive. It is the same data
// DumpBinary writes; reading it does not mutate cache state.
func (c *SingleLevelCache) MissLog() []MissLogEntry { return c.log.Entries() }
