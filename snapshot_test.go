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
	"bytes"
	"path/filepath"
	"testing"

	"github.com/cachetrace/simcache/internal/archive"
	"github.com/cachetrace/simcache/internal/misslog"
)

func TestSnapshotMatchesStats(t *testing.T) {
	c, err := NewSingle(8, 8, 1, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	c.Access(0, false)
	c.Access(0, true)
	snap := c.Snapshot()
	if snap.Stats != c.Stats() {
		t.Fatalf("Snapshot().Stats = %+v, want %+v", snap.Stats, c.Stats())
	}
	if snap.Config != c.Config() {
		t.Fatalf("Snapshot().Config = %+v, want %+v", snap.Config, c.Config())
	}
}

func TestTwoLevelSnapshotMatchesStats(t *testing.T) {
	c, err := NewTwoLevel(8, 4, 64, 4, 1, 64)
	if err != nil {
		t.Fatal(err)
	}
	c.Access(0, false)
	snap := c.Snapshot()
	if snap.Stats != c.Stats() {
		t.Fatalf("Snapshot().Stats = %+v, want %+v", snap.Stats, c.Stats())
	}
}

func TestWriteArchiveRoundTrips(t *testing.T) {
	c, err := NewSingle(8, 8, 1, 64, false)
	if err != nil {
		t.Fatal(err)
	}
	c.Access(0, false)  // read miss on line 0
	c.Access(64, false) // read miss on line 1

	snap := c.Snapshot()
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sca")
	if err := WriteArchive(path, snap, c.MissLog()); err != nil {
		t.Fatal(err)
	}

	hdr, records, err := archive.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(hdr.Config) == 0 || len(hdr.Stats) == 0 {
		t.Fatalf("archive header missing fields: %+v", hdr)
	}
	entries, err := misslog.ReadBinary(bytes.NewReader(records))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("decoded %d miss-log entries, want 2", len(entries))
	}
}
