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

package misslog

import (
	"bytes"
	"sort"
	"testing"
)

func TestLogCounts(t *testing.T) {
	var l Log
	l.Read(1)
	l.Read(1)
	l.Write(1)
	l.Read(2)

	entries := l.Entries()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Line < entries[j].Line })
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0] != (Entry{Line: 1, Reads: 2, Writes: 1}) {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	if entries[1] != (Entry{Line: 2, Reads: 1, Writes: 0}) {
		t.Fatalf("entries[1] = %+v", entries[1])
	}
}

func TestLogResetClearsEntries(t *testing.T) {
	var l Log
	l.Read(7)
	l.Reset()
	if l.Len() != 0 {
		t.Fatalf("Len() = %d after Reset, want 0", l.Len())
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	var l Log
	l.Read(100)
	l.Write(100)
	l.Write(200)

	var buf bytes.Buffer
	if err := l.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Line < got[j].Line })
	want := l.Entries()
	sort.Slice(want, func(i, j int) bool { return want[i].Line < want[j].Line })

	if len(got) != len(want) {
		t.Fatalf("round-trip produced %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
