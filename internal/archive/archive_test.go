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

package archive

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type fakeLog struct{ records []byte }

func (f fakeLog) WriteBinary(w io.Writer) error {
	_, err := w.Write(f.records)
	return err
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.sca")

	hdr := Header{Config: []byte(`{"ways":8}`), Stats: []byte(`{"read_hits":42}`)}
	log := fakeLog{records: bytes.Repeat([]byte{0xAB}, 24*3)}

	if err := Write(path, hdr, log); err != nil {
		t.Fatal(err)
	}

	gotHdr, gotRecords, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotHdr.Config) != string(hdr.Config) {
		t.Fatalf("Config = %s, want %s", gotHdr.Config, hdr.Config)
	}
	if string(gotHdr.Stats) != string(hdr.Stats) {
		t.Fatalf("Stats = %s, want %s", gotHdr.Stats, hdr.Stats)
	}
	if !bytes.Equal(gotRecords, log.records) {
		t.Fatalf("records mismatch: got %d bytes, want %d", len(gotRecords), len(log.records))
	}
}

func TestReadRejectsCorruptedArchive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.sca")
	if err := Write(path, Header{}, fakeLog{}); err != nil {
		t.Fatal(err)
	}
	// corrupt by writing garbage over it entirely (not a valid zstd
	// stream at all), exercising the error path.
	if err := writeGarbage(path); err != nil {
		t.Fatal(err)
	}
	if _, _, err := Read(path); err == nil {
		t.Fatal("expected an error reading a corrupted archive")
	}
}

func writeGarbage(path string) error {
	return os.WriteFile(path, []byte("not a zstd stream"), 0644)
}
