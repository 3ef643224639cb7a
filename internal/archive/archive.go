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

// Package archive bundles a stats snapshot and a binary miss-log into
// a single zstd-compressed artifact, for off-box storage of a
// completed simulation run. This is archival convenience around the
// formats spec.md §6 mandates for dump_text/dump_binary; it neither
// replaces nor alters them, and a run that never calls Write still
// produces byte-identical dump_text/dump_binary output.
//
// File layout, before compression:
//
//	magic   [4]byte  "SCA1"
//	hdrLen  uint32   length of the JSON header, little-endian
//	header  [hdrLen]byte
//	records ...      misslog binary records, to EOF
//
// The whole layout is written through a zstd encoder, the same
// library the teacher's compr package wraps for its own blob
// compression.
package archive

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

const magic = "SCA1"

// Header is the caller-supplied metadata stored alongside the
// compressed miss log. It is deliberately untyped with respect to the
// cache package so this package never imports it back.
type Header struct {
	Config json.RawMessage `json:"config"`
	Stats  json.RawMessage `json:"stats"`
}

// MissLogWriter is satisfied by *misslog.Log; declared here instead
// of imported to keep this package's dependency graph a leaf.
type MissLogWriter interface {
	WriteBinary(w io.Writer) error
}

// Write creates (or truncates) path and writes a compressed archive
// containing header and the records produced by log.
func Write(path string, header Header, log MissLogWriter) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderConcurrency(1))
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	defer func() {
		cerr := enc.Close()
		if err == nil {
			err = cerr
		}
	}()

	hdrBytes, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encoding archive header: %w", err)
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(hdrBytes)))

	if _, err = io.WriteString(enc, magic); err != nil {
		return err
	}
	if _, err = enc.Write(lenBuf[:]); err != nil {
		return err
	}
	if _, err = enc.Write(hdrBytes); err != nil {
		return err
	}
	if err = log.WriteBinary(enc); err != nil {
		return fmt.Errorf("writing miss log: %w", err)
	}
	return nil
}

// Read decompresses path and returns its header and the raw bytes of
// its miss-log section (undecoded, since the caller already has a
// decoder for the binary record format in internal/misslog).
func Read(path string) (Header, []byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return Header{}, nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	var gotMagic [4]byte
	if _, err := io.ReadFull(dec, gotMagic[:]); err != nil {
		return Header{}, nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(gotMagic[:]) != magic {
		return Header{}, nil, fmt.Errorf("bad archive magic %q", gotMagic)
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(dec, lenBuf[:]); err != nil {
		return Header{}, nil, fmt.Errorf("reading header length: %w", err)
	}
	hdrLen := binary.LittleEndian.Uint32(lenBuf[:])

	hdrBytes := make([]byte, hdrLen)
	if _, err := io.ReadFull(dec, hdrBytes); err != nil {
		return Header{}, nil, fmt.Errorf("reading header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(hdrBytes, &header); err != nil {
		return Header{}, nil, fmt.Errorf("decoding header: %w", err)
	}

	rest, err := io.ReadAll(dec)
	if err != nil {
		return Header{}, nil, fmt.Errorf("reading miss log: %w", err)
	}
	return header, rest, nil
}
