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
	"os"
	"path/filepath"
	"testing"

	"sigs.k8s.io/yaml"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{NLines: 1024, Ways: 8, Banks: 4, LineBytes: 64}, false},
		{"ways not divisor", Config{NLines: 1000, Ways: 8, Banks: 4, LineBytes: 64}, true},
		{"banks not divisor", Config{NLines: 1024, Ways: 8, Banks: 5, LineBytes: 64}, true},
		{"sets not power of two", Config{NLines: 768, Ways: 8, Banks: 4, LineBytes: 64}, true},
		{"banks*sets*ways != n_lines", Config{NLines: 42, Ways: 3, Banks: 6, LineBytes: 64}, true},
		{"line_bytes not power of two", Config{NLines: 1024, Ways: 8, Banks: 4, LineBytes: 63}, true},
		{"zero ways", Config{NLines: 1024, Ways: 0, Banks: 4, LineBytes: 64}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if (err != nil) != c.wantErr {
				t.Fatalf("Validate() = %v, wantErr=%v", err, c.wantErr)
			}
			if err != nil {
				if _, ok := err.(*ConfigError); !ok {
					t.Fatalf("error is %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestTwoLevelConfigValidate(t *testing.T) {
	good := TwoLevelConfig{L1NLines: 512, L1Ways: 8, L2NLines: 1 << 20, L2Ways: 8, L2Banks: 64, LineBytes: 64}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	bad := good
	bad.L1Ways = 7
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for non-divisor L1Ways")
	} else if ce, ok := err.(*ConfigError); !ok || ce.Field != "l1_n_lines" {
		t.Fatalf("error = %v, want field l1_n_lines", err)
	}

	bad2 := good
	bad2.L2Banks = 3
	if err := bad2.Validate(); err == nil {
		t.Fatal("expected error for L2Banks not dividing L2NLines")
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	cfg := Config{NLines: 1 << 16, Ways: 8, Banks: 16, LineBytes: 64, WriteOnlyAllocate: true}
	buf, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Fatalf("LoadConfig round-trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("n_lines: 1000\nways: 8\nbanks: 4\nline_bytes: 64\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected validation error")
	}
}
