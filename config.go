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
	"os"

	"sigs.k8s.io/yaml"

	"github.com/cachetrace/simcache/internal/simint"
)

// Config holds the construction parameters for a SingleLevelCache. It
// can be built directly or loaded from a YAML file with LoadConfig;
// either path runs through the same Validate.
type Config struct {
	NLines            int  `json:"n_lines" yaml:"n_lines"`
	Ways              int  `json:"ways" yaml:"ways"`
	Banks             int  `json:"banks" yaml:"banks"`
	LineBytes         int  `json:"line_bytes" yaml:"line_bytes"`
	WriteOnlyAllocate bool `json:"write_only_allocate" yaml:"write_only_allocate"`
}

// Validate checks the divisibility and power-of-two constraints from
// SPEC_FULL.md §6, returning a *ConfigError describing the first one
// violated.
func (c Config) Validate() error {
	if c.Ways <= 0 {
		return configErrorf("ways", c.Ways, "must be positive")
	}
	if c.Banks <= 0 {
		return configErrorf("banks", c.Banks, "must be positive")
	}
	if c.NLines <= 0 {
		return configErrorf("n_lines", c.NLines, "must be positive")
	}
	if !simint.IsPowerOfTwo(uint64(c.LineBytes)) {
		return configErrorf("line_bytes", c.LineBytes, "must be a power of two")
	}
	if c.NLines%c.Ways != 0 {
		return configErrorf("n_lines", c.NLines, "must be divisible by ways=%d", c.Ways)
	}
	if c.NLines%c.Banks != 0 {
		return configErrorf("n_lines", c.NLines, "must be divisible by banks=%d", c.Banks)
	}
	if (c.NLines/c.Banks)%c.Ways != 0 {
		return configErrorf("n_lines", c.NLines, "n_lines/banks=%d must be divisible by ways=%d", c.NLines/c.Banks, c.Ways)
	}
	setsPerBank := c.NLines / c.Banks / c.Ways
	if !simint.IsPowerOfTwo(uint64(setsPerBank)) {
		return configErrorf("n_lines", c.NLines, "(n_lines/banks)/ways=%d must be a power of two", setsPerBank)
	}
	return nil
}

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TwoLevelConfig holds the construction parameters for a
// TwoLevelCache. L1 is always a single bank; only L2 is banked.
type TwoLevelConfig struct {
	L1NLines  int `json:"l1_n_lines" yaml:"l1_n_lines"`
	L1Ways    int `json:"l1_ways" yaml:"l1_ways"`
	L2NLines  int `json:"l2_n_lines" yaml:"l2_n_lines"`
	L2Ways    int `json:"l2_ways" yaml:"l2_ways"`
	L2Banks   int `json:"l2_banks" yaml:"l2_banks"`
	LineBytes int `json:"line_bytes" yaml:"line_bytes"`
}

// Validate checks L1's and L2's constraints independently, plus the
// shared line_bytes constraint.
func (c TwoLevelConfig) Validate() error {
	if !simint.IsPowerOfTwo(uint64(c.LineBytes)) {
		return configErrorf("line_bytes", c.LineBytes, "must be a power of two")
	}
	l1 := Config{NLines: c.L1NLines, Ways: c.L1Ways, Banks: 1, LineBytes: c.LineBytes}
	if err := l1.validateLines(); err != nil {
		return reconfigError(err, "l1_n_lines", "l1_ways")
	}
	l2 := Config{NLines: c.L2NLines, Ways: c.L2Ways, Banks: c.L2Banks, LineBytes: c.LineBytes}
	if err := l2.validateLines(); err != nil {
		return reconfigError(err, "l2_n_lines", "l2_ways")
	}
	return nil
}

// validateLines checks only the n_lines/ways/banks constraints
// (not line_bytes), so callers composing multiple configs that share
// one line_bytes value don't get a duplicate error out of context.
func (c Config) validateLines() error {
	if c.Ways <= 0 {
		return configErrorf("ways", c.Ways, "must be positive")
	}
	if c.Banks <= 0 {
		return configErrorf("banks", c.Banks, "must be positive")
	}
	if c.NLines <= 0 {
		return configErrorf("n_lines", c.NLines, "must be positive")
	}
	if c.NLines%c.Ways != 0 {
		return configErrorf("n_lines", c.NLines, "must be divisible by ways=%d", c.Ways)
	}
	if c.NLines%c.Banks != 0 {
		return configErrorf("n_lines", c.NLines, "must be divisible by banks=%d", c.Banks)
	}
	if (c.NLines/c.Banks)%c.Ways != 0 {
		return configErrorf("n_lines", c.NLines, "n_lines/banks=%d must be divisible by ways=%d", c.NLines/c.Banks, c.Ways)
	}
	setsPerBank := c.NLines / c.Banks / c.Ways
	if !simint.IsPowerOfTwo(uint64(setsPerBank)) {
		return configErrorf("n_lines", c.NLines, "(n_lines/banks)/ways=%d must be a power of two", setsPerBank)
	}
	return nil
}

// reconfigError relabels a *ConfigError produced against a synthetic
// single-level Config so its Field names the two-level field the
// caller actually supplied.
func reconfigError(err error, nLinesField, waysField string) error {
	ce, ok := err.(*ConfigError)
	if !ok {
		return err
	}
	switch ce.Field {
	case "n_lines":
		ce.Field = nLinesField
	case "ways":
		ce.Field = waysField
	}
	return ce
}

// LoadTwoLevelConfig reads and validates a TwoLevelConfig from a YAML
// file.
func LoadTwoLevelConfig(path string) (TwoLevelConfig, error) {
	var cfg TwoLevelConfig
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
