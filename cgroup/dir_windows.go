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

//go:build windows

// Package cgroup implements a thin read-only wrapper around the
// Linux cgroupv2 filesystem API. This file's build is for Windows
// hosts, where cgroups don't exist: every operation fails.
package cgroup

import "errors"

// Dir is an absolute directory path
// (including the mount path of the cgroup2 mountpoint).
type Dir string

// IsZero returns true if d is the zero value of Dir.
// (The zero value of Dir is not a valid cgroup directory.)
func (d Dir) IsZero() bool { return d == "" }

var errNotSupported = errors.New("cgroup: not supported on this platform")

// Root always fails outside Linux.
func Root() (Dir, error) { return "", errNotSupported }

// Self always fails outside Linux.
func Self() (Dir, error) { return "", errNotSupported }

// Sub returns a new Dir that represents a
// sub-directory of d.
func (d Dir) Sub(dir string) Dir { return d + Dir("/") + Dir(dir) }

// MemoryMax is not supported outside Linux.
func (d Dir) MemoryMax() (int64, error) { return 0, errNotSupported }
