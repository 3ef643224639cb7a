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

//go:build linux

package sizing

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/cachetrace/simcache/cgroup"
)

// AvailableBudget returns a byte budget suitable for sizing a cache:
// the current cgroup's memory.max if one is configured, otherwise the
// host's MemAvailable from /proc/meminfo, falling back to a raw
// unix.Sysinfo syscall on kernels old enough to lack MemAvailable. It
// never errors out on a missing cgroup (not every process runs under
// one); it only errors if neither of the two fallbacks succeeds.
func AvailableBudget() (int64, error) {
	if self, err := cgroup.Self(); err == nil {
		if max, err := self.MemoryMax(); err == nil && max > 0 {
			return max, nil
		}
	}
	if avail, err := memAvailable(); err == nil {
		return avail, nil
	}
	return sysinfoFreeram()
}

func memAvailable() (int64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) >= 2 && fields[0] == "MemAvailable:" {
			kb, err := strconv.ParseInt(fields[1], 10, 64)
			if err != nil {
				return 0, fmt.Errorf("/proc/meminfo: %w", err)
			}
			return kb * 1024, nil
		}
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("/proc/meminfo: MemAvailable not found")
}

// sysinfoFreeram reads free RAM directly via the sysinfo(2) syscall,
// the same golang.org/x/sys/unix surface the teacher reaches for
// elsewhere when /proc parsing isn't available.
func sysinfoFreeram() (int64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, fmt.Errorf("sysinfo: %w", err)
	}
	unitSize := uint64(info.Unit)
	if unitSize == 0 {
		unitSize = 1
	}
	return int64(uint64(info.Freeram) * unitSize), nil
}
