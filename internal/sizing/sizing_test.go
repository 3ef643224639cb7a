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

package sizing

import "testing"

func TestSuggestLineCountIsValid(t *testing.T) {
	cases := []struct {
		budget    int64
		lineBytes int
		ways      int
	}{
		{64 << 20, 64, 8},
		{1 << 20, 64, 4},
		{100, 64, 8},
		{0, 64, 8},
	}
	for _, c := range cases {
		n := SuggestLineCount(c.budget, c.lineBytes, c.ways)
		if n == 0 {
			continue
		}
		if n%c.ways != 0 {
			t.Fatalf("SuggestLineCount(%v) = %d, not divisible by ways=%d", c, n, c.ways)
		}
		sets := n / c.ways
		if sets&(sets-1) != 0 {
			t.Fatalf("SuggestLineCount(%v) = %d, sets=%d not a power of two", c, n, sets)
		}
		if int64(n)*int64(c.lineBytes) > c.budget {
			t.Fatalf("SuggestLineCount(%v) = %d exceeds budget", c, n)
		}
	}
}

func TestClamp(t *testing.T) {
	if Clamp(5, 1, 10) != 5 {
		t.Fatal("in-range value should be unchanged")
	}
	if Clamp(-5, 1, 10) != 1 {
		t.Fatal("below-range value should clamp to lo")
	}
	if Clamp(50, 1, 10) != 10 {
		t.Fatal("above-range value should clamp to hi")
	}
}
