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

// Package topk implements a bounded top-K selector: keep the K
// "best" items seen so far out of an arbitrarily long stream,
// according to a caller-supplied ordering.
//
// The implementation keeps an indirection slice heap-ordered over a
// backing records slice, the same trick the cache.sorting package's
// Ktop uses to avoid swapping whole records during heap maintenance —
// only the small int indices move.
package topk

import "github.com/cachetrace/simcache/heap"

// TopK keeps the K best items added via Add, where "best" is defined
// by less: less(a, b) reports whether a ranks worse than b. The zero
// value is not usable; construct with New.
type TopK[T any] struct {
	limit    int
	less     func(a, b T) bool
	records  []T
	indirect []int
}

// New returns a TopK that retains at most limit items.
func New[T any](limit int, less func(a, b T) bool) *TopK[T] {
	return &TopK[T]{limit: limit, less: less}
}

func (k *TopK[T]) heapLess(i, j int) bool {
	return k.less(k.records[i], k.records[j])
}

// Add offers item to the selector. It returns true if item was
// retained (either because capacity remained, or because it
// outranked the current worst kept item).
func (k *TopK[T]) Add(item T) bool {
	if k.limit <= 0 {
		return false
	}
	if len(k.records) < k.limit {
		n := len(k.records)
		k.records = append(k.records, item)
		heap.PushSlice(&k.indirect, n, k.heapLess)
		return true
	}
	worst := k.indirect[0]
	if k.less(k.records[worst], item) {
		k.records[worst] = item
		heap.FixSlice(k.indirect, 0, k.heapLess)
		return true
	}
	return false
}

// Sorted drains the selector and returns its contents best-first. The
// selector is left holding the same items (the indirection slice used
// to drain is a copy), so Sorted may be called repeatedly.
func (k *TopK[T]) Sorted() []T {
	idx := append([]int(nil), k.indirect...)
	out := make([]T, len(idx))
	i := len(idx) - 1
	for len(idx) > 0 {
		popped := heap.PopSlice(&idx, k.heapLess)
		out[i] = k.records[popped]
		i--
	}
	return out
}
