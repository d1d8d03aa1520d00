package store

import (
	"sort"
	"time"
)

// orderedSlice keeps items sorted by a time key. Items with equal keys stay
// in insertion order.
//
// NOT THREAD-SAFE: callers hold the owning store's lock.
type orderedSlice[T any] struct {
	items  []T
	timeOf func(T) time.Time
}

func newOrderedSlice[T any](timeOf func(T) time.Time) *orderedSlice[T] {
	return &orderedSlice[T]{timeOf: timeOf}
}

// Add inserts an item after every item with a time not after its own.
func (s *orderedSlice[T]) Add(item T) {
	t := s.timeOf(item)

	// Fast path: append (common for realtime inserts)
	if n := len(s.items); n == 0 || !t.Before(s.timeOf(s.items[n-1])) {
		s.items = append(s.items, item)
		return
	}

	idx := sort.Search(len(s.items), func(i int) bool {
		return s.timeOf(s.items[i]).After(t)
	})

	var zero T
	s.items = append(s.items, zero)
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = item
}

// Window returns up to limit items in the given order. Limit 0 returns all.
// Descending windows start from the newest item; among equal times the
// later insert comes first.
func (s *orderedSlice[T]) Window(order Order, limit int) []T {
	n := len(s.items)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]T, 0, limit)
	if order == Descending {
		for i := n - 1; i >= n-limit; i-- {
			out = append(out, s.items[i])
		}
		return out
	}
	return append(out, s.items[:limit]...)
}

func (s *orderedSlice[T]) Len() int {
	return len(s.items)
}

// Reset drops every item and returns how many there were.
func (s *orderedSlice[T]) Reset() int {
	n := len(s.items)
	s.items = nil
	return n
}
