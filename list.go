package lflist

import (
	"cmp"
	"sync/atomic"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// List is the shared lock-free ordered list every Map adapter wraps. It
// is kept sorted by key in strictly increasing order; duplicate keys
// are never permitted to coexist as live entries.
type List[K cmp.Ordered, V any] struct {
	head atomic.Pointer[node[K, V]]
}

// findFunc is the shape every traversal strategy exposes to the shared
// Insert/Remove implementation: find the first node with key >= the
// search key, reporting whether it matched exactly.
type findFunc[K cmp.Ordered, V any] func(l *List[K, V], key K, guard *epoch.Guard) (bool, cursor[K, V])

// NewList creates an empty list.
func NewList[K cmp.Ordered, V any]() *List[K, V] {
	return &List[K, V]{}
}

// Close walks the list in an unprotected, single-goroutine context and
// drops every live node's reference to its value. It must not be called
// while any other goroutine might still be operating on the list.
//
// A node whose next is marked was already extracted by a successful
// Remove and must not have its value cleared again here — clearing it
// twice wouldn't corrupt anything in a garbage-collected runtime, but
// it would contradict the "destroyed exactly once" invariant this type
// is modeled on, so the mark bit is still checked before clearing.
func (l *List[K, V]) Close() {
	curr := l.head.Load()
	for {
		n := unmark(curr)
		if n == nil {
			return
		}
		next := n.next.Load()
		if !isMarked(next) {
			var zero V
			n.value = zero
		}
		curr = next
	}
}

func getViaFind[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard, find findFunc[K, V]) (V, bool) {
	found, cur := find(l, key, guard)
	if !found {
		var zero V
		return zero, false
	}
	n := unmark(cur.curr)
	return n.value, true
}
