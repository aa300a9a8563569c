package lflist

import (
	"cmp"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// herlihyShavitGet is the read-only fast path: it never unlinks a
// marked node, so it is free to walk straight through marked nodes
// rather than treating them as contention. The final equality-plus-
// unmarked check is what keeps it correct despite never cleaning up.
func herlihyShavitGet[K cmp.Ordered, V any](l *List[K, V], key K, _ *epoch.Guard) (V, bool) {
	curr := l.head.Load()
	for {
		n := unmark(curr)
		if n == nil {
			var zero V
			return zero, false
		}

		if n.key < key {
			curr = n.next.Load()
			continue
		}

		next := n.next.Load()
		if n.key == key && !isMarked(next) {
			return n.value, true
		}
		var zero V
		return zero, false
	}
}
