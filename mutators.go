package lflist

import (
	"cmp"
	"sync/atomic"
	"unsafe"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// insertVia allocates a node and installs it via the chosen traversal's
// find, retrying from the top on a lost CAS race. The linearization
// point is the successful install CAS.
func insertVia[K cmp.Ordered, V any](l *List[K, V], key K, value V, guard *epoch.Guard, find findFunc[K, V]) bool {
	n := &node[K, V]{key: key, value: value}

	for {
		found, cur := find(l, key, guard)
		if found {
			return false
		}

		n.next.Store(cur.curr) // n is not yet shared; no other goroutine sees this store
		if cur.prev.CompareAndSwap(cur.curr, n) {
			return true
		}
	}
}

// removeVia finds the live node for key and, if present, transitions it
// to logically deleted by CAS-setting its mark bit — the linearization
// point for Remove — then opportunistically unlinks it physically.
func removeVia[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard, find findFunc[K, V]) (V, bool) {
	for {
		found, cur := find(l, key, guard)
		if !found {
			var zero V
			return zero, false
		}

		n := unmark(cur.curr)
		value := n.value // speculative bitwise read; not yet committed

		prev, won := markNext(&n.next)
		if !won {
			// Another remover marked first; it will deliver the value.
			continue
		}

		if cur.prev.CompareAndSwap(cur.curr, unmark(prev)) {
			guard.DeferDestroy(unsafe.Pointer(n), freeNode[K, V])
		}
		// A failed unlink CAS here means a concurrent traversal will
		// physically unlink n later (or already has); either way this
		// call already owns the deletion and must deliver the value.

		return value, true
	}
}

// markNext atomically sets the mark bit on next, acting as a fetch-or-1
// since sync/atomic has no generic fetch-or on atomic.Pointer. It
// reports the pointer value observed immediately before the bit was
// set, and whether this call is the one that set it (false means some
// other remover already had).
func markNext[K cmp.Ordered, V any](next *atomic.Pointer[node[K, V]]) (*node[K, V], bool) {
	for {
		cur := next.Load()
		if isMarked(cur) {
			return cur, false
		}
		if next.CompareAndSwap(cur, mark(cur)) {
			return cur, true
		}
	}
}
