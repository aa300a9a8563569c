package lflist

import (
	"cmp"
	"unsafe"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// harrisFind implements the Harris traversal: it returns the first node
// with key >= the search key whose own next is unmarked, and batches
// the physical unlink of any marked run it crosses into one CAS plus
// one deferred destroy per freed node.
func harrisFind[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (bool, cursor[K, V]) {
	for {
		found, cur, ok := harrisFindInner(l, key, guard)
		if ok {
			return found, cur
		}
	}
}

func harrisFindInner[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (found bool, cur cursor[K, V], ok bool) {
	cur = cursor[K, V]{prev: &l.head, curr: l.head.Load()}
	prevNext := cur.curr

search:
	for {
		currNode := unmark(cur.curr)
		if currNode == nil {
			return false, cur, true
		}

		next := currNode.next.Load()
		switch {
		case currNode.key < key:
			cur.curr = unmark(next)
			if !isMarked(next) {
				cur.prev = &currNode.next
				prevNext = next
			}
		case !isMarked(next):
			// Re-read next before trusting the break: a mark set in the
			// window since the first load means the node is mid-removal.
			recheck := currNode.next.Load()
			if isMarked(recheck) {
				return false, cur, false
			}
			found = currNode.key == key
			break search
		default:
			// next is marked on the node we would otherwise stop at:
			// it may be mid-unlink elsewhere, treat as contention.
			return false, cur, false
		}
	}

	if prevNext == cur.curr {
		return found, cur, true
	}

	if !cur.prev.CompareAndSwap(prevNext, cur.curr) {
		return false, cur, false
	}

	n := prevNext
	for {
		if unmark(n) == cur.curr {
			return found, cur, true
		}
		nd := unmark(n)
		next := nd.next.Load()
		guard.DeferDestroy(unsafe.Pointer(nd), freeNode[K, V])
		n = next
	}
}

func harrisGet[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (V, bool) {
	return getViaFind(l, key, guard, harrisFind[K, V])
}
