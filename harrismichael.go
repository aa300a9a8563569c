package lflist

import (
	"cmp"
	"unsafe"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// harrisMichaelFind implements the Harris–Michael traversal: marked
// nodes are unlinked one at a time as they're encountered, rather than
// batched like harrisFind.
func harrisMichaelFind[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (bool, cursor[K, V]) {
	for {
		found, cur, ok := harrisMichaelFindInner(l, key, guard)
		if ok {
			return found, cur
		}
	}
}

func harrisMichaelFindInner[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (found bool, cur cursor[K, V], ok bool) {
	cur = cursor[K, V]{prev: &l.head, curr: l.head.Load()}

	for {
		// cur.curr is always an unmarked pointer value by the time it
		// reaches the top of this loop (assigned below with the mark
		// cleared). Re-check that *prev still observes curr before
		// trusting anything read from curr; a mismatch means the list
		// changed underneath and the whole traversal restarts.
		if cur.prev.Load() != cur.curr {
			return false, cur, false
		}

		currNode := unmark(cur.curr)
		if currNode == nil {
			return false, cur, true
		}

		next := currNode.next.Load()
		if !isMarked(next) {
			switch {
			case currNode.key < key:
				cur.prev = &currNode.next
			case currNode.key == key:
				return true, cur, true
			default:
				return false, cur, true
			}
		} else {
			cleared := unmark(next)
			if !cur.prev.CompareAndSwap(cur.curr, cleared) {
				return false, cur, false
			}
			guard.DeferDestroy(unsafe.Pointer(currNode), freeNode[K, V])
			next = cleared
		}
		cur.curr = next
	}
}

func harrisMichaelGet[K cmp.Ordered, V any](l *List[K, V], key K, guard *epoch.Guard) (V, bool) {
	return getViaFind(l, key, guard, harrisMichaelFind[K, V])
}
