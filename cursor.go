package lflist

import (
	"cmp"
	"sync/atomic"
)

// cursor is the result of a traversal: prev is the address of the next
// field in the last confirmed-live predecessor (or &head), and curr is
// the tagged pointer value last read from *prev. It is only valid
// within the guard that produced it.
type cursor[K cmp.Ordered, V any] struct {
	prev *atomic.Pointer[node[K, V]]
	curr *node[K, V] // may carry the mark bit; unmark before dereferencing
}
