// Package epoch implements a minimal epoch-based memory reclamation
// scheme: a Domain hands out scoped Guards via Pin, and a Guard lets its
// holder schedule a node for reclamation once no earlier-pinned Guard
// could still observe it.
//
// This is the collaborator the list package builds on; it does not know
// about nodes, keys, or values, only opaque pointers and destroy
// callbacks.
package epoch

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"
)

// bags is the number of garbage generations kept in flight at once.
// Three is the standard rotation for epoch-based reclaimers: the bag
// being filled, the bag filled one epoch ago, and the bag that is safe
// to free once the epoch advances again.
const bags = 3

const initialSlotCapacity = 8

type garbageItem struct {
	ptr     unsafe.Pointer
	destroy func(unsafe.Pointer)
}

type slot struct {
	active atomic.Bool
	local  atomic.Uint64
}

// Domain owns the global epoch counter, the pinned-guard slot table, and
// the deferred-destroy bags. The zero value is not usable; build one
// with NewDomain.
type Domain struct {
	epoch atomic.Uint64

	mu    sync.Mutex
	slots []*slot

	garbageMu sync.Mutex
	garbage   [bags][]garbageItem

	logger *zap.Logger
}

// Option configures a Domain at construction time.
type Option func(*Domain)

// WithLogger attaches a zap logger for reclamation diagnostics (epoch
// advances, garbage bag sizes). The list and map operations never log;
// only this package does, and only at Debug level. A nil logger keeps
// the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Domain) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDomain creates an empty reclamation domain at epoch 0.
func NewDomain(opts ...Option) *Domain {
	d := &Domain{
		logger: zap.NewNop(),
		slots:  make([]*slot, 0, initialSlotCapacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Guard represents "this goroutine is currently observing shared
// memory". It is produced by Pin and must be released with Unpin once
// the goroutine is done dereferencing anything it loaded while pinned.
// A Guard from Unprotected instead represents a single-threaded,
// unguarded teardown context and needs no Unpin.
type Guard struct {
	domain *Domain
	slot   *slot
}

// Pin acquires a guard for the calling goroutine. The guard is valid
// until Unpin is called; references loaded while pinned must not be
// used afterward.
func (d *Domain) Pin() *Guard {
	s := d.acquireSlot()
	s.local.Store(d.epoch.Load())
	return &Guard{domain: d, slot: s}
}

// Unprotected returns a guard usable only from a single goroutine with
// no concurrent pins outstanding, e.g. while tearing down an owned list.
// DeferDestroy on this guard runs its destroy callback immediately,
// since there is nothing to wait on.
func Unprotected() *Guard {
	return &Guard{}
}

// Unpin releases the guard, making its pinned epoch observable as
// retired and opportunistically attempting to advance the domain's
// global epoch.
func (g *Guard) Unpin() {
	if g.slot == nil {
		return
	}
	g.slot.active.Store(false)
	g.domain.tryAdvance()
}

// DeferDestroy schedules destroy(ptr) to run once no guard pinned at or
// before the current epoch could still dereference ptr. Calling it on
// an Unprotected guard runs destroy immediately.
func (g *Guard) DeferDestroy(ptr unsafe.Pointer, destroy func(unsafe.Pointer)) {
	if g.domain == nil {
		destroy(ptr)
		return
	}
	e := g.domain.epoch.Load()
	g.domain.garbageMu.Lock()
	g.domain.garbage[e%bags] = append(g.domain.garbage[e%bags], garbageItem{ptr: ptr, destroy: destroy})
	g.domain.garbageMu.Unlock()
}

func (d *Domain) acquireSlot() *slot {
	for {
		d.mu.Lock()
		slots := d.slots
		d.mu.Unlock()

		for _, s := range slots {
			if s.active.CompareAndSwap(false, true) {
				return s
			}
		}
		d.growSlots()
	}
}

func (d *Domain) growSlots() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slots = append(d.slots, &slot{})
}

// tryAdvance bumps the global epoch by one if every currently active
// slot has observed it, then reclaims the garbage bag that is now two
// epochs stale.
func (d *Domain) tryAdvance() {
	d.mu.Lock()
	slots := d.slots
	d.mu.Unlock()

	current := d.epoch.Load()
	for _, s := range slots {
		if s.active.Load() && s.local.Load() != current {
			return
		}
	}

	next := current + 1
	if !d.epoch.CompareAndSwap(current, next) {
		return
	}
	d.collect(next)
}

func (d *Domain) collect(newEpoch uint64) {
	staleBag := (newEpoch + 1) % bags

	d.garbageMu.Lock()
	items := d.garbage[staleBag]
	d.garbage[staleBag] = nil
	d.garbageMu.Unlock()

	for _, item := range items {
		item.destroy(item.ptr)
	}
	if len(items) > 0 {
		d.logger.Debug("epoch advanced", zap.Uint64("epoch", newEpoch), zap.Int("reclaimed", len(items)))
	}
}
