package lflist

import (
	"cmp"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

// Map is the shared surface every traversal variant exposes: Get,
// Insert, Remove, each pinning its own reclamation guard for the
// duration of the call. Holding a Map lets callers (or tests) run the
// same workload against any of the three variants interchangeably.
type Map[K cmp.Ordered, V any] interface {
	Get(key K) (V, bool)
	Insert(key K, value V) bool
	Remove(key K) (V, bool)
	// Close tears the underlying list down; it must not run
	// concurrently with any other method.
	Close()
}

// HarrisMap pins every operation to the batch-cleanup Harris traversal.
type HarrisMap[K cmp.Ordered, V any] struct {
	list   *List[K, V]
	domain *epoch.Domain
}

// NewHarrisMap creates an empty map backed by the Harris traversal.
func NewHarrisMap[K cmp.Ordered, V any](opts ...epoch.Option) *HarrisMap[K, V] {
	return &HarrisMap[K, V]{list: NewList[K, V](), domain: epoch.NewDomain(opts...)}
}

func (m *HarrisMap[K, V]) Get(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return harrisGet(m.list, key, g)
}

func (m *HarrisMap[K, V]) Insert(key K, value V) bool {
	g := m.domain.Pin()
	defer g.Unpin()
	return insertVia(m.list, key, value, g, harrisFind[K, V])
}

func (m *HarrisMap[K, V]) Remove(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return removeVia(m.list, key, g, harrisFind[K, V])
}

func (m *HarrisMap[K, V]) Close() { m.list.Close() }

// HarrisMichaelMap pins every operation to the per-step-cleanup
// Harris–Michael traversal.
type HarrisMichaelMap[K cmp.Ordered, V any] struct {
	list   *List[K, V]
	domain *epoch.Domain
}

// NewHarrisMichaelMap creates an empty map backed by the Harris–Michael
// traversal.
func NewHarrisMichaelMap[K cmp.Ordered, V any](opts ...epoch.Option) *HarrisMichaelMap[K, V] {
	return &HarrisMichaelMap[K, V]{list: NewList[K, V](), domain: epoch.NewDomain(opts...)}
}

func (m *HarrisMichaelMap[K, V]) Get(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return harrisMichaelGet(m.list, key, g)
}

func (m *HarrisMichaelMap[K, V]) Insert(key K, value V) bool {
	g := m.domain.Pin()
	defer g.Unpin()
	return insertVia(m.list, key, value, g, harrisMichaelFind[K, V])
}

func (m *HarrisMichaelMap[K, V]) Remove(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return removeVia(m.list, key, g, harrisMichaelFind[K, V])
}

func (m *HarrisMichaelMap[K, V]) Close() { m.list.Close() }

// HerlihyShavitMap uses the read-only Herlihy–Shavit traversal for Get
// and falls back to Harris–Michael for Insert/Remove, since a
// read-only traversal cannot safely mutate the structure.
type HerlihyShavitMap[K cmp.Ordered, V any] struct {
	list   *List[K, V]
	domain *epoch.Domain
}

// NewHerlihyShavitMap creates an empty map backed by the
// Herlihy–Shavit read-only traversal for Get.
func NewHerlihyShavitMap[K cmp.Ordered, V any](opts ...epoch.Option) *HerlihyShavitMap[K, V] {
	return &HerlihyShavitMap[K, V]{list: NewList[K, V](), domain: epoch.NewDomain(opts...)}
}

func (m *HerlihyShavitMap[K, V]) Get(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return herlihyShavitGet(m.list, key, g)
}

func (m *HerlihyShavitMap[K, V]) Insert(key K, value V) bool {
	g := m.domain.Pin()
	defer g.Unpin()
	return insertVia(m.list, key, value, g, harrisMichaelFind[K, V])
}

func (m *HerlihyShavitMap[K, V]) Remove(key K) (V, bool) {
	g := m.domain.Pin()
	defer g.Unpin()
	return removeVia(m.list, key, g, harrisMichaelFind[K, V])
}

func (m *HerlihyShavitMap[K, V]) Close() { m.list.Close() }

var (
	_ Map[int, string] = (*HarrisMap[int, string])(nil)
	_ Map[int, string] = (*HarrisMichaelMap[int, string])(nil)
	_ Map[int, string] = (*HerlihyShavitMap[int, string])(nil)
)
