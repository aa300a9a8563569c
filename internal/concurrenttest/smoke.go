// Package concurrenttest holds the multi-goroutine smoke workload
// shared by every map variant's tests: a wave of inserting goroutines,
// then removing goroutines over half the key space, then reading
// goroutines over the other half. Test support only; not part of the
// core.
package concurrenttest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// IntMap is the minimal surface the smoke workload needs from a map
// variant, parameterized so it works for any key/value map over ints
// and strings without importing the lflist package (which would create
// an import cycle with its own tests).
type IntMap interface {
	Get(key int) (string, bool)
	Insert(key int, value string) bool
	Remove(key int) (string, bool)
}

// Smoke partitions the key space ten ways, inserts every partition from
// its own goroutine, removes half the partitions concurrently, then
// reads the surviving half back concurrently, checking every removed
// and surviving key returns the value it was inserted with.
func Smoke(t *testing.T, m IntMap, keysPerPartition int) {
	t.Helper()

	const partitions = 10

	var wg sync.WaitGroup
	for part := 0; part < partitions; part++ {
		part := part
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < keysPerPartition; k++ {
				key := k*partitions + part
				assert.True(t, m.Insert(key, fmt.Sprint(key)), "insert %d", key)
			}
		}()
	}
	wg.Wait()

	for part := 0; part < partitions/2; part++ {
		part := part
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < keysPerPartition; k++ {
				key := k*partitions + part
				v, ok := m.Remove(key)
				assert.True(t, ok, "remove %d", key)
				assert.Equal(t, fmt.Sprint(key), v)
			}
		}()
	}
	wg.Wait()

	for part := partitions / 2; part < partitions; part++ {
		part := part
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := 0; k < keysPerPartition; k++ {
				key := k*partitions + part
				v, ok := m.Get(key)
				assert.True(t, ok, "get %d", key)
				assert.Equal(t, fmt.Sprint(key), v)
			}
		}()
	}
	wg.Wait()
}
