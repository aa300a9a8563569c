package epoch_test

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gaarutyunov/lflist/internal/epoch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDeferDestroyRunsAfterUnpin(t *testing.T) {
	d := epoch.NewDomain()
	g := d.Pin()

	destroyed := false
	x := 42
	g.DeferDestroy(unsafe.Pointer(&x), func(unsafe.Pointer) { destroyed = true })

	// Still pinned by another guard at the same epoch, so the bag must
	// not be freed yet even after this guard unpins.
	other := d.Pin()
	g.Unpin()
	assert.False(t, destroyed, "destroy ran before every guard at the defer epoch unpinned")

	other.Unpin()
	// other.Unpin advanced the epoch a second time (0 -> 1 -> 2), which
	// frees the bag filled at epoch 0; two more advances leave it freed.
	d.Pin().Unpin()
	d.Pin().Unpin()
	assert.True(t, destroyed, "destroy should have run once the epoch advanced past it")
}

func TestUnprotectedDestroysImmediately(t *testing.T) {
	g := epoch.Unprotected()
	ran := false
	var x int
	g.DeferDestroy(unsafe.Pointer(&x), func(unsafe.Pointer) { ran = true })
	require.True(t, ran)
}

func TestWithLoggerEmitsReclaimDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := epoch.NewDomain(epoch.WithLogger(zap.New(core)))

	g := d.Pin()
	var x int
	g.DeferDestroy(unsafe.Pointer(&x), func(unsafe.Pointer) {})
	g.Unpin()

	// A few empty pin/unpin cycles rotate the bag schedule far enough to
	// reclaim the deferred item, which is what produces the log entry.
	for i := 0; i < 3; i++ {
		d.Pin().Unpin()
	}

	assert.NotZero(t, logs.FilterMessage("epoch advanced").Len())
}

func TestConcurrentPinUnpinDoesNotRace(t *testing.T) {
	d := epoch.NewDomain()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				g := d.Pin()
				v := j
				g.DeferDestroy(unsafe.Pointer(&v), func(unsafe.Pointer) {})
				g.Unpin()
			}
		}()
	}
	wg.Wait()
}
