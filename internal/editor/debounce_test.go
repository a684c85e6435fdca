package editor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerFiresOnceAfterDelay(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })

	assert.True(t, d.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.False(t, d.Pending())
}

func TestDebouncerTrailingEdgeKeepsLatest(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var got atomic.Value
	var count int32
	for _, content := range []string{"h", "he", "hel", "hello"} {
		content := content
		d.Schedule(func() {
			atomic.AddInt32(&count, 1)
			got.Store(content)
		})
		time.Sleep(10 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&count), "only the last scheduled call may fire")
	assert.Equal(t, "hello", got.Load())
}

func TestDebouncerCancelPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)

	var fired int32
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })

	assert.True(t, d.CancelPending())
	assert.False(t, d.Pending())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))

	// Nothing armed, nothing to cancel.
	assert.False(t, d.CancelPending())
}

func TestDebouncerFlushNow(t *testing.T) {
	d := NewDebouncer(10 * time.Second)

	var fired int32
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })

	d.FlushNow()
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired), "flush runs synchronously")
	assert.False(t, d.Pending())

	// A flushed invocation must not fire again.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestDebouncerZeroDelayUsesDefault(t *testing.T) {
	d := NewDebouncer(0)
	assert.Equal(t, DefaultAutosaveDebounce, d.delay)
}
