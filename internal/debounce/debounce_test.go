package debounce

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerCoalescesBurst(t *testing.T) {
	d := New(30 * time.Millisecond)

	var mu sync.Mutex
	var got []int
	for i := 1; i <= 5; i++ {
		d.Trigger(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{5}, got, "only the last trigger runs")
	assert.False(t, d.Pending())
}

func TestTriggerWaitsForQuietPeriod(t *testing.T) {
	d := New(50 * time.Millisecond)

	var calls atomic.Int32
	start := time.Now()
	d.Trigger(func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	assert.True(t, d.Pending())
	assert.True(t, d.Stop())
	assert.False(t, d.Stop())

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestZeroDelayRunsImmediately(t *testing.T) {
	d := New(0)

	ran := false
	d.Trigger(func() { ran = true })
	assert.True(t, ran)
	assert.False(t, d.Pending())
}

func TestSequentialBurstsEachRun(t *testing.T) {
	d := New(10 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 2*time.Millisecond)

	d.Trigger(func() { calls.Add(1) })
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 2*time.Millisecond)
}
