package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolFirstSubmitCompletes(t *testing.T) {
	pool := NewPool(1, 2, time.Minute)

	done := make(chan struct{})
	go func() {
		pool.Submit(func() {})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("submit on a fresh pool never acquired a worker")
	}
}

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(1, 2, time.Minute)

	const taskCount = 20
	var done atomic.Int64
	var wg sync.WaitGroup
	wg.Add(taskCount)
	for i := 0; i < taskCount; i++ {
		pool.Submit(func() {
			done.Add(1)
			wg.Done()
		})
	}
	wg.Wait()
	if got := done.Load(); got != taskCount {
		t.Fatalf("expected %d tasks to run, got %d", taskCount, got)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const max = 3
	pool := NewPool(1, max, time.Minute)

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup
	release := make(chan struct{})

	wg.Add(max)
	for i := 0; i < max; i++ {
		pool.Submit(func() {
			cur := inFlight.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			<-release
			inFlight.Add(-1)
			wg.Done()
		})
	}

	// All workers are busy now; the next submit must block until one frees.
	submitted := make(chan struct{})
	go func() {
		pool.Submit(func() {})
		close(submitted)
	}()
	select {
	case <-submitted:
		t.Fatalf("submit should block while pool is saturated")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	wg.Wait()
	select {
	case <-submitted:
	case <-time.After(time.Second):
		t.Fatalf("blocked submit never completed")
	}
	if got := peak.Load(); got > max {
		t.Fatalf("observed %d concurrent tasks, max is %d", got, max)
	}
}

func TestPoolRetiresIdleWorkersAboveMin(t *testing.T) {
	pool := NewPool(1, 4, 20*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(4)
	for i := 0; i < 4; i++ {
		pool.Submit(func() {
			time.Sleep(30 * time.Millisecond)
			wg.Done()
		})
	}
	wg.Wait()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pool.Running() <= 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("idle workers not retired, still running %d", pool.Running())
}
