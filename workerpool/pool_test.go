package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmitRunsJob(t *testing.T) {
	p := NewSize(2)
	defer p.Shutdown()

	done := make(chan struct{})
	p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job never ran")
	}
}

func TestNumWorkers(t *testing.T) {
	p := NewSize(4)
	defer p.Shutdown()

	if p.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", p.NumWorkers())
	}
}

func TestShutdownDrainsQueue(t *testing.T) {
	p := NewSize(2)

	var count int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Submit(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
	}

	wg.Wait()
	p.Shutdown()

	if got := atomic.LoadInt64(&count); got != 50 {
		t.Errorf("count = %d, want 50", got)
	}
}

func TestRunBatchCoversEveryIndex(t *testing.T) {
	p := NewSize(4)
	defer p.Shutdown()

	const total = 97
	var mu sync.Mutex
	seen := make([]bool, total)

	p.RunBatch(total, p.NumWorkers(), func(_, start, end int) {
		mu.Lock()
		defer mu.Unlock()
		for i := start; i < end; i++ {
			seen[i] = true
		}
	})

	for i, ok := range seen {
		if !ok {
			t.Errorf("index %d was never covered by any block", i)
		}
	}
}

func TestRunBatchBlocksUntilAllDone(t *testing.T) {
	p := NewSize(3)
	defer p.Shutdown()

	var done int32
	p.RunBatch(10, 3, func(_, start, end int) {
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&done, 1)
	})

	if atomic.LoadInt32(&done) != 3 {
		t.Errorf("done = %d, want 3", done)
	}
}
