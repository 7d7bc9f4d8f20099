package workerpool_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/priyamehta/aarohi/pkg/workerpool"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := workerpool.New(4)
	defer p.Shutdown()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		err := p.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait: %v", err)
		}
	}
	wg.Wait()

	if got := count.Load(); got != 50 {
		t.Errorf("ran %d tasks, want 50", got)
	}
}

func TestSubmitBackpressure(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	block := make(chan struct{})
	defer close(block)

	// Occupy the single worker, then fill the buffer (4× size = 4).
	p.SubmitWait(func() { <-block }) //nolint:errcheck
	time.Sleep(20 * time.Millisecond)

	full := false
	for i := 0; i < 10; i++ {
		if err := p.Submit(func() { <-block }); errors.Is(err, workerpool.ErrPoolFull) {
			full = true
			break
		}
	}
	if !full {
		t.Error("expected ErrPoolFull once the buffer filled")
	}
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	p := workerpool.New(2)

	var done atomic.Bool
	p.SubmitWait(func() { //nolint:errcheck
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})

	p.Shutdown()
	if !done.Load() {
		t.Error("Shutdown returned before in-flight task completed")
	}

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("Submit after Shutdown = %v, want ErrPoolClosed", err)
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	p.SubmitWait(func() { panic("boom") }) //nolint:errcheck

	var ran atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	p.SubmitWait(func() { //nolint:errcheck
		defer wg.Done()
		ran.Store(true)
	})
	wg.Wait()

	if !ran.Load() {
		t.Error("worker did not survive a panicking task")
	}
}
