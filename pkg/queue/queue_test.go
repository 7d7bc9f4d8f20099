package queue_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/priyamehta/aarohi/pkg/queue"
)

var processed atomic.Int32

type countJob struct {
	Val string `json:"val"`
}

func (j *countJob) Handle(ctx context.Context) error {
	processed.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle(ctx context.Context) error {
	return errors.New("always fails")
}

func init() {
	queue.Register("*queue_test.countJob", func() queue.Job { return &countJob{} })
	queue.Register("*queue_test.failJob", func() queue.Job { return &failJob{} })
	queue.StartWorkers(context.Background(), 2)
}

func TestDispatchAndProcess(t *testing.T) {
	before := processed.Load()
	if err := queue.Dispatch(&countJob{Val: "hello"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for processed.Load() == before {
		if time.Now().After(deadline) {
			t.Fatal("job was not processed within 2s")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestFailedJobRecorded(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&failJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for len(queue.FailedJobs()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("expected a failed job to be recorded")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestDispatchConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			queue.Dispatch(&countJob{Val: "c"}) //nolint:errcheck
		}()
	}
	wg.Wait()
}
