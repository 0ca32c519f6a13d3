package modlog

import (
	"sync"
	"testing"
	"time"
)

func TestTaskQueue_RunsInSubmissionOrder(t *testing.T) {
	q := NewTaskQueue(512)

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Submit("order", func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Stop()

	if len(got) != 100 {
		t.Fatalf("ran %d tasks, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
}

func TestTaskQueue_PanicDoesNotStopWorker(t *testing.T) {
	q := NewTaskQueue(16)

	ran := make(chan struct{})
	q.Submit("boom", func() { panic("boom") })
	q.Submit("after", func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("task after a panicking task never ran")
	}
	q.Stop()
}

func TestTaskQueue_SubmitAfterReturnsImmediately(t *testing.T) {
	q := NewTaskQueue(16)
	defer q.Stop()

	done := make(chan struct{})
	start := time.Now()
	q.SubmitAfter(50*time.Millisecond, "delayed", func() { close(done) })
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Fatalf("SubmitAfter blocked for %v", elapsed)
	}

	select {
	case <-done:
		if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
			t.Errorf("delayed task ran after %v, before the delay elapsed", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delayed task never ran")
	}
}

func TestTaskQueue_StopDrainsSubmittedTasks(t *testing.T) {
	q := NewTaskQueue(64)

	var mu sync.Mutex
	count := 0
	for i := 0; i < 20; i++ {
		q.Submit("drain", func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}
	q.Stop()

	if count != 20 {
		t.Errorf("drained %d tasks, want 20", count)
	}
}

func TestTaskQueue_SubmitAfterStopDrops(t *testing.T) {
	q := NewTaskQueue(16)
	q.Stop()

	// Must not panic or deadlock.
	q.Submit("late", func() { t.Error("task ran after Stop") })
	time.Sleep(10 * time.Millisecond)
}
